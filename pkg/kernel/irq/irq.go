// Package irq models the local interrupt line of a virtual CPU.
//
// Each worker goroutine acts as a vCPU with its own interrupt-enable
// flag. Disabling the line returns a guard that restores the exact
// prior state, so nested disables unwind correctly. Interrupt state is
// a per-CPU concept: a guard must be restored on the goroutine that
// took it.
package irq

import (
	"fmt"
	"sync"
)

// vcpu is the per-goroutine interrupt state. Only the owning goroutine
// reads or writes enabled, so no atomics are needed on it.
type vcpu struct {
	goid    uint64
	enabled bool
}

var (
	mu    sync.Mutex
	vcpus = make(map[uint64]*vcpu)
)

// currentVCPU returns the calling goroutine's vCPU, creating it with
// interrupts enabled on first use.
func currentVCPU() *vcpu {
	id := goroutineID()
	mu.Lock()
	defer mu.Unlock()
	c, ok := vcpus[id]
	if !ok {
		c = &vcpu{goid: id, enabled: true}
		vcpus[id] = c
	}
	return c
}

// Detach forgets the calling goroutine's vCPU state. Workers that are
// about to terminate call this so the vCPU table does not grow without
// bound in long-running simulations.
func Detach() {
	id := goroutineID()
	mu.Lock()
	defer mu.Unlock()
	delete(vcpus, id)
}

// LocalEnabled reports whether the calling goroutine's local interrupt
// line is currently enabled.
func LocalEnabled() bool {
	return currentVCPU().enabled
}

// Guard records the interrupt-enable state captured by DisableLocal so
// it can be restored later.
type Guard struct {
	cpu        *vcpu
	wasEnabled bool
	restored   bool
}

// DisableLocal disables the calling goroutine's local interrupt line
// and returns a guard holding the prior enable state.
func DisableLocal() *Guard {
	c := currentVCPU()
	g := &Guard{cpu: c, wasEnabled: c.enabled}
	c.enabled = false
	return g
}

// OwnedByCaller reports whether the calling goroutine is the vCPU the
// guard was taken on.
func (g *Guard) OwnedByCaller() bool {
	return goroutineID() == g.cpu.goid
}

// Restore puts the local interrupt line back into the state it had
// when the guard was taken. Restoring twice, or from a different
// goroutine than the one that took the guard, is a kernel bug.
func (g *Guard) Restore() {
	if g.restored {
		panic("irq: guard restored twice")
	}
	if !g.OwnedByCaller() {
		panic(fmt.Sprintf("irq: guard for vCPU %d restored on vCPU %d", g.cpu.goid, goroutineID()))
	}
	g.restored = true
	g.cpu.enabled = g.wasEnabled
}
