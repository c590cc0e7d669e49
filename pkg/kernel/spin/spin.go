// Package spin implements the interrupt-masking spin lock protecting
// all shared kernel state.
//
// Lock ordering with interrupts mirrors acquisition order in reverse:
// interrupts are disabled before the flag is taken, and the flag is
// released before interrupts are restored.
package spin

import (
	"runtime"
	"sync/atomic"

	"github.com/rzbill/nucleus/pkg/kernel/irq"
)

// Lock is a busy-wait mutual-exclusion primitive that disables the
// local interrupt line for the duration of its critical section. It
// wraps the value it protects; the only access path is through a
// Guard.
//
// A Lock must not be acquired from a context where spinning with
// interrupts masked can deadlock against an interrupt handler needing
// the same lock. That is a usage contract, not an enforced one.
type Lock[T any] struct {
	held atomic.Bool
	val  T
}

// New creates a lock protecting val.
func New[T any](val T) *Lock[T] {
	return &Lock[T]{val: val}
}

// Lock disables local interrupts, then busy-waits until the lock is
// acquired. Go's atomic operations are sequentially consistent, which
// is the ordering this primitive wants: it is used pervasively and
// correctness beats throughput here.
func (l *Lock[T]) Lock() *Guard[T] {
	ig := irq.DisableLocal()
	for !l.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
	return &Guard[T]{lock: l, irq: ig}
}

// TryLock makes a single acquisition attempt. On success the caller
// holds the lock with interrupts masked, exactly as with Lock. On
// contention it rolls back the interrupt state taken at entry and
// returns (nil, false) without spinning.
func (l *Lock[T]) TryLock() (*Guard[T], bool) {
	ig := irq.DisableLocal()
	if l.held.CompareAndSwap(false, true) {
		return &Guard[T]{lock: l, irq: ig}, true
	}
	ig.Restore()
	return nil, false
}

// Guard grants exclusive access to the protected value until Unlock.
// It is bound to the vCPU (goroutine) that acquired it and must not be
// handed to another worker; other workers may observe the protected
// value only through the lock itself.
type Guard[T any] struct {
	lock     *Lock[T]
	irq      *irq.Guard
	released bool
}

// Value returns the protected value. Valid only until Unlock.
func (g *Guard[T]) Value() *T {
	if g.released {
		panic("spin: guard used after unlock")
	}
	return &g.lock.val
}

// Unlock releases the lock and then restores the interrupt-enable
// state recorded at acquisition. Unlocking twice, or from a different
// goroutine than the acquirer, is a kernel bug.
func (g *Guard[T]) Unlock() {
	if g.released {
		panic("spin: guard unlocked twice")
	}
	if !g.irq.OwnedByCaller() {
		panic("spin: guard unlocked on a different vCPU than acquired it")
	}
	g.released = true
	g.lock.held.Store(false)
	g.irq.Restore()
}
