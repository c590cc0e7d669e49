package vm

import (
	"fmt"

	"github.com/rzbill/nucleus/pkg/kernel/spin"
)

// Default user layout: heap grows up from its base, the stack sits at
// the top of the user half.
const (
	heapBase     uintptr = 0x0000_1000_0000
	heapMaxSize  uintptr = 0x1000_0000 // 256 MiB
	stackTop     uintptr = 0x0000_8000_0000
	stackMaxSize uintptr = 8 << 20 // 8 MiB
)

// UserVM describes the heap/stack layout carved out of a process's
// root VMAR, one-to-one with the process.
type UserVM struct {
	heap  *UserHeap
	stack Range
}

// NewUserVM reserves the initial heap and stack regions in the given
// address space.
func NewUserVM(as *AddressSpace) (*UserVM, error) {
	stack := Range{Start: stackTop - stackMaxSize, End: stackTop}
	if err := as.Map(stack, "user-stack"); err != nil {
		return nil, fmt.Errorf("failed to reserve user stack: %w", err)
	}
	heap, err := newUserHeap(as)
	if err != nil {
		return nil, err
	}
	return &UserVM{heap: heap, stack: stack}, nil
}

// Heap returns the user heap.
func (v *UserVM) Heap() *UserHeap {
	return v.heap
}

// Stack returns the stack reservation.
func (v *UserVM) Stack() Range {
	return v.stack
}

// UserHeap tracks the program break inside its reserved window.
type UserHeap struct {
	base  uintptr
	limit uintptr
	end   *spin.Lock[uintptr]
}

func newUserHeap(as *AddressSpace) (*UserHeap, error) {
	window := Range{Start: heapBase, End: heapBase + heapMaxSize}
	if err := as.Map(window, "user-heap"); err != nil {
		return nil, fmt.Errorf("failed to reserve user heap: %w", err)
	}
	return &UserHeap{
		base:  window.Start,
		limit: window.End,
		end:   spin.New(window.Start),
	}, nil
}

// Base returns the heap base address.
func (h *UserHeap) Base() uintptr {
	return h.base
}

// End returns the current program break.
func (h *UserHeap) End() uintptr {
	g := h.end.Lock()
	defer g.Unlock()
	return *g.Value()
}

// Brk moves the program break. newEnd of 0 queries the current break.
// The break only grows; a newEnd at or below the current break leaves
// it unchanged and returns the current value. Growing past the heap
// window fails.
func (h *UserHeap) Brk(newEnd uintptr) (uintptr, error) {
	g := h.end.Lock()
	defer g.Unlock()
	current := *g.Value()
	if newEnd == 0 {
		return current, nil
	}
	if newEnd > h.limit {
		return 0, fmt.Errorf("vm: brk beyond heap limit %#x", h.limit)
	}
	if newEnd <= current {
		return current, nil
	}
	*g.Value() = newEnd
	return newEnd, nil
}
