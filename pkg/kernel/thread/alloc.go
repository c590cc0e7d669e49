package thread

import "sync/atomic"

// IDAllocator hands out process and thread identifiers from one pool,
// starting at 1 so the first process spawned at boot is the init
// process.
type IDAllocator struct {
	next atomic.Int32
}

// NewIDAllocator creates an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Allocate returns the next unused id.
func (a *IDAllocator) Allocate() int32 {
	return a.next.Add(1)
}
