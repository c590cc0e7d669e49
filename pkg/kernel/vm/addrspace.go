// Package vm provides the address-space handle (root VMAR) and the
// user heap/stack layout a process owns.
package vm

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rzbill/nucleus/pkg/kernel/spin"
)

// PageSize is the virtual page granularity.
const PageSize uintptr = 4096

// Address-space errors
var (
	// ErrNoMapping is returned when a destroy range covers no mapped
	// region.
	ErrNoMapping = errors.New("vm: no mapping in range")
	// ErrOverlap is returned when a new region overlaps an existing
	// one.
	ErrOverlap = errors.New("vm: region overlaps existing mapping")
	// ErrDestroyed is returned for any operation on a torn-down
	// address space.
	ErrDestroyed = errors.New("vm: address space destroyed")
)

// Range is a half-open [Start, End) virtual address range.
type Range struct {
	Start uintptr
	End   uintptr
}

// Len returns the size of the range in bytes.
func (r Range) Len() uintptr {
	return r.End - r.Start
}

// Contains reports whether other lies fully inside r.
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// overlaps reports whether the two half-open ranges intersect.
func (r Range) overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// AlignUp rounds n up to the next page boundary.
func AlignUp(n uintptr) uintptr {
	return (n + PageSize - 1) &^ (PageSize - 1)
}

// region is one reservation inside an address space.
type region struct {
	rng  Range
	name string
}

// AddressSpace is the root VMAR of a process: the set of reserved
// virtual regions, one-to-one with the owning process. The handle id
// identifies the VMAR to collaborators the way the teacher identifies
// instances.
type AddressSpace struct {
	id        uuid.UUID
	regions   *spin.Lock[[]region]
	destroyed atomic.Bool
}

// NewRootAddressSpace allocates a fresh, empty root VMAR.
func NewRootAddressSpace() (*AddressSpace, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate address space id: %w", err)
	}
	return &AddressSpace{
		id:      id,
		regions: spin.New([]region{}),
	}, nil
}

// ID returns the VMAR handle id.
func (a *AddressSpace) ID() uuid.UUID {
	return a.id
}

// Map reserves a page-aligned region. The range must not overlap an
// existing reservation.
func (a *AddressSpace) Map(r Range, name string) error {
	if a.destroyed.Load() {
		return ErrDestroyed
	}
	if r.Start%PageSize != 0 || r.End%PageSize != 0 || r.End <= r.Start {
		return fmt.Errorf("vm: bad range %#x-%#x", r.Start, r.End)
	}
	g := a.regions.Lock()
	defer g.Unlock()
	for _, existing := range *g.Value() {
		if existing.rng.overlaps(r) {
			return fmt.Errorf("%w: %#x-%#x", ErrOverlap, r.Start, r.End)
		}
	}
	*g.Value() = append(*g.Value(), region{rng: r, name: name})
	return nil
}

// Destroy unmaps every region fully contained in r. Unmapping a range
// that covers no region reports ErrNoMapping.
func (a *AddressSpace) Destroy(r Range) error {
	if a.destroyed.Load() {
		return ErrDestroyed
	}
	g := a.regions.Lock()
	defer g.Unlock()
	kept := (*g.Value())[:0]
	removed := 0
	for _, existing := range *g.Value() {
		if r.Contains(existing.rng) {
			removed++
			continue
		}
		kept = append(kept, existing)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %#x-%#x", ErrNoMapping, r.Start, r.End)
	}
	*g.Value() = kept
	return nil
}

// DestroyAll releases every region and marks the address space dead.
// This is called exactly once, from the reap path.
func (a *AddressSpace) DestroyAll() error {
	if !a.destroyed.CompareAndSwap(false, true) {
		return ErrDestroyed
	}
	g := a.regions.Lock()
	*g.Value() = nil
	g.Unlock()
	return nil
}

// Regions returns the number of live reservations.
func (a *AddressSpace) Regions() int {
	g := a.regions.Lock()
	defer g.Unlock()
	return len(*g.Value())
}
