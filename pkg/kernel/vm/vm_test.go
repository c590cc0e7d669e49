package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAndDestroy(t *testing.T) {
	as, err := NewRootAddressSpace()
	require.NoError(t, err)

	r := Range{Start: 0x10000, End: 0x14000}
	require.NoError(t, as.Map(r, "data"))
	assert.Equal(t, 1, as.Regions())

	require.NoError(t, as.Destroy(r))
	assert.Equal(t, 0, as.Regions())

	err = as.Destroy(r)
	assert.ErrorIs(t, err, ErrNoMapping)
}

func TestMapRejectsOverlap(t *testing.T) {
	as, err := NewRootAddressSpace()
	require.NoError(t, err)

	require.NoError(t, as.Map(Range{Start: 0x10000, End: 0x20000}, "a"))
	err = as.Map(Range{Start: 0x18000, End: 0x28000}, "b")
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestMapRejectsUnalignedRange(t *testing.T) {
	as, err := NewRootAddressSpace()
	require.NoError(t, err)
	assert.Error(t, as.Map(Range{Start: 0x10001, End: 0x14000}, "x"))
	assert.Error(t, as.Map(Range{Start: 0x14000, End: 0x10000}, "x"))
}

func TestDestroyAllIsTerminal(t *testing.T) {
	as, err := NewRootAddressSpace()
	require.NoError(t, err)
	require.NoError(t, as.Map(Range{Start: 0x10000, End: 0x14000}, "a"))

	require.NoError(t, as.DestroyAll())
	assert.ErrorIs(t, as.DestroyAll(), ErrDestroyed)
	assert.ErrorIs(t, as.Map(Range{Start: 0x20000, End: 0x24000}, "b"), ErrDestroyed)
}

func TestAddressSpaceIDsAreDistinct(t *testing.T) {
	a, err := NewRootAddressSpace()
	require.NoError(t, err)
	b, err := NewRootAddressSpace()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uintptr(0), AlignUp(0))
	assert.Equal(t, PageSize, AlignUp(1))
	assert.Equal(t, PageSize, AlignUp(PageSize))
	assert.Equal(t, 2*PageSize, AlignUp(PageSize+1))
}

func TestUserVMLayout(t *testing.T) {
	as, err := NewRootAddressSpace()
	require.NoError(t, err)

	uvm, err := NewUserVM(as)
	require.NoError(t, err)
	assert.Equal(t, 2, as.Regions(), "heap and stack reservations")
	assert.Equal(t, uvm.Heap().Base(), uvm.Heap().End(), "heap starts empty")
	assert.NotZero(t, uvm.Stack().Len())
}

func TestBrk(t *testing.T) {
	as, err := NewRootAddressSpace()
	require.NoError(t, err)
	uvm, err := NewUserVM(as)
	require.NoError(t, err)
	heap := uvm.Heap()

	// Query.
	end, err := heap.Brk(0)
	require.NoError(t, err)
	assert.Equal(t, heap.Base(), end)

	// Grow.
	want := heap.Base() + 3*PageSize
	end, err = heap.Brk(want)
	require.NoError(t, err)
	assert.Equal(t, want, end)
	assert.Equal(t, want, heap.End())

	// The break never moves backwards.
	end, err = heap.Brk(heap.Base())
	require.NoError(t, err)
	assert.Equal(t, want, end)

	// Growing past the window fails and leaves the break alone.
	_, err = heap.Brk(^uintptr(0))
	assert.Error(t, err)
	assert.Equal(t, want, heap.End())
}
