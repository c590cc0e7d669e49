package thread

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/nucleus/pkg/kernel/fs"
	"github.com/rzbill/nucleus/pkg/kernel/vm"
)

func newTestAddressSpace(t *testing.T) (*vm.AddressSpace, *fs.FsResolver) {
	t.Helper()
	as, err := vm.NewRootAddressSpace()
	require.NoError(t, err)
	resolver := fs.NewFsResolver()
	return as, &resolver
}

func TestNewFromExecutable(t *testing.T) {
	as, resolver := newTestAddressSpace(t)

	th, err := NewFromExecutable(5, 5, as, resolver, "/bin/true", NewImageLoader(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Tid(5), th.Tid())
	assert.Equal(t, int32(5), th.ProcessID())
	assert.Equal(t, "/bin/true", th.Name())
	assert.Equal(t, StateCreated, th.State())
	assert.Equal(t, 1, as.Regions(), "loader reserved the text segment")
}

func TestNewFromExecutableLoaderFailure(t *testing.T) {
	as, resolver := newTestAddressSpace(t)
	boom := errors.New("corrupt image")
	failing := LoaderFunc(func(*vm.AddressSpace, *fs.FsResolver, string, []string, []string) error {
		return boom
	})

	th, err := NewFromExecutable(1, 1, as, resolver, "/bin/true", failing, nil, nil)
	assert.Nil(t, th)
	assert.ErrorIs(t, err, boom)
}

func TestImageLoaderRejectsBadPath(t *testing.T) {
	as, resolver := newTestAddressSpace(t)
	err := NewImageLoader().Load(as, resolver, "/", nil, nil)
	assert.ErrorIs(t, err, ErrNoSuchExecutable)
}

func TestLifecycle(t *testing.T) {
	th := New(1, 1, "/bin/true")
	require.False(t, th.Exited())

	th.Run()
	assert.Equal(t, StateRunning, th.State())

	th.Exit()
	assert.True(t, th.Exited())

	// Run after exit must not resurrect the thread.
	th.Run()
	assert.True(t, th.Exited())
}

func TestTable(t *testing.T) {
	table := NewTable()
	th := New(7, 7, "/bin/true")

	table.Add(th)
	assert.Equal(t, 1, table.Len())

	got, ok := table.Get(7)
	require.True(t, ok)
	assert.Same(t, th, got)

	assert.Panics(t, func() { table.Add(th) }, "double registration is a kernel bug")

	table.Remove(7)
	_, ok = table.Get(7)
	assert.False(t, ok)
}

func TestIDAllocatorStartsAtOne(t *testing.T) {
	a := NewIDAllocator()
	assert.Equal(t, int32(1), a.Allocate())
	assert.Equal(t, int32(2), a.Allocate())
}

func TestCurrentBinding(t *testing.T) {
	th := New(3, 3, "/bin/true")
	Bind(th)
	defer Unbind()
	assert.Same(t, th, Current())
}

func TestCurrentUnboundPanics(t *testing.T) {
	done := make(chan bool, 1)
	go func() {
		defer func() {
			done <- recover() != nil
		}()
		Current()
	}()
	assert.True(t, <-done)
}
