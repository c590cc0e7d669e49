package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTableStdio(t *testing.T) {
	table := NewFileTableWithStdio()
	assert.Equal(t, 3, table.Len())

	for fd, name := range map[int32]string{0: "stdin", 1: "stdout", 2: "stderr"} {
		f, err := table.Get(fd)
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}
}

func TestInsertPicksLowestFreeDescriptor(t *testing.T) {
	table := NewFileTableWithStdio()
	fd := table.Insert(stdioFile("a"), 0)
	assert.Equal(t, int32(3), fd)

	require.NoError(t, table.Close(1))
	fd = table.Insert(stdioFile("b"), 0)
	assert.Equal(t, int32(1), fd, "a freed low slot is reused first")
}

func TestInsertAtDisplaces(t *testing.T) {
	table := NewFileTableWithStdio()

	displaced := table.InsertAt(1, stdioFile("replacement"), 0)
	require.NotNil(t, displaced)
	assert.Equal(t, "stdout", displaced.Name())

	displaced = table.InsertAt(9, stdioFile("high"), 0)
	assert.Nil(t, displaced)

	f, err := table.Get(9)
	require.NoError(t, err)
	assert.Equal(t, "high", f.Name())
}

func TestGetAndCloseUnknownFd(t *testing.T) {
	table := NewFileTable()
	_, err := table.Get(5)
	assert.ErrorIs(t, err, ErrBadFd)
	assert.ErrorIs(t, table.Close(5), ErrBadFd)
}

func TestFdFlagsArePerDescriptor(t *testing.T) {
	table := NewFileTable()
	fd := table.Insert(stdioFile("f"), FdCloExec)
	flags, err := table.Flags(fd)
	require.NoError(t, err)
	assert.Equal(t, FdCloExec, flags)

	f, _ := table.Get(fd)
	dup := table.Insert(f, 0)
	flags, err = table.Flags(dup)
	require.NoError(t, err)
	assert.Zero(t, flags, "dup'ed descriptors do not share flags")
}

func TestResolver(t *testing.T) {
	r := NewFsResolver()
	assert.Equal(t, "/", r.Cwd())
	assert.Equal(t, "/etc/passwd", r.Resolve("/etc/passwd"))
	assert.Equal(t, "/etc/passwd", r.Resolve("etc/passwd"))

	require.NoError(t, r.SetCwd("/home/user"))
	assert.Equal(t, "/home/user/notes", r.Resolve("notes"))
	assert.Equal(t, "/home/notes", r.Resolve("../notes"))

	assert.Error(t, r.SetCwd("relative/path"))
}

func TestCreationMask(t *testing.T) {
	m := NewCreationMask()
	assert.Equal(t, DefaultCreationMask, m)
	assert.Equal(t, uint16(0o644), m.Apply(0o666))

	old := m.Set(0o077)
	assert.Equal(t, DefaultCreationMask, old)
	assert.Equal(t, uint16(0o700), m.Apply(0o777))
}
