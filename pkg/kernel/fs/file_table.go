// Package fs provides the per-process file table, the path-resolution
// context, and the file-creation mask. All three are shareable across
// a process's threads; each is guarded by the owning process's locks.
package fs

import (
	"errors"
	"fmt"
)

// ErrBadFd is returned for operations on a descriptor that is not
// open in the table.
var ErrBadFd = errors.New("fs: bad file descriptor")

// File is the open-file contract the table stores. The resolver layer
// above decides what backs it.
type File interface {
	Name() string
	Close() error
}

// FdFlags are per-descriptor flags. They belong to the table entry,
// not the file: dup'ed descriptors do not share them.
type FdFlags uint32

// FdCloExec marks a descriptor to close across exec.
const FdCloExec FdFlags = 1

type tableEntry struct {
	file  File
	flags FdFlags
}

// FileTable maps descriptors to open files for one process. It does
// no locking of its own; the owning process wraps it in a lock shared
// with any threads cloned into the process.
type FileTable struct {
	entries map[int32]tableEntry
}

// NewFileTable creates an empty file table.
func NewFileTable() FileTable {
	return FileTable{entries: make(map[int32]tableEntry)}
}

// NewFileTableWithStdio creates a table with stdin/stdout/stderr at
// descriptors 0..2.
func NewFileTableWithStdio() FileTable {
	t := NewFileTable()
	t.entries[0] = tableEntry{file: stdioFile("stdin")}
	t.entries[1] = tableEntry{file: stdioFile("stdout")}
	t.entries[2] = tableEntry{file: stdioFile("stderr")}
	return t
}

// Get returns the file open at fd.
func (t *FileTable) Get(fd int32) (File, error) {
	entry, ok := t.entries[fd]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadFd, fd)
	}
	return entry.file, nil
}

// Insert opens f at the lowest free descriptor and returns it.
func (t *FileTable) Insert(f File, flags FdFlags) int32 {
	fd := int32(0)
	for {
		if _, used := t.entries[fd]; !used {
			break
		}
		fd++
	}
	t.entries[fd] = tableEntry{file: f, flags: flags}
	return fd
}

// InsertAt opens f at exactly fd, returning whatever file was
// previously open there (nil if the slot was free). The caller
// decides what to do with the displaced file.
func (t *FileTable) InsertAt(fd int32, f File, flags FdFlags) File {
	var displaced File
	if old, ok := t.entries[fd]; ok {
		displaced = old.file
	}
	t.entries[fd] = tableEntry{file: f, flags: flags}
	return displaced
}

// Close removes fd from the table and closes the file.
func (t *FileTable) Close(fd int32) error {
	entry, ok := t.entries[fd]
	if !ok {
		return fmt.Errorf("%w: %d", ErrBadFd, fd)
	}
	delete(t.entries, fd)
	return entry.file.Close()
}

// Flags returns the per-descriptor flags for fd.
func (t *FileTable) Flags(fd int32) (FdFlags, error) {
	entry, ok := t.entries[fd]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrBadFd, fd)
	}
	return entry.flags, nil
}

// Len returns the number of open descriptors.
func (t *FileTable) Len() int {
	return len(t.entries)
}

// stdioFile is the boot-time backing for the standard descriptors.
type stdioFile string

func (f stdioFile) Name() string { return string(f) }
func (f stdioFile) Close() error { return nil }
