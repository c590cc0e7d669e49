// Package syscalls holds the thin glue between the syscall boundary
// and the process core: validate arguments, resolve the current
// process, delegate under the right lock.
package syscalls

import (
	"github.com/rzbill/nucleus/pkg/kernel/fs"
	"github.com/rzbill/nucleus/pkg/kernel/process"
	"github.com/rzbill/nucleus/pkg/kernel/vm"
)

// Dup duplicates oldFd at the lowest free descriptor. The two
// descriptors do not share the close-on-exec flag.
func Dup(k *process.Kernel, oldFd int32) (int32, error) {
	current := k.CurrentProcess()
	g := current.FileTable().Lock()
	defer g.Unlock()
	file, err := g.Value().Get(oldFd)
	if err != nil {
		return 0, err
	}
	return g.Value().Insert(file, 0), nil
}

// Dup2 duplicates oldFd at exactly newFd. If newFd was previously
// open, the displaced file is closed silently.
func Dup2(k *process.Kernel, oldFd, newFd int32) (int32, error) {
	current := k.CurrentProcess()
	g := current.FileTable().Lock()
	defer g.Unlock()
	file, err := g.Value().Get(oldFd)
	if err != nil {
		return 0, err
	}
	if oldFd != newFd {
		if displaced := g.Value().InsertAt(newFd, file, 0); displaced != nil {
			_ = displaced.Close()
		}
	}
	return newFd, nil
}

// Munmap destroys the mappings in [addr, addr+length), with length
// rounded up to the page size.
func Munmap(k *process.Kernel, addr, length uintptr) error {
	current := k.CurrentProcess()
	length = vm.AlignUp(length)
	return current.AddressSpace().Destroy(vm.Range{Start: addr, End: addr + length})
}

// Brk moves the program break to newEnd and returns the resulting
// break; newEnd of 0 queries it.
func Brk(k *process.Kernel, newEnd uintptr) (uintptr, error) {
	current := k.CurrentProcess()
	return current.UserVM().Heap().Brk(newEnd)
}

// Umask replaces the file-creation mask and returns the previous one.
func Umask(k *process.Kernel, mask uint16) uint16 {
	current := k.CurrentProcess()
	g := current.Umask().Lock()
	defer g.Unlock()
	return uint16(g.Value().Set(fs.CreationMask(mask)))
}
