// Package thread provides the thread entity the process core owns,
// tid allocation, the global thread table, and the current-thread
// binding syscall handlers resolve "current process" through.
package thread

import (
	"fmt"
	"sync/atomic"

	"github.com/rzbill/nucleus/pkg/kernel/fs"
	"github.com/rzbill/nucleus/pkg/kernel/vm"
)

// Tid is a thread identifier. Pids and tids are drawn from the same
// pool, so a process's initial thread shares its pid.
type Tid int32

// State is the thread's coarse lifecycle state.
type State int32

// Thread states
const (
	StateCreated State = iota
	StateRunning
	StateExited
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Thread is one execution context inside a process. It records the
// owning process by pid; resolving the pid back to a process goes
// through the process registry, keeping this edge non-owning.
type Thread struct {
	tid   Tid
	pid   int32
	name  string
	state atomic.Int32
}

// New creates a thread owned by the process with the given pid.
func New(tid Tid, pid int32, name string) *Thread {
	return &Thread{tid: tid, pid: pid, name: name}
}

// NewFromExecutable constructs a process's initial thread by loading
// the executable into the address space through the loader contract.
// On load failure no thread exists.
func NewFromExecutable(tid Tid, pid int32, as *vm.AddressSpace, resolver *fs.FsResolver, path string, ld Loader, argv, envp []string) (*Thread, error) {
	if err := ld.Load(as, resolver, path, argv, envp); err != nil {
		return nil, fmt.Errorf("failed to load executable %q: %w", path, err)
	}
	return New(tid, pid, path), nil
}

// Tid returns the thread identifier.
func (t *Thread) Tid() Tid {
	return t.tid
}

// ProcessID returns the pid of the owning process.
func (t *Thread) ProcessID() int32 {
	return t.pid
}

// Name returns the executable path the thread was created from.
func (t *Thread) Name() string {
	return t.name
}

// State returns the current lifecycle state.
func (t *Thread) State() State {
	return State(t.state.Load())
}

// Run marks the thread running. The scheduler calls this when it
// begins executing the thread.
func (t *Thread) Run() {
	t.state.CompareAndSwap(int32(StateCreated), int32(StateRunning))
}

// Exit requests termination. It only signals intent; it does not wait
// for the thread to finish unwinding.
func (t *Thread) Exit() {
	t.state.Store(int32(StateExited))
}

// Exited reports whether the thread has terminated.
func (t *Thread) Exited() bool {
	return t.State() == StateExited
}
