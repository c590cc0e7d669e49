package process

import (
	"fmt"
	"sync/atomic"

	"github.com/rzbill/nucleus/pkg/kernel/fs"
	"github.com/rzbill/nucleus/pkg/kernel/sched"
	"github.com/rzbill/nucleus/pkg/kernel/signal"
	"github.com/rzbill/nucleus/pkg/kernel/spin"
	"github.com/rzbill/nucleus/pkg/kernel/thread"
	"github.com/rzbill/nucleus/pkg/kernel/vm"
	"github.com/rzbill/nucleus/pkg/log"
)

// Process is a set of threads sharing the same userspace, plus the
// per-process resources they share. Each mutable field sits behind its
// own lock so unrelated operations never serialize against each other.
//
// Ownership is a tree: the registry and a parent's children map hold
// the strong edges; parent and group references are relation-only and
// never drive destruction.
type Process struct {
	// Immutable part
	pid       Pid
	kernel    *Kernel
	userVM    *vm.UserVM
	addrSpace *vm.AddressSpace
	// waitingChildren is where this process sleeps for a child status
	// change.
	waitingChildren *sched.WaitQueue

	// Mutable part
	executablePath *spin.Lock[string]
	threads        *spin.Lock[[]*thread.Thread]
	exitCode       atomic.Int32
	status         *spin.Lock[Status]
	parent         *spin.Lock[*Process]
	children       *spin.Lock[map[Pid]*Process]
	group          *spin.Lock[*Group]
	fileTable      *spin.Lock[fs.FileTable]
	fsResolver     *spin.Lock[fs.FsResolver]
	umask          *spin.Lock[fs.CreationMask]
	limits         *spin.Lock[ResourceLimits]

	// Signal state
	sigDispositions *spin.Lock[signal.Dispositions]
	sigQueues       *spin.Lock[signal.Queues]
}

// newProcess assembles a process entity. It does not register it; the
// spawn path does that once the initial thread exists.
func newProcess(
	k *Kernel,
	pid Pid,
	parent *Process,
	executablePath string,
	userVM *vm.UserVM,
	addrSpace *vm.AddressSpace,
	fileTable *spin.Lock[fs.FileTable],
	fsResolver *spin.Lock[fs.FsResolver],
	umask *spin.Lock[fs.CreationMask],
	sigDispositions *spin.Lock[signal.Dispositions],
) *Process {
	return &Process{
		pid:             pid,
		kernel:          k,
		userVM:          userVM,
		addrSpace:       addrSpace,
		waitingChildren: sched.NewWaitQueue(),
		executablePath:  spin.New(executablePath),
		threads:         spin.New([]*thread.Thread{}),
		status:          spin.New(StatusRunnable),
		parent:          spin.New(parent),
		children:        spin.New(make(map[Pid]*Process)),
		group:           spin.New[*Group](nil),
		fileTable:       fileTable,
		fsResolver:      fsResolver,
		umask:           umask,
		limits:          spin.New(DefaultResourceLimits()),
		sigDispositions: sigDispositions,
		sigQueues:       spin.New(signal.NewQueues()),
	}
}

// Pid returns the process identifier.
func (p *Process) Pid() Pid {
	return p.pid
}

// Pgid returns the process group id, 0 if the process has no group.
func (p *Process) Pgid() Pgid {
	g := p.group.Lock()
	defer g.Unlock()
	if *g.Value() == nil {
		return 0
	}
	return (*g.Value()).Pgid()
}

// IsInitProcess reports whether this is the init process.
func (p *Process) IsInitProcess() bool {
	return p.pid == InitPid
}

// Parent returns the parent process, nil for a tree root.
func (p *Process) Parent() *Process {
	g := p.parent.Lock()
	defer g.Unlock()
	return *g.Value()
}

// SetParent replaces the parent reference; used during reparenting.
func (p *Process) SetParent(parent *Process) {
	g := p.parent.Lock()
	*g.Value() = parent
	g.Unlock()
}

// AddChild inserts a child under the children lock. The caller is
// responsible for having pointed child's parent at this process as
// part of the same logical operation.
func (p *Process) AddChild(child *Process) {
	g := p.children.Lock()
	(*g.Value())[child.Pid()] = child
	g.Unlock()
}

// HasChild reports whether any child is attached.
func (p *Process) HasChild() bool {
	g := p.children.Lock()
	defer g.Unlock()
	return len(*g.Value()) != 0
}

// SetProcessGroup moves the process to a new group: it leaves its old
// group's membership first, then adopts the new reference. Each
// group's own lock protects its membership, so the two sides are not
// one atomic transaction across groups; groups are reassigned rarely
// and no invariant depends on cross-group atomicity.
func (p *Process) SetProcessGroup(newGroup *Group) {
	g := p.group.Lock()
	old := *g.Value()
	g.Unlock()
	if old != nil {
		old.Remove(p.pid)
	}
	g = p.group.Lock()
	*g.Value() = newGroup
	g.Unlock()
}

// createAndSetGroup creates the singleton group for a fresh process
// and registers it.
func (p *Process) createAndSetGroup() {
	grp := NewGroup(p)
	p.SetProcessGroup(grp)
	p.kernel.procs.AddGroup(grp)
}

// Run hands the process's sole initial thread to the scheduler. A
// process starts with exactly one thread.
func (p *Process) Run() {
	g := p.threads.Lock()
	if len(*g.Value()) != 1 {
		n := len(*g.Value())
		g.Unlock()
		panic(fmt.Sprintf("process: run with %d threads, want exactly 1", n))
	}
	t := (*g.Value())[0]
	g.Unlock()
	// Never hold the thread lock while handing off to the scheduler.
	p.kernel.sched.Schedule(t)
}

// ExitGroup terminates the whole thread group: marks the process
// Zombie, stores the exit code, requests termination of every thread,
// moves remaining children to init, and finally signals and wakes the
// parent. The SIGCHLD enqueue commits before the wake, so a woken
// waiter that re-checks under lock always observes it.
func (p *Process) ExitGroup(code ExitCode) {
	sg := p.status.Lock()
	*sg.Value() = StatusZombie
	sg.Unlock()
	p.exitCode.Store(int32(code))

	tg := p.threads.Lock()
	for _, t := range *tg.Value() {
		t.Exit()
	}
	tg.Unlock()

	if !p.IsInitProcess() {
		if init, ok := p.kernel.InitProcess(); ok {
			p.reparentChildrenTo(init)
		}
		// Init truly missing means the kernel is already lost; the
		// children stay parentless and the condition surfaces later.
	}

	if parent := p.Parent(); parent != nil {
		parent.EnqueueSignal(signal.Kernel(signal.SIGCHLD))
		parent.waitingChildren.WakeAll()
	}

	p.kernel.logger.Debug("process exited",
		log.Int32("pid", int32(p.pid)),
		log.Int32("exit_code", int32(code)))
}

// reparentChildrenTo moves every child to the adopter. Lock order is
// fixed kernel-wide: the exiting process's children lock is taken
// before the adopter's, and each child is inserted into the adopter
// before leaving this process's map, so no child is ever owned by
// neither side.
func (p *Process) reparentChildrenTo(adopter *Process) {
	g := p.children.Lock()
	for pid, child := range *g.Value() {
		child.SetParent(adopter)
		adopter.AddChild(child)
		delete(*g.Value(), pid)
	}
	g.Unlock()
}

// ReapZombieChild frees the zombie child with the given pid and
// returns its exit code. This is the single point where a process's
// resources are actually released. Naming a pid that is not a zombie
// child of this process is a contract violation.
func (p *Process) ReapZombieChild(pid Pid) ExitCode {
	g := p.children.Lock()
	child, ok := (*g.Value())[pid]
	if !ok {
		g.Unlock()
		panic(fmt.Sprintf("process: reap of pid %d which is not a child of %d", pid, p.pid))
	}
	sg := child.status.Lock()
	zombie := sg.Value().IsZombie()
	sg.Unlock()
	if !zombie {
		g.Unlock()
		panic(fmt.Sprintf("process: reap of non-zombie child %d", pid))
	}
	delete(*g.Value(), pid)
	g.Unlock()
	return p.releaseChild(child)
}

// releaseChild tears down a child already removed from the children
// map: address space, thread registry entries, process registry entry,
// group membership. Returns the stored exit code.
func (p *Process) releaseChild(child *Process) ExitCode {
	if err := child.addrSpace.DestroyAll(); err != nil {
		panic(fmt.Sprintf("process: address space of %d destroyed twice: %v", child.pid, err))
	}
	tg := child.threads.Lock()
	for _, t := range *tg.Value() {
		p.kernel.threads.Remove(t.Tid())
	}
	tg.Unlock()
	p.kernel.procs.RemoveProcess(child.pid)

	gg := child.group.Lock()
	grp := *gg.Value()
	gg.Unlock()
	if grp != nil {
		grp.Remove(child.pid)
	}

	code := ExitCode(child.exitCode.Load())
	p.kernel.logger.Debug("reaped zombie child",
		log.Int32("pid", int32(child.pid)),
		log.Int32("exit_code", int32(code)))
	return code
}

// EnqueueSignal appends a signal to the process's pending queue. A
// zombie no longer receives signals; the call is then a no-op. This
// is the sole externally-triggered mutation of pending signals.
func (p *Process) EnqueueSignal(sig signal.Signal) {
	sg := p.status.Lock()
	zombie := sg.Value().IsZombie()
	sg.Unlock()
	if zombie {
		return
	}
	qg := p.sigQueues.Lock()
	qg.Value().Enqueue(sig)
	qg.Unlock()
}

// ExitCode returns the stored exit-group code. Meaningful once the
// process is a zombie.
func (p *Process) ExitCode() ExitCode {
	return ExitCode(p.exitCode.Load())
}

// Accessors below return handles to the lock-protected fields, not
// copies; callers do their own scoped locking.

// Status returns the status field handle.
func (p *Process) Status() *spin.Lock[Status] {
	return p.status
}

// Threads returns the thread-set handle.
func (p *Process) Threads() *spin.Lock[[]*thread.Thread] {
	return p.threads
}

// Children returns the children-map handle.
func (p *Process) Children() *spin.Lock[map[Pid]*Process] {
	return p.children
}

// ExecutablePath returns the executable-path handle.
func (p *Process) ExecutablePath() *spin.Lock[string] {
	return p.executablePath
}

// FileTable returns the file-table handle, shared with any threads
// cloned into the process.
func (p *Process) FileTable() *spin.Lock[fs.FileTable] {
	return p.fileTable
}

// Fs returns the path-resolution handle.
func (p *Process) Fs() *spin.Lock[fs.FsResolver] {
	return p.fsResolver
}

// Umask returns the file-creation-mask handle.
func (p *Process) Umask() *spin.Lock[fs.CreationMask] {
	return p.umask
}

// ResourceLimits returns the limit-table handle.
func (p *Process) ResourceLimits() *spin.Lock[ResourceLimits] {
	return p.limits
}

// SigDispositions returns the handler-disposition handle.
func (p *Process) SigDispositions() *spin.Lock[signal.Dispositions] {
	return p.sigDispositions
}

// SigQueues returns the pending-signal handle.
func (p *Process) SigQueues() *spin.Lock[signal.Queues] {
	return p.sigQueues
}

// ProcessGroup returns the group-reference handle.
func (p *Process) ProcessGroup() *spin.Lock[*Group] {
	return p.group
}

// WaitingChildren returns the queue this process sleeps on for child
// status changes.
func (p *Process) WaitingChildren() *sched.WaitQueue {
	return p.waitingChildren
}

// UserVM returns the heap/stack layout descriptor.
func (p *Process) UserVM() *vm.UserVM {
	return p.userVM
}

// AddressSpace returns the root VMAR.
func (p *Process) AddressSpace() *vm.AddressSpace {
	return p.addrSpace
}
