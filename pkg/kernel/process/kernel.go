package process

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rzbill/nucleus/pkg/kernel/fs"
	"github.com/rzbill/nucleus/pkg/kernel/sched"
	"github.com/rzbill/nucleus/pkg/kernel/signal"
	"github.com/rzbill/nucleus/pkg/kernel/spin"
	"github.com/rzbill/nucleus/pkg/kernel/thread"
	"github.com/rzbill/nucleus/pkg/kernel/tty"
	"github.com/rzbill/nucleus/pkg/kernel/vm"
	"github.com/rzbill/nucleus/pkg/log"
)

// InitPid is the pid of the init process, the first process spawned
// at boot and the adopter of orphaned children.
const InitPid Pid = 1

// Kernel is the boot-time composition root of the process core: the
// registries, the terminal, the loader and scheduler contracts, and
// id allocation. Every consumer receives state through it; there are
// no package globals.
type Kernel struct {
	logger   log.Logger
	procs    *Table
	threads  *thread.Table
	terminal *tty.Terminal
	loader   thread.Loader
	sched    sched.Scheduler
	ids      *thread.IDAllocator
	bootID   uuid.UUID
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the kernel logger.
func WithLogger(logger log.Logger) Option {
	return func(k *Kernel) {
		k.logger = logger
	}
}

// WithLoader sets the executable loader.
func WithLoader(ld thread.Loader) Option {
	return func(k *Kernel) {
		k.loader = ld
	}
}

// WithScheduler sets the scheduler threads are handed to.
func WithScheduler(s sched.Scheduler) Option {
	return func(k *Kernel) {
		k.sched = s
	}
}

// WithTerminal sets the controlling terminal.
func WithTerminal(t *tty.Terminal) Option {
	return func(k *Kernel) {
		k.terminal = t
	}
}

// NewKernel boots an empty process core.
func NewKernel(options ...Option) *Kernel {
	k := &Kernel{
		logger:   log.NewLogger(),
		procs:    NewTable(),
		threads:  thread.NewTable(),
		terminal: tty.NewTerminal("n_tty"),
		loader:   thread.NewImageLoader(),
		sched:    sched.NewDirectScheduler(),
		ids:      thread.NewIDAllocator(),
		bootID:   uuid.New(),
	}
	for _, option := range options {
		option(k)
	}
	k.logger = k.logger.WithComponent("process")
	return k
}

// BootID identifies this kernel instance.
func (k *Kernel) BootID() uuid.UUID {
	return k.bootID
}

// ProcessTable returns the pid/pgid registry.
func (k *Kernel) ProcessTable() *Table {
	return k.procs
}

// ThreadTable returns the tid registry.
func (k *Kernel) ThreadTable() *thread.Table {
	return k.threads
}

// Terminal returns the controlling terminal.
func (k *Kernel) Terminal() *tty.Terminal {
	return k.terminal
}

// InitProcess returns the init process, if booted.
func (k *Kernel) InitProcess() (*Process, bool) {
	return k.procs.PidToProcess(InitPid)
}

// CurrentProcess resolves the process owning the thread bound to the
// calling worker. A worker without a registered owning process is a
// kernel bug.
func (k *Kernel) CurrentProcess() *Process {
	t := thread.Current()
	p, ok := k.procs.PidToProcess(Pid(t.ProcessID()))
	if !ok {
		panic(fmt.Sprintf("process: current thread %d does not belong to a registered process", t.Tid()))
	}
	return p
}

// SpawnUserProcess creates a process from an executable, registers it,
// makes its fresh singleton group the terminal foreground group, and
// hands its initial thread to the scheduler. The path must be
// absolute; a relative path is a caller bug, not a runtime condition.
//
// Creation is atomic-or-nothing from the registry's point of view: on
// any failure nothing remains registered or reachable.
func (k *Kernel) SpawnUserProcess(executablePath string, argv, envp []string) (*Process, error) {
	if !strings.HasPrefix(executablePath, "/") {
		panic(fmt.Sprintf("process: spawn requires an absolute path, got %q", executablePath))
	}
	p, err := k.createUserProcess(executablePath, argv, envp)
	if err != nil {
		return nil, err
	}
	k.terminal.SetFg(int32(p.Pgid()))
	p.Run()
	k.logger.Info("spawned user process",
		log.Int32("pid", int32(p.Pid())),
		log.Int32("pgid", int32(p.Pgid())),
		log.Str("path", executablePath))
	return p, nil
}

func (k *Kernel) createUserProcess(executablePath string, argv, envp []string) (*Process, error) {
	addrSpace, err := vm.NewRootAddressSpace()
	if err != nil {
		return nil, fmt.Errorf("failed to create address space: %w", err)
	}
	userVM, err := vm.NewUserVM(addrSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out user vm: %w", err)
	}

	pid := Pid(k.ids.Allocate())
	p := newProcess(k, pid, nil, executablePath, userVM, addrSpace,
		spin.New(fs.NewFileTableWithStdio()),
		spin.New(fs.NewFsResolver()),
		spin.New(fs.NewCreationMask()),
		spin.New(signal.NewDispositions()),
	)

	rg := p.fsResolver.Lock()
	th, err := thread.NewFromExecutable(thread.Tid(pid), int32(pid), addrSpace, rg.Value(), executablePath, k.loader, argv, envp)
	rg.Unlock()
	if err != nil {
		// The process object exists but was never registered; tear
		// down the address space and let it go unreachable.
		_ = addrSpace.DestroyAll()
		return nil, fmt.Errorf("failed to create initial thread: %w", err)
	}

	tg := p.threads.Lock()
	*tg.Value() = append(*tg.Value(), th)
	tg.Unlock()

	p.createAndSetGroup()
	k.procs.AddProcess(p)
	k.threads.Add(th)
	return p, nil
}
