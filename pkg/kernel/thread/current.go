package thread

import (
	"sync"

	"github.com/rzbill/nucleus/pkg/kernel/irq"
)

// The current-thread binding maps worker goroutines to the thread
// they are executing, the way a real kernel keeps the running thread
// in per-CPU storage. Syscall handlers resolve "current process" from
// here via the process registry.
var (
	bindMu  sync.Mutex
	current = make(map[uint64]*Thread)
)

// Bind associates the calling goroutine with t until Unbind.
func Bind(t *Thread) {
	bindMu.Lock()
	defer bindMu.Unlock()
	current[irq.GoroutineID()] = t
}

// Unbind clears the calling goroutine's thread association.
func Unbind() {
	bindMu.Lock()
	defer bindMu.Unlock()
	delete(current, irq.GoroutineID())
}

// Current returns the thread bound to the calling goroutine. Calling
// it from an unbound goroutine is a kernel bug: every syscall path
// runs on a worker that entered through a thread.
func Current() *Thread {
	bindMu.Lock()
	defer bindMu.Unlock()
	t, ok := current[irq.GoroutineID()]
	if !ok {
		panic("thread: current goroutine is not executing a thread")
	}
	return t
}
