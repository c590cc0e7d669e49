package sched

// Runnable is anything the scheduler can begin executing. The process
// core hands it freshly created threads.
type Runnable interface {
	Run()
}

// Scheduler is the run-queue contract the process core delegates to.
// Queue mechanics are out of scope here; the core only needs a place
// to hand a thread once its process is fully constructed.
type Scheduler interface {
	Schedule(r Runnable)
}

// DirectScheduler runs whatever it is handed immediately on the
// calling worker. It is the boot default and the test scheduler.
type DirectScheduler struct{}

var _ Scheduler = (*DirectScheduler)(nil)

// NewDirectScheduler creates a scheduler that runs threads inline.
func NewDirectScheduler() *DirectScheduler {
	return &DirectScheduler{}
}

// Schedule runs r on the calling worker.
func (s *DirectScheduler) Schedule(r Runnable) {
	r.Run()
}
