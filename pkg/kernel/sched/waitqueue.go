// Package sched provides the blocking/waking facility the process core
// parks on, plus the scheduler contract it hands threads to.
package sched

import (
	"github.com/rzbill/nucleus/pkg/kernel/spin"
)

// waiter is the per-blocked-worker resume handle. The channel carries
// at most one wake; re-arming happens by re-enqueueing.
type waiter struct {
	resume chan struct{}
}

// WaitQueue lets workers sleep until another worker broadcasts a state
// change. Its internal list is protected by the interrupt-masking
// lock; the caller must hold no spin lock when blocking, since the
// wake it sleeps for may never come from a masked CPU.
type WaitQueue struct {
	waiters *spin.Lock[[]*waiter]
}

// NewWaitQueue creates an empty wait queue.
func NewWaitQueue() *WaitQueue {
	return &WaitQueue{waiters: spin.New([]*waiter{})}
}

// WakeAll resumes every worker currently blocked on the queue. Waiters
// woken here re-evaluate their predicates; spurious wakes are allowed.
func (q *WaitQueue) WakeAll() {
	g := q.waiters.Lock()
	list := *g.Value()
	*g.Value() = nil
	g.Unlock()
	for _, w := range list {
		close(w.resume)
	}
}

// WaitUntil blocks the calling worker until pred returns true. The
// predicate runs without the queue's internal lock held, so it may
// take whatever kernel locks it needs. Enqueue happens before the
// predicate check, so a wake between check and sleep is never lost.
func (q *WaitQueue) WaitUntil(pred func() bool) {
	for {
		w := &waiter{resume: make(chan struct{})}
		g := q.waiters.Lock()
		*g.Value() = append(*g.Value(), w)
		g.Unlock()

		if pred() {
			q.remove(w)
			return
		}
		<-w.resume
	}
}

// remove drops a waiter that satisfied its predicate without being
// woken. A concurrent WakeAll may already have drained the list; that
// is fine, the waiter simply ignores the extra wake.
func (q *WaitQueue) remove(w *waiter) {
	g := q.waiters.Lock()
	defer g.Unlock()
	list := *g.Value()
	for i, candidate := range list {
		if candidate == w {
			*g.Value() = append(list[:i], list[i+1:]...)
			return
		}
	}
}
