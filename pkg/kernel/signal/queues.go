package signal

// Queues is process-level pending-signal storage. Standard signals do
// not stack: a kind already pending swallows further instances until
// it is dequeued. The containing process guards Queues with its own
// lock; Queues itself does no locking.
type Queues struct {
	pending []Signal
	mask    Set
}

// NewQueues creates empty pending-signal storage.
func NewQueues() Queues {
	return Queues{}
}

// Enqueue appends a signal unless one of the same kind is already
// pending. Reports whether the signal was actually queued.
func (q *Queues) Enqueue(s Signal) bool {
	if q.mask.Has(s.Kind) {
		return false
	}
	q.pending = append(q.pending, s)
	q.mask = q.mask.With(s.Kind)
	return true
}

// Dequeue removes and returns the oldest pending signal whose kind is
// in interested. Returns false if nothing matches.
func (q *Queues) Dequeue(interested Set) (Signal, bool) {
	for i, s := range q.pending {
		if interested.Has(s.Kind) {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			q.mask = q.mask.Without(s.Kind)
			return s, true
		}
	}
	return Signal{}, false
}

// Pending returns the set of kinds currently queued.
func (q *Queues) Pending() Set {
	return q.mask
}

// Empty reports whether no signals are pending.
func (q *Queues) Empty() bool {
	return len(q.pending) == 0
}

// Len returns the number of pending signals.
func (q *Queues) Len() int {
	return len(q.pending)
}
