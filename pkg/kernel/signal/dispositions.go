package signal

// Action is what a process has asked to happen when a signal of some
// kind is eventually interpreted.
type Action int32

// Disposition actions
const (
	ActionDefault Action = iota
	ActionIgnore
	ActionHandler
)

// Disposition pairs an action with the user handler token it applies,
// meaningful only for ActionHandler.
type Disposition struct {
	Action  Action
	Handler uintptr
}

// Dispositions is the per-process handler table, shared across a
// process's threads under fork/clone semantics. The containing
// process guards it with its own lock.
type Dispositions struct {
	table map[Kind]Disposition
}

// NewDispositions creates a table with every kind at its default.
func NewDispositions() Dispositions {
	return Dispositions{table: make(map[Kind]Disposition)}
}

// Get returns the disposition for a kind, defaulting when unset.
func (d *Dispositions) Get(k Kind) Disposition {
	return d.table[k]
}

// Set records a disposition and returns the previous one. SIGKILL and
// SIGSTOP cannot be reassigned; attempting to is a caller bug.
func (d *Dispositions) Set(k Kind, disp Disposition) Disposition {
	if k == SIGKILL || k == SIGSTOP {
		panic("signal: " + k.String() + " disposition cannot be changed")
	}
	old := d.table[k]
	d.table[k] = disp
	return old
}

// Reset puts a kind back to its default action.
func (d *Dispositions) Reset(k Kind) {
	delete(d.table, k)
}
