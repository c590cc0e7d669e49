package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDequeue(t *testing.T) {
	q := NewQueues()
	require.True(t, q.Empty())

	require.True(t, q.Enqueue(Kernel(SIGCHLD)))
	require.True(t, q.Enqueue(User(SIGTERM, 42)))

	s, ok := q.Dequeue(SetOf(SIGCHLD))
	require.True(t, ok)
	assert.Equal(t, SIGCHLD, s.Kind)
	assert.Equal(t, SourceKernel, s.Source)

	s, ok = q.Dequeue(SetOf(SIGTERM))
	require.True(t, ok)
	assert.Equal(t, int32(42), s.Sender)
	assert.True(t, q.Empty())
}

func TestStandardSignalsDoNotStack(t *testing.T) {
	q := NewQueues()
	require.True(t, q.Enqueue(Kernel(SIGCHLD)))
	assert.False(t, q.Enqueue(Kernel(SIGCHLD)), "a pending kind swallows further instances")
	assert.Equal(t, 1, q.Len())

	_, ok := q.Dequeue(SetOf(SIGCHLD))
	require.True(t, ok)
	assert.True(t, q.Enqueue(Kernel(SIGCHLD)), "dequeue re-arms the kind")
}

func TestDequeueRespectsInterestMask(t *testing.T) {
	q := NewQueues()
	q.Enqueue(Kernel(SIGCHLD))

	_, ok := q.Dequeue(SetOf(SIGTERM, SIGINT))
	assert.False(t, ok)
	assert.Equal(t, 1, q.Len(), "uninterested dequeue leaves the queue alone")
}

func TestDequeueIsFIFOWithinMask(t *testing.T) {
	q := NewQueues()
	q.Enqueue(Kernel(SIGTERM))
	q.Enqueue(Kernel(SIGINT))

	s, ok := q.Dequeue(SetOf(SIGTERM, SIGINT))
	require.True(t, ok)
	assert.Equal(t, SIGTERM, s.Kind, "oldest matching signal first")
}

func TestSetOperations(t *testing.T) {
	s := SetOf(SIGCHLD, SIGTERM)
	assert.True(t, s.Has(SIGCHLD))
	assert.False(t, s.Has(SIGKILL))
	assert.False(t, s.Without(SIGCHLD).Has(SIGCHLD))
	assert.True(t, Set(0).Empty())
}

func TestDispositions(t *testing.T) {
	d := NewDispositions()
	assert.Equal(t, ActionDefault, d.Get(SIGTERM).Action)

	old := d.Set(SIGTERM, Disposition{Action: ActionIgnore})
	assert.Equal(t, ActionDefault, old.Action)
	assert.Equal(t, ActionIgnore, d.Get(SIGTERM).Action)

	d.Reset(SIGTERM)
	assert.Equal(t, ActionDefault, d.Get(SIGTERM).Action)
}

func TestKillAndStopDispositionsAreFixed(t *testing.T) {
	d := NewDispositions()
	assert.Panics(t, func() { d.Set(SIGKILL, Disposition{Action: ActionIgnore}) })
	assert.Panics(t, func() { d.Set(SIGSTOP, Disposition{Action: ActionIgnore}) })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "SIGCHLD", SIGCHLD.String())
	assert.Equal(t, "SIG(63)", Kind(63).String())
}
