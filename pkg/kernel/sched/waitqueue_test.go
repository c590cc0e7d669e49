package sched

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/nucleus/pkg/kernel/irq"
)

func TestWaitUntilReturnsImmediatelyWhenSatisfied(t *testing.T) {
	q := NewWaitQueue()
	done := make(chan struct{})
	go func() {
		defer irq.Detach()
		q.WaitUntil(func() bool { return true })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitUntil should not block on a true predicate")
	}
}

func TestWakeAllWakesEveryWaiter(t *testing.T) {
	const waiters = 5
	q := NewWaitQueue()

	var ready, woken atomic.Int32
	var flag atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer irq.Detach()
			ready.Add(1)
			q.WaitUntil(flag.Load)
			woken.Add(1)
		}()
	}

	for ready.Load() != waiters {
		time.Sleep(time.Millisecond)
	}
	// Mutate first, then notify: every waiter woken afterwards must
	// observe the committed state.
	flag.Store(true)
	q.WakeAll()

	wg.Wait()
	assert.Equal(t, int32(waiters), woken.Load())
}

func TestWaiterSleepsUntilPredicateHolds(t *testing.T) {
	q := NewWaitQueue()
	var state atomic.Int32
	done := make(chan struct{})

	go func() {
		defer irq.Detach()
		q.WaitUntil(func() bool { return state.Load() == 2 })
		close(done)
	}()

	// A wake without the awaited mutation sends the waiter back to
	// sleep.
	state.Store(1)
	q.WakeAll()
	select {
	case <-done:
		t.Fatal("waiter returned before its predicate held")
	case <-time.After(50 * time.Millisecond):
	}

	state.Store(2)
	q.WakeAll()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter missed the wake")
	}
}

func TestDirectSchedulerRunsInline(t *testing.T) {
	s := NewDirectScheduler()
	ran := false
	s.Schedule(runnableFunc(func() { ran = true }))
	require.True(t, ran)
}

type runnableFunc func()

func (f runnableFunc) Run() { f() }
