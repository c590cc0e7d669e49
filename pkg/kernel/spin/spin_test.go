package spin

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/nucleus/pkg/kernel/irq"
)

func TestLockProtectsValue(t *testing.T) {
	l := New(0)

	g := l.Lock()
	*g.Value() = 42
	g.Unlock()

	g = l.Lock()
	assert.Equal(t, 42, *g.Value())
	g.Unlock()
}

func TestMutualExclusion(t *testing.T) {
	const (
		workers    = 8
		iterations = 1000
	)
	l := New(0)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer irq.Detach()
			for j := 0; j < iterations; j++ {
				g := l.Lock()
				*g.Value()++
				g.Unlock()
			}
		}()
	}
	wg.Wait()

	g := l.Lock()
	defer g.Unlock()
	assert.Equal(t, workers*iterations, *g.Value())
}

func TestLockMasksInterrupts(t *testing.T) {
	l := New(struct{}{})
	require.True(t, irq.LocalEnabled())

	g := l.Lock()
	assert.False(t, irq.LocalEnabled(), "critical section runs with interrupts masked")
	g.Unlock()

	assert.True(t, irq.LocalEnabled(), "unlock restores the pre-acquisition state")
}

func TestTryLockSuccessBehavesLikeLock(t *testing.T) {
	l := New(7)

	g, ok := l.TryLock()
	require.True(t, ok)
	assert.False(t, irq.LocalEnabled())
	assert.Equal(t, 7, *g.Value())
	g.Unlock()
	assert.True(t, irq.LocalEnabled())
}

func TestTryLockContentionLeavesInterruptStateAlone(t *testing.T) {
	l := New(0)

	held := make(chan *Guard[int])
	release := make(chan struct{})
	go func() {
		defer irq.Detach()
		g := l.Lock()
		held <- g
		<-release
		g.Unlock()
	}()
	<-held

	require.True(t, irq.LocalEnabled())
	g, ok := l.TryLock()
	assert.False(t, ok)
	assert.Nil(t, g)
	assert.True(t, irq.LocalEnabled(), "failed try must roll back the interrupt state taken at entry")

	close(release)
}

func TestUnlockTwicePanics(t *testing.T) {
	l := New(0)
	g := l.Lock()
	g.Unlock()
	assert.Panics(t, func() { g.Unlock() })
}

func TestUnlockOnOtherGoroutinePanics(t *testing.T) {
	l := New(0)
	g := l.Lock()

	result := make(chan bool, 1)
	go func() {
		defer func() {
			result <- recover() != nil
		}()
		g.Unlock()
	}()
	assert.True(t, <-result, "a guard is bound to the vCPU that acquired it")

	g.Unlock()
}

func TestGuardUseAfterUnlockPanics(t *testing.T) {
	l := New(0)
	g := l.Lock()
	g.Unlock()
	assert.Panics(t, func() { g.Value() })
}
