package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/nucleus/pkg/log"
)

func TestTableRegistration(t *testing.T) {
	table := NewTable()
	p := &Process{pid: 5}

	table.AddProcess(p)
	got, ok := table.PidToProcess(5)
	require.True(t, ok)
	assert.Same(t, p, got)

	assert.Panics(t, func() { table.AddProcess(p) }, "a pid is never registered twice")

	table.RemoveProcess(5)
	_, ok = table.PidToProcess(5)
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestTablePidsSorted(t *testing.T) {
	table := NewTable()
	for _, pid := range []Pid{9, 2, 7} {
		table.AddProcess(&Process{pid: pid})
	}
	assert.Equal(t, []Pid{2, 7, 9}, table.Pids())
}

func TestTableGroups(t *testing.T) {
	table := NewTable()
	grp := NewGroup(&Process{pid: 3})

	table.AddGroup(grp)
	got, ok := table.PgidToGroup(3)
	require.True(t, ok)
	assert.Same(t, grp, got)

	assert.Panics(t, func() { table.AddGroup(grp) })

	table.RemoveGroup(3)
	_, ok = table.PgidToGroup(3)
	assert.False(t, ok)
}

func TestGroupMembership(t *testing.T) {
	leader := &Process{pid: 10}
	grp := NewGroup(leader)

	assert.Equal(t, Pgid(10), grp.Pgid(), "pgid is the leader's pid")
	assert.True(t, grp.Contains(10))
	assert.Equal(t, 1, grp.Len())

	grp.Add(&Process{pid: 12})
	grp.Add(&Process{pid: 11})
	assert.Equal(t, []Pid{10, 11, 12}, grp.Pids())

	grp.Remove(10)
	assert.False(t, grp.Contains(10))
	assert.Equal(t, 2, grp.Len())
}

func TestReapRemovesGroupMembership(t *testing.T) {
	k := NewKernel(WithLogger(log.NewTestLogger()))
	init, err := k.SpawnUserProcess("/sbin/init", nil, nil)
	require.NoError(t, err)
	child, err := k.SpawnUserProcess("/bin/child", nil, nil)
	require.NoError(t, err)
	child.SetParent(init)
	init.AddChild(child)

	pgid := child.Pgid()
	grp, ok := k.ProcessTable().PgidToGroup(pgid)
	require.True(t, ok)

	child.ExitGroup(0)
	init.ReapZombieChild(child.Pid())

	assert.Zero(t, grp.Len(), "reaping removes the member")
}
