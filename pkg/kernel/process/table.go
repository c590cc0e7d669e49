package process

import (
	"fmt"
	"sort"

	"github.com/rzbill/nucleus/pkg/kernel/spin"
)

// Table is the kernel-wide pid → process and pgid → group registry.
// It is created at boot, lives for the kernel's lifetime, and is the
// root of the strong-ownership tree: a process is reachable for as
// long as it is registered (plus, while parented, through its
// parent's children map).
type Table struct {
	procs  *spin.Lock[map[Pid]*Process]
	groups *spin.Lock[map[Pgid]*Group]
}

// NewTable creates an empty registry.
func NewTable() *Table {
	return &Table{
		procs:  spin.New(make(map[Pid]*Process)),
		groups: spin.New(make(map[Pgid]*Group)),
	}
}

// AddProcess registers a process. Pid collisions are a kernel bug:
// the allocator never reissues a live id.
func (t *Table) AddProcess(p *Process) {
	g := t.procs.Lock()
	defer g.Unlock()
	if _, exists := (*g.Value())[p.Pid()]; exists {
		panic(fmt.Sprintf("process: pid %d registered twice", p.Pid()))
	}
	(*g.Value())[p.Pid()] = p
}

// RemoveProcess drops a pid from the registry.
func (t *Table) RemoveProcess(pid Pid) {
	g := t.procs.Lock()
	defer g.Unlock()
	delete(*g.Value(), pid)
}

// PidToProcess resolves a pid.
func (t *Table) PidToProcess(pid Pid) (*Process, bool) {
	g := t.procs.Lock()
	defer g.Unlock()
	p, ok := (*g.Value())[pid]
	return p, ok
}

// Pids returns all registered pids in ascending order.
func (t *Table) Pids() []Pid {
	g := t.procs.Lock()
	pids := make([]Pid, 0, len(*g.Value()))
	for pid := range *g.Value() {
		pids = append(pids, pid)
	}
	g.Unlock()
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}

// Len returns the number of registered processes.
func (t *Table) Len() int {
	g := t.procs.Lock()
	defer g.Unlock()
	return len(*g.Value())
}

// AddGroup registers a process group.
func (t *Table) AddGroup(grp *Group) {
	g := t.groups.Lock()
	defer g.Unlock()
	if _, exists := (*g.Value())[grp.Pgid()]; exists {
		panic(fmt.Sprintf("process: pgid %d registered twice", grp.Pgid()))
	}
	(*g.Value())[grp.Pgid()] = grp
}

// RemoveGroup drops a pgid from the registry.
func (t *Table) RemoveGroup(pgid Pgid) {
	g := t.groups.Lock()
	defer g.Unlock()
	delete(*g.Value(), pgid)
}

// PgidToGroup resolves a pgid.
func (t *Table) PgidToGroup(pgid Pgid) (*Group, bool) {
	g := t.groups.Lock()
	defer g.Unlock()
	grp, ok := (*g.Value())[pgid]
	return grp, ok
}
