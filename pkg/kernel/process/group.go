package process

import (
	"sort"

	"github.com/rzbill/nucleus/pkg/kernel/spin"
)

// Group is a set of processes sharing job-control identity. The pgid
// is the pid of the leader that created the group. Membership is
// guarded by the group's own lock, independent of any process lock.
type Group struct {
	pgid    Pgid
	members *spin.Lock[map[Pid]*Process]
}

// NewGroup creates a group whose sole member and leader is p.
func NewGroup(p *Process) *Group {
	members := map[Pid]*Process{p.Pid(): p}
	return &Group{
		pgid:    Pgid(p.Pid()),
		members: spin.New(members),
	}
}

// Pgid returns the group identifier.
func (g *Group) Pgid() Pgid {
	return g.pgid
}

// Add inserts a process into the group's membership. The caller
// updates the process's own group reference; see
// Process.SetProcessGroup for the two-sided protocol.
func (g *Group) Add(p *Process) {
	guard := g.members.Lock()
	(*guard.Value())[p.Pid()] = p
	guard.Unlock()
}

// Remove drops a pid from the membership.
func (g *Group) Remove(pid Pid) {
	guard := g.members.Lock()
	delete(*guard.Value(), pid)
	guard.Unlock()
}

// Contains reports whether pid is a member.
func (g *Group) Contains(pid Pid) bool {
	guard := g.members.Lock()
	defer guard.Unlock()
	_, ok := (*guard.Value())[pid]
	return ok
}

// Len returns the number of members.
func (g *Group) Len() int {
	guard := g.members.Lock()
	defer guard.Unlock()
	return len(*guard.Value())
}

// Pids returns the member pids in ascending order.
func (g *Group) Pids() []Pid {
	guard := g.members.Lock()
	pids := make([]Pid, 0, len(*guard.Value()))
	for pid := range *guard.Value() {
		pids = append(pids, pid)
	}
	guard.Unlock()
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}
