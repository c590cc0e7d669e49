package process

// ChildFilter selects which children a wait is interested in.
type ChildFilter struct {
	pid Pid // 0 means any child
}

// AnyChild matches every child.
func AnyChild() ChildFilter {
	return ChildFilter{}
}

// ChildWithPid matches only the named child.
func ChildWithPid(pid Pid) ChildFilter {
	return ChildFilter{pid: pid}
}

func (f ChildFilter) matches(pid Pid) bool {
	return f.pid == 0 || f.pid == pid
}

// WaitChild blocks until a child matching the filter becomes a
// zombie, reaps it, and returns its pid and exit code. With
// nonblocking set it returns ErrWouldBlock instead of sleeping.
// ErrNoChild is returned when no matching child exists at all.
//
// Concurrent waiters may race for the same zombie; collection removes
// the child from the children map atomically, so exactly one waiter
// reaps it and the others go back to sleep or report ErrNoChild.
func (p *Process) WaitChild(filter ChildFilter, nonblocking bool) (Pid, ExitCode, error) {
	for {
		if child, ok := p.collectZombie(filter); ok {
			code := p.releaseChild(child)
			return child.Pid(), code, nil
		}
		if !p.hasMatchingChild(filter) {
			return 0, 0, ErrNoChild
		}
		if nonblocking {
			return 0, 0, ErrWouldBlock
		}
		p.waitingChildren.WaitUntil(func() bool {
			return p.zombieReady(filter) || !p.hasMatchingChild(filter)
		})
	}
}

// collectZombie removes and returns a matching zombie child, if one
// exists. Removal happens under the children lock, so a given child
// is collected exactly once.
func (p *Process) collectZombie(filter ChildFilter) (*Process, bool) {
	g := p.children.Lock()
	defer g.Unlock()
	for pid, child := range *g.Value() {
		if !filter.matches(pid) {
			continue
		}
		sg := child.status.Lock()
		zombie := sg.Value().IsZombie()
		sg.Unlock()
		if zombie {
			delete(*g.Value(), pid)
			return child, true
		}
	}
	return nil, false
}

// zombieReady reports whether a matching zombie child is present,
// without collecting it.
func (p *Process) zombieReady(filter ChildFilter) bool {
	g := p.children.Lock()
	defer g.Unlock()
	for pid, child := range *g.Value() {
		if !filter.matches(pid) {
			continue
		}
		sg := child.status.Lock()
		zombie := sg.Value().IsZombie()
		sg.Unlock()
		if zombie {
			return true
		}
	}
	return false
}

// hasMatchingChild reports whether any child matches the filter.
func (p *Process) hasMatchingChild(filter ChildFilter) bool {
	g := p.children.Lock()
	defer g.Unlock()
	for pid := range *g.Value() {
		if filter.matches(pid) {
			return true
		}
	}
	return false
}
