// Package tty carries the single job-control handoff the process core
// needs from the terminal layer: which process group owns the
// foreground.
package tty

import "github.com/rzbill/nucleus/pkg/kernel/spin"

// Terminal is a controlling terminal. Everything beyond foreground
// group tracking lives in the terminal subsystem proper.
type Terminal struct {
	name string
	fg   *spin.Lock[int32]
}

// NewTerminal creates a terminal with no foreground group.
func NewTerminal(name string) *Terminal {
	return &Terminal{name: name, fg: spin.New(int32(0))}
}

// Name returns the terminal name.
func (t *Terminal) Name() string {
	return t.name
}

// SetFg records pgid as the foreground process group.
func (t *Terminal) SetFg(pgid int32) {
	g := t.fg.Lock()
	*g.Value() = pgid
	g.Unlock()
}

// Fg returns the foreground process group, 0 if none.
func (t *Terminal) Fg() int32 {
	g := t.fg.Lock()
	defer g.Unlock()
	return *g.Value()
}
