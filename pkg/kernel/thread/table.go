package thread

import (
	"fmt"

	"github.com/rzbill/nucleus/pkg/kernel/spin"
)

// Table is the global tid → thread registry. It lives for the kernel's
// lifetime and is handed to consumers explicitly.
type Table struct {
	threads *spin.Lock[map[Tid]*Thread]
}

// NewTable creates an empty thread table.
func NewTable() *Table {
	return &Table{threads: spin.New(make(map[Tid]*Thread))}
}

// Add registers a thread. Registering a tid twice is a kernel bug.
func (t *Table) Add(th *Thread) {
	g := t.threads.Lock()
	defer g.Unlock()
	if _, exists := (*g.Value())[th.Tid()]; exists {
		panic(fmt.Sprintf("thread: tid %d registered twice", th.Tid()))
	}
	(*g.Value())[th.Tid()] = th
}

// Remove drops a thread from the registry.
func (t *Table) Remove(tid Tid) {
	g := t.threads.Lock()
	defer g.Unlock()
	delete(*g.Value(), tid)
}

// Get resolves a tid.
func (t *Table) Get(tid Tid) (*Thread, bool) {
	g := t.threads.Lock()
	defer g.Unlock()
	th, ok := (*g.Value())[tid]
	return th, ok
}

// Len returns the number of registered threads.
func (t *Table) Len() int {
	g := t.threads.Lock()
	defer g.Unlock()
	return len(*g.Value())
}
