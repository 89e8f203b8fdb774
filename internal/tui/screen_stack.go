package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/nomnom/internal/route"
)

// Screen is one navigable view bound to the view-state holders
type Screen interface {
	Route() route.Route

	// Init starts the screen's tasks when it is pushed
	Init() tea.Cmd

	// Resume runs when the screen becomes top again after a pop
	Resume() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Help returns key/description pairs for the footer
	Help() [][2]string
}

// Task ties background work to a screen's time on the stack
type Task struct {
	ID  int
	Ctx context.Context
}

func (t Task) target() Target { return Target{ScreenID: t.ID} }

type stackEntry struct {
	task   Task
	cancel context.CancelFunc
	screen Screen
}

// ScreenStack is the navigation back stack. The bottom screen (the list)
// is never popped. Popping a screen cancels its context.
//
//	List → Show(r1) → Edit(r1)
//	List → Create(url)   --create-->  List → Show(new)
type ScreenStack struct {
	entries []stackEntry
	nextID  int
}

// NewScreenStack creates an empty stack
func NewScreenStack() *ScreenStack {
	return &ScreenStack{}
}

// Push builds a screen with a fresh task and puts it on top
func (st *ScreenStack) Push(build func(Task) Screen) Screen {
	ctx, cancel := context.WithCancel(context.Background())
	st.nextID++
	t := Task{ID: st.nextID, Ctx: ctx}

	s := build(t)
	st.entries = append(st.entries, stackEntry{task: t, cancel: cancel, screen: s})
	return s
}

// Pop removes the top screen and cancels its tasks.
// Returns false if only the root remains.
func (st *ScreenStack) Pop() bool {
	if len(st.entries) <= 1 {
		return false
	}
	top := st.entries[len(st.entries)-1]
	top.cancel()
	st.entries = st.entries[:len(st.entries)-1]
	return true
}

// PopUpTo pops until the top screen is of kind (or only the root remains)
func (st *ScreenStack) PopUpTo(kind route.Kind) {
	for len(st.entries) > 1 && st.Top().Route().Kind != kind {
		st.Pop()
	}
}

// Top returns the focused screen
func (st *ScreenStack) Top() Screen {
	if len(st.entries) == 0 {
		return nil
	}
	return st.entries[len(st.entries)-1].screen
}

// TopTask returns the focused screen's task
func (st *ScreenStack) TopTask() Task {
	if len(st.entries) == 0 {
		return Task{}
	}
	return st.entries[len(st.entries)-1].task
}

// SetTop replaces the top screen value after an Update
func (st *ScreenStack) SetTop(s Screen) {
	if len(st.entries) > 0 {
		st.entries[len(st.entries)-1].screen = s
	}
}

// Root returns the bottom screen
func (st *ScreenStack) Root() Screen {
	if len(st.entries) == 0 {
		return nil
	}
	return st.entries[0].screen
}

// SetRoot replaces the bottom screen value after an Update
func (st *ScreenStack) SetRoot(s Screen) {
	if len(st.entries) > 0 {
		st.entries[0].screen = s
	}
}

// Len returns the number of screens on the stack
func (st *ScreenStack) Len() int {
	return len(st.entries)
}

// Paths returns the route path of every screen, bottom first
func (st *ScreenStack) Paths() []string {
	paths := make([]string, len(st.entries))
	for i, e := range st.entries {
		paths[i] = e.screen.Route().Link()
	}
	return paths
}

// Clear cancels every screen
func (st *ScreenStack) Clear() {
	for _, e := range st.entries {
		e.cancel()
	}
	st.entries = nil
}
