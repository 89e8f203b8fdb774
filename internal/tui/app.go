package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/nomnom/internal/domain"
	"github.com/mmcdole/nomnom/internal/importflow"
	"github.com/mmcdole/nomnom/internal/route"
	"github.com/mmcdole/nomnom/internal/store"
	"github.com/mmcdole/nomnom/internal/tui/styles"
	"github.com/mmcdole/nomnom/internal/viewstate"
)

// ChromeHeight is the header plus the footer line
const ChromeHeight = 3

// URLOpener opens a URL outside the terminal
type URLOpener interface {
	Open(url string) error
}

// Deps are the holders and collaborators the screens bind to
type Deps struct {
	List   *viewstate.List
	Edit   *viewstate.Edit
	Import *importflow.Flow
	Images domain.ImageLoader // Optional; resolves image references on the show screen
	Opener URLOpener          // Optional

	Notifications  <-chan string // Collaborator notifications shown as status
	StatusDuration time.Duration
	TemplateURL    string // Prefilled in the new recipe dialog
	Logger         *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	deps  *Deps
	stack *ScreenStack
	sub   *store.Subscription

	width  int
	height int
	ready  bool

	status      string
	statusIsErr bool
	statusSeq   int
}

// NewModel creates the model with the list at the bottom of the stack and
// startPath (if not the list) pushed above it
func NewModel(deps Deps, startPath string) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.StatusDuration <= 0 {
		deps.StatusDuration = 3 * time.Second
	}

	m := Model{
		deps:  &deps,
		stack: NewScreenStack(),
		sub:   deps.List.Subscribe(),
	}
	m.stack.Push(func(t Task) Screen { return NewListScreen(m.deps, t) })

	if startPath != "" && startPath != route.ListLink() {
		if _, err := m.push(startPath); err != nil {
			m.setStatus(err.Error(), true)
		}
	}
	return m
}

// Stack exposes the navigation stack
func (m Model) Stack() *ScreenStack {
	return m.stack
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		WaitForRecipesCmd(m.sub),
		WaitForNotificationCmd(m.deps.Notifications),
		m.stack.Root().Init(),
	}
	if m.stack.Len() > 1 {
		cmds = append(cmds, m.stack.Top().Init())
	}
	if m.status != "" {
		cmds = append(cmds, ClearStatusCmd(m.deps.StatusDuration, m.statusSeq))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.shutdown()
			return m, tea.Quit
		}
		return m.forward(msg)

	case RecipesChangedMsg:
		// The list is always the root and stays live while covered
		root, _ := m.stack.Root().Update(msg)
		m.stack.SetRoot(root)
		return m, WaitForRecipesCmd(m.sub)

	case NotificationMsg:
		cmd := m.setStatus(msg.Message, true)
		return m, tea.Batch(cmd, WaitForNotificationCmd(m.deps.Notifications))

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.status = ""
			m.statusIsErr = false
		}
		return m, nil

	case NavigateMsg:
		return m, m.navigate(msg)

	case BackMsg:
		if m.stack.Pop() {
			return m, m.stack.Top().Resume()
		}
		return m, nil

	case screenMsg:
		if msg.targetScreen() != m.stack.TopTask().ID {
			m.deps.Logger.Debug("dropping result for inactive screen",
				"screen", msg.targetScreen(), "type", fmt.Sprintf("%T", msg))
			return m, nil
		}
	}

	return m.forward(msg)
}

// forward hands msg to the focused screen
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	top := m.stack.Top()
	if top == nil {
		return m, nil
	}
	next, cmd := top.Update(msg)
	m.stack.SetTop(next)
	return m, cmd
}

func (m *Model) setStatus(message string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = message
	m.statusIsErr = isErr
	return ClearStatusCmd(m.deps.StatusDuration, m.statusSeq)
}

// navigate resolves a link through the route table and updates the stack
func (m *Model) navigate(msg NavigateMsg) tea.Cmd {
	r, err := route.Parse(msg.Path)
	if err != nil {
		m.deps.Logger.Error("navigation failed", "path", msg.Path, "error", err)
		return m.setStatus(err.Error(), true)
	}
	if (r.Kind == route.Show || r.Kind == route.Edit) && !r.HasID() {
		return m.setStatus(fmt.Sprintf("%s: %q has no recipe id", domain.ErrUnknownRoute, msg.Path), true)
	}

	if msg.PopUpToList || r.Kind == route.List {
		m.stack.PopUpTo(route.List)
	}

	top := m.stack.Top()
	if r.Kind == route.List || (msg.SingleTop && top.Route().Link() == r.Link()) {
		return top.Resume()
	}

	s, err := m.push(msg.Path)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	return s.Init()
}

// push builds the screen for path on top of the stack
func (m *Model) push(path string) (Screen, error) {
	r, err := route.Parse(path)
	if err != nil {
		return nil, err
	}

	var build func(Task) Screen
	switch r.Kind {
	case route.Create:
		build = func(t Task) Screen { return NewCreateScreen(m.deps, t, r) }
	case route.Show, route.Edit:
		if !r.HasID() {
			return nil, fmt.Errorf("%w: %q has no recipe id", domain.ErrUnknownRoute, path)
		}
		if r.Kind == route.Show {
			build = func(t Task) Screen { return NewShowScreen(m.deps, t, r) }
			break
		}
		build = func(t Task) Screen { return NewEditScreen(m.deps, t, r) }
	default:
		return nil, errors.New("the list is always at the bottom of the stack")
	}

	m.deps.Logger.Debug("push screen", "path", path, "depth", m.stack.Len()+1)
	return m.stack.Push(build), nil
}

func (m *Model) shutdown() {
	m.stack.Clear()
	m.sub.Close()
}

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	top := m.stack.Top()
	bodyHeight := max(m.height-ChromeHeight, 1)

	header := styles.HeaderStyle.Render("nomnom") + " " +
		styles.DimStyle.Render(top.Route().Kind.String())

	body := styles.ScreenStyle.
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(top.View(max(m.width-4, 10), max(bodyHeight-2, 1)))

	var footer string
	switch {
	case m.status != "" && m.statusIsErr:
		footer = styles.StatusErrorStyle.Render(m.status)
	case m.status != "":
		footer = styles.StatusStyle.Render(m.status)
	default:
		footer = styles.RenderHelp(top.Help()...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer)
}
