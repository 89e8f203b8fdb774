package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Home  key.Binding
	End   key.Binding
	Enter key.Binding
	Back  key.Binding

	// List actions
	New    key.Binding
	Edit   key.Binding
	Filter key.Binding
	Search key.Binding

	// Form actions
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Gallery   key.Binding
	Camera    key.Binding
	Delete    key.Binding

	// Show actions
	OpenSource key.Binding

	// Global
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new recipe"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ingredient search"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "create"),
		),
		Gallery: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "gallery"),
		),
		Camera: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "camera"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "delete"),
		),

		OpenSource: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open source"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()

// helpFor renders bindings as a help line
func helpFor(bindings ...key.Binding) [][2]string {
	pairs := make([][2]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		pairs = append(pairs, [2]string{h.Key, h.Desc})
	}
	return pairs
}
