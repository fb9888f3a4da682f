package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Form navigation
	Enter key.Binding
	Tab   key.Binding

	// Board actions
	Up          key.Binding
	Down        key.Binding
	CycleStatus key.Binding
	EditNotes   key.Binding
	AddRoom     key.Binding
	Filter      key.Binding
	Setup       key.Binding
}

var keys = keyMap{
	// Global navigation
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back/cancel"),
	),

	// Form navigation
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "next field"),
	),

	// Board actions
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous room"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next room"),
	),
	CycleStatus: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "cycle status"),
	),
	EditNotes: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit notes"),
	),
	AddRoom: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add room"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "cycle employee filter"),
	),
	Setup: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "change board"),
	),
}

// FullHelp returns all keybindings for the help view
func (k keyMap) FullHelp() []key.Binding {
	return []key.Binding{
		k.Quit,
		k.Back,
		k.Up,
		k.Down,
		k.CycleStatus,
		k.EditNotes,
		k.AddRoom,
		k.Filter,
		k.Setup,
	}
}

// ShortHelp returns minimal keybindings for the compact help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Back}
}
