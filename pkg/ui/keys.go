package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the playground bindings. It implements help.KeyMap.
type keyMap struct {
	Grow    key.Binding
	Shrink  key.Binding
	Advance key.Binding
	Jump    key.Binding
	Toggle  key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Grow: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "next detent"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "previous detent"),
		),
		Advance: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "tap indicator"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump to detent"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle dragging"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy state"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Jump, k.Toggle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Grow, k.Shrink, k.Advance, k.Jump},
		{k.Toggle, k.Copy, k.Help, k.Quit},
	}
}
