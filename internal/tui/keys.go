package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding the client reacts to. The same map backs both
// screens; bindings that do not apply to the current screen are ignored.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Submit  key.Binding
	NewLine key.Binding
	PageUp  key.Binding
	PageDn  key.Binding
	Dismiss key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "choose service"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start chat"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewLine: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "new line"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup/pgdn", "scroll"),
		),
		PageDn: key.NewBinding(
			key.WithKeys("pgdown"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss notice"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "new conversation"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewLine, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Select, k.Quit},
		{k.Submit, k.NewLine, k.PageUp},
		{k.Dismiss, k.Reset},
	}
}

// entryHelp is the binding subset shown on the entry screen.
func (k keyMap) entryHelp() []key.Binding {
	return []key.Binding{k.Up, k.Select, k.Quit}
}
