package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the terminal timer key bindings.
type KeyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Stop   key.Binding
	Switch key.Binding
	Focus  key.Binding
	Break  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "start/pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop & save")),
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch mode")),
		Focus:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
		Break:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "break")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Toggle, keys.Stop, keys.Switch, keys.Help, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Toggle, keys.Reset, keys.Stop},
		{keys.Switch, keys.Focus, keys.Break},
		{keys.Help, keys.Quit},
	}
}
