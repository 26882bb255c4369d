package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Field      key.Binding
	HourUp     key.Binding
	HourDown   key.Binding
	MinuteUp   key.Binding
	MinuteDown key.Binding
	Period     key.Binding
	Clear      key.Binding
	Add        key.Binding
	Remove     key.Binding
	Save       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Field:      key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("tab", "in/out")),
		HourUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "hour")),
		HourDown:   key.NewBinding(key.WithKeys("-", "_")),
		MinuteUp:   key.NewBinding(key.WithKeys(">", "."), key.WithHelp("</>", "minute")),
		MinuteDown: key.NewBinding(key.WithKeys("<", ",")),
		Period:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "am/pm")),
		Clear:      key.NewBinding(key.WithKeys("c", "backspace"), key.WithHelp("c", "clear")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add session")),
		Remove:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Save:       key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Field, k.HourUp, k.MinuteUp, k.Period, k.Clear, k.Add, k.Remove, k.Save, k.Quit}
}
