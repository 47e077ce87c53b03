package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Book     key.Binding
	Cancel   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Audit    key.Binding
	Refresh  key.Binding
	Login    key.Binding
	Logout   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Book:     key.NewBinding(key.WithKeys("b", "enter"), key.WithHelp("b/enter", "book")),
		Cancel:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel appointment")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add slot")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit slot")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete slot")),
		Audit:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "validate")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		Logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
