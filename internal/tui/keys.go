package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Refresh     key.Binding
	AutoRefresh key.Binding
	Clear       key.Binding
	Start       key.Binding
	Stop        key.Binding
	Schedule    key.Binding
	Longer      key.Binding
	Shorter     key.Binding
	Unit        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	AutoRefresh: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto")),
	Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	Start:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
	Stop:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	Schedule:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "schedule")),
	Longer:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "interval")),
	Shorter:     key.NewBinding(key.WithKeys("-")),
	Unit:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unit")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Refresh, k.AutoRefresh, k.Clear, k.Start, k.Stop, k.Schedule, k.Longer, k.Unit, k.Quit}
}
