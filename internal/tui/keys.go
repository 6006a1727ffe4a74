package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add      key.Binding
	Up       key.Binding
	Down     key.Binding
	Start    key.Binding
	Evaluate key.Binding
	Complete key.Binding
	Abandon  key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add intention")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Start:    key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "start pomodoro")),
	Evaluate: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "distracted/interrupted/focused/achieved")),
	Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
	Abandon:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "abandon")),
	Cancel:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "cancel pomodoro")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Start, k.Evaluate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Up, k.Down, k.Start},
		{k.Evaluate, k.Cancel},
		{k.Complete, k.Abandon},
		{k.Help, k.Quit},
	}
}
