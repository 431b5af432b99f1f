package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send     key.Binding
	Newline  key.Binding
	Complete key.Binding
	Reset    key.Binding
	FIM      key.Binding
	Models   key.Binding
	Yank     key.Binding
	Help     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Send message")),
	Newline:  key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("Alt+Enter", "New line")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Complete command")),
	Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Reset chat")),
	FIM:      key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("Ctrl+F", "Fill in middle at cursor")),
	Models:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("Ctrl+O", "Select chat model")),
	Yank:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("Ctrl+Y", "Copy last response")),
	Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "Toggle this help")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "Scroll up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "Scroll down")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
}

func (k keyMap) groups() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline, k.Complete, k.Yank},
		{k.Reset, k.FIM, k.Models, k.PageUp, k.PageDown, k.Help, k.Quit},
	}
}
