package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	send  key.Binding
	reset key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		send:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		reset: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset memory")),
		quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.send, k.reset, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.send, k.reset, k.quit},
	}
}
