package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	advance key.Binding
	left    key.Binding
	right   key.Binding
	open    key.Binding
	back    key.Binding
	up      key.Binding
	down    key.Binding
	retry   key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		advance: key.NewBinding(key.WithKeys(" ", "space", "n"), key.WithHelp("space/n", "next")),
		left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refetch")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.advance, k.open, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.advance, k.left, k.right},
		{k.open, k.back, k.up, k.down},
		{k.retry, k.help, k.quit},
	}
}
