package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Send       key.Binding
	Newline    key.Binding
	Stop       key.Binding
	NewChat    key.Binding
	Sidebar    key.Binding
	Focus      key.Binding
	Tutorial   key.Binding
	HideTools  key.Binding
	Expand     key.Binding
	CopyThread key.Binding
	Theme      key.Binding
	Suggest    key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Search key.Binding
	Back   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^C", "quit")),
		Send:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Newline:    key.NewBinding(key.WithKeys("shift+enter", "shift+return", "ctrl+j", "alt+enter"), key.WithHelp("^J", "newline")),
		Stop:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop")),
		NewChat:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^N", "new chat")),
		Sidebar:    key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("^B", "history")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus history")),
		Tutorial:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^T", "tutorial")),
		HideTools:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^O", "hide tools")),
		Expand:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^E", "expand result")),
		CopyThread: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^Y", "copy thread id")),
		Theme:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "theme")),
		Suggest:    key.NewBinding(key.WithKeys("alt+1", "alt+2", "alt+3"), key.WithHelp("alt+1-3", "suggestion")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Back:   key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewChat, k.Sidebar, k.HideTools, k.Tutorial}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline, k.Stop, k.Suggest},
		{k.NewChat, k.Sidebar, k.Focus, k.Tutorial},
		{k.HideTools, k.Expand, k.CopyThread, k.Theme, k.Quit},
	}
}
