package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	SubmitMessage     key.Binding
	ClearConversation key.Binding
	SaveToFile        key.Binding
	DismissError      key.Binding
	Quit              key.Binding
}

var DefaultKeyMap = KeyMap{
	SubmitMessage:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "submit")),
	ClearConversation: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
	SaveToFile:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save transcript")),
	DismissError:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss error")),
	Quit:              key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SubmitMessage, k.ClearConversation, k.SaveToFile, k.DismissError, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
