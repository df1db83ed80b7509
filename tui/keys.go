// ABOUTME: Key bindings for the dashboard, declared with bubbles/key so the help bar can list them.
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Refresh  key.Binding
	Limit    key.Binding
	Filter   key.Binding
	CallID   key.Binding
	APIKey   key.Binding
	Overview key.Binding
	Detail   key.Binding
	NextTab  key.Binding
	Select   key.Binding
	Leave    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Limit:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "cycle limit")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		CallID:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "call id")),
		APIKey:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "api key")),
		Overview: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
		Detail:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "call detail")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open call")),
		Leave:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave input")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Limit, k.Filter, k.CallID, k.Select, k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Limit, k.Filter, k.APIKey},
		{k.Overview, k.Detail, k.NextTab, k.CallID},
		{k.Select, k.Leave, k.Help, k.Quit},
	}
}
