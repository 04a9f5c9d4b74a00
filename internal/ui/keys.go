package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings outside of text input.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Back       key.Binding

	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	Open      key.Binding
	Toggle    key.Binding
	Feed      key.Binding
	Account   key.Binding
	NewItem   key.Binding
	CycleSort key.Binding
	Refresh   key.Binding
	Profile   key.Binding
	Logout    key.Binding
	Comment   key.Binding
	Activity  key.Binding

	Register key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "Quit")),
		Help:       key.NewBinding(key.WithKeys("?", "h"), key.WithHelp("?", "Toggle help")),
		CycleTheme: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "Cycle theme")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Back")),

		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "Move up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/down", "Move down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "Go to top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "Go to bottom")),

		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Open item")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "t"), key.WithHelp("space", "Toggle availability")),
		Feed:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "Feed")),
		Account:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "My items")),
		NewItem:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "Post item")),
		CycleSort: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Cycle sort")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Refresh")),
		Profile:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Edit profile")),
		Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "Log out")),
		Comment:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Comment")),
		Activity:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "Activity log")),

		Register:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "Create account")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "Next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "Previous field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Submit")),
	}
}
