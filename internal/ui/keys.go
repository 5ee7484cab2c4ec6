package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Profile screen
	Save      key.Binding
	Play      key.Binding
	SignOut   key.Binding
	Back      key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	PrevChar  key.Binding
	NextChar  key.Binding

	// Other screens
	OpenProfile key.Binding
	Continue    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("f1/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),

		Save: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "Save"),
		),
		Play: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Save and play"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Sign out"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		PrevChar: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "Previous character"),
		),
		NextChar: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "Next character"),
		),

		OpenProfile: key.NewBinding(
			key.WithKeys("p", "enter"),
			key.WithHelp("p", "Edit profile"),
		),
		Continue: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Continue"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Play, k.SignOut, k.Back, k.Help}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Play, k.SignOut, k.Back},
		{k.NextFocus, k.PrevFocus, k.PrevChar, k.NextChar},
		{k.OpenProfile, k.Continue},
		{k.CycleTheme, k.Help, k.Quit, k.ForceQuit},
	}
}
