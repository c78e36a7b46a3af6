package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	ForceQuit  key.Binding
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Issue list
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Refresh      key.Binding
	Start        key.Binding
	MoreMinutes  key.Binding
	FewerMinutes key.Binding
	CopyKey      key.Binding
	EditSettings key.Binding
	ClearAuth    key.Binding

	// Timer
	Stop key.Binding

	// Settings form
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding

	// Notices
	Dismiss key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		// Issue list
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload issues"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Start pomodoro"),
		),
		MoreMinutes: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Longer pomodoro"),
		),
		FewerMinutes: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Shorter pomodoro"),
		),
		CopyKey: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy issue key"),
		),
		EditSettings: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Edit credentials"),
		),
		ClearAuth: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Clear credentials"),
		),

		// Timer
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Stop and log work"),
		),

		// Settings form
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Save and connect"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to issues"),
		),

		// Notices
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter", "Dismiss"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Start, k.Refresh, k.MoreMinutes, k.FewerMinutes, k.CopyKey},
		{k.EditSettings, k.ClearAuth},
		{k.Stop},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// listHints returns the bindings shown in the issue list footer.
func (k keyMap) listHints() []key.Binding {
	return []key.Binding{k.Start, k.Refresh, k.MoreMinutes, k.FewerMinutes, k.Help, k.Quit}
}
