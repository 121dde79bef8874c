package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit          key.Binding
	Help          key.Binding
	CycleTheme    key.Binding
	Tab           key.Binding
	ShiftTab      key.Binding
	Escape        key.Binding
	DismissToast  key.Binding
	ViewOrders    key.Binding
	ViewDevices   key.Binding
	ViewGroups    key.Binding
	ViewVenues    key.Binding
	ViewReports   key.Binding
	ViewMonitor   key.Binding
	Refresh       key.Binding
	CyclePageSize key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextPage key.Binding
	PrevPage key.Binding

	// Filters
	Filter       key.Binding
	ClearFilters key.Binding
	NextField    key.Binding
	PrevField    key.Binding

	// Record actions
	Open     key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Mark     key.Binding
	Reassign key.Binding

	// Modals
	Confirm key.Binding
	Yes     key.Binding
	No      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / leave filters"),
		),
		DismissToast: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Dismiss newest notification"),
		),
		ViewOrders: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Orders"),
		),
		ViewDevices: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Devices"),
		),
		ViewGroups: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Device groups"),
		),
		ViewVenues: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Venues"),
		),
		ViewReports: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Daily reports"),
		),
		ViewMonitor: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Monitor"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		CyclePageSize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "Cycle page size"),
		),

		// Navigation
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
		NextPage: key.NewBinding(
			key.WithKeys("]", "pgdown", "right"),
			key.WithHelp("]", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "pgup", "left"),
			key.WithHelp("[", "Previous page"),
		),

		// Filters
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Edit filters"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear filters"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),

		// Record actions
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open order"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Mark device"),
		),
		Reassign: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Move marked devices"),
		),

		// Modals
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Back"),
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
		// Views
		{k.Tab, k.ShiftTab, k.ViewOrders, k.ViewDevices, k.ViewGroups, k.ViewVenues, k.ViewReports, k.ViewMonitor},
		// Lists
		{k.Up, k.Down, k.Top, k.Bottom, k.NextPage, k.PrevPage, k.Refresh, k.CyclePageSize},
		{k.Filter, k.ClearFilters},
		// Records
		{k.Open, k.Add, k.Edit, k.Delete, k.Mark, k.Reassign},
		// General
		{k.DismissToast, k.CycleTheme, k.Help, k.Quit},
	}
}
