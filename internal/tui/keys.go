package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Enter    key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding

	// Routes
	GoBrowse   key.Binding
	GoSearch   key.Binding
	GoTopRated key.Binding
	GoNew      key.Binding
	GoAdmin    key.Binding

	// Actions
	Quit         key.Binding
	Help         key.Binding
	Filter       key.Binding
	Genre        key.Binding
	Country      key.Binding
	Year         key.Binding
	Type         key.Binding
	ClearFilters key.Binding
	ServerSearch key.Binding
	Refresh      key.Binding
	Play         key.Binding
	Cast         key.Binding
	SwitchPane   key.Binding
	New          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	Publish      key.Binding
	Logout       key.Binding
	Register     key.Binding
	Login        key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("h/←", "prev page"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),
		GoBrowse: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "browse"),
		),
		GoSearch: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "search"),
		),
		GoTopRated: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "top rated"),
		),
		GoNew: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "new"),
		),
		GoAdmin: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "admin"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "query"),
		),
		Genre: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "genre"),
		),
		Country: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "country"),
		),
		Year: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "year"),
		),
		Type: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "type"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		ServerSearch: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search server"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Play: key.NewBinding(
			key.WithKeys("p", "enter"),
			key.WithHelp("p", "play"),
		),
		Cast: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cast member"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Publish: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "publish/unpublish"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Register: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "register"),
		),
		Login: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "login"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// Keys is the package-level key map
var Keys = DefaultKeyMap()
