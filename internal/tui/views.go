package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/session"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Services bundles what view controllers call into
type Services struct {
	Catalog  *service.CatalogService
	Admin    *service.AdminService
	Playback *service.PlaybackService
	Session  *session.Store
	Logger   *slog.Logger
}

// frame is the render context passed to views
type frame struct {
	Width   int
	Height  int
	Spinner int
}

// spin returns the current spinner glyph
func (f frame) spin() string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[f.Spinner%len(styles.SpinnerFrames)])
}

// view is one routed screen. Each instance has a unique id; async results
// addressed to a replaced instance are dropped by the Model.
type view interface {
	ID() int
	Location() route.Location
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(f frame) string
	// Capturing reports whether a text input or modal owns the keyboard
	Capturing() bool
	Help() []key.Binding
}

// base carries what every view shares
type base struct {
	id  int
	loc route.Location
	svc *Services
}

func (b *base) ID() int { return b.id }
func (b *base) Location() route.Location { return b.loc }
func (b *base) Capturing() bool { return false }

func (b *base) to() addressed { return addressed{View: b.id} }

// navigate returns a command requesting a route change
func navigate(loc route.Location) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{To: loc} }
}

// replaceLocation updates the current history entry, e.g. after the search
// criteria change
func replaceLocation(loc route.Location) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{To: loc, Replace: true} }
}

// status returns a command setting the status bar
func status(msg string, isErr bool) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Message: msg, IsError: isErr} }
}

// placeholderView is shown while the session is still bootstrapping
type placeholderView struct {
	base
}

func (v *placeholderView) Title() string { return "Loading" }
func (v *placeholderView) Init() tea.Cmd { return nil }
func (v *placeholderView) Update(tea.Msg) tea.Cmd { return nil }
func (v *placeholderView) Help() []key.Binding { return nil }
func (v *placeholderView) View(f frame) string {
	return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center,
		f.spin()+" "+styles.DimStyle.Render("Checking session..."))
}

// notFoundView renders unknown routes
type notFoundView struct {
	base
}

func (v *notFoundView) Title() string { return "Not found" }
func (v *notFoundView) Init() tea.Cmd { return nil }
func (v *notFoundView) Update(tea.Msg) tea.Cmd { return nil }
func (v *notFoundView) Help() []key.Binding { return []key.Binding{Keys.Back, Keys.GoBrowse} }
func (v *notFoundView) View(f frame) string {
	return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center,
		styles.ErrorStyle.Render("No screen at "+v.loc.String()))
}
