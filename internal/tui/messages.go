package tui

import (
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/session"
)

// Message types for the TUI

// viewMsg is a result addressed to one view instance. It is dropped when
// that view has since been replaced.
type viewMsg interface {
	targetView() int
}

// addressed is embedded by every viewMsg
type addressed struct {
	View int
}

func (a addressed) targetView() int { return a.View }

// NavigateMsg requests a route change
type NavigateMsg struct {
	To      route.Location
	Replace bool // Replace the current history entry instead of pushing
}

// BackMsg returns to the previous location
type BackMsg struct{}

// SessionChangedMsg carries a published session state
type SessionChangedMsg struct {
	State session.State
}

// SessionReadyMsg signals that the persisted token has been validated
type SessionReadyMsg struct {
	State session.State
}

// StatusMsg sets a dismissible status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg advances spinners
type TickMsg struct{}

// BrowseLoadedMsg carries the browse list and dropdown options
type BrowseLoadedMsg struct {
	addressed
	Result service.BrowseResult
	Err    error
}

// OptionsLoadedMsg carries dropdown options for the search view
type OptionsLoadedMsg struct {
	addressed
	Options domain.FilterOptions
	Err     error
}

// PageLoadedMsg carries one fetched page for a view's pager
type PageLoadedMsg[T any] struct {
	addressed
	Ticket pagination.Ticket
	Page   domain.Page[T]
	Err    error
}

// TitleLoadedMsg carries the title shown by the watch view
type TitleLoadedMsg struct {
	addressed
	Title domain.Title
	Err   error
}

// ActorLoadedMsg carries the cast member shown by the cast view
type ActorLoadedMsg struct {
	addressed
	Actor *domain.Actor
	Err   error
}

// PlaybackStartedMsg signals that the player was launched
type PlaybackStartedMsg struct {
	Title string
}

// AuthDoneMsg reports the outcome of a login or registration
type AuthDoneMsg struct {
	addressed
	Err error
}

// CountsLoadedMsg carries per-resource totals for the admin dashboard
type CountsLoadedMsg struct {
	addressed
	Counts map[domain.Resource]int
	Err    error
}

// RecordSavedMsg reports a create or update from the admin form
type RecordSavedMsg struct {
	addressed
	Record domain.Record
	Err    error
}

// RecordDeletedMsg reports a delete
type RecordDeletedMsg struct {
	addressed
	ID  string
	Err error
}

// PublishToggledMsg reports a publish flag change
type PublishToggledMsg struct {
	addressed
	Record domain.Record
	Err    error
}
