package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/service"
)

// Command factories for async operations

const requestTimeout = 30 * time.Second

// LoadBrowseCmd loads the browse list and the dropdowns
func LoadBrowseCmd(svc *service.CatalogService, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := svc.Browse(ctx)
		return BrowseLoadedMsg{addressed: to, Result: res, Err: err}
	}
}

// LoadOptionsCmd loads the dropdowns
func LoadOptionsCmd(svc *service.CatalogService, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		opts, err := svc.Options(ctx)
		return OptionsLoadedMsg{addressed: to, Options: opts, Err: err}
	}
}

// FetchPageCmd performs the fetch for an accepted pager ticket
func FetchPageCmd[T any](p *pagination.Pager[T], t pagination.Ticket, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		page, err := p.Fetch(ctx, t)
		return PageLoadedMsg[T]{addressed: to, Ticket: t, Page: page, Err: err}
	}
}

// LoadTitleCmd resolves one title
func LoadTitleCmd(svc *service.CatalogService, id string, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		t, err := svc.Title(ctx, id)
		return TitleLoadedMsg{addressed: to, Title: t, Err: err}
	}
}

// LoadActorCmd loads one cast member
func LoadActorCmd(svc *service.CatalogService, id string, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		a, err := svc.Actor(ctx, id)
		return ActorLoadedMsg{addressed: to, Actor: a, Err: err}
	}
}

// PlayTitleCmd starts playback of a title
func PlayTitleCmd(svc *service.PlaybackService, t domain.Title) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Play(t); err != nil {
			return StatusMsg{Message: "Playback failed: " + domain.Message(err), IsError: true}
		}
		return PlaybackStartedMsg{Title: t.Title}
	}
}

// PlayEpisodeCmd starts playback of one episode
func PlayEpisodeCmd(svc *service.PlaybackService, t domain.Title, ep domain.Episode) tea.Cmd {
	return func() tea.Msg {
		if err := svc.PlayEpisode(t, ep); err != nil {
			return StatusMsg{Message: "Playback failed: " + domain.Message(err), IsError: true}
		}
		return PlaybackStartedMsg{Title: service.WatchTitle(t, &ep)}
	}
}

// LoginCmd signs in through the session
func LoginCmd(svc *Services, identifier, secret string, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return AuthDoneMsg{addressed: to, Err: svc.Session.Login(ctx, identifier, secret)}
	}
}

// RegisterCmd creates an account through the session
func RegisterCmd(svc *Services, req domain.RegisterRequest, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return AuthDoneMsg{addressed: to, Err: svc.Session.Register(ctx, req)}
	}
}

// LogoutCmd ends the session; the guard reacts to the published change
func LogoutCmd(svc *Services) tea.Cmd {
	return func() tea.Msg {
		svc.Session.Logout()
		return StatusMsg{Message: "Signed out"}
	}
}

// LoadCountsCmd loads the admin dashboard totals
func LoadCountsCmd(svc *service.AdminService, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		counts, err := svc.Counts(ctx)
		return CountsLoadedMsg{addressed: to, Counts: counts, Err: err}
	}
}

// SaveRecordCmd creates (empty id) or updates a record
func SaveRecordCmd(svc *service.AdminService, res domain.Resource, id string, fields domain.Record, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			rec domain.Record
			err error
		)
		if id == "" {
			rec, err = svc.Create(ctx, res, fields)
		} else {
			rec, err = svc.Update(ctx, res, id, fields)
		}
		return RecordSavedMsg{addressed: to, Record: rec, Err: err}
	}
}

// DeleteRecordCmd removes a record
func DeleteRecordCmd(svc *service.AdminService, res domain.Resource, id string, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return RecordDeletedMsg{addressed: to, ID: id, Err: svc.Delete(ctx, res, id)}
	}
}

// TogglePublishCmd flips a title's publication flag
func TogglePublishCmd(svc *service.AdminService, rec domain.Record, to addressed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		updated, err := svc.TogglePublish(ctx, rec)
		return PublishToggledMsg{addressed: to, Record: updated, Err: err}
	}
}
