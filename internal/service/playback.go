package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/marquee/internal/domain"
)

// ErrNoSource indicates a title or episode has no stream URL
var ErrNoSource = errors.New("no playable source")

// launcher abstracts media player launching (consumer-defined interface)
type launcher interface {
	Launch(url, title string) error
}

// PlaybackService hands stream URLs to the external player
type PlaybackService struct {
	launcher launcher
	logger   *slog.Logger
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(launcher launcher, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		launcher: launcher,
		logger:   logger,
	}
}

// Play starts a title. Series start at their first episode.
func (s *PlaybackService) Play(t domain.Title) error {
	if t.IsSeries() {
		if ep, ok := t.FirstEpisode(); ok {
			return s.PlayEpisode(t, ep)
		}
	}
	if t.SourceURL == "" {
		return fmt.Errorf("%s: %w", t.Title, ErrNoSource)
	}
	s.logger.Info("launching playback", "title", t.Title, "id", t.ID)
	return s.launcher.Launch(t.SourceURL, t.Title)
}

// PlayEpisode starts one episode of a series
func (s *PlaybackService) PlayEpisode(t domain.Title, ep domain.Episode) error {
	url := ep.SourceURL
	if url == "" {
		url = t.SourceURL
	}
	name := WatchTitle(t, &ep)
	if url == "" {
		return fmt.Errorf("%s: %w", name, ErrNoSource)
	}
	s.logger.Info("launching playback", "title", name, "id", t.ID, "episode", ep.Code())
	return s.launcher.Launch(url, name)
}

// WatchTitle is the display title of what is playing: "Show - Episode" for
// series episodes, the title otherwise
func WatchTitle(t domain.Title, ep *domain.Episode) string {
	if ep == nil || !t.IsSeries() {
		return t.Title
	}
	epName := ep.Title
	if epName == "" {
		epName = ep.Code()
	}
	return t.Title + " - " + epName
}
