package domain

import (
	"fmt"
	"strings"
	"time"
)

// TitleType distinguishes movies from series
type TitleType string

const (
	TitleTypeMovie  TitleType = "Movie"
	TitleTypeSeries TitleType = "Series"
)

// ParseTitleType maps the API's free-form type field onto a TitleType.
// Anything that is not recognizably a series is treated as a movie.
func ParseTitleType(s string) TitleType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "series", "serie", "show", "tv":
		return TitleTypeSeries
	default:
		return TitleTypeMovie
	}
}

// Title represents a movie or series catalog entry.
// Titles are produced by the API normalization seam; relationship ids that the
// server sends in more than one shape are already unified here.
type Title struct {
	ID          string    // Server identifier, string-normalized
	Title       string    // Display title
	Description string    // Synopsis
	GenreID     string    // Genre identifier (direct or nested on the wire)
	GenreName   string    // Denormalized genre name
	CountryID   string    // Country identifier (direct or nested on the wire)
	CountryName string    // Denormalized country name
	Year        int       // Release year (0 = unknown)
	Type        TitleType // Movie or Series
	Rating      *float64  // Nullable rating
	Published   bool      // False only when the server explicitly unpublished it
	Duration    time.Duration

	PosterURL  string
	SourceURL  string
	TrailerURL string

	Episodes []Episode  // Ordered by (Season, Number); Series only
	Cast     []CastRole // Actors with their role names
}

// IsSeries reports whether the title is a series
func (t Title) IsSeries() bool {
	return t.Type == TitleTypeSeries
}

// FormattedRating returns the rating with one decimal, or "N/A"
func (t Title) FormattedRating() string {
	if t.Rating == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *t.Rating)
}

// FormattedDuration returns the duration in a human-readable format
func (t Title) FormattedDuration() string {
	return formatDuration(t.Duration)
}

// YearLabel returns the year as text, empty when unknown
func (t Title) YearLabel() string {
	if t.Year <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", t.Year)
}

// FirstEpisode returns the first episode in (season, number) order
func (t Title) FirstEpisode() (Episode, bool) {
	if len(t.Episodes) == 0 {
		return Episode{}, false
	}
	return t.Episodes[0], true
}

// Episode belongs to a Series title
type Episode struct {
	ID          string
	TitleID     string
	Season      int
	Number      int
	Title       string
	Description string
	DurationSec int
	SourceURL   string
}

// Code returns the formatted episode code (e.g., "S01E05")
func (e Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.Season, e.Number)
}

// FormattedDuration returns the episode runtime in a human-readable format
func (e Episode) FormattedDuration() string {
	if e.DurationSec <= 0 {
		return "N/A"
	}
	return formatDuration(time.Duration(e.DurationSec) * time.Second)
}

// Genre is a catalog genre
type Genre struct {
	ID          string
	Name        string
	Description string
}

// Actor is a cast member
type Actor struct {
	ID          string
	Name        string
	BirthDate   string
	Nationality string
	Bio         string
	PhotoURL    string
}

// CastRole joins an actor to a title with the role played
type CastRole struct {
	Actor    Actor
	RoleName string
}

// User is the authenticated profile returned by the identity endpoint
type User struct {
	ID       string
	Username string
	Email    string
	FullName string
	Role     string
}

// DisplayName returns the best available name for the user
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// Option is one entry of a filter dropdown
type Option struct {
	ID    string
	Label string
}

// FilterOptions holds the dropdown choices for every filter dimension
type FilterOptions struct {
	Genres    []Option
	Countries []Option
	Years     []Option
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "N/A"
	}
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
