package api

import (
	"bytes"
	"encoding/json"
)

// text decodes any JSON scalar as a string. Objects and arrays decode to "".
// The API is loose about types (ids and years arrive as numbers or strings).
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*t = text(scalarString(v))
	return nil
}

// TitleDTO is a movie or series as the API sends it
type TitleDTO struct {
	ID          text `json:"id"`
	Title       text `json:"title"`
	Description text `json:"description"`

	// Genre arrives as genre_id, as a nested {id, name} object, or both
	GenreID   any  `json:"genre_id"`
	Genre     any  `json:"genre"`
	GenreName text `json:"genre_name"`

	// Country arrives as country_id, as a nested object, or as a plain string
	CountryID any `json:"country_id"`
	Country   any `json:"country"`

	ReleaseYear any  `json:"release_year"`
	Type        text `json:"type"`
	Rating      any  `json:"rating"`
	IsPublished any  `json:"is_published"`
	Duration    any  `json:"duration"`     // minutes
	DurationSec any  `json:"duration_sec"` // seconds, wins over duration

	PosterURL  text `json:"poster_url"`
	SourcesURL text `json:"sources_url"`
	TrailerURL text `json:"trailer_url"`

	Episodes []json.RawMessage `json:"episodes"`
	Actors   []json.RawMessage `json:"actors"`
}

// EpisodeDTO is one episode of a series
type EpisodeDTO struct {
	ID            text `json:"id"`
	MovieID       text `json:"movie_id"`
	SeasonNumber  any  `json:"season_number"`
	EpisodeNumber any  `json:"episode_number"`
	Title         text `json:"title"`
	Description   text `json:"description"`
	DurationSec   any  `json:"duration_sec"`
	SourcesURL    text `json:"sources_url"`
}

// ActorDTO is a cast member. Pivot is present when listed under a title.
type ActorDTO struct {
	ID          text `json:"id"`
	Name        text `json:"name"`
	BirthDate   text `json:"birth_date"`
	Nationality text `json:"nationality"`
	Bio         text `json:"bio"`
	PhotoURL    text `json:"photo_url"`
	Pivot       *struct {
		RoleName text `json:"role_name"`
	} `json:"pivot"`
	RoleName text `json:"role_name"`
}

// GenreDTO is a catalog genre
type GenreDTO struct {
	ID          text `json:"id"`
	Name        text `json:"name"`
	Description text `json:"description"`
}

// UserDTO is the identity endpoint's profile
type UserDTO struct {
	ID       text `json:"id"`
	Username text `json:"username"`
	Name     text `json:"name"`
	Email    text `json:"email"`
	FullName text `json:"full_name"`
	Role     text `json:"role"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token       text     `json:"token"`
	AccessToken text     `json:"access_token"`
	User        *UserDTO `json:"user"`
}

// MeResponse is returned by the identity endpoint
type MeResponse struct {
	User *UserDTO `json:"user"`
}

// pageMeta holds the paged envelope's counters, either at the top level or
// under "meta"
type pageMeta struct {
	CurrentPage any `json:"current_page"`
	LastPage    any `json:"last_page"`
	Total       any `json:"total"`
}

// PagedResponse is the paged envelope {data, current_page, last_page, total}
type PagedResponse struct {
	Data json.RawMessage `json:"data"`
	pageMeta
	Meta *pageMeta `json:"meta"`
}

// dataEnvelope is the {data: [...]} list shape
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// splitList returns the elements of a list response, accepting both a bare
// array and a {data: [...]} envelope. Anything else yields no elements.
func splitList(body []byte) []json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if body[0] == '{' {
		var env dataEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil
		}
		body = bytes.TrimSpace(env.Data)
		// Laravel paginators nest one more level
		if len(body) > 0 && body[0] == '{' {
			return splitList(body)
		}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil
	}
	return items
}
