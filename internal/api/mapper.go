package api

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/mmcdole/marquee/internal/domain"
)

// scalarString renders a decoded JSON scalar as text
func scalarString(v any) string {
	switch v.(type) {
	case nil, map[string]any, []any:
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// nested reads key from a decoded JSON object, or "" when v is not an object
func nested(v any, key string) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return scalarString(m[key])
}

// firstNonEmpty returns the first non-empty string
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// toInt converts loose numeric input; unparseable input is 0
func toInt(v any) int {
	n, err := cast.ToIntE(v)
	if err != nil {
		// "2019.0", " 7 "
		f, ferr := cast.ToFloat64E(strings.TrimSpace(scalarString(v)))
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}

// parseYear accepts 2019, "2019" and date strings such as "2019-05-01"
func parseYear(v any) int {
	if y := toInt(v); y > 0 {
		return y
	}
	s := scalarString(v)
	if len(s) >= 4 {
		if y := toInt(s[:4]); y > 0 {
			return y
		}
	}
	return 0
}

// parseRating returns nil for null or unparseable ratings
func parseRating(v any) *float64 {
	if scalarString(v) == "" {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

// parsePublished treats an absent flag as published; only an explicit
// false-like value hides a title
func parsePublished(v any) bool {
	if scalarString(v) == "" {
		return true
	}
	if f, ok := v.(float64); ok {
		return f != 0
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return true
	}
	return b
}

// MapTitle converts a wire title into a domain.Title
func MapTitle(dto TitleDTO) domain.Title {
	t := domain.Title{
		ID:          string(dto.ID),
		Title:       string(dto.Title),
		Description: string(dto.Description),
		Year:        parseYear(dto.ReleaseYear),
		Type:        domain.ParseTitleType(string(dto.Type)),
		Rating:      parseRating(dto.Rating),
		Published:   parsePublished(dto.IsPublished),
		PosterURL:   string(dto.PosterURL),
		SourceURL:   string(dto.SourcesURL),
		TrailerURL:  string(dto.TrailerURL),
	}

	t.GenreID = firstNonEmpty(scalarString(dto.GenreID), nested(dto.Genre, "id"))
	t.GenreName = firstNonEmpty(nested(dto.Genre, "name"), string(dto.GenreName), scalarString(dto.Genre))

	// A plain-string country is both the id and the label
	t.CountryID = firstNonEmpty(scalarString(dto.CountryID), nested(dto.Country, "id"), scalarString(dto.Country))
	t.CountryName = firstNonEmpty(nested(dto.Country, "name"), scalarString(dto.Country), t.CountryID)

	if secs := toInt(dto.DurationSec); secs > 0 {
		t.Duration = time.Duration(secs) * time.Second
	} else if mins := toInt(dto.Duration); mins > 0 {
		t.Duration = time.Duration(mins) * time.Minute
	}

	t.Episodes = mapEpisodes(dto.Episodes, t.ID)
	t.Cast = mapCast(dto.Actors)
	return t
}

// MapTitles converts a list response into titles, skipping elements that
// are not objects
func MapTitles(items []json.RawMessage) []domain.Title {
	titles := make([]domain.Title, 0, len(items))
	for _, raw := range items {
		var dto TitleDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			continue
		}
		titles = append(titles, MapTitle(dto))
	}
	return titles
}

// mapEpisodes orders episodes by (season, number) and drops repeated
// (season, number) pairs, keeping the first seen
func mapEpisodes(items []json.RawMessage, titleID string) []domain.Episode {
	if len(items) == 0 {
		return nil
	}

	episodes := make([]domain.Episode, 0, len(items))
	for _, raw := range items {
		var dto EpisodeDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			continue
		}
		ep := domain.Episode{
			ID:          string(dto.ID),
			TitleID:     firstNonEmpty(string(dto.MovieID), titleID),
			Season:      toInt(dto.SeasonNumber),
			Number:      toInt(dto.EpisodeNumber),
			Title:       string(dto.Title),
			Description: string(dto.Description),
			DurationSec: toInt(dto.DurationSec),
			SourceURL:   string(dto.SourcesURL),
		}
		if ep.Season < 1 {
			ep.Season = 1
		}
		episodes = append(episodes, ep)
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Number < episodes[j].Number
	})

	type key struct{ season, number int }
	seen := make(map[key]bool, len(episodes))
	out := episodes[:0]
	for _, ep := range episodes {
		k := key{ep.Season, ep.Number}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ep)
	}
	return out
}

func mapCast(items []json.RawMessage) []domain.CastRole {
	if len(items) == 0 {
		return nil
	}
	roles := make([]domain.CastRole, 0, len(items))
	for _, raw := range items {
		var dto ActorDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			continue
		}
		role := string(dto.RoleName)
		if dto.Pivot != nil && dto.Pivot.RoleName != "" {
			role = string(dto.Pivot.RoleName)
		}
		roles = append(roles, domain.CastRole{Actor: MapActor(dto), RoleName: role})
	}
	return roles
}

// MapActor converts a wire actor
func MapActor(dto ActorDTO) domain.Actor {
	return domain.Actor{
		ID:          string(dto.ID),
		Name:        string(dto.Name),
		BirthDate:   string(dto.BirthDate),
		Nationality: string(dto.Nationality),
		Bio:         string(dto.Bio),
		PhotoURL:    string(dto.PhotoURL),
	}
}

// MapGenres converts a list response into genres
func MapGenres(items []json.RawMessage) []domain.Genre {
	genres := make([]domain.Genre, 0, len(items))
	for _, raw := range items {
		var dto GenreDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			continue
		}
		genres = append(genres, domain.Genre{
			ID:          string(dto.ID),
			Name:        string(dto.Name),
			Description: string(dto.Description),
		})
	}
	return genres
}

// MapOptions converts dropdown entries. Entries are either scalars (countries,
// years) or objects with an id and a name.
func MapOptions(items []json.RawMessage) []domain.Option {
	opts := make([]domain.Option, 0, len(items))
	for _, raw := range items {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		var opt domain.Option
		if m, ok := v.(map[string]any); ok {
			opt.ID = firstNonEmpty(scalarString(m["id"]), scalarString(m["value"]), scalarString(m["code"]))
			opt.Label = firstNonEmpty(scalarString(m["name"]), scalarString(m["label"]), scalarString(m["title"]), opt.ID)
		} else {
			opt.ID = scalarString(v)
			opt.Label = opt.ID
		}
		if opt.ID == "" {
			continue
		}
		opts = append(opts, opt)
	}
	return opts
}

// MapUser converts the identity profile
func MapUser(dto *UserDTO) *domain.User {
	if dto == nil {
		return nil
	}
	return &domain.User{
		ID:       string(dto.ID),
		Username: firstNonEmpty(string(dto.Username), string(dto.Name)),
		Email:    string(dto.Email),
		FullName: string(dto.FullName),
		Role:     string(dto.Role),
	}
}

// MapPage converts a paged envelope. requested is used when the envelope
// carries no page number; a bare array is treated as a single page.
func MapPage[T any](body []byte, requested int, convert func([]json.RawMessage) []T) domain.Page[T] {
	var resp PagedResponse
	_ = json.Unmarshal(body, &resp)

	meta := resp.pageMeta
	if resp.Meta != nil && meta.LastPage == nil {
		meta = *resp.Meta
	}

	items := convert(splitList(body))
	page := domain.Page[T]{
		Items:      items,
		Page:       toInt(meta.CurrentPage),
		TotalPages: toInt(meta.LastPage),
		TotalItems: toInt(meta.Total),
	}
	if page.Page < 1 {
		page.Page = requested
	}
	if page.TotalPages < 1 {
		page.TotalPages = max(1, page.Page)
	}
	if meta.Total == nil {
		page.TotalItems = len(items)
	}
	return page
}
