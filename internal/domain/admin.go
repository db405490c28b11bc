package domain

import (
	"github.com/spf13/cast"
)

// Resource names an admin-managed entity collection
type Resource string

const (
	ResourceTitles   Resource = "movies"
	ResourceGenres   Resource = "genres"
	ResourceActors   Resource = "actors"
	ResourceEpisodes Resource = "episodes"
	ResourceCasts    Resource = "movie-casts"
)

// Resources lists every admin resource in dashboard tab order
var Resources = []Resource{
	ResourceTitles,
	ResourceGenres,
	ResourceActors,
	ResourceEpisodes,
	ResourceCasts,
}

// Label returns the tab label for the resource
func (r Resource) Label() string {
	switch r {
	case ResourceTitles:
		return "Movies"
	case ResourceGenres:
		return "Genres"
	case ResourceActors:
		return "Actors"
	case ResourceEpisodes:
		return "Episodes"
	case ResourceCasts:
		return "Movie Casts"
	default:
		return string(r)
	}
}

// Fields returns the editable form fields for the resource, in form order
func (r Resource) Fields() []string {
	switch r {
	case ResourceTitles:
		return []string{"title", "description", "release_year", "duration", "rating", "country", "type", "genre_id", "poster_url", "trailer_url"}
	case ResourceGenres:
		return []string{"name", "description"}
	case ResourceActors:
		return []string{"name", "birth_date", "nationality", "bio", "photo_url"}
	case ResourceEpisodes:
		return []string{"movie_id", "season_number", "episode_number", "title", "description", "duration_sec", "sources_url"}
	case ResourceCasts:
		return []string{"movie_id", "actor_id", "role_name"}
	default:
		return nil
	}
}

// Record is an admin entity as the API returns it.
// Admin forms are thin wrappers, so records stay loosely typed.
type Record map[string]any

// ID returns the string-normalized identifier
func (r Record) ID() string {
	return cast.ToString(r["id"])
}

// String returns a field as text
func (r Record) String(key string) string {
	return cast.ToString(r[key])
}

// Published reports the is_published flag; absent counts as published
func (r Record) Published() bool {
	v, ok := r["is_published"]
	if !ok || v == nil {
		return true
	}
	return cast.ToBool(v)
}

// Label returns the best display text for the record
func (r Record) Label() string {
	for _, key := range []string{"title", "name", "role_name"} {
		if s := r.String(key); s != "" {
			return s
		}
	}
	return "#" + r.ID()
}
