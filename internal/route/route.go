// Package route holds navigation locations and the guard that protects
// admin views.
package route

import (
	"net/url"
	"path"
	"strings"
)

// Well-known paths
const (
	Home     = "/"
	Search   = "/search"
	TopRated = "/top"
	New      = "/new"
	Watch    = "/watch/{id}"
	Cast     = "/cast/{id}"
	Login    = "/login"
	Register = "/register"
	Admin    = "/admin"
)

// Location is a navigable path plus its query string
type Location struct {
	Path     string
	RawQuery string
}

// Parse splits raw into a Location. The path is cleaned and always absolute.
func Parse(raw string) Location {
	raw = strings.TrimSpace(raw)
	p, q, _ := strings.Cut(raw, "?")
	if p == "" {
		p = Home
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return Location{Path: path.Clean(p), RawQuery: q}
}

// String renders the location as path[?query]
func (l Location) String() string {
	if l.RawQuery == "" {
		return l.Path
	}
	return l.Path + "?" + l.RawQuery
}

// IsZero reports whether the location is unset
func (l Location) IsZero() bool {
	return l.Path == "" && l.RawQuery == ""
}

// Query parses the query string; malformed input yields empty values
func (l Location) Query() url.Values {
	v, err := url.ParseQuery(l.RawQuery)
	if err != nil {
		return url.Values{}
	}
	return v
}

// Expand fills the {id} placeholder of pattern
func Expand(pattern, id string) string {
	return strings.Replace(pattern, "{id}", url.PathEscape(id), 1)
}

// Match reports whether p matches pattern, returning the {id} segment if any.
// Patterns are literal paths with at most one {id} segment.
func Match(pattern, p string) (string, bool) {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(p, "/"), "/")
	if len(ps) != len(xs) {
		return "", false
	}
	var id string
	for i := range ps {
		if ps[i] == "{id}" {
			if xs[i] == "" {
				return "", false
			}
			seg, err := url.PathUnescape(xs[i])
			if err != nil {
				return "", false
			}
			id = seg
			continue
		}
		if ps[i] != xs[i] {
			return "", false
		}
	}
	return id, true
}
