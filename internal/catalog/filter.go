// Package catalog holds the client-side catalog logic: the title filter used by
// the browse view and the query-string codec for search criteria.
package catalog

import (
	"strconv"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// Filter returns the titles that satisfy every constrained dimension of c.
//
// Rules:
//  1. Titles the server explicitly unpublished are always dropped
//  2. Query matches a substring of the title or description, case-insensitively
//  3. Genre, country and type compare normalized identifiers
//  4. Year compares the decimal release year
//
// Input order is preserved. The input slice is never modified.
func Filter(titles []domain.Title, c domain.FilterCriteria) []domain.Title {
	m := newMatcher(c)
	out := make([]domain.Title, 0, len(titles))
	for _, t := range titles {
		if m.match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Match reports whether a single title passes Filter with criteria c
func Match(t domain.Title, c domain.FilterCriteria) bool {
	return newMatcher(c).match(t)
}

// matcher holds criteria pre-normalized once per Filter call
type matcher struct {
	query   string
	genre   string
	country string
	year    string
	kind    string
}

func newMatcher(c domain.FilterCriteria) matcher {
	return matcher{
		query:   strings.ToLower(strings.TrimSpace(c.Query)),
		genre:   strings.TrimSpace(c.GenreID),
		country: strings.TrimSpace(c.CountryID),
		year:    strings.TrimSpace(c.Year),
		kind:    strings.ToLower(strings.TrimSpace(c.Type)),
	}
}

func (m matcher) match(t domain.Title) bool {
	if !t.Published {
		return false
	}
	if m.query != "" && !containsFold(t.Title, m.query) && !containsFold(t.Description, m.query) {
		return false
	}
	if m.genre != "" && t.GenreID != m.genre {
		return false
	}
	if m.country != "" && t.CountryID != m.country {
		return false
	}
	if m.year != "" && (t.Year <= 0 || strconv.Itoa(t.Year) != m.year) {
		return false
	}
	if m.kind != "" && strings.ToLower(string(t.Type)) != m.kind {
		return false
	}
	return true
}

// containsFold reports whether lowered query is inside s; empty s never matches
func containsFold(s, query string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), query)
}
