package catalog

import (
	"net/url"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// Query-string keys used by the search route
const (
	KeyQuery   = "q"
	KeyGenre   = "genre"
	KeyCountry = "country"
	KeyYear    = "year"
	KeyType    = "type"
)

// EncodeQuery serializes criteria into a query string (without the leading "?").
// Empty fields are omitted.
func EncodeQuery(c domain.FilterCriteria) string {
	return Values(c).Encode()
}

// Values returns criteria as url.Values, omitting empty fields
func Values(c domain.FilterCriteria) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(KeyQuery, c.Query)
	set(KeyGenre, c.GenreID)
	set(KeyCountry, c.CountryID)
	set(KeyYear, c.Year)
	set(KeyType, c.Type)
	return v
}

// ParseQuery rebuilds criteria from a query string. A leading "?" is allowed.
// Unknown keys are ignored; a malformed query yields empty criteria.
func ParseQuery(raw string) domain.FilterCriteria {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return domain.FilterCriteria{}
	}
	return FromValues(v)
}

// FromValues rebuilds criteria from parsed url.Values
func FromValues(v url.Values) domain.FilterCriteria {
	return domain.FilterCriteria{
		Query:     v.Get(KeyQuery),
		GenreID:   v.Get(KeyGenre),
		CountryID: v.Get(KeyCountry),
		Year:      v.Get(KeyYear),
		Type:      v.Get(KeyType),
	}
}
