package catalog

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/mmcdole/marquee/internal/domain"
)

func genTitle() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 500),
		gen.OneConstOf("Alien", "Aliens", "Dark", "", "The Dark Knight", "Solaris"),
		gen.OneConstOf("space horror", "", "time travel", "a dark city"),
		gen.OneConstOf("", "1", "2", "3"),
		gen.OneConstOf("", "us", "de"),
		gen.OneConstOf(0, 1979, 1986, 2017),
		gen.OneConstOf(domain.TitleTypeMovie, domain.TitleTypeSeries),
		gen.Bool(),
	).Map(func(v []interface{}) domain.Title {
		return domain.Title{
			ID:          string(rune('a' + v[0].(int)%26)),
			Title:       v[1].(string),
			Description: v[2].(string),
			GenreID:     v[3].(string),
			CountryID:   v[4].(string),
			Year:        v[5].(int),
			Type:        v[6].(domain.TitleType),
			Published:   v[7].(bool),
		}
	})
}

func genCriteria() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("", "alien", "DARK", " a ", "zzz"),
		gen.OneConstOf("", "1", "3"),
		gen.OneConstOf("", "us", "de"),
		gen.OneConstOf("", "1979", "2017"),
		gen.OneConstOf("", "movie", "Series"),
	).Map(func(v []interface{}) domain.FilterCriteria {
		return domain.FilterCriteria{
			Query:     v[0].(string),
			GenreID:   v[1].(string),
			CountryID: v[2].(string),
			Year:      v[3].(string),
			Type:      v[4].(string),
		}
	})
}

func genAnyString() gopter.Gen {
	return gen.OneGenOf(gen.Const(""), gen.AnyString(), gen.AlphaString())
}

func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("filter is idempotent", prop.ForAll(
		func(titles []domain.Title, c domain.FilterCriteria) bool {
			once := Filter(titles, c)
			return reflect.DeepEqual(Filter(once, c), once)
		},
		gen.SliceOf(genTitle()),
		genCriteria(),
	))

	properties.Property("adding a constraint never grows the result", prop.ForAll(
		func(titles []domain.Title, c domain.FilterCriteria, extra domain.FilterCriteria) bool {
			loose := Filter(titles, c)

			tight := c
			if tight.Query == "" {
				tight.Query = extra.Query
			}
			if tight.GenreID == "" {
				tight.GenreID = extra.GenreID
			}
			if tight.CountryID == "" {
				tight.CountryID = extra.CountryID
			}
			if tight.Year == "" {
				tight.Year = extra.Year
			}
			if tight.Type == "" {
				tight.Type = extra.Type
			}
			narrow := Filter(titles, tight)

			if len(narrow) > len(loose) {
				return false
			}
			for _, title := range narrow {
				if !Match(title, c) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genTitle()),
		genCriteria(),
		genCriteria(),
	))

	properties.Property("unpublished titles never pass", prop.ForAll(
		func(titles []domain.Title, c domain.FilterCriteria) bool {
			for _, title := range Filter(titles, c) {
				if !title.Published {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genTitle()),
		genCriteria(),
	))

	properties.Property("filter preserves input order", prop.ForAll(
		func(titles []domain.Title, c domain.FilterCriteria) bool {
			got := Filter(titles, c)
			j := 0
			for _, title := range titles {
				if j < len(got) && reflect.DeepEqual(title, got[j]) {
					j++
				}
			}
			return j == len(got)
		},
		gen.SliceOf(genTitle()),
		genCriteria(),
	))

	properties.Property("query string round-trips criteria", prop.ForAll(
		func(q, genre, country, year, kind string) bool {
			c := domain.FilterCriteria{Query: q, GenreID: genre, CountryID: country, Year: year, Type: kind}
			return ParseQuery(EncodeQuery(c)) == c
		},
		genAnyString(),
		genAnyString(),
		genAnyString(),
		genAnyString(),
		genAnyString(),
	))

	properties.TestingRun(t)
}
