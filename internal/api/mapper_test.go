package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func mapOne(t *testing.T, payload string) domain.Title {
	t.Helper()
	titles := MapTitles(splitList([]byte("[" + payload + "]")))
	require.Len(t, titles, 1)
	return titles[0]
}

func TestMapTitle_RelationshipShapes(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		genreID     string
		genreName   string
		countryID   string
		countryName string
	}{
		{
			name:    "direct ids",
			payload: `{"id": 1, "genre_id": 3, "genre_name": "Horror", "country_id": "us"}`,
			genreID: "3", genreName: "Horror", countryID: "us", countryName: "us",
		},
		{
			name:    "nested objects",
			payload: `{"id": 1, "genre": {"id": 3, "name": "Horror"}, "country": {"id": "us", "name": "United States"}}`,
			genreID: "3", genreName: "Horror", countryID: "us", countryName: "United States",
		},
		{
			name:    "plain country string",
			payload: `{"id": 1, "genre_id": "3", "country": "France"}`,
			genreID: "3", countryID: "France", countryName: "France",
		},
		{
			name:    "direct id wins over nested",
			payload: `{"id": 1, "genre_id": 5, "genre": {"id": 3, "name": "Horror"}}`,
			genreID: "5", genreName: "Horror",
		},
		{
			name:    "missing",
			payload: `{"id": 1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := mapOne(t, tt.payload)
			assert.Equal(t, tt.genreID, title.GenreID)
			assert.Equal(t, tt.genreName, title.GenreName)
			assert.Equal(t, tt.countryID, title.CountryID)
			assert.Equal(t, tt.countryName, title.CountryName)
		})
	}
}

func TestMapTitle_PublishedFlag(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{`{"id": 1}`, true},
		{`{"id": 1, "is_published": null}`, true},
		{`{"id": 1, "is_published": true}`, true},
		{`{"id": 1, "is_published": 1}`, true},
		{`{"id": 1, "is_published": false}`, false},
		{`{"id": 1, "is_published": 0}`, false},
		{`{"id": 1, "is_published": "0"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			assert.Equal(t, tt.want, mapOne(t, tt.payload).Published)
		})
	}
}

func TestMapTitle_Scalars(t *testing.T) {
	title := mapOne(t, `{
		"id": 12,
		"title": "Dark",
		"description": "A missing child",
		"release_year": "2017",
		"type": "Series",
		"rating": "8.7",
		"duration": 60,
		"poster_url": "p.jpg",
		"sources_url": "https://cdn/dark.m3u8",
		"trailer_url": "t.mp4"
	}`)

	assert.Equal(t, "12", title.ID)
	assert.Equal(t, 2017, title.Year)
	assert.Equal(t, domain.TitleTypeSeries, title.Type)
	require.NotNil(t, title.Rating)
	assert.InDelta(t, 8.7, *title.Rating, 0.0001)
	assert.Equal(t, time.Hour, title.Duration)
	assert.Equal(t, "https://cdn/dark.m3u8", title.SourceURL)
}

func TestMapTitle_LooseValues(t *testing.T) {
	title := mapOne(t, `{"id": 1, "title": 1984, "release_year": "2019-05-01", "rating": null, "duration_sec": 5400, "duration": 10}`)
	assert.Equal(t, "1984", title.Title)
	assert.Equal(t, 2019, title.Year)
	assert.Nil(t, title.Rating)
	assert.Equal(t, 90*time.Minute, title.Duration)

	title = mapOne(t, `{"id": 1, "release_year": "unknown", "rating": "n/a"}`)
	assert.Equal(t, 0, title.Year)
	assert.Nil(t, title.Rating)
}

func TestMapTitles_SkipsNonObjects(t *testing.T) {
	titles := MapTitles(splitList([]byte(`[{"id": 1}, "junk", null, 5, {"id": 2}]`)))
	require.Len(t, titles, 3)
	assert.Equal(t, "1", titles[0].ID)
	assert.Equal(t, "", titles[1].ID) // null decodes to an empty title
	assert.Equal(t, "2", titles[2].ID)
}

func TestMapTitle_EpisodesSortedAndDeduplicated(t *testing.T) {
	title := mapOne(t, `{"id": 7, "type": "Series", "episodes": [
		{"id": 3, "season_number": 2, "episode_number": 1, "title": "S2E1"},
		{"id": 2, "season_number": 1, "episode_number": 2, "title": "S1E2"},
		{"id": 1, "season_number": 1, "episode_number": 1, "title": "S1E1"},
		{"id": 4, "season_number": 1, "episode_number": 2, "title": "duplicate"},
		{"id": 5, "episode_number": 3, "title": "no season"}
	]}`)

	var codes []string
	for _, ep := range title.Episodes {
		codes = append(codes, ep.Code()+" "+ep.Title)
		assert.Equal(t, "7", ep.TitleID)
	}
	assert.Equal(t, []string{"S01E01 S1E1", "S01E02 S1E2", "S01E03 no season", "S02E01 S2E1"}, codes)

	first, ok := title.FirstEpisode()
	require.True(t, ok)
	assert.Equal(t, "1", first.ID)
}

func TestMapTitle_Cast(t *testing.T) {
	title := mapOne(t, `{"id": 1, "actors": [
		{"id": 4, "name": "Sigourney Weaver", "pivot": {"role_name": "Ripley"}},
		{"id": 5, "name": "Ian Holm", "role_name": "Ash"}
	]}`)
	require.Len(t, title.Cast, 2)
	assert.Equal(t, "Ripley", title.Cast[0].RoleName)
	assert.Equal(t, "Sigourney Weaver", title.Cast[0].Actor.Name)
	assert.Equal(t, "Ash", title.Cast[1].RoleName)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[1, 2]`, 2},
		{"envelope", `{"data": [1, 2, 3]}`, 3},
		{"nested paginator", `{"data": {"data": [1], "total": 1}}`, 1},
		{"object without data", `{"id": 1}`, 0},
		{"empty", ``, 0},
		{"garbage", `not json`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, splitList([]byte(tt.body)), tt.want)
		})
	}
}

func TestMapPage_Defaults(t *testing.T) {
	page := MapPage([]byte(`{"data": [{"id": 1}], "current_page": 0, "last_page": 0}`), 2, MapTitles)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.TotalItems)
}

func TestMapOptions_SkipsEmpty(t *testing.T) {
	raw := []json.RawMessage{
		json.RawMessage(`{"value": "us", "label": "United States"}`),
		json.RawMessage(`null`),
		json.RawMessage(`{"name": "no id"}`),
	}
	assert.Equal(t, []domain.Option{{ID: "us", Label: "United States"}}, MapOptions(raw))
}
