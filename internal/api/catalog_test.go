package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func TestListTitles_AcceptsBothShapes(t *testing.T) {
	for name, payload := range map[string]string{
		"array":    `[{"id": 1, "title": "Alien"}, {"id": "2", "title": "Heat"}]`,
		"envelope": `{"success": true, "data": [{"id": 1, "title": "Alien"}, {"id": "2", "title": "Heat"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/movies", r.URL.Path)
				w.Write([]byte(payload))
			})
			titles, err := c.ListTitles(context.Background())
			require.NoError(t, err)
			require.Len(t, titles, 2)
			assert.Equal(t, "1", titles[0].ID)
			assert.Equal(t, "2", titles[1].ID)
		})
	}
}

func TestListTitles_UnexpectedShapeIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "ok"}`))
	})
	titles, err := c.ListTitles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestSearchTitles_QueryAndEnvelope(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies/search", r.URL.Path)
		got = r.URL.Query()
		w.Write([]byte(`{"data": [{"id": 9, "title": "Solaris"}], "current_page": 2, "last_page": 4, "total": 61}`))
	})

	page, err := c.SearchTitles(context.Background(), domain.FilterCriteria{Query: "sol", GenreID: "3", Year: "1972"}, 2, 20)
	require.NoError(t, err)

	assert.Equal(t, "sol", got.Get("q"))
	assert.Equal(t, "3", got.Get("genre_id"))
	assert.Equal(t, "1972", got.Get("year"))
	assert.Equal(t, "2", got.Get("page"))
	assert.Equal(t, "20", got.Get("per_page"))
	assert.False(t, got.Has("country"))
	assert.False(t, got.Has("type"))

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 61, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Solaris", page.Items[0].Title)
}

func TestPagedEndpoints_MetaEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": 1}], "meta": {"current_page": "3", "last_page": "3", "total": "41"}}`))
	})
	page, err := c.TopRated(context.Background(), 3, 20)
	require.NoError(t, err)
	assert.Equal(t, domain.Page[domain.Title]{Items: page.Items, Page: 3, TotalPages: 3, TotalItems: 41}, page)
}

func TestPagedEndpoints_BareArrayIsOnePage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/actors/7/movies", r.URL.Path)
		w.Write([]byte(`[{"id": 1}, {"id": 2}]`))
	})
	page, err := c.ActorTitles(context.Background(), "7", 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 2, page.TotalItems)
}

func TestNewReleasesPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movies/new", r.URL.Path)
		w.Write([]byte(`{"data": [], "current_page": 1, "last_page": 1, "total": 0}`))
	})
	page, err := c.NewReleases(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestDropdownOptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dropdown/genres":
			w.Write([]byte(`{"success": true, "data": [{"id": 1, "name": "Drama"}, {"id": 2, "name": "Horror"}]}`))
		case "/api/dropdown/countries":
			w.Write([]byte(`{"data": ["USA", "France", ""]}`))
		case "/api/dropdown/years":
			w.Write([]byte(`{"data": [2021, "2019"]}`))
		}
	})

	genres, err := c.DropdownOptions(context.Background(), domain.DimensionGenres)
	require.NoError(t, err)
	assert.Equal(t, []domain.Option{{ID: "1", Label: "Drama"}, {ID: "2", Label: "Horror"}}, genres)

	countries, err := c.DropdownOptions(context.Background(), domain.DimensionCountries)
	require.NoError(t, err)
	assert.Equal(t, []domain.Option{{ID: "USA", Label: "USA"}, {ID: "France", Label: "France"}}, countries)

	years, err := c.DropdownOptions(context.Background(), domain.DimensionYears)
	require.NoError(t, err)
	assert.Equal(t, []domain.Option{{ID: "2021", Label: "2021"}, {ID: "2019", Label: "2019"}}, years)
}

func TestActor(t *testing.T) {
	for name, payload := range map[string]string{
		"bare":    `{"id": 4, "name": "Sigourney Weaver", "nationality": "American"}`,
		"wrapped": `{"data": {"id": 4, "name": "Sigourney Weaver", "nationality": "American"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/actors/4", r.URL.Path)
				w.Write([]byte(payload))
			})
			actor, err := c.Actor(context.Background(), "4")
			require.NoError(t, err)
			assert.Equal(t, &domain.Actor{ID: "4", Name: "Sigourney Weaver", Nationality: "American"}, actor)
		})
	}
}

func TestAuth_LoginAndMe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"token": "tok-1", "user": {"id": 1, "username": "admin"}}`))
		case "/api/auth/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.Write([]byte(`{"user": {"id": 1, "username": "admin", "email": "admin@example.com", "role": "admin"}}`))
		}
	})

	res, err := c.Login(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, "admin", res.User.Username)

	user, err := c.Me(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: "1", Username: "admin", Email: "admin@example.com", Role: "admin"}, user)
}

func TestAuth_RegisterWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message": "created"}`))
	})
	_, err := c.Register(context.Background(), domain.RegisterRequest{Username: "u", Email: "e", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrUnexpectedStatus)
}

func TestAuth_LogoutSendsToken(t *testing.T) {
	got := make(chan string, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Logout(context.Background(), "tok-9"))

	select {
	case h := <-got:
		assert.Equal(t, "Bearer tok-9", h)
	case <-time.After(time.Second):
		t.Fatal("logout not sent")
	}
}
