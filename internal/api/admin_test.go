package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
)

func TestAdmin_ListUsesPrefixAndPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/backoffice/movies", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Equal(t, "alien", r.URL.Query().Get("search"))
		w.Write([]byte(`{"data": [{"id": 3, "title": "Alien", "is_published": 0}], "current_page": 1, "last_page": 12, "total": 12}`))
	}, WithAdminPrefix("backoffice/"))

	page, err := c.List(context.Background(), domain.ResourceTitles, domain.ListQuery{Page: 1, PerPage: 1, Search: "alien"})
	require.NoError(t, err)
	assert.Equal(t, 12, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "3", page.Items[0].ID())
	assert.False(t, page.Items[0].Published())
}

func TestAdmin_CreateUpdateDelete(t *testing.T) {
	var methods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Noir", body["name"])
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data": {"id": 9, "name": "Noir"}}`))
		case http.MethodPut:
			w.Write([]byte(`{"message": "updated"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	rec, err := c.Create(ctx, domain.ResourceGenres, domain.Record{"name": "Noir"})
	require.NoError(t, err)
	assert.Equal(t, "9", rec.ID())

	rec, err = c.Update(ctx, domain.ResourceGenres, "9", domain.Record{"name": "Film Noir"})
	require.NoError(t, err)
	assert.Equal(t, "9", rec.ID())
	assert.Equal(t, "Film Noir", rec.String("name"))

	require.NoError(t, c.Delete(ctx, domain.ResourceGenres, "9"))

	assert.Equal(t, []string{
		"POST /api/admin/genres",
		"PUT /api/admin/genres/9",
		"DELETE /api/admin/genres/9",
	}, methods)
}

func TestAdmin_ListAll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[{"id": 1, "name": "Drama"}, {"id": 2, "name": "Horror"}]`))
	})
	recs, err := c.ListAll(context.Background(), domain.ResourceGenres)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Horror", recs[1].Label())
}
