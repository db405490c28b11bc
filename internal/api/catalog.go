package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mmcdole/marquee/internal/domain"
)

var _ domain.CatalogRepository = (*Client)(nil)

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return q
}

// ListTitles returns the full browse list
func (c *Client) ListTitles(ctx context.Context) ([]domain.Title, error) {
	body, err := c.get(ctx, "/api/movies", nil)
	if err != nil {
		return nil, err
	}
	return MapTitles(splitList(body)), nil
}

// SearchTitles returns one server-filtered page
func (c *Client) SearchTitles(ctx context.Context, criteria domain.FilterCriteria, page, perPage int) (domain.Page[domain.Title], error) {
	q := pageQuery(page, perPage)
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("q", criteria.Query)
	set("genre_id", criteria.GenreID)
	set("country", criteria.CountryID)
	set("year", criteria.Year)
	set("type", criteria.Type)

	return c.titlePage(ctx, "/api/movies/search", q, page)
}

// TopRated returns one page of titles ordered by rating
func (c *Client) TopRated(ctx context.Context, page, perPage int) (domain.Page[domain.Title], error) {
	return c.titlePage(ctx, "/api/movies/top-rated", pageQuery(page, perPage), page)
}

// NewReleases returns one page of the most recent titles
func (c *Client) NewReleases(ctx context.Context, page, perPage int) (domain.Page[domain.Title], error) {
	return c.titlePage(ctx, "/api/movies/new", pageQuery(page, perPage), page)
}

// ActorTitles returns one page of the titles an actor appears in
func (c *Client) ActorTitles(ctx context.Context, actorID string, page, perPage int) (domain.Page[domain.Title], error) {
	path := fmt.Sprintf("/api/actors/%s/movies", url.PathEscape(actorID))
	return c.titlePage(ctx, path, pageQuery(page, perPage), page)
}

func (c *Client) titlePage(ctx context.Context, path string, q url.Values, page int) (domain.Page[domain.Title], error) {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return domain.Page[domain.Title]{}, err
	}
	return MapPage(body, page, MapTitles), nil
}

// Genres returns the public genre list
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	body, err := c.get(ctx, "/api/genres", nil)
	if err != nil {
		return nil, err
	}
	return MapGenres(splitList(body)), nil
}

// DropdownOptions returns the choices for one filter dimension
func (c *Client) DropdownOptions(ctx context.Context, dim domain.Dimension) ([]domain.Option, error) {
	body, err := c.get(ctx, "/api/dropdown/"+string(dim), nil)
	if err != nil {
		return nil, err
	}
	return MapOptions(splitList(body)), nil
}

// Actor returns a single cast member. The payload may be bare or wrapped in {data}.
func (c *Client) Actor(ctx context.Context, id string) (*domain.Actor, error) {
	body, err := c.get(ctx, "/api/actors/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data *ActorDTO `json:"data"`
	}
	if err := decode(body, &env); err != nil {
		return nil, err
	}
	dto := env.Data
	if dto == nil {
		dto = &ActorDTO{}
		if err := decode(body, dto); err != nil {
			return nil, err
		}
	}
	if dto.ID == "" && dto.Name == "" {
		return nil, domain.ErrItemNotFound
	}
	actor := MapActor(*dto)
	return &actor, nil
}
