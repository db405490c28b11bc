package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/mmcdole/marquee/internal/domain"
)

var _ domain.AdminRepository = (*Client)(nil)

func (c *Client) adminPath(res domain.Resource, id string) string {
	p := c.adminPrefix + "/" + string(res)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// List returns one server page of an admin resource
func (c *Client) List(ctx context.Context, res domain.Resource, q domain.ListQuery) (domain.Page[domain.Record], error) {
	query := pageQuery(q.Page, q.PerPage)
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.adminPath(res, ""),
		query:  query,
		bearer: true,
	})
	if err != nil {
		return domain.Page[domain.Record]{}, err
	}
	return MapPage(body, q.Page, mapRecords), nil
}

// ListAll returns every record of a resource that the server does not page
func (c *Client) ListAll(ctx context.Context, res domain.Resource) ([]domain.Record, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   c.adminPath(res, ""),
		bearer: true,
	})
	if err != nil {
		return nil, err
	}
	return mapRecords(splitList(body)), nil
}

// Create adds a record and returns it as stored
func (c *Client) Create(ctx context.Context, res domain.Resource, fields domain.Record) (domain.Record, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   c.adminPath(res, ""),
		body:   fields,
		bearer: true,
	})
	if err != nil {
		return nil, err
	}
	return singleRecord(body, fields), nil
}

// Update replaces the fields of record id
func (c *Client) Update(ctx context.Context, res domain.Resource, id string, fields domain.Record) (domain.Record, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   c.adminPath(res, id),
		body:   fields,
		bearer: true,
	})
	if err != nil {
		return nil, err
	}
	rec := singleRecord(body, fields)
	if rec.ID() == "" {
		rec["id"] = id
	}
	return rec, nil
}

// Delete removes record id
func (c *Client) Delete(ctx context.Context, res domain.Resource, id string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   c.adminPath(res, id),
		bearer: true,
	})
	return err
}

func mapRecords(items []json.RawMessage) []domain.Record {
	records := make([]domain.Record, 0, len(items))
	for _, raw := range items {
		var rec domain.Record
		if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// singleRecord reads a mutation response ({data: {...}} or a bare object).
// Servers that answer with only a message get the submitted fields back.
func singleRecord(body []byte, submitted domain.Record) domain.Record {
	var env struct {
		Data domain.Record `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data
	}
	var rec domain.Record
	if err := json.Unmarshal(body, &rec); err == nil && rec.ID() != "" {
		return rec
	}
	out := make(domain.Record, len(submitted))
	for k, v := range submitted {
		out[k] = v
	}
	return out
}
