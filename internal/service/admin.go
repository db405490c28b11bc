package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/sourcegraph/conc/iter"

	"github.com/mmcdole/marquee/internal/domain"
)

// AdminService wraps admin CRUD with per-resource paging strategy.
//
// Server-paged resources are forwarded as is. Client-paged resources (the
// server returns the whole collection) are fetched once, cached until the
// next mutation, and paged and searched locally.
type AdminService struct {
	repo        domain.AdminRepository
	clientPaged map[domain.Resource]bool
	pageSize    int
	logger      *slog.Logger

	mu    sync.Mutex
	cache map[domain.Resource][]domain.Record
}

// NewAdminService creates a new admin service. clientPaged lists the
// resources whose endpoint does not page.
func NewAdminService(repo domain.AdminRepository, clientPaged []domain.Resource, pageSize int, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	cp := make(map[domain.Resource]bool, len(clientPaged))
	for _, r := range clientPaged {
		cp[r] = true
	}
	return &AdminService{
		repo:        repo,
		clientPaged: cp,
		pageSize:    pageSize,
		logger:      logger,
		cache:       make(map[domain.Resource][]domain.Record),
	}
}

// PageSize returns the per-page count for admin lists
func (s *AdminService) PageSize() int {
	return s.pageSize
}

// List returns one page of res
func (s *AdminService) List(ctx context.Context, res domain.Resource, page int, search string) (domain.Page[domain.Record], error) {
	if !s.clientPaged[res] {
		return s.repo.List(ctx, res, domain.ListQuery{Page: page, PerPage: s.pageSize, Search: search})
	}

	all, err := s.all(ctx, res)
	if err != nil {
		return domain.Page[domain.Record]{}, err
	}
	return paginate(searchRecords(all, search), page, s.pageSize), nil
}

func (s *AdminService) all(ctx context.Context, res domain.Resource) ([]domain.Record, error) {
	s.mu.Lock()
	cached, ok := s.cache[res]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	records, err := s.repo.ListAll(ctx, res)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[res] = records
	s.mu.Unlock()
	return records, nil
}

func (s *AdminService) invalidate(res domain.Resource) {
	s.mu.Lock()
	delete(s.cache, res)
	s.mu.Unlock()
}

// recordLabels adapts records to fuzzy.Source
type recordLabels []domain.Record

func (r recordLabels) String(i int) string { return r[i].Label() }
func (r recordLabels) Len() int            { return len(r) }

// searchRecords ranks records by fuzzy match against their label.
// An empty query returns records unchanged.
func searchRecords(records []domain.Record, query string) []domain.Record {
	if query == "" {
		return records
	}
	matches := fuzzy.FindFrom(query, recordLabels(records))
	out := make([]domain.Record, len(matches))
	for i, m := range matches {
		out[i] = records[m.Index]
	}
	return out
}

// paginate slices one page out of records, clamping page into range
func paginate(records []domain.Record, page, perPage int) domain.Page[domain.Record] {
	total := len(records)
	last := max(1, (total+perPage-1)/perPage)
	page = min(max(page, 1), last)

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	return domain.Page[domain.Record]{
		Items:      records[start:end],
		Page:       page,
		TotalPages: last,
		TotalItems: total,
	}
}

// Create adds a record
func (s *AdminService) Create(ctx context.Context, res domain.Resource, fields domain.Record) (domain.Record, error) {
	rec, err := s.repo.Create(ctx, res, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(res)
	s.logger.Info("record created", "resource", res, "id", rec.ID())
	return rec, nil
}

// Update changes a record
func (s *AdminService) Update(ctx context.Context, res domain.Resource, id string, fields domain.Record) (domain.Record, error) {
	rec, err := s.repo.Update(ctx, res, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(res)
	s.logger.Info("record updated", "resource", res, "id", id)
	return rec, nil
}

// Delete removes a record
func (s *AdminService) Delete(ctx context.Context, res domain.Resource, id string) error {
	if err := s.repo.Delete(ctx, res, id); err != nil {
		return err
	}
	s.invalidate(res)
	s.logger.Info("record deleted", "resource", res, "id", id)
	return nil
}

// TogglePublish flips the publication flag of a title
func (s *AdminService) TogglePublish(ctx context.Context, rec domain.Record) (domain.Record, error) {
	next := !rec.Published()
	updated, err := s.Update(ctx, domain.ResourceTitles, rec.ID(), domain.Record{"is_published": next})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = domain.Record{"id": rec.ID()}
	}
	updated["is_published"] = next
	return updated, nil
}

// Counts returns the number of records per resource, fetched concurrently.
// Resources whose count could not be fetched are absent from the map.
func (s *AdminService) Counts(ctx context.Context) (map[domain.Resource]int, error) {
	type result struct {
		res   domain.Resource
		count int
		err   error
	}

	results := iter.Map(domain.Resources, func(res *domain.Resource) result {
		if s.clientPaged[*res] {
			all, err := s.all(ctx, *res)
			return result{res: *res, count: len(all), err: err}
		}
		page, err := s.repo.List(ctx, *res, domain.ListQuery{Page: 1, PerPage: 1})
		return result{res: *res, count: page.TotalItems, err: err}
	})

	counts := make(map[domain.Resource]int, len(results))
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.res, r.err))
			continue
		}
		counts[r.res] = r.count
	}
	return counts, errors.Join(errs...)
}
