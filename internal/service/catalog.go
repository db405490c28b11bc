package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/mmcdole/marquee/internal/domain"
)

const defaultPageSize = 20

// BrowseResult is everything the browse view needs on entry
type BrowseResult struct {
	Titles  []domain.Title
	Options domain.FilterOptions
}

// CatalogService serves the public catalog views
type CatalogService struct {
	repo     domain.CatalogRepository
	pageSize int
	logger   *slog.Logger

	mu     sync.RWMutex
	titles []domain.Title // last browse list, used to resolve Watch

	privileged func() bool // reports whether unpublished titles may be resolved
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo domain.CatalogRepository, pageSize int, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &CatalogService{
		repo:     repo,
		pageSize: pageSize,
		logger:   logger,
	}
}

// SetPrivileged installs the check that lets Title resolve unpublished
// titles, typically the session's IsAuthenticated. Without it they stay hidden.
func (s *CatalogService) SetPrivileged(fn func() bool) {
	s.privileged = fn
}

// PageSize returns the per-page count used for server-paged lists
func (s *CatalogService) PageSize() int {
	return s.pageSize
}

// Browse loads the title list and the dropdown options concurrently.
// Each branch degrades to empty on failure; the returned error joins the
// failures and the result is still usable.
func (s *CatalogService) Browse(ctx context.Context) (BrowseResult, error) {
	var (
		res       BrowseResult
		titlesErr error
		optsErr   error
		wg        conc.WaitGroup
	)

	wg.Go(func() {
		titles, err := s.Titles(ctx)
		if err != nil {
			titlesErr = fmt.Errorf("titles: %w", err)
			return
		}
		res.Titles = titles
	})
	wg.Go(func() {
		res.Options, optsErr = s.Options(ctx)
	})
	wg.Wait()

	if res.Titles == nil {
		res.Titles = []domain.Title{}
	}
	return res, errors.Join(titlesErr, optsErr)
}

// Titles fetches the browse list and remembers it for Title lookups
func (s *CatalogService) Titles(ctx context.Context) ([]domain.Title, error) {
	titles, err := s.repo.ListTitles(ctx)
	if err != nil {
		s.logger.Error("failed to load titles", "error", err)
		return nil, err
	}
	s.mu.Lock()
	s.titles = titles
	s.mu.Unlock()
	return titles, nil
}

// Options fetches the three dropdowns concurrently. A failed dimension is
// left empty and reported in the joined error.
func (s *CatalogService) Options(ctx context.Context) (domain.FilterOptions, error) {
	var (
		opts domain.FilterOptions
		errs [3]error
		wg   conc.WaitGroup
	)

	fetch := func(i int, dim domain.Dimension, dst *[]domain.Option) {
		wg.Go(func() {
			got, err := s.repo.DropdownOptions(ctx, dim)
			if err != nil {
				s.logger.Warn("dropdown unavailable", "dimension", dim, "error", err)
				errs[i] = fmt.Errorf("%s: %w", dim, err)
				*dst = []domain.Option{}
				return
			}
			*dst = got
		})
	}
	fetch(0, domain.DimensionGenres, &opts.Genres)
	fetch(1, domain.DimensionCountries, &opts.Countries)
	fetch(2, domain.DimensionYears, &opts.Years)
	wg.Wait()

	return opts, errors.Join(errs[:]...)
}

// Title resolves a title from the browse list, loading it when needed.
// Unpublished titles are not found unless the caller is privileged.
func (s *CatalogService) Title(ctx context.Context, id string) (domain.Title, error) {
	s.mu.RLock()
	titles := s.titles
	s.mu.RUnlock()

	t, ok := findTitle(titles, id)
	if !ok {
		var err error
		if titles, err = s.Titles(ctx); err != nil {
			return domain.Title{}, err
		}
		if t, ok = findTitle(titles, id); !ok {
			return domain.Title{}, domain.ErrItemNotFound
		}
	}

	if !t.Published && (s.privileged == nil || !s.privileged()) {
		s.logger.Debug("unpublished title hidden", "id", id)
		return domain.Title{}, domain.ErrItemNotFound
	}
	return t, nil
}

func findTitle(titles []domain.Title, id string) (domain.Title, bool) {
	for _, t := range titles {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Title{}, false
}

// Search returns one page of server-side search results
func (s *CatalogService) Search(ctx context.Context, criteria domain.FilterCriteria, page int) (domain.Page[domain.Title], error) {
	return s.repo.SearchTitles(ctx, criteria, page, s.pageSize)
}

// TopRated returns one page of the highest rated titles
func (s *CatalogService) TopRated(ctx context.Context, page int) (domain.Page[domain.Title], error) {
	return s.repo.TopRated(ctx, page, s.pageSize)
}

// NewReleases returns one page of the newest titles
func (s *CatalogService) NewReleases(ctx context.Context, page int) (domain.Page[domain.Title], error) {
	return s.repo.NewReleases(ctx, page, s.pageSize)
}

// Actor returns one cast member
func (s *CatalogService) Actor(ctx context.Context, id string) (*domain.Actor, error) {
	return s.repo.Actor(ctx, id)
}

// ActorTitles returns one page of the titles an actor appears in
func (s *CatalogService) ActorTitles(ctx context.Context, actorID string, page int) (domain.Page[domain.Title], error) {
	return s.repo.ActorTitles(ctx, actorID, page, s.pageSize)
}
