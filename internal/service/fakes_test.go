package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

var errBoom = errors.New("boom")

type fakeCatalog struct {
	mu        sync.Mutex
	titles    []domain.Title
	titlesErr error
	options   map[domain.Dimension][]domain.Option
	optErr    map[domain.Dimension]error
	listCalls int
	lastPer   int
}

func (f *fakeCatalog) ListTitles(context.Context) ([]domain.Title, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.titlesErr != nil {
		return nil, f.titlesErr
	}
	return f.titles, nil
}

func (f *fakeCatalog) SearchTitles(_ context.Context, _ domain.FilterCriteria, page, perPage int) (domain.Page[domain.Title], error) {
	f.mu.Lock()
	f.lastPer = perPage
	f.mu.Unlock()
	return domain.Page[domain.Title]{Page: page, TotalPages: 1}, nil
}

func (f *fakeCatalog) TopRated(_ context.Context, page, perPage int) (domain.Page[domain.Title], error) {
	return f.SearchTitles(context.Background(), domain.FilterCriteria{}, page, perPage)
}

func (f *fakeCatalog) NewReleases(_ context.Context, page, perPage int) (domain.Page[domain.Title], error) {
	return f.SearchTitles(context.Background(), domain.FilterCriteria{}, page, perPage)
}

func (f *fakeCatalog) Genres(context.Context) ([]domain.Genre, error) { return nil, nil }

func (f *fakeCatalog) DropdownOptions(_ context.Context, dim domain.Dimension) ([]domain.Option, error) {
	if err := f.optErr[dim]; err != nil {
		return nil, err
	}
	return f.options[dim], nil
}

func (f *fakeCatalog) Actor(_ context.Context, id string) (*domain.Actor, error) {
	return &domain.Actor{ID: id}, nil
}

func (f *fakeCatalog) ActorTitles(_ context.Context, _ string, page, perPage int) (domain.Page[domain.Title], error) {
	return f.SearchTitles(context.Background(), domain.FilterCriteria{}, page, perPage)
}

// fakeAdmin keeps records in memory. Paged resources honour ListQuery;
// listAllCalls counts whole-collection fetches.
type fakeAdmin struct {
	mu           sync.Mutex
	records      map[domain.Resource][]domain.Record
	fail         map[domain.Resource]error
	listAllCalls map[domain.Resource]int
	lastQuery    domain.ListQuery
	nextID       int
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{
		records:      make(map[domain.Resource][]domain.Record),
		fail:         make(map[domain.Resource]error),
		listAllCalls: make(map[domain.Resource]int),
		nextID:       100,
	}
}

func (f *fakeAdmin) List(_ context.Context, res domain.Resource, q domain.ListQuery) (domain.Page[domain.Record], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[res]; err != nil {
		return domain.Page[domain.Record]{}, err
	}
	f.lastQuery = q
	all := f.records[res]
	return paginate(all, q.Page, q.PerPage), nil
}

func (f *fakeAdmin) ListAll(_ context.Context, res domain.Resource) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listAllCalls[res]++
	if err := f.fail[res]; err != nil {
		return nil, err
	}
	return append([]domain.Record(nil), f.records[res]...), nil
}

func (f *fakeAdmin) Create(_ context.Context, res domain.Resource, fields domain.Record) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := domain.Record{"id": strconv.Itoa(f.nextID)}
	f.nextID++
	for k, v := range fields {
		rec[k] = v
	}
	f.records[res] = append(f.records[res], rec)
	return rec, nil
}

func (f *fakeAdmin) Update(_ context.Context, res domain.Resource, id string, fields domain.Record) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[res]; err != nil {
		return nil, err
	}
	for _, rec := range f.records[res] {
		if rec.ID() == id {
			for k, v := range fields {
				rec[k] = v
			}
			out := domain.Record{}
			for k, v := range rec {
				out[k] = v
			}
			return out, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (f *fakeAdmin) Delete(_ context.Context, res domain.Resource, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[res][:0]
	for _, rec := range f.records[res] {
		if rec.ID() != id {
			kept = append(kept, rec)
		}
	}
	f.records[res] = kept
	return nil
}

type launch struct{ url, title string }

type fakeLauncher struct {
	launches []launch
	err      error
}

func (f *fakeLauncher) Launch(url, title string) error {
	f.launches = append(f.launches, launch{url, title})
	return f.err
}
