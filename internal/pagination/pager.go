// Package pagination implements the page navigation state machine shared by
// every paged list view.
package pagination

import (
	"context"

	"github.com/mmcdole/marquee/internal/domain"
)

// Fetcher loads one page from the server
type Fetcher[T any] func(ctx context.Context, page int) (domain.Page[T], error)

// Snapshot is a copy of the pager state for rendering
type Snapshot struct {
	Page       int  // Last confirmed page
	TotalPages int  // Always >= 1
	TotalItems int  // Always >= 0
	Loading    bool // A fetch is in flight
	Requested  int  // Page being fetched while Loading, else 0
}

// Ticket identifies one accepted page request.
// Results presented with a stale ticket are ignored.
type Ticket struct {
	Page int
	gen  uint64
}

// Pager tracks current page, totals and the loading flag for one view.
//
// States are Idle and Loading. A request is accepted only from Idle, so at most
// one fetch per pager is in flight. Pager is owned by a single view and is not
// safe for concurrent mutation; Fetch may run on another goroutine.
type Pager[T any] struct {
	fetch Fetcher[T]

	page       int
	totalPages int
	totalItems int
	items      []T

	loading   bool
	requested int
	gen       uint64

	onSettled func()
}

// Option configures a Pager
type Option[T any] func(*Pager[T])

// WithScrollToTop registers the hook run after every successful page load
func WithScrollToTop[T any](fn func()) Option[T] {
	return func(p *Pager[T]) { p.onSettled = fn }
}

// New creates an idle pager on page 1 of 1
func New[T any](fetch Fetcher[T], opts ...Option[T]) *Pager[T] {
	p := &Pager[T]{
		fetch:      fetch,
		page:       1,
		totalPages: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Snapshot returns the current state
func (p *Pager[T]) Snapshot() Snapshot {
	s := Snapshot{
		Page:       p.page,
		TotalPages: p.totalPages,
		TotalItems: p.totalItems,
		Loading:    p.loading,
	}
	if p.loading {
		s.Requested = p.requested
	}
	return s
}

// Items returns the items of the last confirmed page
func (p *Pager[T]) Items() []T {
	return p.items
}

// Page returns the last confirmed page number
func (p *Pager[T]) Page() int { return p.page }

// TotalPages returns the page count reported by the server
func (p *Pager[T]) TotalPages() int { return p.totalPages }

// Loading reports whether a fetch is in flight
func (p *Pager[T]) Loading() bool { return p.loading }

// RequestPage moves to Loading for page n.
// The request is ignored unless the pager is idle, n is within
// [1, TotalPages] and n differs from the current page.
func (p *Pager[T]) RequestPage(n int) (Ticket, bool) {
	if p.loading || n < 1 || n > p.totalPages || n == p.page {
		return Ticket{}, false
	}
	return p.begin(n), true
}

// Next requests the page after the current one
func (p *Pager[T]) Next() (Ticket, bool) {
	return p.RequestPage(p.page + 1)
}

// Prev requests the page before the current one
func (p *Pager[T]) Prev() (Ticket, bool) {
	return p.RequestPage(p.page - 1)
}

// Refresh re-requests the current page. Used for the initial load and after
// the view's criteria change. Ignored while a fetch is in flight.
func (p *Pager[T]) Refresh() (Ticket, bool) {
	if p.loading {
		return Ticket{}, false
	}
	return p.begin(p.page), true
}

func (p *Pager[T]) begin(n int) Ticket {
	p.gen++
	p.loading = true
	p.requested = n
	return Ticket{Page: n, gen: p.gen}
}

// Fetch performs the page-fetch side effect for an accepted ticket
func (p *Pager[T]) Fetch(ctx context.Context, t Ticket) (domain.Page[T], error) {
	return p.fetch(ctx, t.Page)
}

// Succeeded applies a fetched page and returns to Idle.
// The server's page number is trusted over the requested one; it is clamped
// into [1, TotalPages] so the pager never holds an impossible position.
// Returns false when the ticket is stale.
func (p *Pager[T]) Succeeded(t Ticket, res domain.Page[T]) bool {
	if !p.current(t) {
		return false
	}

	total := res.TotalPages
	if total < 1 {
		total = 1
	}
	page := res.Page
	if page < 1 {
		page = t.Page
	}
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	items := res.TotalItems
	if items < 0 {
		items = 0
	}

	p.page = page
	p.totalPages = total
	p.totalItems = items
	p.items = res.Items
	p.settle()

	if p.onSettled != nil {
		p.onSettled()
	}
	return true
}

// Failed returns to Idle keeping the previously confirmed page and totals.
// Returns false when the ticket is stale.
func (p *Pager[T]) Failed(t Ticket) bool {
	if !p.current(t) {
		return false
	}
	p.settle()
	return true
}

// Reset returns to Idle on page 1 of 1 and drops any outstanding request
func (p *Pager[T]) Reset() {
	p.gen++
	p.page = 1
	p.totalPages = 1
	p.totalItems = 0
	p.items = nil
	p.settle()
}

// Load requests page n, fetches it and applies the result.
// Returns false with a nil error when the request was ignored.
func (p *Pager[T]) Load(ctx context.Context, n int) (bool, error) {
	t, ok := p.RequestPage(n)
	if !ok {
		return false, nil
	}
	return p.run(ctx, t)
}

// Reload refreshes the current page synchronously
func (p *Pager[T]) Reload(ctx context.Context) (bool, error) {
	t, ok := p.Refresh()
	if !ok {
		return false, nil
	}
	return p.run(ctx, t)
}

func (p *Pager[T]) run(ctx context.Context, t Ticket) (bool, error) {
	res, err := p.Fetch(ctx, t)
	if err != nil {
		p.Failed(t)
		return false, err
	}
	return p.Succeeded(t, res), nil
}

func (p *Pager[T]) current(t Ticket) bool {
	return p.loading && t.gen == p.gen
}

func (p *Pager[T]) settle() {
	p.loading = false
	p.requested = 0
}
