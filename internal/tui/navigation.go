package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/route"
)

// open shows loc, consulting the guard first. Every open creates a fresh
// view instance so results addressed to the old one are dropped.
func (m *Model) open(loc route.Location) tea.Cmd {
	d := m.guard.Decide(m.svc.Session.State().Status, loc)
	m.logger.Debug("navigate", "to", loc.String(), "decision", d.Action.String())

	switch d.Action {
	case route.Placeholder:
		m.pending = loc
		m.current = &placeholderView{base: m.newBase(loc)}
		return nil
	case route.Redirect:
		m.pending = route.Location{}
		m.from = d.From
		loc = d.To
	default:
		m.pending = route.Location{}
	}

	m.current = m.build(loc)
	return m.current.Init()
}

// push opens loc as a new history entry
func (m *Model) push(loc route.Location) tea.Cmd {
	if loc.String() == m.current.Location().String() {
		return nil
	}
	cmd := m.open(loc)
	m.history = append(m.history, m.current.Location())
	return cmd
}

// replace swaps the current history entry. When the path is unchanged the
// view already reflects loc and is kept.
func (m *Model) replace(loc route.Location) tea.Cmd {
	if loc.Path != m.current.Location().Path || !m.pending.IsZero() {
		return m.reopen(loc)
	}
	if len(m.history) > 0 {
		m.history[len(m.history)-1] = loc
	}
	return nil
}

// back reopens the previous history entry
func (m *Model) back() tea.Cmd {
	if len(m.history) < 2 {
		return nil
	}
	m.history = m.history[:len(m.history)-1]
	return m.reopen(m.history[len(m.history)-1])
}

// sessionChanged re-runs the guard for what is on screen. A bootstrap that
// finishes renders the pending location; a session that ends while a
// protected screen is shown redirects to login once.
func (m *Model) sessionChanged() tea.Cmd {
	loc := m.current.Location()
	if !m.pending.IsZero() {
		loc = m.pending
	}

	d := m.guard.Decide(m.svc.Session.State().Status, loc)
	switch d.Action {
	case route.Placeholder:
		return nil
	case route.Redirect:
		if m.current.Location().Path == d.To.Path {
			return nil
		}
		return m.reopen(loc)
	default:
		if m.pending.IsZero() {
			return nil
		}
		return m.reopen(m.pending)
	}
}

// reopen opens loc in place of the current history entry
func (m *Model) reopen(loc route.Location) tea.Cmd {
	cmd := m.open(loc)
	if len(m.history) == 0 {
		m.history = []route.Location{m.current.Location()}
	} else {
		m.history[len(m.history)-1] = m.current.Location()
	}
	return cmd
}

func (m *Model) newBase(loc route.Location) base {
	m.nextID++
	return base{id: m.nextID, loc: loc, svc: m.svc}
}

// build creates the view for loc
func (m *Model) build(loc route.Location) view {
	b := m.newBase(loc)

	if id, ok := route.Match(route.Watch, loc.Path); ok {
		return newWatchView(b, id)
	}
	if id, ok := route.Match(route.Cast, loc.Path); ok {
		return newCastView(b, id)
	}

	switch {
	case loc.Path == route.Home:
		return newBrowseView(b)
	case loc.Path == route.Search:
		return newSearchView(b, catalog.FromValues(loc.Query()))
	case loc.Path == route.TopRated:
		return newTopRatedView(b)
	case loc.Path == route.New:
		return newNewReleasesView(b)
	case loc.Path == route.Login:
		return newLoginView(b, m.from)
	case loc.Path == route.Register:
		return newRegisterView(b, m.from)
	case loc.Path == route.Admin || strings.HasPrefix(loc.Path, route.Admin+"/"):
		return newAdminView(b)
	default:
		return &notFoundView{base: b}
	}
}
