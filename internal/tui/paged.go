package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// titlePages drives a server-paged title list through a Pager
type titlePages struct {
	pager *pagination.Pager[domain.Title]
	list  components.List
}

func newTitlePages(fetch pagination.Fetcher[domain.Title]) *titlePages {
	tp := &titlePages{}
	tp.pager = pagination.New(fetch, pagination.WithScrollToTop[domain.Title](tp.list.Top))
	return tp
}

func (tp *titlePages) request(t pagination.Ticket, ok bool, to addressed) tea.Cmd {
	if !ok {
		return nil
	}
	return FetchPageCmd(tp.pager, t, to)
}

// refresh loads the current page, or page 1 after a reset
func (tp *titlePages) refresh(to addressed) tea.Cmd {
	t, ok := tp.pager.Refresh()
	return tp.request(t, ok, to)
}

// loaded applies a page result. Stale tickets are ignored by the pager.
func (tp *titlePages) loaded(msg PageLoadedMsg[domain.Title]) tea.Cmd {
	if msg.Err != nil {
		if tp.pager.Failed(msg.Ticket) {
			return status(domain.Message(msg.Err), true)
		}
		return nil
	}
	if tp.pager.Succeeded(msg.Ticket, msg.Page) {
		tp.list.SetCount(len(tp.pager.Items()))
	}
	return nil
}

// handleKey pages and moves the cursor
func (tp *titlePages) handleKey(msg tea.KeyMsg, to addressed) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, Keys.NextPage):
		t, ok := tp.pager.Next()
		return tp.request(t, ok, to), true
	case key.Matches(msg, Keys.PrevPage):
		t, ok := tp.pager.Prev()
		return tp.request(t, ok, to), true
	case key.Matches(msg, Keys.Refresh):
		return tp.refresh(to), true
	case key.Matches(msg, Keys.Enter):
		items := tp.pager.Items()
		if i := tp.list.Cursor(); i >= 0 && i < len(items) {
			return navigate(route.Location{Path: route.Expand(route.Watch, items[i].ID)}), true
		}
		return nil, true
	}
	return nil, tp.list.HandleKey(msg)
}

func (tp *titlePages) view(f frame, used int) string {
	snap := tp.pager.Snapshot()
	items := tp.pager.Items()

	var body string
	switch {
	case len(items) == 0 && snap.Loading:
		body = f.spin() + styles.DimStyle.Render(" Loading...")
	case len(items) == 0:
		body = styles.DimStyle.Render("No results.")
	default:
		tp.list.SetHeight(f.Height - used - 3)
		body = tp.list.Render(func(i int, selected bool) string {
			return titleRow(items[i], selected, f.Width)
		})
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", components.Paginator(snap, f.Spinner))
}

func (tp *titlePages) help() []key.Binding {
	return []key.Binding{Keys.Enter, Keys.PrevPage, Keys.NextPage, Keys.Refresh}
}

// listView is a plain server-paged list (top rated, new releases)
type listView struct {
	base
	title string
	pages *titlePages
}

func newTopRatedView(b base) *listView {
	return &listView{base: b, title: "Top Rated", pages: newTitlePages(b.svc.Catalog.TopRated)}
}

func newNewReleasesView(b base) *listView {
	return &listView{base: b, title: "New Releases", pages: newTitlePages(b.svc.Catalog.NewReleases)}
}

func (v *listView) Title() string { return v.title }

func (v *listView) Init() tea.Cmd { return v.pages.refresh(v.to()) }

func (v *listView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PageLoadedMsg[domain.Title]:
		return v.pages.loaded(msg)
	case tea.KeyMsg:
		cmd, _ := v.pages.handleKey(msg, v.to())
		return cmd
	}
	return nil
}

func (v *listView) View(f frame) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(v.title),
		"",
		v.pages.view(f, 2),
	)
}

func (v *listView) Help() []key.Binding { return v.pages.help() }

// searchView runs server-side search; criteria round-trip through the location
type searchView struct {
	base
	bar   filterBar
	pages *titlePages

	mu      sync.Mutex
	applied domain.FilterCriteria // criteria of the next fetch
}

func newSearchView(b base, c domain.FilterCriteria) *searchView {
	v := &searchView{base: b, bar: newFilterBar(c), applied: c}
	v.pages = newTitlePages(v.fetch)
	return v
}

func (v *searchView) fetch(ctx context.Context, page int) (domain.Page[domain.Title], error) {
	v.mu.Lock()
	c := v.applied
	v.mu.Unlock()
	return v.svc.Catalog.Search(ctx, c, page)
}

func (v *searchView) Title() string { return "Search" }

func (v *searchView) Init() tea.Cmd {
	return tea.Batch(v.pages.refresh(v.to()), LoadOptionsCmd(v.svc.Catalog, v.to()))
}

func (v *searchView) Capturing() bool { return v.bar.capturing() }

// apply restarts from page 1 with the bar's criteria. Outstanding fetches for
// the previous criteria become stale.
func (v *searchView) apply() tea.Cmd {
	v.mu.Lock()
	v.applied = v.bar.criteria
	v.mu.Unlock()

	v.pages.pager.Reset()
	v.pages.list.SetCount(0)
	v.loc = route.Location{Path: route.Search, RawQuery: catalog.EncodeQuery(v.bar.criteria)}
	return tea.Batch(v.pages.refresh(v.to()), replaceLocation(v.loc))
}

func (v *searchView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PageLoadedMsg[domain.Title]:
		return v.pages.loaded(msg)
	case OptionsLoadedMsg:
		v.bar.options = msg.Options
		if msg.Err != nil {
			return status("Some filters are unavailable: "+domain.Message(msg.Err), true)
		}
		return nil
	}

	typing := v.bar.input.Focused()
	cmd, handled, changed, committed := v.bar.update(msg)
	if committed || (changed && !typing) {
		return tea.Batch(cmd, v.apply())
	}
	if handled {
		return cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		cmd, _ := v.pages.handleKey(keyMsg, v.to())
		return cmd
	}
	return nil
}

func (v *searchView) View(f frame) string {
	if v.bar.picker.IsVisible() {
		return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center, v.bar.overlay())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		v.bar.view(),
		"",
		v.pages.view(f, 2),
	)
}

func (v *searchView) Help() []key.Binding {
	return append(v.bar.help(), v.pages.help()...)
}

// castView shows one cast member and the titles they appear in
type castView struct {
	base
	actorID string
	actor   *domain.Actor
	pages   *titlePages
}

func newCastView(b base, id string) *castView {
	v := &castView{base: b, actorID: id}
	v.pages = newTitlePages(func(ctx context.Context, page int) (domain.Page[domain.Title], error) {
		return b.svc.Catalog.ActorTitles(ctx, id, page)
	})
	return v
}

func (v *castView) Title() string { return "Cast" }

func (v *castView) Init() tea.Cmd {
	return tea.Batch(LoadActorCmd(v.svc.Catalog, v.actorID, v.to()), v.pages.refresh(v.to()))
}

func (v *castView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ActorLoadedMsg:
		if msg.Err != nil {
			return status("Could not load cast member: "+domain.Message(msg.Err), true)
		}
		v.actor = msg.Actor
		return nil
	case PageLoadedMsg[domain.Title]:
		return v.pages.loaded(msg)
	case tea.KeyMsg:
		cmd, _ := v.pages.handleKey(msg, v.to())
		return cmd
	}
	return nil
}

func (v *castView) View(f frame) string {
	var header []string
	if v.actor == nil {
		header = append(header, styles.TitleStyle.Render("Cast member"), "")
	} else {
		header = append(header, styles.TitleStyle.Render(v.actor.Name))
		var meta []string
		if v.actor.BirthDate != "" {
			meta = append(meta, "born "+v.actor.BirthDate)
		}
		if v.actor.Nationality != "" {
			meta = append(meta, v.actor.Nationality)
		}
		header = append(header, styles.SubtitleStyle.Render(joinMeta(meta)))
		if v.actor.Bio != "" {
			header = append(header, lipgloss.NewStyle().Width(max(f.Width-4, 20)).MaxHeight(3).Render(v.actor.Bio))
		}
	}
	header = append(header, "", styles.AccentStyle.Render("Appears in"))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, header...),
		v.pages.view(f, len(header)+2),
	)
}

func (v *castView) Help() []key.Binding { return v.pages.help() }
