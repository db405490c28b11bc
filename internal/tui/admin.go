package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// adminView is the dashboard: resource tabs with counts, a paged record
// list with search, and create/edit/delete/publish actions
type adminView struct {
	base
	tab    int
	counts map[domain.Resource]int

	pager *pagination.Pager[domain.Record]
	list  components.List

	search textinput.Model
	form   components.FormModal
	// id of the record being edited, empty when creating
	editing string
	// record awaiting delete confirmation
	confirm domain.Record

	mu     sync.Mutex
	query  string
	active domain.Resource
}

func newAdminView(b base) *adminView {
	v := &adminView{
		base:   b,
		counts: map[domain.Resource]int{},
		form:   components.NewFormModal(),
	}

	tab := b.loc.Query().Get("tab")
	if tab == "" {
		tab = strings.TrimPrefix(strings.TrimPrefix(b.loc.Path, route.Admin), "/")
	}
	for i, r := range domain.Resources {
		if string(r) == tab {
			v.tab = i
		}
	}
	v.active = domain.Resources[v.tab]

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 30
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	v.search = ti

	v.pager = pagination.New(v.fetch, pagination.WithScrollToTop[domain.Record](v.list.Top))
	return v
}

func (v *adminView) fetch(ctx context.Context, page int) (domain.Page[domain.Record], error) {
	v.mu.Lock()
	res, q := v.active, v.query
	v.mu.Unlock()
	return v.svc.Admin.List(ctx, res, page, q)
}

func (v *adminView) resource() domain.Resource {
	return domain.Resources[v.tab]
}

func (v *adminView) Title() string { return "Admin" }

func (v *adminView) Init() tea.Cmd {
	return tea.Batch(LoadCountsCmd(v.svc.Admin, v.to()), v.refresh())
}

func (v *adminView) Capturing() bool {
	return v.form.IsVisible() || v.search.Focused() || v.confirm != nil
}

func (v *adminView) request(t pagination.Ticket, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return FetchPageCmd(v.pager, t, v.to())
}

func (v *adminView) refresh() tea.Cmd {
	t, ok := v.pager.Refresh()
	return v.request(t, ok)
}

// restart applies the current tab and search from page 1
func (v *adminView) restart() tea.Cmd {
	v.mu.Lock()
	v.active = v.resource()
	v.query = strings.TrimSpace(v.search.Value())
	v.mu.Unlock()

	v.pager.Reset()
	v.list.SetCount(0)
	v.loc = route.Location{Path: route.Admin, RawQuery: "tab=" + string(v.resource())}
	return tea.Batch(v.refresh(), replaceLocation(v.loc))
}

func (v *adminView) selected() domain.Record {
	items := v.pager.Items()
	if i := v.list.Cursor(); i >= 0 && i < len(items) {
		return items[i]
	}
	return nil
}

func (v *adminView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CountsLoadedMsg:
		for res, n := range msg.Counts {
			v.counts[res] = n
		}
		if msg.Err != nil {
			v.svc.Logger.Warn("admin counts partially failed", "error", msg.Err)
		}
		return nil

	case PageLoadedMsg[domain.Record]:
		if msg.Err != nil {
			if v.pager.Failed(msg.Ticket) {
				return status(domain.Message(msg.Err), true)
			}
			return nil
		}
		if v.pager.Succeeded(msg.Ticket, msg.Page) {
			v.list.SetCount(len(v.pager.Items()))
		}
		return nil

	case RecordSavedMsg:
		if msg.Err != nil {
			v.form.SetError(domain.Message(msg.Err))
			return nil
		}
		v.form.Hide()
		verb := "Created"
		if v.editing != "" {
			verb = "Updated"
		}
		return tea.Batch(status(verb+" "+msg.Record.Label(), false), v.refresh(), LoadCountsCmd(v.svc.Admin, v.to()))

	case RecordDeletedMsg:
		if msg.Err != nil {
			return status("Delete failed: "+domain.Message(msg.Err), true)
		}
		return tea.Batch(status("Deleted #"+msg.ID, false), v.refresh(), LoadCountsCmd(v.svc.Admin, v.to()))

	case PublishToggledMsg:
		if msg.Err != nil {
			return status("Update failed: "+domain.Message(msg.Err), true)
		}
		state := "Unpublished"
		if msg.Record.Published() {
			state = "Published"
		}
		return tea.Batch(status(state+" "+msg.Record.Label(), false), v.refresh())
	}

	if v.form.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		v.form, cmd, submitted = v.form.Update(msg)
		if submitted {
			v.form.SetSaving(true)
			return SaveRecordCmd(v.svc.Admin, v.resource(), v.editing, v.form.Values(), v.to())
		}
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.confirm != nil {
		rec := v.confirm
		switch {
		case key.Matches(keyMsg, Keys.Confirm):
			v.confirm = nil
			return DeleteRecordCmd(v.svc.Admin, v.resource(), rec.ID(), v.to())
		case key.Matches(keyMsg, Keys.Deny):
			v.confirm = nil
		}
		return nil
	}

	if v.search.Focused() {
		switch keyMsg.String() {
		case "enter":
			v.search.Blur()
			return v.restart()
		case "esc":
			v.search.Blur()
			return nil
		}
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(keyMsg, Keys.NextTab):
		v.tab = (v.tab + 1) % len(domain.Resources)
		v.search.SetValue("")
		return v.restart()
	case key.Matches(keyMsg, Keys.PrevTab):
		v.tab = (v.tab - 1 + len(domain.Resources)) % len(domain.Resources)
		v.search.SetValue("")
		return v.restart()
	case key.Matches(keyMsg, Keys.NextPage):
		t, ok := v.pager.Next()
		return v.request(t, ok)
	case key.Matches(keyMsg, Keys.PrevPage):
		t, ok := v.pager.Prev()
		return v.request(t, ok)
	case key.Matches(keyMsg, Keys.Refresh):
		return tea.Batch(v.refresh(), LoadCountsCmd(v.svc.Admin, v.to()))
	case key.Matches(keyMsg, Keys.Filter):
		v.search.Focus()
		return textinput.Blink
	case key.Matches(keyMsg, Keys.New):
		v.editing = ""
		v.form.Show("New "+strings.TrimSuffix(v.resource().Label(), "s"), v.resource().Fields(), nil)
		return textinput.Blink
	case key.Matches(keyMsg, Keys.Edit):
		if rec := v.selected(); rec != nil {
			v.editing = rec.ID()
			v.form.Show("Edit "+rec.Label(), v.resource().Fields(), rec)
			return textinput.Blink
		}
	case key.Matches(keyMsg, Keys.Delete):
		v.confirm = v.selected()
	case key.Matches(keyMsg, Keys.Publish):
		if rec := v.selected(); rec != nil && v.resource() == domain.ResourceTitles {
			return TogglePublishCmd(v.svc.Admin, rec, v.to())
		}
	case key.Matches(keyMsg, Keys.Logout):
		return LogoutCmd(v.svc)
	default:
		v.list.HandleKey(keyMsg)
	}
	return nil
}

func (v *adminView) View(f frame) string {
	if v.form.IsVisible() {
		return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center, v.form.View())
	}

	var tabs []string
	for i, r := range domain.Resources {
		text := r.Label()
		if n, ok := v.counts[r]; ok {
			text = fmt.Sprintf("%s %d", text, n)
		}
		if i == v.tab {
			tabs = append(tabs, styles.ActiveTabStyle.Render(text))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(text))
		}
	}

	rows := []string{strings.Join(tabs, " "), v.search.View(), ""}

	snap := v.pager.Snapshot()
	items := v.pager.Items()
	switch {
	case len(items) == 0 && snap.Loading:
		rows = append(rows, f.spin()+styles.DimStyle.Render(" Loading..."))
	case len(items) == 0:
		rows = append(rows, styles.DimStyle.Render("No records."))
	default:
		v.list.SetHeight(f.Height - len(rows) - 4)
		rows = append(rows, v.list.Render(func(i int, selected bool) string {
			return recordRow(items[i], v.resource(), selected, f.Width)
		}))
	}

	rows = append(rows, "", components.Paginator(snap, f.Spinner))
	if v.confirm != nil {
		rows = append(rows, styles.ErrorStyle.Render(fmt.Sprintf("Delete %s? (y/n)", v.confirm.Label())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *adminView) Help() []key.Binding {
	h := []key.Binding{Keys.NextTab, Keys.Filter, Keys.New, Keys.Edit, Keys.Delete}
	if v.resource() == domain.ResourceTitles {
		h = append(h, Keys.Publish)
	}
	return append(h, Keys.PrevPage, Keys.NextPage, Keys.Logout)
}

// recordRow renders one admin record
func recordRow(rec domain.Record, res domain.Resource, selected bool, width int) string {
	dim := styles.DimGray
	parts := []styles.RowPart{
		{Text: styles.Pad("#"+rec.ID(), 7), Foreground: &dim},
		{Text: styles.Truncate(rec.Label(), max(width-40, 10))},
	}

	var extra []string
	switch res {
	case domain.ResourceTitles:
		if y := rec.String("release_year"); y != "" {
			extra = append(extra, y)
		}
		if t := rec.String("type"); t != "" {
			extra = append(extra, t)
		}
		if !rec.Published() {
			extra = append(extra, "unpublished")
		}
	case domain.ResourceEpisodes:
		extra = append(extra, fmt.Sprintf("movie %s S%sE%s", rec.String("movie_id"), rec.String("season_number"), rec.String("episode_number")))
	case domain.ResourceCasts:
		extra = append(extra, fmt.Sprintf("movie %s · actor %s", rec.String("movie_id"), rec.String("actor_id")))
	case domain.ResourceActors:
		if n := rec.String("nationality"); n != "" {
			extra = append(extra, n)
		}
	}
	if len(extra) > 0 {
		parts = append(parts, styles.RowPart{Text: "  " + joinMeta(extra), Foreground: &dim})
	}
	return styles.RenderListRow(parts, selected, width)
}
