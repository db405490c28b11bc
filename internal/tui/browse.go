package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/catalog"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// browseView lists the whole catalog and filters it locally
type browseView struct {
	base
	bar      filterBar
	titles   []domain.Title
	filtered []domain.Title
	list     components.List
	loading  bool
}

func newBrowseView(b base) *browseView {
	return &browseView{
		base: b,
		bar:  newFilterBar(catalog.FromValues(b.loc.Query())),
	}
}

func (v *browseView) Title() string { return "Browse" }

func (v *browseView) Init() tea.Cmd {
	v.loading = true
	return LoadBrowseCmd(v.svc.Catalog, v.to())
}

func (v *browseView) Capturing() bool { return v.bar.capturing() }

func (v *browseView) refilter() {
	v.filtered = catalog.Filter(v.titles, v.bar.criteria)
	v.list.SetCount(len(v.filtered))
	v.list.Top()
}

func (v *browseView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case BrowseLoadedMsg:
		v.loading = false
		v.titles = msg.Result.Titles
		v.bar.options = msg.Result.Options
		v.refilter()
		if msg.Err != nil {
			v.svc.Logger.Warn("browse partially failed", "error", msg.Err)
			return status("Could not load everything: "+domain.Message(msg.Err), true)
		}
		return nil
	}

	cmd, handled, changed, _ := v.bar.update(msg)
	if changed {
		v.refilter()
		v.loc = route.Location{Path: route.Home, RawQuery: catalog.EncodeQuery(v.bar.criteria)}
		return tea.Batch(cmd, replaceLocation(v.loc))
	}
	if handled {
		return cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if v.list.HandleKey(keyMsg) {
		return nil
	}
	switch {
	case key.Matches(keyMsg, Keys.Enter):
		if i := v.list.Cursor(); i >= 0 {
			return navigate(route.Location{Path: route.Expand(route.Watch, v.filtered[i].ID)})
		}
	case key.Matches(keyMsg, Keys.ServerSearch):
		return navigate(route.Location{Path: route.Search, RawQuery: catalog.EncodeQuery(v.bar.criteria)})
	case key.Matches(keyMsg, Keys.Refresh):
		return v.Init()
	}
	return nil
}

func (v *browseView) View(f frame) string {
	header := v.bar.view()

	var body string
	switch {
	case v.loading:
		body = f.spin() + styles.DimStyle.Render(" Loading catalog...")
	case len(v.filtered) == 0:
		body = styles.DimStyle.Render("No titles match.")
	default:
		v.list.SetHeight(f.Height - 4)
		body = v.list.Render(func(i int, selected bool) string {
			return titleRow(v.filtered[i], selected, f.Width)
		})
	}

	count := styles.DimStyle.Render(fmt.Sprintf("%d of %d titles", len(v.filtered), len(v.titles)))
	out := lipgloss.JoinVertical(lipgloss.Left, header, count, "", body)
	if v.bar.picker.IsVisible() {
		return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center, v.bar.overlay())
	}
	return out
}

func (v *browseView) Help() []key.Binding {
	return append(v.bar.help(), Keys.Enter, Keys.ServerSearch, Keys.Refresh)
}

// titleRow renders one title as a list row
func titleRow(t domain.Title, selected bool, width int) string {
	rating := styles.Gold
	dim := styles.DimGray

	meta := []string{}
	if y := t.YearLabel(); y != "" {
		meta = append(meta, y)
	}
	if t.GenreName != "" {
		meta = append(meta, t.GenreName)
	}
	if t.CountryName != "" {
		meta = append(meta, t.CountryName)
	}

	kind := "  "
	if t.IsSeries() {
		kind = "▤ "
	}

	titleWidth := max(width-40, 10)
	parts := []styles.RowPart{
		{Text: kind},
		{Text: styles.Pad(styles.Truncate(t.Title, titleWidth), titleWidth)},
		{Text: " ★ " + styles.Pad(t.FormattedRating(), 4), Foreground: &rating},
		{Text: "  " + strings.Join(meta, " · "), Foreground: &dim},
	}
	return styles.RenderListRow(parts, selected, width)
}
