package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// watchPane is the focused list of the watch view
type watchPane int

const (
	paneEpisodes watchPane = iota
	paneCast
)

// watchView shows a title's details, its episodes and cast
type watchView struct {
	base
	titleID string
	title   *domain.Title
	loading bool
	err     error

	pane     watchPane
	episodes components.List
	cast     components.List
}

func newWatchView(b base, id string) *watchView {
	return &watchView{base: b, titleID: id}
}

func (v *watchView) Title() string {
	if v.title != nil {
		return v.title.Title
	}
	return "Watch"
}

func (v *watchView) Init() tea.Cmd {
	v.loading = true
	return LoadTitleCmd(v.svc.Catalog, v.titleID, v.to())
}

func (v *watchView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TitleLoadedMsg:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return status(domain.Message(msg.Err), true)
		}
		t := msg.Title
		v.title = &t
		v.episodes.SetCount(len(t.Episodes))
		v.cast.SetCount(len(t.Cast))
		if !t.IsSeries() || len(t.Episodes) == 0 {
			v.pane = paneCast
		}
		return nil

	case tea.KeyMsg:
		if v.title == nil {
			return nil
		}
		return v.handleKey(msg)
	}
	return nil
}

func (v *watchView) handleKey(msg tea.KeyMsg) tea.Cmd {
	t := *v.title
	switch {
	case key.Matches(msg, Keys.SwitchPane):
		if v.pane == paneEpisodes {
			v.pane = paneCast
		} else if len(t.Episodes) > 0 {
			v.pane = paneEpisodes
		}
		return nil
	case key.Matches(msg, Keys.Cast):
		if i := v.cast.Cursor(); i >= 0 {
			return navigate(route.Location{Path: route.Expand(route.Cast, t.Cast[i].Actor.ID)})
		}
		return nil
	case key.Matches(msg, Keys.Enter) && v.pane == paneCast:
		if i := v.cast.Cursor(); i >= 0 {
			return navigate(route.Location{Path: route.Expand(route.Cast, t.Cast[i].Actor.ID)})
		}
		return nil
	case key.Matches(msg, Keys.Play):
		if v.pane == paneEpisodes {
			if i := v.episodes.Cursor(); i >= 0 {
				return PlayEpisodeCmd(v.svc.Playback, t, t.Episodes[i])
			}
		}
		return PlayTitleCmd(v.svc.Playback, t)
	}

	if v.pane == paneEpisodes {
		v.episodes.HandleKey(msg)
	} else {
		v.cast.HandleKey(msg)
	}
	return nil
}

func (v *watchView) View(f frame) string {
	switch {
	case v.loading:
		return f.spin() + styles.DimStyle.Render(" Loading title...")
	case v.title == nil:
		return styles.ErrorStyle.Render("Title unavailable: " + domain.Message(v.err))
	}
	t := *v.title

	var meta []string
	if y := t.YearLabel(); y != "" {
		meta = append(meta, y)
	}
	meta = append(meta, string(t.Type))
	if t.GenreName != "" {
		meta = append(meta, t.GenreName)
	}
	if t.CountryName != "" {
		meta = append(meta, t.CountryName)
	}
	if t.Duration > 0 {
		meta = append(meta, t.FormattedDuration())
	}

	rows := []string{
		styles.TitleStyle.Render(t.Title) + "  " + styles.RatingStyle.Render("★ "+t.FormattedRating()),
		styles.SubtitleStyle.Render(joinMeta(meta)),
	}
	if !t.Published {
		rows = append(rows, styles.DimBadgeStyle.Render("unpublished"))
	}
	if t.Description != "" {
		rows = append(rows, "", lipgloss.NewStyle().Width(max(f.Width-4, 20)).MaxHeight(4).Render(t.Description))
	}
	if t.TrailerURL != "" {
		rows = append(rows, styles.DimStyle.Render("Trailer: "+t.TrailerURL))
	}
	rows = append(rows, "")

	listHeight := max(f.Height-len(rows)-4, 3)
	var panes []string
	if t.IsSeries() && len(t.Episodes) > 0 {
		v.episodes.SetHeight(listHeight)
		width := f.Width / 2
		if len(t.Cast) == 0 {
			width = f.Width
		}
		panes = append(panes, v.paneView("Episodes", v.pane == paneEpisodes, width, v.episodes.Render(func(i int, sel bool) string {
			return episodeRow(t.Episodes[i], sel && v.pane == paneEpisodes, width-2)
		})))
	}
	if len(t.Cast) > 0 {
		v.cast.SetHeight(listHeight)
		width := f.Width - lipgloss.Width(strings.Join(panes, ""))
		panes = append(panes, v.paneView("Cast", v.pane == paneCast, width, v.cast.Render(func(i int, sel bool) string {
			return castRow(t.Cast[i], sel && v.pane == paneCast, width-2)
		})))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, panes...))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *watchView) paneView(title string, focused bool, width int, body string) string {
	head := styles.DimStyle.Render(title)
	if focused {
		head = styles.AccentStyle.Render(title)
	}
	return lipgloss.NewStyle().Width(width).Render(head + "\n" + body)
}

func (v *watchView) Help() []key.Binding {
	return []key.Binding{Keys.Play, Keys.SwitchPane, Keys.Cast}
}

func episodeRow(ep domain.Episode, selected bool, width int) string {
	dim := styles.DimGray
	name := ep.Title
	if name == "" {
		name = fmt.Sprintf("Episode %d", ep.Number)
	}
	parts := []styles.RowPart{
		{Text: ep.Code() + "  ", Foreground: &dim},
		{Text: styles.Truncate(name, max(width-20, 8))},
		{Text: "  " + ep.FormattedDuration(), Foreground: &dim},
	}
	return styles.RenderListRow(parts, selected, width)
}

func castRow(c domain.CastRole, selected bool, width int) string {
	dim := styles.DimGray
	parts := []styles.RowPart{{Text: styles.Truncate(c.Actor.Name, max(width-4, 8))}}
	if c.RoleName != "" {
		parts = append(parts, styles.RowPart{Text: " as " + c.RoleName, Foreground: &dim})
	}
	return styles.RenderListRow(parts, selected, width)
}

func joinMeta(parts []string) string {
	return strings.Join(parts, " · ")
}
