package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/session"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// navTabs are the header shortcuts, in key order
var navTabs = []struct {
	label string
	path  string
}{
	{"1 Browse", route.Home},
	{"2 Search", route.Search},
	{"3 Top", route.TopRated},
	{"4 New", route.New},
	{"5 Admin", route.Admin},
}

// renderHeader draws the brand, the route tabs and the session badge
func (m Model) renderHeader() string {
	current := m.current.Location().Path

	parts := []string{styles.HeaderStyle.Render("▶ marquee")}
	for _, t := range navTabs {
		if current == t.path {
			parts = append(parts, styles.ActiveTabStyle.Render(t.label))
		} else {
			parts = append(parts, styles.TabStyle.Render(t.label))
		}
	}
	left := strings.Join(parts, " ")

	var right string
	st := m.svc.Session.State()
	switch st.Status {
	case session.Bootstrapping:
		right = m.spinner() + styles.DimStyle.Render(" signing in")
	case session.Authenticated:
		name := "signed in"
		if st.User != nil && st.User.DisplayName() != "" {
			name = st.User.DisplayName()
		}
		right = styles.BadgeStyle.Render(name)
	default:
		right = styles.DimBadgeStyle.Render("guest")
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter draws the status message, or the key hints of the current view
func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render("✗ "+m.StatusMsg) + styles.DimStyle.Render("  (esc to dismiss)")
		}
		return styles.SuccessStyle.Render("✓ " + m.StatusMsg)
	}

	bindings := append(m.current.Help(), Keys.Back, Keys.Help, Keys.Quit)
	return styles.Truncate(renderBindings(bindings), max(m.Width, 0))
}

func renderBindings(bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// renderHelp draws every binding of the current view plus the global ones
func (m Model) renderHelp(f frame) string {
	var lines []string
	lines = append(lines, styles.ModalTitleStyle.Render(m.current.Title()+" keys"))

	all := append(m.current.Help(),
		Keys.GoBrowse, Keys.GoSearch, Keys.GoTopRated, Keys.GoNew, Keys.GoAdmin,
		Keys.Back, Keys.Quit)
	for _, b := range all {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		lines = append(lines, styles.HelpKeyStyle.Render(styles.Pad(h.Key, 10))+styles.HelpDescStyle.Render(h.Desc))
	}
	lines = append(lines, "", styles.DimStyle.Render("press any key to close"))

	return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(strings.Join(lines, "\n")))
}
