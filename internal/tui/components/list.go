package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/tui/styles"
)

// List tracks cursor and scroll position over a list of rows.
// Rows are rendered by the caller; List only knows their count.
type List struct {
	count  int
	cursor int
	offset int
	height int
}

// SetCount updates the row count, keeping the cursor in range
func (l *List) SetCount(n int) {
	l.count = n
	if l.cursor >= n {
		l.cursor = max(n-1, 0)
	}
	l.scroll()
}

// SetHeight sets the number of visible rows
func (l *List) SetHeight(h int) {
	l.height = max(h, 1)
	l.scroll()
}

// Cursor returns the selected index, -1 when empty
func (l List) Cursor() int {
	if l.count == 0 {
		return -1
	}
	return l.cursor
}

// Top moves the cursor to the first row
func (l *List) Top() {
	l.cursor = 0
	l.offset = 0
}

func (l *List) move(delta int) {
	if l.count == 0 {
		return
	}
	l.cursor = min(max(l.cursor+delta, 0), l.count-1)
	l.scroll()
}

func (l *List) scroll() {
	h := max(l.height, 1)
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+h {
		l.offset = l.cursor - h + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// HandleKey applies navigation keys, returns true when consumed
func (l *List) HandleKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, ListKeys.Up):
		l.move(-1)
	case key.Matches(msg, ListKeys.Down):
		l.move(1)
	case key.Matches(msg, ListKeys.Home):
		l.Top()
	case key.Matches(msg, ListKeys.End):
		l.move(l.count)
	case key.Matches(msg, ListKeys.HalfUp):
		l.move(-max(l.height/2, 1))
	case key.Matches(msg, ListKeys.HalfDown):
		l.move(max(l.height/2, 1))
	default:
		return false
	}
	return true
}

// Render draws the visible window; row renders row i
func (l List) Render(row func(i int, selected bool) string) string {
	if l.count == 0 {
		return ""
	}
	end := min(l.offset+max(l.height, 1), l.count)
	lines := make([]string, 0, end-l.offset+2)
	if l.offset > 0 {
		lines = append(lines, styles.DimStyle.Render("  ↑ more"))
	}
	for i := l.offset; i < end; i++ {
		lines = append(lines, row(i, i == l.cursor))
	}
	if end < l.count {
		lines = append(lines, styles.DimStyle.Render("  ↓ more"))
	}
	return strings.Join(lines, "\n")
}
