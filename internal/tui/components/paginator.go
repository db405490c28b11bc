package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/marquee/internal/pagination"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// paginatorDelta is the number of neighbours shown on each side of the current page
const paginatorDelta = 2

// Paginator renders the page strip: ‹ 1 … 4 5 [6] 7 8 … 20 ›
func Paginator(s pagination.Snapshot, frame int) string {
	if s.TotalPages <= 1 && !s.Loading {
		return styles.DimStyle.Render(fmt.Sprintf("%d results", s.TotalItems))
	}

	var parts []string
	if s.Page > 1 {
		parts = append(parts, styles.AccentStyle.Render("‹"))
	} else {
		parts = append(parts, styles.DimStyle.Render("‹"))
	}

	for _, p := range s.VisiblePages(paginatorDelta) {
		switch {
		case p == pagination.Gap:
			parts = append(parts, styles.DimStyle.Render("…"))
		case s.Loading && p == s.Requested:
			parts = append(parts, styles.SpinnerStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)]))
		case p == s.Page:
			parts = append(parts, styles.HighlightStyle.Render(fmt.Sprint(p)))
		default:
			parts = append(parts, styles.SubtitleStyle.Render(fmt.Sprint(p)))
		}
	}

	if s.Page < s.TotalPages {
		parts = append(parts, styles.AccentStyle.Render("›"))
	} else {
		parts = append(parts, styles.DimStyle.Render("›"))
	}

	summary := styles.DimStyle.Render(fmt.Sprintf("  page %d of %d · %d results", s.Page, s.TotalPages, s.TotalItems))
	return strings.Join(parts, " ") + summary
}
