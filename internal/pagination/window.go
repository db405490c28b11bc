package pagination

// Gap marks an elided run of pages in a VisiblePages window
const Gap = 0

// VisiblePages returns the page links to show around the current page.
// The first and last pages are always present; runs of pages farther than
// delta from the current page collapse into a single Gap.
// Example (page 6 of 12, delta 2): 1 … 4 5 6 7 8 … 12
func (s Snapshot) VisiblePages(delta int) []int {
	total := s.TotalPages
	if total <= 1 {
		return []int{1}
	}
	cur := s.Page

	pages := []int{1}
	if cur-delta > 2 {
		pages = append(pages, Gap)
	}
	for i := max(2, cur-delta); i <= min(total-1, cur+delta); i++ {
		pages = append(pages, i)
	}
	if cur+delta < total-1 {
		pages = append(pages, Gap)
	}
	return append(pages, total)
}
