package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// typeOptions are the choices of the type dimension
var typeOptions = []domain.Option{
	{ID: string(domain.TitleTypeMovie), Label: "Movie"},
	{ID: string(domain.TitleTypeSeries), Label: "Series"},
}

// filterBar edits FilterCriteria: a query input plus one picker per dimension.
// Shared by the browse and search views.
type filterBar struct {
	criteria domain.FilterCriteria
	options  domain.FilterOptions

	input  textinput.Model
	picker components.Picker
	// dimension the open picker edits
	picking string
}

func newFilterBar(c domain.FilterCriteria) filterBar {
	ti := textinput.New()
	ti.Placeholder = "title or description"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.SetValue(c.Query)

	return filterBar{
		criteria: c,
		input:    ti,
		picker:   components.NewPicker(),
	}
}

// capturing reports whether the bar owns the keyboard
func (f *filterBar) capturing() bool {
	return f.input.Focused() || f.picker.IsVisible()
}

// update handles keys for the bar. changed reports a criteria change;
// committed reports that the query input was confirmed with enter.
func (f *filterBar) update(msg tea.Msg) (cmd tea.Cmd, handled, changed, committed bool) {
	if f.picker.IsVisible() {
		var sel *domain.Option
		f.picker, cmd, sel = f.picker.Update(msg)
		if sel != nil {
			changed = f.apply(f.picking, sel.ID)
		}
		return cmd, true, changed, false
	}

	if f.input.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				f.input.Blur()
				return nil, true, false, true
			case "esc":
				f.input.Blur()
				return nil, true, false, false
			}
		}
		prev := f.input.Value()
		f.input, cmd = f.input.Update(msg)
		if f.input.Value() != prev {
			f.criteria = f.criteria.WithQuery(f.input.Value())
			changed = true
		}
		return cmd, true, changed, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false, false, false
	}
	switch {
	case key.Matches(keyMsg, Keys.Filter):
		f.input.Focus()
		return textinput.Blink, true, false, false
	case key.Matches(keyMsg, Keys.Genre):
		f.open("genre", "Genre", f.options.Genres, f.criteria.GenreID)
	case key.Matches(keyMsg, Keys.Country):
		f.open("country", "Country", f.options.Countries, f.criteria.CountryID)
	case key.Matches(keyMsg, Keys.Year):
		f.open("year", "Year", f.options.Years, f.criteria.Year)
	case key.Matches(keyMsg, Keys.Type):
		f.open("type", "Type", typeOptions, f.criteria.Type)
	case key.Matches(keyMsg, Keys.ClearFilters):
		if f.criteria.IsEmpty() {
			return nil, true, false, false
		}
		f.criteria = domain.FilterCriteria{}
		f.input.SetValue("")
		return nil, true, true, false
	default:
		return nil, false, false, false
	}
	return nil, true, false, false
}

func (f *filterBar) open(dim, title string, opts []domain.Option, active string) {
	f.picking = dim
	f.picker.Show(title, opts, active)
}

// apply sets one dimension, reports whether it changed
func (f *filterBar) apply(dim, id string) bool {
	prev := f.criteria
	switch dim {
	case "genre":
		f.criteria = f.criteria.WithGenre(id)
	case "country":
		f.criteria = f.criteria.WithCountry(id)
	case "year":
		f.criteria = f.criteria.WithYear(id)
	case "type":
		f.criteria = f.criteria.WithType(id)
	}
	return f.criteria != prev
}

// label resolves an option id to its label
func label(opts []domain.Option, id string) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

// view renders the input line and the active constraint chips
func (f *filterBar) view() string {
	var chips []string
	chip := func(name, value string) {
		if value != "" {
			chips = append(chips, styles.DimBadgeStyle.Render(name+": "+value))
		}
	}
	chip("genre", label(f.options.Genres, f.criteria.GenreID))
	chip("country", label(f.options.Countries, f.criteria.CountryID))
	chip("year", label(f.options.Years, f.criteria.Year))
	chip("type", f.criteria.Type)

	line := f.input.View()
	if len(chips) > 0 {
		line += "  " + strings.Join(chips, " ")
	}
	return line
}

// overlay renders the picker when open
func (f *filterBar) overlay() string {
	return f.picker.View()
}

func (f *filterBar) help() []key.Binding {
	return []key.Binding{Keys.Filter, Keys.Genre, Keys.Country, Keys.Year, Keys.Type, Keys.ClearFilters}
}
