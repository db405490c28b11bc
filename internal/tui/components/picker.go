package components

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// AnyOption clears a filter dimension
var AnyOption = domain.Option{ID: "", Label: "Any"}

const pickerRows = 10

// Picker is a modal for choosing one dropdown option, narrowed by typing
type Picker struct {
	visible  bool
	title    string
	options  []domain.Option
	activeID string

	input   textinput.Model
	entries []domain.Option
	cursor  int
	offset  int
}

// NewPicker creates a new option picker
func NewPicker() Picker {
	ti := textinput.New()
	ti.Placeholder = "Type to narrow..."
	ti.CharLimit = 50
	ti.Width = 30
	ti.Prompt = "> "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Picker{input: ti}
}

// Show displays the picker with the cursor on the active option
func (m *Picker) Show(title string, options []domain.Option, activeID string) {
	m.visible = true
	m.title = title
	m.options = options
	m.activeID = activeID
	m.input.SetValue("")
	m.input.Focus()
	m.narrow()

	for i, opt := range m.entries {
		if opt.ID == activeID {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

// Hide dismisses the picker
func (m *Picker) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the picker is shown
func (m Picker) IsVisible() bool {
	return m.visible
}

// NarrowOptions ranks options against query with fuzzy, case-insensitive
// matching. An empty query returns "Any" followed by every option.
func NarrowOptions(options []domain.Option, query string) []domain.Option {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]domain.Option{AnyOption}, options...)
	}

	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = opt.Label
	}
	ranks := fuzzy.RankFindFold(query, labels)
	sort.Stable(ranks)

	out := make([]domain.Option, len(ranks))
	for i, r := range ranks {
		out[i] = options[r.OriginalIndex]
	}
	return out
}

func (m *Picker) narrow() {
	m.entries = NarrowOptions(m.options, m.input.Value())
	m.cursor = 0
	m.offset = 0
}

func (m *Picker) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+pickerRows {
		m.offset = m.cursor - pickerRows + 1
	}
}

// Update handles input. selection is non-nil once the user confirms a choice.
func (m Picker) Update(msg tea.Msg) (Picker, tea.Cmd, *domain.Option) {
	if !m.visible {
		return m, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Escape):
			m.Hide()
			return m, nil, nil
		case key.Matches(keyMsg, PickerKeys.Enter):
			if len(m.entries) == 0 {
				return m, nil, nil
			}
			chosen := m.entries[m.cursor]
			m.Hide()
			return m, nil, &chosen
		case key.Matches(keyMsg, PickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
			return m, nil, nil
		case key.Matches(keyMsg, PickerKeys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.scroll()
			}
			return m, nil, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.narrow()
	}
	return m, cmd, nil
}

// View renders the picker
func (m Picker) View() string {
	if !m.visible {
		return ""
	}

	const width = 32
	var lines []string
	end := min(m.offset+pickerRows, len(m.entries))
	for i := m.offset; i < end; i++ {
		opt := m.entries[i]
		prefix := "  "
		if opt.ID == m.activeID {
			prefix = "✓ "
		}
		text := styles.Pad(styles.Truncate(prefix+opt.Label, width), width)

		switch {
		case i == m.cursor:
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight).Render(text))
		case opt.ID == m.activeID:
			lines = append(lines, styles.AccentStyle.Render(text))
		default:
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.LightGray).Render(text))
		}
	}
	if len(m.entries) == 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Pad("  no matches", width)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		m.input.View(),
		"",
		strings.Join(lines, "\n"),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(content)
}
