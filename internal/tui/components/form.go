package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// FormModal edits the fields of one admin record.
// A failed save keeps the modal open with the entered values and the error.
type FormModal struct {
	visible  bool
	title    string
	fields   []string
	original domain.Record // nil for a new record
	inputs   []textinput.Model
	focus    int
	saving   bool
	err      string
}

// NewFormModal creates a new form modal
func NewFormModal() FormModal {
	return FormModal{}
}

// Show opens the form for fields, prefilled from values (nil for a new record)
func (m *FormModal) Show(title string, fields []string, values domain.Record) {
	m.visible = true
	m.title = title
	m.fields = fields
	m.original = values
	m.focus = 0
	m.saving = false
	m.err = ""
	m.inputs = make([]textinput.Model, len(fields))

	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 500
		ti.Width = 40
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		ti.Placeholder = f
		if values != nil {
			ti.SetValue(values.String(f))
		}
		m.inputs[i] = ti
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

// Hide dismisses the form
func (m *FormModal) Hide() {
	m.visible = false
	m.saving = false
}

// IsVisible returns whether the form is shown
func (m FormModal) IsVisible() bool {
	return m.visible
}

// SetSaving marks a save as in flight
func (m *FormModal) SetSaving(saving bool) {
	m.saving = saving
	if saving {
		m.err = ""
	}
}

// SetError shows a failed save inline, keeping the entered values
func (m *FormModal) SetError(msg string) {
	m.saving = false
	m.err = msg
}

// Values returns the entered values. Empty fields are omitted unless the
// record being edited had a value there, so clearing a field sends "".
func (m FormModal) Values() domain.Record {
	rec := domain.Record{}
	for i, f := range m.fields {
		v := strings.TrimSpace(m.inputs[i].Value())
		if v != "" || (m.original != nil && m.original.String(f) != "") {
			rec[f] = v
		}
	}
	return rec
}

func (m *FormModal) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

// Update handles input events, returns (modal, cmd, submitted)
func (m FormModal) Update(msg tea.Msg) (FormModal, tea.Cmd, bool) {
	if !m.visible || len(m.inputs) == 0 {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, FormKeys.Escape):
			m.Hide()
			return m, nil, false
		case key.Matches(keyMsg, FormKeys.Submit):
			if m.saving {
				return m, nil, false
			}
			return m, nil, true
		case key.Matches(keyMsg, FormKeys.Next):
			m.setFocus(m.focus + 1)
			return m, nil, false
		case key.Matches(keyMsg, FormKeys.Prev):
			m.setFocus(m.focus - 1)
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd, false
}

// View renders the form
func (m FormModal) View() string {
	if !m.visible {
		return ""
	}

	labelWidth := 0
	for _, f := range m.fields {
		labelWidth = max(labelWidth, len(f))
	}

	rows := []string{styles.ModalTitleStyle.Render(m.title)}
	for i, f := range m.fields {
		label := styles.Pad(f, labelWidth)
		if i == m.focus {
			label = styles.AccentStyle.Render(label)
		} else {
			label = styles.DimStyle.Render(label)
		}
		rows = append(rows, label+"  "+m.inputs[i].View())
	}

	rows = append(rows, "")
	switch {
	case m.saving:
		rows = append(rows, styles.DimStyle.Render("Saving..."))
	case m.err != "":
		rows = append(rows, styles.ErrorStyle.Render("✗ "+m.err))
	}
	rows = append(rows, styles.HelpDescStyle.Render("tab next · ctrl+s save · esc cancel"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(strings.Join(rows, "\n"))
}
