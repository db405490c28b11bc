package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/session"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// authField is one labelled input of an auth form
type authField struct {
	label string
	input textinput.Model
}

func newAuthField(label string, secret bool) authField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Width = 36
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return authField{label: label, input: ti}
}

// authView is the login or registration form. On success it replaces
// itself with the location that redirected here.
type authView struct {
	base
	register   bool
	from       route.Location
	fields     []authField
	focus      int
	submitting bool
	err        string
}

func newLoginView(b base, from route.Location) *authView {
	v := &authView{base: b, from: from}
	v.fields = []authField{
		newAuthField("Email", false),
		newAuthField("Password", true),
	}
	v.fields[0].input.Focus()
	return v
}

func newRegisterView(b base, from route.Location) *authView {
	v := &authView{base: b, from: from, register: true}
	v.fields = []authField{
		newAuthField("Username", false),
		newAuthField("Email", false),
		newAuthField("Password", true),
		newAuthField("Full name", false),
	}
	v.fields[0].input.Focus()
	return v
}

func (v *authView) Title() string {
	if v.register {
		return "Register"
	}
	return "Sign in"
}

func (v *authView) Init() tea.Cmd { return textinput.Blink }

// Capturing is always true: every key goes to the form
func (v *authView) Capturing() bool { return true }

func (v *authView) value(i int) string {
	return strings.TrimSpace(v.fields[i].input.Value())
}

func (v *authView) setFocus(i int) {
	v.fields[v.focus].input.Blur()
	v.focus = (i + len(v.fields)) % len(v.fields)
	v.fields[v.focus].input.Focus()
}

func (v *authView) submit() tea.Cmd {
	for i, f := range v.fields {
		if v.value(i) == "" {
			v.err = f.label + " is required"
			v.setFocus(i)
			return nil
		}
	}
	v.submitting = true
	v.err = ""

	if v.register {
		req := domain.RegisterRequest{
			Username: v.value(0),
			Email:    v.value(1),
			Password: v.fields[v.passwordIndex()].input.Value(),
			FullName: v.value(3),
		}
		return RegisterCmd(v.svc, req, v.to())
	}
	return LoginCmd(v.svc, v.value(0), v.fields[v.passwordIndex()].input.Value(), v.to())
}

func (v *authView) passwordIndex() int {
	if v.register {
		return 2
	}
	return 1
}

// returnTo is where a successful sign-in lands
func (v *authView) returnTo() route.Location {
	if v.register {
		return route.ReturnTo(v.from, route.Home)
	}
	return route.ReturnTo(v.from, route.Admin)
}

func (v *authView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AuthDoneMsg:
		v.submitting = false
		switch {
		case msg.Err == nil:
			return tea.Batch(replaceLocation(v.returnTo()), status("Welcome", false))
		case errors.Is(msg.Err, session.ErrSuperseded):
			return nil
		case errors.Is(msg.Err, domain.ErrServerOffline):
			v.err = "Server unreachable, try again"
		default:
			v.err = domain.Message(msg.Err)
		}
		v.fields[v.passwordIndex()].input.SetValue("")
		return nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "esc":
			return func() tea.Msg { return BackMsg{} }
		case msg.String() == "enter":
			if v.submitting {
				return nil
			}
			if v.focus < len(v.fields)-1 {
				v.setFocus(v.focus + 1)
				return nil
			}
			return v.submit()
		case msg.String() == "tab" || msg.String() == "down":
			v.setFocus(v.focus + 1)
			return nil
		case msg.String() == "shift+tab" || msg.String() == "up":
			v.setFocus(v.focus - 1)
			return nil
		case key.Matches(msg, Keys.Register) && !v.register:
			return replaceLocation(route.Location{Path: route.Register})
		case key.Matches(msg, Keys.Login) && v.register:
			return replaceLocation(route.Location{Path: route.Login})
		}
	}

	var cmd tea.Cmd
	v.fields[v.focus].input, cmd = v.fields[v.focus].input.Update(msg)
	return cmd
}

func (v *authView) View(f frame) string {
	labelWidth := 0
	for _, fl := range v.fields {
		labelWidth = max(labelWidth, len(fl.label))
	}

	rows := []string{styles.ModalTitleStyle.Render(v.Title())}
	for i, fl := range v.fields {
		l := styles.Pad(fl.label, labelWidth)
		if i == v.focus {
			l = styles.AccentStyle.Render(l)
		} else {
			l = styles.DimStyle.Render(l)
		}
		rows = append(rows, l+"  "+fl.input.View())
	}
	rows = append(rows, "")

	switch {
	case v.submitting:
		rows = append(rows, f.spin()+styles.DimStyle.Render(" Signing in..."))
	case v.err != "":
		rows = append(rows, styles.ErrorStyle.Render("✗ "+v.err))
	}

	if v.register {
		rows = append(rows, styles.HelpDescStyle.Render("enter submit · C-l sign in instead · esc back"))
	} else {
		rows = append(rows, styles.HelpDescStyle.Render("enter submit · C-r create account · esc back"))
	}

	return lipgloss.Place(f.Width, f.Height, lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(strings.Join(rows, "\n")))
}

func (v *authView) Help() []key.Binding {
	if v.register {
		return []key.Binding{Keys.Login}
	}
	return []key.Binding{Keys.Register}
}
