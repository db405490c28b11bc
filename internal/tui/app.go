package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

const (
	bootstrapTimeout = 15 * time.Second
	statusTimeout    = 5 * time.Second
	tickInterval     = 100 * time.Millisecond

	// Header line plus footer line
	ChromeHeight = 2
)

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready bool

	svc      *Services
	guard    route.Guard
	observer *SessionObserver
	logger   *slog.Logger

	// Routing
	current view
	history []route.Location
	pending route.Location // Location waiting for the session to bootstrap
	from    route.Location // Protected location that redirected to login
	nextID  int

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	statusSeq    int
	SpinnerFrame int
	ShowHelp     bool
}

// NewModel creates a new application model opening at start
func NewModel(svc *Services, guard route.Guard, start route.Location) Model {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if start.IsZero() {
		start = route.Location{Path: route.Home}
	}

	observer := NewSessionObserver()
	svc.Session.Subscribe(observer.OnChange)

	m := Model{
		svc:      svc,
		guard:    guard,
		observer: observer,
		logger:   logger,
	}
	m.open(start)
	m.history = []route.Location{m.current.Location()}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.current.Init(),
		BootstrapCmd(m.svc),
		m.observer.Wait(),
		TickCmd(tickInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case SessionReadyMsg:
		return m, m.sessionChanged()

	case SessionChangedMsg:
		return m, tea.Batch(m.sessionChanged(), m.observer.Wait())

	case NavigateMsg:
		if msg.Replace {
			return m, m.replace(msg.To)
		}
		return m, m.push(msg.To)

	case BackMsg:
		return m, m.back()

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case PlaybackStartedMsg:
		return m, m.setStatus("Playing "+msg.Title, false)

	case viewMsg:
		if msg.targetView() != m.current.ID() {
			m.logger.Debug("dropping result for replaced view", "view", msg.targetView(), "current", m.current.ID())
			return m, nil
		}
		return m, m.current.Update(msg)
	}

	return m, m.current.Update(msg)
}

// setStatus shows a message that clears itself after statusTimeout
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// clearStatusMsg expires one status message
type clearStatusMsg struct {
	seq int
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.current.Capturing() {
		return m, m.current.Update(msg)
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.ShowHelp = true
		return m, nil
	case "esc", "backspace":
		if m.StatusMsg != "" {
			m.StatusMsg = ""
			return m, nil
		}
		if len(m.history) > 1 {
			return m, m.back()
		}
		return m, nil
	case "1":
		return m, m.push(route.Location{Path: route.Home})
	case "2":
		return m, m.push(route.Location{Path: route.Search})
	case "3":
		return m, m.push(route.Location{Path: route.TopRated})
	case "4":
		return m, m.push(route.Location{Path: route.New})
	case "5":
		return m, m.push(route.Location{Path: route.Admin})
	}

	return m, m.current.Update(msg)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}

	body := frame{
		Width:   m.Width,
		Height:  max(m.Height-ChromeHeight, 1),
		Spinner: m.SpinnerFrame,
	}

	var content string
	if m.ShowHelp {
		content = m.renderHelp(body)
	} else {
		content = m.current.View(body)
	}
	content = lipgloss.NewStyle().Height(body.Height).MaxHeight(body.Height).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

// BootstrapCmd validates the persisted token
func BootstrapCmd(svc *Services) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
		defer cancel()
		return SessionReadyMsg{State: svc.Session.Init(ctx)}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) spinner() string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)])
}
