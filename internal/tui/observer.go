package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/session"
)

// SessionObserver adapts session subscriptions to a channel for Bubble Tea.
type SessionObserver struct {
	ch chan session.State
}

// NewSessionObserver creates a new channel-based observer.
func NewSessionObserver() *SessionObserver {
	return &SessionObserver{ch: make(chan session.State, 16)}
}

// OnChange sends the state to the channel (non-blocking if full).
func (o *SessionObserver) OnChange(st session.State) {
	select {
	case o.ch <- st:
	default: // Non-blocking if channel full
	}
}

// Wait returns a command that delivers the next state change
func (o *SessionObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		return SessionChangedMsg{State: <-o.ch}
	}
}
