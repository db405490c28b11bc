package route

import (
	"strings"

	"github.com/mmcdole/marquee/internal/session"
)

// Action is the guard's verdict for a navigation
type Action int

const (
	// Render shows the requested view
	Render Action = iota
	// Placeholder shows a neutral loading view while the session bootstraps
	Placeholder
	// Redirect sends the user to the login view
	Redirect
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Placeholder:
		return "placeholder"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Guard.Decide
type Decision struct {
	Action Action
	To     Location // Redirect target
	From   Location // Originally requested location, for the post-login return
}

// Table marks which path prefixes require an authenticated session
type Table struct {
	protected []string
	login     string
}

// DefaultTable protects the admin console
func DefaultTable() Table {
	return NewTable(Login, Admin)
}

// NewTable creates a table. The login path is never protected.
func NewTable(login string, protected ...string) Table {
	return Table{protected: protected, login: login}
}

// Protected reports whether path requires authentication
func (t Table) Protected(p string) bool {
	if p == t.login {
		return false
	}
	for _, prefix := range t.protected {
		if p == prefix || strings.HasPrefix(p, strings.TrimRight(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// LoginPath returns the redirect target for anonymous users
func (t Table) LoginPath() string {
	return t.login
}

// Guard decides whether a navigation may proceed. It performs no I/O.
type Guard struct {
	table Table
}

// NewGuard creates a guard over table
func NewGuard(table Table) Guard {
	return Guard{table: table}
}

// Decide returns the verdict for requested given the session status.
// Unprotected locations always render.
func (g Guard) Decide(status session.Status, requested Location) Decision {
	if !g.table.Protected(requested.Path) {
		return Decision{Action: Render}
	}
	switch status {
	case session.Authenticated:
		return Decision{Action: Render}
	case session.Bootstrapping:
		return Decision{Action: Placeholder}
	default:
		return Decision{
			Action: Redirect,
			To:     Location{Path: g.table.login},
			From:   requested,
		}
	}
}

// ReturnTo resolves where to go after a successful login: the remembered
// location, or fallback when none was recorded (or it was the login view).
func ReturnTo(from Location, fallback string) Location {
	if from.IsZero() || from.Path == Login || from.Path == Register {
		return Parse(fallback)
	}
	return from
}
