package route

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/session"
)

func TestGuard_Decide(t *testing.T) {
	g := NewGuard(DefaultTable())
	admin := Parse("/admin?tab=genres")

	tests := []struct {
		name   string
		status session.Status
		loc    Location
		want   Decision
	}{
		{"public route anonymous", session.Anonymous, Parse("/search?q=x"), Decision{Action: Render}},
		{"public route bootstrapping", session.Bootstrapping, Parse("/"), Decision{Action: Render}},
		{"admin bootstrapping", session.Bootstrapping, admin, Decision{Action: Placeholder}},
		{"admin anonymous", session.Anonymous, admin, Decision{Action: Redirect, To: Location{Path: Login}, From: admin}},
		{"admin authenticated", session.Authenticated, admin, Decision{Action: Render}},
		{"admin subpath", session.Anonymous, Parse("/admin/genres"), Decision{Action: Redirect, To: Location{Path: Login}, From: Parse("/admin/genres")}},
		{"login never protected", session.Anonymous, Parse("/login"), Decision{Action: Render}},
		{"prefix lookalike", session.Anonymous, Parse("/administrator"), Decision{Action: Render}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Decide(tt.status, tt.loc))
		})
	}
}

func TestReturnTo(t *testing.T) {
	assert.Equal(t, Location{Path: "/admin"}, ReturnTo(Location{}, Admin))
	assert.Equal(t, Location{Path: "/admin"}, ReturnTo(Location{Path: Login}, Admin))
	assert.Equal(t, Parse("/admin?tab=actors"), ReturnTo(Parse("/admin?tab=actors"), Admin))
}

func TestParseAndString(t *testing.T) {
	assert.Equal(t, Location{Path: "/"}, Parse(""))
	assert.Equal(t, Location{Path: "/search", RawQuery: "q=alien"}, Parse("search?q=alien"))
	assert.Equal(t, Location{Path: "/admin"}, Parse("/admin/"))
	assert.Equal(t, "/search?q=alien", Parse("/search?q=alien").String())
	assert.Equal(t, "alien", Parse("/search?q=alien").Query().Get("q"))
}

func TestMatch(t *testing.T) {
	id, ok := Match(Watch, "/watch/42")
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	id, ok = Match(Cast, Expand(Cast, "a b"))
	assert.True(t, ok)
	assert.Equal(t, "a b", id)

	_, ok = Match(Watch, "/watch")
	assert.False(t, ok)
	_, ok = Match(Watch, "/cast/1")
	assert.False(t, ok)

	_, ok = Match(Home, "/")
	assert.True(t, ok)
}

// tokenlessAuth rejects every token
type tokenlessAuth struct{ meCalls int }

func (a *tokenlessAuth) Login(context.Context, string, string) (*domain.AuthResult, error) {
	return nil, domain.ErrAuthFailed
}
func (a *tokenlessAuth) Register(context.Context, domain.RegisterRequest) (*domain.AuthResult, error) {
	return nil, domain.ErrAuthFailed
}
func (a *tokenlessAuth) Me(context.Context, string) (*domain.User, error) {
	a.meCalls++
	return nil, domain.ErrAuthFailed
}
func (a *tokenlessAuth) Logout(context.Context, string) error { return nil }

type oneToken struct{ token string }

func (o *oneToken) Token() (string, bool)    { return o.token, o.token != "" }
func (o *oneToken) SaveToken(t string) error { o.token = t; return nil }
func (o *oneToken) ClearToken() error        { o.token = ""; return nil }

func TestExpiredTokenRedirectsOnce(t *testing.T) {
	tokens := &oneToken{token: "expired"}
	s := session.New(&tokenlessAuth{}, tokens, nil)
	g := NewGuard(DefaultTable())
	admin := Parse("/admin")

	// Before bootstrap completes only the placeholder is possible
	assert.Equal(t, Placeholder, g.Decide(s.State().Status, admin).Action)

	st := s.Init(context.Background())
	assert.Equal(t, session.Anonymous, st.Status)
	_, ok := tokens.Token()
	assert.False(t, ok)

	redirects := 0
	loc := admin
	for i := 0; i < 3; i++ {
		d := g.Decide(s.State().Status, loc)
		if d.Action != Redirect {
			break
		}
		redirects++
		loc = d.To
	}
	assert.Equal(t, 1, redirects)
	assert.Equal(t, Login, loc.Path)
}
