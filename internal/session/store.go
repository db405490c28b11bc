// Package session owns the authentication state: the persisted bearer token,
// its validation at startup, and login/logout transitions.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/marquee/internal/domain"
)

const logoutTimeout = 5 * time.Second

// ErrSuperseded is returned when a logout or invalidation happened while a
// login was in flight; the login result was discarded
var ErrSuperseded = errors.New("session changed during request")

// Status is the session's state-machine position
type Status int

const (
	// Bootstrapping means a persisted token exists but has not been validated yet
	Bootstrapping Status = iota
	Anonymous
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session
type State struct {
	Status  Status
	Token   string       // Set while Bootstrapping or Authenticated
	User    *domain.User // Set while Authenticated
	Loading bool         // A login or registration is in flight
}

// Store is the process-wide session.
// Safe for concurrent use; tea.Cmd goroutines call into it.
type Store struct {
	auth   domain.AuthRepository
	tokens domain.TokenStore
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
	epoch uint64 // bumped by every transition that must discard in-flight results

	group singleflight.Group

	subs    map[int]func(State)
	nextSub int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a session. The initial status is Bootstrapping iff a token is
// persisted; call Init to validate it.
func New(auth domain.AuthRepository, tokens domain.TokenStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		auth:   auth,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
		subs:   make(map[int]func(State)),
		ctx:    ctx,
		cancel: cancel,
	}
	if tok, ok := tokens.Token(); ok {
		s.state = State{Status: Bootstrapping, Token: tok}
	} else {
		s.state = State{Status: Anonymous}
	}
	return s
}

// State returns a snapshot of the session
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// IsAuthenticated reports whether a validated user is signed in
func (s *Store) IsAuthenticated() bool {
	return s.State().Status == Authenticated
}

// Subscribe registers fn to receive every state change. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Init validates the persisted token. Concurrent calls share one validation.
//
// An expired JWT is purged without a network round-trip. Otherwise the
// identity endpoint decides: success authenticates, rejection purges the
// token, and a network failure leaves the session anonymous but keeps the
// token for the next start.
func (s *Store) Init(ctx context.Context) State {
	s.group.Do("init", func() (any, error) {
		s.bootstrap(ctx)
		return nil, nil
	})
	return s.State()
}

func (s *Store) bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.state.Status != Bootstrapping {
		s.mu.Unlock()
		return
	}
	token := s.state.Token
	epoch := s.epoch
	s.mu.Unlock()

	if expired(token, s.now()) {
		s.logger.Info("persisted token expired, purging")
		s.transition(epoch, State{Status: Anonymous}, true)
		return
	}

	user, err := s.auth.Me(ctx, token)
	switch {
	case err == nil:
		if user == nil {
			user = &domain.User{}
		}
		s.logger.Info("session restored", "user", user.DisplayName())
		s.transition(epoch, State{Status: Authenticated, Token: token, User: user}, false)
	case errors.Is(err, domain.ErrAuthFailed):
		s.logger.Info("persisted token rejected, purging")
		s.transition(epoch, State{Status: Anonymous}, true)
	default:
		s.logger.Warn("session validation failed, keeping token", "error", err)
		s.transition(epoch, State{Status: Anonymous}, false)
	}
}

// transition applies next unless the epoch moved on since the caller started.
// purge also removes the persisted token.
func (s *Store) transition(epoch uint64, next State, purge bool) bool {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Debug("discarding stale session result")
		return false
	}
	if purge {
		s.clearToken()
	}
	s.state = next
	s.mu.Unlock()

	s.publish()
	return true
}

// Login authenticates with credentials. The token is persisted before the
// authenticated state is published, and the profile is fetched before Login
// returns.
func (s *Store) Login(ctx context.Context, identifier, secret string) error {
	return s.authenticate(ctx, func() (*domain.AuthResult, error) {
		return s.auth.Login(ctx, identifier, secret)
	})
}

// Register creates an account and signs in with it
func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) error {
	return s.authenticate(ctx, func() (*domain.AuthResult, error) {
		return s.auth.Register(ctx, req)
	})
}

func (s *Store) authenticate(ctx context.Context, call func() (*domain.AuthResult, error)) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	if s.state.Status == Bootstrapping {
		// The pending validation is discarded, so leave Bootstrapping now
		s.state = State{Status: Anonymous}
	}
	s.state.Loading = true
	s.mu.Unlock()
	s.publish()

	res, err := call()
	if err != nil {
		s.finishLoading(epoch)
		return err
	}

	// A logout or invalidation since the call started wins; never persist
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Debug("discarding login result after session change")
		return ErrSuperseded
	}
	err = s.tokens.SaveToken(res.Token)
	s.mu.Unlock()
	if err != nil {
		s.finishLoading(epoch)
		return fmt.Errorf("failed to persist token: %w", err)
	}

	user, err := s.auth.Me(ctx, res.Token)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) || res.User == nil {
			s.logger.Warn("profile fetch after login failed", "error", err)
			if !s.transition(epoch, State{Status: Anonymous}, true) {
				s.discardToken(res.Token)
			}
			return err
		}
		// Fall back to the profile the login endpoint returned
		user = res.User
	}
	if user == nil {
		user = res.User
	}
	if user == nil {
		user = &domain.User{}
	}

	if !s.transition(epoch, State{Status: Authenticated, Token: res.Token, User: user}, false) {
		s.discardToken(res.Token)
		return ErrSuperseded
	}
	s.logger.Info("signed in", "user", user.DisplayName())
	return nil
}

func (s *Store) finishLoading(epoch uint64) {
	s.mu.Lock()
	if s.epoch == epoch {
		s.state.Loading = false
	}
	s.mu.Unlock()
	s.publish()
}

// Logout purges the token locally and returns to Anonymous immediately.
// The server-side logout is sent in the background and its outcome ignored.
func (s *Store) Logout() {
	s.mu.Lock()
	token := s.state.Token
	s.epoch++
	s.clearToken()
	s.state = State{Status: Anonymous}
	s.mu.Unlock()
	s.publish()

	if token == "" {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, logoutTimeout)
		defer cancel()
		if err := s.auth.Logout(ctx, token); err != nil {
			s.logger.Debug("server logout failed", "error", err)
		}
	}()
}

// Invalidate drops the session after the API rejected the stored token
func (s *Store) Invalidate() {
	s.mu.Lock()
	if s.state.Status == Anonymous {
		s.mu.Unlock()
		return
	}
	s.epoch++
	s.clearToken()
	s.state = State{Status: Anonymous}
	s.mu.Unlock()

	s.logger.Info("session invalidated")
	s.publish()
}

// Dispose stops background work and drops all subscribers. A pending
// server-side logout gets up to logoutTimeout to finish before it is cancelled.
func (s *Store) Dispose() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(logoutTimeout)
	select {
	case <-done:
	case <-timer.C:
		s.logger.Debug("server logout still pending, cancelling")
	}
	timer.Stop()
	s.cancel()
	<-done

	s.mu.Lock()
	s.subs = make(map[int]func(State))
	s.mu.Unlock()
}

// clearToken removes the persisted token. Caller holds mu.
func (s *Store) clearToken() {
	if err := s.tokens.ClearToken(); err != nil {
		s.logger.Error("failed to clear token", "error", err)
	}
}

// discardToken removes the persisted token if it is still the one a
// superseded login wrote; a newer login's token is left alone.
func (s *Store) discardToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.tokens.Token(); ok && cur == token {
		s.clearToken()
	}
}

// snapshot copies the state. Caller holds mu.
func (s *Store) snapshot() State {
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Store) publish() {
	s.mu.Lock()
	st := s.snapshot()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// expired reports whether token is a JWT whose exp claim is in the past.
// Opaque tokens are never considered expired here.
func expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}
