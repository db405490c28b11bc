package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/session"
)

// memTokens is an in-memory domain.TokenStore
type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *memTokens) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) ClearToken() error { return m.SaveToken("") }

// stubAuth accepts the token "good" and any login
type stubAuth struct{}

func (stubAuth) Login(ctx context.Context, identifier, secret string) (*domain.AuthResult, error) {
	return &domain.AuthResult{Token: "good"}, nil
}

func (s stubAuth) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	return s.Login(ctx, req.Email, req.Password)
}

func (stubAuth) Me(ctx context.Context, token string) (*domain.User, error) {
	if token != "good" {
		return nil, &domain.APIError{Kind: domain.ErrAuthFailed, Status: 401}
	}
	return &domain.User{ID: "1", Username: "admin"}, nil
}

func (stubAuth) Logout(ctx context.Context, token string) error { return nil }

// stubCatalog serves an empty catalog
type stubCatalog struct{}

func (stubCatalog) ListTitles(ctx context.Context) ([]domain.Title, error) { return nil, nil }

func (stubCatalog) SearchTitles(ctx context.Context, c domain.FilterCriteria, page, perPage int) (domain.Page[domain.Title], error) {
	return domain.Page[domain.Title]{Page: page, TotalPages: 1}, nil
}

func (stubCatalog) TopRated(ctx context.Context, page, perPage int) (domain.Page[domain.Title], error) {
	return domain.Page[domain.Title]{Page: page, TotalPages: 1}, nil
}

func (stubCatalog) NewReleases(ctx context.Context, page, perPage int) (domain.Page[domain.Title], error) {
	return domain.Page[domain.Title]{Page: page, TotalPages: 1}, nil
}

func (stubCatalog) Genres(ctx context.Context) ([]domain.Genre, error) { return nil, nil }

func (stubCatalog) DropdownOptions(ctx context.Context, dim domain.Dimension) ([]domain.Option, error) {
	return nil, nil
}

func (stubCatalog) Actor(ctx context.Context, id string) (*domain.Actor, error) {
	return &domain.Actor{ID: id}, nil
}

func (stubCatalog) ActorTitles(ctx context.Context, actorID string, page, perPage int) (domain.Page[domain.Title], error) {
	return domain.Page[domain.Title]{Page: page, TotalPages: 1}, nil
}

// memAdmin keeps records per resource
type memAdmin struct {
	mu      sync.Mutex
	records map[domain.Resource][]domain.Record
	deleted []string
	saveErr error
}

func (a *memAdmin) List(ctx context.Context, res domain.Resource, q domain.ListQuery) (domain.Page[domain.Record], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	recs := a.records[res]
	return domain.Page[domain.Record]{Items: recs, Page: 1, TotalPages: 1, TotalItems: len(recs)}, nil
}

func (a *memAdmin) ListAll(ctx context.Context, res domain.Resource) ([]domain.Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records[res], nil
}

func (a *memAdmin) Create(ctx context.Context, res domain.Resource, fields domain.Record) (domain.Record, error) {
	return fields, nil
}

func (a *memAdmin) Update(ctx context.Context, res domain.Resource, id string, fields domain.Record) (domain.Record, error) {
	if a.saveErr != nil {
		return nil, a.saveErr
	}
	return fields, nil
}

func (a *memAdmin) Delete(ctx context.Context, res domain.Resource, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, id)
	return nil
}

type nopLauncher struct{}

func (nopLauncher) Launch(url, title string) error { return nil }

func newTestServices(t *testing.T, token string, admin *memAdmin) *Services {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if admin == nil {
		admin = &memAdmin{}
	}
	sess := session.New(stubAuth{}, &memTokens{token: token}, logger)
	t.Cleanup(sess.Dispose)
	return &Services{
		Catalog:  service.NewCatalogService(stubCatalog{}, 20, logger),
		Admin:    service.NewAdminService(admin, nil, 20, logger),
		Playback: service.NewPlaybackService(nopLauncher{}, logger),
		Session:  sess,
		Logger:   logger,
	}
}

func newTestModel(t *testing.T, token, start string) (Model, *Services) {
	t.Helper()
	svc := newTestServices(t, token, nil)
	return NewModel(svc, route.NewGuard(route.DefaultTable()), route.Parse(start)), svc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_StaleResultIsDropped(t *testing.T) {
	m, _ := newTestModel(t, "", "/watch/1")
	old := m.current.ID()

	m = update(t, m, NavigateMsg{To: route.Parse("/watch/2")})
	require.NotEqual(t, old, m.current.ID())

	m = update(t, m, TitleLoadedMsg{addressed: addressed{View: old}, Title: domain.Title{ID: "1", Title: "Old"}})
	w, ok := m.current.(*watchView)
	require.True(t, ok)
	assert.Nil(t, w.title, "result for the replaced view must not reach the new one")

	m = update(t, m, TitleLoadedMsg{addressed: addressed{View: m.current.ID()}, Title: domain.Title{ID: "2", Title: "New"}})
	require.NotNil(t, w.title)
	assert.Equal(t, "New", w.title.Title)
}

func TestModel_ProtectedRouteWaitsForBootstrap(t *testing.T) {
	m, svc := newTestModel(t, "good", "/admin?tab=genres")

	_, ok := m.current.(*placeholderView)
	require.True(t, ok, "protected route renders a placeholder while bootstrapping")

	st := svc.Session.Init(context.Background())
	require.Equal(t, session.Authenticated, st.Status)

	m = update(t, m, SessionReadyMsg{State: st})
	a, ok := m.current.(*adminView)
	require.True(t, ok)
	assert.Equal(t, domain.ResourceGenres, a.resource())
	assert.Equal(t, "/admin?tab=genres", m.current.Location().String())
	assert.Len(t, m.history, 1)
}

func TestModel_AnonymousRedirectsToLoginOnce(t *testing.T) {
	m, _ := newTestModel(t, "", "/admin")

	_, ok := m.current.(*authView)
	require.True(t, ok)
	assert.Equal(t, route.Login, m.current.Location().Path)
	assert.Equal(t, route.Admin, m.from.Path)

	id := m.current.ID()
	m = update(t, m, SessionChangedMsg{State: session.State{Status: session.Anonymous}})
	assert.Equal(t, id, m.current.ID(), "login view is not rebuilt")
}

func TestModel_LogoutOnProtectedScreenRedirects(t *testing.T) {
	m, svc := newTestModel(t, "good", "/admin")
	m = update(t, m, SessionReadyMsg{State: svc.Session.Init(context.Background())})
	_, ok := m.current.(*adminView)
	require.True(t, ok)

	svc.Session.Logout()
	m = update(t, m, SessionChangedMsg{State: svc.Session.State()})
	assert.Equal(t, route.Login, m.current.Location().Path)
	assert.Equal(t, route.Admin, m.from.Path)

	id := m.current.ID()
	m = update(t, m, SessionChangedMsg{State: svc.Session.State()})
	assert.Equal(t, id, m.current.ID())
}

func TestModel_LoginReturnsToRequestedLocation(t *testing.T) {
	m, svc := newTestModel(t, "", "/admin?tab=actors")
	av, ok := m.current.(*authView)
	require.True(t, ok)

	require.NoError(t, svc.Session.Login(context.Background(), "ann@example.com", "pw"))

	var nav *NavigateMsg
	for _, msg := range collect(av.Update(AuthDoneMsg{addressed: av.to()})) {
		if n, ok := msg.(NavigateMsg); ok {
			nav = &n
		}
	}
	require.NotNil(t, nav)
	assert.True(t, nav.Replace)

	m = update(t, m, *nav)
	a, ok := m.current.(*adminView)
	require.True(t, ok)
	assert.Equal(t, domain.ResourceActors, a.resource())
	assert.Len(t, m.history, 1, "login entry is replaced, not stacked")
}

func TestModel_LoginDefaultsToAdmin(t *testing.T) {
	m, _ := newTestModel(t, "", "/login")
	av := m.current.(*authView)
	assert.Equal(t, route.Admin, av.returnTo().Path)

	m = update(t, m, NavigateMsg{To: route.Parse("/register"), Replace: true})
	rv := m.current.(*authView)
	assert.True(t, rv.register)
	assert.Equal(t, route.Home, rv.returnTo().Path)
}

func TestModel_CapturingViewReceivesKeys(t *testing.T) {
	m, _ := newTestModel(t, "", "/login")

	m = update(t, m, runeKey("q"))
	av := m.current.(*authView)
	assert.Equal(t, "q", av.fields[0].input.Value())
}

func TestModel_BackRestoresPreviousLocation(t *testing.T) {
	m, _ := newTestModel(t, "", "/")

	m = update(t, m, runeKey("3"))
	_, ok := m.current.(*listView)
	require.True(t, ok)
	assert.Len(t, m.history, 2)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, ok = m.current.(*browseView)
	assert.True(t, ok)
	assert.Len(t, m.history, 1)
}

func TestModel_ReplaceSamePathKeepsView(t *testing.T) {
	m, _ := newTestModel(t, "", "/search")
	id := m.current.ID()

	m = update(t, m, NavigateMsg{To: route.Parse("/search?q=alien"), Replace: true})
	assert.Equal(t, id, m.current.ID())
	assert.Equal(t, "/search?q=alien", m.history[0].String())
}

func TestModel_UnknownRoute(t *testing.T) {
	m, _ := newTestModel(t, "", "/nowhere")
	_, ok := m.current.(*notFoundView)
	assert.True(t, ok)
}

func TestAdminView_TabFromLocation(t *testing.T) {
	svc := newTestServices(t, "", nil)

	v := newAdminView(base{id: 1, loc: route.Parse("/admin/episodes"), svc: svc})
	assert.Equal(t, domain.ResourceEpisodes, v.resource())

	v = newAdminView(base{id: 2, loc: route.Parse("/admin?tab=movie-casts"), svc: svc})
	assert.Equal(t, domain.ResourceCasts, v.resource())

	v = newAdminView(base{id: 3, loc: route.Parse("/admin?tab=bogus"), svc: svc})
	assert.Equal(t, domain.ResourceTitles, v.resource())
}

func TestAdminView_DeleteNeedsConfirmation(t *testing.T) {
	admin := &memAdmin{records: map[domain.Resource][]domain.Record{
		domain.ResourceTitles: {
			{"id": 7, "title": "Alien"},
			{"id": 8, "title": "Heat"},
		},
	}}
	svc := newTestServices(t, "", admin)
	v := newAdminView(base{id: 1, loc: route.Parse("/admin"), svc: svc})

	for _, msg := range collect(v.refresh()) {
		v.Update(msg)
	}
	require.Len(t, v.pager.Items(), 2)

	v.Update(runeKey("d"))
	assert.True(t, v.Capturing())
	v.Update(runeKey("n"))
	assert.False(t, v.Capturing())

	v.Update(runeKey("j"))
	v.Update(runeKey("d"))
	msgs := collect(v.Update(runeKey("y")))
	require.Len(t, msgs, 1)
	deleted, ok := msgs[0].(RecordDeletedMsg)
	require.True(t, ok)
	assert.NoError(t, deleted.Err)
	assert.Equal(t, "8", deleted.ID)
	assert.Equal(t, []string{"8"}, admin.deleted)
}

func TestAdminView_SwitchingTabsUpdatesLocation(t *testing.T) {
	svc := newTestServices(t, "", nil)
	v := newAdminView(base{id: 1, loc: route.Parse("/admin"), svc: svc})

	var nav *NavigateMsg
	for _, msg := range collect(v.Update(tea.KeyMsg{Type: tea.KeyTab})) {
		if n, ok := msg.(NavigateMsg); ok {
			nav = &n
		}
	}
	require.NotNil(t, nav)
	assert.True(t, nav.Replace)
	assert.Equal(t, "/admin?tab=genres", nav.To.String())
	assert.Equal(t, domain.ResourceGenres, v.resource())
}

func TestAdminView_FailedSaveKeepsForm(t *testing.T) {
	admin := &memAdmin{
		records: map[domain.Resource][]domain.Record{
			domain.ResourceTitles: {{"id": 7, "title": "Alien"}},
		},
		saveErr: &domain.APIError{Kind: domain.ErrValidation, Status: 422, Message: "The title has already been taken."},
	}
	svc := newTestServices(t, "", admin)
	v := newAdminView(base{id: 1, loc: route.Parse("/admin"), svc: svc})

	for _, msg := range collect(v.refresh()) {
		v.Update(msg)
	}
	require.Len(t, v.pager.Items(), 1)

	v.Update(runeKey("e"))
	require.True(t, v.form.IsVisible())
	v.Update(runeKey(" II"))

	msgs := collect(v.Update(tea.KeyMsg{Type: tea.KeyCtrlS}))
	require.Len(t, msgs, 1)
	saved, ok := msgs[0].(RecordSavedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, saved.Err, domain.ErrValidation)

	v.Update(saved)
	assert.True(t, v.form.IsVisible())
	assert.True(t, v.Capturing())
	assert.Equal(t, "Alien II", v.form.Values().String("title"))
	assert.Contains(t, v.form.View(), "The title has already been taken.")
}
