package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/api"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/route"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/session"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

const loginTimeout = 30 * time.Second

type options struct {
	login  bool
	logout bool
	route  string
}

func main() {
	var showVersion bool
	var opts options
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&opts.login, "login", false, "sign in on the terminal and exit")
	flag.BoolVar(&opts.logout, "logout", false, "sign out and exit")
	flag.StringVar(&opts.route, "route", "", "open at `PATH`, e.g. /search?q=alien")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the wired object graph
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	tokens  *store.TokenStore
	client  *api.Client
	session *session.Store
}

func (a *app) Close() {
	a.session.Dispose()
	if err := a.tokens.Close(); err != nil {
		a.logger.Error("failed to close token store", "error", err)
	}
}

func run(opts options) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	a, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case opts.logout:
		a.session.Logout()
		fmt.Println("✓ Signed out.")
		return nil
	case opts.login:
		return runLogin(a)
	}

	styles.ApplyTheme(cfg.UI.Theme)

	catalog := service.NewCatalogService(a.client, cfg.Catalog.PageSize, logger)
	catalog.SetPrivileged(a.session.IsAuthenticated)

	svc := &tui.Services{
		Catalog:  catalog,
		Admin:    service.NewAdminService(a.client, clientPaged(cfg.Catalog.ClientPaged), cfg.Catalog.PageSize, logger),
		Playback: service.NewPlaybackService(adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, cfg.Player.TitleFlag, logger), logger),
		Session:  a.session,
		Logger:   logger,
	}

	start := opts.route
	if start == "" {
		start = cfg.UI.DefaultRoute
	}
	model := tui.NewModel(svc, route.NewGuard(route.DefaultTable()), route.Parse(start))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI", "route", start)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// wire builds the token store, API client and session for cfg.Server.URL
func wire(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	tokens, err := store.NewTokenStore(adapter.DataPath(), cfg.Server.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	client := api.NewClient(cfg.Server.URL, tokens, logger,
		api.WithAdminPrefix(cfg.Server.AdminPrefix),
		api.WithTimeout(cfg.Server.Timeout),
		api.WithRetries(cfg.HTTP.Retries, 0),
		api.WithRateLimit(cfg.HTTP.RequestsPerSecond),
	)
	sess := session.New(client, tokens, logger)
	client.SetUnauthorizedHandler(sess.Invalidate)

	return &app{cfg: cfg, logger: logger, tokens: tokens, client: client, session: sess}, nil
}

func clientPaged(names []string) []domain.Resource {
	out := make([]domain.Resource, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Resource(n))
	}
	return out
}

// runSetupFlow asks for the API URL on first run and saves it
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()

	url, err := adapter.NewPrompt().AskRequired("Enter the catalog API URL (e.g., http://localhost:8000): ")
	if err != nil {
		return err
	}
	cfg.Server.URL = url

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// runLogin signs in from the terminal and persists the token
func runLogin(a *app) error {
	fmt.Println()
	fmt.Println("Sign in to " + a.cfg.Server.URL)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━")

	identifier, secret, err := adapter.NewPrompt().Credentials()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
	defer cancel()

	err = withSpinner("Signing in...", func() error {
		return a.session.Login(ctx, identifier, secret)
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrServerOffline):
		return fmt.Errorf("server unreachable: %w", err)
	default:
		return errors.New(domain.Message(err))
	}

	st := a.session.State()
	if st.User != nil {
		fmt.Printf("✓ Signed in as %s\n", st.User.DisplayName())
	} else {
		fmt.Println("✓ Signed in.")
	}
	return nil
}

// withSpinner runs fn while animating a spinner on the terminal
func withSpinner(label string, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	frame := 0
	fmt.Printf("\r%s %s", styles.SpinnerFrames[frame], label)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			fmt.Print(clearSpinnerLine)
			return err
		case <-ticker.C:
			frame++
			fmt.Printf("\r%s %s", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)], label)
		}
	}
}
