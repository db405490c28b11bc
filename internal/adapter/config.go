package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Player  PlayerConfig  `mapstructure:"player"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds catalog API configuration
type ServerConfig struct {
	URL         string        `mapstructure:"url"`          // API base URL
	AdminPrefix string        `mapstructure:"admin_prefix"` // Path prefix of the admin endpoints
	Timeout     time.Duration `mapstructure:"timeout"`
}

// HTTPConfig tunes the API client
type HTTPConfig struct {
	Retries           int     `mapstructure:"retries"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // 0 = unlimited
}

// CatalogConfig holds listing preferences
type CatalogConfig struct {
	PageSize    int      `mapstructure:"page_size"`
	ClientPaged []string `mapstructure:"client_paged"` // Admin resources the server returns unpaged
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command   string   `mapstructure:"command"`
	Args      []string `mapstructure:"args"`
	TitleFlag string   `mapstructure:"title_flag"` // e.g., "--force-media-title="
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	DefaultRoute string `mapstructure:"default_route"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			AdminPrefix: "/api/admin",
			Timeout:     30 * time.Second,
		},
		HTTP: HTTPConfig{
			Retries: 3,
		},
		Catalog: CatalogConfig{
			PageSize:    20,
			ClientPaged: []string{"genres"},
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		UI: UIConfig{
			Theme:        "default",
			DefaultRoute: "/",
		},
		Logging: LoggingConfig{
			File:       defaultLogPath(),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// DataPath returns the directory holding the session databases
func DataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "data")
	}
}

// newViper returns a viper instance with defaults registered, so that every
// key can be overridden from the environment (MARQUEE_SERVER_URL, ...)
func newViper() *viper.Viper {
	v := viper.New()
	setValues(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setValues mirrors cfg into v under snake_case keys
func setValues(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.admin_prefix", cfg.Server.AdminPrefix)
	v.SetDefault("server.timeout", cfg.Server.Timeout)

	v.SetDefault("http.retries", cfg.HTTP.Retries)
	v.SetDefault("http.requests_per_second", cfg.HTTP.RequestsPerSecond)

	v.SetDefault("catalog.page_size", cfg.Catalog.PageSize)
	v.SetDefault("catalog.client_paged", cfg.Catalog.ClientPaged)

	v.SetDefault("player.command", cfg.Player.Command)
	v.SetDefault("player.args", cfg.Player.Args)
	v.SetDefault("player.title_flag", cfg.Player.TitleFlag)

	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.default_route", cfg.UI.DefaultRoute)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath(), ".")
}

// LoadConfigFrom loads config.yaml from the first of dirs that has one.
// A missing file is not an error.
func LoadConfigFrom(dirs ...string) (*Config, error) {
	v := newViper()
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Server.URL = strings.TrimRight(cfg.Server.URL, "/")
	return cfg, nil
}

// SaveConfig writes cfg to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(defaultConfigPath(), cfg)
}

// SaveConfigTo writes cfg as config.yaml in dir
func SaveConfigTo(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.admin_prefix", cfg.Server.AdminPrefix)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("http.retries", cfg.HTTP.Retries)
	v.Set("http.requests_per_second", cfg.HTTP.RequestsPerSecond)
	v.Set("catalog.page_size", cfg.Catalog.PageSize)
	v.Set("catalog.client_paged", cfg.Catalog.ClientPaged)
	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)
	v.Set("player.title_flag", cfg.Player.TitleFlag)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.default_route", cfg.UI.DefaultRoute)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.Set("logging.max_backups", cfg.Logging.MaxBackups)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// ClearData removes all persisted session databases
func ClearData() error {
	if err := os.RemoveAll(DataPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	return nil
}
