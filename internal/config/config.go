package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/playercard/internal/profile"
)

// Config captures the client and reference-service settings.
type Config struct {
	APIURL         string
	Token          string
	Avatars        []profile.Avatar
	DefaultAvatar  profile.AvatarID
	LogFile        string
	LogLevel       string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Server         ServerConfig
}

// ServerConfig configures `playercard serve`.
type ServerConfig struct {
	Listen       string
	DatabasePath string
	RateLimit    int // requests per minute per client IP
	Accounts     []Account
}

// Account seeds a bearer token and its email into the reference service.
type Account struct {
	Token string
	Email string
}

const (
	defaultConfigPath     = "~/.config/playercard/config.toml"
	defaultAPIURL         = "127.0.0.1:7610"
	defaultToken          = "dev-token"
	defaultLogFile        = "~/.local/state/playercard/playercard.log"
	defaultLogLevel       = "info"
	defaultPollInterval   = 30 * time.Second
	defaultRequestTimeout = 5 * time.Second
	defaultDatabasePath   = "~/.local/share/playercard/profiles.db"
	defaultRateLimit      = 120
	defaultAccountEmail   = "player@example.com"
)

type rawAvatar struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
}

type rawAccount struct {
	Token string `toml:"token"`
	Email string `toml:"email"`
}

type rawConfig struct {
	APIURL                string      `toml:"api_url"`
	Token                 string      `toml:"token"`
	Avatars               []rawAvatar `toml:"avatars"`
	DefaultAvatar         string      `toml:"default_avatar"`
	LogFile               string      `toml:"log_file"`
	LogLevel              string      `toml:"log_level"`
	PollSeconds           int         `toml:"poll_seconds"`
	RequestTimeoutSeconds int         `toml:"request_timeout_seconds"`
	Server                struct {
		Listen             string       `toml:"listen"`
		Database           string       `toml:"database"`
		RateLimitPerMinute int          `toml:"rate_limit_per_minute"`
		Accounts           []rawAccount `toml:"accounts"`
	} `toml:"server"`
}

// envOverrides lets the environment win over the file.
type envOverrides struct {
	APIURL   string `env:"PLAYERCARD_API_URL"`
	Token    string `env:"PLAYERCARD_TOKEN"`
	LogFile  string `env:"PLAYERCARD_LOG_FILE"`
	LogLevel string `env:"PLAYERCARD_LOG_LEVEL"`
	Listen   string `env:"PLAYERCARD_LISTEN"`
	Database string `env:"PLAYERCARD_DATABASE"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	catalog := profile.DefaultCatalog()
	return Config{
		APIURL:         defaultAPIURL,
		Token:          defaultToken,
		Avatars:        catalog.Avatars(),
		DefaultAvatar:  catalog.Default(),
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		Server: ServerConfig{
			Listen:       defaultAPIURL,
			DatabasePath: mustExpand(defaultDatabasePath),
			RateLimit:    defaultRateLimit,
			Accounts:     []Account{{Token: defaultToken, Email: defaultAccountEmail}},
		},
	}
}

// Load locates and parses the config, falling back to defaults when missing, and
// applies environment overrides last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := parseInto(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseInto(r io.Reader, cfg *Config) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.Token); v != "" {
		cfg.Token = v
	}
	if len(raw.Avatars) > 0 {
		cfg.Avatars = make([]profile.Avatar, 0, len(raw.Avatars))
		for _, a := range raw.Avatars {
			cfg.Avatars = append(cfg.Avatars, profile.Avatar{
				ID:    profile.AvatarID(strings.TrimSpace(a.ID)),
				Label: strings.TrimSpace(a.Label),
			})
		}
		// A custom list without a default starts from its first entry.
		cfg.DefaultAvatar = profile.NoAvatar
	}
	if v := strings.TrimSpace(raw.DefaultAvatar); v != "" {
		cfg.DefaultAvatar = profile.AvatarID(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}

	if v := strings.TrimSpace(raw.Server.Listen); v != "" {
		cfg.Server.Listen = v
	}
	if v := strings.TrimSpace(raw.Server.Database); v != "" {
		cfg.Server.DatabasePath = mustExpand(v)
	}
	if raw.Server.RateLimitPerMinute > 0 {
		cfg.Server.RateLimit = raw.Server.RateLimitPerMinute
	}
	if len(raw.Server.Accounts) > 0 {
		cfg.Server.Accounts = cfg.Server.Accounts[:0:0]
		for _, a := range raw.Server.Accounts {
			token := strings.TrimSpace(a.Token)
			if token == "" {
				continue
			}
			cfg.Server.Accounts = append(cfg.Server.Accounts, Account{Token: token, Email: strings.TrimSpace(a.Email)})
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if v := strings.TrimSpace(o.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(o.Token); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(o.Listen); v != "" {
		cfg.Server.Listen = v
	}
	if v := strings.TrimSpace(o.Database); v != "" {
		cfg.Server.DatabasePath = mustExpand(v)
	}
	return nil
}

// Validate checks that the avatar catalog can be built.
func (c Config) Validate() error {
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("invalid avatars: %w", err)
	}
	return nil
}

// Catalog builds the avatar catalog described by the config.
func (c Config) Catalog() (profile.Catalog, error) {
	return profile.NewCatalog(c.Avatars, c.DefaultAvatar)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
