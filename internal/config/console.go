package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/env"
)

// ErrAPIKeyRequired is returned when the console has no API key.
var ErrAPIKeyRequired = errors.New("NEWSDESK_API_KEY is required")

// ConsoleConfig holds all configuration for the console binary.
// Command line flags are applied on top of the loaded values.
type ConsoleConfig struct {
	APIURL         string        `env:"NEWSDESK_API_URL" default:"http://localhost:8080"`
	APIKey         string        `env:"NEWSDESK_API_KEY"`
	Kind           string        `env:"NEWSDESK_CONSOLE_KIND" default:"articles"`
	PageSize       int           `env:"NEWSDESK_CONSOLE_PAGE_SIZE" default:"25"`
	DebounceWindow time.Duration `env:"NEWSDESK_CONSOLE_DEBOUNCE" default:"500ms"`
	RequestTimeout time.Duration `env:"NEWSDESK_CONSOLE_REQUEST_TIMEOUT" default:"10s"`
	SnapshotMaxAge time.Duration `env:"NEWSDESK_CONSOLE_SNAPSHOT_MAX_AGE" default:"5m"`
	LogFile        string        `env:"NEWSDESK_CONSOLE_LOG_FILE"`

	Snapshot SnapshotStoreConfig
	NATS     NATSConfig
}

// Validate checks the console settings.
func (c *ConsoleConfig) Validate() error {
	if c.APIKey == "" {
		return ErrAPIKeyRequired
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("NEWSDESK_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if _, err := c.ContentKind(); err != nil {
		return err
	}
	if c.PageSize < 1 {
		return fmt.Errorf("NEWSDESK_CONSOLE_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.DebounceWindow < 0 {
		return fmt.Errorf("NEWSDESK_CONSOLE_DEBOUNCE must not be negative")
	}
	return nil
}

// ContentKind returns the kind the console lists.
func (c *ConsoleConfig) ContentKind() (domain.Kind, error) {
	return domain.NewKind(c.Kind)
}

// LoadConsoleConfig loads console configuration from environment.
// Validate is not called so that flags can still fill in missing values.
func LoadConsoleConfig() (*ConsoleConfig, error) {
	cfg := &ConsoleConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load console config: %w", err)
	}
	return cfg, nil
}
