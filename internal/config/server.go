package config

import (
	"fmt"
	"time"

	"github.com/rezkam/newsdesk/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database        DatabaseConfig
	HTTP            HTTPConfig
	GRPC            GRPCConfig
	Auth            AuthConfig
	Content         ContentConfig
	NATS            NATSConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"NEWSDESK_SHUTDOWN_TIMEOUT" default:"10s"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"NEWSDESK_HTTP_HOST"`
	Port              string        `env:"NEWSDESK_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"NEWSDESK_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"NEWSDESK_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"NEWSDESK_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"NEWSDESK_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"NEWSDESK_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"NEWSDESK_HTTP_MAX_BODY_BYTES"`
}

// GRPCConfig holds the health endpoint configuration. An empty port disables it.
type GRPCConfig struct {
	Host string `env:"NEWSDESK_GRPC_HOST"`
	Port string `env:"NEWSDESK_GRPC_PORT" default:"9090"`
}

// AuthConfig holds authenticator configuration.
type AuthConfig struct {
	OperationTimeout time.Duration `env:"NEWSDESK_AUTH_OPERATION_TIMEOUT"`
	UpdateQueueSize  int           `env:"NEWSDESK_AUTH_UPDATE_QUEUE_SIZE"`
}

// ContentConfig holds content service configuration.
type ContentConfig struct {
	DefaultPageSize int `env:"NEWSDESK_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `env:"NEWSDESK_MAX_PAGE_SIZE"`
}

// Validate rejects a default page size above the maximum.
func (c *ContentConfig) Validate() error {
	if c.MaxPageSize > 0 && c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("NEWSDESK_MAX_PAGE_SIZE (%d) must be >= NEWSDESK_DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
