package config

import (
	"fmt"
	"time"

	"github.com/rezkam/newsdesk/internal/domain"
	"github.com/rezkam/newsdesk/internal/env"
)

// WorkerConfig holds all configuration for the snapshot worker binary.
type WorkerConfig struct {
	Database         DatabaseConfig
	Snapshot         SnapshotStoreConfig
	Observability    ObservabilityConfig
	Interval         time.Duration `env:"NEWSDESK_WORKER_INTERVAL" default:"1m"`
	OperationTimeout time.Duration `env:"NEWSDESK_WORKER_OPERATION_TIMEOUT"`
	PageSize         int           `env:"NEWSDESK_WORKER_PAGE_SIZE" default:"25"`
	Concurrency      int           `env:"NEWSDESK_WORKER_CONCURRENCY"`
	Kinds            []string      `env:"NEWSDESK_WORKER_KINDS"`
}

// Validate checks the worker settings.
func (c *WorkerConfig) Validate() error {
	if c.Snapshot.Backend == SnapshotBackendNone {
		return fmt.Errorf("NEWSDESK_SNAPSHOT_BACKEND must not be %q for the worker", SnapshotBackendNone)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("NEWSDESK_WORKER_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	_, err := c.ContentKinds()
	return err
}

// ContentKinds returns the configured kinds, or every kind when none is set.
func (c *WorkerConfig) ContentKinds() ([]domain.Kind, error) {
	if len(c.Kinds) == 0 {
		return domain.Kinds, nil
	}
	kinds := make([]domain.Kind, 0, len(c.Kinds))
	for _, raw := range c.Kinds {
		kind, err := domain.NewKind(raw)
		if err != nil {
			return nil, fmt.Errorf("NEWSDESK_WORKER_KINDS: %w", err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// LoadWorkerConfig loads and validates worker configuration from environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	return cfg, nil
}
