package config

import (
	"fmt"

	"github.com/rezkam/newsdesk/internal/env"
)

// APIKeyGenConfig holds all configuration for the apikey binary.
type APIKeyGenConfig struct {
	Database DatabaseConfig

	Name      string
	DaysValid int
}

// LoadAPIKeyGenConfig loads and validates apikey generation configuration.
func LoadAPIKeyGenConfig(name string, daysValid int) (*APIKeyGenConfig, error) {
	cfg := &APIKeyGenConfig{
		Name:      name,
		DaysValid: daysValid,
	}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load apikey config: %w", err)
	}

	return cfg, nil
}

// Validate validates apikey generation configuration.
func (c *APIKeyGenConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required (use --name)")
	}

	if c.DaysValid < 0 {
		return fmt.Errorf("days must be >= 0 (0 = never expires)")
	}

	return nil
}
