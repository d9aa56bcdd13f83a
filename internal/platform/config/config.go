// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (Session, Search) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This keeps the client Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Clinera client core.
type Config struct {

	// Remote API settings
	APIBaseURL     string        `env:"CLINERA_API_URL"      envDefault:"https://api.clinera.health"`
	RequestTimeout time.Duration `env:"CLINERA_HTTP_TIMEOUT" envDefault:"10s"`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`

	// VaultDir overrides the token vault location. Empty means the OS user
	// config directory is used.
	VaultDir string `env:"CLINERA_VAULT_DIR"`

	// Shared query cache (Redis). Optional: when empty, the client runs on
	// the in-process cache only.
	RedisURL string `env:"CLINERA_REDIS_URL"`

	// Search tuning overrides
	DebounceWindow time.Duration `env:"CLINERA_DEBOUNCE"  envDefault:"200ms"`
	QueryCacheTTL  time.Duration `env:"CLINERA_CACHE_TTL" envDefault:"15m"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the client is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
