// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles storefront settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the storage, transport, and flow layers via constructors.
  - Two schemas: [Config] for the storefront client, [StubConfig] for the local auth API stub.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Storage Drivers

const (
	StorageNone   = "none"
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the storefront client.
type Config struct {

	// Remote auth API
	APIBaseURL     string        `env:"API_BASE_URL"    envDefault:"https://tinytales.trendline.marketing/api"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"0s"`

	// Runtime
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`
	Locale      string `env:"LOCALE"      envDefault:"ar"`

	// Durable session storage
	StorageDriver  string `env:"STORAGE_DRIVER"   envDefault:"file"`
	StoragePath    string `env:"STORAGE_PATH"     envDefault:".tinytales/session.json"`
	SQLitePath     string `env:"SQLITE_PATH"      envDefault:".tinytales/session.db"`
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"tinytales:storage:"`

	// VerifyRedirectDelay is the grace period shown after a successful verification.
	VerifyRedirectDelay time.Duration `env:"VERIFY_REDIRECT_DELAY" envDefault:"2s"`
}

// StubConfig holds the configuration of the local auth API stub.
type StubConfig struct {
	Port             string        `env:"STUB_PORT"              envDefault:"8090"`
	Environment      string        `env:"ENVIRONMENT"            envDefault:"development"`
	Debug            bool          `env:"DEBUG"                  envDefault:"false"`
	SigningKey       string        `env:"STUB_SIGNING_KEY"       envDefault:"tinytales-dev-signing-key"`
	VerificationCode string        `env:"STUB_VERIFICATION_CODE" envDefault:"123456"`
	TokenTTL         time.Duration `env:"STUB_TOKEN_TTL"         envDefault:"24h"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadStub parses environment variables into a [StubConfig] struct.
func LoadStub() (*StubConfig, error) {
	cfg := &StubConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if strings.TrimSpace(cfg.SigningKey) == "" {
		return nil, errors.New("config: STUB_SIGNING_KEY must not be empty")
	}

	return cfg, nil
}

// Validate reports the first inconsistency between related settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("config: API_BASE_URL must not be empty")
	}

	switch c.StorageDriver {
	case StorageNone, StorageMemory, StorageFile, StorageSQLite:
	case StorageRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("config: REDIS_URL is required when STORAGE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("config: unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.Locale {
	case "ar", "en":
	default:
		return fmt.Errorf("config: unsupported LOCALE %q", c.Locale)
	}

	if c.RequestTimeout < 0 || c.VerifyRedirectDelay < 0 {
		return errors.New("config: durations must not be negative")
	}

	return nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsDevelopment reports whether the stub is running in development mode.
func (c *StubConfig) IsDevelopment() bool {
	return c.Environment == "development"
}
