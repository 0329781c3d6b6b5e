package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers selectable via UNIFYHUB_STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMock     = "mock"
	DriverRemote   = "remote"
)

// Config holds the configuration for the UnifyHub service. Environment
// variables are parsed with the UNIFYHUB_ prefix, e.g. UNIFYHUB_HTTP_PORT.
type Config struct {
	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`

	// HTTP configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// SQLite configuration
	SQLitePath string `envconfig:"SQLITE_PATH" default:"unifyhub.db"`

	// Postgres configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Remote table-API configuration
	RemoteBaseURL string `envconfig:"REMOTE_BASE_URL" default:""`
	RemoteAPIKey  string `envconfig:"REMOTE_API_KEY" default:""`

	// Mock backend: simulated per-call latency in milliseconds.
	MockLatencyMS int `envconfig:"MOCK_LATENCY_MS" default:"250"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"15"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// New creates a Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("UNIFYHUB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unsupported drivers and missing driver settings.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite driver requires UNIFYHUB_SQLITE_PATH")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres driver requires UNIFYHUB_POSTGRES_DSN")
		}
	case DriverRemote:
		if c.RemoteBaseURL == "" {
			return fmt.Errorf("remote driver requires UNIFYHUB_REMOTE_BASE_URL")
		}
	case DriverMock:
		// always available
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	return nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
