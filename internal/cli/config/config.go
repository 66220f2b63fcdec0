package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/plumehq/plume-go/internal/infra/credstore"
)

// CLIConfig is the configuration for plume-cli.
type CLIConfig struct {
	// Server is the base URL of the Plume API.
	Server string `koanf:"server"`

	// Output selects the default format: table, json or yaml.
	Output string `koanf:"output"`

	// Timeout bounds each API request.
	Timeout time.Duration `koanf:"timeout"`

	Credentials CredentialsConfig `koanf:"credentials"`
	TLS         TLSConfig         `koanf:"tls"`
	Log         LogConfig         `koanf:"log"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

// CredentialsConfig controls access token persistence.
type CredentialsConfig struct {
	// Path is where the access token is persisted.
	Path string `koanf:"path"`
}

// TLSConfig controls server certificate trust.
type TLSConfig struct {
	// CA is an optional PEM file added to the trusted roots.
	CA string `koanf:"ca"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig controls the metrics endpoint exposed by watch mode.
type MetricsConfig struct {
	Address string `koanf:"address"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "http://localhost:4000",
		Output:  "table",
		Timeout: 30 * time.Second,
		Credentials: CredentialsConfig{
			Path: credstore.DefaultPath(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Address: "127.0.0.1:9465",
		},
	}
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".plume", "cli.yaml")
}

// Validate checks the configuration for values that can never work.
func (c *CLIConfig) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("config: server must not be empty")
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
