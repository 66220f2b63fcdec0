package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExplicitMissingFileFails(t *testing.T) {
	loader := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	if _, err := loader.Load(nil); err == nil {
		t.Fatal("explicitly named missing config file should fail")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, strings.TrimSpace(`
server: https://api.plume.app
output: json
timeout: 10s
log:
  level: debug
`))

	cfg, err := NewLoader(WithConfigFile(path)).Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server != "https://api.plume.app" {
		t.Errorf("server = %q", cfg.Server)
	}
	if cfg.Output != "json" {
		t.Errorf("output = %q", cfg.Output)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// Untouched fields keep their defaults.
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want default text", cfg.Log.Format)
	}
	if cfg.Credentials.Path == "" {
		t.Error("credential path should default to a real location")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "output: json\n")
	t.Setenv("PLUME_OUTPUT", "yaml")
	t.Setenv("PLUME_LOG_LEVEL", "error")

	cfg, err := NewLoader(WithConfigFile(path)).Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "yaml" {
		t.Errorf("output = %q, want env value", cfg.Output)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("log level = %q, want env value", cfg.Log.Level)
	}
}

func TestFlagOverridesEverything(t *testing.T) {
	path := writeConfigFile(t, "output: json\n")
	t.Setenv("PLUME_OUTPUT", "yaml")

	cfg, err := NewLoader(WithConfigFile(path)).Load(map[string]any{
		"output": "table",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "table" {
		t.Errorf("output = %q, want flag value", cfg.Output)
	}
}

func TestFlagOverridesNestedKeys(t *testing.T) {
	path := writeConfigFile(t, "log:\n  level: warn\n")

	cfg, err := NewLoader(WithConfigFile(path)).Load(map[string]any{
		"log.level":        "debug",
		"credentials.path": "/tmp/plume-test-token",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want flag value", cfg.Log.Level)
	}
	if cfg.Credentials.Path != "/tmp/plume-test-token" {
		t.Errorf("credential path = %q, want flag value", cfg.Credentials.Path)
	}
	// Sibling fields under the same section keep their values.
	if cfg.Log.Format != "text" {
		t.Errorf("log format = %q, want default text", cfg.Log.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown output", "output: xml\n"},
		{"empty server", "server: \"\"\n"},
		{"zero timeout", "timeout: 0s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			if _, err := NewLoader(WithConfigFile(path)).Load(nil); err == nil {
				t.Error("Load() should reject invalid config")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}
