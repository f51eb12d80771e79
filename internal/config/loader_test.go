package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// setupTestHome points HOME at a temp dir so the allowed-directory check can
// be exercised without touching the real config.
func setupTestHome(t *testing.T) string {
	t.Helper()
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	return tmpHome
}

func writeConfig(t *testing.T, home, content string) string {
	t.Helper()
	configDir := filepath.Join(home, ".config", "styleprofd")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidYAML(t *testing.T) {
	home := setupTestHome(t)

	configPath := writeConfig(t, home, `server:
  host: 127.0.0.1
  http_port: 9460

logging:
  level: debug
  format: console

upload:
  max_body_kb: 512
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9460 {
		t.Errorf("Server.Port = %d, want 9460", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Upload.MaxBodyKB != 512 {
		t.Errorf("Upload.MaxBodyKB = %d, want 512", cfg.Upload.MaxBodyKB)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	home := setupTestHome(t)

	configPath := writeConfig(t, home, `server:
  http_port: 9460

logging:
  level: info
`)

	t.Setenv("SERVER_HTTP_PORT", "7777")
	t.Setenv("LOGGING_LEVEL", "warn")
	t.Setenv("GENERATION_API_KEY", "test-key")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777 (env should override yaml)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
	if cfg.Generation.APIKey != "test-key" {
		t.Errorf("Generation.APIKey = %q, want %q", cfg.Generation.APIKey, "test-key")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := setupTestHome(t)

	configPath := filepath.Join(home, ".config", "styleprofd", "config.yaml")
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Port != 8460 {
		t.Errorf("Server.Port = %d, want default 8460", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want default 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Upload.MaxBodyKB != 2048 {
		t.Errorf("Upload.MaxBodyKB = %d, want default 2048", cfg.Upload.MaxBodyKB)
	}
}

func TestLoad_RejectsDisallowedDirectory(t *testing.T) {
	setupTestHome(t)

	outside := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(outside, []byte("server:\n  http_port: 1\n"), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := Load(outside)
	if err == nil {
		t.Fatal("Load() error = nil, want path validation error")
	}
	if !strings.Contains(err.Error(), "config file must be in") {
		t.Errorf("Load() error = %v, want allowed-directory message", err)
	}
}

func TestLoad_RejectsInsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}

	home := setupTestHome(t)
	configPath := writeConfig(t, home, "server:\n  http_port: 9460\n")
	if err := os.Chmod(configPath, 0644); err != nil {
		t.Fatalf("Failed to chmod test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() error = nil, want permission error")
	}
	if !strings.Contains(err.Error(), "insecure config file permissions") {
		t.Errorf("Load() error = %v, want permissions message", err)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SERVER_HTTP_PORT", "server.http_port"},
		{"LOGGING_LEVEL", "logging.level"},
		{"TELEMETRY_TLS_SKIP_VERIFY", "telemetry.tls_skip_verify"},
		{"GENERATION_API_KEY", "generation.api_key"},
		{"HOME", "home"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on defaults error = %v, want nil", err)
	}

	bad := &Config{}
	applyDefaults(bad)
	bad.Server.Port = -1
	if err := bad.Validate(); err == nil {
		t.Error("Validate() with negative port = nil, want error")
	}

	bad = &Config{}
	applyDefaults(bad)
	bad.Logging.Level = "loud"
	if err := bad.Validate(); err == nil {
		t.Error("Validate() with bad level = nil, want error")
	}
}
