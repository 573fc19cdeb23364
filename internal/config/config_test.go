package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		DefaultProfile: "work",
		BackendURL:     "https://api.example.com",
		RequestTimeout: Duration{30 * time.Second},
		CORSOrigins:    []string{"http://localhost:3000"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.BackendURL != "https://api.example.com" {
		t.Errorf("BackendURL = %q", loaded.BackendURL)
	}
	if loaded.RequestTimeout.Duration != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", loaded.RequestTimeout)
	}
	if len(loaded.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v", loaded.CORSOrigins)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
	cfg, err := LoadOrEmpty("/nonexistent/config.toml")
	if err != nil || cfg == nil {
		t.Errorf("LoadOrEmpty() = %v, %v; want empty config", cfg, err)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("request_timeout = \"soon\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrEmpty(path); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.BackendURL != DefaultBackendURL || cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RequestTimeout.Duration != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.GatewayConfigured() {
		t.Error("gateway should not be configured without URL and key")
	}
}

func TestResolveEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := Save(path, &Config{BackendURL: "http://from-file", ListenAddr: "127.0.0.1:1"}); err != nil {
		t.Fatal(err)
	}
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("WPP_API_KEY=from-dotenv\nWPP_API_BASE_URL=http://gw/\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("WPPMANAGER_BACKEND_URL", "")
	t.Setenv("BACKEND_URL", "http://from-env/")
	t.Setenv("WPPMANAGER_CORS_ORIGINS", "http://a, http://b,")
	t.Setenv("WPPMANAGER_REQUEST_TIMEOUT", "2s")
	t.Setenv("WPP_API_KEY", "")
	t.Setenv("WPP_API_BASE_URL", "")
	os.Unsetenv("WPP_API_KEY")
	os.Unsetenv("WPP_API_BASE_URL")

	cfg, err := Resolve(path, dotenv)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BackendURL != "http://from-env" {
		t.Errorf("BackendURL = %q, want env value without trailing slash", cfg.BackendURL)
	}
	if cfg.ListenAddr != "127.0.0.1:1" {
		t.Errorf("ListenAddr = %q, want file value", cfg.ListenAddr)
	}
	if cfg.GatewayAPIKey != "from-dotenv" || cfg.GatewayURL != "http://gw" {
		t.Errorf("gateway = %q %q, want values from .env", cfg.GatewayURL, cfg.GatewayAPIKey)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.RequestTimeout.Duration != 2*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !cfg.GatewayConfigured() {
		t.Error("gateway should be configured")
	}
}
