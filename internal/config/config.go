package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied to fields left empty by the file and the environment.
const (
	DefaultBackendURL         = "http://backend:4000"
	DefaultGatewayIntegration = "WHATSAPP-BAILEYS"
	DefaultListenAddr         = "127.0.0.1:8787"
	DefaultRequestTimeout     = 15 * time.Second
	DefaultLogLevel           = "info"
)

// Config represents the global ~/.wppmanager/config.toml.
type Config struct {
	DefaultProfile     string   `toml:"default_profile"`
	BackendURL         string   `toml:"backend_url"`
	GatewayURL         string   `toml:"gateway_url"`
	GatewayAPIKey      string   `toml:"gateway_api_key"`
	GatewayIntegration string   `toml:"gateway_integration"`
	ListenAddr         string   `toml:"listen_addr"`
	RequestTimeout     Duration `toml:"request_timeout"`
	CORSOrigins        []string `toml:"cors_origins"`
	LogLevel           string   `toml:"log_level"`
}

// Duration is a time.Duration written as a string such as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrEmpty reads config from path, treating a missing file as empty.
func LoadOrEmpty(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// ApplyDefaults fills fields that are still empty.
func (c *Config) ApplyDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.GatewayIntegration == "" {
		c.GatewayIntegration = DefaultGatewayIntegration
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.RequestTimeout.Duration <= 0 {
		c.RequestTimeout.Duration = DefaultRequestTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// GatewayConfigured reports whether direct gateway calls can be made.
func (c *Config) GatewayConfigured() bool {
	return c.GatewayURL != "" && c.GatewayAPIKey != "" && c.GatewayIntegration != ""
}
