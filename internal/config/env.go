package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables, checked in order; the first set one wins.
var (
	envBackendURL         = []string{"WPPMANAGER_BACKEND_URL", "BACKEND_URL"}
	envGatewayURL         = []string{"WPP_API_BASE_URL"}
	envGatewayAPIKey      = []string{"WPP_API_KEY"}
	envGatewayIntegration = []string{"WPP_INTEGRATION_TYPE"}
	envListenAddr         = []string{"WPPMANAGER_LISTEN_ADDR"}
	envRequestTimeout     = []string{"WPPMANAGER_REQUEST_TIMEOUT"}
	envCORSOrigins        = []string{"WPPMANAGER_CORS_ORIGINS"}
	envLogLevel           = []string{"WPPMANAGER_LOG_LEVEL"}
	envDefaultProfile     = []string{"WPPMANAGER_PROFILE"}
)

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overlays environment variables onto c.
func (c *Config) ApplyEnv() {
	setString(&c.BackendURL, envBackendURL)
	setString(&c.GatewayURL, envGatewayURL)
	setString(&c.GatewayAPIKey, envGatewayAPIKey)
	setString(&c.GatewayIntegration, envGatewayIntegration)
	setString(&c.ListenAddr, envListenAddr)
	setString(&c.LogLevel, envLogLevel)
	setString(&c.DefaultProfile, envDefaultProfile)
	if v, ok := lookup(envRequestTimeout); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout.Duration = d
		}
	}
	if v, ok := lookup(envCORSOrigins); ok {
		c.CORSOrigins = splitList(v)
	}
}

// Resolve loads the config file at path (missing is fine), overlays .env
// files and the environment, and applies defaults.
func Resolve(path string, dotenv ...string) (*Config, error) {
	LoadDotEnv(dotenv...)
	cfg, err := LoadOrEmpty(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	cfg.GatewayURL = strings.TrimRight(cfg.GatewayURL, "/")
	return cfg, nil
}

func lookup(keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func setString(dst *string, keys []string) {
	if v, ok := lookup(keys); ok {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
