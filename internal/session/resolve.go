package session

import "github.com/matheus3301/wppmanager/internal/config"

const DefaultProfileName = "main"

// Resolve determines the active profile name using precedence:
// 1. flagOverride (--profile flag)
// 2. WPPMANAGER_PROFILE, then config.toml default_profile
// 3. "main"
func Resolve(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	cfg, err := config.LoadOrEmpty(ConfigPath())
	if err != nil {
		cfg = &config.Config{}
	}
	cfg.ApplyEnv()
	if cfg.DefaultProfile != "" {
		return cfg.DefaultProfile
	}
	return DefaultProfileName
}
