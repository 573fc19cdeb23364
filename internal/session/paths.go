package session

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the base directory when set.
const HomeEnv = "WPPMANAGER_HOME"

// BaseDir returns ~/.wppmanager, or $WPPMANAGER_HOME.
func BaseDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".wppmanager")
}

// Dir returns the profile-specific directory.
func Dir(profile string) string {
	return filepath.Join(BaseDir(), "profiles", profile)
}

// AuthDBPath returns the credential store path for a profile.
func AuthDBPath(profile string) string {
	return filepath.Join(Dir(profile), "auth.db")
}

// SocketPath returns the daemon's gRPC health socket path.
func SocketPath(profile string) string {
	return filepath.Join(Dir(profile), "daemon.sock")
}

// LockPath returns the daemon lock file path.
func LockPath(profile string) string {
	return filepath.Join(Dir(profile), "LOCK")
}

// LogDir returns the log directory for a profile.
func LogDir(profile string) string {
	return filepath.Join(Dir(profile), "logs")
}

// DaemonLogPath returns the proxy daemon log file path.
func DaemonLogPath(profile string) string {
	return filepath.Join(LogDir(profile), "wppmanagerd.log")
}

// ClientLogPath returns the CLI and TUI log file path.
func ClientLogPath(profile string) string {
	return filepath.Join(LogDir(profile), "wppmanager.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// DotEnvPath returns the optional .env file next to the config.
func DotEnvPath() string {
	return filepath.Join(BaseDir(), ".env")
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(profile string) error {
	dirs := []string{
		Dir(profile),
		LogDir(profile),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
