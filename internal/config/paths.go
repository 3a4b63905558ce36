package config

import (
	"os"
	"path/filepath"
)

// DataPath returns the root directory for Prompt DNA data.
// It uses $PROMPTDNA_PATH if set, otherwise defaults to ~/.promptdna.
func DataPath() string {
	if v := os.Getenv("PROMPTDNA_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".promptdna")
	}
	return filepath.Join(home, ".promptdna")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DataPath(), "config.jsonc")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(DataPath(), ".env")
}

// HeartbeatPath returns the path of the serve heartbeat file.
func HeartbeatPath() string {
	return filepath.Join(DataPath(), "heartbeat.json")
}

// LogPath returns the path of the TUI log file.
func LogPath() string {
	return filepath.Join(DataPath(), "promptdna.log")
}
