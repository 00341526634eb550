package config

import (
	"os"
	"path/filepath"

	"github.com/robinbaebae/sprt/internal/logger"
)

// RuntimeConfig holds the directory layout SPRT operates on. Everything lives
// under the Claude home directory: transcripts under projects/, our own state
// under sprt/.
type RuntimeConfig struct {
	HomeDir     string // User home directory
	ClaudeDir   string // ~/.claude (or SPRT_CLAUDE_DIR override)
	ProjectsDir string // <ClaudeDir>/projects - session transcripts
	SprtDir     string // <ClaudeDir>/sprt - devlog storage
}

var (
	// Runtime is the global runtime configuration instance
	Runtime *RuntimeConfig
)

func init() {
	Runtime = DetectRuntime()
}

// DetectRuntime determines the directory layout for the current environment.
// SPRT_CLAUDE_DIR overrides the Claude directory, used by tests and by
// setups with a relocated Claude home.
func DetectRuntime() *RuntimeConfig {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "."
		}
	}

	claudeDir := os.Getenv("SPRT_CLAUDE_DIR")
	if claudeDir == "" {
		claudeDir = filepath.Join(homeDir, ".claude")
	}

	config := &RuntimeConfig{
		HomeDir:     homeDir,
		ClaudeDir:   claudeDir,
		ProjectsDir: filepath.Join(claudeDir, "projects"),
		SprtDir:     filepath.Join(claudeDir, "sprt"),
	}

	if err := ensureDir(config.SprtDir); err != nil {
		logger.Warnf("Failed to create sprt directory %s: %v", config.SprtDir, err)
	}

	return config
}

// CredentialsPath returns the path to the Claude credentials file
func (rc *RuntimeConfig) CredentialsPath() string {
	return filepath.Join(rc.ClaudeDir, ".credentials.json")
}

// StatsCachePath returns the path to the precomputed stats cache file
func (rc *RuntimeConfig) StatsCachePath() string {
	return filepath.Join(rc.ClaudeDir, "stats-cache.json")
}

// DevLogsDir returns the storage directory for a devlog type
func (rc *RuntimeConfig) DevLogsDir(logType string) string {
	return filepath.Join(rc.SprtDir, "devlogs", logType)
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
