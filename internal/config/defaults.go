package config

import (
	"os"
	"path/filepath"
	"time"
)

const defaultBaseURL = "http://localhost:5230/api"

// Same bound the mobile client used for every request.
const defaultTimeout = 10 * time.Second

// DefaultBaseURL returns the default backend API root.
func DefaultBaseURL() string {
	return defaultBaseURL
}

// DefaultTimeout returns the default per-request timeout.
func DefaultTimeout() time.Duration {
	return defaultTimeout
}

// DefaultSessionFile returns the default session store path under the user
// home directory, falling back to the working directory when home is unknown.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".driverctl-session.json"
	}
	return filepath.Join(home, ".driverctl", "session.json")
}
