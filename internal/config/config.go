package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores client settings.
type Config struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string
	// Timeout bounds every single HTTP request.
	Timeout time.Duration
	// SessionFile is the path of the persisted session key-value store.
	SessionFile string
	// DebugAddr enables the local pprof/metrics server when non-empty.
	DebugAddr string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		BaseURL:     DefaultBaseURL(),
		Timeout:     DefaultTimeout(),
		SessionFile: DefaultSessionFile(),
	}

	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("DEBUG_ADDR"); v != "" {
		cfg.DebugAddr = v
	}

	pflag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "backend API base URL")
	pflag.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request HTTP timeout")
	pflag.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "path of the persisted session store")
	pflag.StringVar(&cfg.DebugAddr, "debug-addr", cfg.DebugAddr, "listen address for the local pprof/metrics server")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL: %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme: %q", u.Scheme)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %v", c.Timeout)
	}
	if c.SessionFile == "" {
		return fmt.Errorf("session file path is empty")
	}
	return nil
}
