package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/client/auth"
	"github.com/sethvargo/go-envconfig"
)

// MemoryStore selects the in-memory session store.
const MemoryStore = ":memory:"

// Config holds runtime settings for the bank client.
type Config struct {
	ServerBaseURL       string
	AuthScheme          string
	ExpiryCheckInterval time.Duration
	ExpiryWarningWindow time.Duration
	RequestTimeout      time.Duration
	StorePath           string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.AuthScheme = auth.NameBearer
	c.ExpiryCheckInterval = 60 * time.Second
	c.ExpiryWarningWindow = 5 * time.Minute
	c.RequestTimeout = 15 * time.Second
	c.StorePath = "session.db"
	c.LogLevel = "info"
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server base url %q", c.ServerBaseURL)
	}
	if _, err := auth.FromName(c.AuthScheme); err != nil {
		return err
	}
	if c.ExpiryCheckInterval <= 0 {
		return errors.New("expiry check interval must be positive")
	}
	if c.ExpiryWarningWindow < 0 {
		return errors.New("expiry warning window cannot be negative")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.StorePath == "" {
		return errors.New("store path is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// Load builds a Config by applying defaults, the JSON file named in args,
// environment variables from env, then the flags in args. Later sources
// take precedence over earlier ones.
func Load(ctx context.Context, args []string, env envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(ctx, cfg, env); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads the configuration of the running process.
func LoadConfig(ctx context.Context) (*Config, error) {
	return Load(ctx, os.Args[1:], envconfig.OsLookuper())
}
