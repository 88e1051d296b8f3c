package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envPrefix = "BANK_"

// envConfig mirrors Config for go-envconfig; unset variables stay zero.
type envConfig struct {
	ServerBaseURL       string        `env:"SERVER_URL"`
	AuthScheme          string        `env:"AUTH_SCHEME"`
	ExpiryCheckInterval time.Duration `env:"EXPIRY_CHECK_INTERVAL"`
	ExpiryWarningWindow time.Duration `env:"EXPIRY_WARNING_WINDOW"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT"`
	StorePath           string        `env:"STORE_PATH"`
	LogLevel            string        `env:"LOG_LEVEL"`
}

// parseEnv overlays cfg with BANK_* variables read through l.
func parseEnv(ctx context.Context, cfg *Config, l envconfig.Lookuper) error {
	if l == nil {
		return nil
	}

	var ec envConfig
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &ec,
		Lookuper: envconfig.PrefixLookuper(envPrefix, l),
	})
	if err != nil {
		return err
	}

	overlayString(&cfg.ServerBaseURL, ec.ServerBaseURL)
	overlayString(&cfg.AuthScheme, ec.AuthScheme)
	overlayDuration(&cfg.ExpiryCheckInterval, ec.ExpiryCheckInterval)
	overlayDuration(&cfg.ExpiryWarningWindow, ec.ExpiryWarningWindow)
	overlayDuration(&cfg.RequestTimeout, ec.RequestTimeout)
	overlayString(&cfg.StorePath, ec.StorePath)
	overlayString(&cfg.LogLevel, ec.LogLevel)
	return nil
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
