package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/bankclient/internal/flagx"
)

var knownFlags = []string{"-a", "-s", "-i", "-w", "-d", "-l"}

// parseFlags populates selected Config fields from command-line flags.
// Arguments belonging to other flag sets (e.g. -c) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("bankclient", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the bank API")
	fs.StringVar(&cfg.AuthScheme, "s", cfg.AuthScheme, "auth scheme (bearer|basic)")
	checkInterval := fs.Int("i", int(cfg.ExpiryCheckInterval.Seconds()), "token expiry check interval (in seconds)")
	warnWindow := fs.Int("w", int(cfg.ExpiryWarningWindow.Seconds()), "expiry warning window (in seconds)")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "session store path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.ExpiryCheckInterval = time.Duration(*checkInterval) * time.Second
	cfg.ExpiryWarningWindow = time.Duration(*warnWindow) * time.Second
	return nil
}
