package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bankclient/internal/flagx"
	"github.com/dmitrijs2005/bankclient/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Only fields present in the file override the current values.
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	AuthScheme          string         `json:"auth_scheme"`
	ExpiryCheckInterval timex.Duration `json:"expiry_check_interval"`
	ExpiryWarningWindow timex.Duration `json:"expiry_warning_window"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	StorePath           string         `json:"store_path"`
	LogLevel            string         `json:"log_level"`
}

// parseJSON overlays cfg with the JSON file given by -c / -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	overlayString(&cfg.ServerBaseURL, jc.ServerBaseURL)
	overlayString(&cfg.AuthScheme, jc.AuthScheme)
	overlayDuration(&cfg.ExpiryCheckInterval, jc.ExpiryCheckInterval.Duration)
	overlayDuration(&cfg.ExpiryWarningWindow, jc.ExpiryWarningWindow.Duration)
	overlayDuration(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	overlayString(&cfg.StorePath, jc.StorePath)
	overlayString(&cfg.LogLevel, jc.LogLevel)
	return nil
}
