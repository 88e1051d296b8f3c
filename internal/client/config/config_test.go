package config

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:8080", c.ServerBaseURL)
	assert.Equal(t, "bearer", c.AuthScheme)
	assert.Equal(t, 60*time.Second, c.ExpiryCheckInterval)
	assert.Equal(t, 5*time.Minute, c.ExpiryWarningWindow)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "session.db", c.StorePath)
	assert.Equal(t, "info", c.LogLevel)
	require.NoError(t, c.Validate())
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load(context.Background(), nil, envconfig.MapLookuper(nil))

	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"server_base_url":       "http://json:1",
		"auth_scheme":           "basic",
		"expiry_check_interval": "30s",
		"store_path":            "/tmp/json.db",
	})
	env := envconfig.MapLookuper(map[string]string{
		"BANK_SERVER_URL":      "http://env:2",
		"BANK_REQUEST_TIMEOUT": "3s",
		"BANK_LOG_LEVEL":       "debug",
		"SERVER_URL":           "http://unprefixed:3",
	})
	args := []string{"-c", path, "-a", "http://flag:3", "-i", "10"}

	cfg, err := Load(context.Background(), args, env)
	require.NoError(t, err)

	want := &Config{
		ServerBaseURL:       "http://flag:3",
		AuthScheme:          "basic",
		ExpiryCheckInterval: 10 * time.Second,
		ExpiryWarningWindow: 5 * time.Minute,
		RequestTimeout:      3 * time.Second,
		StorePath:           "/tmp/json.db",
		LogLevel:            "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "missing config file", args: []string{"-config", "/does/not/exist.json"}},
		{name: "bad env duration", env: map[string]string{"BANK_REQUEST_TIMEOUT": "soon"}},
		{name: "bad flag value", args: []string{"-i", "abc"}},
		{name: "unknown scheme", args: []string{"-s", "digest"}},
		{name: "bad url", args: []string{"-a", "localhost:8080"}},
		{name: "zero interval", args: []string{"-i", "0"}},
		{name: "bad log level", env: map[string]string{"BANK_LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.args, envconfig.MapLookuper(tt.env))
			require.Error(t, err)
		})
	}
}
