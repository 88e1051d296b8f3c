// Package config loads runtime configuration for the bank terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Environment variables with the BANK_ prefix (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the bank REST API
//	-s string   auth scheme: "bearer" (default) or "basic"
//	-i int      token expiry check interval (seconds)
//	-w int      expiry warning window (seconds)
//	-d string   session store path (":memory:" keeps it in memory)
//	-l string   log level: debug, info, warn, error
//
// # Environment
//
//	BANK_SERVER_URL, BANK_AUTH_SCHEME, BANK_EXPIRY_CHECK_INTERVAL,
//	BANK_EXPIRY_WARNING_WINDOW, BANK_REQUEST_TIMEOUT, BANK_STORE_PATH,
//	BANK_LOG_LEVEL
//
// Durations use time.ParseDuration syntax ("60s", "5m").
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "60s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://localhost:8080",
//	  "auth_scheme": "bearer",
//	  "expiry_check_interval": "60s",
//	  "expiry_warning_window": "5m",
//	  "request_timeout": "15s",
//	  "store_path": "session.db",
//	  "log_level": "info"
//	}
package config
