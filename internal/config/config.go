// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New(...) to build a Config with defaults; Load layers a TOML
//   file and environment variables on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"net/url"
)

// Default values applied before the file and environment are layered in.
const (
	defaultLogLevel = "info"
	defaultTimeoutS = 30
)

// Config contains the full process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// HTTPServer configures the inbound listener.
	HTTPServer HTTPServerConfig `koanf:"http_server"`

	// IcingaAPI configures the upstream monitoring backend.
	IcingaAPI IcingaAPIConfig `koanf:"icinga_api"`
}

// HTTPServerConfig configures the dashboard's own HTTP server.
type HTTPServerConfig struct {
	// ListenSocketAddress is the host:port to listen on, e.g. "127.0.0.1:8080".
	ListenSocketAddress string `koanf:"listen_socket_address"`
}

// IcingaAPIConfig configures access to the monitoring backend's REST API.
type IcingaAPIConfig struct {
	// BaseURL is the API root, e.g. "https://icinga.example.com:5665/v1/".
	// Object paths are resolved against it, so a trailing slash matters.
	BaseURL string `koanf:"base_url"`

	// Username and Password are sent as HTTP Basic auth on every upstream call.
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// TimeoutS bounds every upstream exchange, in seconds.
	TimeoutS int `koanf:"timeout_s"`

	// AllowInvalidCerts disables TLS certificate verification for the
	// upstream client. Useful against Icinga's default self-signed setup.
	AllowInvalidCerts bool `koanf:"allow_invalid_certs"`
}

// New creates a Config holding only defaults. Context is accepted first to
// satisfy the project-wide convention; it is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel: defaultLogLevel,
		IcingaAPI: IcingaAPIConfig{
			TimeoutS: defaultTimeoutS,
		},
	}
}

// Validate checks the invariants a loaded configuration must satisfy.
// A failing configuration is fatal at startup; the process never runs
// degraded.
func (c *Config) Validate() error {
	if c.HTTPServer.ListenSocketAddress == "" {
		return fmt.Errorf("%w: http_server.listen_socket_address must not be empty", ErrInvalidConfig)
	}
	if c.IcingaAPI.BaseURL == "" {
		return fmt.Errorf("%w: icinga_api.base_url must not be empty", ErrInvalidConfig)
	}
	if _, err := url.Parse(c.IcingaAPI.BaseURL); err != nil {
		return fmt.Errorf("%w: icinga_api.base_url: %v", ErrInvalidConfig, err)
	}
	if c.IcingaAPI.TimeoutS <= 0 {
		return fmt.Errorf("%w: icinga_api.timeout_s must be positive", ErrInvalidConfig)
	}
	return nil
}
