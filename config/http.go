package config

import "fmt"

// HTTPConfig defines the API listener.
type HTTPConfig struct {
	// Addr is the listen address. Empty disables the HTTP API.
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on every route but health.
	Token           string `json:"token"`
	ShutdownTimeout int    `json:"shutdown_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5
	}
}

// Validate checks the listener settings.
func (c HTTPConfig) Validate() error {
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("http.shutdown_timeout_seconds must not be negative")
	}
	return nil
}
