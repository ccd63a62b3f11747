package config

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MockServerConfig configures the local fake backend started by the mock-server command.
type MockServerConfig struct {
	Port              int    `mapstructure:"port"`
	Secret            string `mapstructure:"secret"`        // Session cookie signing key
	SessionHours      int    `mapstructure:"session_hours"` // Session lifetime
	BcryptCost        int    `mapstructure:"bcrypt_cost"`
	SeedAdminEmail    string `mapstructure:"seed_admin_email"` // Admin account created at startup when set
	SeedAdminPassword string `mapstructure:"seed_admin_password"`
	// Per-client request rate in requests per second. 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// DefaultMockServerConfig returns the defaults for local runs.
func DefaultMockServerConfig() MockServerConfig {
	return MockServerConfig{
		Port:         5000,
		Secret:       "career-guide-dev-secret",
		SessionHours: 24,
		BcryptCost:   bcrypt.DefaultCost,
		RateLimit:    20,
		RateBurst:    40,
	}
}

// SessionTTL returns the session lifetime as a duration.
func (c MockServerConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionHours) * time.Hour
}

// normalize validates the configuration.
func (c *MockServerConfig) normalize() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'mock.port' out of range: %d", c.Port)
	}
	if c.Secret == "" {
		return fmt.Errorf("config error: 'mock.secret' cannot be empty")
	}
	if c.SessionHours < 1 {
		return fmt.Errorf("config error: 'mock.session_hours' must be at least 1 hour, got: %d", c.SessionHours)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config error: bcrypt cost out of range: %d (must be %d-%d)", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'mock.rate_limit' cannot be negative, got: %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("config error: 'mock.rate_burst' must be at least 1 when rate limiting is enabled, got: %d", c.RateBurst)
	}
	if (c.SeedAdminEmail == "") != (c.SeedAdminPassword == "") {
		return fmt.Errorf("config error: 'mock.seed_admin_email' and 'mock.seed_admin_password' must be set together")
	}
	return nil
}
