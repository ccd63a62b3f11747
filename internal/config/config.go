// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g. CAREER_GUIDE_BASE_URL.
const EnvPrefix = "CAREER_GUIDE"

// Config represents the CLI configuration. Values come from defaults, an optional config
// file (JSON or YAML) and CAREER_GUIDE_* environment variables, in increasing precedence.
type Config struct {
	// Backend
	BaseURL           string        `mapstructure:"base_url"`           // Backend address including the /api base path
	Timeout           time.Duration `mapstructure:"timeout"`            // HTTP timeout; 0 disables it
	ValidateResponses bool          `mapstructure:"validate_responses"` // Check payloads against the embedded schemas

	// Credentials
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`

	// Behavior
	AllowUnanswered bool   `mapstructure:"allow_unanswered"` // Let the quiz advance past unanswered questions
	LogLevel        string `mapstructure:"log_level"`        // debug, info, warn or error
	LogFile         string `mapstructure:"log_file"`         // Rotating JSON log file; empty disables it

	Mock MockServerConfig `mapstructure:"mock"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:           "http://localhost:5000/api",
		Timeout:           30 * time.Second,
		ValidateResponses: true,
		LogLevel:          "warn",
		Mock:              DefaultMockServerConfig(),
	}
}

// Load reads the configuration. path may be empty, in which case only defaults and the
// environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("validate_responses", d.ValidateResponses)
	v.SetDefault("email", d.Email)
	v.SetDefault("password", d.Password)
	v.SetDefault("allow_unanswered", d.AllowUnanswered)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("mock.port", d.Mock.Port)
	v.SetDefault("mock.secret", d.Mock.Secret)
	v.SetDefault("mock.session_hours", d.Mock.SessionHours)
	v.SetDefault("mock.bcrypt_cost", d.Mock.BcryptCost)
	v.SetDefault("mock.seed_admin_email", d.Mock.SeedAdminEmail)
	v.SetDefault("mock.seed_admin_password", d.Mock.SeedAdminPassword)
	v.SetDefault("mock.rate_limit", d.Mock.RateLimit)
	v.SetDefault("mock.rate_burst", d.Mock.RateBurst)
}

// Validate checks that the configuration has valid values.
// Credentials are not required here; commands that need them check after merging flags.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config error: 'base_url' must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: invalid 'log_level' %q", c.LogLevel)
	}
	return c.Mock.normalize()
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Email == "" {
		result.Email = defaults.Email
	}
	if result.Password == "" {
		result.Password = defaults.Password
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Mock == (MockServerConfig{}) {
		result.Mock = defaults.Mock
	}

	// Bool fields: cannot distinguish unset from false, so a true on either side wins
	result.ValidateResponses = result.ValidateResponses || defaults.ValidateResponses
	result.AllowUnanswered = result.AllowUnanswered || defaults.AllowUnanswered

	return result
}
