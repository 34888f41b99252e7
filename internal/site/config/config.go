package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// DefaultImagePattern is the only remote image location allowed out of the box.
const DefaultImagePattern = "https://raw.githubusercontent.com/imtusharrai/heart2heart/main/public/**"

// Config holds settings for the public site pages.
type Config struct {
	BaseURL        string        `env:"SITE_BASE_URL" envDefault:"http://localhost:3000"`
	FetchTimeout   time.Duration `env:"SITE_FETCH_TIMEOUT" envDefault:"5s"`
	RemotePatterns []string      `env:"IMAGE_REMOTE_PATTERNS" envSeparator:"," envDefault:"https://raw.githubusercontent.com/imtusharrai/heart2heart/main/public/**"`
	PageMaxAge     time.Duration `env:"SITE_PAGE_MAX_AGE" envDefault:"900s"`
}

// LoadConfig reads the site configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load site configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate trims the base URL and fills unset durations.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("SITE_BASE_URL must be an absolute URL")
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 5 * time.Second
	}
	if c.PageMaxAge <= 0 {
		c.PageMaxAge = 900 * time.Second
	}
	return nil
}

// DefaultConfig returns the configuration used when the environment sets nothing.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:3000",
		FetchTimeout:   5 * time.Second,
		RemotePatterns: []string{DefaultImagePattern},
		PageMaxAge:     900 * time.Second,
	}
}
