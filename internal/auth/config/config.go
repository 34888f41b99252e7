package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the single-admin authentication settings.
type Config struct {
	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// JWT
	JWTSecretKey   string        `env:"JWT_SECRET_KEY"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"welfare-cms"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"12h"`

	// Cookie
	CookieName     string `env:"AUTH_COOKIE_NAME" envDefault:"welfare_admin"`
	CookiePath     string `env:"AUTH_COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"AUTH_COOKIE_DOMAIN"`
	CookieSecure   bool   `env:"AUTH_COOKIE_SECURE" envDefault:"false"`
	CookieSameSite string `env:"AUTH_COOKIE_SAME_SITE" envDefault:"Lax"`

	// Failed login attempts allowed per IP inside LoginWindow.
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"1m"`
}

// LoadConfig reads the auth configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Enabled reports whether both the signing secret and the admin password hash
// are set. Without them the API runs in open development mode.
func (c *Config) Enabled() bool {
	return c.JWTSecretKey != "" && c.AdminPasswordHash != ""
}

// Validate normalises and checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AdminUsername) == "" {
		return errors.New("admin_username cannot be empty")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access_token_ttl must be positive")
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "welfare-cms"
	}
	if c.CookieName == "" {
		c.CookieName = "welfare_admin"
	}
	if c.LoginMaxAttempts <= 0 {
		c.LoginMaxAttempts = 5
	}
	if c.LoginWindow <= 0 {
		c.LoginWindow = time.Minute
	}

	switch strings.ToLower(c.CookieSameSite) {
	case "lax", "":
		c.CookieSameSite = "Lax"
	case "strict":
		c.CookieSameSite = "Strict"
	case "none":
		c.CookieSameSite = "None"
	default:
		return errors.New("auth_cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}
	return nil
}
