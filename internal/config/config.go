// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the portfolio server configuration.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	DBPath        string        `env:"PORTFOLIO_DB" envDefault:"data/portfolio.db"`
	ContentPath   string        `env:"PORTFOLIO_CONTENT"`
	PublicDir     string        `env:"PORTFOLIO_PUBLIC_DIR" envDefault:"public"`
	TemplatesGlob string        `env:"PORTFOLIO_TEMPLATES" envDefault:"templates/*"`
	SessionIdle   time.Duration `env:"PORTFOLIO_SESSION_IDLE" envDefault:"30m"`
	TrackVisitors bool          `env:"PORTFOLIO_TRACK_VISITORS" envDefault:"true"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given environment map instead of the process
// environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalid)
	}
	if c.SessionIdle <= 0 {
		return fmt.Errorf("%w: PORTFOLIO_SESSION_IDLE must be positive", ErrInvalid)
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return fmt.Errorf("%w: ADMIN_USERNAME and ADMIN_PASSWORD must be set together", ErrInvalid)
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// AdminConfigured reports whether explicit admin credentials were given.
func (c Config) AdminConfigured() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}
