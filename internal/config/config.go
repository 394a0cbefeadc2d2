// Package config loads server configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSessionSecret mirrors the development fallback of the original
// deployment. Production configs must override it.
const DefaultSessionSecret = "dev-secret"

// Config is the full server configuration.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen"`
	// DataDir holds the SQLite database. Empty means ~/.modreport.
	DataDir string `yaml:"data_dir"`

	Session SessionConfig `yaml:"session"`
}

// SessionConfig configures the cookie session store.
type SessionConfig struct {
	// Secret signs session cookies.
	Secret string `yaml:"secret"`
	// CookieName is the session cookie name.
	CookieName string `yaml:"cookie_name"`
}

// Default returns a configuration usable out of the box.
func Default() Config {
	return Config{
		Listen: ":8080",
		Session: SessionConfig{
			Secret:     DefaultSessionSecret,
			CookieName: "modreport_session",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "modreport_session"
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = DefaultSessionSecret
	}
	return cfg, nil
}

// UsingDefaultSecret reports whether the cookie secret was never overridden.
func (c Config) UsingDefaultSecret() bool {
	return c.Session.Secret == DefaultSessionSecret
}
