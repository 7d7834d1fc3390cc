package transfer

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Provider names accepted by Config.Provider.
const (
	ProviderHTTP  = "http"
	ProviderAzure = "azure"
)

var providers = []string{ProviderHTTP, ProviderAzure}

// Config selects how bytes reach a pre-signed target.
type Config struct {
	Provider string `toml:"provider"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderHTTP
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
}

func (c *Config) validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("unknown provider %q (want one of %s)", c.Provider, strings.Join(providers, ", "))
	}
	return nil
}
