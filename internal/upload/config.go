package upload

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/scribe/internal/notes"
)

// Config controls which files are accepted and which result contract is enforced.
type Config struct {
	Contract string   `toml:"contract"`
	Accept   []string `toml:"accept"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Contract string
	// Accept names a comma-separated list.
	Accept string
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
	if overlay.Contract != "" {
		c.Contract = overlay.Contract
	}
	if len(overlay.Accept) > 0 {
		c.Accept = overlay.Accept
	}
}

// ResultContract returns the validated contract.
func (c *Config) ResultContract() notes.Contract {
	contract, _ := notes.ParseContract(c.Contract)
	return contract
}

func (c *Config) loadDefaults() {
	if c.Contract == "" {
		c.Contract = string(notes.ContractStructured)
	}
	if len(c.Accept) == 0 {
		c.Accept = []string{DefaultMediaType}
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Contract != "" {
		if v := os.Getenv(env.Contract); v != "" {
			c.Contract = v
		}
	}
	if env.Accept != "" {
		if v := os.Getenv(env.Accept); v != "" {
			var accept []string
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					accept = append(accept, s)
				}
			}
			c.Accept = accept
		}
	}
}

func (c *Config) validate() error {
	contract, err := notes.ParseContract(c.Contract)
	if err != nil {
		return err
	}
	c.Contract = string(contract)

	for _, a := range c.Accept {
		if !strings.Contains(a, "/") {
			return fmt.Errorf("invalid accept media type: %q", a)
		}
	}
	return nil
}
