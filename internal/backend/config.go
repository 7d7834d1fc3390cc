package backend

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config locates the presign and invoke endpoints.
type Config struct {
	BaseURL     string `toml:"base_url"`
	PresignPath string `toml:"presign_path"`
	InvokePath  string `toml:"invoke_path"`
	// Timeout bounds each HTTP round-trip; empty or "0s" leaves requests unbounded.
	Timeout string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL     string
	PresignPath string
	InvokePath  string
	Timeout     string
}

// TimeoutDuration returns Timeout as a time.Duration (zero when unset).
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
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
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.PresignPath != "" {
		c.PresignPath = overlay.PresignPath
	}
	if overlay.InvokePath != "" {
		c.InvokePath = overlay.InvokePath
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.PresignPath == "" {
		c.PresignPath = "/presign"
	}
	if c.InvokePath == "" {
		c.InvokePath = "/invoke"
	}
	if c.Timeout == "" {
		c.Timeout = "0s"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(env.BaseURL, &c.BaseURL)
	set(env.PresignPath, &c.PresignPath)
	set(env.InvokePath, &c.InvokePath)
	set(env.Timeout, &c.Timeout)
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	if !strings.HasPrefix(c.PresignPath, "/") {
		return fmt.Errorf("presign_path must start with /: %s", c.PresignPath)
	}
	if !strings.HasPrefix(c.InvokePath, "/") {
		return fmt.Errorf("invoke_path must start with /: %s", c.InvokePath)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d < 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	return nil
}
