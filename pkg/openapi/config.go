// Package openapi builds and serves an OpenAPI 3.1 document for the JSON API.
package openapi

import "os"

const (
	defaultTitle       = "Scribe API"
	defaultDescription = "Uploads visit recordings and returns generated SOAP notes."
)

// Config holds the document's info metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides. env may be nil.
func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		override(env.Title, &c.Title)
		override(env.Description, &c.Description)
	}
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func override(key string, dst *string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
