// Package transfer uploads raw bytes to pre-signed storage targets.
// The http provider issues a plain PUT (S3-style pre-signed URLs); the azure provider
// uploads a block blob through an Azure SAS URL.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const maxErrorBody = 512

// System transfers a file's bytes to a single-use upload address.
type System interface {
	// Put uploads data to target with the given content type.
	// Every failure wraps ErrTransferFailed.
	Put(ctx context.Context, target string, data []byte, contentType string) error
}

// New creates the transfer system named by cfg.Provider, sending requests through client.
func New(cfg *Config, client *http.Client, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "transfer", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderHTTP:
		return newHTTP(client, logger), nil
	case ProviderAzure:
		return newAzure(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown transfer provider %q", cfg.Provider)
	}
}

func validateTarget(target string) error {
	if strings.TrimSpace(target) == "" {
		return ErrEmptyTarget
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidTarget
	}
	return nil
}

// Redact strips the query so pre-signed credentials stay out of logs.
func Redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "<invalid>"
	}
	u.RawQuery = ""
	return u.String()
}

func readSnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(data))
}
