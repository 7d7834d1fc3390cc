// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies the upload workflow requires: logging, the outbound
// HTTP client, the backend client and the transfer system.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/JaimeStill/scribe/internal/backend"
	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/pkg/httpx"
	"github.com/JaimeStill/scribe/pkg/lifecycle"
	"github.com/JaimeStill/scribe/pkg/transfer"
)

// Infrastructure holds the core systems shared by the server and CLI.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	HTTP      *http.Client
	Backend   *backend.Client
	Transfer  transfer.System
}

// New creates an Infrastructure from the application configuration, logging to stderr.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, NewLogger(&cfg.Log, os.Stderr))
}

// NewWithLogger creates an Infrastructure that logs through logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	client := httpx.NewClient(cfg.Backend.TimeoutDuration())

	store, err := transfer.New(&cfg.Transfer, client, logger)
	if err != nil {
		return nil, fmt.Errorf("transfer init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(logger),
		Logger:    logger,
		HTTP:      client,
		Backend:   backend.New(&cfg.Backend, client, logger),
		Transfer:  store,
	}, nil
}

// NewLogger builds the slog logger described by cfg.
func NewLogger(cfg *config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers infrastructure hooks with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnShutdown("http-client", func() {
		i.HTTP.CloseIdleConnections()
	})
	return nil
}
