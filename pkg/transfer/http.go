package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type httpPut struct {
	client *http.Client
	logger *slog.Logger
}

func newHTTP(client *http.Client, logger *slog.Logger) *httpPut {
	return &httpPut{client: client, logger: logger}
}

func (h *httpPut) Put(ctx context.Context, target string, data []byte, contentType string) error {
	if err := validateTarget(target); err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrTransferFailed, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Body: readSnippet(resp.Body)}
	}
	io.Copy(io.Discard, resp.Body)

	h.logger.DebugContext(
		ctx, "transfer complete",
		"target", Redact(target),
		"bytes", len(data),
		"status", resp.StatusCode,
	)
	return nil
}
