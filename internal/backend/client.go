// Package backend calls the note-generation backend: the presign endpoint that issues
// single-use upload targets and the invoke endpoint that produces the clinical note.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const maxErrorBody = 4 << 10

var maxResultBody int64 = 16 << 20

// Client issues presign and invoke requests against a single base URL.
type Client struct {
	base        string
	presignPath string
	invokePath  string
	http        *http.Client
	logger      *slog.Logger
}

type presignResponse struct {
	URL string `json:"url"`
}

type invokeRequest struct {
	AudioFile string `json:"audioFile"`
}

// New creates a Client for a finalized Config.
func New(cfg *Config, client *http.Client, logger *slog.Logger) *Client {
	return &Client{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		presignPath: cfg.PresignPath,
		invokePath:  cfg.InvokePath,
		http:        client,
		logger:      logger.With("system", "backend"),
	}
}

// Presign requests a single-use upload address for fileName.
func (c *Client) Presign(ctx context.Context, fileName string) (string, error) {
	endpoint := c.base + c.presignPath + "?" + url.Values{"fileName": {fileName}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("presign: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "presign")
	if err != nil {
		return "", err
	}

	var p presignResponse
	if err := json.Unmarshal(body, &p); err != nil {
		return "", fmt.Errorf("presign: %w: %w", ErrBadResponse, err)
	}

	target, err := url.Parse(p.URL)
	if p.URL == "" || err != nil || target.Host == "" || (target.Scheme != "http" && target.Scheme != "https") {
		return "", fmt.Errorf("presign: %w: missing or invalid url", ErrBadResponse)
	}

	c.logger.DebugContext(ctx, "upload target issued", "file", fileName, "host", target.Host)
	return p.URL, nil
}

// Invoke triggers processing of the uploaded fileName and returns the raw result body.
// Interpreting the body is left to the caller.
func (c *Client) Invoke(ctx context.Context, fileName string) ([]byte, error) {
	payload, err := json.Marshal(invokeRequest{AudioFile: fileName})
	if err != nil {
		return nil, fmt.Errorf("invoke: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+c.invokePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("invoke: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, "invoke")
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "processing complete", "file", fileName, "bytes", len(body))
	return body, nil
}

func (c *Client) do(req *http.Request, operation string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ResponseError{
			Operation: operation,
			Status:    resp.StatusCode,
			Message:   errorMessage(data),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBody+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", operation, err)
	}
	if int64(len(body)) > maxResultBody {
		return nil, fmt.Errorf("%s: %w: body exceeds %d bytes", operation, ErrBadResponse, maxResultBody)
	}
	return body, nil
}

// errorMessage prefers the backend's "error" field, then "message", then the raw text.
func errorMessage(data []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(data))
}
