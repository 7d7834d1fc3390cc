package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/scribe/internal/backend"
	"github.com/JaimeStill/scribe/internal/backend/backendtest"
)

func newClient(t *testing.T, srv *backendtest.Server) *backend.Client {
	t.Helper()
	cfg := &backend.Config{BaseURL: srv.URL + "/"}
	require.NoError(t, cfg.Finalize(nil))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return backend.New(cfg, srv.Client(), logger)
}

func TestPresign(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()

	target, err := newClient(t, srv).Presign(context.Background(), "visit one.wav")
	require.NoError(t, err)
	assert.Equal(t, srv.UploadURL("visit one.wav"), target)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "GET /presign", calls[0].String())
	assert.Equal(t, "visit one.wav", calls[0].Query.Get("fileName"))
}

func TestPresignErrorStatus(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetPresign(http.StatusInternalServerError, `{"error":"signing key unavailable"}`)

	_, err := newClient(t, srv).Presign(context.Background(), "visit.wav")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrUnexpectedStatus)

	var re *backend.ResponseError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "presign", re.Operation)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.Equal(t, "signing key unavailable", re.Message)
	assert.Equal(t, "presign: HTTP 500 Internal Server Error: signing key unavailable", err.Error())
}

func TestPresignPlainTextError(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetPresign(http.StatusBadGateway, "upstream down\n")

	_, err := newClient(t, srv).Presign(context.Background(), "visit.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestPresignBadResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"missing url", `{}`},
		{"relative url", `{"url":"/upload/visit.wav"}`},
		{"unsupported scheme", `{"url":"ftp://storage.example/visit.wav"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backendtest.New()
			defer srv.Close()
			srv.SetPresign(http.StatusOK, tt.body)

			_, err := newClient(t, srv).Presign(context.Background(), "visit.wav")
			assert.ErrorIs(t, err, backend.ErrBadResponse)
		})
	}
}

func TestInvoke(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()

	body, err := newClient(t, srv).Invoke(context.Background(), "visit.wav")
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, srv.NoteURL("visit.wav"), result["noteLocation"])

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST /invoke", calls[0].String())
	assert.Equal(t, "application/json", calls[0].Header.Get("Content-Type"))
	assert.JSONEq(t, `{"audioFile":"visit.wav"}`, string(calls[0].Body))
}

func TestInvokeErrorStatus(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetInvoke(http.StatusServiceUnavailable, `{"error":"transcriber busy"}`)

	_, err := newClient(t, srv).Invoke(context.Background(), "visit.wav")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "invoke: HTTP 503")
	assert.Contains(t, err.Error(), "transcriber busy")
}

func TestInvokeTransportError(t *testing.T) {
	srv := backendtest.New()
	client := newClient(t, srv)
	srv.Close()

	_, err := client.Invoke(context.Background(), "visit.wav")
	require.Error(t, err)
	assert.NotErrorIs(t, err, backend.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "invoke:")
}

func TestInvokeOversizedBody(t *testing.T) {
	backend.SetMaxResultBody(t, 16)

	srv := backendtest.New()
	defer srv.Close()
	srv.SetInvoke(http.StatusOK, `{"transcript":"far too long for the limit"}`)

	_, err := newClient(t, srv).Invoke(context.Background(), "visit.wav")
	require.ErrorIs(t, err, backend.ErrBadResponse)
	assert.Contains(t, err.Error(), "invoke:")
	assert.Contains(t, err.Error(), "body exceeds 16 bytes")
}

func TestErrorMessageField(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"transcriber busy"}`, "transcriber busy"},
		{"message field", `{"message":"Internal server error"}`, "Internal server error"},
		{"error preferred", `{"error":"quota exceeded","message":"Forbidden"}`, "quota exceeded"},
		{"raw text", "gateway timeout\n", "gateway timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backendtest.New()
			defer srv.Close()
			srv.SetInvoke(http.StatusBadGateway, tt.body)

			_, err := newClient(t, srv).Invoke(context.Background(), "visit.wav")
			var re *backend.ResponseError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.want, re.Message)
		})
	}
}
