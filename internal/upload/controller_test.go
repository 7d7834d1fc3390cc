package upload_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/scribe/internal/backend"
	"github.com/JaimeStill/scribe/internal/backend/backendtest"
	"github.com/JaimeStill/scribe/internal/notes"
	"github.com/JaimeStill/scribe/internal/upload"
	"github.com/JaimeStill/scribe/pkg/transfer"
)

// wavBytes is enough of a RIFF/WAVE header for content sniffing.
func wavBytes() []byte {
	return append([]byte("RIFF\x24\x00\x00\x00WAVEfmt \x10\x00\x00\x00"), make([]byte, 32)...)
}

func visit() upload.File {
	return upload.File{Name: "visit.wav", ContentType: "audio/wav", Data: wavBytes()}
}

func newController(t *testing.T, srv *backendtest.Server, contract string) *upload.Controller {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bcfg := &backend.Config{BaseURL: srv.URL}
	require.NoError(t, bcfg.Finalize(nil))

	tcfg := &transfer.Config{}
	require.NoError(t, tcfg.Finalize(nil))
	store, err := transfer.New(tcfg, srv.Client(), logger)
	require.NoError(t, err)

	ucfg := &upload.Config{Contract: contract}
	require.NoError(t, ucfg.Finalize(nil))

	return upload.New(ucfg, backend.New(bcfg, srv.Client(), logger), store, logger)
}

func TestSubmitSuccess(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	ctl := newController(t, srv, "")

	completed := testutil.ToFloat64(upload.AttemptsTotal("completed"))

	result, err := ctl.Submit(context.Background(), visit())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /presign",
		"PUT /upload/visit.wav",
		"POST /invoke",
	}, srv.Sequence())

	calls := srv.Calls()
	assert.Equal(t, "visit.wav", calls[0].Query.Get("fileName"))
	assert.Equal(t, "audio/wav", calls[1].Header.Get("Content-Type"))
	assert.Equal(t, wavBytes(), calls[1].Body)
	assert.JSONEq(t, `{"audioFile":"visit.wav"}`, string(calls[2].Body))

	assert.Equal(t, upload.StateCompleted, ctl.State())
	assert.False(t, ctl.Busy())

	view := notes.Present(result)
	assert.Equal(t, notes.ModeNote, view.Mode)
	assert.NotEmpty(t, view.Transcript)
	assert.NotEmpty(t, view.SOAPNote)
	assert.Equal(t, srv.NoteURL("visit.wav"), view.DownloadURL)

	snap := ctl.Snapshot()
	assert.Equal(t, upload.StateCompleted, snap.State)
	assert.NotEmpty(t, snap.Attempt)
	assert.Equal(t, result, snap.Result)
	assert.Empty(t, snap.Error)
	require.NotNil(t, snap.File)
	assert.Equal(t, "visit.wav", snap.File.Name)

	assert.Equal(t, completed+1, testutil.ToFloat64(upload.AttemptsTotal("completed")))
}

func TestSubmitWhileInProgress(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	ctl := newController(t, srv, "")

	entered, release := srv.HoldInvoke()
	defer release()

	done := make(chan error, 1)
	go func() {
		_, err := ctl.Submit(context.Background(), visit())
		done <- err
	}()

	<-entered
	assert.True(t, ctl.Busy())
	assert.Equal(t, upload.StateInProgress, ctl.State())

	_, err := ctl.Submit(context.Background(), visit())
	assert.ErrorIs(t, err, upload.ErrInProgress)
	assert.ErrorIs(t, ctl.Select(visit()), upload.ErrInProgress)
	assert.Len(t, srv.Calls(), 3)

	release()
	require.NoError(t, <-done)

	assert.Len(t, srv.Calls(), 3)
	assert.Equal(t, upload.StateCompleted, ctl.State())
}

func TestSubmitPresignFailure(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetPresign(http.StatusInternalServerError, `{"error":"signing key unavailable"}`)
	ctl := newController(t, srv, "")

	result, err := ctl.Submit(context.Background(), visit())
	require.Error(t, err)
	assert.Nil(t, result)

	assert.ErrorIs(t, err, upload.ErrWorkflowFailed)
	assert.ErrorIs(t, err, backend.ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "upload failed: ")
	assert.Contains(t, err.Error(), "signing key unavailable")

	var f *upload.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, upload.StepPresign, f.Step)
	assert.False(t, f.Orphaned())

	assert.Equal(t, []string{"GET /presign"}, srv.Sequence())
	assert.Equal(t, upload.StateFailed, ctl.State())
	assert.Equal(t, err.Error(), ctl.Snapshot().Error)
}

func TestSubmitTransferFailureOrphansTarget(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetUpload(http.StatusForbidden, "AccessDenied")
	ctl := newController(t, srv, "")

	_, err := ctl.Submit(context.Background(), visit())
	require.Error(t, err)
	assert.ErrorIs(t, err, transfer.ErrTransferFailed)

	var f *upload.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, upload.StepTransfer, f.Step)
	assert.True(t, f.Orphaned())
	assert.Equal(t, srv.UploadURL("visit.wav"), f.Target)

	assert.Equal(t, []string{"GET /presign", "PUT /upload/visit.wav"}, srv.Sequence())
	assert.Equal(t, upload.StateFailed, ctl.State())
}

func TestSubmitInvokeFailure(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetInvoke(http.StatusInternalServerError, `{"error":"Transcription timed out"}`)
	ctl := newController(t, srv, "")

	_, err := ctl.Submit(context.Background(), visit())
	require.ErrorIs(t, err, upload.ErrWorkflowFailed)
	assert.Contains(t, err.Error(), "Transcription timed out")

	var f *upload.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, upload.StepInvoke, f.Step)
	assert.False(t, f.Orphaned())
}

func TestSubmitUnrecognizedResult(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetInvoke(http.StatusOK, `{"status":"queued"}`)
	ctl := newController(t, srv, "")

	_, err := ctl.Submit(context.Background(), visit())
	require.ErrorIs(t, err, upload.ErrWorkflowFailed)
	assert.ErrorIs(t, err, notes.ErrUnrecognizedResult)
	assert.Equal(t, upload.StateFailed, ctl.State())
}

func TestSubmitOnlySOAPNote(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetInvoke(http.StatusOK, `{"soapNote":"P: Rest and fluids."}`)
	ctl := newController(t, srv, "")

	result, err := ctl.Submit(context.Background(), visit())
	require.NoError(t, err)

	view := notes.Present(result)
	assert.Equal(t, "P: Rest and fluids.", view.SOAPNote)
	assert.Empty(t, view.Transcript)
	assert.Empty(t, view.DownloadURL)
}

func TestSubmitDocumentContract(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetInvoke(http.StatusOK, `{"noteLocation":"https://bucket.s3.amazonaws.com/notes/visit.pdf"}`)
	ctl := newController(t, srv, "document")

	result, err := ctl.Submit(context.Background(), visit())
	require.NoError(t, err)

	view := notes.Present(result)
	assert.Equal(t, notes.ModeDocument, view.Mode)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/notes/visit.pdf", view.EmbedURL)
}

func TestSubmitDocumentContractRejectsStructured(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetInvoke(http.StatusOK, `{"transcript":"t","soapNote":"s"}`)
	ctl := newController(t, srv, "document")

	_, err := ctl.Submit(context.Background(), visit())
	assert.ErrorIs(t, err, notes.ErrUnrecognizedResult)
}

func TestSubmitRejectsInvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		file    upload.File
		wantErr error
	}{
		{"no name", upload.File{ContentType: "audio/wav", Data: wavBytes()}, upload.ErrInvalidFile},
		{"no data", upload.File{Name: "visit.wav", ContentType: "audio/wav"}, upload.ErrInvalidFile},
		{"mp3", upload.File{Name: "visit.mp3", ContentType: "audio/mpeg", Data: []byte("ID3")}, upload.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backendtest.New()
			defer srv.Close()
			ctl := newController(t, srv, "")

			_, err := ctl.Submit(context.Background(), tt.file)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, upload.ErrWorkflowFailed)
			assert.Empty(t, srv.Calls())
			assert.Equal(t, upload.StateIdle, ctl.State())
		})
	}
}

func TestSubmitIgnoresCallerCancellation(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	ctl := newController(t, srv, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ctl.Submit(ctx, visit())
	require.NoError(t, err)
	assert.Equal(t, upload.StateCompleted, ctl.State())
}

func TestSelectResetsSession(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	srv.SetPresign(http.StatusInternalServerError, "down")
	ctl := newController(t, srv, "")

	_, err := ctl.Submit(context.Background(), visit())
	require.Error(t, err)
	require.Equal(t, upload.StateFailed, ctl.State())

	next := upload.File{Name: "followup.wav", Data: wavBytes()}
	require.NoError(t, ctl.Select(next))

	snap := ctl.Snapshot()
	assert.Equal(t, upload.StateIdle, snap.State)
	assert.Empty(t, snap.Error)
	assert.Empty(t, snap.Attempt)
	assert.Nil(t, snap.Result)
	require.NotNil(t, snap.File)
	assert.Equal(t, "followup.wav", snap.File.Name)
	assert.Equal(t, "audio/wav", snap.File.ContentType)

	srv.SetPresign(http.StatusOK, `{"url":"`+srv.UploadURL("followup.wav")+`"}`)
	_, err = ctl.SubmitSelected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, upload.StateCompleted, ctl.State())

	uploaded, ok := srv.Uploaded("followup.wav")
	require.True(t, ok)
	assert.Equal(t, wavBytes(), uploaded)
}

func TestSubmitSelectedWithoutSelection(t *testing.T) {
	srv := backendtest.New()
	defer srv.Close()
	ctl := newController(t, srv, "")

	_, err := ctl.SubmitSelected(context.Background())
	assert.ErrorIs(t, err, upload.ErrInvalidFile)
	assert.Empty(t, srv.Calls())
}
