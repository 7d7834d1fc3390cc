// Package upload runs the upload-and-retrieve workflow: request a pre-signed target,
// transfer the audio bytes to it, then trigger processing and decode the note.
package upload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/scribe/internal/notes"
	"github.com/JaimeStill/scribe/pkg/transfer"
)

// Backend is the pair of calls the workflow makes against the processing service.
type Backend interface {
	Presign(ctx context.Context, fileName string) (string, error)
	Invoke(ctx context.Context, fileName string) ([]byte, error)
}

// FileInfo describes a file without its content.
type FileInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// Snapshot is a read-only copy of controller state.
type Snapshot struct {
	State   State         `json:"state"`
	File    *FileInfo     `json:"file,omitempty"`
	Attempt string        `json:"attempt,omitempty"`
	Result  *notes.Result `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Controller owns one upload session. At most one attempt runs at a time.
type Controller struct {
	backend  Backend
	transfer transfer.System
	contract notes.Contract
	filter   Filter
	logger   *slog.Logger

	sem *semaphore.Weighted

	mu      sync.Mutex
	state   State
	file    *File
	info    *FileInfo
	attempt uuid.UUID
	result  *notes.Result
	err     error
}

// New creates a Controller for a finalized Config.
func New(cfg *Config, backend Backend, store transfer.System, logger *slog.Logger) *Controller {
	return &Controller{
		backend:  backend,
		transfer: store,
		contract: cfg.ResultContract(),
		filter:   NewFilter(cfg.Accept),
		logger:   logger.With("system", "upload"),
		sem:      semaphore.NewWeighted(1),
	}
}

// Handler creates the JSON API handler bound to this controller.
func (c *Controller) Handler(maxUploadSize int64) *Handler {
	return NewHandler(c, c.logger, maxUploadSize)
}

// Filter returns the media type filter applied to every file.
func (c *Controller) Filter() Filter {
	return c.filter
}

// Select records file as the current selection and resets the session to idle,
// clearing any previous result or error.
func (c *Controller) Select(file File) error {
	checked, err := c.filter.Check(file)
	if err != nil {
		return err
	}

	if !c.sem.TryAcquire(1) {
		return ErrInProgress
	}
	defer c.sem.Release(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateIdle
	c.file = &checked
	c.info = infoOf(checked)
	c.attempt = uuid.Nil
	c.result = nil
	c.err = nil

	return nil
}

// SubmitSelected submits the file recorded by Select.
func (c *Controller) SubmitSelected(ctx context.Context) (*notes.Result, error) {
	c.mu.Lock()
	file := c.file
	c.mu.Unlock()

	if file == nil {
		return nil, fmt.Errorf("%w: no file selected", ErrInvalidFile)
	}
	return c.Submit(ctx, *file)
}

// Submit runs one attempt for file and returns its result.
// Invalid files and concurrent submissions are rejected before any network call.
// Once started, the attempt is not cancelled by ctx.
func (c *Controller) Submit(ctx context.Context, file File) (*notes.Result, error) {
	checked, err := c.filter.Check(file)
	if err != nil {
		recordAttempt("rejected")
		return nil, err
	}

	if !c.sem.TryAcquire(1) {
		recordAttempt("rejected")
		return nil, ErrInProgress
	}
	defer c.sem.Release(1)

	attempt := uuid.New()

	c.mu.Lock()
	c.state = StateInProgress
	c.file = &checked
	c.info = infoOf(checked)
	c.attempt = attempt
	c.result = nil
	c.err = nil
	c.mu.Unlock()

	logger := c.logger.With("attempt", attempt, "file", checked.Name)
	logger.InfoContext(ctx, "upload started", "content_type", checked.ContentType, "size", checked.Size())

	start := time.Now()
	result, err := c.run(context.WithoutCancel(ctx), checked)

	c.mu.Lock()
	c.file = nil
	if err != nil {
		c.state = StateFailed
		c.err = err
	} else {
		c.state = StateCompleted
		c.result = result
	}
	c.mu.Unlock()

	if err != nil {
		recordAttempt("failed")
		c.logFailure(logger, err)
		return nil, err
	}

	recordAttempt("completed")
	logger.InfoContext(ctx, "upload completed",
		"contract", result.Contract,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether an attempt is outstanding.
func (c *Controller) Busy() bool {
	return c.State() == StateInProgress
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{State: c.state}
	if c.info != nil {
		info := *c.info
		s.File = &info
	}
	if c.attempt != uuid.Nil {
		s.Attempt = c.attempt.String()
	}
	if c.result != nil {
		result := *c.result
		s.Result = &result
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}

func (c *Controller) run(ctx context.Context, file File) (*notes.Result, error) {
	var target string
	err := timed(StepPresign, func() (err error) {
		target, err = c.backend.Presign(ctx, file.Name)
		return err
	})
	if err != nil {
		return nil, &Failure{Step: StepPresign, Err: err}
	}

	err = timed(StepTransfer, func() error {
		return c.transfer.Put(ctx, target, file.Data, file.ContentType)
	})
	if err != nil {
		return nil, &Failure{Step: StepTransfer, Target: target, Err: err}
	}

	var body []byte
	err = timed(StepInvoke, func() (err error) {
		body, err = c.backend.Invoke(ctx, file.Name)
		return err
	})
	if err != nil {
		return nil, &Failure{Step: StepInvoke, Target: target, Err: err}
	}

	result, err := notes.Decode(body, c.contract)
	if err != nil {
		return nil, &Failure{Step: StepInvoke, Target: target, Err: err}
	}
	return result, nil
}

func (c *Controller) logFailure(logger *slog.Logger, err error) {
	f, ok := err.(*Failure)
	if !ok {
		logger.Error("upload failed", "error", err)
		return
	}

	logger.Error("upload failed", "step", f.Step, "error", f.Err)
	if f.Orphaned() {
		logger.Warn("upload target issued but never written", "target", transfer.Redact(f.Target))
	}
}

func timed(step Step, fn func() error) error {
	start := time.Now()
	err := fn()
	observeStep(step, time.Since(start).Seconds())
	return err
}

func infoOf(f File) *FileInfo {
	return &FileInfo{Name: f.Name, ContentType: f.ContentType, Size: f.Size()}
}
