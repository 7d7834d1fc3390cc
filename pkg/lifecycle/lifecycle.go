// Package lifecycle coordinates named startup and shutdown hooks for a process.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs startup hooks concurrently, tracks readiness, and runs shutdown
// hooks once its context is cancelled.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu         sync.RWMutex
	ready      bool
	startupErr error
}

// New creates a Coordinator with a cancellable context.
func New(logger *slog.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("system", "lifecycle"),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently. A returned error fails WaitForStartup.
func (c *Coordinator) OnStartup(name string, fn func() error) {
	c.startupWg.Go(func() {
		if err := fn(); err != nil {
			c.logger.Error("startup hook failed", "hook", name, "error", err)
			c.mu.Lock()
			c.startupErr = errors.Join(c.startupErr, fmt.Errorf("%s: %w", name, err))
			c.mu.Unlock()
			return
		}
		c.logger.Debug("startup hook complete", "hook", name)
	})
}

// OnShutdown registers fn to run after the context is cancelled.
func (c *Coordinator) OnShutdown(name string, fn func()) {
	c.shutdownWg.Go(func() {
		<-c.ctx.Done()
		fn()
		c.logger.Debug("shutdown hook complete", "hook", name)
	})
}

// Ready returns true once every startup hook has succeeded.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until all startup hooks have returned. The coordinator
// becomes ready only when none failed.
func (c *Coordinator) WaitForStartup() error {
	c.startupWg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startupErr != nil {
		return c.startupErr
	}
	c.ready = true
	return nil
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
