package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"sitearchive/internal/domain"
)

// ErrDispatcherClosed is returned for sends attempted after Wait has been called.
var ErrDispatcherClosed = errors.New("welcome dispatcher closed")

// WelcomeDispatcher is a domain.EmailService that hands each welcome mail to a
// background goroutine and returns at once, so a capture costs the same whether or
// not a mail goes out. Wait drains the in-flight sends on shutdown.
type WelcomeDispatcher struct {
	inner   domain.EmailService
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewWelcomeDispatcher wraps inner. Each send gets its own deadline of timeout,
// detached from the request that triggered it.
func NewWelcomeDispatcher(inner domain.EmailService, timeout time.Duration, logger *slog.Logger) *WelcomeDispatcher {
	return &WelcomeDispatcher{inner: inner, timeout: timeout, logger: logger}
}

func (d *WelcomeDispatcher) SendArchiveWelcome(ctx context.Context, data *domain.ArchiveWelcomeEmailData) error {
	if data == nil {
		return errors.New("archive welcome data is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	msg := *data
	sendCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(sendCtx, d.timeout)
		defer cancel()
		if err := d.inner.SendArchiveWelcome(ctx, &msg); err != nil {
			d.logger.WarnContext(ctx, "archive welcome email failed", "err", err)
		}
	}()
	return nil
}

// Wait stops accepting sends and blocks until the in-flight ones finish or ctx is
// done.
func (d *WelcomeDispatcher) Wait(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
