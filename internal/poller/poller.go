// Package poller drives the fulfillment endpoint to a terminal state on
// behalf of a UI client: bounded attempts, growing delay, cancel on teardown.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/config"
)

// ErrExhausted means every attempt came back pending. The last pending
// result is returned alongside so the caller can still render progress.
var ErrExhausted = errors.New("fulfillment still pending after all attempts")

// Fulfiller is one reconciliation call, local or over HTTP.
type Fulfiller interface {
	Fulfill(ctx context.Context, sessionID string) (*application.Result, error)
}

const (
	defaultMaxAttempts = 10
	defaultBaseDelay   = 1 * time.Second
	defaultMaxDelay    = 8 * time.Second
)

type Poller struct {
	fulfiller   Fulfiller
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	logger      *slog.Logger
}

func New(fulfiller Fulfiller, cfg config.PollerConfig, logger *slog.Logger) *Poller {
	p := &Poller{
		fulfiller:   fulfiller,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		maxDelay:    cfg.MaxDelay,
		logger:      logger,
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = defaultMaxAttempts
	}
	if p.baseDelay <= 0 {
		p.baseDelay = defaultBaseDelay
	}
	if p.maxDelay <= 0 {
		p.maxDelay = defaultMaxDelay
	}
	return p
}

// Poll calls Fulfill until a terminal outcome, an error, cancellation, or
// attempt exhaustion. A manual retry is simply a fresh Poll call; the
// attempt counter is local to each invocation.
//
// Overlapping Polls for the same session are not ordered with respect to
// each other; fulfillment is read-mostly and idempotent apart from the
// duplicate notification, so the last rendered state wins.
func (p *Poller) Poll(ctx context.Context, sessionID string) (*application.Result, error) {
	var last *application.Result

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, err := p.fulfiller.Fulfill(ctx, sessionID)
		if err != nil {
			// Terminal failure; retrying is an explicit user action.
			return result, err
		}
		if result.Outcome.Terminal() {
			return result, nil
		}

		last = result
		if attempt == p.maxAttempts {
			break
		}

		delay := p.backoff(attempt)
		p.logger.Debug("fulfillment pending, waiting before retry",
			"session_id", sessionID,
			"attempt", attempt,
			"delay", delay,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, ctx.Err()
		case <-timer.C:
		}
	}

	return last, ErrExhausted
}

// backoff grows linearly with the attempt number, capped at maxDelay.
func (p *Poller) backoff(attempt int) time.Duration {
	delay := p.baseDelay * time.Duration(attempt)
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}
