package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFulfiller struct {
	results []*application.Result
	errs    []error
	calls   int
	onCall  func(call int)
}

func (s *scriptedFulfiller) Fulfill(ctx context.Context, sessionID string) (*application.Result, error) {
	i := s.calls
	s.calls++
	if s.onCall != nil {
		s.onCall(i)
	}
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i], s.errs[i]
}

func pending() *application.Result {
	return &application.Result{Outcome: application.OutcomePending, Reason: "payment not yet confirmed complete"}
}

func found() *application.Result {
	return &application.Result{
		Outcome: application.OutcomeFound,
		Gift:    &application.GiftView{Code: "GFT-REAL", AmountCents: 2500, Currency: "USD"},
	}
}

func fastConfig() config.PollerConfig {
	return config.PollerConfig{
		MaxAttempts: 10,
		BaseDelay:   time.Millisecond,
		MaxDelay:    3 * time.Millisecond,
	}
}

func pollerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoll_StopsOnFirstTerminalOutcome(t *testing.T) {
	fulfiller := &scriptedFulfiller{
		results: []*application.Result{pending(), pending(), found()},
		errs:    []error{nil, nil, nil},
	}
	p := New(fulfiller, fastConfig(), pollerLogger())

	result, err := p.Poll(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeFound, result.Outcome)
	assert.Equal(t, 3, fulfiller.calls)
}

func TestPoll_AtMostMaxAttempts(t *testing.T) {
	fulfiller := &scriptedFulfiller{
		results: []*application.Result{pending()},
		errs:    []error{nil},
	}
	p := New(fulfiller, fastConfig(), pollerLogger())

	result, err := p.Poll(context.Background(), "cs_2")

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 10, fulfiller.calls)
	require.NotNil(t, result, "last pending result surfaces for progress display")
	assert.Equal(t, application.OutcomePending, result.Outcome)
}

func TestPoll_MissingRecipientIsTerminal(t *testing.T) {
	fulfiller := &scriptedFulfiller{
		results: []*application.Result{pending(), {Outcome: application.OutcomeMissingRecipient}},
		errs:    []error{nil, nil},
	}
	p := New(fulfiller, fastConfig(), pollerLogger())

	result, err := p.Poll(context.Background(), "cs_3")

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeMissingRecipient, result.Outcome)
	assert.Equal(t, 2, fulfiller.calls)
}

func TestPoll_ErrorStopsImmediately(t *testing.T) {
	boom := errors.New("upstream dependency failed")
	fulfiller := &scriptedFulfiller{
		results: []*application.Result{nil},
		errs:    []error{boom},
	}
	p := New(fulfiller, fastConfig(), pollerLogger())

	_, err := p.Poll(context.Background(), "cs_4")

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, fulfiller.calls)
}

func TestPoll_ManualRetryResetsAttempts(t *testing.T) {
	fulfiller := &scriptedFulfiller{
		results: []*application.Result{pending()},
		errs:    []error{nil},
	}
	p := New(fulfiller, fastConfig(), pollerLogger())

	_, err := p.Poll(context.Background(), "cs_5")
	require.ErrorIs(t, err, ErrExhausted)
	require.Equal(t, 10, fulfiller.calls)

	// A second Poll starts a fresh run of attempts.
	_, err = p.Poll(context.Background(), "cs_5")
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 20, fulfiller.calls)
}

func TestPoll_CancellationStopsPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fulfiller := &scriptedFulfiller{
		results: []*application.Result{pending()},
		errs:    []error{nil},
	}
	fulfiller.onCall = func(call int) {
		if call == 1 {
			cancel()
		}
	}

	cfg := fastConfig()
	cfg.BaseDelay = 50 * time.Millisecond
	p := New(fulfiller, cfg, pollerLogger())

	start := time.Now()
	_, err := p.Poll(ctx, "cs_6")

	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, fulfiller.calls, 3)
	assert.Less(t, time.Since(start), time.Second, "cancelled wait must not sleep out the full schedule")
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	p := New(&scriptedFulfiller{}, config.PollerConfig{
		MaxAttempts: 10,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
	}, pollerLogger())

	assert.Equal(t, time.Second, p.backoff(1))
	assert.Equal(t, 2*time.Second, p.backoff(2))
	assert.Equal(t, 4*time.Second, p.backoff(4))
	assert.Equal(t, 4*time.Second, p.backoff(9))
}

func TestNew_DefaultsApply(t *testing.T) {
	p := New(&scriptedFulfiller{}, config.PollerConfig{}, pollerLogger())

	assert.Equal(t, defaultMaxAttempts, p.maxAttempts)
	assert.Equal(t, defaultBaseDelay, p.baseDelay)
	assert.Equal(t, defaultMaxDelay, p.maxDelay)
}
