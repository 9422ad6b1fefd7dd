package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(store *MockRecordStore, payments *MockPaymentClient) *Resolver {
	return NewResolver(store, payments, DefaultBindings(), testLogger())
}

func TestResolver_EmptySessionID(t *testing.T) {
	resolver := newTestResolver(NewMockRecordStore(), NewMockPaymentClient())

	_, err := resolver.Resolve(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingSessionID)
}

func TestResolver_FoundByFirstSessionColumn(t *testing.T) {
	store := NewMockRecordStore()
	payments := NewMockPaymentClient()
	want := &domain.GiftRecord{Code: "GFT-AAAA", SessionID: "cs_1"}

	store.ProbeGiftFn = func(ctx context.Context, column, value string) (*domain.GiftRecord, error) {
		if column == "session_id" && value == "cs_1" {
			return want, nil
		}
		return nil, nil
	}

	resolver := newTestResolver(store, payments)
	rec, err := resolver.Resolve(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.Equal(t, want, rec)
	assert.Equal(t, []string{"session_id"}, store.ProbedColumns)
	assert.Zero(t, payments.Calls, "no session fetch needed when the first probe hits")
}

func TestResolver_MissingColumnSkipsToNextCandidate(t *testing.T) {
	store := NewMockRecordStore()
	want := &domain.GiftRecord{Code: "GFT-BBBB"}

	store.ProbeGiftFn = func(ctx context.Context, column, value string) (*domain.GiftRecord, error) {
		switch column {
		case "session_id":
			return nil, application.ErrUnknownColumn
		case "provider_session_id":
			return want, nil
		}
		return nil, nil
	}

	resolver := newTestResolver(store, NewMockPaymentClient())
	rec, err := resolver.Resolve(context.Background(), "cs_2")

	require.NoError(t, err)
	assert.Equal(t, want, rec)
	assert.Equal(t, []string{"session_id", "provider_session_id"}, store.ProbedColumns)
}

func TestResolver_ProbeOrderIsMonotonic(t *testing.T) {
	store := NewMockRecordStore()
	payments := NewMockPaymentClient()
	payments.RetrieveSessionFn = func(ctx context.Context, sessionID string) (*application.PaymentSession, error) {
		return &application.PaymentSession{ID: sessionID, Status: "open"}, nil
	}

	resolver := newTestResolver(store, payments)
	rec, err := resolver.Resolve(context.Background(), "cs_3")

	require.NoError(t, err)
	assert.Nil(t, rec)
	// All session columns tried in declared order before giving up. No
	// intent or email probes: the session carries neither.
	assert.Equal(t,
		[]string{"session_id", "provider_session_id", "order_id", "checkout_session_id"},
		store.ProbedColumns,
	)
}

func TestResolver_OtherStoreErrorIsFatal(t *testing.T) {
	store := NewMockRecordStore()
	boom := errors.New("connection reset")

	store.ProbeGiftFn = func(ctx context.Context, column, value string) (*domain.GiftRecord, error) {
		return nil, boom
	}

	resolver := newTestResolver(store, NewMockPaymentClient())
	_, err := resolver.Resolve(context.Background(), "cs_4")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"session_id"}, store.ProbedColumns, "fatal error stops probing")
}

func TestResolver_FallsBackToPaymentIntentProbe(t *testing.T) {
	store := NewMockRecordStore()
	payments := NewMockPaymentClient()
	want := &domain.GiftRecord{Code: "GFT-CCCC", PaymentIntentID: "pi_9"}

	payments.RetrieveSessionFn = func(ctx context.Context, sessionID string) (*application.PaymentSession, error) {
		return &application.PaymentSession{ID: sessionID, Status: "complete", PaymentIntentID: "pi_9"}, nil
	}
	store.ProbeGiftFn = func(ctx context.Context, column, value string) (*domain.GiftRecord, error) {
		if column == "payment_intent_id" && value == "pi_9" {
			return want, nil
		}
		return nil, nil
	}

	resolver := newTestResolver(store, payments)
	rec, err := resolver.Resolve(context.Background(), "cs_5")

	require.NoError(t, err)
	assert.Equal(t, want, rec)
	assert.Equal(t, 1, payments.Calls)
}

func TestResolver_FallsBackToEmailProbe(t *testing.T) {
	store := NewMockRecordStore()
	payments := NewMockPaymentClient()
	want := &domain.GiftRecord{Code: "GFT-DDDD", BuyerEmail: "buyer@example.com"}

	payments.RetrieveSessionFn = func(ctx context.Context, sessionID string) (*application.PaymentSession, error) {
		return &application.PaymentSession{
			ID:            sessionID,
			Status:        "complete",
			BillingEmail:  "buyer@example.com",
			CustomerEmail: "buyer@example.com",
			Metadata:      map[string]string{"recipient_email": "friend@example.com"},
		}, nil
	}
	store.ProbeGiftByEmailsFn = func(ctx context.Context, column string, emails []string) (*domain.GiftRecord, error) {
		if column == "recipient_email" {
			return nil, application.ErrUnknownColumn
		}
		if column == "buyer_email" {
			assert.Equal(t, []string{"buyer@example.com", "friend@example.com"}, emails)
			return want, nil
		}
		return nil, nil
	}

	resolver := newTestResolver(store, payments)
	rec, err := resolver.Resolve(context.Background(), "cs_6")

	require.NoError(t, err)
	assert.Equal(t, want, rec)
}

func TestResolver_SessionUnobtainableStopsQuietly(t *testing.T) {
	store := NewMockRecordStore()
	payments := NewMockPaymentClient()
	payments.RetrieveSessionFn = func(ctx context.Context, sessionID string) (*application.PaymentSession, error) {
		return nil, errors.New("no such session")
	}

	resolver := newTestResolver(store, payments)
	rec, err := resolver.Resolve(context.Background(), "cs_7")

	require.NoError(t, err)
	assert.Nil(t, rec)
}
