package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/domain"
)

// Bindings lists the candidate gift-record columns for each correlation key,
// in probe order. The schema varies across deployments and versions, so the
// fallback order is configuration, not code.
type Bindings struct {
	Session []string
	Intent  []string
	Email   []string
}

// DefaultBindings covers every column layout generation seen in production.
func DefaultBindings() Bindings {
	return Bindings{
		Session: []string{"session_id", "provider_session_id", "order_id", "checkout_session_id"},
		Intent:  []string{"payment_intent_id", "provider_payment_intent", "intent_id"},
		Email:   []string{"recipient_email", "buyer_email", "customer_email", "email"},
	}
}

// Resolver locates a previously issued gift record for a checkout session
// through a sequence of fallback probes. Read-only.
type Resolver struct {
	store    application.RecordStore
	payments application.PaymentClient
	bindings Bindings
	logger   *slog.Logger
}

func NewResolver(
	store application.RecordStore,
	payments application.PaymentClient,
	bindings Bindings,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		store:    store,
		payments: payments,
		bindings: bindings,
		logger:   logger,
	}
}

// Resolve returns the gift record correlated with sessionID, or (nil, nil)
// when none exists yet. Probes run in binding order: session columns, then
// payment-intent columns, then candidate emails from the payment session.
// A missing column skips to the next candidate; any other store failure
// aborts resolution.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) (*domain.GiftRecord, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSessionID
	}

	rec, err := r.probe(ctx, r.bindings.Session, sessionID)
	if rec != nil || err != nil {
		return rec, err
	}

	session, err := r.payments.RetrieveSession(ctx, sessionID)
	if err != nil {
		// No session, no further correlation keys to try.
		r.logger.Debug("payment session not obtainable, stopping probes",
			"session_id", sessionID,
			"error", err,
		)
		return nil, nil
	}
	if session == nil {
		return nil, nil
	}

	if session.PaymentIntentID != "" {
		rec, err = r.probe(ctx, r.bindings.Intent, session.PaymentIntentID)
		if rec != nil || err != nil {
			return rec, err
		}
	}

	emails := session.CandidateEmails()
	if len(emails) == 0 {
		return nil, nil
	}

	for _, column := range r.bindings.Email {
		rec, err := r.store.ProbeGiftByEmails(ctx, column, emails)
		if errors.Is(err, application.ErrUnknownColumn) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}

	return nil, nil
}

func (r *Resolver) probe(ctx context.Context, columns []string, value string) (*domain.GiftRecord, error) {
	for _, column := range columns {
		rec, err := r.store.ProbeGift(ctx, column, value)
		if errors.Is(err, application.ErrUnknownColumn) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, nil
}
