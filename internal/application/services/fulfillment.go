package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/domain"
)

// GiftResolver is what the orchestrator needs from the resolver.
type GiftResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.GiftRecord, error)
}

// FulfillmentService reconciles a completed checkout session with its gift
// record. It never writes to the record store; its only side effect is the
// notification send.
type FulfillmentService struct {
	resolver   GiftResolver
	store      application.RecordStore
	payments   application.PaymentClient
	dispatcher application.NotificationDispatcher
	logger     *slog.Logger
}

func NewFulfillmentService(
	resolver GiftResolver,
	store application.RecordStore,
	payments application.PaymentClient,
	dispatcher application.NotificationDispatcher,
	logger *slog.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		resolver:   resolver,
		store:      store,
		payments:   payments,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Fulfill runs one reconciliation attempt for a checkout session.
//
// Repeated calls for the same already-found session re-send the notification
// each time. Dedupe is the caller's responsibility: the poller stops on the
// first terminal outcome, and at-most-one-email-per-purchase is not
// guaranteed here.
func (s *FulfillmentService) Fulfill(ctx context.Context, sessionID string) (*application.Result, error) {
	if sessionID == "" {
		return nil, application.NewInvalidInputError(domain.ErrMissingSessionID)
	}

	rec, err := s.resolver.Resolve(ctx, sessionID)
	if err != nil {
		return nil, application.NewUpstreamFailureError(err)
	}

	if rec == nil {
		return s.fulfillWithoutRecord(ctx, sessionID)
	}
	return s.fulfillRecord(ctx, rec)
}

// fulfillRecord delivers an existing gift record.
func (s *FulfillmentService) fulfillRecord(ctx context.Context, rec *domain.GiftRecord) (*application.Result, error) {
	view := application.ViewOf(rec)
	if view.BusinessName == "" {
		view.BusinessName = s.businessName(ctx, rec.BusinessID)
	}

	to := rec.DeliveryEmail()
	if to == "" {
		// Still hand back the located gift so the caller can display it.
		return &application.Result{
			Outcome: application.OutcomeMissingRecipient,
			Gift:    view,
			Reason:  domain.ErrNoRecipient.Error(),
		}, nil
	}

	return s.dispatch(ctx, application.OutcomeFound, view, to)
}

// fulfillWithoutRecord handles the window where payment completed but the
// webhook has not written the record yet.
func (s *FulfillmentService) fulfillWithoutRecord(ctx context.Context, sessionID string) (*application.Result, error) {
	session, err := s.payments.RetrieveSession(ctx, sessionID)
	if errors.Is(err, application.ErrSessionNotFound) {
		// An unknown session is the same retryable state as an incomplete
		// payment: the processor may simply not have surfaced it yet.
		return &application.Result{
			Outcome: application.OutcomePending,
			Reason:  "payment session not yet available",
		}, nil
	}
	if err != nil {
		return nil, application.NewUpstreamFailureError(err)
	}

	if !session.Complete() {
		return &application.Result{
			Outcome: application.OutcomePending,
			Reason:  "payment not yet confirmed complete",
		}, nil
	}

	emails := session.CandidateEmails()
	if len(emails) == 0 {
		return &application.Result{
			Outcome: application.OutcomeMissingRecipient,
			Reason:  domain.ErrNoRecipient.Error(),
		}, nil
	}

	amount, currency, err := domain.NewMoney(session.AmountTotal, session.Currency)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	view := &application.GiftView{
		Code:         domain.FallbackCode(sessionID),
		AmountCents:  amount,
		Currency:     currency,
		BusinessName: s.sessionBusinessName(ctx, session),
	}

	s.logger.Warn("issuing temporary fallback gift, record not yet written",
		"session_id", sessionID,
		"code", view.Code,
	)

	return s.dispatch(ctx, application.OutcomeFallbackIssued, view, emails[0])
}

func (s *FulfillmentService) dispatch(ctx context.Context, outcome application.Outcome, view *application.GiftView, to string) (*application.Result, error) {
	emailID, err := s.dispatcher.SendGiftIssued(ctx, application.GiftNotification{
		To:           to,
		Code:         view.Code,
		AmountCents:  view.AmountCents,
		Currency:     view.Currency,
		BusinessName: view.BusinessName,
	})
	if err != nil {
		// Delivery failure must not hide a gift the buyer already has a
		// right to see; the partial result rides along with the error.
		return &application.Result{
			Gift:           view,
			RecipientEmail: to,
		}, application.NewDeliveryFailureError(err)
	}

	return &application.Result{
		Outcome:        outcome,
		Gift:           view,
		RecipientEmail: to,
		EmailID:        emailID,
	}, nil
}

// businessName is best-effort display data; lookup failures degrade to an
// empty name rather than failing the fulfillment.
func (s *FulfillmentService) businessName(ctx context.Context, businessID string) string {
	if businessID == "" {
		return ""
	}
	biz, err := s.store.FindBusiness(ctx, businessID)
	if err != nil {
		s.logger.Warn("business lookup failed", "business_id", businessID, "error", err)
		return ""
	}
	if biz == nil {
		return ""
	}
	return biz.Name
}

func (s *FulfillmentService) sessionBusinessName(ctx context.Context, session *application.PaymentSession) string {
	if name := session.Metadata["business_name"]; name != "" {
		return name
	}
	return s.businessName(ctx, session.Metadata["business_id"])
}
