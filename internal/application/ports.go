package application

import (
	"context"
	"errors"

	"github.com/giftwell/fulfillment-service/internal/domain"
)

// ErrUnknownColumn is returned by RecordStore.ProbeGift when the candidate
// column does not exist in the deployed schema. Resolution treats it as
// "no match, try the next candidate", never as a fatal error.
var ErrUnknownColumn = errors.New("unknown gift record column")

// ErrSessionNotFound means the payment processor does not (yet) know the
// session id. Fulfillment treats it as "session unavailable", the same
// retryable state as an incomplete payment, never as a terminal failure.
var ErrSessionNotFound = errors.New("payment session not found")

// RecordStore is the port for the gift-record table and the business table.
// The gift-record schema is assumed to vary across deployments, so lookups go
// through single-column probes rather than a fixed query.
type RecordStore interface {
	// ProbeGift looks up the newest gift record whose column equals value.
	// Returns (nil, nil) when no row matches and (nil, ErrUnknownColumn)
	// when the column does not exist.
	ProbeGift(ctx context.Context, column, value string) (*domain.GiftRecord, error)

	// ProbeGiftByEmails looks up the newest gift record whose column matches
	// any of the given addresses.
	ProbeGiftByEmails(ctx context.Context, column string, emails []string) (*domain.GiftRecord, error)

	// FindBusiness returns (nil, nil) when no business matches the id.
	FindBusiness(ctx context.Context, id string) (*domain.Business, error)
}

// PaymentSession is the read-only view of a checkout session owned by the
// payment processor.
type PaymentSession struct {
	ID              string
	Status          string
	PaymentIntentID string
	CustomerEmail   string
	BillingEmail    string
	AmountTotal     int64
	Currency        string
	Metadata        map[string]string
}

// SessionStatusComplete is the only status treated as "payment confirmed".
const SessionStatusComplete = "complete"

func (s *PaymentSession) Complete() bool {
	return s != nil && s.Status == SessionStatusComplete
}

// CandidateEmails returns every distinct non-empty address found on the
// session, in trust order: billing details, top-level customer email, then
// metadata recorded at session creation.
func (s *PaymentSession) CandidateEmails() []string {
	candidates := []string{
		s.BillingEmail,
		s.CustomerEmail,
		s.Metadata["buyer_email"],
		s.Metadata["recipient_email"],
	}

	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, email := range candidates {
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

// PaymentClient is the port for the external payment processor.
type PaymentClient interface {
	RetrieveSession(ctx context.Context, sessionID string) (*PaymentSession, error)
}

// GiftNotification carries the fields the gift-issued email template needs.
type GiftNotification struct {
	To           string
	Code         string
	AmountCents  int64
	Currency     string
	BusinessName string
}

// NotificationDispatcher is the port for the email delivery API. Send
// failures propagate as errors; the caller decides how much of the gift to
// still surface.
type NotificationDispatcher interface {
	SendGiftIssued(ctx context.Context, n GiftNotification) (string, error)
}
