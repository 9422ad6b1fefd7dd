package application

import "github.com/giftwell/fulfillment-service/internal/domain"

// Outcome tags one fulfillment attempt. Pending is the only non-terminal tag;
// the caller's poller is expected to retry it.
type Outcome string

const (
	OutcomeFound            Outcome = "found"
	OutcomeFallbackIssued   Outcome = "fallback_issued"
	OutcomePending          Outcome = "pending"
	OutcomeMissingRecipient Outcome = "missing_recipient"
)

// Terminal reports whether the outcome ends polling.
func (o Outcome) Terminal() bool {
	return o != OutcomePending
}

// GiftView is the displayable slice of a gift, real or synthesized.
type GiftView struct {
	Code         string `json:"code"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	BusinessName string `json:"business_name"`
}

// Result is the transient state of one reconciliation call. It lives for the
// duration of a single Fulfill invocation and is never persisted.
type Result struct {
	Outcome        Outcome   `json:"outcome"`
	Gift           *GiftView `json:"gift,omitempty"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
	EmailID        string    `json:"email_id,omitempty"`
	Reason         string    `json:"reason,omitempty"`
}

// ViewOf projects a stored record into its displayable fields.
func ViewOf(g *domain.GiftRecord) *GiftView {
	if g == nil {
		return nil
	}
	return &GiftView{
		Code:         g.Code,
		AmountCents:  g.AmountCents,
		Currency:     g.Currency,
		BusinessName: g.BusinessName,
	}
}
