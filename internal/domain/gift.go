package domain

import (
	"strings"
	"time"
)

// Gift record statuses. The column is free-form across deployments, so these
// are conventions, not an enum.
const (
	StatusIssued   = "issued"
	StatusRedeemed = "redeemed"
	StatusVoided   = "voided"
)

const DefaultCurrency = "USD"

// FallbackCodePrefix marks codes synthesized when payment completed before
// the authoritative record was written. Real codes never start with it.
const FallbackCodePrefix = "TMP-"

// GiftRecord is an issued (or pending) gift card as stored by the record
// store. Column layouts vary across deployments; a GiftRecord is always the
// normalized view.
type GiftRecord struct {
	Code            string
	AmountCents     int64
	Currency        string
	BuyerEmail      string
	RecipientEmail  string
	SessionID       string
	PaymentIntentID string
	BusinessID      string
	BusinessName    string
	Status          string
	CreatedAt       time.Time
	RedeemedAt      *time.Time
}

// DeliveryEmail picks the address a notification should go to: recipient
// first, then buyer. Empty means the record carries no deliverable address.
func (g *GiftRecord) DeliveryEmail() string {
	if g.RecipientEmail != "" {
		return g.RecipientEmail
	}
	return g.BuyerEmail
}

// Business is a merchant listed on the marketplace. Read-only here; used for
// display and email copy.
type Business struct {
	ID              string
	Name            string
	Slug            string
	StripeAccountID string
}

// NewMoney validates and normalizes a monetary amount in minor units.
func NewMoney(amountCents int64, currency string) (int64, string, error) {
	if amountCents < 0 {
		return 0, "", ErrNegativeAmount
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		currency = DefaultCurrency
	}
	return amountCents, currency, nil
}

// FallbackCode derives a temporary, recognizable code from a session id.
// It is never written to the record store.
func FallbackCode(sessionID string) string {
	suffix := sessionID
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return FallbackCodePrefix + strings.ToUpper(suffix)
}

// IsFallbackCode reports whether a code was synthesized rather than issued.
func IsFallbackCode(code string) bool {
	return strings.HasPrefix(code, FallbackCodePrefix)
}
