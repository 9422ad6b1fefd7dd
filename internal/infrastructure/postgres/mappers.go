package postgres

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/giftwell/fulfillment-service/internal/domain"
)

// toGiftRecord normalizes one jsonb row into a GiftRecord. The record table
// has gone through several column layout generations, so every field is read
// from an ordered candidate list; absent keys fall back to zero values.
func toGiftRecord(row map[string]any) *domain.GiftRecord {
	rec := &domain.GiftRecord{
		Code:            stringAt(row, "code", "card_code", "gift_code"),
		Currency:        normalizeCurrency(stringAt(row, "currency")),
		BuyerEmail:      stringAt(row, "buyer_email", "customer_email", "email"),
		RecipientEmail:  stringAt(row, "recipient_email"),
		SessionID:       stringAt(row, "session_id", "provider_session_id", "order_id", "checkout_session_id"),
		PaymentIntentID: stringAt(row, "payment_intent_id", "provider_payment_intent", "intent_id"),
		BusinessID:      stringAt(row, "business_id"),
		BusinessName:    stringAt(row, "business_name"),
		Status:          stringAt(row, "status"),
		AmountCents:     normalizeAmount(row),
	}

	if rec.Status == "" {
		rec.Status = domain.StatusIssued
	}

	rec.CreatedAt = timeAt(row, "created_at", "issued_at")
	if t := timeAt(row, "redeemed_at"); !t.IsZero() {
		rec.RedeemedAt = &t
	}

	return rec
}

// normalizeAmount reads the monetary amount from whichever legacy column the
// row carries. "*_cents" columns hold integer minor units; bare "amount" and
// "value" hold major-unit decimals. Negative amounts clamp to zero.
func normalizeAmount(row map[string]any) int64 {
	if v, ok := numberAt(row, "amount_cents", "value_cents"); ok {
		return clampAmount(int64(math.Round(v)))
	}
	if v, ok := numberAt(row, "amount", "value"); ok {
		return clampAmount(int64(math.Round(v * 100)))
	}
	return 0
}

func clampAmount(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return domain.DefaultCurrency
	}
	return currency
}

func stringAt(row map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := row[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numberAt(row map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := row[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func timeAt(row map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		s, ok := row[key].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
