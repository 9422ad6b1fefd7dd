package stripe

import "encoding/json"

// checkoutSessionDTO mirrors the wire shape of a Stripe Checkout Session
// retrieved with expand=[payment_intent, customer].
type checkoutSessionDTO struct {
	ID              string              `json:"id"`
	Object          string              `json:"object"`
	Status          string              `json:"status"`
	AmountTotal     int64               `json:"amount_total"`
	Currency        string              `json:"currency"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerDetails *customerDetailsDTO `json:"customer_details"`
	PaymentIntent   json.RawMessage     `json:"payment_intent"`
	Metadata        map[string]string   `json:"metadata"`
}

type customerDetailsDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// paymentIntentID handles both the expanded object form and the bare id
// string the API returns without expansion.
func (s *checkoutSessionDTO) paymentIntentID() string {
	if len(s.PaymentIntent) == 0 {
		return ""
	}

	var id string
	if err := json.Unmarshal(s.PaymentIntent, &id); err == nil {
		return id
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(s.PaymentIntent, &obj); err == nil {
		return obj.ID
	}
	return ""
}

type errorEnvelope struct {
	Error errorDTO `json:"error"`
}

type errorDTO struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
