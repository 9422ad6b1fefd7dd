package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/config"
)

// Client reads checkout sessions from the payment processor. Read-only: the
// fulfillment subsystem never creates or mutates payment objects.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.PaymentsConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

var _ application.PaymentClient = (*Client)(nil)

// RetrieveSession fetches a checkout session with its payment intent and
// customer expanded.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*application.PaymentSession, error) {
	endpoint := fmt.Sprintf("%s/v1/checkout/sessions/%s", c.baseURL, url.PathEscape(sessionID))

	query := url.Values{}
	query.Add("expand[]", "payment_intent")
	query.Add("expand[]", "customer")

	dto, err := getJSON[checkoutSessionDTO](c, ctx, endpoint+"?"+query.Encode())
	if err != nil {
		if stripeErr, ok := IsStripeError(err); ok && stripeErr.NotFound() {
			return nil, fmt.Errorf("retrieve session %s: %w: %w", sessionID, application.ErrSessionNotFound, err)
		}
		return nil, err
	}

	session := &application.PaymentSession{
		ID:              dto.ID,
		Status:          dto.Status,
		PaymentIntentID: dto.paymentIntentID(),
		CustomerEmail:   dto.CustomerEmail,
		AmountTotal:     dto.AmountTotal,
		Currency:        dto.Currency,
		Metadata:        dto.Metadata,
	}
	if dto.CustomerDetails != nil {
		session.BillingEmail = dto.CustomerDetails.Email
	}
	return session, nil
}

func getJSON[Resp any](c *Client, ctx context.Context, url string) (*Resp, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &StripeError{
			Type:       envelope.Error.Type,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var decoded Resp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &decoded, nil
}
