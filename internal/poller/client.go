package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giftwell/fulfillment-service/internal/application"
)

// Client is an HTTP Fulfiller for callers that poll the service remotely.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Fulfiller = (*Client)(nil)

type fulfillEnvelope struct {
	Success bool                `json:"success"`
	Data    *application.Result `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Fulfill POSTs one reconciliation attempt. Outcome-bearing responses (200,
// 202, 409) come back as results; anything else is an error, with any
// partial gift data attached to the returned result.
func (c *Client) Fulfill(ctx context.Context, sessionID string) (*application.Result, error) {
	payload, err := json.Marshal(map[string]string{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/fulfillments", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	var envelope fulfillEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusConflict:
		if envelope.Data == nil {
			return nil, fmt.Errorf("fulfillment response missing data (status %d)", resp.StatusCode)
		}
		return envelope.Data, nil
	default:
		if envelope.Error != nil {
			return envelope.Data, fmt.Errorf("fulfillment failed [%s]: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return envelope.Data, fmt.Errorf("fulfillment returned status %d", resp.StatusCode)
	}
}
