package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/config"
)

// Client sends gift notifications through the email delivery API. Sends are
// fire-and-forget from the subsystem's point of view: there is no rollback
// and no server-side retry.
type Client struct {
	baseURL       string
	apiKey        string
	fromAddress   string
	redeemBaseURL string
	httpClient    *http.Client
}

func NewClient(cfg config.EmailConfig) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		fromAddress:   cfg.FromAddress,
		redeemBaseURL: cfg.RedeemBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

var _ application.NotificationDispatcher = (*Client)(nil)

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type EmailError struct {
	Name       string
	Message    string
	StatusCode int
}

func (e *EmailError) Error() string {
	return fmt.Sprintf("email error [%s]: %s (status: %d)", e.Name, e.Message, e.StatusCode)
}

func IsEmailError(err error) (*EmailError, bool) {
	var emailErr *EmailError
	ok := errors.As(err, &emailErr)
	return emailErr, ok
}

// SendGiftIssued sends the gift-issued notification and returns the delivery
// API's message id.
func (c *Client) SendGiftIssued(ctx context.Context, n application.GiftNotification) (string, error) {
	payload := sendRequest{
		From:    c.fromAddress,
		To:      []string{n.To},
		Subject: giftIssuedSubject(n),
		HTML:    giftIssuedBody(n, c.redeemBaseURL),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling json: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return "", fmt.Errorf("email api returned status %d: %s", resp.StatusCode, string(body))
		}
		return "", &EmailError{
			Name:       errResp.Name,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var sendResp sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return "", fmt.Errorf("error decoding json response: %w", err)
	}

	return sendResp.ID, nil
}
