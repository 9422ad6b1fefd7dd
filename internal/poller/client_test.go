package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fulfillmentStub(t *testing.T, respond func(call int64, w http.ResponseWriter)) (*httptest.Server, *int64) {
	t.Helper()
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/fulfillments", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body["session_id"])

		respond(atomic.AddInt64(&calls, 1), w)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func writeEnvelope(w http.ResponseWriter, status int, envelope any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope)
}

func TestClient_PendingThenFound(t *testing.T) {
	server, calls := fulfillmentStub(t, func(call int64, w http.ResponseWriter) {
		if call < 3 {
			writeEnvelope(w, http.StatusAccepted, map[string]any{
				"success": true,
				"data":    map[string]any{"outcome": "pending", "reason": "payment not yet confirmed complete"},
			})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"outcome":         "found",
				"gift":            map[string]any{"code": "GFT-REAL", "amount_cents": 2500, "currency": "USD"},
				"recipient_email": "buyer@example.com",
			},
		})
	})

	client := NewClient(server.URL, 5*time.Second)
	p := New(client, fastConfig(), pollerLogger())

	result, err := p.Poll(context.Background(), "cs_test_123")

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeFound, result.Outcome)
	assert.Equal(t, "GFT-REAL", result.Gift.Code)
	assert.Equal(t, int64(3), *calls)
}

func TestClient_MissingRecipientIsTerminalResult(t *testing.T) {
	server, _ := fulfillmentStub(t, func(call int64, w http.ResponseWriter) {
		writeEnvelope(w, http.StatusConflict, map[string]any{
			"success": false,
			"error":   map[string]any{"code": "RECIPIENT_UNKNOWN", "message": "no deliverable recipient email"},
			"data":    map[string]any{"outcome": "missing_recipient", "reason": "no deliverable recipient email"},
		})
	})

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Fulfill(context.Background(), "cs_noemail")

	require.NoError(t, err)
	assert.Equal(t, application.OutcomeMissingRecipient, result.Outcome)
}

func TestClient_ServerErrorCarriesPartialGift(t *testing.T) {
	server, _ := fulfillmentStub(t, func(call int64, w http.ResponseWriter) {
		writeEnvelope(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   map[string]any{"code": "DELIVERY_FAILURE", "message": "gift notification could not be delivered"},
			"data":    map[string]any{"gift": map[string]any{"code": "GFT-REAL", "amount_cents": 5000, "currency": "USD"}},
		})
	})

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Fulfill(context.Background(), "cs_mailfail")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DELIVERY_FAILURE")
	require.NotNil(t, result)
	assert.Equal(t, "GFT-REAL", result.Gift.Code)
}
