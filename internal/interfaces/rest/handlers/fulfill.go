package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/interfaces/rest"
)

type FulfillRequest struct {
	SessionID string `json:"session_id"`
}

// Fulfill runs one reconciliation attempt for the session id in the body.
// 200 found/fallback_issued, 202 pending, 409 missing_recipient, 500 error.
func (h *Handlers) Fulfill(w http.ResponseWriter, r *http.Request) {
	var req FulfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), nil)
		return
	}
	if req.SessionID == "" {
		rest.WriteError(w, application.NewInvalidInputError(errors.New("session_id is required")), nil)
		return
	}

	result, err := h.fulfillment.Fulfill(r.Context(), req.SessionID)
	if err != nil {
		h.logger.Error("fulfillment failed",
			"session_id", req.SessionID,
			"error", err,
		)
		rest.WriteError(w, err, result)
		return
	}

	h.logger.Info("fulfillment attempt finished",
		"session_id", req.SessionID,
		"outcome", result.Outcome,
	)

	if result.Outcome == application.OutcomeMissingRecipient {
		rest.WriteJSON(w, rest.StatusForOutcome(result.Outcome), rest.ErrorResponse{
			Success: false,
			Error: rest.ErrorDetail{
				Code:    application.ErrCodeRecipientUnknown,
				Message: result.Reason,
			},
			Data: result,
		})
		return
	}

	rest.WriteJSON(w, rest.StatusForOutcome(result.Outcome), rest.SuccessResponse{
		Success: true,
		Data:    result,
	})
}
