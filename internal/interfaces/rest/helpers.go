package rest

import (
	"encoding/json"
	"net/http"

	"github.com/giftwell/fulfillment-service/internal/application"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
	Data    any         `json:"data,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// WriteError maps application errors to HTTP responses. partial carries any
// gift fields already resolved before the failure, so a delivery failure
// never hides a gift the buyer has a right to see.
func WriteError(w http.ResponseWriter, err error, partial any) {
	statusCode := http.StatusInternalServerError
	code := application.ErrCodeInternal

	if svcErr, ok := application.IsServiceError(err); ok {
		statusCode = svcErr.HTTPStatus
		code = svcErr.Code
	}

	WriteJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
		Data: partial,
	})
}

// StatusForOutcome maps a fulfillment outcome to its response status: 200 for
// the terminal successes, 202 while the webhook has not caught up, 409 when
// no deliverable recipient exists.
func StatusForOutcome(outcome application.Outcome) int {
	switch outcome {
	case application.OutcomeFound, application.OutcomeFallbackIssued:
		return http.StatusOK
	case application.OutcomePending:
		return http.StatusAccepted
	case application.OutcomeMissingRecipient:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
