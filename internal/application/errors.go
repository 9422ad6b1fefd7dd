package application

import (
	"errors"
	"fmt"
	"net/http"
)

// APPLICATION-LEVEL ERRORS (Orchestration)

type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
	ErrCodeDeliveryFailure  = "DELIVERY_FAILURE"
	ErrCodeRecipientUnknown = "RECIPIENT_UNKNOWN"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewUpstreamFailureError wraps a record store or payment processor failure.
// Retryable only via explicit user action, never internally.
func NewUpstreamFailureError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeUpstreamFailure,
		Message:    "upstream dependency failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDeliveryFailureError wraps an email API failure. The gift itself is
// still reported alongside when known.
func NewDeliveryFailureError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeDeliveryFailure,
		Message:    "gift notification could not be delivered",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInvalidInputError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    "invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "an internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
