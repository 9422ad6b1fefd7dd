package stripe

import (
	"errors"
	"fmt"
)

type StripeError struct {
	Type       string
	Code       string
	Message    string
	StatusCode int
}

func (e *StripeError) Error() string {
	return fmt.Sprintf("stripe error [%s/%s]: %s (status: %d)", e.Type, e.Code, e.Message, e.StatusCode)
}

// NotFound reports whether the session id is unknown upstream.
func (e *StripeError) NotFound() bool {
	return e.StatusCode == 404 || e.Code == "resource_missing"
}

func IsStripeError(err error) (*StripeError, bool) {
	var stripeErr *StripeError
	ok := errors.As(err, &stripeErr)
	return stripeErr, ok
}
