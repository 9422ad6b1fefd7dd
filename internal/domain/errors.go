package domain

import "errors"

var (
	// ErrNegativeAmount rejects gift amounts below zero.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrMissingSessionID is returned when a caller passes an empty
	// checkout-session identifier.
	ErrMissingSessionID = errors.New("session id is required")

	// ErrNoRecipient means payment is confirmed but no deliverable email
	// exists on the record or the session. Not recoverable by retry.
	ErrNoRecipient = errors.New("no deliverable recipient email")
)
