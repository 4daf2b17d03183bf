package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidPath   = errors.New("invalid document path")
	ErrPreemNotFound = errors.New("preem not found")

	// ErrMalformedPaymentMetadata indicates a payment record whose metadata
	// lacks the preem path or contributing user id. This is a producer bug,
	// not a transient fault, so callers must not retry it.
	ErrMalformedPaymentMetadata = errors.New("payment metadata missing preem path or user id")
)
