package domain

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUnknownPair         = errors.New("unknown pair")
	ErrOrderNotFound       = errors.New("order not found")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderFailed      = errors.New("provider request failed")
	ErrAmountOutOfRange    = errors.New("deposit amount out of range")

	// ErrPermanentlyBlocked reports that a notification channel revoked
	// access; the subscriber must be deregistered, not retried.
	ErrPermanentlyBlocked = errors.New("channel permanently blocked")
)
