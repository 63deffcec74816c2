package domain

import "context"

// MessageDeliverer sends one message to one channel identity.
// A delivery error wrapping ErrPermanentlyBlocked means the recipient is
// gone for good; any other error is transient for that recipient only.
type MessageDeliverer interface {
	Deliver(ctx context.Context, chatID int64, text string) error
}
