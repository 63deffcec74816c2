package domain

import "time"

// Subscriber is a broadcast target keyed by its chat identity.
type Subscriber struct {
	ChatID       int64
	Label        string
	SubscribedAt time.Time
}

// SubscriberStore persists registry state so subscriptions survive
// restarts. The in-memory registry stays the runtime source of truth;
// store failures must never fail a registry operation.
type SubscriberStore interface {
	Save(sub *Subscriber) error
	Delete(chatID int64) error
	LoadAll() ([]*Subscriber, error)
}
