package models

import (
	"strings"
	"time"
)

// SubscriberStatus enumerates the lifecycle states of a legacy subscription row.
type SubscriberStatus string

const (
	StatusPending      SubscriberStatus = "pending"
	StatusConfirmed    SubscriberStatus = "confirmed"
	StatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Valid reports whether s is one of the known subscriber statuses.
func (s SubscriberStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusUnsubscribed:
		return true
	}
	return false
}

// Subscriber is a legacy subscription row from the source dataset.
//
// The legacy model stored one row per group membership, so several rows may
// share the same (site, email) pair. Site is a pointer because the source data
// contains rows with no site at all; those are skipped during consolidation.
type Subscriber struct {
	Site              *int64           // Owning site identifier, nil when absent in the source row
	Email             string           // Subscriber email address
	Name              string           // Optional display name, empty when unset
	Status            SubscriberStatus // Subscription status
	ConfirmationToken string           // Optional double-opt-in token
	ConfirmedAt       *time.Time       // When the subscription was confirmed, nil when unset
	SubscribedAt      *time.Time       // When the subscription was created, nil when unset
	GroupName         string           // Name of the group this row belongs to
}

// DisplayName returns the subscriber's name, falling back to the local part of
// the email address when the source row has no name.
func (s Subscriber) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if at := strings.Index(s.Email, "@"); at > 0 {
		return s.Email[:at]
	}
	return s.Email
}
