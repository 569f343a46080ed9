package models

import (
	"fmt"
	"strings"
	"time"
)

// Contact is a consolidated subscriber, unique per (site, email).
//
// A contact is populated from exactly one canonical [Subscriber] row; duplicate
// rows for the same (site, email) contribute only their group memberships.
type Contact struct {
	id                string
	sequence          int
	site              int64
	name              string
	email             string
	status            SubscriberStatus
	confirmationToken string
	confirmedAt       *time.Time
	subscribedAt      *time.Time
	unsubscribedAt    *time.Time
	createdAt         time.Time
	updatedAt         time.Time
	deletedAt         *time.Time
}

// NewContact creates a contact with timestamps set to now.
// An empty name falls back to the local part of the email address.
func NewContact(sequence int, site int64, email, name string, status SubscriberStatus) *Contact {
	if name == "" {
		name = email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
	}
	now := time.Now()
	return &Contact{
		sequence:  sequence,
		site:      site,
		name:      name,
		email:     email,
		status:    status,
		createdAt: now,
		updatedAt: now,
	}
}

// NewContactFromSubscriber builds a contact from a canonical legacy row,
// carrying over the opt-in metadata. UnsubscribedAt is stamped with the current
// time only when the canonical row is unsubscribed.
func NewContactFromSubscriber(sequence int, site int64, sub Subscriber) *Contact {
	c := NewContact(sequence, site, sub.Email, sub.Name, sub.Status)
	c.confirmationToken = sub.ConfirmationToken
	c.confirmedAt = sub.ConfirmedAt
	c.subscribedAt = sub.SubscribedAt
	if sub.Status == StatusUnsubscribed {
		now := time.Now()
		c.unsubscribedAt = &now
	}
	return c
}

func (c *Contact) ID() string                 { return c.id }
func (c *Contact) Sequence() int              { return c.sequence }
func (c *Contact) Site() int64                { return c.site }
func (c *Contact) Name() string               { return c.name }
func (c *Contact) Email() string              { return c.email }
func (c *Contact) Status() SubscriberStatus   { return c.status }
func (c *Contact) ConfirmationToken() string  { return c.confirmationToken }
func (c *Contact) ConfirmedAt() *time.Time    { return c.confirmedAt }
func (c *Contact) SubscribedAt() *time.Time   { return c.subscribedAt }
func (c *Contact) UnsubscribedAt() *time.Time { return c.unsubscribedAt }
func (c *Contact) CreatedAt() time.Time       { return c.createdAt }
func (c *Contact) UpdatedAt() time.Time       { return c.updatedAt }
func (c *Contact) DeletedAt() *time.Time      { return c.deletedAt }

func (c *Contact) SetID(id string) { c.id = id }
func (c *Contact) SetName(name string) { c.name = name }
func (c *Contact) SetStatus(s SubscriberStatus) { c.status = s }
func (c *Contact) SetConfirmationToken(tok string) { c.confirmationToken = tok }
func (c *Contact) SetConfirmedAt(ts *time.Time) { c.confirmedAt = ts }
func (c *Contact) SetSubscribedAt(ts *time.Time) { c.subscribedAt = ts }
func (c *Contact) SetUnsubscribedAt(ts *time.Time) { c.unsubscribedAt = ts }
func (c *Contact) SetCreatedAt(ts time.Time) { c.createdAt = ts }
func (c *Contact) SetUpdatedAt(ts time.Time) { c.updatedAt = ts }
func (c *Contact) SetDeletedAt(ts *time.Time) { c.deletedAt = ts }

// Validate checks that the contact has an email, a valid status, and a
// non-negative site.
func (c *Contact) Validate() error {
	if c.email == "" {
		return fmt.Errorf("contact email is required")
	}
	if !c.status.Valid() {
		return fmt.Errorf("invalid contact status: %q", c.status)
	}
	if c.site < 0 {
		return fmt.Errorf("contact site must be non-negative, got %d", c.site)
	}
	return nil
}
