package models

import (
	"fmt"
	"time"
)

// Well-known system tag names. Every site ends up with exactly these two
// system tags, and every contact holds exactly one of them.
const (
	TagSubscribed   = "Subscribed"
	TagUnsubscribed = "Unsubscribed"
)

// Display colors and descriptions used when the migration creates tags.
const (
	DefaultTagColor = "bg-blue-100 text-blue-800"
	GrayTagColor    = "bg-gray-100 text-gray-800"
	GreenTagColor   = "bg-green-100 text-green-800"

	SubscribedTagDescription   = "Active newsletter subscribers"
	UnsubscribedTagDescription = "Unsubscribed contacts (do not email)"
	OrphanTagDescription       = "Migrated from legacy group"
)

// Tag is a label attached to contacts, unique per (site, name).
//
// System tags (Subscribed/Unsubscribed) are managed by the migration engine;
// all other tags are user-defined and carried over from legacy groups.
type Tag struct {
	id          string
	sequence    int
	site        int64
	name        string
	description string
	color       string
	system      bool
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewTag creates a tag for the given site with timestamps set to now.
// An empty color falls back to [DefaultTagColor].
func NewTag(sequence int, site int64, name, description, color string, system bool) *Tag {
	if color == "" {
		color = DefaultTagColor
	}
	now := time.Now()
	return &Tag{
		sequence:    sequence,
		site:        site,
		name:        name,
		description: description,
		color:       color,
		system:      system,
		createdAt:   now,
		updatedAt:   now,
	}
}

// NewSystemTag creates one of the two well-known system tags for a site.
// Name must be [TagSubscribed] or [TagUnsubscribed].
func NewSystemTag(sequence int, site int64, name string) *Tag {
	switch name {
	case TagSubscribed:
		return NewTag(sequence, site, name, SubscribedTagDescription, GreenTagColor, true)
	case TagUnsubscribed:
		return NewTag(sequence, site, name, UnsubscribedTagDescription, GrayTagColor, true)
	}
	return NewTag(sequence, site, name, "", GrayTagColor, true)
}

func (t *Tag) ID() string            { return t.id }
func (t *Tag) Sequence() int         { return t.sequence }
func (t *Tag) Site() int64           { return t.site }
func (t *Tag) Name() string          { return t.name }
func (t *Tag) Description() string   { return t.description }
func (t *Tag) Color() string         { return t.color }
func (t *Tag) IsSystem() bool        { return t.system }
func (t *Tag) CreatedAt() time.Time  { return t.createdAt }
func (t *Tag) UpdatedAt() time.Time  { return t.updatedAt }
func (t *Tag) DeletedAt() *time.Time { return t.deletedAt }

func (t *Tag) SetID(id string) { t.id = id }
func (t *Tag) SetDescription(d string) { t.description = d }
func (t *Tag) SetColor(c string) { t.color = c }
func (t *Tag) SetCreatedAt(ts time.Time) { t.createdAt = ts }
func (t *Tag) SetUpdatedAt(ts time.Time) { t.updatedAt = ts }
func (t *Tag) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }

// Validate checks that the tag has a name, a color, and a non-negative site.
func (t *Tag) Validate() error {
	if t.name == "" {
		return fmt.Errorf("tag name is required")
	}
	if t.color == "" {
		return fmt.Errorf("tag color is required")
	}
	if t.site < 0 {
		return fmt.Errorf("tag site must be non-negative, got %d", t.site)
	}
	return nil
}
