package models

import "time"

// ContactTag links a contact to a tag. Pairs are unique and additive: the
// migration only ever inserts missing associations, never removes them.
type ContactTag struct {
	ContactID string
	TagID     string
	CreatedAt time.Time
}
