package models

// Group is a legacy subscriber group as stored by the source dataset.
//
// Groups are read-only input to the migration: each one is projected into a
// user-defined [Tag] and the row itself is never mutated.
type Group struct {
	Site        int64  // Owning site (tenant) identifier
	Name        string // Display name, unique per site in practice
	Description string // Optional description, empty when unset
	Color       string // Optional display color classes, empty when unset
}
