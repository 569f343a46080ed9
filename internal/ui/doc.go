// Package ui implements the interactive terminal browser for the migrated
// contact/tag model.
//
// The TUI is a two-level list: a contact list for the selected scope, and a
// per-contact tag list reached with enter. It is read-only; all writes happen
// through the migration pipeline in the tasks package.
package ui
