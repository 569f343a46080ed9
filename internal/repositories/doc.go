// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles data access with atomic sequence generation for human-readable ordering.
// Target-model repositories (tags, contacts) support soft deletes via deleted_at timestamps and
// exclude deleted records from queries by default. Legacy repositories (groups, subscribers) are
// read-only views over the imported source dataset.
//
// Key Implementations:
//   - [GroupRepository] : Legacy group enumeration scoped by site
//   - [SubscriberRepository] : Ordered legacy subscription enumeration and site discovery
//   - [TagRepository] : Tag persistence with (site, name) natural-key lookups
//   - [ContactRepository] : Contact persistence with (site, email) natural-key lookups
//   - [ContactTagRepository] : Conflict-safe contact/tag association links
//
// Sequence numbers provide stable, human-readable ordering (e.g., tag #42, contact #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
