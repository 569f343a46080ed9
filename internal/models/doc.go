// Package models defines domain entities and persistence interfaces for the tagshift migration tool.
//
// The package contains two categories of types:
//
// 1. Legacy records: Read-only structs mirroring the source dataset
//   - [Group] : Legacy subscriber group with display metadata
//   - [Subscriber] : Legacy subscription row, one per group membership
//
// 2. Persistent entities: Database-backed models created by the migration
//   - [Tag] : User-defined or system-managed label, unique per (site, name)
//   - [Contact] : Consolidated subscriber, unique per (site, email)
//   - [ContactTag] : Many-to-many association between contacts and tags
//
// Persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
