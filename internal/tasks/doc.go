// Package tasks implements the subscriber-to-contact reconciliation pipeline.
//
// The core abstraction is [MigrationEngine], which runs four idempotent stages
// in order: project legacy groups into tags, ensure per-site system tags,
// consolidate duplicate subscriber rows into contacts, and reconcile tag
// assignments (including self-healing of orphaned group references).
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
