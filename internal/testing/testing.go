// package testing contains shared testing utilities
package testing

import (
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/tagshift/internal/shared"
)

// SetupDB creates an in-memory SQLite database with migrations applied.
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// InsertGroup seeds a legacy group row. Empty description/color become NULL.
func InsertGroup(t *testing.T, db *sql.DB, site int64, name, description, color string) {
	t.Helper()

	var desc, col any
	if description != "" {
		desc = description
	}
	if color != "" {
		col = color
	}

	_, err := db.Exec(
		"INSERT INTO groups (site, name, description, color) VALUES (?, ?, ?, ?)",
		site, name, desc, col,
	)
	if err != nil {
		t.Fatalf("failed to seed group %s: %v", name, err)
	}
}

// InsertSubscriber seeds a legacy subscription row. A nil site is stored as
// NULL; an empty name becomes NULL.
func InsertSubscriber(t *testing.T, db *sql.DB, site *int64, email, name, status, groupName string) {
	t.Helper()

	var siteVal, nameVal any
	if site != nil {
		siteVal = *site
	}
	if name != "" {
		nameVal = name
	}

	_, err := db.Exec(
		"INSERT INTO subscribers (site, email, name, status, subscribed_at, group_name) VALUES (?, ?, ?, ?, ?, ?)",
		siteVal, email, nameVal, status, time.Now(), groupName,
	)
	if err != nil {
		t.Fatalf("failed to seed subscriber %s: %v", email, err)
	}
}

// CountRows returns the number of rows in a table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return count
}

// Site returns a pointer to a site identifier, for filter arguments.
func Site(v int64) *int64 { return &v }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
