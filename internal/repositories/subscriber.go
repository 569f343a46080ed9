package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/tagshift/internal/models"
)

// SubscriberRepository provides read-only access to legacy subscription rows.
//
// The legacy model stored one row per group membership, so the same
// (site, email) pair may appear multiple times. Enumeration order is
// insertion order, which determines the canonical row during consolidation.
type SubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a new [SubscriberRepository] with the given database connection
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// List enumerates legacy subscription rows in insertion order, optionally
// scoped to a single site. Rows with no site are included; consolidation
// decides what to do with them.
func (r *SubscriberRepository) List(site *int64) ([]models.Subscriber, error) {
	query := `
		SELECT site, email, name, status, confirmation_token, confirmed_at, subscribed_at, group_name
		FROM subscribers
	`
	args := []any{}

	if site != nil {
		query += " WHERE site = ?"
		args = append(args, *site)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []models.Subscriber
	for rows.Next() {
		var (
			s            models.Subscriber
			siteID       sql.NullInt64
			name         sql.NullString
			status       string
			token        sql.NullString
			confirmedAt  sql.NullTime
			subscribedAt sql.NullTime
		)
		if err := rows.Scan(&siteID, &s.Email, &name, &status, &token, &confirmedAt, &subscribedAt, &s.GroupName); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		if siteID.Valid {
			s.Site = &siteID.Int64
		}
		s.Name = name.String
		s.Status = models.SubscriberStatus(status)
		s.ConfirmationToken = token.String
		if confirmedAt.Valid {
			s.ConfirmedAt = &confirmedAt.Time
		}
		if subscribedAt.Valid {
			s.SubscribedAt = &subscribedAt.Time
		}
		subscribers = append(subscribers, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return subscribers, nil
}

// DistinctSites returns the distinct non-null site identifiers present in the
// subscriber table, optionally filtered to a single site.
func (r *SubscriberRepository) DistinctSites(site *int64) ([]int64, error) {
	query := "SELECT DISTINCT site FROM subscribers WHERE site IS NOT NULL"
	args := []any{}

	if site != nil {
		query += " AND site = ?"
		args = append(args, *site)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriber sites: %w", err)
	}
	defer rows.Close()

	var sites []int64
	for rows.Next() {
		var s int64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sites, nil
}

// Count returns the number of legacy subscription rows, optionally scoped to
// a single site. Null-site rows are included in the unscoped count.
func (r *SubscriberRepository) Count(site *int64) (int, error) {
	query := "SELECT COUNT(*) FROM subscribers"
	args := []any{}

	if site != nil {
		query += " WHERE site = ?"
		args = append(args, *site)
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	return count, nil
}
