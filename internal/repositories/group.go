package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/tagshift/internal/models"
)

// GroupRepository provides read-only access to legacy group rows.
//
// Groups are source data for the migration and are never mutated.
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new [GroupRepository] with the given database connection
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List enumerates legacy groups, optionally scoped to a single site.
// Rows are returned in insertion order.
func (r *GroupRepository) List(site *int64) ([]models.Group, error) {
	query := "SELECT site, name, description, color FROM groups"
	args := []any{}

	if site != nil {
		query += " WHERE site = ?"
		args = append(args, *site)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var (
			g           models.Group
			description sql.NullString
			color       sql.NullString
		)
		if err := rows.Scan(&g.Site, &g.Name, &description, &color); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.Description = description.String
		g.Color = color.String
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return groups, nil
}

// DistinctSites returns the distinct site identifiers present in the group
// table, optionally filtered to a single site.
func (r *GroupRepository) DistinctSites(site *int64) ([]int64, error) {
	query := "SELECT DISTINCT site FROM groups"
	args := []any{}

	if site != nil {
		query += " WHERE site = ?"
		args = append(args, *site)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query group sites: %w", err)
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
