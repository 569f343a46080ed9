package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tagshift/internal/models"
)

// ContactTagRepository persists contact/tag associations.
//
// Links are additive-only: the migration inserts missing pairs and never
// removes existing ones. Inserts go through INSERT OR IGNORE so a duplicate
// pair silently no-ops against the (contact_id, tag_id) unique constraint.
type ContactTagRepository struct {
	db *sql.DB
}

// NewContactTagRepository creates a new [ContactTagRepository] with the given database connection
func NewContactTagRepository(db *sql.DB) *ContactTagRepository {
	return &ContactTagRepository{db: db}
}

// Link associates a contact with a tag, returning true when a new association
// was created and false when the pair already existed.
func (r *ContactTagRepository) Link(contactID, tagID string) (bool, error) {
	query := `
		INSERT OR IGNORE INTO contact_tags (contact_id, tag_id, created_at)
		VALUES (?, ?, ?)
	`

	result, err := r.db.Exec(query, contactID, tagID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to link contact to tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Exists reports whether an association already exists for the given pair.
func (r *ContactTagRepository) Exists(contactID, tagID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM contact_tags WHERE contact_id = ? AND tag_id = ?)",
		contactID, tagID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check contact tag: %w", err)
	}
	return exists, nil
}

// Count returns the total number of associations in the database.
func (r *ContactTagRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM contact_tags").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contact tags: %w", err)
	}
	return count, nil
}

// ListForContact retrieves all tags associated with a contact, ordered by tag sequence.
func (r *ContactTagRepository) ListForContact(contactID string) ([]*models.Tag, error) {
	query := `
		SELECT t.id, t.sequence, t.site, t.name, t.description, t.color, t.is_system,
			t.created_at, t.updated_at, t.deleted_at
		FROM tags t
		JOIN contact_tags ct ON ct.tag_id = t.id
		WHERE ct.contact_id = ? AND t.deleted_at IS NULL
		ORDER BY t.sequence ASC
	`

	rows, err := r.db.Query(query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact tags: %w", err)
	}
	defer rows.Close()

	tagRepo := TagRepository{db: r.db}

	var tags []*models.Tag
	for rows.Next() {
		tag, err := tagRepo.scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tags, nil
}
