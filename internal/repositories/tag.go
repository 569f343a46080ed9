package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tagshift/internal/models"
	"github.com/desertthunder/tagshift/internal/shared"
)

// TagRepository implements [models.Repository] for [models.Tag] persistence.
type TagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new [TagRepository] with the given database connection
func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag into the database with generated ID and sequence
func (r *TagRepository) Create(tag *models.Tag) error {
	sequence, err := NextSequence(r.db, "tags")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	tag.SetID(id)

	if err := tag.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tags (id, sequence, site, name, description, color, is_system, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var description any = tag.Description()
	if description == "" {
		description = nil
	}

	_, err = r.db.Exec(query,
		id,
		sequence,
		tag.Site(),
		tag.Name(),
		description,
		tag.Color(),
		tag.IsSystem(),
		tag.CreatedAt(),
		tag.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tag: %w", err)
	}

	return nil
}

// Get retrieves a tag by ID, excluding soft-deleted tags
func (r *TagRepository) Get(id string) (*models.Tag, error) {
	query := `
		SELECT id, sequence, site, name, description, color, is_system, created_at, updated_at, deleted_at
		FROM tags
		WHERE id = ? AND deleted_at IS NULL
	`

	tag, err := r.scanTag(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTagNotFound, id)
	}
	return tag, err
}

// FindByName retrieves a tag by its (site, name) natural key.
//
// Returns (nil, nil) when no such tag exists; callers use this as the
// existence check before a conditional insert.
func (r *TagRepository) FindByName(site int64, name string) (*models.Tag, error) {
	query := `
		SELECT id, sequence, site, name, description, color, is_system, created_at, updated_at, deleted_at
		FROM tags
		WHERE site = ? AND name = ? AND deleted_at IS NULL
	`

	tag, err := r.scanTag(r.db.QueryRow(query, site, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return tag, err
}

// Update modifies an existing tag in the database
func (r *TagRepository) Update(tag *models.Tag) error {
	if err := tag.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	tag.SetUpdatedAt(now)

	query := `
		UPDATE tags
		SET description = ?, color = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	var description any = tag.Description()
	if description == "" {
		description = nil
	}

	result, err := r.db.Exec(query, description, tag.Color(), now, tag.ID())
	if err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tag not found or already deleted: %s", tag.ID())
	}

	return nil
}

// Delete soft-deletes a tag by ID
func (r *TagRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE tags
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tag not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all tags matching the given criteria, excluding soft-deleted tags
func (r *TagRepository) List(criteria map[string]any) ([]*models.Tag, error) {
	query := `
		SELECT id, sequence, site, name, description, color, is_system, created_at, updated_at, deleted_at
		FROM tags
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if site, ok := criteria["site"].(int64); ok {
		query += " AND site = ?"
		args = append(args, site)
	}

	if system, ok := criteria["is_system"].(bool); ok {
		query += " AND is_system = ?"
		args = append(args, system)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		tag, err := r.scanTag(rows)
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

// scanner abstracts over [sql.Row] and [sql.Rows] for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

// scanTag scans a single row into a [models.Tag]
func (r *TagRepository) scanTag(row scanner) (*models.Tag, error) {
	var (
		id          string
		sequence    int
		site        int64
		name        string
		description sql.NullString
		color       string
		isSystem    bool
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &site, &name, &description, &color, &isSystem, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tag: %w", err)
	}

	tag := models.NewTag(sequence, site, name, description.String, color, isSystem)
	tag.SetID(id)
	tag.SetCreatedAt(createdAt)
	tag.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		tag.SetDeletedAt(&deletedAt.Time)
	}

	return tag, nil
}
