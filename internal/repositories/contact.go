package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tagshift/internal/models"
	"github.com/desertthunder/tagshift/internal/shared"
)

// ContactRepository implements [models.Repository] for [models.Contact] persistence.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new [ContactRepository] with the given database connection
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact into the database with generated ID and sequence
func (r *ContactRepository) Create(contact *models.Contact) error {
	sequence, err := NextSequence(r.db, "contacts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	contact.SetID(id)

	if err := contact.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO contacts (
			id, sequence, site, name, email, status, confirmation_token,
			confirmed_at, subscribed_at, unsubscribed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var confirmationToken any = contact.ConfirmationToken()
	if confirmationToken == "" {
		confirmationToken = nil
	}

	_, err = r.db.Exec(query,
		id,
		sequence,
		contact.Site(),
		contact.Name(),
		contact.Email(),
		string(contact.Status()),
		confirmationToken,
		contact.ConfirmedAt(),
		contact.SubscribedAt(),
		contact.UnsubscribedAt(),
		contact.CreatedAt(),
		contact.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	return nil
}

// Get retrieves a contact by ID, excluding soft-deleted contacts
func (r *ContactRepository) Get(id string) (*models.Contact, error) {
	query := `
		SELECT id, sequence, site, name, email, status, confirmation_token,
			confirmed_at, subscribed_at, unsubscribed_at, created_at, updated_at, deleted_at
		FROM contacts
		WHERE id = ? AND deleted_at IS NULL
	`

	contact, err := r.scanContact(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrContactNotFound, id)
	}
	return contact, err
}

// FindByEmail retrieves a contact by its (site, email) natural key.
//
// Returns (nil, nil) when no such contact exists; callers use this as the
// existence check before a conditional insert.
func (r *ContactRepository) FindByEmail(site int64, email string) (*models.Contact, error) {
	query := `
		SELECT id, sequence, site, name, email, status, confirmation_token,
			confirmed_at, subscribed_at, unsubscribed_at, created_at, updated_at, deleted_at
		FROM contacts
		WHERE site = ? AND email = ? AND deleted_at IS NULL
	`

	contact, err := r.scanContact(r.db.QueryRow(query, site, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return contact, err
}

// Update modifies an existing contact in the database
func (r *ContactRepository) Update(contact *models.Contact) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	contact.SetUpdatedAt(now)

	query := `
		UPDATE contacts
		SET name = ?, status = ?, confirmation_token = ?, confirmed_at = ?,
			subscribed_at = ?, unsubscribed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	var confirmationToken any = contact.ConfirmationToken()
	if confirmationToken == "" {
		confirmationToken = nil
	}

	result, err := r.db.Exec(query,
		contact.Name(),
		string(contact.Status()),
		confirmationToken,
		contact.ConfirmedAt(),
		contact.SubscribedAt(),
		contact.UnsubscribedAt(),
		now,
		contact.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found or already deleted: %s", contact.ID())
	}

	return nil
}

// Delete soft-deletes a contact by ID
func (r *ContactRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE contacts
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("contact not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all contacts matching the given criteria, excluding soft-deleted contacts
func (r *ContactRepository) List(criteria map[string]any) ([]*models.Contact, error) {
	query := `
		SELECT id, sequence, site, name, email, status, confirmation_token,
			confirmed_at, subscribed_at, unsubscribed_at, created_at, updated_at, deleted_at
		FROM contacts
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if site, ok := criteria["site"].(int64); ok {
		query += " AND site = ?"
		args = append(args, site)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := r.scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return contacts, nil
}

// scanContact scans a single row into a [models.Contact]
func (r *ContactRepository) scanContact(row scanner) (*models.Contact, error) {
	var (
		id                string
		sequence          int
		site              int64
		name              string
		email             string
		status            string
		confirmationToken sql.NullString
		confirmedAt       sql.NullTime
		subscribedAt      sql.NullTime
		unsubscribedAt    sql.NullTime
		createdAt         time.Time
		updatedAt         time.Time
		deletedAt         sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &site, &name, &email, &status, &confirmationToken,
		&confirmedAt, &subscribedAt, &unsubscribedAt, &createdAt, &updatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}

	contact := models.NewContact(sequence, site, email, name, models.SubscriberStatus(status))
	contact.SetID(id)
	contact.SetName(name)
	contact.SetCreatedAt(createdAt)
	contact.SetUpdatedAt(updatedAt)

	if confirmationToken.Valid {
		contact.SetConfirmationToken(confirmationToken.String)
	}
	if confirmedAt.Valid {
		contact.SetConfirmedAt(&confirmedAt.Time)
	}
	if subscribedAt.Valid {
		contact.SetSubscribedAt(&subscribedAt.Time)
	}
	if unsubscribedAt.Valid {
		contact.SetUnsubscribedAt(&unsubscribedAt.Time)
	}
	if deletedAt.Valid {
		contact.SetDeletedAt(&deletedAt.Time)
	}

	return contact, nil
}
