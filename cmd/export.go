package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/tagshift/internal/formatter"
	"github.com/desertthunder/tagshift/internal/repositories"
	"github.com/urfave/cli/v3"
)

// ExportContacts writes migrated contacts and their tags to a file in the
// requested format.
func (r *Runner) ExportContacts(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")
	format := cmd.String("format")

	db, err := r.openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := loadContactRecords(db, siteFilter(cmd))
	if err != nil {
		return err
	}

	if err := formatter.WriteExport(records, output, format); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.logger.Info("export complete", "path", output, "format", format, "contacts", len(records))
	return nil
}

// loadContactRecords fetches contacts with their assigned tags, optionally
// scoped to a single site.
func loadContactRecords(db *sql.DB, site *int64) ([]formatter.ContactRecord, error) {
	criteria := map[string]any{}
	if site != nil {
		criteria["site"] = *site
	}

	contacts, err := repositories.NewContactRepository(db).List(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	links := repositories.NewContactTagRepository(db)

	records := make([]formatter.ContactRecord, 0, len(contacts))
	for _, contact := range contacts {
		tags, err := links.ListForContact(contact.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to list tags for contact %s: %w", contact.Email(), err)
		}
		records = append(records, formatter.ContactRecord{Contact: contact, Tags: tags})
	}

	return records, nil
}
