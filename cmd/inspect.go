package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/tagshift/internal/repositories"
	"github.com/desertthunder/tagshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// TagsList prints the migrated tags, optionally scoped to a single site.
func (r *Runner) TagsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if site := siteFilter(cmd); site != nil {
		criteria["site"] = *site
	}

	tags, err := repositories.NewTagRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}

	if cmd.Bool("json") {
		payload := make([]map[string]any, 0, len(tags))
		for _, tag := range tags {
			payload = append(payload, map[string]any{
				"id":          tag.ID(),
				"site":        tag.Site(),
				"name":        tag.Name(),
				"description": tag.Description(),
				"color":       tag.Color(),
				"is_system":   tag.IsSystem(),
				"created_at":  shared.FormatTime(ptrTime(tag.CreatedAt())),
			})
		}
		return r.writeJSON(payload, true)
	}

	if len(tags) == 0 {
		return r.writePlain("No tags found.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Tags (%d)", len(tags)))
	for _, tag := range tags {
		kind := "user"
		if tag.IsSystem() {
			kind = "system"
		}
		r.writePlain("%-30s site=%-6d %-6s %s\n", tag.Name(), tag.Site(), kind, tag.Description())
	}

	return nil
}

// ContactsList prints the migrated contacts, optionally scoped to a single site.
func (r *Runner) ContactsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if site := siteFilter(cmd); site != nil {
		criteria["site"] = *site
	}

	contacts, err := repositories.NewContactRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	links := repositories.NewContactTagRepository(db)

	if cmd.Bool("json") {
		payload := make([]map[string]any, 0, len(contacts))
		for _, contact := range contacts {
			tags, err := links.ListForContact(contact.ID())
			if err != nil {
				return fmt.Errorf("failed to list tags for contact %s: %w", contact.Email(), err)
			}

			names := make([]string, 0, len(tags))
			for _, tag := range tags {
				names = append(names, tag.Name())
			}

			payload = append(payload, map[string]any{
				"id":     contact.ID(),
				"site":   contact.Site(),
				"email":  contact.Email(),
				"name":   contact.Name(),
				"status": string(contact.Status()),
				"tags":   names,
			})
		}
		return r.writeJSON(payload, true)
	}

	if len(contacts) == 0 {
		return r.writePlain("No contacts found.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Contacts (%d)", len(contacts)))
	for _, contact := range contacts {
		count, err := countContactTags(links, contact.ID())
		if err != nil {
			return err
		}
		r.writePlain("%-35s site=%-6d %-14s %d tags\n", contact.Email(), contact.Site(), contact.Status(), count)
	}

	return nil
}

func countContactTags(links *repositories.ContactTagRepository, contactID string) (int, error) {
	tags, err := links.ListForContact(contactID)
	if err != nil {
		return 0, fmt.Errorf("failed to list tags for contact: %w", err)
	}
	return len(tags), nil
}

func ptrTime(t time.Time) *time.Time { return &t }
