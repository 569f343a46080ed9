package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagshift/internal/repositories"
	"github.com/desertthunder/tagshift/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MigrateRun executes the full reconciliation pipeline against the configured
// database, streaming progress to the log and printing a summary at the end.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	site := siteFilter(cmd)

	db, err := r.openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if count, err := repositories.NewSubscriberRepository(db).Count(site); err == nil {
		r.logger.Info("starting migration", "subscriber_rows", count)
	}

	engine := tasks.NewMigrationEngine(db, r.logger)

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message,
				"phase", update.Phase.String(),
				"step", fmt.Sprintf("%d/%d", update.Step, update.Total))
		}
	}()

	result, err := engine.Reconcile(ctx, site, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	r.writePlainHeader("Migration Summary")
	r.writePlain("Groups migrated:     %d\n", result.GroupsMigrated)
	r.writePlain("Contacts created:    %d\n", result.ContactsCreated)
	r.writePlain("Subscriber records:  %d\n", result.TotalSubscriberRecords)
	r.writePlain("Tags created:        %d\n", result.TagsCreated)
	r.writePlain("Links created:       %d\n", result.LinksCreated)
	r.writePlain("Skipped (no site):   %d\n", result.SkippedNullSite)

	if site != nil {
		r.writePlainln("Scope: site %d", *site)
	}

	return nil
}
