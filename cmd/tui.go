package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagshift/internal/shared"
	"github.com/desertthunder/tagshift/internal/ui"
	"github.com/urfave/cli/v3"
)

// BrowseTUI opens an interactive browser over migrated contacts and their
// tags. Log output is redirected to a file so it does not fight the terminal.
func (r *Runner) BrowseTUI(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	logPath := r.config.Logging.File
	if logPath == "" {
		logPath = "tagshift.log"
	}

	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := r.openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := loadContactRecords(db, siteFilter(cmd))
	if err != nil {
		return err
	}

	browse := make([]ui.BrowseContact, 0, len(records))
	for _, record := range records {
		browse = append(browse, ui.BrowseContact{Contact: record.Contact, Tags: record.Tags})
	}

	program := tea.NewProgram(ui.NewModel(browse), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	return nil
}
