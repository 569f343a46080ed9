package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tagshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupApplication writes the config file (unless present) and applies the
// database schema. Safe to run repeatedly.
func (r *Runner) SetupApplication(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	force := cmd.Bool("force")

	if _, err := os.Stat(configPath); err == nil && !force {
		r.logger.Info("config file exists, skipping (use --force to overwrite)", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("created config file", "path", configPath)
	}

	r.reloadConfig(cmd)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Info("database ready", "path", r.config.Database.Path)
	return nil
}
