package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/desertthunder/tagshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// ImportLegacy loads legacy groups and subscribers from CSV files into the
// source tables. At least one of --groups or --subscribers is required.
func (r *Runner) ImportLegacy(ctx context.Context, cmd *cli.Command) error {
	groupsPath := cmd.String("groups")
	subscribersPath := cmd.String("subscribers")

	if groupsPath == "" && subscribersPath == "" {
		return fmt.Errorf("%w: provide --groups and/or --subscribers", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if groupsPath != "" {
		count, err := importGroups(db, groupsPath)
		if err != nil {
			return fmt.Errorf("failed to import groups: %w", err)
		}
		r.logger.Info("imported groups", "path", groupsPath, "count", count)
	}

	if subscribersPath != "" {
		count, err := importSubscribers(db, subscribersPath)
		if err != nil {
			return fmt.Errorf("failed to import subscribers: %w", err)
		}
		r.logger.Info("imported subscribers", "path", subscribersPath, "count", count)
	}

	return nil
}

// importGroups reads rows of (site, name, description, color) and inserts
// them into the groups table.
func importGroups(db *sql.DB, path string) (int, error) {
	rows, err := readCSV(path, 4)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		site, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return count, fmt.Errorf("row %d: invalid site %q: %w", i+1, row[0], err)
		}

		_, err = db.Exec(
			"INSERT INTO groups (site, name, description, color) VALUES (?, ?, ?, ?)",
			site, row[1], row[2], row[3],
		)
		if err != nil {
			return count, fmt.Errorf("row %d: %w", i+1, err)
		}
		count++
	}

	return count, nil
}

// importSubscribers reads rows of (site, email, name, status, group_name) and
// inserts them into the subscribers table. An empty site column becomes NULL.
func importSubscribers(db *sql.DB, path string) (int, error) {
	rows, err := readCSV(path, 5)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		var site any
		if row[0] != "" {
			parsed, err := strconv.ParseInt(row[0], 10, 64)
			if err != nil {
				return count, fmt.Errorf("row %d: invalid site %q: %w", i+1, row[0], err)
			}
			site = parsed
		}

		status := row[3]
		if status == "" {
			status = "pending"
		}

		_, err = db.Exec(
			"INSERT INTO subscribers (site, email, name, status, group_name) VALUES (?, ?, ?, ?, ?)",
			site, row[1], row[2], status, row[4],
		)
		if err != nil {
			return count, fmt.Errorf("row %d: %w", i+1, err)
		}
		count++
	}

	return count, nil
}

// readCSV parses a CSV file, skipping a header row when the first cell is not
// numeric, and validates that every row has the expected number of fields.
func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = fields

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 {
		if _, err := strconv.ParseInt(rows[0][0], 10, 64); err != nil && rows[0][0] != "" {
			rows = rows[1:]
		}
	}

	return rows, nil
}
