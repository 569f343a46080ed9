package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a TOML config file",
		Value:   "config.toml",
	}
}

func siteFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "site",
		Aliases: []string{"s"},
		Usage:   "Restrict the command to a single site ID",
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and database schema",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: r.SetupApplication,
	}
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load legacy groups and subscribers from CSV files",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "groups",
				Usage: "Path to a groups CSV (site,name,description,color)",
			},
			&cli.StringFlag{
				Name:  "subscribers",
				Usage: "Path to a subscribers CSV (site,email,name,status,groups)",
			},
		},
		Action: r.ImportLegacy,
	}
}

func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Run the legacy-to-contact migration",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Project groups, consolidate contacts, and reconcile tag assignments",
				Flags: []cli.Flag{
					configFlag(),
					siteFlag(),
				},
				Action: r.MigrateRun,
			},
		},
	}
}

func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "Inspect migrated tags",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tags, optionally for a single site",
				Flags: []cli.Flag{
					configFlag(),
					siteFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit JSON instead of plain text",
					},
				},
				Action: r.TagsList,
			},
		},
	}
}

func contactsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "contacts",
		Usage: "Inspect migrated contacts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List contacts, optionally for a single site",
				Flags: []cli.Flag{
					configFlag(),
					siteFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit JSON instead of plain text",
					},
				},
				Action: r.ContactsList,
			},
		},
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export migrated data",
		Commands: []*cli.Command{
			{
				Name:  "contacts",
				Usage: "Write contacts and their tags to a file",
				Flags: []cli.Flag{
					configFlag(),
					siteFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "contacts.csv",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (csv, markdown, text)",
						Value:   "csv",
					},
				},
				Action: r.ExportContacts,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse contacts and tags interactively",
		Flags: []cli.Flag{
			configFlag(),
			siteFlag(),
		},
		Action: r.BrowseTUI,
	}
}
