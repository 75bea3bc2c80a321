package main

import (
	"github.com/lumenlearn/lumen/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}

	for _, sub := range []struct {
		name  string
		short string
	}{
		{"up", "Apply all pending migrations"},
		{"down", "Roll back the most recent migration"},
		{"status", "Show the state of every migration"},
		{"version", "Print the current schema version"},
	} {
		command := sub.name
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				app, err := newApplication()
				if err != nil {
					return err
				}
				defer func() { _ = app.close() }()

				if err := app.openDatabase(cmd.Context()); err != nil {
					return err
				}
				return postgres.Migrate(cmd.Context(), app.db, command, app.logger)
			},
		})
	}
	return cmd
}
