package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeadLettersCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "dead-letters",
		Short: "List dead-lettered task messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			app, err := newApplication()
			if err != nil {
				return err
			}
			defer func() { _ = app.close() }()

			if err := app.openBroker(cmd.Context(), false); err != nil {
				return err
			}
			letters, err := app.broker.DeadLetters(cmd.Context(), limit)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(letters)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of messages to list")
	return cmd
}
