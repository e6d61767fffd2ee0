package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/agentbridge/internal/history"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			records, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no conversions recorded")
				return nil
			}

			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s → %s  (%s)\n",
					rec.CreatedAt.Format("2006-01-02 15:04:05"),
					rec.SourceFormat, rec.TargetFormat, rec.ID)
				if len(rec.Warnings) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "    warnings: %s\n", strings.Join(rec.Warnings, "; "))
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&dbPath, "db", "agentbridge-history.db", "Path to the history database")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")

	return cmd
}
