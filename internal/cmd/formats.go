package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harrison/agentbridge/internal/converter"
)

// NewFormatsCommand creates and returns the formats subcommand
func NewFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported dialects and container formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := converter.New().ListSupportedFormats()

			names := make([]string, 0, len(formats))
			for name := range formats {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				desc := formats[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-6s %s\n", desc.Name, desc.Kind, desc.Description)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
