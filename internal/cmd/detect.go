package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/agentbridge/internal/converter"
)

// NewDetectCommand creates and returns the detect subcommand
func NewDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Detect the container format and agent dialect of a file",
		Long: `Report the container format (from the file extension, falling back to
content sniffing) and the agent dialect (from content heuristics) of an
agent definition file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			content, err := os.ReadFile(path)
			if err != nil {
				return &converter.IOError{Path: path, Err: err}
			}

			conv := converter.New()
			fmt.Fprintf(cmd.OutOrStdout(), "container: %s\n", conv.DetectContainerFormat(path, content))
			fmt.Fprintf(cmd.OutOrStdout(), "dialect:   %s\n", conv.DetectDialect(string(content)))
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
