package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for agentbridge
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agentbridge",
		Short: "Convert agent definitions between dialects",
		Long: `Agentbridge converts structured agent definition documents between
the Claude, Roo, and custom dialects without losing vendor-specific
extension data.

It reads JSON, YAML, or Markdown containers, detects the source dialect,
maps the document through a neutral intermediate representation, and
reports every default it synthesized on your behalf as a warning.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	cmd.AddCommand(NewConvertCommand())
	cmd.AddCommand(NewDetectCommand())
	cmd.AddCommand(NewFormatsCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
