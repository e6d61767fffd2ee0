package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/agentbridge/internal/container"
	"github.com/harrison/agentbridge/internal/converter"
	"github.com/harrison/agentbridge/internal/ir"
	"github.com/harrison/agentbridge/internal/logger"
	"github.com/harrison/agentbridge/internal/schema"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	var asDialect string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an agent definition file against a dialect",
		Long: `Parse a file and validate it against a dialect schema, reporting every
violated rule in one pass. When the document carries a config_schema,
it is additionally compiled as JSON Schema.

Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)
			return runValidate(cmd, log, args[0], asDialect)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&asDialect, "as", "", "Dialect to validate against (detected when empty)")

	return cmd
}

func runValidate(cmd *cobra.Command, log *logger.ConsoleLogger, path, asDialect string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &converter.IOError{Path: path, Err: err}
	}

	conv := converter.New()

	tree, err := readTree(conv, path, content)
	if err != nil {
		return err
	}

	if asDialect == "" {
		asDialect = conv.DetectDialect(string(content)).String()
		log.Debugf("detected dialect: %s", asDialect)
	}

	parser, err := conv.Parser(asDialect)
	if err != nil {
		return err
	}

	errs := parser.Validate(tree)

	// The schema check is advisory for dialect validity but callers want to
	// know about a config_schema that will not compile.
	if m, ok := ir.Mapping(tree["config_schema"]); ok {
		if err := schema.Check(m); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.OutOrStdout(), "  ✗ %s\n", e)
		}
		return fmt.Errorf("%s is not a valid %s document (%d problems)", path, asDialect, len(errs))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is a valid %s document\n", path, asDialect)
	return nil
}

// readTree parses file content through the matching container reader,
// defaulting to JSON-then-YAML decoding when the extension is unknown.
func readTree(conv *converter.Converter, path string, content []byte) (map[string]any, error) {
	name := conv.DetectContainerFormat(path, content)
	cf, ok := container.ParseFormat(name)
	if !ok {
		return nil, fmt.Errorf("could not detect container format of %s", path)
	}
	reader, err := container.NewReader(cf)
	if err != nil {
		return nil, err
	}
	return reader.Read(content)
}
