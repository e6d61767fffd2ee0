package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/agentbridge/internal/container"
	"github.com/harrison/agentbridge/internal/converter"
	"github.com/harrison/agentbridge/internal/history"
	"github.com/harrison/agentbridge/internal/logger"
)

// NewConvertCommand creates and returns the convert subcommand
func NewConvertCommand() *cobra.Command {
	var (
		fromFormat   string
		toFormat     string
		outputPath   string
		outputFormat string
		historyPath  string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an agent definition file to another dialect",
		Long: `Read an agent definition file, convert it to the target dialect, and
print the result (or write it with --output).

The source format may name a container (json, yaml, markdown) or a
dialect (claude, roo, custom). When omitted it is detected from the
file extension and content. Every default the converter synthesized is
reported as a warning on stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)
			return runConvert(cmd, log, args[0], fromFormat, toFormat, outputPath, outputFormat, historyPath)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&fromFormat, "from", "", "Source format (container or dialect name; detected when empty)")
	cmd.Flags().StringVar(&toFormat, "to", "", "Target dialect: claude, roo, or custom")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (stdout when empty)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "json", "Output encoding: json or yaml")
	cmd.Flags().StringVar(&historyPath, "history", "", "SQLite database recording conversions (disabled when empty)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(cmd *cobra.Command, log *logger.ConsoleLogger, path, fromFormat, toFormat, outputPath, outputFormat, historyPath string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &converter.IOError{Path: path, Err: err}
	}

	conv := converter.New()

	if fromFormat == "" {
		detected := conv.DetectContainerFormat(path, content)
		if detected == "unknown" {
			return fmt.Errorf("could not detect container format of %s; use --from", path)
		}
		log.Debugf("detected container format: %s", detected)
		fromFormat = detected
	}

	targetTree, warnings, err := conv.ConvertContent(content, fromFormat, toFormat)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		log.Warnf("%s", w)
	}

	encoded, err := encodeTree(targetTree, outputFormat)
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	} else {
		if err := writeOutputFile(outputPath, encoded); err != nil {
			return err
		}
		log.Infof("wrote %s document to %s", toFormat, outputPath)
	}

	if historyPath != "" {
		if err := recordConversion(cmd.Context(), historyPath, content, fromFormat, toFormat, targetTree, warnings, log); err != nil {
			// History is bookkeeping; a failure there does not undo the
			// conversion the user asked for.
			log.Warnf("failed to record conversion history: %v", err)
		}
	}

	return nil
}

// recordConversion stores the conversion in the history database. The
// source tree is re-read through the matching container reader so that the
// record holds structured trees on both sides.
func recordConversion(ctx context.Context, historyPath string, content []byte, fromFormat, toFormat string, targetTree map[string]any, warnings []string, log *logger.ConsoleLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := history.NewStore(historyPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sourceTree := map[string]any{}
	if cf, ok := container.ParseFormat(fromFormat); ok {
		reader, err := container.NewReader(cf)
		if err == nil {
			if tree, err := reader.Read(content); err == nil {
				sourceTree = tree
			}
		}
	}

	id, err := store.RecordConversion(ctx, fromFormat, toFormat, sourceTree, targetTree, warnings)
	if err != nil {
		return err
	}
	log.Debugf("recorded conversion %s", id)
	return nil
}
