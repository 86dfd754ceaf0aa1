// Package cli implements the offline creativity command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/criatividade/internal/config"
	"github.com/okian/criatividade/pkg/logger"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	cfg       *config.Config
}

// NewRootCommand builds the creativity command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "creativity",
		Short:         "Analyze author creativity exports from the command line",
		Long:          `creativity runs the dashboard pipeline over semicolon-separated CSV files and prints or writes the derived tables, or generates synthetic data to try it with.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			if f.Changed("log-format") {
				cfg.LogFormat = opts.logFormat
			}
			if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(newReportCommand(opts), newBatchCommand(opts), newSampleCommand())
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("creativity: %w", err)
	}
	return nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case ";":
		return ';', nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %q", s)
	}
}
