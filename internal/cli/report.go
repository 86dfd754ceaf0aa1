package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/criatividade/internal/adapters/export"
	"github.com/okian/criatividade/internal/app"
	"github.com/okian/criatividade/internal/config"
	"github.com/okian/criatividade/pkg/logger"
	"github.com/okian/criatividade/pkg/metrics"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatXLSX     = "xlsx"
)

type reportOptions struct {
	leaders   []string
	top       int
	delimiter string
	format    string
	xlsx      string
}

func newReportCommand(root *rootOptions) *cobra.Command {
	o := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report <file.csv>",
		Short: "Run the analysis over a CSV file and print the derived tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.format != formatMarkdown && o.format != formatJSON {
				return fmt.Errorf("unsupported --format: %q", o.format)
			}
			svc, err := newService(cmd, root.cfg, o.top, o.delimiter)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			u := app.Upload{
				FileName:  filepath.Base(args[0]),
				Selection: selection(cmd, o.leaders),
				Data:      data,
			}
			d, err := svc.Analyze(cmd.Context(), u)
			if err != nil {
				return err
			}

			if err := writeReport(cmd.OutOrStdout(), o.format, d); err != nil {
				return err
			}

			if o.xlsx != "" {
				if err := writeFile(o.xlsx, formatXLSX, d); err != nil {
					return err
				}
				metrics.RecordExport("xlsx")
				logger.Get().Info(cmd.Context(), "workbook written", logger.String("path", o.xlsx))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&o.leaders, "lider", nil, "leader to keep; repeat for several (default: all)")
	f.IntVar(&o.top, "top", 10, "rows in the lowest/highest repetition rankings")
	f.StringVar(&o.delimiter, "delimiter", ";", "field separator: ; , tab |")
	f.StringVar(&o.format, "format", formatMarkdown, "output format: markdown or json")
	f.StringVar(&o.xlsx, "xlsx", "", "also write the tables to this Excel workbook")
	return cmd
}

// newService builds the pipeline from config, letting --top and --delimiter
// override it when given.
func newService(cmd *cobra.Command, cfg *config.Config, top int, delimiter string) (*app.Service, error) {
	f := cmd.Flags()
	n := cfg.TopN
	if f.Changed("top") {
		n = top
	}
	delim := cfg.DelimiterRune()
	if f.Changed("delimiter") {
		d, err := parseDelimiter(delimiter)
		if err != nil {
			return nil, err
		}
		delim = d
	}
	return app.New(
		app.WithLogger(logger.Get()),
		app.WithTopN(n),
		app.WithDelimiter(delim),
		app.WithPreviewRows(cfg.PreviewRows),
	), nil
}

// selection returns nil when --lider was not given so every row is kept.
func selection(cmd *cobra.Command, leaders []string) []string {
	if !cmd.Flags().Changed("lider") {
		return nil
	}
	return append([]string{}, leaders...)
}

func writeReport(w io.Writer, format string, d *app.Dashboard) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case formatXLSX:
		return export.WriteXLSX(w, d)
	default:
		return export.Markdown(w, d)
	}
}

// writeFile writes d to path in the given report format.
func writeFile(path, format string, d *app.Dashboard) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return writeReport(file, format, d)
}
