package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/criatividade/internal/sample"
)

type sampleOptions struct {
	rows    int
	leaders int
	seed    uint64
	latin1  bool
	out     string
}

func newSampleCommand() *cobra.Command {
	o := &sampleOptions{}
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic creativity CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			opts := []sample.Option{sample.WithRows(o.rows), sample.WithLeaders(o.leaders)}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, sample.WithSeed(o.seed))
			}
			rows := sample.Generate(opts...)

			var w io.Writer = cmd.OutOrStdout()
			if o.out != "" {
				file, err := os.Create(o.out)
				if err != nil {
					return fmt.Errorf("create %s: %w", o.out, err)
				}
				defer func() {
					if cerr := file.Close(); err == nil && cerr != nil {
						err = cerr
					}
				}()
				w = file
			}
			return sample.WriteCSV(w, rows, o.latin1)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.rows, "rows", sample.DefaultRows, "number of data rows")
	f.IntVar(&o.leaders, "leaders", sample.DefaultLeaders, "number of distinct leaders")
	f.Uint64Var(&o.seed, "seed", 0, "random seed for reproducible output")
	f.BoolVar(&o.latin1, "latin1", false, "encode as ISO-8859-1 instead of UTF-8")
	f.StringVarP(&o.out, "out", "o", "", "output file (default stdout)")
	return cmd
}
