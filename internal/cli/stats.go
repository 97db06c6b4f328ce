package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptree/pkg/io"
	"github.com/matzehuels/conceptree/pkg/pipeline"
)

// statsCommand creates the stats command, which prints the per-category
// counts shown in an options panel.
func (c *CLI) statsCommand() *cobra.Command {
	var viewConfig, output, format string

	cmd := &cobra.Command{
		Use:   "stats [bundle.json]",
		Short: "Show category sizes and how many members are visible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			cfg, err := c.viewConfig(b, viewConfig)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			defer runner.Close()
			res, err := runner.Execute(cmd.Context(), in, pipeline.Options{Config: cfg, SkipLayout: true})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			switch format {
			case outputTable:
				fmt.Fprintln(&buf, statsTable(res.DisplayConfig).Render())
				printStats(&buf, []string{
					strconv.Itoa(res.Stats.NodeCount) + " nodes",
					strconv.Itoa(res.Stats.EdgeCount) + " edges",
					fmt.Sprintf("%d/%d rows visible", res.Stats.VisibleRows, res.Stats.RowCount),
				}, false)
			case outputJSON:
				if err := io.WriteResult(&buf, res.DisplayConfig); err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid format %q (must be json or table)", format)
			}
			if err := writeOutput(output, buf.Bytes()); err != nil {
				return err
			}
			if output != "" {
				printFile(os.Stderr, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&viewConfig, "view-config", "", "visibility configuration file (JSON)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", outputTable, "output format: table, json")

	return cmd
}
