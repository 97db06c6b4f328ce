package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptree/pkg/config"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/io"
	"github.com/matzehuels/conceptree/pkg/pipeline"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	viewConfig string // visibility configuration file
	output     string // output file (default stdout)
	format     string // json or table
	whole      bool   // every occurrence, ignoring visibility
	watch      bool   // re-resolve whenever viewConfig changes
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{format: outputJSON}

	cmd := &cobra.Command{
		Use:   "resolve [bundle.json]",
		Short: "Compute the visible rows of a concept hierarchy",
		Long: `Compute the visible rows of a concept hierarchy.

The bundle holds concepts, parent/child edges and category memberships
(use - to read it from stdin). The visibility configuration (expandAll,
per-path expand/collapse overrides, category treatments) comes from
--view-config, else from the bundle's "config" field, else the defaults.

With --watch, the configuration file is re-read and the rows re-resolved
every time it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != outputJSON && opts.format != outputTable {
				return fmt.Errorf("invalid format %q (must be json or table)", opts.format)
			}
			if opts.watch && opts.viewConfig == "" {
				return fmt.Errorf("--watch requires --view-config")
			}
			return c.runResolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.viewConfig, "view-config", "", "visibility configuration file (JSON)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, table")
	cmd.Flags().BoolVar(&opts.whole, "whole", false, "list every occurrence, ignoring visibility")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-resolve when the view config changes")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, input string, opts resolveOpts) error {
	b, in, err := loadInput(input)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	h, err := runner.Build(ctx, in)
	if err != nil {
		return err
	}

	if opts.whole {
		rows, err := h.WholeHierarchy()
		if err != nil {
			return err
		}
		return c.writeRows(opts, &io.Result{Rows: rows}, func(*hierarchy.Row) bool { return true })
	}

	var prev *hierarchy.DisplayConfig
	resolve := func() error {
		prog := newProgress(c.Logger)
		cfg, err := c.viewConfig(b, opts.viewConfig)
		if err != nil {
			return err
		}
		res, dc, cfg, err := runner.Resolve(ctx, h, in.Categories, pipeline.Options{Config: cfg, PreviousDisplay: prev})
		if err != nil {
			return err
		}
		prev = dc
		prog.done(fmt.Sprintf("Resolved %d of %d rows", len(res.Rows), len(res.AllRows)))
		return c.writeRows(opts, &io.Result{Rows: res.Rows, DisplayConfig: dc, Config: cfg}, expandedIn(res.Rows))
	}

	if err := resolve(); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	printInfo(os.Stderr, "Watching %s (ctrl+c to stop)", opts.viewConfig)
	err = config.WatchFile(ctx, opts.viewConfig, func() {
		if err := resolve(); err != nil {
			c.Logger.Warn("resolve failed, keeping previous output", "err", err)
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *CLI) writeRows(opts resolveOpts, res *io.Result, expanded func(*hierarchy.Row) bool) error {
	var buf bytes.Buffer
	switch opts.format {
	case outputTable:
		fmt.Fprintln(&buf, rowsTable(res.Rows, expanded).Render())
	default:
		if err := io.WriteResult(&buf, res); err != nil {
			return err
		}
	}
	if err := writeOutput(opts.output, buf.Bytes()); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess(os.Stderr, "Wrote %d rows", len(res.Rows))
		printFile(os.Stderr, opts.output)
	}
	return nil
}
