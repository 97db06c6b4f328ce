package cli

import (
	"bytes"
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptree/pkg/io"
	"github.com/matzehuels/conceptree/pkg/pipeline"
)

// layoutFlags are the layout tuning flags shared by layout and render. Flags
// left unset fall back to the loaded settings.
type layoutFlags struct {
	maxWidth     int
	layerSpacing float64
	nodeSpacing  float64
	refresh      bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxWidth, "max-width", 0, "maximum nodes per layer (default from settings)")
	cmd.Flags().Float64Var(&f.layerSpacing, "layer-spacing", 0, "vertical distance between layers")
	cmd.Flags().Float64Var(&f.nodeSpacing, "node-spacing", 0, "horizontal distance between nodes")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
}

// options merges the flags that were set over the settings.
func (f *layoutFlags) options(c *CLI, cmd *cobra.Command) pipeline.Options {
	opts := c.layoutOptions()
	if cmd.Flags().Changed("max-width") {
		opts.MaxWidth = f.maxWidth
	}
	if cmd.Flags().Changed("layer-spacing") {
		opts.LayerSpacing = f.layerSpacing
	}
	if cmd.Flags().Changed("node-spacing") {
		opts.NodeSpacing = f.nodeSpacing
	}
	opts.Refresh = f.refresh
	return opts
}

// layoutCommand creates the layout command for computing node-link layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		asGraph bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [bundle.json]",
		Short: "Compute the layered layout of a concept hierarchy",
		Long: `Compute the layered layout of a concept hierarchy.

Concepts are placed in layers of at most --max-width nodes in topological
order: a layer fills up before the next one starts. Concepts that cannot be placed because they
lie on or below a cycle are dropped and reported.

The output is layout JSON, or with --graph a graph JSON document with each
node's layer stored as its row. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags.options(c, cmd), output, noCache, asGraph)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asGraph, "graph", false, "write graph JSON instead of layout JSON")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, asGraph bool) error {
	_, in, err := loadInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	l, hit, err := runner.Layout(ctx, in, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if asGraph {
		g, err := l.DAG()
		if err != nil {
			return err
		}
		if err := io.WriteGraph(g, &buf); err != nil {
			return err
		}
	} else if err := io.WriteResult(&buf, l); err != nil {
		return err
	}
	if err := writeOutput(output, buf.Bytes()); err != nil {
		return err
	}

	w := os.Stderr
	printStats(w, []string{
		strconv.Itoa(len(l.Nodes)) + " nodes",
		strconv.Itoa(len(l.Layers)) + " layers",
		strconv.Itoa(l.Crossings) + " crossings",
	}, hit)
	if len(l.Dropped) > 0 {
		printWarning(w, "%d concepts dropped (%d cycles)", len(l.Dropped), len(l.Cycles))
	}
	if output != "" {
		printFile(w, output)
	}
	return nil
}
