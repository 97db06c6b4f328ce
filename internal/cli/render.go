package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (multiple)
	formats    []string // output formats: "svg", "png", "dot", "json"
	detailed   bool     // show id, layer and record counts on each node
	keepLayers bool     // pin nodes of a layer to one Graphviz rank
	noCache    bool     // disable caching
}

// renderCommand creates the render command for generating node-link drawings.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		flags      layoutFlags
		opts       renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [bundle.json]",
		Short: "Draw a concept hierarchy as a node-link diagram",
		Long: `Draw a concept hierarchy as a node-link diagram.

The hierarchy is laid out first (see 'layout'), then drawn with Graphviz.
With several formats, -o is a base path and each file gets the format's
extension. Layouts and drawings are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags.options(c, cmd), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show concept id, layer and record count")
	cmd.Flags().BoolVar(&opts.keepLayers, "keep-layers", false, "keep the computed layers as Graphviz ranks")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinPath {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps every format to the file it is written to. A single
// format with an explicit output is written there verbatim. A derived path
// never replaces the input bundle.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		p := base + "." + f
		if filepath.Clean(p) == filepath.Clean(input) {
			p = base + ".layout." + f
		}
		paths[f] = p
	}
	return paths
}

func (c *CLI) runRender(ctx context.Context, input string, lopts pipeline.Options, opts *renderOpts) error {
	c.Logger.Infof("Rendering %s", input)

	_, in, err := loadInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	lopts.Formats = opts.formats
	lopts.Detailed = opts.detailed
	lopts.KeepLayers = opts.keepLayers

	prog := newProgress(c.Logger)
	l, layoutHit, err := runner.Layout(ctx, in, lopts)
	if err != nil {
		return err
	}
	if len(l.Dropped) > 0 {
		printWarning(os.Stderr, "%d concepts dropped (%d cycles)", len(l.Dropped), len(l.Cycles))
	}
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, lopts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes in %d layers", len(l.Nodes), len(l.Layers)))

	paths := outputPaths(opts.output, input, opts.formats)
	formats := slices.Sorted(maps.Keys(paths))
	for _, f := range formats {
		if err := os.WriteFile(paths[f], artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess(os.Stderr, "Rendered %s", strings.Join(formats, ", "))
	printStats(os.Stderr, []string{
		fmt.Sprintf("%d nodes", len(l.Nodes)),
		fmt.Sprintf("%d edges", len(l.Edges)),
	}, layoutHit && renderHit)
	for _, f := range formats {
		printFile(os.Stderr, paths[f])
	}
	return nil
}
