package pipeline

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/conceptree/pkg/layout"
	"github.com/matzehuels/conceptree/pkg/observability"
	"github.com/matzehuels/conceptree/pkg/render/nodelink"
)

// Render produces the given formats from a layout.
func Render(ctx context.Context, l *layout.Layout, formats []string, opts Options) (map[string][]byte, error) {
	g, err := l.DAG()
	if err != nil {
		return nil, fmt.Errorf("rebuild layout graph: %w", err)
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, KeepLayers: opts.KeepLayers})

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		observability.Pipeline().OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(l, "", "  ")
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		default:
			err = ValidateFormat(format)
		}

		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
