// Package pipeline runs the build → resolve/layout → render stages that the
// CLI and the HTTP API share.
//
// # Stages
//
//  1. Build: construct the hierarchy and compute attributes
//  2. Resolve: visibility rows and display statistics for a configuration
//  3. Layout: width-bounded layers of the hierarchy graph (cached)
//  4. Render: DOT, SVG, PNG or JSON of the layout (cached)
//
// Resolve and layout only read the built hierarchy, so [Runner.Execute] runs
// them concurrently.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Input{
//	    Concepts:   bundle.Concepts,
//	    Edges:      bundle.Edges,
//	    Categories: bundle.Categories(),
//	}, pipeline.Options{Formats: []string{pipeline.FormatSVG}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptree/pkg/cache"
	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/layout"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Input and Options
// =============================================================================

// Input is the data a pipeline run works on.
type Input struct {
	Concepts   []hierarchy.Concept  `json:"concepts"`
	Edges      []hierarchy.Edge     `json:"edges"`
	Categories hierarchy.Categories `json:"special_concepts,omitempty"`

	HighlightPaths map[hierarchy.ConceptID][]hierarchy.ConceptID `json:"highlight_paths,omitempty"`
}

// Hash returns the content hash of the concepts and edges. Categories and
// highlight paths do not change the graph and are left out.
func (in Input) Hash() (string, error) {
	return cache.HashJSON(struct {
		Concepts []hierarchy.Concept `json:"concepts"`
		Edges    []hierarchy.Edge    `json:"edges"`
	}{in.Concepts, in.Edges})
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Resolve options
	Config          hierarchy.Config         `json:"config"`
	PreviousDisplay *hierarchy.DisplayConfig `json:"previous_display,omitempty"`

	// Layout options; SkipLayout also skips rendering.
	MaxWidth     int     `json:"max_width,omitempty"`
	LayerSpacing float64 `json:"layer_spacing,omitempty"`
	NodeSpacing  float64 `json:"node_spacing,omitempty"`
	SkipLayout   bool    `json:"skip_layout,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
	KeepLayers bool     `json:"keep_layers,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Logger defaults to the runner's logger.
	Logger *log.Logger `json:"-"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.MaxWidth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max_width must not be negative, got %d", o.MaxWidth)
	}
	if o.Config.MaxRows < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max_rows must not be negative, got %d", o.Config.MaxRows)
	}
	return ValidateFormats(o.Formats)
}

// LayoutOptions returns the options for the layout package.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		MaxWidth:     o.MaxWidth,
		LayerSpacing: o.LayerSpacing,
		NodeSpacing:  o.NodeSpacing,
		Logger:       o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for layout computation. Defaults
// are resolved first so that explicit and implicit defaults share a key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{MaxWidth: o.MaxWidth, LayerSpacing: o.LayerSpacing, NodeSpacing: o.NodeSpacing}
	if k.MaxWidth == 0 {
		k.MaxWidth = layout.DefaultMaxWidth
	}
	if k.LayerSpacing == 0 {
		k.LayerSpacing = layout.DefaultLayerSpacing
	}
	if k.NodeSpacing == 0 {
		k.NodeSpacing = layout.DefaultNodeSpacing
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed, KeepLayers: o.KeepLayers}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Hierarchy     *hierarchy.Hierarchy
	HierarchyHash string

	Resolution    *hierarchy.Resolution
	DisplayConfig *hierarchy.DisplayConfig

	// Config is the input configuration with missing treatments seeded.
	Config hierarchy.Config

	Layout    *layout.Layout
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	RowCount    int
	VisibleRows int
	BuildTime   time.Duration
	ResolveTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
