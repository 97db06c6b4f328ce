package cli

import (
	"os"

	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/io"
	"github.com/matzehuels/conceptree/pkg/pipeline"
)

// stdinPath reads the bundle from standard input.
const stdinPath = "-"

// loadInput reads a concept bundle from path, or stdin for "-".
func loadInput(path string) (*io.Bundle, pipeline.Input, error) {
	var (
		b   *io.Bundle
		err error
	)
	if path == stdinPath {
		b, err = io.ReadBundle(os.Stdin)
	} else {
		b, err = io.ImportBundle(path)
	}
	if err != nil {
		return nil, pipeline.Input{}, err
	}
	return b, pipeline.Input{
		Concepts:       b.Concepts,
		Edges:          b.Edges,
		Categories:     b.Categories(),
		HighlightPaths: b.HighlightPaths,
	}, nil
}

// viewConfig returns the visibility configuration for a run: the file at
// path when given, else the one embedded in the bundle, else the default.
// A zero MaxRows is filled from the settings.
func (c *CLI) viewConfig(b *io.Bundle, path string) (hierarchy.Config, error) {
	var cfg hierarchy.Config
	switch {
	case path != "":
		var err error
		if cfg, err = io.ImportConfig(path); err != nil {
			return cfg, err
		}
	case b != nil && b.Config != nil:
		cfg = b.Config.Clone()
	default:
		cfg = hierarchy.DefaultConfig()
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = c.Settings.Resolve.MaxRows
	}
	return cfg, nil
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
