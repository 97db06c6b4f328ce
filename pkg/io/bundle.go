package io

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
)

// Bundle is the input handed to the engine by the concept-set host: the
// concepts and edges of the hierarchy, category memberships, and the ids the
// concept set was defined with.
type Bundle struct {
	Concepts        []hierarchy.Concept   `json:"concepts"`
	Edges           []hierarchy.Edge      `json:"edges"`
	SpecialConcepts hierarchy.Categories  `json:"special_concepts,omitempty"`
	ConceptIDs      []hierarchy.ConceptID `json:"concept_ids,omitempty"`
	Config          *hierarchy.Config     `json:"config,omitempty"`

	// HighlightPaths maps concepts the host wants surfaced first among their
	// siblings to their path from the displayed node.
	HighlightPaths map[hierarchy.ConceptID][]hierarchy.ConceptID `json:"highlight_paths,omitempty"`
}

// Categories returns the bundle's category memberships. The concepts category
// defaults to concept_ids, and nonStandard and zeroRecord are derived from
// the concepts when absent.
func (b *Bundle) Categories() hierarchy.Categories {
	cats := b.SpecialConcepts.Clone()
	if _, ok := cats[hierarchy.CatConcepts]; !ok && len(b.ConceptIDs) > 0 {
		cats[hierarchy.CatConcepts] = append([]hierarchy.ConceptID(nil), b.ConceptIDs...)
	}
	return hierarchy.DeriveCategories(b.Concepts, cats)
}

// ReadBundle decodes a bundle from r. A bundle without concepts is rejected
// with an invalid-input error.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode bundle")
	}
	if len(b.Concepts) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "bundle has no concepts")
	}
	return &b, nil
}

// ImportBundle reads the bundle file at path.
func ImportBundle(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadBundle(f)
}

// ReadConfig decodes a visibility configuration. Empty input yields the zero
// configuration.
func ReadConfig(r io.Reader) (hierarchy.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return hierarchy.Config{}, err
	}
	var cfg hierarchy.Config
	if len(data) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode visibility config")
	}
	return cfg, nil
}

// ImportConfig reads the visibility configuration file at path.
func ImportConfig(path string) (hierarchy.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return hierarchy.Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// Result is what a resolution hands back to the host.
type Result struct {
	Rows          []*hierarchy.Row         `json:"rows"`
	DisplayConfig *hierarchy.DisplayConfig `json:"displayConfig,omitempty"`
	Config        hierarchy.Config         `json:"config"`
}

// WriteResult encodes any result value as indented JSON.
func WriteResult(w io.Writer, v any) error {
	return writeIndented(w, v)
}
