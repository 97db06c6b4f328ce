package io

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/conceptree/pkg/dag"
)

var kindToString = map[dag.NodeKind]string{
	dag.NodeKindSynthetic: "synthetic",
}

var kindFromString = map[string]dag.NodeKind{
	"synthetic": dag.NodeKindSynthetic,
}

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Row  *int         `json:"row,omitempty"`
	Kind string       `json:"kind,omitempty"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteGraph encodes a graph as JSON and writes it to w. Rows are written
// only when non-zero, synthetic nodes carry kind "synthetic". The output can
// be read back with [ReadGraph].
func WriteGraph(g *dag.DAG, w io.Writer) error {
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID, Meta: n.Meta, Kind: kindToString[n.Kind]}
		if n.Row != 0 {
			row := n.Row
			nd.Row = &row
		}
		if len(nd.Meta) == 0 {
			nd.Meta = nil
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	return writeIndented(w, out)
}

// ReadGraph decodes a JSON graph written by [WriteGraph]. Node and edge
// errors from the dag package are wrapped with the offending id.
func ReadGraph(r io.Reader) (*dag.DAG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New(nil)
	for _, n := range data.Nodes {
		nd := dag.Node{ID: n.ID, Meta: n.Meta, Kind: kindFromString[n.Kind]}
		if n.Row != nil {
			nd.Row = *n.Row
		}
		if err := g.AddNode(nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ExportGraph writes g to the file at path.
func ExportGraph(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
