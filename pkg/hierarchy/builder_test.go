package hierarchy

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/conceptree/pkg/dag"
	errs "github.com/matzehuels/conceptree/pkg/errors"
)

func concepts(ids ...ConceptID) []Concept {
	out := make([]Concept, len(ids))
	for i, id := range ids {
		out[i] = Concept{ConceptID: id, ConceptName: "concept " + string(id)}
	}
	return out
}

func withCounts(cs []Concept, counts map[ConceptID]Count) []Concept {
	for i := range cs {
		cs[i].TotalCnt = counts[cs[i].ConceptID]
	}
	return cs
}

// abc is the diamond-ish example: C has two parents.
func abc(t *testing.T) *Hierarchy {
	t.Helper()
	cs := withCounts(concepts("A", "B", "C"), map[ConceptID]Count{"A": 10, "B": 5, "C": 1})
	cs[0].StandardConcept, cs[1].StandardConcept = "S", "S"
	h, err := New(cs, []Edge{{"A", "B"}, {"A", "C"}, {"B", "C"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		concepts []Concept
		edges    []Edge
		code     errs.Code
		sentinel error
	}{
		{
			name:     "duplicate concept",
			concepts: concepts("A", "B", "A"),
			code:     errs.ErrCodeDuplicateConcept,
			sentinel: dag.ErrDuplicateNodeID,
		},
		{
			name:     "unknown child",
			concepts: concepts("A"),
			edges:    []Edge{{"A", "Z"}},
			code:     errs.ErrCodeDanglingEdge,
			sentinel: dag.ErrUnknownTargetNode,
		},
		{
			name:     "unknown parent",
			concepts: concepts("A"),
			edges:    []Edge{{"Z", "A"}},
			code:     errs.ErrCodeDanglingEdge,
			sentinel: dag.ErrUnknownSourceNode,
		},
		{
			name:     "self loop",
			concepts: concepts("A"),
			edges:    []Edge{{"A", "A"}},
			code:     errs.ErrCodeInvalidEdge,
			sentinel: dag.ErrSelfLoop,
		},
		{
			name:     "parallel edge",
			concepts: concepts("A", "B"),
			edges:    []Edge{{"A", "B"}, {"A", "B"}},
			code:     errs.ErrCodeInvalidEdge,
			sentinel: dag.ErrDuplicateEdge,
		},
		{
			name:     "empty id",
			concepts: concepts(""),
			code:     errs.ErrCodeInvalidInput,
			sentinel: dag.ErrInvalidNodeID,
		},
		{
			name:     "reserved id",
			concepts: concepts(UnlinkedID),
			code:     errs.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.concepts, tt.edges)
			if !errs.Is(err, tt.code) {
				t.Fatalf("Build() error = %v, want code %s", err, tt.code)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("Build() error = %v, want wrapped %v", err, tt.sentinel)
			}
			if !errs.IsStructural(err) && tt.code != errs.ErrCodeInvalidInput {
				t.Errorf("IsStructural(%v) = false", err)
			}
		})
	}
}

func TestBuildUnlinked(t *testing.T) {
	h, err := Build(concepts("A", "B", "D", "E"), []Edge{{"A", "B"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got, want := h.Roots(), []ConceptID{"A", UnlinkedID}; !slices.Equal(got, want) {
		t.Errorf("Roots() = %v, want %v", got, want)
	}
	if got, want := h.Unlinked(), []ConceptID{"D", "E"}; !slices.Equal(got, want) {
		t.Errorf("Unlinked() = %v, want %v", got, want)
	}
	if got, want := h.Leaves(), []ConceptID{"B", "D", "E"}; !slices.Equal(got, want) {
		t.Errorf("Leaves() = %v, want %v", got, want)
	}
	n, ok := h.Node(UnlinkedID)
	if !ok || !n.NotAConcept || n.ConceptName != unlinkedName || n.VocabularyID != "--" {
		t.Errorf("unlinked node = %+v", n)
	}
	if h.Len() != 5 {
		t.Errorf("Len() = %d, want 5", h.Len())
	}
}

func TestBuildWithoutUnlinked(t *testing.T) {
	h, err := Build(concepts("A", "B"), []Edge{{"A", "B"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := h.Node(UnlinkedID); ok {
		t.Error("unlinked node added although every concept has an edge")
	}
	if got := h.Roots(); !slices.Equal(got, []ConceptID{"A"}) {
		t.Errorf("Roots() = %v, want [A]", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	h, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.Len() != 0 || len(h.Roots()) != 0 {
		t.Errorf("empty hierarchy has %d nodes, roots %v", h.Len(), h.Roots())
	}
	res, err := h.Resolve(nil, Config{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("Rows = %d, want 0", len(res.Rows))
	}
}
