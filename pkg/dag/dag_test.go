package dag

import (
	"errors"
	"slices"
	"testing"
)

func build(t *testing.T, ids []string, edges [][2]string) *DAG {
	t.Helper()
	g := New(nil)
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a): %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want ErrDuplicateNodeID", err)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := build(t, []string{"a", "b"}, nil)

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
		{"self loop", Edge{From: "a", To: "a"}, ErrSelfLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
		})
	}

	if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil {
		t.Fatalf("AddEdge(a->b): %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "b"}); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("AddEdge(a->b) twice = %v, want ErrDuplicateEdge", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestSourcesSinksIsolatedOrder(t *testing.T) {
	g := build(t, []string{"d", "a", "b", "c", "e"}, [][2]string{{"a", "b"}, {"a", "c"}})

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"d", "a", "e"}) {
		t.Errorf("Sources() = %v, want [d a e]", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"d", "b", "c", "e"}) {
		t.Errorf("Sinks() = %v, want [d b c e]", got)
	}
	if got := NodeIDs(g.Isolated()); !slices.Equal(got, []string{"d", "e"}) {
		t.Errorf("Isolated() = %v, want [d e]", got)
	}
}

func TestRemoveNode(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	g.RemoveNode("b")

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	if g.HasEdge("a", "b") || g.OutDegree("a") != 0 || g.InDegree("c") != 0 {
		t.Error("edges of removed node should be gone")
	}
	if got := g.NodeIDs(); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("NodeIDs() = %v, want [a c]", got)
	}
	g.RemoveNode("missing")
}

func TestClone(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	n, _ := g.Node("a")
	n.Meta["name"] = "root"

	c := g.Clone()
	c.RemoveEdge("a", "b")
	cn, _ := c.Node("a")
	cn.Meta["name"] = "changed"

	if !g.HasEdge("a", "b") {
		t.Error("removing an edge from the clone affected the original")
	}
	if n.Meta["name"] != "root" {
		t.Error("clone metadata should be independent")
	}
	if c.NodeCount() != 2 || c.EdgeCount() != 0 {
		t.Errorf("clone has %d nodes / %d edges, want 2 / 0", c.NodeCount(), c.EdgeCount())
	}
}

func TestValidate(t *testing.T) {
	acyclic := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}})
	if err := acyclic.Validate(); err != nil {
		t.Errorf("Validate(diamond) = %v, want nil", err)
	}

	cyclic := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}})
	if err := cyclic.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate(cycle) = %v, want ErrGraphHasCycle", err)
	}
}

func TestSetRows(t *testing.T) {
	g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"a", "c"}})
	g.SetRows(map[string]int{"b": 1, "c": 1})

	if got := g.RowIDs(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("RowIDs() = %v, want [0 1]", got)
	}
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("NodesInRow(1) = %v, want [b c]", got)
	}
}

func TestCountCrossings(t *testing.T) {
	g := build(t, []string{"a", "b", "x", "y"}, [][2]string{{"a", "y"}, {"b", "x"}})

	if got := CountCrossings(g, [][]string{{"a", "b"}, {"x", "y"}}); got != 1 {
		t.Errorf("CountCrossings(crossed) = %d, want 1", got)
	}
	if got := CountCrossings(g, [][]string{{"a", "b"}, {"y", "x"}}); got != 0 {
		t.Errorf("CountCrossings(uncrossed) = %d, want 0", got)
	}
	if got := CountCrossings(g, nil); got != 0 {
		t.Errorf("CountCrossings(nil) = %d, want 0", got)
	}
}
