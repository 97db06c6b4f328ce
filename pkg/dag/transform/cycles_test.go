package transform

import (
	"reflect"
	"testing"

	"github.com/matzehuels/conceptree/pkg/dag"
)

func graphOf(t *testing.T, ids []string, edges ...[2]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		edges     [][2]string
		wantRemov int
		wantEdges int
	}{
		{
			name:      "no cycles",
			ids:       []string{"a", "b", "c"},
			edges:     [][2]string{{"a", "b"}, {"b", "c"}},
			wantRemov: 0,
			wantEdges: 2,
		},
		{
			name:      "two node cycle",
			ids:       []string{"a", "b"},
			edges:     [][2]string{{"a", "b"}, {"b", "a"}},
			wantRemov: 1,
			wantEdges: 1,
		},
		{
			name:      "triangle",
			ids:       []string{"a", "b", "c"},
			edges:     [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			wantRemov: 1,
			wantEdges: 2,
		},
		{
			name:      "two separate cycles",
			ids:       []string{"a", "b", "c", "d"},
			edges:     [][2]string{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}},
			wantRemov: 2,
			wantEdges: 2,
		},
		{
			name:      "diamond",
			ids:       []string{"a", "b", "c", "d"},
			edges:     [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			wantRemov: 0,
			wantEdges: 4,
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.ids, tt.edges...)
			if got := BreakCycles(g); got != tt.wantRemov {
				t.Errorf("BreakCycles() removed %d edges, want %d", got, tt.wantRemov)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() after BreakCycles = %v", err)
			}
		})
	}
}

func TestStronglyConnected(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  [][]string
	}{
		{
			name:  "acyclic",
			ids:   []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}},
			want:  nil,
		},
		{
			name:  "cycle below root",
			ids:   []string{"root", "x", "y", "z"},
			edges: [][2]string{{"root", "x"}, {"x", "y"}, {"y", "z"}, {"z", "x"}},
			want:  [][]string{{"x", "y", "z"}},
		},
		{
			name:  "two cycles ordered by first member",
			ids:   []string{"p", "q", "a", "b"},
			edges: [][2]string{{"b", "a"}, {"a", "b"}, {"q", "p"}, {"p", "q"}},
			want:  [][]string{{"p", "q"}, {"a", "b"}},
		},
		{
			name: "empty",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.ids, tt.edges...)
			if got := StronglyConnected(g); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StronglyConnected() = %v, want %v", got, tt.want)
			}
		})
	}
}
