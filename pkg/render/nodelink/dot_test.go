package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/conceptree/pkg/dag"
)

func testGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	nodes := []dag.Node{
		{ID: "A", Meta: dag.Metadata{"label": "Diabetes", "drc": int64(11)}},
		{ID: "unlinked", Kind: dag.NodeKindSynthetic},
		{ID: "B", Row: 1, Meta: dag.Metadata{"label": "Type 2"}},
		{ID: "X", Row: 1},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range [][2]string{{"A", "B"}, {"unlinked", "X"}} {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge: %v", err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	for _, want := range []string{
		`"A" [label="Diabetes"];`,
		`"X" [label="X"];`,
		`"unlinked" [label="unlinked", style="rounded,filled,dashed"`,
		`"A" -> "B";`,
		`"unlinked" -> "X";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "rank=same") {
		t.Error("rank groups written without KeepLayers")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{Detailed: true, KeepLayers: true})

	for _, want := range []string{
		`{ rank=same; "A"; "unlinked"; }`,
		`{ rank=same; "B"; "X"; }`,
		`label="Diabetes\nA\nrow: 0\ndrc: 11"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox = %s", got)
	}
	if plain := []byte("<svg></svg>"); string(normalizeViewBox(plain)) != "<svg></svg>" {
		t.Error("svg without viewBox changed")
	}
}
