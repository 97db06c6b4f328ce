package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
)

func TestRunValidate(t *testing.T) {
	concepts := []hierarchy.Concept{
		{ConceptID: "A", ConceptName: "Diabetes"},
		{ConceptID: "B", ConceptName: "Type 1"},
		{ConceptID: "C", ConceptName: "Juvenile"},
		{ConceptID: "X", ConceptName: "Loose"},
	}

	tests := []struct {
		name     string
		edges    []hierarchy.Edge
		wantCode errs.Code
		wantOut  []string
	}{
		{
			name:    "acyclic",
			edges:   []hierarchy.Edge{{"A", "B"}, {"B", "C"}},
			wantOut: []string{"Hierarchy is valid"},
		},
		{
			name:     "cycle",
			edges:    []hierarchy.Edge{{"A", "B"}, {"B", "C"}, {"C", "B"}},
			wantCode: errs.ErrCodeCycleDetected,
			wantOut:  []string{"cycle 1:", "1 back edges to remove", "2 concepts cannot be placed"},
		},
		{
			name:     "dangling edge",
			edges:    []hierarchy.Edge{{"A", "Z"}},
			wantCode: errs.ErrCodeDanglingEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, log.ErrorLevel)
			var buf bytes.Buffer
			err := c.runValidate(&buf, concepts, tt.edges)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("runValidate: %v", err)
				}
			} else if !errs.Is(err, tt.wantCode) {
				t.Fatalf("runValidate error = %v, want code %s", err, tt.wantCode)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output lacks %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
