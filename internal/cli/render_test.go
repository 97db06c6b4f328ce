package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
		{"spaces and empties", " svg, ,png ", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derived from input", "", "data/diabetes.json", "data/diabetes"},
		{"stdin input", "", "-", "conceptree"},
		{"format extension stripped", "out/tree.svg", "in.json", "out/tree"},
		{"other extension kept", "out/tree.v2", "in.json", "out/tree.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("tree.out", "in.json", []string{"svg"})
	if single["svg"] != "tree.out" {
		t.Errorf("single format path = %q, want tree.out", single["svg"])
	}

	multi := outputPaths("", "in.json", []string{"svg", "png"})
	if multi["svg"] != "in.svg" || multi["png"] != "in.png" {
		t.Errorf("multi format paths = %v", multi)
	}

	clash := outputPaths("", "in.json", []string{"json", "dot"})
	if clash["json"] != "in.layout.json" {
		t.Errorf("json path = %q, want in.layout.json", clash["json"])
	}
}

func TestLayoutFlags(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	c.Settings.Layout.MaxWidth = 7

	var flags layoutFlags
	cmd := &cobra.Command{Use: "x"}
	flags.register(cmd)
	if err := cmd.ParseFlags([]string{"--node-spacing", "50"}); err != nil {
		t.Fatal(err)
	}

	opts := flags.options(c, cmd)
	if opts.MaxWidth != 7 {
		t.Errorf("MaxWidth = %d, want settings value 7", opts.MaxWidth)
	}
	if opts.NodeSpacing != 50 {
		t.Errorf("NodeSpacing = %v, want flag value 50", opts.NodeSpacing)
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	in := writeBundle(t, dir)

	c := New(os.Stderr, log.ErrorLevel)
	c.Settings.Cache.Disabled = true
	root := c.RootCommand()
	root.SetArgs([]string{"render", in, "-f", "dot,json", "--keep-layers"})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	dot, err := os.ReadFile(filepath.Join(dir, "bundle.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "rank=same") {
		t.Errorf("dot output lacks rank constraints:\n%s", dot)
	}
	if _, err := os.Stat(filepath.Join(dir, "bundle.layout.json")); err != nil {
		t.Errorf("json layout not written: %v", err)
	}
}
