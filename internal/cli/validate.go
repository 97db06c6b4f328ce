package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptree/pkg/dag"
	"github.com/matzehuels/conceptree/pkg/dag/transform"
	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/layout"
)

// validateCommand creates the validate command. It checks a bundle for the
// structural errors that would abort a resolution and names the concepts
// taking part in each cycle.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [bundle.json]",
		Short: "Check a concept bundle for structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, in, err := loadInput(args[0])
			if err != nil {
				return err
			}
			return c.runValidate(os.Stderr, in.Concepts, in.Edges)
		},
	}
}

func (c *CLI) runValidate(w io.Writer, concepts []hierarchy.Concept, edges []hierarchy.Edge) error {
	h, err := hierarchy.Build(concepts, edges)
	if err != nil {
		printError(w, "%s", errs.UserMessage(err))
		return err
	}

	printKeyValue(w, "Concepts", strconv.Itoa(len(concepts)))
	printKeyValue(w, "Edges", strconv.Itoa(len(edges)))
	printKeyValue(w, "Roots", strconv.Itoa(len(h.Roots())))
	printKeyValue(w, "Leaves", strconv.Itoa(len(h.Leaves())))
	printKeyValue(w, "Unlinked", strconv.Itoa(len(h.Unlinked())))

	lopts := c.Settings.Layout.Options()
	lopts.Logger = c.Logger
	l := layout.Compute(h, lopts)
	printKeyValue(w, "Layers", strconv.Itoa(len(l.Layers)))

	attrErr := h.ComputeAttributes()
	if attrErr == nil {
		printSuccess(w, "Hierarchy is valid")
		return nil
	}

	printError(w, "%s", errs.UserMessage(attrErr))
	if g := h.GraphCopy(); errors.Is(g.Validate(), dag.ErrGraphHasCycle) {
		for i, comp := range transform.StronglyConnected(g) {
			printDetail(w, "cycle %d: %s", i+1, strings.Join(comp, " → "))
		}
		printDetail(w, "%d back edges to remove for an acyclic hierarchy", transform.BreakCycles(g))
		if len(l.Dropped) > 0 {
			printWarning(w, "%d concepts cannot be placed in a layer", len(l.Dropped))
		}
	}
	return fmt.Errorf("validate: %w", attrErr)
}
