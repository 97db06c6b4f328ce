package hierarchy

import (
	"cmp"
	"math"
	"slices"

	errs "github.com/matzehuels/conceptree/pkg/errors"
)

// Reason names why a row was hidden or shown.
type Reason string

const (
	ReasonNonRoot               Reason = "nonRoot"
	ReasonDescendantOfCollapsed Reason = "descendantOfCollapsed"
	ReasonChildOfExpanded       Reason = "childOfExpanded"
	ReasonDuplicate             Reason = "duplicate"
)

// Result is the final visibility decision of a row.
type Result string

const (
	ResultUnset Result = ""
	ResultShow  Result = "show"
	ResultHide  Result = "hide"
)

// Display records the rationale behind a row's visibility. Reason values hold
// the row path that caused the reason, or "" when no row did.
type Display struct {
	HideReasons map[Reason]string `json:"hideReasons"`
	ShowReasons map[Reason]string `json:"showReasons"`
	Result      Result            `json:"result"`
}

// Row is one occurrence of a node in the flattened tree. A node with several
// parents yields one row per path from a root.
type Row struct {
	ConceptID ConceptID `json:"concept_id"`
	Depth     int       `json:"depth"`
	RowPath   string    `json:"rowPath"`

	// NodeOccurrence is the 0-based index of this row among the visible
	// occurrences of the same concept; -1 for rows hidden before duplicate
	// suppression.
	NodeOccurrence int     `json:"nodeOccurrence"`
	Display        Display `json:"display"`

	// Node is shared with the Hierarchy and must not be modified.
	Node *Node `json:"node"`
}

// Visible reports whether the row ends up displayed.
func (r *Row) Visible() bool { return r.Display.Result != ResultHide }

func (r *Row) hide(reason Reason, cause string) {
	r.Display.HideReasons[reason] = cause
	r.Display.Result = ResultHide
}

func (r *Row) show(reason Reason, cause string) {
	r.Display.ShowReasons[reason] = cause
	r.Display.Result = ResultShow
}

// Resolution is the outcome of one visibility pass.
type Resolution struct {
	// Rows are the visible rows in pre-order.
	Rows []*Row `json:"rows"`

	// AllRows holds every enumerated occurrence, visible or not.
	AllRows []*Row `json:"-"`

	// AllButFirstOccurrence lists the row paths of repeated occurrences among
	// the rows that survived expand/collapse, whether or not they were hidden.
	AllButFirstOccurrence []string `json:"allButFirstOccurrence"`

	// Categories are the memberships the pass was resolved against.
	Categories Categories `json:"-"`
}

// Members returns the members of a category as strings: row paths for
// allButFirstOccurrence, concept ids otherwise.
func (r *Resolution) Members(cat Category) []string {
	if cat == CatAllButFirstOccurrence {
		return slices.Clone(r.AllButFirstOccurrence)
	}
	ids := r.Categories[cat]
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// VisibleIDs returns the set of concept ids with at least one visible row.
func (r *Resolution) VisibleIDs() map[ConceptID]struct{} {
	set := make(map[ConceptID]struct{}, len(r.Rows))
	for _, row := range r.Rows {
		set[row.ConceptID] = struct{}{}
	}
	return set
}

// Resolve computes the visible rows for one configuration:
//
//  1. flatten every occurrence reachable from the roots, siblings sorted
//  2. unless ExpandAll, hide every row below depth 0 (nonRoot)
//  3. apply path overrides in row order, skipping rows already hidden:
//     collapse hides all descendant rows, expand shows direct children
//  4. among the rows still visible, record repeated occurrences in
//     allButFirstOccurrence and hide them when that treatment is on
//
// Override paths that match no row are ignored. Category treatments other
// than allButFirstOccurrence are read only by [ComputeDisplayConfig].
//
// Resolve does not modify h, cats or cfg.
func (h *Hierarchy) Resolve(cats Categories, cfg Config) (*Resolution, error) {
	if !h.computed {
		return nil, errs.New(errs.ErrCodeInternal, "resolve before attributes are computed")
	}
	all, err := h.flatten(cfg.MaxRows)
	if err != nil {
		return nil, err
	}

	if !cfg.ExpandAll {
		for _, r := range all {
			if r.Depth > 0 {
				r.hide(ReasonNonRoot, "")
			}
		}
	}

	for i, r := range all {
		if r.Display.Result == ResultHide {
			continue
		}
		switch cfg.SpecificPaths[r.RowPath] {
		case Collapse:
			for _, d := range descendantRows(all, i, -1) {
				d.hide(ReasonDescendantOfCollapsed, r.RowPath)
			}
		case Expand:
			for _, d := range descendantRows(all, i, 1) {
				d.show(ReasonChildOfExpanded, r.RowPath)
			}
		}
	}

	res := &Resolution{AllRows: all, Categories: cats.Clone()}
	hideDup := cfg.Treatment(CatAllButFirstOccurrence)
	seen := make(map[ConceptID]int)
	for _, r := range all {
		if r.Display.Result == ResultHide {
			r.NodeOccurrence = -1
			continue
		}
		n := seen[r.ConceptID]
		if n > 0 {
			res.AllButFirstOccurrence = append(res.AllButFirstOccurrence, r.RowPath)
			if hideDup {
				r.hide(ReasonDuplicate, "")
			}
		}
		r.NodeOccurrence = n
		seen[r.ConceptID] = n + 1
	}

	for _, r := range all {
		if r.Visible() {
			res.Rows = append(res.Rows, r)
		}
	}
	return res, nil
}

// WholeHierarchy returns every occurrence in sorted pre-order, ignoring
// visibility.
func (h *Hierarchy) WholeHierarchy() ([]*Row, error) {
	if !h.computed {
		return nil, errs.New(errs.ErrCodeInternal, "attributes are not computed")
	}
	return h.flatten(0)
}

// flatten enumerates every occurrence of every node reachable from a root
// using an explicit stack. maxRows > 0 bounds the output.
func (h *Hierarchy) flatten(maxRows int) ([]*Row, error) {
	type item struct {
		id         ConceptID
		parentPath string
		depth      int
	}

	sortedKids := make(map[ConceptID][]ConceptID)
	roots := h.sortSiblings(h.roots)
	stack := make([]item, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, item{id: roots[i]})
	}

	var rows []*Row
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, ok := h.nodes[it.id]
		if !ok {
			return nil, errs.New(errs.ErrCodeInternal, "row references unknown node %s", it.id)
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, errs.New(errs.ErrCodeTooLarge, "hierarchy expands to more than %d rows", maxRows)
		}
		row := &Row{
			ConceptID: it.id,
			Depth:     it.depth,
			RowPath:   it.parentPath + "/" + string(it.id),
			Display: Display{
				HideReasons: map[Reason]string{},
				ShowReasons: map[Reason]string{},
			},
			Node: n,
		}
		rows = append(rows, row)

		if len(n.ChildIDs) == 0 {
			continue
		}
		kids, ok := sortedKids[it.id]
		if !ok {
			kids = h.sortSiblings(n.ChildIDs)
			sortedKids[it.id] = kids
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{id: kids[i], parentPath: row.RowPath, depth: it.depth + 1})
		}
	}
	return rows, nil
}

// descendantRows returns the rows after idx that are deeper than rows[idx],
// up to the next row at the same depth or shallower. howDeep < 0 means no
// depth limit; howDeep == 1 returns direct children only.
func descendantRows(rows []*Row, idx, howDeep int) []*Row {
	parent := rows[idx]
	var out []*Row
	for i := idx + 1; i < len(rows) && rows[i].Depth > parent.Depth; i++ {
		if howDeep < 0 || rows[i].Depth <= parent.Depth+howDeep {
			out = append(out, rows[i])
		}
	}
	return out
}

// sortKey orders siblings ascending: highlighted leaves first, then by
// highlight path length, then by descending drc. The unlinked node is last.
func sortKey(n *Node) int64 {
	if n.NotAConcept {
		return math.MaxInt64
	}
	var k int64
	if n.PathFromDisplayedNode != nil && !n.HasChildren {
		k -= 1_000_000_000
	}
	k += int64(len(n.PathFromDisplayedNode)) * 1_000_000
	return k - n.DRC
}

func (h *Hierarchy) sortSiblings(ids []ConceptID) []ConceptID {
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b ConceptID) int {
		return cmp.Compare(sortKey(h.nodes[a]), sortKey(h.nodes[b]))
	})
	return out
}
