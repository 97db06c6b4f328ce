package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptree/pkg/dag"
	"github.com/matzehuels/conceptree/pkg/dag/transform"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
)

// Default layout parameters.
const (
	DefaultMaxWidth     = 12
	DefaultLayerSpacing = 120.0
	DefaultNodeSpacing  = 120.0
	DefaultNodeSize     = 4.0
)

// Options controls layer assignment and coordinates. Zero values fall back to
// the package defaults.
type Options struct {
	MaxWidth     int     `json:"max_width,omitempty"`
	LayerSpacing float64 `json:"layer_spacing,omitempty"`
	NodeSpacing  float64 `json:"node_spacing,omitempty"`
	NodeSize     float64 `json:"node_size,omitempty"`

	Logger *log.Logger `json:"-"`
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.LayerSpacing <= 0 {
		o.LayerSpacing = DefaultLayerSpacing
	}
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.NodeSize <= 0 {
		o.NodeSize = DefaultNodeSize
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Placement is the position of one node.
type Placement struct {
	ID        string  `json:"id"`
	Label     string  `json:"label,omitempty"`
	Layer     int     `json:"layer"`
	Position  int     `json:"position"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
	DRC       int64   `json:"drc"`
	Synthetic bool    `json:"synthetic,omitempty"`
}

// Edge connects two placed nodes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Layout is the result of [Compute].
type Layout struct {
	Nodes     []Placement `json:"nodes"`
	Edges     []Edge      `json:"edges"`
	Layers    [][]string  `json:"layers"`
	Dropped   []string    `json:"dropped,omitempty"`
	Cycles    [][]string  `json:"cycles,omitempty"`
	Crossings int         `json:"crossings"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	MaxWidth  int         `json:"max_width"`
}

// Compute lays out a copy of the hierarchy graph in width-bounded layers.
// Attributes need not be computed, so hierarchies that failed
// ComputeAttributes because of a cycle can still be laid out: nodes on or
// below a cycle are dropped, reported with the components responsible, and
// logged as a warning. Nodes within a layer are reordered to reduce edge
// crossings.
func Compute(h *hierarchy.Hierarchy, opts Options) *Layout {
	opts = opts.withDefaults()
	g := h.GraphCopy()

	layers, dropped := transform.AssignBoundedLayers(g, opts.MaxWidth)
	l := &Layout{
		Layers:   layers,
		Dropped:  dropped,
		MaxWidth: opts.MaxWidth,
	}
	if len(dropped) > 0 {
		l.Cycles = transform.StronglyConnected(g)
		opts.Logger.Warn("nodes dropped from layout", "dropped", len(dropped), "cycles", len(l.Cycles))
		for _, id := range dropped {
			g.RemoveNode(id)
		}
	}
	orderLayers(g, layers)

	widest := 0
	for i, layer := range layers {
		widest = max(widest, len(layer))
		for j, id := range layer {
			n, _ := g.Node(id)
			p := Placement{
				ID:        id,
				Layer:     i,
				Position:  j,
				X:         float64(j) * opts.NodeSpacing,
				Y:         float64(i) * opts.LayerSpacing,
				Size:      opts.NodeSize,
				Synthetic: n.IsSynthetic(),
			}
			if label, ok := n.Meta["label"].(string); ok {
				p.Label = label
			}
			if drc, ok := n.Meta["drc"].(int64); ok {
				p.DRC = drc
			}
			l.Nodes = append(l.Nodes, p)
		}
	}
	for _, e := range g.Edges() {
		l.Edges = append(l.Edges, Edge{From: e.From, To: e.To})
	}
	l.Crossings = dag.CountCrossings(g, layers)
	if widest > 0 {
		l.Width = float64(widest-1) * opts.NodeSpacing
		l.Height = float64(len(layers)-1) * opts.LayerSpacing
	}

	opts.Logger.Debug("computed layout",
		"nodes", len(l.Nodes),
		"layers", len(layers),
		"crossings", l.Crossings)
	return l
}

// Placement returns the placement of id.
func (l *Layout) Placement(id string) (Placement, bool) {
	for _, p := range l.Nodes {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// DAG rebuilds the layered graph, for example after the layout was read back
// from a cache. Node rows carry the layer; metadata carries label, drc, x and
// y.
func (l *Layout) DAG() (*dag.DAG, error) {
	g := dag.New(dag.Metadata{"crossings": l.Crossings})
	for _, p := range l.Nodes {
		kind := dag.NodeKindRegular
		if p.Synthetic {
			kind = dag.NodeKindSynthetic
		}
		err := g.AddNode(dag.Node{
			ID:   p.ID,
			Row:  p.Layer,
			Kind: kind,
			Meta: dag.Metadata{"label": p.Label, "drc": p.DRC, "x": p.X, "y": p.Y},
		})
		if err != nil {
			return nil, err
		}
	}
	for _, e := range l.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, err
		}
	}
	return g, nil
}
