package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptree/pkg/cache"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/pipeline"
	"github.com/matzehuels/conceptree/pkg/viewstate"
)

var (
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	browseErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// browseCommand creates the interactive tree-table browser.
func (c *CLI) browseCommand() *cobra.Command {
	var viewConfig, viewID string

	cmd := &cobra.Command{
		Use:   "browse [bundle.json]",
		Short: "Explore a concept hierarchy interactively",
		Long: `Explore a concept hierarchy interactively.

Keys: ↑/↓ move, enter expands or collapses the selected row, a toggles
expand-all, d toggles hiding of repeated occurrences, s saves the view,
q quits.

--view loads a saved view by id; saving then updates that view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], viewConfig, viewID)
		},
	}

	cmd.Flags().StringVar(&viewConfig, "view-config", "", "visibility configuration file (JSON)")
	cmd.Flags().StringVar(&viewID, "view", "", "saved view id")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input, viewConfig, viewID string) error {
	b, in, err := loadInput(input)
	if err != nil {
		return err
	}

	ch, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	keyer := c.newKeyer()
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	defer runner.Close()
	store := viewstate.NewStore(ch, keyer, cache.ViewTTL)

	h, err := runner.Build(ctx, in)
	if err != nil {
		return err
	}

	var cfg hierarchy.Config
	if viewID != "" {
		if cfg, err = store.Config(ctx, viewID); err != nil {
			return err
		}
	} else if cfg, err = c.viewConfig(b, viewConfig); err != nil {
		return err
	}

	m, err := newBrowseModel(ctx, runner, h, in.Categories, cfg)
	if err != nil {
		return err
	}
	m.store, m.viewID = store, viewID

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(browseModel); ok && fm.viewID != "" {
		printInfo(os.Stderr, "View %s", fm.viewID)
	}
	return nil
}

// =============================================================================
// browseModel - Interactive tree-table
// =============================================================================

// browseModel is the bubbletea model of the hierarchy browser. Every toggle
// produces a new Config and re-resolves the hierarchy.
type browseModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	h      *hierarchy.Hierarchy
	cats   hierarchy.Categories

	cfg      hierarchy.Config
	res      *hierarchy.Resolution
	display  *hierarchy.DisplayConfig
	expanded func(*hierarchy.Row) bool

	store  *viewstate.Store
	viewID string

	cursor int
	offset int
	height int
	status string
	err    error
}

func newBrowseModel(ctx context.Context, r *pipeline.Runner, h *hierarchy.Hierarchy, cats hierarchy.Categories, cfg hierarchy.Config) (browseModel, error) {
	m := browseModel{ctx: ctx, runner: r, h: h, cats: cats, cfg: cfg, height: 20}
	if err := m.resolve(); err != nil {
		return m, err
	}
	return m, nil
}

// resolve re-runs visibility for m.cfg and keeps the cursor on the same row
// path when it is still visible.
func (m *browseModel) resolve() error {
	var selected string
	if m.res != nil && m.cursor < len(m.res.Rows) {
		selected = m.res.Rows[m.cursor].RowPath
	}

	res, dc, cfg, err := m.runner.Resolve(m.ctx, m.h, m.cats, pipeline.Options{Config: m.cfg, PreviousDisplay: m.display})
	if err != nil {
		return err
	}
	m.res, m.display, m.cfg = res, dc, cfg
	m.expanded = expandedIn(res.Rows)

	m.cursor = 0
	for i, r := range res.Rows {
		if r.RowPath == selected {
			m.cursor = i
			break
		}
	}
	m.clampOffset()
	return nil
}

func (m *browseModel) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// toggle flips the selected row between expanded and collapsed, removing an
// override instead of stacking a contrary one.
func (m *browseModel) toggle() {
	if len(m.res.Rows) == 0 {
		return
	}
	row := m.res.Rows[m.cursor]
	if row.Node == nil || !row.Node.HasChildren {
		return
	}
	path := row.RowPath
	current := m.cfg.SpecificPaths[path]
	switch {
	case m.expanded(row) && current == hierarchy.Expand:
		m.cfg = m.cfg.TogglePath(path, hierarchy.Expand)
	case m.expanded(row):
		m.cfg = m.cfg.TogglePath(path, hierarchy.Collapse)
	case current == hierarchy.Collapse:
		m.cfg = m.cfg.TogglePath(path, hierarchy.Collapse)
	default:
		m.cfg = m.cfg.TogglePath(path, hierarchy.Expand)
	}
}

func (m *browseModel) save() {
	if m.store == nil {
		return
	}
	var (
		v   *viewstate.View
		err error
	)
	if m.viewID == "" {
		v, err = m.store.Create(m.ctx, m.cfg)
	} else {
		v, err = m.store.Put(m.ctx, m.viewID, m.cfg)
	}
	if err != nil {
		m.err = err
		return
	}
	m.viewID = v.ID
	m.status = "saved view " + v.ID
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err, m.status = nil, ""
		reresolve := false
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.res.Rows)-1 {
				m.cursor++
			}
		case "pgup":
			m.cursor = max(0, m.cursor-m.height)
		case "pgdown":
			m.cursor = max(0, min(len(m.res.Rows)-1, m.cursor+m.height))
		case "enter", " ", "space", "right", "l":
			m.toggle()
			reresolve = true
		case "a":
			m.cfg = m.cfg.ToggleExpandAll()
			reresolve = true
		case "d":
			cat := hierarchy.CatAllButFirstOccurrence
			m.cfg = m.cfg.SetTreatment(cat, !m.cfg.Treatment(cat))
			reresolve = true
		case "s":
			m.save()
		}
		if reresolve {
			if err := m.resolve(); err != nil {
				m.err = err
			}
		}
		m.clampOffset()
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-10)
		m.clampOffset()
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Concept Hierarchy"))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  a expand all  d duplicates  s save  q quit"))
	b.WriteString("\n\n")

	rows := m.res.Rows
	end := min(m.offset+m.height, len(rows))
	window := rows[m.offset:end]
	t := rowsTable(window, m.expanded).StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == headerRow:
			return styleHeader
		case m.offset+row == m.cursor:
			return browseSelectedStyle
		case window[row].Node != nil && window[row].Node.NotAConcept:
			return browseDimStyle
		case col >= 4:
			return StyleNumber
		}
		return lipgloss.NewStyle()
	})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	flags := []string{fmt.Sprintf("[%d/%d]", m.cursor+1, len(rows))}
	flags = append(flags, fmt.Sprintf("%d of %d rows", len(rows), len(m.res.AllRows)))
	if m.cfg.ExpandAll {
		flags = append(flags, "expand all")
	}
	if m.cfg.Treatment(hierarchy.CatAllButFirstOccurrence) {
		flags = append(flags, "duplicates hidden")
	}
	b.WriteString(browseDimStyle.Render("  " + strings.Join(flags, " · ")))
	switch {
	case m.err != nil:
		b.WriteString("\n" + browseErrorStyle.Render("  "+m.err.Error()))
	case m.status != "":
		b.WriteString("\n" + styleIconSuccess.Render("  "+m.status))
	}
	return b.String()
}
