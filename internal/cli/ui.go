package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/conceptree/pkg/hierarchy"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess   = "✓"
	iconError     = "✗"
	iconWarning   = "!"
	iconInfo      = "›"
	iconArrow     = "→"
	iconCached    = "cached"
	iconFresh     = "fresh"
	iconExpanded  = "▾"
	iconCollapsed = "▸"
)

// =============================================================================
// Status Output
// =============================================================================

// Status lines go to stderr so that stdout carries only results.

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented detail line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints run statistics on a single line.
func printStats(w io.Writer, parts []string, cached bool) {
	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(w, line)
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// rowLabel renders a row's concept name indented by depth, with an expand
// marker on rows that have children.
func rowLabel(r *hierarchy.Row, expanded bool) string {
	marker := " "
	if r.Node != nil && r.Node.HasChildren {
		marker = iconCollapsed
		if expanded {
			marker = iconExpanded
		}
	}
	name := string(r.ConceptID)
	if r.Node != nil && r.Node.ConceptName != "" {
		name = r.Node.ConceptName
	}
	return strings.Repeat("  ", r.Depth) + marker + " " + name
}

// rowsTable renders visible rows as a table. expanded reports whether a row's
// children are currently shown.
func rowsTable(rows []*hierarchy.Row, expanded func(*hierarchy.Row) bool) *table.Table {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		var vocab, std string
		var drc int64
		var desc int
		if r.Node != nil {
			vocab, std = r.Node.VocabularyID, r.Node.StandardConcept
			drc, desc = r.Node.DRC, r.Node.DescendantCount
		}
		data = append(data, []string{
			rowLabel(r, expanded(r)),
			string(r.ConceptID),
			vocab,
			std,
			strconv.FormatInt(drc, 10),
			strconv.Itoa(desc),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Concept", "ID", "Vocabulary", "Std", "DRC", "Descendants").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col >= 4 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
}

// statsTable renders the per-category statistics.
func statsTable(dc *hierarchy.DisplayConfig) *table.Table {
	data := make([][]string, 0, len(dc.Stats))
	for _, s := range dc.Stats {
		treatment := ""
		if s.HasTreatment {
			treatment = "off"
			if s.Treatment {
				treatment = "on"
			}
		}
		data = append(data, []string{
			s.Name,
			string(s.Type),
			strconv.Itoa(s.Value),
			strconv.Itoa(s.DisplayedCount),
			strconv.Itoa(s.HiddenCount),
			string(s.Rule),
			treatment,
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Category", "Type", "Size", "Shown", "Hidden", "Rule", "Treatment").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col >= 2 && col <= 4 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		})
}

// expandedIn returns a predicate telling whether a row's children are shown
// among rows.
func expandedIn(rows []*hierarchy.Row) func(*hierarchy.Row) bool {
	parents := make(map[string]bool, len(rows))
	for _, r := range rows {
		if i := strings.LastIndexByte(r.RowPath, '/'); i > 0 {
			parents[r.RowPath[:i]] = true
		}
	}
	return func(r *hierarchy.Row) bool { return parents[r.RowPath] }
}
