package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/vellum"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - names
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - selection, warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleName    = lipgloss.NewStyle().Foreground(colorCyan)
	styleHidden  = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess   = "✓"
	iconError     = "✗"
	iconInfo      = "›"
	iconArrow     = "→"
	iconExpanded  = "▾"
	iconCollapsed = "▸"
	iconLeaf      = "·"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printFile prints an output path line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+styleValue.Render(value))
}

// =============================================================================
// Layer Tree
// =============================================================================

// renderLayerRow formats one layer list row: indentation, an expansion
// marker for groups, the name, the kind and the id. Hidden rows are struck
// through and selected rows are flagged.
func renderLayerRow(row vellum.LayerRow) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))

	marker := iconLeaf
	if row.Kind == vellum.KindGroup {
		marker = iconCollapsed
		if row.Expanded {
			marker = iconExpanded
		}
	}
	b.WriteString(styleDim.Render(marker))
	b.WriteByte(' ')

	if row.EffectiveVisible {
		b.WriteString(styleName.Render(row.Name))
	} else {
		b.WriteString(styleHidden.Render(row.Name))
	}
	b.WriteString(" " + styleDim.Render(row.Kind.String()))
	if row.Kind == vellum.KindGroup && !row.Expanded && row.HasChildren {
		b.WriteString(styleDim.Render(" (collapsed)"))
	}
	if !row.Visible {
		b.WriteString(" " + styleWarning.Render("hidden"))
	}
	if row.Selected {
		b.WriteString(" " + styleWarning.Render("*"))
	}
	b.WriteString("  " + styleDim.Render(string(row.ID)))
	return b.String()
}

// printLayerTree prints every row of the document's layer list.
func printLayerTree(w io.Writer, doc *vellum.Document) {
	for _, row := range doc.Tree().LayerRows(doc.Selection()) {
		fmt.Fprintln(w, renderLayerRow(row))
	}
}
