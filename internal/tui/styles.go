package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/mvsync/internal/ir"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	mutedStyle       = lipgloss.NewStyle().Faint(true)
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle        = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	editingStyle     = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("12"))
	placeholderStyle = lipgloss.NewStyle().Faint(true).Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	inputEditingStyle = inputStyle.BorderForeground(lipgloss.Color("12"))
)

// labelStyle maps a style token to its terminal rendering.
func labelStyle(s ir.Style) lipgloss.Style {
	switch s {
	case ir.StyleCompleted:
		return doneStyle
	case ir.StyleEditing:
		return editingStyle
	default:
		return lipgloss.NewStyle()
	}
}

// caret marks the end of an editable label.
const caret = "▏"
