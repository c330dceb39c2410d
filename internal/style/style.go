// Package style holds the shared lipgloss palette used by the list renderer,
// the approval prompts, and plain status output, so all three agree on what
// "success", "warning", and "dim" look like in a terminal.
package style

import "github.com/charmbracelet/lipgloss"

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))

	Subtitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))

	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	Failure = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	Running = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	Key = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))

	Value = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Icons mirrors the status-symbol glyph set used across the gutter, status
// column, and CI indicator so every surface renders the same character for
// the same condition.
const (
	IconOK      = "✓"
	IconFail    = "✘"
	IconWarning = "⚠"
	IconRunning = "●"
	IconArrow   = "→"
)
