package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the renderer.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles builds styles for re. A renderer without color support renders
// every style as plain text.
func NewStyles(re *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:  re.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Bold:    re.NewStyle().Bold(true),
		Muted:   re.NewStyle().Foreground(lipgloss.Color("241")),
		Success: re.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: re.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   re.NewStyle().Foreground(lipgloss.Color("196")),
		Info:    re.NewStyle().Foreground(lipgloss.Color("39")),
	}
}

// StatusIcon returns the styled icon for a run status.
func (s *Styles) StatusIcon(status string) string {
	switch status {
	case "success", "completed":
		return s.Success.Render("✓")
	case "skipped":
		return s.Muted.Render("-")
	case "running":
		return s.Info.Render("…")
	default:
		return s.Error.Render("✗")
	}
}
