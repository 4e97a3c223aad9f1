package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	colorAccent  = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"}
	colorWarning = lipgloss.AdaptiveColor{Dark: "#f59e0b", Light: "#d97706"}
	colorDrop    = lipgloss.AdaptiveColor{Dark: "#22c55e", Light: "#16a34a"}

	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleFocused = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleGhost   = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
	styleDrop    = lipgloss.NewStyle().Foreground(colorDrop).Bold(true)
	styleNotice  = lipgloss.NewStyle().Foreground(colorWarning)
	styleColumn  = lipgloss.NewStyle().Width(columnWidth).MaxWidth(columnWidth)
)

func titleStyle(color string, focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if color != "" {
		s = s.Foreground(lipgloss.Color(color))
	}
	if focused {
		s = s.Underline(true)
	}
	return s
}
