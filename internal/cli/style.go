package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dark value first, light second.
var (
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#22c55e", Light: "#16a34a"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"}
	colorAmber  = lipgloss.AdaptiveColor{Dark: "#f59e0b", Light: "#d97706"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"}
	colorViolet = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"}
	colorCyan   = lipgloss.AdaptiveColor{Dark: "#38bdf8", Light: "#0284c7"}
)

var (
	styleGood  = lipgloss.NewStyle().Foreground(colorGreen)
	styleBad   = lipgloss.NewStyle().Foreground(colorRed)
	styleWarn  = lipgloss.NewStyle().Foreground(colorAmber)
	styleMuted = lipgloss.NewStyle().Foreground(colorGray)
	styleID    = lipgloss.NewStyle().Foreground(colorViolet)
	styleURL   = lipgloss.NewStyle().Foreground(colorCyan)
	styleBold  = lipgloss.NewStyle().Bold(true)
)

var styleBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorViolet).
	Padding(0, 2).
	Bold(true)

type status struct {
	icon  string
	style lipgloss.Style
	out   func() io.Writer
}

var (
	statusSuccess = status{"✓", styleGood, stdout}
	statusError   = status{"✗", styleBad, stderr}
	statusWarning = status{"!", styleWarn, stderr}
	statusInfo    = status{"→", styleMuted, stdout}
)

func stdout() io.Writer { return os.Stdout }
func stderr() io.Writer { return os.Stderr }

func (s status) print(format string, args ...any) {
	fmt.Fprintf(s.out(), "%s %s\n", s.style.Render(s.icon), fmt.Sprintf(format, args...))
}

func PrintSuccess(format string, args ...any) { statusSuccess.print(format, args...) }
func PrintInfo(format string, args ...any) { statusInfo.print(format, args...) }

// PrintError and PrintWarning write to stderr.
func PrintError(format string, args ...any) { statusError.print(format, args...) }
func PrintWarning(format string, args ...any) { statusWarning.print(format, args...) }

func RenderID(id string) string { return styleID.Render(id) }
func RenderURL(url string) string { return styleURL.Render(url) }
func RenderMuted(text string) string { return styleMuted.Render(text) }
func RenderBold(text string) string { return styleBold.Render(text) }
func RenderAlert(text string) string { return styleBad.Render(text) }
func RenderMarker(text string) string { return styleGood.Render(text) }

// RenderListColor renders text in a list's hex color, or muted when the
// list has none.
func RenderListColor(text, hexColor string) string {
	if hexColor == "" {
		return styleMuted.Render(text)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(text)
}

// RenderProgress draws a ten-cell bar for a 0-100 percentage.
func RenderProgress(percent int) string {
	percent = min(max(percent, 0), 100)
	filled := percent / 10
	bar := styleGood.Render(strings.Repeat("█", filled)) + styleMuted.Render(strings.Repeat("░", 10-filled))
	return fmt.Sprintf("%s %d%%", bar, percent)
}

func TitleBox(title string) string {
	return styleBox.Render(title)
}

// LabelValue right-aligns label in labelWidth columns before value.
func LabelValue(label, value string, labelWidth int) string {
	labelStyle := styleMuted.Width(labelWidth).Align(lipgloss.Right)
	return labelStyle.Render(label+":") + " " + value
}
