package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows m full-screen with mouse tracking until the user quits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	m.Close()
	return err
}
