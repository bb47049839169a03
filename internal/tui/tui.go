package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"altflow/internal/gesture"
)

// Run shows the session's active document until the user quits.
func Run(sess *gesture.Session, opts Options) error {
	applyColorProfilePreference()
	m := New(sess, opts)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
