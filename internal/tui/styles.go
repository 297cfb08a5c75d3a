package tui

import (
	"github.com/MKrupin/go-stock-keeper/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	statusStyle  = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true)
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	syncingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// renderMutationStatus colours the status label and pads it to width so the
// ANSI escape codes do not break column alignment.
func renderMutationStatus(s models.MutationStatus, width int) string {
	switch s {
	case models.MutationPending:
		return pendingStyle.Render(padText("ожидает", width))
	case models.MutationSyncing:
		return syncingStyle.Render(padText("отправка", width))
	case models.MutationFailed:
		return failedStyle.Render(padText("ошибка", width))
	default:
		return padText(string(s), width)
	}
}
