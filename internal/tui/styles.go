package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Faint(true)

	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	serviceNameStyle  = lipgloss.NewStyle().Bold(true)
	serviceDescStyle  = lipgloss.NewStyle().Faint(true)
	disabledListStyle = lipgloss.NewStyle().Faint(true)

	headerStyle   = lipgloss.NewStyle().Bold(true)
	identityStyle = lipgloss.NewStyle().Faint(true)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	timestampStyle      = lipgloss.NewStyle().Faint(true)
	failedTextStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	statusStyle  = lipgloss.NewStyle().Faint(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)
