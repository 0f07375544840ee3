package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	focusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	disabledStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	buttonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	buttonFocusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("212")).Bold(true)
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("110"))
	overlayStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212")).Padding(0, 1)
	tabStyle         = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("244"))
	activeTabStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("110"))
	unreadStyle      = lipgloss.NewStyle().Bold(true)

	attendanceStyles = map[string]lipgloss.Style{
		"present": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"remote":  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"absent":  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"leave":   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)
