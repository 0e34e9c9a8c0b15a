package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for metrics

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMetric  = lipgloss.NewStyle().Foreground(ColorCyan)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Degraded-plan callout box
	StyleDegradedBox = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(ColorWarning).
				Padding(0, 1)
)

// boolBadge renders a yes/no badge for boolean status fields.
func boolBadge(b bool) string {
	if b {
		return StyleSuccess.Render("yes")
	}
	return StyleError.Render("no")
}

// StatusStyle picks a style for a system or agent status string.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "operational", "active":
		return StyleSuccess
	case "degraded", "idle", "inactive":
		return StyleWarning
	case "offline", "error":
		return StyleError
	default:
		return StyleSubtle
	}
}
