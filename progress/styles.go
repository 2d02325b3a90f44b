package progress

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	successColor = lipgloss.Color("#10B981") // Green
	spinnerColor = lipgloss.Color("#3B82F6") // Blue
	mutedColor   = lipgloss.Color("#6B7280") // Gray
)

// Styles for stage rendering.
var (
	// SuccessStyle marks completed stages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// SpinnerStyle colors the live stage indicator.
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(spinnerColor)

	// BannerStyle renders the closing banner.
	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	// DetailStyle renders secondary result text.
	DetailStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)
