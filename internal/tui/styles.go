// Package tui provides the interactive terminal UI.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - titles, errors
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - subtitles
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - search term
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorBorder    = lipgloss.Color("#3d5a80") // Border color
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSecondary).
				MarginTop(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(1, 2).
			Width(54)

	footerStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ContentStyle pads the main content area.
	ContentStyle = lipgloss.NewStyle().
			Padding(1, 2)
)
