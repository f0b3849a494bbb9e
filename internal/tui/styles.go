package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
const (
	colorBlue     lipgloss.Color = "#89b4fa"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent = colorBlue
	colorError  = colorRed
	colorMuted  = colorOverlay0
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	excerptStyle  = lipgloss.NewStyle().Foreground(colorSubtext0).PaddingLeft(6)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).MarginTop(1)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	markerStyle   = lipgloss.NewStyle().Foreground(colorPeach)
	avatarStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	spinnerStyle  = lipgloss.NewStyle().Foreground(colorAccent)
)
