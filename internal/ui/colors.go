package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors, ANSI codes for terminal compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
	ColorPrimary lipgloss.Color = "7" // White/default
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	BoldStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
)

// Color modes accepted by output.color.
const (
	ColorModeAuto   = "auto"
	ColorModeAlways = "always"
	ColorModeNever  = "never"
)

// ApplyColorMode sets the color profile used by lipgloss for command
// output. noColor (the --no-color flag) and NO_COLOR both win over mode.
// In auto mode the profile detected from stdout is kept.
func ApplyColorMode(mode string, noColor bool) termenv.Profile {
	switch {
	case noColor || termenv.EnvNoColor() || mode == ColorModeNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case mode == ColorModeAlways:
		if lipgloss.ColorProfile() == termenv.Ascii {
			lipgloss.SetColorProfile(termenv.ANSI)
		}
	}
	return lipgloss.ColorProfile()
}

// TrendStyle colors a day-over-day change.
func TrendStyle(increasing bool) lipgloss.Style {
	if increasing {
		return SuccessStyle
	}
	return ErrorStyle
}
