package output

import (
	"github.com/charmbracelet/lipgloss"

	"series-go/internal/series"
)

// Colors used by the CLI.
var (
	ColorBlue    = lipgloss.Color("12")
	ColorCyan    = lipgloss.Color("14")
	ColorGreen   = lipgloss.Color("82")
	ColorYellow  = lipgloss.Color("220")
	ColorRed     = lipgloss.Color("196")
	ColorDimGray = lipgloss.Color("240")
)

var (
	// StyleNoun styles case, option and file names.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles secondary details such as timestamps.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleWarning styles non-fatal problems.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)
)

// StateStyle returns the style for an artifact state or build action.
func StateStyle(state string) lipgloss.Style {
	switch state {
	case series.StatusUpToDate:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case series.StatusStale, string(series.ActionRebuilt):
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case series.StatusUnmarked:
		return lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	case string(series.ActionBuilt):
		return lipgloss.NewStyle().Foreground(ColorGreen)
	default:
		return lipgloss.NewStyle()
	}
}
