package reporter

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles of the colour terminal report.
type Theme struct {
	Subject lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Muted   lipgloss.Style
	Passed  lipgloss.Style
	Failed  lipgloss.Style
}

// Palette colours, 256-colour codes.
var (
	colorPrimary = lipgloss.Color("39")  // Bright blue
	colorSuccess = lipgloss.Color("120") // Light green
	colorError   = lipgloss.Color("196") // Red
	colorMuted   = lipgloss.Color("242") // Dark gray
)

// NewTheme builds the default theme on renderer r. blink makes failure marks
// blink.
func NewTheme(r *lipgloss.Renderer, blink bool) Theme {
	return Theme{
		Subject: r.NewStyle().Foreground(colorPrimary).Bold(true),
		Success: r.NewStyle().Foreground(colorSuccess),
		Failure: r.NewStyle().Foreground(colorError).Blink(blink),
		Muted:   r.NewStyle().Foreground(colorMuted).TabWidth(lipgloss.NoTabConversion),
		Passed:  r.NewStyle().Foreground(colorSuccess).Bold(true),
		Failed:  r.NewStyle().Foreground(colorError).Bold(true),
	}
}
