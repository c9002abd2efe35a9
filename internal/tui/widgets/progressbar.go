// ABOUTME: Stat and countdown bars with visual threshold zones
// ABOUTME: Low companion stats turn amber then red

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width         int
	WarnThreshold float64 // Values below this are shown as a warning (default 50)
	CritThreshold float64 // Values below this are shown as critical (default 25)
	OKColor       lipgloss.Color
	WarnColor     lipgloss.Color
	CritColor     lipgloss.Color
	EmptyColor    lipgloss.Color
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:         20,
		WarnThreshold: 50,
		CritThreshold: 25,
		OKColor:       lipgloss.Color("#10B981"), // Green
		WarnColor:     lipgloss.Color("#F59E0B"), // Amber
		CritColor:     lipgloss.Color("#EF4444"), // Red
		EmptyColor:    lipgloss.Color("#374151"), // Dark gray
	}
}

// ProgressBar renders a bar for percent in [0,100], colored by the zone the
// value falls in
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	percent = max(0, min(100, percent))

	filled := int(percent / 100.0 * float64(config.Width))

	color := config.OKColor
	if percent < config.CritThreshold {
		color = config.CritColor
	} else if percent < config.WarnThreshold {
		color = config.WarnColor
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(config.EmptyColor).Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// StatBar renders a labelled companion stat as "label [bar] value/100"
func StatBar(label string, value int, labelWidth int, config ProgressBarConfig) string {
	return fmt.Sprintf("%-*s %s %3d/100", labelWidth, label, ProgressBar(float64(value), config), value)
}

// CountdownBar renders remaining out of total as a shrinking bar
func CountdownBar(remaining, total, width int) string {
	if total <= 0 {
		return ""
	}
	config := DefaultProgressBarConfig()
	config.Width = width
	return ProgressBar(float64(remaining)/float64(total)*100, config)
}
