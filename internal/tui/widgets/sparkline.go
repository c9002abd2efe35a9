// ABOUTME: Sparkline widget renders mini trend charts using block characters
// ABOUTME: Used for the per-second click rate in the clicker game

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a compact trend visualization scaled from zero to the
// largest value. values are oldest first; width is the number of characters.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := sampleValues(values, width)

	peak := 0.0
	for _, v := range sampled {
		peak = max(peak, v)
	}

	result := make([]rune, len(sampled))
	for i, v := range sampled {
		result[i] = valueToBlock(v, peak)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(result))
}

// sampleValues resamples the values slice to the target width
func sampleValues(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}

	result := make([]float64, width)

	if len(values) < width {
		// Pad with zeros at the beginning
		copy(result[width-len(values):], values)
	} else {
		ratio := float64(len(values)) / float64(width)
		for i := 0; i < width; i++ {
			idx := min(int(float64(i)*ratio), len(values)-1)
			result[i] = values[idx]
		}
	}

	return result
}

// valueToBlock converts a value to a block character relative to peak
func valueToBlock(value, peak float64) rune {
	if peak <= 0 {
		return SparklineBlocks[0]
	}
	idx := int(value / peak * float64(len(SparklineBlocks)-1))
	idx = max(0, min(idx, len(SparklineBlocks)-1))
	return SparklineBlocks[idx]
}
