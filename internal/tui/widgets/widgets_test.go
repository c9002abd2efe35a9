// ABOUTME: Tests for the TUI widgets
// ABOUTME: Checks bar fill, badge text and sparkline scaling

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
)

func TestProgressBarFill(t *testing.T) {
	config := DefaultProgressBarConfig()
	config.Width = 10

	tests := []struct {
		percent float64
		filled  int
	}{
		{0, 0},
		{50, 5},
		{100, 10},
		{150, 10},
		{-5, 0},
	}
	for _, tc := range tests {
		bar := ProgressBar(tc.percent, config)
		if got := strings.Count(bar, "█"); got != tc.filled {
			t.Errorf("ProgressBar(%v) filled %d cells, want %d", tc.percent, got, tc.filled)
		}
		if got := strings.Count(bar, "░"); got != 10-tc.filled {
			t.Errorf("ProgressBar(%v) left %d empty cells, want %d", tc.percent, got, 10-tc.filled)
		}
	}
}

func TestStatBar(t *testing.T) {
	config := DefaultProgressBarConfig()
	config.Width = 10
	out := StatBar("Hunger", 42, 8, config)
	if !strings.Contains(out, "Hunger") || !strings.Contains(out, " 42/100") {
		t.Errorf("unexpected stat bar %q", out)
	}
}

func TestCountdownBar(t *testing.T) {
	bar := CountdownBar(15, 30, 10)
	if got := strings.Count(bar, "█"); got != 5 {
		t.Errorf("expected half the bar filled, got %d cells", got)
	}
	if CountdownBar(1, 0, 10) != "" {
		t.Error("expected empty bar for zero total")
	}
}

func TestRarityBadge(t *testing.T) {
	if !strings.Contains(RarityBadge("legendary"), "LEGENDARY") {
		t.Error("expected rarity text upper-cased")
	}
	if RarityBadge("") != "" {
		t.Error("expected no badge without rarity")
	}
	if RarityLevel("RARE") != StatusInfo {
		t.Error("expected rare items to use the info level")
	}
}

func TestConditionBadge(t *testing.T) {
	if !strings.Contains(ConditionBadge(true, 90), "SICK") {
		t.Error("expected sick badge")
	}
	if !strings.Contains(ConditionBadge(false, 10), "WEAK") {
		t.Error("expected weak badge for low health")
	}
	if !strings.Contains(ConditionBadge(false, 80), "HEALTHY") {
		t.Error("expected healthy badge")
	}
}

func TestMetricBlock(t *testing.T) {
	block := MetricBlock(icons.Timer, "Time", "12s", DefaultMetricBlockConfig())
	lines := strings.Split(block, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(block, "Time") || !strings.Contains(block, "12s") {
		t.Errorf("expected title and value in block, got %q", block)
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 4, 8}, 3, lipgloss.Color(""))
	if line != "▁▄█" {
		t.Errorf("expected ▁▄█, got %q", line)
	}
	if got := Sparkline([]float64{2}, 3, ""); got != "▁▁█" {
		t.Errorf("expected left padding, got %q", got)
	}
	if Sparkline(nil, 5, "") != "" {
		t.Error("expected empty sparkline for no values")
	}
}
