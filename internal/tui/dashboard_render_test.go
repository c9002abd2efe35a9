// ABOUTME: Test to verify dashboard screen renders with visible header/footer
// ABOUTME: Ensures content doesn't push header/footer off screen

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/testserver"
)

func TestDashboardRendersWithHeader(t *testing.T) {
	h := newHarness(t)
	h.srv.UpdateCompanion(testserver.Companion, func(c *client.Companion) {
		c.Name = strings.Repeat("Sparky", 20)
	})
	h.login()

	lines := strings.Split(h.app.View(), "\n")

	// Only the first ╭ is the header and only the last ╰ is the footer
	headerLineIdx := -1
	footerLineIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "╭") && headerLineIdx == -1 {
			headerLineIdx = i
		}
		if strings.Contains(line, "╰") {
			footerLineIdx = i
		}
	}

	if headerLineIdx != 0 {
		t.Errorf("Header should be at line 0, found at %d", headerLineIdx)
	}
	if footerLineIdx != len(lines)-1 {
		t.Errorf("Footer should be at last line, found at %d of %d", footerLineIdx, len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 120 {
			t.Errorf("line %d is %d cells wide: %q", i, w, line)
		}
	}
}
