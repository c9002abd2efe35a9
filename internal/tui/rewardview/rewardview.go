// ABOUTME: Reward panel shown after a minigame finishes
// ABOUTME: Displays the server's message, awarded items and before/after companion stats

package rewardview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/game/reward"
	"github.com/paumaneja/mythic-companions-cli/internal/sanctuary"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/widgets"
)

// RewardView renders a reward.Panel
type RewardView struct {
	panel  *reward.Panel
	before *client.Companion
	width  int
}

// New creates a reward view. before is the companion as it was when the
// game started, used to show what changed.
func New(panel *reward.Panel, before *client.Companion, width int) *RewardView {
	return &RewardView{
		panel:  panel,
		before: before,
		width:  width,
	}
}

// SetWidth updates the render width
func (r *RewardView) SetWidth(width int) {
	r.width = width
}

// View renders the panel. spinner is the current pending animation frame.
func (r *RewardView) View(spinner string) string {
	if r.panel == nil {
		return ""
	}

	var sb strings.Builder

	switch r.panel.Status() {
	case reward.Hidden:
		return ""

	case reward.Pending:
		sb.WriteString(spinner + " Submitting score...")

	case reward.Failed:
		sb.WriteString(styles.StatusCritical.Render(icons.Critical.String() + " " + r.panel.Err()))

	case reward.Received:
		result := r.panel.Result()
		sb.WriteString(styles.Title.Render(icons.Trophy.String() + " Rewards"))
		sb.WriteString("\n")
		if result.Message != "" {
			sb.WriteString(styles.StatusOK.Render(result.Message))
			sb.WriteString("\n")
		}
		sb.WriteString(r.renderItems(result.ItemsAwarded))
		if result.UpdatedCompanion != nil && r.before != nil {
			sb.WriteString("\n")
			sb.WriteString(r.renderChanges(r.before, result.UpdatedCompanion))
		}
	}

	return lipgloss.NewStyle().Width(r.width).Render(sb.String())
}

func (r *RewardView) renderItems(items []client.InventoryItem) string {
	if len(items) == 0 {
		return styles.Dim.Render("No items this time.") + "\n"
	}
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render("Items awarded"))
	sb.WriteString("\n")
	for _, inv := range items {
		sb.WriteString(fmt.Sprintf("  %s %s x%d %s\n",
			widgets.ItemIcon(inv.Item).String(),
			inv.Item.Name,
			inv.Quantity,
			widgets.RarityBadge(inv.Item.Rarity)))
		sb.WriteString(styles.Dim.Render("    " + sanctuary.ItemIcon(inv.Item)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderChanges lays the companion's stats out before and after side by side
func (r *RewardView) renderChanges(before, after *client.Companion) string {
	colWidth := max((r.width-4)/2, 20)

	left := renderStats("Before", before)
	right := renderStatsWithDelta("After", before, after)

	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")
	n := max(len(leftLines), len(rightLines))

	var sb strings.Builder
	for i := 0; i < n; i++ {
		l, rt := "", ""
		if i < len(leftLines) {
			l = leftLines[i]
		}
		if i < len(rightLines) {
			rt = rightLines[i]
		}
		pad := max(0, colWidth-lipgloss.Width(l))
		sb.WriteString(l + strings.Repeat(" ", pad) + "  " + rt + "\n")
	}
	return sb.String()
}

type stat struct {
	label string
	value func(*client.Companion) int
}

var stats = []stat{
	{"Health", func(c *client.Companion) int { return c.Health }},
	{"Hunger", func(c *client.Companion) int { return c.Hunger }},
	{"Energy", func(c *client.Companion) int { return c.Energy }},
	{"Happiness", func(c *client.Companion) int { return c.Happiness }},
	{"Hygiene", func(c *client.Companion) int { return c.Hygiene }},
	{"Skill", func(c *client.Companion) int { return c.Skill }},
}

func renderStats(title string, c *client.Companion) string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(title))
	sb.WriteString("\n")
	for _, s := range stats {
		sb.WriteString(fmt.Sprintf("%-10s %3d\n", s.label+":", s.value(c)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderStatsWithDelta(title string, before, after *client.Companion) string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(title))
	sb.WriteString("\n")
	for _, s := range stats {
		sb.WriteString(fmt.Sprintf("%-10s %3d", s.label+":", s.value(after)))
		if d := s.value(after) - s.value(before); d != 0 {
			style := styles.StatusOK
			if d < 0 {
				style = styles.StatusCritical
			}
			sb.WriteString(" " + style.Render(fmt.Sprintf("%+d", d)))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
