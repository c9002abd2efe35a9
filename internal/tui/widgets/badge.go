// ABOUTME: Status badge widgets for quick visual status indication
// ABOUTME: Provides colored inline badges for item rarity and companion condition

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
	StatusLegendary
)

// Badge colors
var (
	BadgeOKBg        = lipgloss.Color("#10B981")
	BadgeOKFg        = lipgloss.Color("#FFFFFF")
	BadgeWarnBg      = lipgloss.Color("#F59E0B")
	BadgeWarnFg      = lipgloss.Color("#000000")
	BadgeCritBg      = lipgloss.Color("#EF4444")
	BadgeCritFg      = lipgloss.Color("#FFFFFF")
	BadgeInfoBg      = lipgloss.Color("#3B82F6")
	BadgeInfoFg      = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg   = lipgloss.Color("#6B7280")
	BadgeNeutralFg   = lipgloss.Color("#FFFFFF")
	BadgeLegendaryBg = lipgloss.Color("#FBBF24")
	BadgeLegendaryFg = lipgloss.Color("#000000")
)

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	var bg, fg lipgloss.Color

	switch level {
	case StatusOK:
		bg, fg = BadgeOKBg, BadgeOKFg
	case StatusWarning:
		bg, fg = BadgeWarnBg, BadgeWarnFg
	case StatusCritical:
		bg, fg = BadgeCritBg, BadgeCritFg
	case StatusInfo:
		bg, fg = BadgeInfoBg, BadgeInfoFg
	case StatusLegendary:
		bg, fg = BadgeLegendaryBg, BadgeLegendaryFg
	default:
		bg, fg = BadgeNeutralBg, BadgeNeutralFg
	}

	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)

	return style.Render(text)
}

// RarityLevel maps an item rarity to a badge level
func RarityLevel(rarity string) StatusLevel {
	switch strings.ToUpper(rarity) {
	case "UNCOMMON":
		return StatusOK
	case "RARE":
		return StatusInfo
	case "EPIC":
		return StatusWarning
	case "LEGENDARY":
		return StatusLegendary
	default:
		return StatusNeutral
	}
}

// RarityBadge renders an item's rarity
func RarityBadge(rarity string) string {
	if rarity == "" {
		return ""
	}
	return Badge(strings.ToUpper(rarity), RarityLevel(rarity))
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	switch level {
	case StatusOK:
		return lipgloss.NewStyle().Foreground(BadgeOKBg).Render(icons.CheckOK.String())
	case StatusWarning:
		return lipgloss.NewStyle().Foreground(BadgeWarnBg).Render(icons.Warning.String())
	case StatusCritical:
		return lipgloss.NewStyle().Foreground(BadgeCritBg).Render(icons.Critical.String())
	case StatusInfo:
		return lipgloss.NewStyle().Foreground(BadgeInfoBg).Render(icons.Info.String())
	default:
		return lipgloss.NewStyle().Foreground(BadgeNeutralBg).Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	icon := StatusIcon(level)

	var color lipgloss.Color
	switch level {
	case StatusOK:
		color = BadgeOKBg
	case StatusWarning:
		color = BadgeWarnBg
	case StatusCritical:
		color = BadgeCritBg
	case StatusInfo:
		color = BadgeInfoBg
	default:
		color = BadgeNeutralBg
	}

	textStyle := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("%s %s", icon, textStyle.Render(text))
}

// ConditionBadge summarises a companion's health state
func ConditionBadge(sick bool, health int) string {
	switch {
	case sick:
		return Badge(icons.Sick.String()+" SICK", StatusCritical)
	case health < 25:
		return Badge("WEAK", StatusWarning)
	default:
		return Badge("HEALTHY", StatusOK)
	}
}

// ItemIcon returns the icon for an item's type
func ItemIcon(item client.Item) icons.Icon {
	switch item.ItemType {
	case client.ItemWeapon:
		return icons.Weapon
	case client.ItemArmor:
		return icons.Armor
	case client.ItemCosmetic:
		return icons.Cosmetic
	default:
		return icons.Consumable
	}
}
