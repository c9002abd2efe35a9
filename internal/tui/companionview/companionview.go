// ABOUTME: Sanctuary screen for a single companion
// ABOUTME: Shows stats, media, gear and inventory, and emits interaction requests

package companionview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/sanctuary"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/widgets"
)

// InteractMsg asks the app to send a sanctuary interaction
type InteractMsg struct {
	Action client.Interaction
}

// UseItemMsg asks the app to use a consumable on the companion
type UseItemMsg struct {
	InventoryItemID int64
}

// ToggleEquipMsg asks the app to equip or unequip an item
type ToggleEquipMsg struct {
	InventoryItemID int64
}

// DeleteConfirmedMsg is sent once the user confirms deletion
type DeleteConfirmedMsg struct {
	CompanionID int64
}

// PlayRequestedMsg asks the app to open the minigame menu
type PlayRequestedMsg struct{}

// BackMsg is sent when the user leaves the sanctuary
type BackMsg struct{}

// interactionKeys maps keys to sanctuary actions
var interactionKeys = map[string]client.Interaction{
	"f": client.InteractFeed,
	"p": client.InteractPlay,
	"s": client.InteractSleep,
	"c": client.InteractClean,
	"t": client.InteractTrain,
}

// CompanionView is the sanctuary screen
type CompanionView struct {
	view       *sanctuary.View
	cursor     int
	busy       bool
	confirming bool
	message    string
	failed     bool
	media      string
	width      int
	height     int
}

// New creates the sanctuary screen. view may be nil while loading.
func New(view *sanctuary.View, width, height int) *CompanionView {
	cv := &CompanionView{width: width, height: height}
	cv.SetView(view)
	return cv
}

// SetView replaces the companion and inventory shown and ends any pending action
func (cv *CompanionView) SetView(view *sanctuary.View) {
	cv.view = view
	cv.busy = false
	if view != nil && view.Companion != nil {
		cv.media = sanctuary.IdleImage(view.Companion)
	}
	cv.clampCursor()
}

// SetCompanion replaces only the companion, keeping the inventory
func (cv *CompanionView) SetCompanion(c *client.Companion) {
	if cv.view == nil {
		cv.SetView(&sanctuary.View{Companion: c})
		return
	}
	cv.SetView(&sanctuary.View{Companion: c, Inventory: cv.view.Inventory})
}

// Companion returns the companion shown, or nil while loading
func (cv *CompanionView) Companion() *client.Companion {
	if cv.view == nil {
		return nil
	}
	return cv.view.Companion
}

// Succeed ends the pending action with a success message
func (cv *CompanionView) Succeed(message string) {
	cv.busy = false
	cv.message = message
	cv.failed = false
}

// Fail ends the pending action with an error message
func (cv *CompanionView) Fail(message string) {
	cv.busy = false
	cv.message = message
	cv.failed = true
}

// ShowAction plays the clip for a completed action, when the species has one
func (cv *CompanionView) ShowAction(action client.Interaction) {
	if video, ok := sanctuary.ActionVideo(cv.Companion(), action); ok {
		cv.media = video
	}
}

// Busy reports whether an action is in flight
func (cv *CompanionView) Busy() bool { return cv.busy }

// Confirming reports whether the delete confirmation is shown
func (cv *CompanionView) Confirming() bool { return cv.confirming }

// SetSize updates the view dimensions
func (cv *CompanionView) SetSize(width, height int) {
	cv.width = width
	cv.height = height
}

func (cv *CompanionView) inventory() []client.InventoryItem {
	if cv.view == nil {
		return nil
	}
	return cv.view.Inventory
}

func (cv *CompanionView) clampCursor() {
	if n := len(cv.inventory()); cv.cursor >= n {
		cv.cursor = max(0, n-1)
	}
}

// HandleKey processes a key press and returns the request it produces, if any
func (cv *CompanionView) HandleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if cv.confirming {
		cv.confirming = false
		if key == "y" && cv.Companion() != nil {
			cv.busy = true
			id := cv.Companion().ID
			return func() tea.Msg { return DeleteConfirmedMsg{CompanionID: id} }
		}
		return nil
	}

	if key == "esc" || key == "b" {
		return func() tea.Msg { return BackMsg{} }
	}
	if cv.busy || cv.Companion() == nil {
		return nil
	}

	if action, ok := interactionKeys[key]; ok {
		return cv.interact(action)
	}

	switch key {
	case "up", "k":
		if cv.cursor > 0 {
			cv.cursor--
		}
	case "down", "j":
		if cv.cursor < len(cv.inventory())-1 {
			cv.cursor++
		}
	case "enter", "u", "e":
		return cv.applyItem()
	case "g":
		return func() tea.Msg { return PlayRequestedMsg{} }
	case "d":
		cv.confirming = true
		cv.message = ""
	}
	return nil
}

func (cv *CompanionView) interact(action client.Interaction) tea.Cmd {
	cv.message = ""
	if err := sanctuary.Check(cv.Companion(), action); err != nil {
		cv.Fail(sanctuary.InteractFailed(err, action))
		return nil
	}
	cv.busy = true
	return func() tea.Msg { return InteractMsg{Action: action} }
}

func (cv *CompanionView) applyItem() tea.Cmd {
	inv := cv.inventory()
	if len(inv) == 0 {
		return nil
	}
	item := inv[cv.cursor]
	cv.busy = true
	cv.message = ""
	if sanctuary.Equippable(item.Item) {
		return func() tea.Msg { return ToggleEquipMsg{InventoryItemID: item.InventoryItemID} }
	}
	return func() tea.Msg { return UseItemMsg{InventoryItemID: item.InventoryItemID} }
}

// View renders the sanctuary
func (cv *CompanionView) View() string {
	c := cv.Companion()
	if c == nil {
		if cv.message != "" {
			return styles.StatusCritical.Render(cv.message)
		}
		return styles.Dim.Render("Loading sanctuary...")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.App.String(), c.Name)))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s · %s", c.SpeciesName, c.Universe)))
	sb.WriteString("  ")
	sb.WriteString(widgets.ConditionBadge(c.Sick, c.Health))
	sb.WriteString("\n\n")

	left := cv.renderStats(c)
	right := cv.renderInventory(c)
	if cv.width >= 80 {
		half := (cv.width - 4) / 2
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(half).Render(left),
			lipgloss.NewStyle().Width(half).Render(right)))
	} else {
		sb.WriteString(left)
		sb.WriteString("\n")
		sb.WriteString(right)
	}
	sb.WriteString("\n")

	sb.WriteString(cv.renderActions())

	switch {
	case cv.confirming:
		sb.WriteString("\n")
		sb.WriteString(styles.StatusWarning.Render(fmt.Sprintf(
			"Are you sure you want to delete %s? This action cannot be undone. (y/n)", c.Name)))
	case cv.busy:
		sb.WriteString("\n")
		sb.WriteString(styles.Dim.Render("Working..."))
	case cv.message != "":
		sb.WriteString("\n")
		if cv.failed {
			sb.WriteString(styles.StatusCritical.Render(cv.message))
		} else {
			sb.WriteString(styles.StatusOK.Render(cv.message))
		}
	}

	return sb.String()
}

func (cv *CompanionView) renderStats(c *client.Companion) string {
	cfg := widgets.DefaultProgressBarConfig()
	cfg.Width = 16

	var sb strings.Builder
	for _, s := range []struct {
		icon  icons.Icon
		label string
		value int
	}{
		{icons.Health, "Health", c.Health},
		{icons.Hunger, "Hunger", c.Hunger},
		{icons.Energy, "Energy", c.Energy},
		{icons.Happiness, "Happiness", c.Happiness},
		{icons.Hygiene, "Hygiene", c.Hygiene},
	} {
		sb.WriteString(widgets.StatBar(s.icon.String()+" "+s.label, s.value, 12, cfg))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("%-12s %d\n", icons.Skill.String()+" Skill", c.Skill))
	sb.WriteString("\n")
	sb.WriteString(styles.Dim.Render("Media: " + cv.media))
	sb.WriteString("\n")
	return sb.String()
}

func (cv *CompanionView) renderInventory(c *client.Companion) string {
	var sb strings.Builder

	sb.WriteString(styles.Subtitle.Render("Equipped"))
	sb.WriteString("\n")
	if c.EquippedGear != nil {
		sb.WriteString(fmt.Sprintf("%s %s %s\n", widgets.ItemIcon(c.EquippedGear.Item).String(),
			c.EquippedGear.Item.Name, widgets.RarityBadge(c.EquippedGear.Item.Rarity)))
	} else {
		sb.WriteString(styles.Dim.Render("Nothing equipped"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(styles.Subtitle.Render("Inventory"))
	sb.WriteString("\n")
	inv := cv.inventory()
	if len(inv) == 0 {
		sb.WriteString(styles.Dim.Render("Your inventory is empty."))
		sb.WriteString("\n")
		return sb.String()
	}
	for i, item := range inv {
		line := fmt.Sprintf("%s %s x%d", widgets.ItemIcon(item.Item).String(), item.Item.Name, item.Quantity)
		if sanctuary.IsEquipped(c, item) {
			line += " " + styles.StatusOK.Render("[equipped]")
		}
		sb.WriteString(styles.Row(line, i == cv.cursor))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (cv *CompanionView) renderActions() string {
	parts := []string{
		styles.KeyStyle.Render("f") + " feed",
		styles.KeyStyle.Render("p") + " play",
		styles.KeyStyle.Render("s") + " sleep",
		styles.KeyStyle.Render("c") + " clean",
		styles.KeyStyle.Render("t") + " train",
	}
	if inv := cv.inventory(); len(inv) > 0 {
		label := "use"
		switch {
		case sanctuary.IsEquipped(cv.Companion(), inv[cv.cursor]):
			label = "unequip"
		case sanctuary.Equippable(inv[cv.cursor].Item):
			label = "equip"
		}
		parts = append(parts, styles.KeyStyle.Render("enter")+" "+label)
	}
	return styles.Help.Render(strings.Join(parts, "  "))
}
