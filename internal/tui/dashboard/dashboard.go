// ABOUTME: Dashboard component listing the user's companions
// ABOUTME: Shows each companion's condition and key stats with a selection cursor

package dashboard

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

// CompanionSelectedMsg is sent when the user opens a companion's sanctuary
type CompanionSelectedMsg struct {
	Companion client.Companion
}

// CreateRequestedMsg is sent when the user wants to adopt a companion
type CreateRequestedMsg struct{}

// Dashboard displays the user's companions
type Dashboard struct {
	data     *sanctuary.Dashboard
	username string
	cursor   int
	width    int
	height   int
	err      string
}

// New creates a new dashboard
func New(data *sanctuary.Dashboard, username string, width, height int) *Dashboard {
	return &Dashboard{
		data:     data,
		username: username,
		width:    width,
		height:   height,
	}
}

// Update refreshes dashboard with new data, keeping the cursor in range
func (d *Dashboard) Update(data *sanctuary.Dashboard) {
	d.data = data
	d.err = ""
	d.clampCursor()
}

// SetError shows message in place of the companion list
func (d *Dashboard) SetError(message string) {
	d.err = message
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Data returns the loaded dashboard data
func (d *Dashboard) Data() *sanctuary.Dashboard {
	return d.data
}

// Selected returns the companion under the cursor
func (d *Dashboard) Selected() (client.Companion, bool) {
	if d.data == nil || len(d.data.Companions) == 0 {
		return client.Companion{}, false
	}
	return d.data.Companions[d.cursor], true
}

// HandleKey moves the cursor or emits a selection
func (d *Dashboard) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.data != nil && d.cursor < len(d.data.Companions)-1 {
			d.cursor++
		}
	case "enter":
		if c, ok := d.Selected(); ok {
			return func() tea.Msg { return CompanionSelectedMsg{Companion: c} }
		}
	case "n":
		return func() tea.Msg { return CreateRequestedMsg{} }
	}
	return nil
}

func (d *Dashboard) clampCursor() {
	n := 0
	if d.data != nil {
		n = len(d.data.Companions)
	}
	if d.cursor >= n {
		d.cursor = max(0, n-1)
	}
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.err != "" {
		return styles.StatusCritical.Render(d.err)
	}
	if d.data == nil {
		return styles.Panel.Width(d.width).Render("Loading your companions...")
	}

	var sb strings.Builder

	title := "My Companions"
	if d.username != "" {
		title = fmt.Sprintf("Welcome, %s!", d.username)
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")

	if len(d.data.Companions) == 0 {
		sb.WriteString(styles.Subtitle.Render("You don't have any companions yet."))
		sb.WriteString("\n")
		sb.WriteString(icons.Create.String() + " Press n to adopt your first one.\n")
		return d.frame(sb.String())
	}

	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d companion(s)", len(d.data.Companions))))
	sb.WriteString("\n")

	for i, c := range d.data.Companions {
		selected := i == d.cursor
		line := fmt.Sprintf("%s  %s", c.Name, styles.Dim.Render(fmt.Sprintf("%s · %s", c.SpeciesName, c.Universe)))
		sb.WriteString(styles.Row(line, selected))
		sb.WriteString("  ")
		sb.WriteString(widgets.ConditionBadge(c.Sick, c.Health))
		sb.WriteString("\n")
		if selected {
			sb.WriteString(d.renderSummary(c))
		}
	}

	return d.frame(sb.String())
}

func (d *Dashboard) renderSummary(c client.Companion) string {
	cfg := widgets.DefaultProgressBarConfig()
	cfg.Width = 12
	var sb strings.Builder
	for _, s := range []struct {
		icon  icons.Icon
		label string
		value int
	}{
		{icons.Health, "Health", c.Health},
		{icons.Hunger, "Hunger", c.Hunger},
		{icons.Energy, "Energy", c.Energy},
		{icons.Happiness, "Happy", c.Happiness},
	} {
		sb.WriteString("    ")
		sb.WriteString(widgets.StatBar(s.icon.String()+" "+s.label, s.value, 9, cfg))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *Dashboard) frame(content string) string {
	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(content)
}
