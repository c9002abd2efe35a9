// ABOUTME: Clicker screen: press space or click the target before time runs out
// ABOUTME: Keeps a per-second click history for the sparkline

package arcade

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/game"
	"github.com/paumaneja/mythic-companions-cli/internal/game/clicker"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/widgets"
)

type clickerPlayer struct {
	game     *clicker.Game
	schedule Scheduler
	history  []float64
	current  int
}

func newClickerPlayer(deps Deps) *clickerPlayer {
	return &clickerPlayer{game: clicker.New(), schedule: deps.Schedule}
}

func (p *clickerPlayer) Start() (game.AttemptID, tea.Cmd, error) {
	id, err := p.game.Start()
	if err != nil {
		return "", nil, err
	}
	p.history = nil
	p.current = 0
	return id, p.schedule(clicker.TickInterval, tickMsg{attempt: id}), nil
}

func (p *clickerPlayer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.attempt != p.game.Attempt() || !p.game.Playing() {
			return nil
		}
		p.history = append(p.history, float64(p.current))
		p.current = 0
		if p.game.Tick() {
			return nil
		}
		return p.schedule(clicker.TickInterval, tickMsg{attempt: msg.attempt})

	case tea.KeyMsg:
		switch msg.String() {
		case " ", "c":
			p.click()
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			p.click()
		}
	}
	return nil
}

func (p *clickerPlayer) click() {
	if p.game.Click() {
		p.current++
	}
}

func (p *clickerPlayer) State() game.State { return p.game.State() }

func (p *clickerPlayer) Outcome() (game.Outcome, bool) { return p.game.Outcome() }

func (p *clickerPlayer) HUD() string {
	cfg := widgets.DefaultMetricBlockConfig()
	return widgets.MetricRow(
		widgets.MetricBlock(icons.Timer, "Time Left", fmt.Sprintf("%ds", p.game.Remaining()), cfg),
		widgets.MetricBlock(icons.Trophy, "Clicks", fmt.Sprintf("%d", p.game.Clicks()), cfg),
	)
}

func (p *clickerPlayer) View(width int) string {
	if p.game.State() == game.Idle {
		return fmt.Sprintf("Click the target as many times as you can in %d seconds!", clicker.Duration)
	}

	barWidth := min(40, max(10, width-10))
	var sb strings.Builder
	sb.WriteString(widgets.CountdownBar(p.game.Remaining(), clicker.Duration, barWidth))
	sb.WriteString("\n\n")

	if p.game.Playing() {
		target := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Primary).
			Padding(1, 4).
			Bold(true).
			Render("CLICK ME!")
		sb.WriteString(target)
		sb.WriteString("\n")
	}

	if len(p.history) > 0 {
		sb.WriteString(styles.Dim.Render("clicks/s "))
		sb.WriteString(widgets.Sparkline(p.history, clicker.Duration, styles.Secondary))
	}
	return sb.String()
}

func (p *clickerPlayer) Help() string {
	return styles.KeyStyle.Render("space") + " click"
}
