// ABOUTME: Memory screen: a 4x4 board of item cards navigated with the cursor
// ABOUTME: Mismatched pairs flip back after a delay tagged with the attempt id

package arcade

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/game"
	"github.com/paumaneja/mythic-companions-cli/internal/game/memory"
	"github.com/paumaneja/mythic-companions-cli/internal/sanctuary"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/widgets"
)

const (
	memoryColumns   = 4
	memoryCellWidth = 16
)

type memoryPlayer struct {
	game     *memory.Game
	schedule Scheduler
	cursor   int
}

func newMemoryPlayer(deps Deps) *memoryPlayer {
	return &memoryPlayer{game: memory.New(deps.Random, nil), schedule: deps.Schedule}
}

func (p *memoryPlayer) Start() (game.AttemptID, tea.Cmd, error) {
	id, err := p.game.Start()
	if err != nil {
		return "", nil, err
	}
	p.cursor = 0
	return id, nil, nil
}

func (p *memoryPlayer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case resolveMsg:
		if msg.attempt == p.game.Attempt() {
			p.game.Resolve()
		}

	case tea.KeyMsg:
		if !p.game.Playing() {
			return nil
		}
		total := len(p.game.Cards())
		switch msg.String() {
		case "left", "h":
			if p.cursor%memoryColumns > 0 {
				p.cursor--
			}
		case "right", "l":
			if p.cursor%memoryColumns < memoryColumns-1 && p.cursor < total-1 {
				p.cursor++
			}
		case "up", "k":
			if p.cursor >= memoryColumns {
				p.cursor -= memoryColumns
			}
		case "down", "j":
			if p.cursor+memoryColumns < total {
				p.cursor += memoryColumns
			}
		case " ", "enter":
			if p.game.Flip(p.cursor) == memory.FlipMismatch {
				return p.schedule(memory.MismatchDelay, resolveMsg{attempt: p.game.Attempt()})
			}
		}
	}
	return nil
}

func (p *memoryPlayer) State() game.State { return p.game.State() }

func (p *memoryPlayer) Outcome() (game.Outcome, bool) { return p.game.Outcome() }

func (p *memoryPlayer) HUD() string {
	cfg := widgets.DefaultMetricBlockConfig()
	return widgets.MetricRow(
		widgets.MetricBlock(icons.Refresh, "Moves", fmt.Sprintf("%d", p.game.Moves()), cfg),
		widgets.MetricBlock(icons.Trophy, "Pairs", fmt.Sprintf("%d/%d", p.game.Pairs(), p.game.PairCount()), cfg),
	)
}

func (p *memoryPlayer) View(width int) string {
	switch p.game.State() {
	case game.Idle:
		return "Find all the matching pairs with the fewest moves!"
	case game.Finished:
		score := memory.Score(p.game.Moves(), p.game.PairCount())
		return fmt.Sprintf("All pairs found in %d moves. Score: %d", p.game.Moves(), score)
	}

	cards := p.game.Cards()
	var rows []string
	for start := 0; start < len(cards); start += memoryColumns {
		end := min(start+memoryColumns, len(cards))
		var cells []string
		for i := start; i < end; i++ {
			cells = append(cells, renderCard(cards[i], i == p.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	board := strings.Join(rows, "\n")

	if p.cursor < len(cards) {
		if c := cards[p.cursor]; c.FaceUp || c.Matched {
			board += "\n" + styles.Dim.Render(sanctuary.ItemIconPath(c.Identity))
		}
	}
	return board
}

func renderCard(c memory.Card, selected bool) string {
	label := "?"
	style := lipgloss.NewStyle().
		Width(memoryCellWidth-2).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Muted)

	switch {
	case c.Matched:
		label = truncate(c.Identity, memoryCellWidth-4)
		style = style.Foreground(styles.Secondary)
	case c.FaceUp:
		label = truncate(c.Identity, memoryCellWidth-4)
		style = style.Foreground(styles.Text).Bold(true)
	default:
		style = style.Foreground(styles.Muted)
	}
	if selected {
		style = style.BorderForeground(styles.Primary)
	}
	return style.Render(label)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (p *memoryPlayer) Help() string {
	return styles.KeyStyle.Render("←↑↓→") + " move  " + styles.KeyStyle.Render("space") + " flip"
}
