// ABOUTME: Dodge screen: rasterizes the falling-obstacle field into terminal cells
// ABOUTME: Frames are driven by attempt-tagged ticks; keys and mouse halves steer the player

package arcade

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/clock"
	"github.com/paumaneja/mythic-companions-cli/internal/game"
	"github.com/paumaneja/mythic-companions-cli/internal/game/dodge"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/widgets"
)

const (
	dodgeMinColumns = 20
	dodgeMaxColumns = 80
	dodgeRows       = 20
	// unitsPerColumn maps one terminal column to field units; 80 columns is
	// the full design width
	unitsPerColumn = dodge.DesignWidth / dodgeMaxColumns
)

type frameMsg struct {
	attempt game.AttemptID
}

type dodgePlayer struct {
	game     *dodge.Game
	controls dodge.Controls
	clock    clock.Clock
	schedule Scheduler
	columns  int
	width    int
}

func newDodgePlayer(deps Deps) *dodgePlayer {
	p := &dodgePlayer{
		clock:    deps.Clock,
		schedule: deps.Schedule,
		columns:  dodgeMaxColumns,
	}
	p.game = dodge.New(deps.Random, float64(p.columns)*unitsPerColumn)
	return p
}

// Resize fits the field to the terminal width. The field keeps its size
// while an attempt is running.
func (p *dodgePlayer) Resize(width int) {
	p.width = width
	if p.game.Playing() {
		return
	}
	cols := min(dodgeMaxColumns, max(dodgeMinColumns, width-4))
	p.columns = cols
	p.game.Resize(float64(cols) * unitsPerColumn)
}

func (p *dodgePlayer) Start() (game.AttemptID, tea.Cmd, error) {
	id, err := p.game.Start(p.clock.Now())
	if err != nil {
		return "", nil, err
	}
	p.controls.Stop()
	return id, p.schedule(dodge.FrameInterval, frameMsg{attempt: id}), nil
}

func (p *dodgePlayer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.attempt != p.game.Attempt() || !p.game.Playing() {
			return nil
		}
		now := p.clock.Now()
		res := p.game.Step(now, p.controls.Direction(now))
		if res.Finished {
			p.controls.Stop()
			return nil
		}
		return p.schedule(dodge.FrameInterval, frameMsg{attempt: msg.attempt})

	case tea.KeyMsg:
		if !p.game.Playing() {
			return nil
		}
		switch msg.String() {
		case "left", "a", "h":
			p.controls.PressKey(dodge.Left, p.clock.Now())
		case "right", "d", "l":
			p.controls.PressKey(dodge.Right, p.clock.Now())
		}

	case tea.MouseMsg:
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button != tea.MouseButtonLeft || !p.game.Playing() {
				return nil
			}
			if msg.X < p.width/2 {
				p.controls.PressPointer(dodge.Left)
			} else {
				p.controls.PressPointer(dodge.Right)
			}
		case tea.MouseActionRelease:
			p.controls.ReleasePointer()
		}
	}
	return nil
}

func (p *dodgePlayer) State() game.State { return p.game.State() }

func (p *dodgePlayer) Outcome() (game.Outcome, bool) { return p.game.Outcome() }

func (p *dodgePlayer) HUD() string {
	cfg := widgets.DefaultMetricBlockConfig()
	lives := strings.Repeat(icons.Life.String(), max(0, p.game.Lives()))
	if lives == "" {
		lives = "-"
	}
	return widgets.MetricRow(
		widgets.MetricBlock(icons.Life, "Lives", lives, cfg),
		widgets.MetricBlock(icons.Timer, "Time", fmt.Sprintf("%ds", p.game.Seconds()), cfg),
	)
}

func (p *dodgePlayer) View(width int) string {
	switch p.game.State() {
	case game.Idle:
		return fmt.Sprintf("Dodge the falling objects! You have %d lives.", dodge.StartingLives)
	case game.Finished:
		return fmt.Sprintf("You survived for %d seconds!", p.game.Seconds())
	}
	return p.renderField()
}

// renderField draws obstacles and the player onto a columns x dodgeRows grid
func (p *dodgePlayer) renderField() string {
	cellW := p.game.Width() / float64(p.columns)
	cellH := p.game.Height() / dodgeRows

	grid := make([][]rune, dodgeRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", p.columns))
	}
	fill := func(x, y, w, h float64, ch rune) {
		c0, c1 := int(x/cellW), int((x+w)/cellW)
		r0, r1 := int(y/cellH), int((y+h)/cellH)
		for r := max(0, r0); r <= min(dodgeRows-1, r1); r++ {
			for c := max(0, c0); c <= min(p.columns-1, c1); c++ {
				grid[r][c] = ch
			}
		}
	}

	ow, oh := p.game.ObstacleWidth(), p.game.ObstacleHeight()
	for _, o := range p.game.Obstacles() {
		if o.Y+oh < 0 {
			continue
		}
		fill(o.X, o.Y, ow*0.999, oh*0.999, '▼')
	}
	fill(p.game.PlayerX(), p.game.PlayerY(), p.game.PlayerWidth()*0.999, p.game.PlayerHeight()*0.999, '█')

	lines := make([]string, dodgeRows)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Muted).
		Render(strings.Join(lines, "\n"))
}

func (p *dodgePlayer) Help() string {
	return styles.KeyStyle.Render("←→/a d") + " move  " + styles.Dim.Render("click left/right half to steer")
}
