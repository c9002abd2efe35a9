// ABOUTME: Minigame host screen: runs one game, its timers and its reward panel
// ABOUTME: Timers are tagged with the attempt id so ticks from an old attempt are dropped

package arcade

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/clock"
	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/random"
	"github.com/paumaneja/mythic-companions-cli/internal/game"
	"github.com/paumaneja/mythic-companions-cli/internal/game/reward"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/rewardview"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
)

// FinishedMsg is emitted once per attempt when a game ends. The app submits
// the outcome and answers with a RewardMsg.
type FinishedMsg struct {
	Outcome game.Outcome
}

// RewardMsg carries the submission result for an attempt
type RewardMsg struct {
	Attempt game.AttemptID
	Result  *client.GameResult
	Err     error
}

// QuestionsWantedMsg asks the app to fetch quiz questions for an attempt
type QuestionsWantedMsg struct {
	Attempt game.AttemptID
}

// QuestionsMsg delivers fetched quiz questions
type QuestionsMsg struct {
	Attempt   game.AttemptID
	Questions []client.Question
	Err       error
}

// ExitMsg is sent when the user leaves the game screen
type ExitMsg struct{}

type tickMsg struct {
	attempt game.AttemptID
	seq     int
}

type resolveMsg struct {
	attempt game.AttemptID
}

// Scheduler delivers msg after d
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

// After is the default Scheduler, backed by tea.Tick
func After(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Deps are the arcade's collaborators
type Deps struct {
	Clock    clock.Clock
	Random   random.Random
	Schedule Scheduler
}

// player is one minigame's screen
type player interface {
	Start() (game.AttemptID, tea.Cmd, error)
	Update(msg tea.Msg) tea.Cmd
	State() game.State
	Outcome() (game.Outcome, bool)
	HUD() string
	View(width int) string
	Help() string
}

type resizer interface {
	Resize(width int)
}

// Arcade hosts a single minigame for a companion
type Arcade struct {
	kind      game.Kind
	companion *client.Companion
	player    player
	panel     reward.Panel
	rewards   *rewardview.RewardView
	spinner   spinner.Model
	reported  game.AttemptID
	err       string
	width     int
	height    int
}

// New creates the host for kind. companion is the companion as it was when
// the game was opened and is used for the before/after comparison.
func New(kind game.Kind, companion *client.Companion, deps Deps, width, height int) (*Arcade, error) {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Random == nil {
		deps.Random = random.New()
	}
	if deps.Schedule == nil {
		deps.Schedule = After
	}

	var p player
	switch kind {
	case game.Clicker:
		p = newClickerPlayer(deps)
	case game.Memory:
		p = newMemoryPlayer(deps)
	case game.Quiz:
		p = newQuizPlayer(deps)
	case game.Dodge:
		p = newDodgePlayer(deps)
	default:
		return nil, fmt.Errorf("unknown game %q", kind)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.KeyStyle

	a := &Arcade{
		kind:      kind,
		companion: companion,
		player:    p,
		spinner:   s,
	}
	a.rewards = rewardview.New(&a.panel, companion, width)
	a.SetSize(width, height)
	return a, nil
}

// Kind returns the hosted game
func (a *Arcade) Kind() game.Kind { return a.kind }

// Companion returns the companion playing
func (a *Arcade) Companion() *client.Companion { return a.companion }

// State returns the hosted game's state
func (a *Arcade) State() game.State { return a.player.State() }

// Panel returns the reward panel
func (a *Arcade) Panel() *reward.Panel { return &a.panel }

// SetSize updates the available area
func (a *Arcade) SetSize(width, height int) {
	a.width = width
	a.height = height
	a.rewards.SetWidth(width)
	if r, ok := a.player.(resizer); ok {
		r.Resize(width)
	}
}

// Init implements tea.Model
func (a *Arcade) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *Arcade) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return a, func() tea.Msg { return ExitMsg{} }
		case "enter":
			// enter also drives play, so it never restarts a finished game
			if a.player.State() == game.Idle {
				return a, a.start()
			}
		case "r":
			if a.idle() {
				return a, a.start()
			}
		}

	case RewardMsg:
		a.panel.Resolve(msg.Attempt, msg.Result, msg.Err)
		return a, nil

	case spinner.TickMsg:
		if a.panel.Status() != reward.Pending && a.player.State() != game.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	cmd := a.player.Update(msg)
	if done := a.checkFinished(); done != nil {
		return a, tea.Batch(cmd, done)
	}
	return a, cmd
}

func (a *Arcade) idle() bool {
	st := a.player.State()
	return st == game.Idle || st == game.Finished
}

func (a *Arcade) start() tea.Cmd {
	a.err = ""
	a.panel.Reset()
	_, cmd, err := a.player.Start()
	if err != nil {
		a.err = err.Error()
		return nil
	}
	if a.player.State() == game.Loading {
		return tea.Batch(cmd, a.spinner.Tick)
	}
	return cmd
}

// checkFinished reports a newly finished attempt exactly once
func (a *Arcade) checkFinished() tea.Cmd {
	out, ok := a.player.Outcome()
	if !ok || out.Attempt == a.reported {
		return nil
	}
	a.reported = out.Attempt
	a.panel.Begin(out.Attempt)
	return tea.Batch(
		func() tea.Msg { return FinishedMsg{Outcome: out} },
		a.spinner.Tick,
	)
}

// View implements tea.Model
func (a *Arcade) View() string {
	var sb strings.Builder

	name := "your companion"
	if a.companion != nil {
		name = a.companion.Name
	}
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Game.String(), a.kind.Title())))
	sb.WriteString("\n")

	switch a.player.State() {
	case game.Idle:
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Playing with %s", name)))
		sb.WriteString("\n")
		sb.WriteString(a.kind.Blurb())
		sb.WriteString("\n\n")
		if body := a.player.View(a.width); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}
		sb.WriteString(styles.Help.Render(a.help("enter", "start")))

	case game.Loading:
		sb.WriteString(a.spinner.View() + " Loading...")
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render(a.help("", "")))

	case game.Playing:
		sb.WriteString(a.player.HUD())
		sb.WriteString("\n\n")
		sb.WriteString(a.player.View(a.width))
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render(a.help("", "")))

	case game.Finished:
		sb.WriteString(styles.StatusOK.Render("Game Over!"))
		sb.WriteString("\n\n")
		sb.WriteString(a.player.HUD())
		sb.WriteString("\n\n")
		if body := a.player.View(a.width); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}
		sb.WriteString(a.rewards.View(a.spinner.View()))
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render(a.help("r", "play again")))
	}

	if a.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render(a.err))
	}
	return sb.String()
}

func (a *Arcade) help(key, label string) string {
	var parts []string
	if key != "" {
		parts = append(parts, styles.KeyStyle.Render(key)+" "+label)
	}
	if a.player.State() == game.Playing {
		if h := a.player.Help(); h != "" {
			parts = append(parts, h)
		}
	}
	parts = append(parts, styles.KeyStyle.Render("esc")+" back to sanctuary")
	return strings.Join(parts, "  ")
}
