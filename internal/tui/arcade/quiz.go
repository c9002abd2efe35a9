// ABOUTME: Quiz screen: timed multiple choice lore questions
// ABOUTME: The countdown restarts per question; ticks from a previous question are dropped

package arcade

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paumaneja/mythic-companions-cli/internal/game"
	"github.com/paumaneja/mythic-companions-cli/internal/game/quiz"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/widgets"
)

type quizPlayer struct {
	game     *quiz.Game
	schedule Scheduler
	seq      int
	cursor   int
	feedback string
	correct  bool
}

func newQuizPlayer(deps Deps) *quizPlayer {
	return &quizPlayer{game: quiz.New(), schedule: deps.Schedule}
}

func (p *quizPlayer) Start() (game.AttemptID, tea.Cmd, error) {
	id, err := p.game.Start()
	if err != nil {
		return "", nil, err
	}
	p.cursor = 0
	p.feedback = ""
	p.seq++
	return id, func() tea.Msg { return QuestionsWantedMsg{Attempt: id} }, nil
}

func (p *quizPlayer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case QuestionsMsg:
		if p.game.Loaded(msg.Attempt, msg.Questions, msg.Err) && p.game.Playing() {
			return p.nextTick()
		}

	case tickMsg:
		if msg.attempt != p.game.Attempt() || msg.seq != p.seq || !p.game.Playing() {
			return nil
		}
		q := p.game.Current()
		if p.game.Tick() {
			p.feedback = fmt.Sprintf("Time's up! The answer was: %s", q.CorrectAnswer)
			p.correct = false
			p.cursor = 0
		}
		if p.game.Playing() {
			return p.schedule(quiz.TickInterval, tickMsg{attempt: msg.attempt, seq: p.seq})
		}

	case tea.KeyMsg:
		q := p.game.Current()
		if q == nil {
			return nil
		}
		switch key := msg.String(); key {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(q.Options)-1 {
				p.cursor++
			}
		case " ", "enter":
			return p.choose(p.cursor)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			return p.choose(int(key[0] - '1'))
		}
	}
	return nil
}

func (p *quizPlayer) choose(i int) tea.Cmd {
	q := p.game.Current()
	correct, ok := p.game.Choose(i)
	if !ok {
		return nil
	}
	p.correct = correct
	if correct {
		p.feedback = "Correct!"
	} else {
		p.feedback = fmt.Sprintf("Wrong! The answer was: %s", q.CorrectAnswer)
	}
	p.cursor = 0
	if p.game.Playing() {
		return p.nextTick()
	}
	return nil
}

// nextTick restarts the per-question countdown
func (p *quizPlayer) nextTick() tea.Cmd {
	p.seq++
	return p.schedule(quiz.TickInterval, tickMsg{attempt: p.game.Attempt(), seq: p.seq})
}

func (p *quizPlayer) State() game.State { return p.game.State() }

func (p *quizPlayer) Outcome() (game.Outcome, bool) { return p.game.Outcome() }

func (p *quizPlayer) HUD() string {
	cfg := widgets.DefaultMetricBlockConfig()
	question := fmt.Sprintf("%d/%d", min(p.game.Index()+1, p.game.Total()), p.game.Total())
	return widgets.MetricRow(
		widgets.MetricBlock(icons.Info, "Question", question, cfg),
		widgets.MetricBlock(icons.Timer, "Time", fmt.Sprintf("%ds", p.game.Remaining()), cfg),
		widgets.MetricBlock(icons.Trophy, "Score", fmt.Sprintf("%d", p.game.Correct()), cfg),
	)
}

func (p *quizPlayer) View(width int) string {
	var sb strings.Builder

	switch p.game.State() {
	case game.Idle:
		sb.WriteString(fmt.Sprintf("Test your knowledge! You have %d seconds per question.", quiz.QuestionTime))
		if msg := p.game.Err(); msg != "" {
			sb.WriteString("\n")
			sb.WriteString(styles.StatusCritical.Render(msg))
		}
		return sb.String()

	case game.Finished:
		sb.WriteString(styles.ValueStyle.Render(
			fmt.Sprintf("You scored %d out of %d!", p.game.Correct(), p.game.Total())))
		sb.WriteString("\n")
		for _, a := range p.game.Answers() {
			mark := styles.StatusOK.Render(icons.CheckOK.String())
			if !a.Correct {
				mark = styles.StatusCritical.Render(icons.Critical.String())
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", mark, a.Question.QuestionText))
		}
		return strings.TrimRight(sb.String(), "\n")
	}

	q := p.game.Current()
	if q == nil {
		return ""
	}
	barWidth := min(40, max(10, width-10))
	sb.WriteString(widgets.CountdownBar(p.game.Remaining(), quiz.QuestionTime, barWidth))
	sb.WriteString("\n\n")
	if q.Universe != "" {
		sb.WriteString(styles.Dim.Render(q.Universe))
		sb.WriteString("\n")
	}
	sb.WriteString(styles.ValueStyle.Render(q.QuestionText))
	sb.WriteString("\n\n")
	for i, opt := range q.Options {
		sb.WriteString(styles.Row(fmt.Sprintf("%d. %s", i+1, opt), i == p.cursor))
		sb.WriteString("\n")
	}
	if p.feedback != "" {
		sb.WriteString("\n")
		if p.correct {
			sb.WriteString(styles.StatusOK.Render(p.feedback))
		} else {
			sb.WriteString(styles.StatusWarning.Render(p.feedback))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (p *quizPlayer) Help() string {
	return styles.KeyStyle.Render("1-4") + " answer  " + styles.KeyStyle.Render("↑↓ enter") + " choose"
}
