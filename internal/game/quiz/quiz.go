// ABOUTME: Quiz minigame: timed multiple-choice questions fetched from the server
// ABOUTME: Loading results are matched to the attempt that asked for them

package quiz

import (
	"time"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/game"
)

// QuestionTime is the countdown for each question, in ticks
const QuestionTime = 30

// TickInterval is how often the UI should call Tick
const TickInterval = time.Second

// Messages shown when a quiz cannot start
const (
	MsgNoQuestions = "Could not load questions for this companion. Please try again later."
	MsgFetchFailed = "Failed to fetch quiz questions from the server."
)

// Answer records how one question went
type Answer struct {
	Question client.Question
	Chosen   string // empty when the question timed out
	Correct  bool
}

// Game is one quiz session
type Game struct {
	game.Machine
	questions []client.Question
	index     int
	correct   int
	remaining int
	answers   []Answer
	errMsg    string
}

// New creates an idle quiz
func New() *Game {
	return &Game{remaining: QuestionTime}
}

// Start begins loading questions. The caller fetches them and reports back
// through Loaded with the returned attempt id.
func (g *Game) Start() (game.AttemptID, error) {
	id, err := g.Begin(game.Loading)
	if err != nil {
		return "", err
	}
	g.questions = nil
	g.index = 0
	g.correct = 0
	g.remaining = QuestionTime
	g.answers = nil
	g.errMsg = ""
	return id, nil
}

// Loaded delivers the fetch result for attempt. Results for any other attempt
// are ignored and Loaded reports false. An error or an empty list sends the
// game back to idle with a message; it never starts without questions.
func (g *Game) Loaded(attempt game.AttemptID, questions []client.Question, err error) bool {
	if attempt != g.Attempt() || g.State() != game.Loading {
		return false
	}
	switch {
	case err != nil:
		g.errMsg = MsgFetchFailed
		_ = g.Abandon()
	case len(questions) == 0:
		g.errMsg = MsgNoQuestions
		_ = g.Abandon()
	default:
		g.questions = questions
		_ = g.Ready()
	}
	return true
}

// Choose answers the current question with option i
func (g *Game) Choose(i int) (correct bool, ok bool) {
	if !g.Playing() {
		return false, false
	}
	q := g.questions[g.index]
	if i < 0 || i >= len(q.Options) {
		return false, false
	}
	chosen := q.Options[i]
	correct = chosen == q.CorrectAnswer
	if correct {
		g.correct++
	}
	g.answers = append(g.answers, Answer{Question: q, Chosen: chosen, Correct: correct})
	g.advance()
	return correct, true
}

// Tick runs the question countdown down by one. At zero the question is
// skipped without credit. It reports whether the question timed out.
func (g *Game) Tick() bool {
	if !g.Playing() {
		return false
	}
	g.remaining--
	if g.remaining > 0 {
		return false
	}
	g.answers = append(g.answers, Answer{Question: g.questions[g.index]})
	g.advance()
	return true
}

func (g *Game) advance() {
	g.index++
	g.remaining = QuestionTime
	if g.index >= len(g.questions) {
		g.Finish()
	}
}

// Current returns the question being asked, or nil when not playing
func (g *Game) Current() *client.Question {
	if !g.Playing() {
		return nil
	}
	q := g.questions[g.index]
	return &q
}

// Index returns the zero-based position of the current question
func (g *Game) Index() int { return g.index }

// Total returns the number of questions in this attempt
func (g *Game) Total() int { return len(g.questions) }

// Correct returns how many answers were right
func (g *Game) Correct() int { return g.correct }

// Remaining returns the ticks left on the current question
func (g *Game) Remaining() int { return g.remaining }

// Answers returns the per-question history of this attempt
func (g *Game) Answers() []Answer {
	out := make([]Answer, len(g.answers))
	copy(out, g.answers)
	return out
}

// Err returns the message explaining why the last start failed
func (g *Game) Err() string { return g.errMsg }

// Outcome returns the percentage of right answers once the quiz is over
func (g *Game) Outcome() (game.Outcome, bool) {
	if g.State() != game.Finished || len(g.questions) == 0 {
		return game.Outcome{}, false
	}
	score := float64(g.correct) / float64(len(g.questions)) * 100
	return game.Outcome{Game: game.Quiz, Attempt: g.Attempt(), Score: score}, true
}
