// ABOUTME: Clicker minigame: count presses during a fixed countdown
// ABOUTME: The countdown only moves on Tick, which the UI drives once per second

package clicker

import (
	"time"

	"github.com/paumaneja/mythic-companions-cli/internal/game"
)

// Duration is the countdown length in ticks
const Duration = 15

// TickInterval is how often the UI should call Tick
const TickInterval = time.Second

// Game is one clicker session
type Game struct {
	game.Machine
	clicks    int
	remaining int
}

// New creates an idle clicker game
func New() *Game {
	return &Game{remaining: Duration}
}

// Start resets the counters and begins the countdown
func (g *Game) Start() (game.AttemptID, error) {
	id, err := g.Begin(game.Playing)
	if err != nil {
		return "", err
	}
	g.clicks = 0
	g.remaining = Duration
	return id, nil
}

// Click counts one press. Presses outside play are ignored.
func (g *Game) Click() bool {
	if !g.Playing() {
		return false
	}
	g.clicks++
	return true
}

// Tick advances the countdown by one second and reports whether this tick
// ended the game
func (g *Game) Tick() bool {
	if !g.Playing() {
		return false
	}
	g.remaining--
	if g.remaining > 0 {
		return false
	}
	g.remaining = 0
	return g.Finish()
}

// Clicks returns the presses counted so far
func (g *Game) Clicks() int { return g.clicks }

// Remaining returns the seconds left on the countdown
func (g *Game) Remaining() int { return g.remaining }

// Outcome returns the final score once the game has finished
func (g *Game) Outcome() (game.Outcome, bool) {
	if g.State() != game.Finished {
		return game.Outcome{}, false
	}
	return game.Outcome{Game: game.Clicker, Attempt: g.Attempt(), Score: float64(g.clicks)}, true
}
