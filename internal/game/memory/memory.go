// ABOUTME: Memory-match minigame: find every pair on a shuffled board
// ABOUTME: A mismatched pair stays face up until Resolve, which the UI schedules

package memory

import (
	"math"
	"time"

	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/random"
	"github.com/paumaneja/mythic-companions-cli/internal/game"
)

// MismatchDelay is how long a mismatched pair stays visible
const MismatchDelay = time.Second

// DefaultIdentities are the item pictures dealt onto the board
var DefaultIdentities = []string{
	"Lembas Bread",
	"Small Health Potion",
	"Antidote",
	"Sturdy Frying Pan",
	"Wooden Sword",
	"Practice Axe",
	"Luminescent Crystal",
	"Miniature Sling",
}

// Card is one tile on the board
type Card struct {
	ID       int
	Identity string
	FaceUp   bool
	Matched  bool
}

// FlipResult describes what a flip did
type FlipResult int

const (
	// FlipRejected means the flip was not allowed and nothing changed
	FlipRejected FlipResult = iota
	// FlipFirst turned up the first card of a pair attempt
	FlipFirst
	// FlipMatch completed a pair
	FlipMatch
	// FlipMismatch turned up a second card that does not match
	FlipMismatch
)

// Game is one memory-match session
type Game struct {
	game.Machine
	rnd        random.Random
	identities []string

	cards     []Card
	first     int
	second    int
	resolving bool
	moves     int
	pairs     int
}

// New creates an idle game dealing the given identities, or
// DefaultIdentities when none are given
func New(rnd random.Random, identities []string) *Game {
	if len(identities) == 0 {
		identities = DefaultIdentities
	}
	return &Game{rnd: rnd, identities: identities, first: -1, second: -1}
}

// Start deals a freshly shuffled board
func (g *Game) Start() (game.AttemptID, error) {
	id, err := g.Begin(game.Playing)
	if err != nil {
		return "", err
	}

	g.cards = make([]Card, 0, 2*len(g.identities))
	for _, identity := range g.identities {
		g.cards = append(g.cards, Card{Identity: identity}, Card{Identity: identity})
	}
	// Fisher-Yates
	for i := len(g.cards) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
	}
	for i := range g.cards {
		g.cards[i].ID = i
	}

	g.first, g.second = -1, -1
	g.resolving = false
	g.moves = 0
	g.pairs = 0
	return id, nil
}

// Flip turns up card i
func (g *Game) Flip(i int) FlipResult {
	if !g.Playing() || g.resolving || i < 0 || i >= len(g.cards) {
		return FlipRejected
	}
	card := &g.cards[i]
	if card.FaceUp || card.Matched {
		return FlipRejected
	}

	card.FaceUp = true
	if g.first < 0 {
		g.first = i
		g.moves++
		return FlipFirst
	}

	first := &g.cards[g.first]
	if first.Identity == card.Identity {
		first.Matched, card.Matched = true, true
		g.first = -1
		g.pairs++
		if g.pairs == len(g.identities) {
			g.Finish()
		}
		return FlipMatch
	}

	g.second = i
	g.resolving = true
	return FlipMismatch
}

// Resolve turns a mismatched pair back face down and reopens the board
func (g *Game) Resolve() bool {
	if !g.resolving {
		return false
	}
	g.cards[g.first].FaceUp = false
	g.cards[g.second].FaceUp = false
	g.first, g.second = -1, -1
	g.resolving = false
	return true
}

// Resolving reports whether a mismatched pair is waiting to flip back
func (g *Game) Resolving() bool { return g.resolving }

// Cards returns a copy of the board
func (g *Game) Cards() []Card {
	out := make([]Card, len(g.cards))
	copy(out, g.cards)
	return out
}

// Moves returns the number of pair attempts started
func (g *Game) Moves() int { return g.moves }

// Pairs returns the number of pairs found
func (g *Game) Pairs() int { return g.pairs }

// PairCount returns how many pairs are on the board
func (g *Game) PairCount() int { return len(g.identities) }

// Score maps a move count to points for a board of n pairs. A perfect game
// scores 100, each extra move costs 5, and the floor is 10.
func Score(moves, n int) int {
	return int(math.Max(float64(100-5*(moves-n)), 10))
}

// Outcome returns the final score once every pair is found
func (g *Game) Outcome() (game.Outcome, bool) {
	if g.State() != game.Finished {
		return game.Outcome{}, false
	}
	return game.Outcome{
		Game:    game.Memory,
		Attempt: g.Attempt(),
		Score:   float64(Score(g.moves, len(g.identities))),
	}, true
}
