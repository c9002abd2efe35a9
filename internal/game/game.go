// ABOUTME: Lifecycle shared by every minigame: idle, loading, playing, finished
// ABOUTME: Each start issues a fresh attempt id so late results can be recognised

package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// State is the lifecycle state of a minigame
type State int

const (
	Idle State = iota
	Loading
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Kind names a minigame
type Kind string

const (
	Clicker Kind = "clicker"
	Memory  Kind = "memory"
	Quiz    Kind = "quiz"
	Dodge   Kind = "dodge"
)

// Kinds lists every minigame in menu order
var Kinds = []Kind{Clicker, Memory, Quiz, Dodge}

// Title is the display name of the game
func (k Kind) Title() string {
	switch k {
	case Clicker:
		return "Clicker Frenzy"
	case Memory:
		return "Memory Match"
	case Quiz:
		return "Lore Quiz"
	case Dodge:
		return "Dodge Challenge"
	default:
		return string(k)
	}
}

// Blurb is a one-line description shown in menus
func (k Kind) Blurb() string {
	switch k {
	case Clicker:
		return "Press as many times as you can in 15 seconds"
	case Memory:
		return "Find every pair of matching items"
	case Quiz:
		return "Answer questions about your companion's universe"
	case Dodge:
		return "Dodge the falling objects for as long as you can"
	default:
		return ""
	}
}

// AttemptID identifies one run of a minigame from start to finish
type AttemptID string

// NewAttemptID returns a random attempt id
func NewAttemptID() AttemptID {
	return AttemptID(uuid.NewString())
}

// Outcome is what a finished attempt hands to score submission
type Outcome struct {
	Game    Kind
	Attempt AttemptID
	Score   float64
}

// ErrIllegalTransition is returned when an action does not fit the current state
var ErrIllegalTransition = errors.New("illegal game state transition")

// Machine tracks state and attempt id. Engines embed it and only move
// through the transitions it allows.
type Machine struct {
	state   State
	attempt AttemptID
}

// State returns the current state
func (m *Machine) State() State { return m.state }

// Attempt returns the id of the current or most recent attempt
func (m *Machine) Attempt() AttemptID { return m.attempt }

// Playing reports whether the game is accepting moves
func (m *Machine) Playing() bool { return m.state == Playing }

// Begin starts a new attempt, moving to Playing or to Loading when the game
// needs data first. A running attempt has to finish before another begins;
// a pending load may be superseded.
func (m *Machine) Begin(target State) (AttemptID, error) {
	if target != Playing && target != Loading {
		return "", fmt.Errorf("%w: cannot begin in %s", ErrIllegalTransition, target)
	}
	if m.state == Playing {
		return "", fmt.Errorf("%w: attempt already playing", ErrIllegalTransition)
	}
	m.attempt = NewAttemptID()
	m.state = target
	return m.attempt, nil
}

// Ready moves a loading attempt into play
func (m *Machine) Ready() error {
	if m.state != Loading {
		return fmt.Errorf("%w: ready from %s", ErrIllegalTransition, m.state)
	}
	m.state = Playing
	return nil
}

// Abandon drops a loading attempt back to idle
func (m *Machine) Abandon() error {
	if m.state != Loading {
		return fmt.Errorf("%w: abandon from %s", ErrIllegalTransition, m.state)
	}
	m.state = Idle
	return nil
}

// Finish ends the running attempt. It reports false if the game was not
// playing, so callers can act on the transition exactly once.
func (m *Machine) Finish() bool {
	if m.state != Playing {
		return false
	}
	m.state = Finished
	return true
}
