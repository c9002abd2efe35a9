// ABOUTME: Submits finished minigame scores and tracks the reward panel
// ABOUTME: Each attempt is submitted at most once; late results for old attempts are dropped

package reward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/game"
)

var (
	// ErrMissingCompanion means there is no companion to credit the score to
	ErrMissingCompanion = errors.New("no companion selected for this game")
	// ErrAlreadySubmitted means this attempt's score was sent before
	ErrAlreadySubmitted = errors.New("score already submitted for this attempt")
)

// Messages shown in the reward panel when submission fails
const (
	MsgSubmitFailed     = "Failed to submit score."
	MsgUnexpected       = "An unexpected error occurred while finishing the game."
	MsgMissingCompanion = "Companion ID is missing. Return to the sanctuary and try again."
)

// Completer reports a finished game to the reward service
type Completer interface {
	CompleteMinigame(ctx context.Context, completion client.GameCompletion) (*client.GameResult, error)
}

// Submitter sends outcomes to the reward service
type Submitter struct {
	api    Completer
	logger *slog.Logger

	mu        sync.Mutex
	submitted map[game.AttemptID]struct{}
}

// NewSubmitter creates a Submitter. A nil logger uses slog.Default.
func NewSubmitter(api Completer, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		api:       api,
		logger:    logger.With("component", "reward"),
		submitted: make(map[game.AttemptID]struct{}),
	}
}

// Submit posts the outcome for companionID. A second call for the same
// attempt returns ErrAlreadySubmitted without contacting the server.
func (s *Submitter) Submit(ctx context.Context, out game.Outcome, companionID int64) (*client.GameResult, error) {
	if companionID <= 0 {
		return nil, ErrMissingCompanion
	}
	if out.Attempt == "" {
		return nil, fmt.Errorf("outcome has no attempt id")
	}

	s.mu.Lock()
	if _, done := s.submitted[out.Attempt]; done {
		s.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	s.submitted[out.Attempt] = struct{}{}
	s.mu.Unlock()

	s.logger.Info("submitting score", "game", out.Game, "attempt", out.Attempt, "companion_id", companionID, "score", out.Score)
	result, err := s.api.CompleteMinigame(ctx, client.GameCompletion{CompanionID: companionID, Score: out.Score})
	if err != nil {
		s.logger.Warn("score submission failed", "attempt", out.Attempt, "error", err)
		return nil, err
	}
	return result, nil
}

// Status is the reward panel's state, separate from the game's own state
type Status int

const (
	Hidden Status = iota
	Pending
	Received
	Failed
)

// Panel holds what the reward panel shows for the latest attempt
type Panel struct {
	attempt game.AttemptID
	status  Status
	result  *client.GameResult
	errMsg  string
}

// Begin shows the panel as pending for attempt, replacing anything shown before
func (p *Panel) Begin(attempt game.AttemptID) {
	*p = Panel{attempt: attempt, status: Pending}
}

// Reset hides the panel
func (p *Panel) Reset() {
	*p = Panel{}
}

// Resolve records the submission result for attempt. Results for an attempt
// other than the one being shown are ignored and Resolve reports false.
func (p *Panel) Resolve(attempt game.AttemptID, result *client.GameResult, err error) bool {
	if attempt != p.attempt || p.status != Pending {
		return false
	}
	if err != nil {
		p.status = Failed
		p.errMsg = FailureMessage(err)
		return true
	}
	p.status = Received
	p.result = result
	return true
}

// Status returns the panel state
func (p *Panel) Status() Status { return p.status }

// Attempt returns the attempt the panel belongs to
func (p *Panel) Attempt() game.AttemptID { return p.attempt }

// Result returns the reward manifest once received
func (p *Panel) Result() *client.GameResult { return p.result }

// Err returns the failure message once failed
func (p *Panel) Err() string { return p.errMsg }

// FailureMessage turns a submission error into panel text
func FailureMessage(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, ErrMissingCompanion):
		return MsgMissingCompanion
	case errors.Is(err, client.ErrUnreachable):
		return client.Describe(err, MsgUnexpected)
	case errors.As(err, &apiErr):
		return client.Message(err, MsgSubmitFailed)
	default:
		return MsgUnexpected
	}
}
