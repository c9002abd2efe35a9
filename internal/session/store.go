// ABOUTME: Session store holding the auth token, user id, role and cached profile
// ABOUTME: Persists credentials, enforces the inactivity timeout and broadcasts logouts

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/clock"
)

// DefaultInactivityTimeout is how long an authenticated session may sit idle
const DefaultInactivityTimeout = 5 * time.Minute

// storageTimeout bounds each call into Storage made from timer or hook context
const storageTimeout = 5 * time.Second

// ErrEmptyToken is returned by Login when no token is supplied
var ErrEmptyToken = errors.New("login requires a token")

// LogoutReason says why a session ended
type LogoutReason int

const (
	// ReasonExplicit is a user requested logout
	ReasonExplicit LogoutReason = iota
	// ReasonInactivity is the idle timer firing
	ReasonInactivity
	// ReasonRejected is the server refusing the token
	ReasonRejected
)

func (r LogoutReason) String() string {
	switch r {
	case ReasonInactivity:
		return "inactivity"
	case ReasonRejected:
		return "rejected"
	default:
		return "explicit"
	}
}

// EventKind identifies a session change
type EventKind int

const (
	EventLoggedIn EventKind = iota
	EventProfileUpdated
	EventLoggedOut
)

// Event is delivered to subscribers after the store's state has changed
type Event struct {
	Kind    EventKind
	Reason  LogoutReason
	Profile *client.UserProfile
}

// ProfileFetcher loads the signed-in user's profile
type ProfileFetcher interface {
	Profile(ctx context.Context) (*client.UserProfile, error)
}

// Options configures a Store
type Options struct {
	Clock             clock.Clock
	InactivityTimeout time.Duration
	Logger            *slog.Logger
}

// Store is the single owner of session state. It is safe for concurrent use:
// the UI loop, HTTP round trips and the idle timer all reach it.
type Store struct {
	storage Storage
	clock   clock.Clock
	timeout time.Duration
	logger  *slog.Logger

	mu           sync.Mutex
	fetcher      ProfileFetcher
	creds        Credentials
	profile      *client.UserProfile
	generation   uint64
	lastActivity time.Time
	timer        clock.Timer
	closed       bool
	listeners    []func(Event)
}

// New creates a Store backed by storage. Nothing is loaded until Rehydrate.
func New(storage Storage, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.InactivityTimeout <= 0 {
		opts.InactivityTimeout = DefaultInactivityTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		storage: storage,
		clock:   opts.Clock,
		timeout: opts.InactivityTimeout,
		logger:  opts.Logger.With("component", "session"),
	}
}

// UseProfileFetcher sets where profiles are loaded from. The API client needs
// the store as its token source, so this is wired after construction.
func (s *Store) UseProfileFetcher(f ProfileFetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetcher = f
}

// Subscribe registers fn for every subsequent Event. fn runs outside the
// store's lock and may call back into the store.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Token returns the bearer token, or "" when unauthenticated
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Token
}

// UserID returns the signed-in user's id, or ""
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.UserID
}

// Role returns the signed-in user's role, or ""
func (s *Store) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Role
}

// Authenticated reports whether a token is held
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Profile returns a copy of the cached profile, or nil if not yet loaded
func (s *Store) Profile() *client.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Login persists the triple, makes it current, restarts the idle countdown
// and loads the profile in the background
func (s *Store) Login(ctx context.Context, token, userID, role string) error {
	if token == "" {
		return ErrEmptyToken
	}
	creds := Credentials{Token: token, UserID: userID, Role: role}
	if err := s.storage.Save(ctx, creds); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.creds = creds
	s.profile = nil
	s.generation++
	gen := s.generation
	s.armLocked()
	fetcher := s.fetcher
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	s.logger.Info("logged in", "user_id", userID, "role", role)
	notify(listeners, Event{Kind: EventLoggedIn})

	if fetcher != nil {
		go s.loadProfile(fetcher, gen)
	}
	return nil
}

// Rehydrate restores a complete persisted triple and loads its profile. It
// reports whether a session is active afterwards. A failed profile load ends
// the restored session.
func (s *Store) Rehydrate(ctx context.Context) (bool, error) {
	creds, err := s.storage.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if !creds.Complete() {
		s.logger.Warn("discarding incomplete stored session")
		return false, s.storage.Clear(ctx)
	}
	if tokenExpired(creds.Token, s.clock.Now()) {
		s.logger.Info("stored token has expired")
		return false, s.storage.Clear(ctx)
	}

	s.mu.Lock()
	s.creds = creds
	s.profile = nil
	s.generation++
	gen := s.generation
	s.armLocked()
	fetcher := s.fetcher
	s.mu.Unlock()

	if fetcher == nil {
		return true, nil
	}

	profile, err := fetcher.Profile(ctx)
	if err != nil {
		s.logger.Warn("profile load failed for restored session", "error", err)
		s.end(ReasonRejected)
		return false, fmt.Errorf("restored session is no longer valid: %w", err)
	}
	s.applyProfile(gen, profile)
	return true, nil
}

// UpdateProfile replaces the cached profile. Token and role are untouched.
func (s *Store) UpdateProfile(profile *client.UserProfile) {
	if profile == nil {
		return
	}
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	s.applyProfile(gen, profile)
}

// Logout clears storage and memory. Calling it without a session is a no-op.
func (s *Store) Logout() {
	s.end(ReasonExplicit)
}

// Expire ends the session because the server rejected token. A rejection of
// a token from an earlier session is ignored. The signature matches the API
// client's auth failure hook.
func (s *Store) Expire(status int, token string) {
	s.mu.Lock()
	current := token != "" && token == s.creds.Token
	gen := s.generation
	s.mu.Unlock()
	if !current {
		s.logger.Debug("ignoring rejection of a stale token", "status", status)
		return
	}
	if s.endSession(ReasonRejected, sameGeneration(gen)) {
		s.logger.Warn("session rejected by server", "status", status)
	}
}

// Touch records user activity, pushing the idle deadline back
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds.Token == "" || s.closed {
		return
	}
	s.lastActivity = s.clock.Now()
}

// Close stops the idle timer. The stored session is kept for the next run.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.disarmLocked()
}

// end tears the session down and reports whether there was one to end
func (s *Store) end(reason LogoutReason) bool {
	return s.endSession(reason, func(uint64) bool { return true })
}

// endSession ends the session if one exists and match accepts its generation
func (s *Store) endSession(reason LogoutReason, match func(gen uint64) bool) bool {
	s.mu.Lock()
	if s.creds.Token == "" || !match(s.generation) {
		s.mu.Unlock()
		return false
	}
	s.creds = Credentials{}
	s.profile = nil
	s.generation++
	s.disarmLocked()

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	err := s.storage.Clear(ctx)
	cancel()
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to clear stored session", "error", err)
	}
	s.logger.Info("logged out", "reason", reason.String())
	notify(listeners, Event{Kind: EventLoggedOut, Reason: reason})
	return true
}

func (s *Store) loadProfile(fetcher ProfileFetcher, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
	defer cancel()

	profile, err := fetcher.Profile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.endSession(ReasonRejected, sameGeneration(gen))
			return
		}
		s.logger.Warn("profile load failed", "error", err)
		return
	}
	s.applyProfile(gen, profile)
}

// applyProfile stores profile only if gen is still the live session
func (s *Store) applyProfile(gen uint64, profile *client.UserProfile) {
	s.mu.Lock()
	if gen != s.generation || s.creds.Token == "" {
		s.mu.Unlock()
		s.logger.Debug("dropping profile for a session that has ended")
		return
	}
	p := *profile
	s.profile = &p
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	out := p
	notify(listeners, Event{Kind: EventProfileUpdated, Profile: &out})
}

func sameGeneration(gen uint64) func(uint64) bool {
	return func(current uint64) bool { return current == gen }
}

// armLocked starts a fresh idle countdown from now
func (s *Store) armLocked() {
	s.disarmLocked()
	if s.closed {
		return
	}
	s.lastActivity = s.clock.Now()
	gen := s.generation
	s.timer = s.clock.AfterFunc(s.timeout, func() { s.onIdleTimer(gen) })
}

func (s *Store) disarmLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// onIdleTimer fires at the earliest moment the session could have been idle
// for the full timeout. Activity since then pushes the deadline out.
func (s *Store) onIdleTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.creds.Token == "" || s.closed {
		s.mu.Unlock()
		return
	}
	idle := s.clock.Now().Sub(s.lastActivity)
	if idle < s.timeout {
		s.timer = s.clock.AfterFunc(s.timeout-idle, func() { s.onIdleTimer(gen) })
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.endSession(ReasonInactivity, sameGeneration(gen))
}

func (s *Store) snapshotListenersLocked() []func(Event) {
	out := make([]func(Event), len(s.listeners))
	copy(out, s.listeners)
	return out
}

func notify(listeners []func(Event), ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}
