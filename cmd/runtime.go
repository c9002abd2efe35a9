// ABOUTME: Shared wiring for commands: config, session storage and API client
// ABOUTME: Maps API and validation errors onto the CLI's exit codes

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/config"
	"github.com/paumaneja/mythic-companions-cli/internal/logger"
	"github.com/paumaneja/mythic-companions-cli/internal/session"
	"github.com/paumaneja/mythic-companions-cli/internal/session/filestore"
	"github.com/paumaneja/mythic-companions-cli/internal/session/redisstore"
)

// Exit codes
const (
	exitOK          = 0
	exitRejected    = 1
	exitUnavailable = 2
)

// runtime bundles what a command needs to talk to the API
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	storage session.Storage
	store   *session.Store
	client  *client.Client
	closers []func() error
}

func newRuntime(ctx context.Context, cfg *config.Config, log *slog.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, logger: log}

	switch cfg.SessionStore {
	case config.StoreRedis:
		rs, err := redisstore.New(ctx, redisstore.Config{URL: cfg.RedisURL, Profile: cfg.SessionProfile})
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		rt.storage = rs
		rt.closers = append(rt.closers, rs.Close)
	default:
		rt.storage = filestore.New(cfg.ConfigDir)
	}

	rt.store = session.New(rt.storage, session.Options{
		InactivityTimeout: cfg.InactivityTimeout,
		Logger:            log,
	})
	rt.client = client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithTokenSource(rt.store),
		client.WithAuthFailureHandler(rt.store.Expire),
	)
	rt.store.UseProfileFetcher(rt.client)
	return rt, nil
}

// openRuntime loads the configuration and wires a runtime that logs to
// stderr. Failures are reported on w.
func openRuntime(ctx context.Context, w io.Writer) (*runtime, int) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, exitUnavailable
	}
	rt, err := newRuntime(ctx, cfg, logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, exitUnavailable
	}
	return rt, exitOK
}

// Close stops the session timer and releases the storage backend
func (r *runtime) Close() {
	r.store.Close()
	for _, c := range r.closers {
		if err := c(); err != nil {
			r.logger.Debug("close failed", "error", err)
		}
	}
}

// requireSession restores the stored login
func (r *runtime) requireSession(ctx context.Context, w io.Writer) int {
	ok, err := r.store.Rehydrate(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnreachable) {
			fmt.Fprintf(w, "Error: %s\n", client.Describe(err, ""))
			return exitUnavailable
		}
		fmt.Fprintln(w, "Error: your session has expired. Run 'mythic login' again.")
		return exitUnavailable
	}
	if !ok {
		fmt.Fprintln(w, "Error: not logged in. Run 'mythic login' first.")
		return exitUnavailable
	}
	return exitOK
}

// fail prints err for the user and returns the matching exit code
func fail(w io.Writer, err error, fallback string) int {
	fmt.Fprintf(w, "Error: %s\n", account.Failure(err, fallback))
	return exitCode(err)
}

// exitCode classifies err: the server or the input said no (1), or the
// request could not be completed at all (2)
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, client.ErrUnreachable),
		errors.Is(err, client.ErrServer),
		errors.Is(err, client.ErrUnauthorized):
		return exitUnavailable
	}
	return exitRejected
}
