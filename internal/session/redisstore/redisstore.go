// ABOUTME: Redis-backed session storage
// ABOUTME: Lets several terminals on one host share a login under a named profile

package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paumaneja/mythic-companions-cli/internal/session"
)

// keyPrefix namespaces all keys written by the client
const keyPrefix = "mythic"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Profile separates independent logins sharing one Redis
	Profile string

	// TTL expires the stored session. Zero keeps it until logout.
	TTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:     "redis://localhost:6379/0",
		Profile: "default",
	}
}

// Store is a Redis-backed implementation of session.Storage
type Store struct {
	client *redis.Client
	cfg    Config
}

var _ session.Storage = (*Store)(nil)

// New connects to Redis and verifies the connection
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cannot reach redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	if cfg.Profile == "" {
		cfg.Profile = DefaultConfig().Profile
	}
	return &Store{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// sessionKey returns the hash key holding the triple for this profile
func (s *Store) sessionKey() string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, s.cfg.Profile)
}

// Load reads the credential hash
func (s *Store) Load(ctx context.Context) (session.Credentials, error) {
	values, err := s.client.HGetAll(ctx, s.sessionKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Credentials{}, session.ErrNotFound
		}
		return session.Credentials{}, err
	}
	if len(values) == 0 {
		return session.Credentials{}, session.ErrNotFound
	}
	return session.Credentials{
		Token:  values["token"],
		UserID: values["userId"],
		Role:   values["role"],
	}, nil
}

// Save replaces the credential hash in one transaction
func (s *Store) Save(ctx context.Context, creds session.Credentials) error {
	key := s.sessionKey()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]any{
			"token":  creds.Token,
			"userId": creds.UserID,
			"role":   creds.Role,
		})
		if s.cfg.TTL > 0 {
			pipe.Expire(ctx, key, s.cfg.TTL)
		}
		return nil
	})
	return err
}

// Clear deletes the credential hash
func (s *Store) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.sessionKey()).Err()
}
