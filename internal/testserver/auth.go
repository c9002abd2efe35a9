// ABOUTME: Password hashing, token issuing and bearer authentication for the fake API
// ABOUTME: Tokens are HS256 JWTs carrying the username and user id; passwords are bcrypt hashes

package testserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Minimum cost keeps test logins fast
const hashCost = bcrypt.MinCost

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), hashCost)
}

func mustHash(password string) []byte {
	hash, err := hashPassword(password)
	if err != nil {
		panic(err)
	}
	return hash
}

func (u *user) checkPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) == nil
}

type contextKey string

const userKey contextKey = "user"

type claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Token issues a signed token for username, valid for the server's TTL
func (s *Server) Token(username string) string {
	s.mu.Lock()
	u := s.users[username]
	s.mu.Unlock()
	var id int64
	if u != nil {
		id = u.id
	}
	tok := s.sign(username, id, s.now().Add(s.tokenTTL))
	s.mu.Lock()
	s.issued[tok] = struct{}{}
	s.mu.Unlock()
	return tok
}

// ExpiredToken issues a token for username that expired a minute ago
func (s *Server) ExpiredToken(username string) string {
	return s.sign(username, UserID, s.now().Add(-time.Minute))
}

func (s *Server) sign(username string, userID int64, exp time.Time) string {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			slog.Debug("auth rejected: missing bearer", "path", r.URL.Path)
			writeError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		var c claims
		_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
		if err != nil {
			slog.Debug("auth rejected: invalid token", "path", r.URL.Path, "error", err)
			writeError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		s.mu.Lock()
		_, issued := s.issued[raw]
		u := s.users[c.Subject]
		s.mu.Unlock()
		if !issued || u == nil {
			writeError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(userKey).(*user)
	return u
}
