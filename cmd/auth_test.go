// ABOUTME: Tests for the login, logout and register commands
// ABOUTME: Verifies stored sessions, server messages and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/paumaneja/mythic-companions-cli/internal/session"
	"github.com/paumaneja/mythic-companions-cli/internal/session/redisstore"
	"github.com/paumaneja/mythic-companions-cli/internal/testserver"
)

func TestLoginCommand_Success(t *testing.T) {
	setupServer(t)
	authUsername = testserver.Username
	authPassword = testserver.Password

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as ash (USER)") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	creds, err := sessionFile(t).Load(context.Background())
	if err != nil {
		t.Fatalf("expected a stored session: %v", err)
	}
	if creds.UserID != "1" || creds.Role != "USER" || creds.Token == "" {
		t.Errorf("unexpected stored credentials: %+v", creds)
	}
}

func TestLoginCommand_JSON(t *testing.T) {
	setupServer(t)
	authUsername = testserver.Username
	authPassword = testserver.Password
	jsonOutput = true

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["username"] != "ash" || parsed["role"] != "USER" {
		t.Errorf("unexpected JSON: %v", parsed)
	}
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	setupServer(t)
	authUsername = testserver.Username
	authPassword = "wrong"

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Invalid username or password") {
		t.Errorf("expected server message, got %s", buf.String())
	}
	if _, err := sessionFile(t).Load(context.Background()); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected no stored session, got %v", err)
	}
}

func TestLoginCommand_MissingFlags(t *testing.T) {
	setupServer(t)
	authUsername = testserver.Username

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestLoginCommand_ConnectionError(t *testing.T) {
	setupServer(t)
	apiURL = "http://127.0.0.1:1"
	authUsername = testserver.Username
	authPassword = testserver.Password

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Cannot reach the server") {
		t.Errorf("expected connectivity message, got %s", buf.String())
	}
}

func TestLoginCommand_RedisStore(t *testing.T) {
	setupServer(t)
	mini := miniredis.RunT(t)
	t.Setenv("MYTHIC_SESSION_STORE", "redis")
	t.Setenv("MYTHIC_REDIS_URL", "redis://"+mini.Addr()+"/0")
	t.Setenv("MYTHIC_SESSION_PROFILE", "work")
	authUsername = testserver.Username
	authPassword = testserver.Password

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	rs, err := redisstore.New(context.Background(), redisstore.Config{URL: "redis://" + mini.Addr() + "/0", Profile: "work"})
	if err != nil {
		t.Fatalf("connecting to miniredis: %v", err)
	}
	defer rs.Close()
	creds, err := rs.Load(context.Background())
	if err != nil {
		t.Fatalf("expected the session in redis: %v", err)
	}
	if creds.UserID != "1" {
		t.Errorf("expected user 1, got %q", creds.UserID)
	}

	buf.Reset()
	if exitCode := runWhoami(context.Background(), &buf); exitCode != 0 {
		t.Errorf("expected whoami to reuse the redis session, got %d: %s", exitCode, buf.String())
	}
}

func TestLogoutCommand(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)

	var buf bytes.Buffer
	if exitCode := runLogout(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Logged out.") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if _, err := sessionFile(t).Load(context.Background()); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected the session to be cleared, got %v", err)
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	setupServer(t)

	var buf bytes.Buffer
	if exitCode := runLogout(context.Background(), &buf); exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Not logged in.") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRegisterCommand_Success(t *testing.T) {
	setupServer(t)
	authUsername = "misty"
	authEmail = "misty@example.com"
	authPassword = "starmie"

	var buf bytes.Buffer
	if exitCode := runRegister(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	// The new account can log in
	buf.Reset()
	authEmail = ""
	if exitCode := runLogin(context.Background(), &buf); exitCode != 0 {
		t.Errorf("expected login with the new account to succeed, got %d: %s", exitCode, buf.String())
	}
}

func TestRegisterCommand_Duplicate(t *testing.T) {
	setupServer(t)
	authUsername = testserver.Username
	authEmail = "other@example.com"
	authPassword = "secret"

	var buf bytes.Buffer
	exitCode := runRegister(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Username is already taken") {
		t.Errorf("expected server message, got %s", buf.String())
	}
}

func TestRegisterCommand_InvalidEmail(t *testing.T) {
	srv := setupServer(t)
	authUsername = "misty"
	authEmail = "not-an-email"
	authPassword = "starmie"

	var buf bytes.Buffer
	if exitCode := runRegister(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if calls := srv.Calls("POST", "/auth/register"); calls != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}
