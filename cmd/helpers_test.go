// ABOUTME: Shared setup for command tests
// ABOUTME: Points the CLI at an in-process API server and a temporary config directory

package cmd

import (
	"context"
	"testing"

	"github.com/paumaneja/mythic-companions-cli/internal/session"
	"github.com/paumaneja/mythic-companions-cli/internal/session/filestore"
	"github.com/paumaneja/mythic-companions-cli/internal/testserver"
)

// setupServer starts a fake API and isolates the command's config and flags
func setupServer(t *testing.T) *testserver.Server {
	t.Helper()
	srv := testserver.New(t)

	apiURL = srv.URL
	t.Cleanup(func() {
		apiURL = ""
		jsonOutput = false
		authUsername, authPassword, authEmail = "", "", ""
		currentPassword, newPassword, confirmPassword = "", "", ""
	})

	t.Setenv("MYTHIC_CONFIG_DIR", t.TempDir())
	t.Setenv("MYTHIC_SESSION_STORE", "file")
	t.Setenv("LOG_LEVEL", "error")
	return srv
}

// sessionFile returns the file store the commands use
func sessionFile(t *testing.T) *filestore.Store {
	t.Helper()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	return filestore.New(cfg.ConfigDir)
}

// storeLogin writes a valid session for the seeded user
func storeLogin(t *testing.T, srv *testserver.Server) {
	t.Helper()
	creds := session.Credentials{
		Token:  srv.Token(testserver.Username),
		UserID: "1",
		Role:   testserver.Role,
	}
	if err := sessionFile(t).Save(context.Background(), creds); err != nil {
		t.Fatalf("saving session: %v", err)
	}
}
