// ABOUTME: Tests for the profile commands
// ABOUTME: Verifies email, password and picture changes against the fake API

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paumaneja/mythic-companions-cli/internal/testserver"
)

func TestSetEmailCommand(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)

	var buf bytes.Buffer
	exitCode := runSetEmail(context.Background(), &buf, "ash.ketchum@example.com")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Profile updated successfully!") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	p, _ := srv.UserProfile(testserver.Username)
	if p.Email != "ash.ketchum@example.com" {
		t.Errorf("expected the server to store the new email, got %s", p.Email)
	}
}

func TestSetEmailCommand_Invalid(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)

	var buf bytes.Buffer
	if exitCode := runSetEmail(context.Background(), &buf, "nope"); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if calls := srv.Calls("PUT", "/api/users/me"); calls != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}

func TestSetEmailCommand_NotLoggedIn(t *testing.T) {
	setupServer(t)

	var buf bytes.Buffer
	if exitCode := runSetEmail(context.Background(), &buf, "ash@example.com"); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}

func TestChangePasswordCommand(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)
	currentPassword = testserver.Password
	newPassword = "raichu"
	confirmPassword = "raichu"

	var buf bytes.Buffer
	if exitCode := runChangePassword(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Password changed successfully!") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestChangePasswordCommand_Mismatch(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)
	currentPassword = testserver.Password
	newPassword = "raichu"
	confirmPassword = "raichu2"

	var buf bytes.Buffer
	if exitCode := runChangePassword(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "do not match") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if calls := srv.Calls("POST", "/api/users/change-password"); calls != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}

func TestChangePasswordCommand_WrongCurrent(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)
	currentPassword = "wrong"
	newPassword = "raichu"
	confirmPassword = "raichu"

	var buf bytes.Buffer
	if exitCode := runChangePassword(context.Background(), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Incorrect current password") {
		t.Errorf("expected server message, got %s", buf.String())
	}
}

func TestUploadPictureCommand(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)
	path := filepath.Join(t.TempDir(), "ash.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if exitCode := runUploadPicture(context.Background(), &buf, path); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "/uploads/ash.png") {
		t.Errorf("expected the new picture path, got %s", buf.String())
	}
	if uploads := srv.Uploads(); len(uploads) != 1 || uploads[0] != "ash.png" {
		t.Errorf("unexpected uploads: %v", uploads)
	}
}

func TestUploadPictureCommand_NotAnImage(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if exitCode := runUploadPicture(context.Background(), &buf, path); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if len(srv.Uploads()) != 0 {
		t.Error("expected nothing to be uploaded")
	}
}

func TestRemovePictureCommand(t *testing.T) {
	srv := setupServer(t)
	storeLogin(t, srv)

	var buf bytes.Buffer
	if exitCode := runRemovePicture(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Profile picture removed.") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
