// ABOUTME: Tests for the profile screen
// ABOUTME: Validates action keys, form lifecycle and message display

package profile

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testProfile() *client.UserProfile {
	return &client.UserProfile{Username: "ash", Email: "ash@example.com", ProfileImagePath: "/uploads/ash.png"}
}

func TestViewShowsProfile(t *testing.T) {
	p := New(testProfile())
	view := p.View()

	for _, want := range []string{"ash", "ash@example.com", "/uploads/ash.png"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\nView:\n%s", want, view)
		}
	}
}

func TestViewLoading(t *testing.T) {
	p := New(nil)

	if !strings.Contains(p.View(), "Loading Profile...") {
		t.Error("expected loading text")
	}
}

func TestUploadKey(t *testing.T) {
	p := New(testProfile())

	_, cmd := p.Update(runes("u"))
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(UploadRequestedMsg); !ok {
		t.Error("expected UploadRequestedMsg")
	}
}

func TestRemovePicture(t *testing.T) {
	p := New(testProfile())

	_, cmd := p.Update(runes("x"))
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(RemovePictureMsg); !ok {
		t.Error("expected RemovePictureMsg")
	}
	if !p.Busy() {
		t.Error("expected screen to be busy while removing")
	}

	// Keys are ignored while busy
	if _, cmd := p.Update(runes("u")); cmd != nil {
		t.Error("expected no command while busy")
	}
}

func TestRemovePictureWithoutPicture(t *testing.T) {
	profile := testProfile()
	profile.ProfileImagePath = ""
	p := New(profile)

	if _, cmd := p.Update(runes("x")); cmd != nil {
		t.Error("expected no command without a picture")
	}
}

func TestEmailFormOpensWithCurrentEmail(t *testing.T) {
	p := New(testProfile())

	p.Update(runes("e"))

	if !p.Editing() {
		t.Fatal("expected email form to open")
	}
	if p.email != "ash@example.com" {
		t.Errorf("expected current email prefilled, got %q", p.email)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Editing() {
		t.Error("expected esc to close the form")
	}
}

func TestSucceedClosesForm(t *testing.T) {
	p := New(testProfile())
	p.Update(runes("p"))
	p.busy = true

	p.Succeed(account.MsgPasswordChanged)

	if p.Editing() || p.Busy() {
		t.Error("expected form closed and screen idle")
	}
	if !strings.Contains(p.View(), account.MsgPasswordChanged) {
		t.Error("expected success message")
	}
}

func TestFailKeepsFormAndClearsPasswords(t *testing.T) {
	p := New(testProfile())
	p.Update(runes("p"))
	p.currentPassword, p.newPassword, p.confirmPassword = "a", "b", "c"
	p.busy = true

	p.Fail(account.MsgPasswordMismatch)

	if !p.Editing() {
		t.Error("expected form to stay open")
	}
	if p.currentPassword != "" || p.newPassword != "" || p.confirmPassword != "" {
		t.Error("expected password fields cleared")
	}
	if !strings.Contains(p.View(), account.MsgPasswordMismatch) {
		t.Error("expected error message")
	}
}

func TestBackKey(t *testing.T) {
	p := New(testProfile())

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("expected BackMsg")
	}
}
