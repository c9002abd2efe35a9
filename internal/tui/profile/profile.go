// ABOUTME: Profile screen showing the account with email, password and picture actions
// ABOUTME: Edits run in embedded huh forms; the app performs the API calls

package profile

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
)

// EmailSubmittedMsg asks the app to change the email address
type EmailSubmittedMsg struct {
	Email string
}

// PasswordSubmittedMsg asks the app to change the password
type PasswordSubmittedMsg struct {
	Current, New, Confirm string
}

// UploadRequestedMsg asks the app to open the picture picker
type UploadRequestedMsg struct{}

// RemovePictureMsg asks the app to clear the profile picture
type RemovePictureMsg struct{}

// BackMsg is sent when the user leaves the profile screen
type BackMsg struct{}

type mode int

const (
	modeView mode = iota
	modeEmail
	modePassword
)

// Profile is the profile screen
type Profile struct {
	profile *client.UserProfile
	mode    mode
	form    *huh.Form
	busy    bool
	message string
	failed  bool

	email           string
	currentPassword string
	newPassword     string
	confirmPassword string
}

// New creates the profile screen. profile may be nil while loading.
func New(profile *client.UserProfile) *Profile {
	return &Profile{profile: profile}
}

// SetProfile replaces the profile shown and ends any pending action
func (p *Profile) SetProfile(profile *client.UserProfile) {
	p.profile = profile
	p.busy = false
}

// Succeed ends the pending action with a success message
func (p *Profile) Succeed(message string) {
	p.busy = false
	p.mode = modeView
	p.form = nil
	p.message = message
	p.failed = false
}

// Fail ends the pending action with an error message, keeping any open form
func (p *Profile) Fail(message string) tea.Cmd {
	p.busy = false
	p.message = message
	p.failed = true
	switch p.mode {
	case modeEmail:
		p.form = p.emailForm()
		return p.form.Init()
	case modePassword:
		p.currentPassword, p.newPassword, p.confirmPassword = "", "", ""
		p.form = p.passwordForm()
		return p.form.Init()
	}
	return nil
}

// Busy reports whether an action is in flight
func (p *Profile) Busy() bool { return p.busy }

// Editing reports whether a form is open
func (p *Profile) Editing() bool { return p.mode != modeView }

func (p *Profile) emailForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&p.email).
				Validate(func(s string) error { return account.ValidateEmail(strings.TrimSpace(s)) }),
		).Title("Change email").
			Description("Enter to save, Esc to cancel"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

func (p *Profile) passwordForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&p.currentPassword).
				Validate(required),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&p.newPassword).
				Validate(required),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&p.confirmPassword).
				Validate(required),
		).Title("Change password").
			Description("Enter to save, Esc to cancel"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (p *Profile) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p *Profile) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.busy {
		return p, nil
	}
	if p.mode != modeView {
		return p.updateForm(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "e":
		if p.profile == nil {
			return p, nil
		}
		p.mode = modeEmail
		p.message = ""
		p.email = p.profile.Email
		p.form = p.emailForm()
		return p, p.form.Init()
	case "p":
		p.mode = modePassword
		p.message = ""
		p.currentPassword, p.newPassword, p.confirmPassword = "", "", ""
		p.form = p.passwordForm()
		return p, p.form.Init()
	case "u":
		return p, func() tea.Msg { return UploadRequestedMsg{} }
	case "x":
		if p.profile == nil || p.profile.ProfileImagePath == "" {
			return p, nil
		}
		p.busy = true
		return p, func() tea.Msg { return RemovePictureMsg{} }
	case "esc", "b":
		return p, func() tea.Msg { return BackMsg{} }
	}
	return p, nil
}

func (p *Profile) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		p.mode = modeView
		p.form = nil
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}
	if p.form.State != huh.StateCompleted {
		return p, cmd
	}

	p.busy = true
	p.message = ""
	if p.mode == modeEmail {
		email := strings.TrimSpace(p.email)
		return p, func() tea.Msg { return EmailSubmittedMsg{Email: email} }
	}
	submitted := PasswordSubmittedMsg{Current: p.currentPassword, New: p.newPassword, Confirm: p.confirmPassword}
	return p, func() tea.Msg { return submitted }
}

// View implements tea.Model
func (p *Profile) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Profile.String() + " My Profile"))
	sb.WriteString("\n")

	if p.profile == nil {
		sb.WriteString(styles.Dim.Render("Loading Profile..."))
		p.writeMessage(&sb)
		return sb.String()
	}

	picture := p.profile.ProfileImagePath
	if picture == "" {
		picture = styles.Dim.Render("(none)")
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", styles.KeyStyle.Render("Username:"), styles.ValueStyle.Render(p.profile.Username)))
	sb.WriteString(fmt.Sprintf("%s    %s\n", styles.KeyStyle.Render("Email:"), p.profile.Email))
	sb.WriteString(fmt.Sprintf("%s  %s\n", styles.KeyStyle.Render("Picture:"), picture))

	if p.form != nil {
		sb.WriteString("\n")
		sb.WriteString(p.form.View())
	}
	if p.busy {
		sb.WriteString("\n")
		sb.WriteString(styles.Dim.Render("Saving..."))
	}
	p.writeMessage(&sb)
	return sb.String()
}

func (p *Profile) writeMessage(sb *strings.Builder) {
	if p.message == "" {
		return
	}
	sb.WriteString("\n\n")
	if p.failed {
		sb.WriteString(styles.StatusCritical.Render(p.message))
	} else {
		sb.WriteString(styles.StatusOK.Render(p.message))
	}
}

func required(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}
