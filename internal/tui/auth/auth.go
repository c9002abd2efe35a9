// ABOUTME: Login and registration screens as bubbletea models
// ABOUTME: Each wraps a huh form and reports the submitted values as a message

package auth

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
)

// Mode selects which form is shown
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Messages shown on the auth screens
const (
	MsgLoginRejected      = "Invalid username or password."
	MsgLoginUnreachable   = "Login failed. Could not connect to the server."
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgRegisterUnexpected = "An unexpected error occurred."
	MsgRegistered         = "Registration successful! Please log in."
)

// LoginSubmittedMsg is sent when the login form is completed
type LoginSubmittedMsg struct {
	Username string
	Password string
}

// RegisterSubmittedMsg is sent when the registration form is completed
type RegisterSubmittedMsg struct {
	Registration client.Registration
}

// SwitchMsg asks the app to show the other form
type SwitchMsg struct {
	To Mode
}

// Form is the login or registration screen
type Form struct {
	mode   Mode
	form   *huh.Form
	width  int
	busy   bool
	err    string
	notice string

	username string
	password string
	email    string
}

// NewLogin creates the login screen. notice is shown above the form, for
// example after an automatic logout.
func NewLogin(notice string) *Form {
	f := &Form{mode: ModeLogin, notice: notice}
	f.form = f.buildForm()
	return f
}

// NewRegister creates the registration screen
func NewRegister() *Form {
	f := &Form{mode: ModeRegister}
	f.form = f.buildForm()
	return f
}

// Mode returns which form this is
func (f *Form) Mode() Mode { return f.mode }

func (f *Form) buildForm() *huh.Form {
	username := huh.NewInput().
		Title("Username").
		Placeholder("Username").
		CharLimit(50).
		Value(&f.username).
		Validate(required("username"))
	password := huh.NewInput().
		Title("Password").
		Placeholder("Password").
		EchoMode(huh.EchoModePassword).
		Value(&f.password).
		Validate(required("password"))

	if f.mode == ModeLogin {
		return huh.NewForm(
			huh.NewGroup(username, password).
				Title("Log in").
				Description("Welcome back, tamer."),
		).WithTheme(styles.FormTheme()).WithShowHelp(false)
	}

	email := huh.NewInput().
		Title("Email").
		Placeholder("Email").
		Value(&f.email).
		Validate(validateEmail)
	return huh.NewForm(
		huh.NewGroup(username, email, password).
			Title("Create an account").
			Description("Adopt your first companion after signing up."),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
	case tea.KeyMsg:
		if f.busy {
			return f, nil
		}
		switch msg.String() {
		case "ctrl+r":
			if f.mode == ModeLogin {
				return f, func() tea.Msg { return SwitchMsg{To: ModeRegister} }
			}
		case "esc":
			if f.mode == ModeRegister {
				return f, func() tea.Msg { return SwitchMsg{To: ModeLogin} }
			}
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submit()
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	f.busy = true
	f.err = ""
	username := strings.TrimSpace(f.username)
	if f.mode == ModeLogin {
		password := f.password
		return func() tea.Msg { return LoginSubmittedMsg{Username: username, Password: password} }
	}
	reg := client.Registration{Username: username, Email: strings.TrimSpace(f.email), Password: f.password}
	return func() tea.Msg { return RegisterSubmittedMsg{Registration: reg} }
}

// Fail shows message and reopens the form. The password is cleared and the
// other fields are kept.
func (f *Form) Fail(message string) tea.Cmd {
	f.busy = false
	f.err = message
	f.notice = ""
	f.password = ""
	f.form = f.buildForm()
	return f.form.Init()
}

// SetWidth sets the width the screen renders at
func (f *Form) SetWidth(w int) { f.width = w }

// Busy reports whether a submission is in flight
func (f *Form) Busy() bool { return f.busy }

// Err returns the error currently shown
func (f *Form) Err() string { return f.err }

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.App.String() + " Mythic Companions"))
	sb.WriteString("\n")

	if f.notice != "" {
		sb.WriteString(styles.StatusWarning.Render(f.notice))
		sb.WriteString("\n\n")
	}

	sb.WriteString(f.form.View())

	if f.busy {
		label := "Logging in..."
		if f.mode == ModeRegister {
			label = "Creating account..."
		}
		sb.WriteString("\n")
		sb.WriteString(styles.Dim.Render(label))
	}
	if f.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render(f.err))
	}

	return lipgloss.NewStyle().Width(max(f.width-4, 40)).Render(sb.String())
}

// LoginFailure turns a login error into screen text
func LoginFailure(err error) string {
	if errors.Is(err, client.ErrUnreachable) {
		return MsgLoginUnreachable
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return client.Message(err, MsgLoginRejected)
	}
	return MsgLoginUnreachable
}

// RegisterFailure turns a registration error into screen text
func RegisterFailure(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return client.Message(err, MsgRegisterFailed)
	}
	return MsgRegisterUnexpected
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}
