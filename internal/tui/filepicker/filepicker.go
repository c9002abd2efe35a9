// ABOUTME: File picker TUI component for choosing a profile picture
// ABOUTME: Lists discovered images and accepts a typed path

package filepicker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/pictures"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
)

// State represents the current UI state
type state int

const (
	stateList state = iota
	stateInput
)

// FileSelectedMsg is sent when a valid picture is chosen
type FileSelectedMsg struct {
	Path string
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// FilePicker is the picture selection component
type FilePicker struct {
	pictures  []pictures.Picture
	dir       string
	cursor    int
	state     state
	textInput textinput.Model
	err       string
	width     int
	height    int
}

// New creates a new FilePicker over the pictures found in dir
func New(dir string, found []pictures.Picture) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "~/Pictures/avatar.png"
	ti.CharLimit = 256
	ti.Width = 60

	return &FilePicker{
		pictures:  found,
		dir:       dir,
		cursor:    0,
		state:     stateList,
		textInput: ti,
	}
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		fp.height = msg.Height
		return fp, nil

	case tea.KeyMsg:
		// Clear error on any key press
		fp.err = ""

		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		}
	}

	return fp, nil
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := len(fp.pictures) + 1 // +1 for "Enter path..."

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < maxItems-1 {
			fp.cursor++
		}
	case "enter":
		return fp.selectListItem()
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}

	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		return fp, nil
	case "enter":
		path := strings.TrimSpace(fp.textInput.Value())
		if path == "" {
			fp.err = "Please enter a file path"
			return fp, nil
		}
		return fp.choose(path)
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

func (fp *FilePicker) selectListItem() (tea.Model, tea.Cmd) {
	if fp.cursor < len(fp.pictures) {
		return fp.choose(fp.pictures[fp.cursor].Path)
	}

	fp.state = stateInput
	fp.textInput.Focus()
	return fp, textinput.Blink
}

func (fp *FilePicker) choose(path string) (tea.Model, tea.Cmd) {
	expandedPath := expandPath(path)

	if err := account.CheckPicture(expandedPath); err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			fp.err = "File not found: " + path
		case errors.Is(err, os.ErrPermission):
			fp.err = "Cannot read file: permission denied"
		default:
			fp.err = account.Failure(err, "Cannot use this file")
		}
		return fp, nil
	}

	return fp, func() tea.Msg {
		return FileSelectedMsg{Path: expandedPath}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// SetError sets an error message to display
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	if fp.state == stateInput {
		return fp.viewInput()
	}
	return fp.viewList()
}

func (fp *FilePicker) viewList() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Choose a profile picture"))
	b.WriteString("\n")

	if len(fp.pictures) > 0 {
		b.WriteString(styles.Dim.Render("Pictures in " + fp.dir + ":"))
		b.WriteString("\n")
		for i, p := range fp.pictures {
			display := p.Name
			if len(display) > fp.width-20 && fp.width > 30 {
				display = "..." + display[len(display)-(fp.width-23):]
			}
			line := fmt.Sprintf("%s  %s", display, styles.Dim.Render(humanize.Bytes(uint64(p.Size))))
			b.WriteString(styles.Row(line, i == fp.cursor) + "\n")
		}

		dividerWidth := min(40, fp.width-4)
		if dividerWidth < 1 {
			dividerWidth = 40 // Default width if terminal size unknown
		}
		b.WriteString(styles.Dim.Render(strings.Repeat("─", dividerWidth)))
		b.WriteString("\n")
	} else {
		b.WriteString(styles.Dim.Render("No pictures found. Set MYTHIC_PICTURES_DIR or enter a path."))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.Row("Enter path...", fp.cursor == len(fp.pictures)) + "\n")

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusCritical.Render("Error: " + fp.err))
	}

	return b.String()
}

func (fp *FilePicker) viewInput() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Enter picture path"))
	b.WriteString("\n")
	b.WriteString(fp.textInput.View())

	if fp.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.StatusCritical.Render("Error: " + fp.err))
	}

	return b.String()
}
