// ABOUTME: Minigame selection menu shown from a companion's sanctuary
// ABOUTME: Lets the user pick which game to play with the companion

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/paumaneja/mythic-companions-cli/internal/game"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
)

// GameSelectedMsg is sent when the user picks a game
type GameSelectedMsg struct {
	Kind game.Kind
}

// CancelledMsg is sent when the user leaves the menu
type CancelledMsg struct{}

type option struct {
	label string
	value game.Kind
}

// Menu represents the minigame selection menu
type Menu struct {
	companion string
	options   []option
	selected  game.Kind
	form      *huh.Form
}

// New creates a new game menu for the named companion
func New(companion string) *Menu {
	m := &Menu{companion: companion, selected: game.Kinds[0]}
	for _, k := range game.Kinds {
		m.options = append(m.options, option{
			label: fmt.Sprintf("%s  %s", k.Title(), styles.Dim.Render(k.Blurb())),
			value: k,
		})
	}
	m.form = m.buildForm()
	return m
}

func (m *Menu) buildForm() *huh.Form {
	var options []huh.Option[game.Kind]
	for _, opt := range m.options {
		options = append(options, huh.NewOption(opt.label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[game.Kind]().
				Title(fmt.Sprintf("Play with %s", m.companion)).
				Description("Use ↑/↓ to select, Enter to start, Esc to go back").
				Options(options...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		kind := m.selected
		// Rebuild so the menu is usable again when the user comes back
		m.form = m.buildForm()
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return GameSelectedMsg{Kind: kind} })
	}
	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Game.String() + " Minigames"))
	sb.WriteString("\n")
	sb.WriteString(m.form.View())
	return sb.String()
}
