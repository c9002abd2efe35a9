// ABOUTME: Companion adoption wizard as a bubbletea model
// ABOUTME: Uses huh forms with visual progress indicator for step navigation

package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/sanctuary"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Name      string
	SpeciesID int64
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard walks the user through adopting a companion
type Wizard struct {
	catalogue *sanctuary.Dashboard
	form      *huh.Form
	step      int
	width     int
	busy      bool
	err       string

	// Form field values
	universe  string
	speciesID int64
	name      string
}

// Step names for progress indicator
var stepNames = []string{"Universe", "Species", "Name"}

const nameLimit = 30

// New creates a wizard over the species in catalogue
func New(catalogue *sanctuary.Dashboard) *Wizard {
	if catalogue == nil {
		catalogue = &sanctuary.Dashboard{}
	}
	w := &Wizard{catalogue: catalogue, step: 1}
	if universes := catalogue.Universes(); len(universes) > 0 {
		w.universe = universes[0]
	}
	w.form = w.createStep1Form()
	return w
}

func (w *Wizard) createStep1Form() *huh.Form {
	var options []huh.Option[string]
	for _, u := range w.catalogue.Universes() {
		options = append(options, huh.NewOption(u, u))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Universe").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(options...).
				Value(&w.universe),
		).Title("Step 1: Universe").
			Description("Where does your new companion come from?"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	var options []huh.Option[int64]
	for _, s := range w.catalogue.SpeciesIn(w.universe) {
		options = append(options, huh.NewOption(s.Name, s.ID))
	}
	if len(options) > 0 && !w.speciesInUniverse() {
		w.speciesID = options[0].Value
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Species").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(options...).
				Value(&w.speciesID),
		).Title("Step 2: Species").
			Description(fmt.Sprintf("Choose a species from %s", w.universe)),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep3Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Companion name").
				Description("Type a name and press Enter to adopt").
				Placeholder("e.g., Sparky").
				CharLimit(nameLimit).
				Value(&w.name).
				Validate(validateName),
		).Title("Step 3: Name").
			Description(fmt.Sprintf("What will you call your %s?", w.speciesName())),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) speciesInUniverse() bool {
	for _, s := range w.catalogue.SpeciesIn(w.universe) {
		if s.ID == w.speciesID {
			return true
		}
	}
	return false
}

func (w *Wizard) speciesName() string {
	for _, s := range w.catalogue.Species {
		if s.ID == w.speciesID {
			return s.Name
		}
	}
	return "companion"
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if w.busy {
			return w, nil
		}
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted && !w.busy {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		w.busy = true
		w.err = ""
		name := strings.TrimSpace(w.name)
		speciesID := w.speciesID
		return w, func() tea.Msg {
			return WizardCompleteMsg{Name: name, SpeciesID: speciesID}
		}
	}

	return w, nil
}

// Fail shows message and reopens the name step
func (w *Wizard) Fail(message string) tea.Cmd {
	w.busy = false
	w.err = message
	w.step = 3
	w.form = w.createStep3Form()
	return w.form.Init()
}

// Step returns the current step, starting at 1
func (w *Wizard) Step() int { return w.step }

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")

	if len(w.catalogue.Species) == 0 {
		sb.WriteString(styles.StatusWarning.Render("No species are available for adoption right now."))
		return sb.String()
	}

	sb.WriteString(w.form.View())

	if w.busy {
		sb.WriteString("\n")
		sb.WriteString(styles.Dim.Render("Creating..."))
	}
	if w.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render(w.err))
	}

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// Progress bar line format: "│  " + bar + " │" = 5 chars overhead
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	styledTitle := titleStyle.Render(icons.Create.String() + " Adopt a companion")
	titleWidth := lipgloss.Width(styledTitle)

	topFillWidth := max(0, width-5-titleWidth)
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + filledBar + emptyBar + " │"

	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// Selection returns the universe, species and name chosen so far
func (w *Wizard) Selection() (universe string, species client.Species, name string) {
	for _, s := range w.catalogue.Species {
		if s.ID == w.speciesID {
			species = s
		}
	}
	return w.universe, species, strings.TrimSpace(w.name)
}

func validateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("a name is required")
	}
	if len([]rune(s)) > nameLimit {
		return fmt.Errorf("must be at most %d characters", nameLimit)
	}
	return nil
}
