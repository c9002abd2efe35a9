// ABOUTME: Tests for the adoption wizard
// ABOUTME: Validates step flow, species filtering and name validation

package wizard

import (
	"strings"
	"testing"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/sanctuary"
)

func testCatalogue() *sanctuary.Dashboard {
	return &sanctuary.Dashboard{
		Species: []client.Species{
			{ID: 3, Name: "Grogu", Universe: "Star Wars"},
			{ID: 1, Name: "Pikachu", Universe: "Pokemon"},
			{ID: 2, Name: "Charmander", Universe: "Pokemon"},
		},
	}
}

func TestWizardDefaultsToFirstUniverse(t *testing.T) {
	w := New(testCatalogue())

	if w.Step() != 1 {
		t.Errorf("expected step 1, got %d", w.Step())
	}
	if w.universe != "Pokemon" {
		t.Errorf("expected first sorted universe Pokemon, got %q", w.universe)
	}
}

func TestWizardSpeciesStepPicksSpeciesFromUniverse(t *testing.T) {
	w := New(testCatalogue())
	w.universe = "Star Wars"

	w.advanceStep()

	if w.Step() != 2 {
		t.Fatalf("expected step 2, got %d", w.Step())
	}
	if w.speciesID != 3 {
		t.Errorf("expected Grogu preselected, got species %d", w.speciesID)
	}
}

func TestWizardSpeciesResetWhenUniverseChanges(t *testing.T) {
	w := New(testCatalogue())
	w.speciesID = 3 // Grogu, not in Pokemon

	w.advanceStep()

	if w.speciesID != 1 {
		t.Errorf("expected first Pokemon species, got %d", w.speciesID)
	}
}

func TestWizardCompletes(t *testing.T) {
	w := New(testCatalogue())
	w.advanceStep()
	w.speciesID = 2
	w.advanceStep()
	w.name = "  Charlie  "

	_, cmd := w.advanceStep()
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	msg, ok := cmd().(WizardCompleteMsg)
	if !ok {
		t.Fatalf("expected WizardCompleteMsg, got %T", cmd())
	}
	if msg.Name != "Charlie" || msg.SpeciesID != 2 {
		t.Errorf("unexpected completion %+v", msg)
	}

	universe, species, name := w.Selection()
	if universe != "Pokemon" || species.Name != "Charmander" || name != "Charlie" {
		t.Errorf("unexpected selection %q %q %q", universe, species.Name, name)
	}
}

func TestWizardFailReopensNameStep(t *testing.T) {
	w := New(testCatalogue())
	w.advanceStep()
	w.advanceStep()
	w.busy = true

	w.Fail("Could not create your companion.")

	if w.busy {
		t.Error("expected wizard to accept input again")
	}
	if w.Step() != 3 {
		t.Errorf("expected name step, got %d", w.Step())
	}
	if !strings.Contains(w.View(), "Could not create your companion.") {
		t.Error("expected error in view")
	}
}

func TestWizardNilCatalogue(t *testing.T) {
	w := New(nil)

	if !strings.Contains(w.View(), "No species") {
		t.Error("expected empty catalogue notice")
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Sparky", false},
		{"  Sparky  ", false},
		{"", true},
		{"   ", true},
		{strings.Repeat("a", 31), true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			err := validateName(tc.input)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for input %q", tc.input)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error for input %q: %v", tc.input, err)
			}
		})
	}
}
