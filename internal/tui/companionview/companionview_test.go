// ABOUTME: Tests for the sanctuary screen
// ABOUTME: Validates local refusals, item actions, delete confirmation and media paths

package companionview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/sanctuary"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testView() *sanctuary.View {
	return &sanctuary.View{
		Companion: &client.Companion{
			ID: 10, Name: "Sparky", SpeciesName: "Pikachu", Universe: "Pokemon",
			Health: 90, Hunger: 50, Energy: 60, Happiness: 70, Hygiene: 80, Skill: 5,
			SpeciesAssets: map[string]string{
				"image_default":     "pikachu.png",
				"video_action_feed": "pikachu_feed.mp4",
			},
		},
		Inventory: []client.InventoryItem{
			{InventoryItemID: 100, Quantity: 3, Item: client.Item{Name: "Apple", ItemType: client.ItemConsumable}},
			{InventoryItemID: 101, Quantity: 1, Item: client.Item{Name: "Master Sword", ItemType: client.ItemWeapon, Rarity: "LEGENDARY"}},
		},
	}
}

func TestViewShowsCompanion(t *testing.T) {
	cv := New(testView(), 120, 40)
	view := cv.View()

	for _, want := range []string{"Sparky", "Pikachu", "Health", "Apple x3", "Master Sword x1", "/images/pikachu.png", "Nothing equipped"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q\nView:\n%s", want, view)
		}
	}
}

func TestLoading(t *testing.T) {
	cv := New(nil, 80, 24)

	if !strings.Contains(cv.View(), "Loading sanctuary") {
		t.Error("expected loading text")
	}
	if cmd := cv.HandleKey(runes("f")); cmd != nil {
		t.Error("expected no interaction while loading")
	}
}

func TestInteractSendsRequest(t *testing.T) {
	cv := New(testView(), 80, 24)

	cmd := cv.HandleKey(runes("f"))
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(InteractMsg)
	if !ok || msg.Action != client.InteractFeed {
		t.Errorf("expected feed request, got %#v", msg)
	}
	if !cv.Busy() {
		t.Error("expected busy while the request runs")
	}

	// Further actions wait for the result
	if cmd := cv.HandleKey(runes("c")); cmd != nil {
		t.Error("expected no command while busy")
	}
}

func TestInteractRefusedLocally(t *testing.T) {
	view := testView()
	view.Companion.Energy = 10
	cv := New(view, 80, 24)

	if cmd := cv.HandleKey(runes("p")); cmd != nil {
		t.Error("expected no request for a refused action")
	}
	if !strings.Contains(cv.View(), "Your companion is too tired to play.") {
		t.Errorf("expected refusal reason\nView:\n%s", cv.View())
	}
}

func TestTrainRefusedWithoutGear(t *testing.T) {
	cv := New(testView(), 80, 24)

	if cmd := cv.HandleKey(runes("t")); cmd != nil {
		t.Error("expected no request without gear")
	}
	if !strings.Contains(cv.View(), "Cannot train without a weapon equipped.") {
		t.Error("expected refusal reason")
	}
}

func TestUseConsumable(t *testing.T) {
	cv := New(testView(), 80, 24)

	cmd := cv.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if msg, ok := cmd().(UseItemMsg); !ok || msg.InventoryItemID != 100 {
		t.Errorf("expected use of item 100, got %#v", cmd())
	}
}

func TestEquipWeapon(t *testing.T) {
	cv := New(testView(), 80, 24)
	cv.HandleKey(tea.KeyMsg{Type: tea.KeyDown})

	cmd := cv.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if msg, ok := cmd().(ToggleEquipMsg); !ok || msg.InventoryItemID != 101 {
		t.Errorf("expected equip toggle of item 101, got %#v", cmd())
	}
}

func TestSetViewEndsBusyAndClampsCursor(t *testing.T) {
	cv := New(testView(), 80, 24)
	cv.HandleKey(tea.KeyMsg{Type: tea.KeyDown})
	cv.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})

	updated := testView()
	updated.Inventory = updated.Inventory[:1]
	cv.SetView(updated)

	if cv.Busy() {
		t.Error("expected busy cleared")
	}
	if cv.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", cv.cursor)
	}
}

func TestDeleteConfirmation(t *testing.T) {
	cv := New(testView(), 80, 24)

	if cmd := cv.HandleKey(runes("d")); cmd != nil {
		t.Fatal("expected confirmation before delete")
	}
	if !strings.Contains(cv.View(), "Are you sure you want to delete Sparky? This action cannot be undone.") {
		t.Errorf("expected confirmation prompt\nView:\n%s", cv.View())
	}

	cmd := cv.HandleKey(runes("y"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if msg, ok := cmd().(DeleteConfirmedMsg); !ok || msg.CompanionID != 10 {
		t.Errorf("expected delete of companion 10, got %#v", cmd())
	}
}

func TestDeleteDeclined(t *testing.T) {
	cv := New(testView(), 80, 24)
	cv.HandleKey(runes("d"))

	if cmd := cv.HandleKey(runes("n")); cmd != nil {
		t.Error("expected no command when declined")
	}
	if cv.Confirming() {
		t.Error("expected confirmation closed")
	}
}

func TestShowActionPlaysVideo(t *testing.T) {
	cv := New(testView(), 80, 24)

	cv.ShowAction(client.InteractFeed)
	if !strings.Contains(cv.View(), "/videos/pikachu_feed.mp4") {
		t.Errorf("expected action video\nView:\n%s", cv.View())
	}

	// No clip for sleep keeps the current media
	cv.ShowAction(client.InteractSleep)
	if !strings.Contains(cv.View(), "/videos/pikachu_feed.mp4") {
		t.Error("expected media unchanged without a clip")
	}
}

func TestGamesAndBack(t *testing.T) {
	cv := New(testView(), 80, 24)

	if _, ok := cv.HandleKey(runes("g"))().(PlayRequestedMsg); !ok {
		t.Error("expected PlayRequestedMsg")
	}
	if _, ok := cv.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})().(BackMsg); !ok {
		t.Error("expected BackMsg")
	}
}
