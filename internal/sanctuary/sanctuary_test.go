// ABOUTME: Tests for sanctuary and dashboard loading and mutations
// ABOUTME: Runs against the in-memory fake API

package sanctuary

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/testserver"
)

func newService(t *testing.T) (*Service, *testserver.Server) {
	t.Helper()
	srv := testserver.New(t)
	token := srv.Token(testserver.Username)
	api := client.New(srv.URL, client.WithTokenSource(client.TokenFunc(func() string { return token })))
	return NewService(api, nil), srv
}

func TestLoad(t *testing.T) {
	svc, _ := newService(t)

	view, err := svc.Load(context.Background(), testserver.Companion)
	require.NoError(t, err)
	assert.Equal(t, "Sparky", view.Companion.Name)
	assert.Len(t, view.Inventory, 2)
}

func TestLoad_InventoryFailureFailsTheLoad(t *testing.T) {
	svc, srv := newService(t)
	srv.Fail(http.MethodGet, "/api/inventory", http.StatusInternalServerError, "boom")

	_, err := svc.Load(context.Background(), testserver.Companion)
	assert.ErrorIs(t, err, client.ErrServer)
}

func TestLoad_UnknownCompanion(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Load(context.Background(), 999)
	assert.ErrorIs(t, err, client.ErrRejected)
}

func TestDashboard(t *testing.T) {
	svc, _ := newService(t)

	dash, err := svc.Dashboard(context.Background(), testserver.UserID)
	require.NoError(t, err)
	require.Len(t, dash.Companions, 1)
	assert.Equal(t, []string{"Pokemon", "Star Wars"}, dash.Universes())
	assert.Len(t, dash.SpeciesIn("Pokemon"), 2)
	assert.Empty(t, dash.SpeciesIn("Marvel"))
}

func TestInteract_RefusedLocally(t *testing.T) {
	svc, srv := newService(t)
	c := &client.Companion{ID: testserver.Companion, Hunger: 100}

	_, err := svc.Interact(context.Background(), c, client.InteractFeed)
	require.Error(t, err)
	assert.Equal(t, "Companion is already full.", InteractFailed(err, client.InteractFeed))
	assert.Zero(t, srv.Calls(http.MethodPut, "/api/companions/10/interact"))
}

func TestInteract_Sent(t *testing.T) {
	svc, srv := newService(t)
	before, _ := srv.CompanionState(testserver.Companion)

	updated, err := svc.Interact(context.Background(), &before, client.InteractFeed)
	require.NoError(t, err)
	assert.Equal(t, before.Hunger+25, updated.Hunger)
	assert.Equal(t, "feed successful!", InteractSucceeded(client.InteractFeed))
}

func TestInteract_ServerMessage(t *testing.T) {
	svc, srv := newService(t)
	srv.Fail(http.MethodPut, "/api/companions/10/interact", http.StatusBadRequest, "Companion is sick")
	c, _ := srv.CompanionState(testserver.Companion)

	_, err := svc.Interact(context.Background(), &c, client.InteractPlay)
	assert.Equal(t, "Companion is sick", InteractFailed(err, client.InteractPlay))
}

func TestInteract_FallbackMessage(t *testing.T) {
	svc, srv := newService(t)
	srv.Fail(http.MethodPut, "/api/companions/10/interact", http.StatusInternalServerError, "")
	c, _ := srv.CompanionState(testserver.Companion)

	_, err := svc.Interact(context.Background(), &c, client.InteractClean)
	assert.Equal(t, "Failed to perform clean.", InteractFailed(err, client.InteractClean))
}

func TestUseItem_RefreshesInventory(t *testing.T) {
	svc, _ := newService(t)

	view, err := svc.UseItem(context.Background(), testserver.Companion, testserver.Apple)
	require.NoError(t, err)
	assert.Equal(t, 70, view.Companion.Hunger)
	require.Len(t, view.Inventory, 2)
	assert.Equal(t, 2, view.Inventory[0].Quantity)
}

func TestToggleEquip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	view, err := svc.ToggleEquip(ctx, testserver.Companion, testserver.Sword)
	require.NoError(t, err)
	require.NotNil(t, view.Companion.EquippedGear)
	assert.True(t, IsEquipped(view.Companion, view.Inventory[1]))
	assert.Equal(t, "/images/pikachu_sword.png", IdleImage(view.Companion))

	view, err = svc.ToggleEquip(ctx, testserver.Companion, testserver.Sword)
	require.NoError(t, err)
	assert.Nil(t, view.Companion.EquippedGear)
	assert.Equal(t, "/images/pikachu.png", IdleImage(view.Companion))
}

func TestCreateAndDelete(t *testing.T) {
	svc, srv := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", 1)
	assert.ErrorIs(t, err, ErrIncomplete)

	c, err := svc.Create(ctx, "Flame", 2)
	require.NoError(t, err)
	assert.Equal(t, "Charmander", c.SpeciesName)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, ok := srv.CompanionState(c.ID)
	assert.False(t, ok)
}

func TestEquippable(t *testing.T) {
	assert.True(t, Equippable(client.Item{ItemType: client.ItemWeapon}))
	assert.True(t, Equippable(client.Item{ItemType: client.ItemArmor}))
	assert.False(t, Equippable(client.Item{ItemType: client.ItemConsumable}))
}
