// ABOUTME: Tests for asset key resolution
// ABOUTME: Covers weapon overrides and the placeholder fallback

package sanctuary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

func companionWith(gear *client.Item, assets map[string]string) *client.Companion {
	c := &client.Companion{ID: 1, SpeciesAssets: assets}
	if gear != nil {
		c.EquippedGear = &client.InventoryItem{InventoryItemID: 7, Quantity: 1, Item: *gear}
	}
	return c
}

func TestIdleImage(t *testing.T) {
	sword := &client.Item{Name: "Master Sword", ItemType: client.ItemWeapon}
	hat := &client.Item{Name: "Party Hat", ItemType: client.ItemCosmetic}

	tests := []struct {
		name string
		c    *client.Companion
		want string
	}{
		{"no assets", companionWith(nil, nil), PlaceholderImage},
		{"nil companion", nil, PlaceholderImage},
		{"default image", companionWith(nil, map[string]string{"image_default": "p.png"}), "/images/p.png"},
		{"weapon image wins", companionWith(sword, map[string]string{
			"image_default":             "p.png",
			"image_weapon_Master_Sword": "p_sword.png",
		}), "/images/p_sword.png"},
		{"gear without its own image", companionWith(hat, map[string]string{"image_default": "p.png"}), "/images/p.png"},
		{"empty asset map", companionWith(nil, map[string]string{}), PlaceholderImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IdleImage(tt.c))
		})
	}
}

func TestActionVideo(t *testing.T) {
	assets := map[string]string{
		"video_action_train":              "train.mp4",
		"video_action_train_Master_Sword": "train_sword.mp4",
		"video_action_feed":               "feed.mp4",
	}
	sword := &client.Item{Name: "Master Sword", ItemType: client.ItemWeapon}
	stick := &client.Item{Name: "Old Stick", ItemType: client.ItemWeapon}
	armor := &client.Item{Name: "Master Sword", ItemType: client.ItemArmor}

	tests := []struct {
		name    string
		c       *client.Companion
		action  client.Interaction
		wantKey string
		want    string
		ok      bool
	}{
		{"generic clip", companionWith(nil, assets), client.InteractFeed, "video_action_feed", "/videos/feed.mp4", true},
		{"weapon clip", companionWith(sword, assets), client.InteractTrain, "video_action_train_Master_Sword", "/videos/train_sword.mp4", true},
		{"weapon without clip falls back", companionWith(stick, assets), client.InteractTrain, "video_action_train", "/videos/train.mp4", true},
		{"only weapons override", companionWith(armor, assets), client.InteractTrain, "video_action_train", "/videos/train.mp4", true},
		{"no clip", companionWith(nil, assets), client.InteractSleep, "video_action_sleep", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, ActionVideoKey(tt.c, tt.action))
			got, ok := ActionVideo(tt.c, tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemIcon(t *testing.T) {
	assert.Equal(t, "/icons/items/Master_Sword.png", ItemIcon(client.Item{Name: "Master Sword"}))
	assert.Equal(t, "/icons/items/Small_Health_Potion.png", ItemIconPath("Small Health Potion"))
}
