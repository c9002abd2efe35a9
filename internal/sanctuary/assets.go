// ABOUTME: Resolves a companion's media asset keys to server paths
// ABOUTME: Weapon specific images and action videos win over the species defaults

package sanctuary

import (
	"strings"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

// Asset locations relative to the API base URL
const (
	PlaceholderImage = "/images/placeholder.png"
	imagePrefix      = "/images/"
	videoPrefix      = "/videos/"
	itemIconPrefix   = "/icons/items/"

	keyDefaultImage = "image_default"
)

// assetName turns an item name into the form used inside asset keys
func assetName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// IdleImageKey returns the asset key for the companion's resting image.
// An equipped item's image is used when the species has one.
func IdleImageKey(c *client.Companion) string {
	if c == nil || c.SpeciesAssets == nil {
		return ""
	}
	if c.EquippedGear != nil {
		key := "image_weapon_" + assetName(c.EquippedGear.Item.Name)
		if c.SpeciesAssets[key] != "" {
			return key
		}
	}
	if c.SpeciesAssets[keyDefaultImage] != "" {
		return keyDefaultImage
	}
	return ""
}

// IdleImage returns the path of the companion's resting image, or
// PlaceholderImage when the species has none
func IdleImage(c *client.Companion) string {
	key := IdleImageKey(c)
	if key == "" {
		return PlaceholderImage
	}
	return imagePrefix + c.SpeciesAssets[key]
}

// ActionVideoKey returns the asset key of the clip for action. An equipped
// weapon with its own clip overrides the generic one.
func ActionVideoKey(c *client.Companion, action client.Interaction) string {
	key := "video_action_" + string(action)
	if c == nil {
		return key
	}
	if gear := c.EquippedGear; gear != nil && gear.Item.ItemType == client.ItemWeapon {
		weaponKey := key + "_" + assetName(gear.Item.Name)
		if c.SpeciesAssets[weaponKey] != "" {
			return weaponKey
		}
	}
	return key
}

// ActionVideo returns the clip path for action, and false when the species
// has no clip for it
func ActionVideo(c *client.Companion, action client.Interaction) (string, bool) {
	if c == nil {
		return "", false
	}
	file := c.SpeciesAssets[ActionVideoKey(c, action)]
	if file == "" {
		return "", false
	}
	return videoPrefix + file, true
}

// ItemIcon returns the icon path for an inventory item
func ItemIcon(item client.Item) string {
	return ItemIconPath(item.Name)
}

// ItemIconPath returns the icon path for an item name. Case is kept: the
// server stores "Master Sword" as /icons/items/Master_Sword.png.
func ItemIconPath(name string) string {
	return itemIconPrefix + assetName(name) + ".png"
}
