// ABOUTME: Request and response payloads for the Mythic Companions API
// ABOUTME: Field names follow the server's camelCase JSON

package client

// Credentials is the body of POST /auth/login
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the body of POST /auth/register
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// UserProfile is the signed-in user's account data
type UserProfile struct {
	ID               int64  `json:"id,omitempty"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	ProfileImagePath string `json:"profileImagePath,omitempty"`
}

// PasswordChange is the body of POST /api/users/change-password
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ItemType categorises catalogue items
type ItemType string

const (
	ItemConsumable ItemType = "CONSUMABLE"
	ItemWeapon     ItemType = "WEAPON"
	ItemArmor      ItemType = "ARMOR"
	ItemCosmetic   ItemType = "COSMETIC"
)

// Item is a catalogue entry
type Item struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ItemType       ItemType `json:"itemType"`
	Rarity         string   `json:"rarity"`
	HealthBonus    int      `json:"healthBonus,omitempty"`
	HungerBonus    int      `json:"hungerBonus,omitempty"`
	EnergyBonus    int      `json:"energyBonus,omitempty"`
	HappinessBonus int      `json:"happinessBonus,omitempty"`
}

// InventoryItem is a stack of one item in the user's inventory
type InventoryItem struct {
	InventoryItemID int64 `json:"inventoryItemId"`
	Quantity        int   `json:"quantity"`
	Item            Item  `json:"item"`
}

// Companion is a user's virtual pet. Stats range over [0,100].
type Companion struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	SpeciesName   string            `json:"speciesName"`
	Universe      string            `json:"universe"`
	Health        int               `json:"health"`
	Hunger        int               `json:"hunger"`
	Energy        int               `json:"energy"`
	Happiness     int               `json:"happiness"`
	Hygiene       int               `json:"hygiene"`
	Skill         int               `json:"skill"`
	Sick          bool              `json:"sick"`
	EquippedGear  *InventoryItem    `json:"equippedGear"`
	SpeciesAssets map[string]string `json:"speciesAssets"`
}

// NewCompanion is the body of POST /api/companions
type NewCompanion struct {
	Name      string `json:"name"`
	SpeciesID int64  `json:"speciesId"`
}

// Species is an adoptable kind of companion
type Species struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Universe string `json:"universe"`
}

// Question is one quiz question. CorrectAnswer is the text of the right option.
type Question struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Universe      string   `json:"universe"`
}

// GameCompletion is the body of POST /api/game/complete-minigame
type GameCompletion struct {
	CompanionID int64   `json:"companionId"`
	Score       float64 `json:"score"`
}

// GameResult is the reward manifest for a finished minigame
type GameResult struct {
	Message          string          `json:"message"`
	UpdatedCompanion *Companion      `json:"updatedCompanion,omitempty"`
	ItemsAwarded     []InventoryItem `json:"itemsAwarded"`
}

// Interaction is a sanctuary action sent to PUT /api/companions/{id}/interact
type Interaction string

const (
	InteractFeed  Interaction = "feed"
	InteractPlay  Interaction = "play"
	InteractSleep Interaction = "sleep"
	InteractClean Interaction = "clean"
	InteractTrain Interaction = "train"
)

// Interactions lists every sanctuary action in display order
var Interactions = []Interaction{InteractFeed, InteractPlay, InteractSleep, InteractClean, InteractTrain}
