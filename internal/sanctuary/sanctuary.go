// ABOUTME: Loads and mutates a companion's sanctuary and the owner's dashboard
// ABOUTME: Independent reads run concurrently through an errgroup

package sanctuary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

// User facing messages
const (
	MsgLoadFailed       = "Could not load page data. Please try again later."
	MsgDashboardFailed  = "Could not load your dashboard. Please try again later."
	MsgUseFailed        = "Failed to use item."
	MsgEquipFailed      = "Failed to change equipment."
	MsgDeleteFailed     = "Failed to delete companion."
	MsgCreateFailed     = "Could not create your companion."
	MsgCreateIncomplete = "Please provide a name and select a species."
	MsgItemUsed         = "Item used successfully!"
	MsgEquipChanged     = "Equipment status changed!"
)

// ErrIncomplete means a create request is missing its name or species
var ErrIncomplete = errors.New(MsgCreateIncomplete)

// API is the subset of the client the sanctuary needs
type API interface {
	Companion(ctx context.Context, id int64) (*client.Companion, error)
	CompanionsByOwner(ctx context.Context, userID string) ([]client.Companion, error)
	CreateCompanion(ctx context.Context, req client.NewCompanion) (*client.Companion, error)
	DeleteCompanion(ctx context.Context, id int64) error
	Interact(ctx context.Context, id int64, action client.Interaction) (*client.Companion, error)
	Equip(ctx context.Context, companionID, inventoryItemID int64) (*client.Companion, error)
	Inventory(ctx context.Context) ([]client.InventoryItem, error)
	UseItem(ctx context.Context, inventoryItemID, companionID int64) (*client.Companion, error)
	Species(ctx context.Context) ([]client.Species, error)
}

// View is everything the sanctuary screen shows
type View struct {
	Companion *client.Companion
	Inventory []client.InventoryItem
}

// Dashboard is the owner's companion list plus the adoptable species
type Dashboard struct {
	Companions []client.Companion
	Species    []client.Species
}

// Universes returns the distinct species universes, sorted
func (d *Dashboard) Universes() []string {
	var out []string
	for _, s := range d.Species {
		if !slices.Contains(out, s.Universe) {
			out = append(out, s.Universe)
		}
	}
	sort.Strings(out)
	return out
}

// SpeciesIn returns the species that belong to universe
func (d *Dashboard) SpeciesIn(universe string) []client.Species {
	var out []client.Species
	for _, s := range d.Species {
		if s.Universe == universe {
			out = append(out, s)
		}
	}
	return out
}

// Service wraps the API calls behind the sanctuary and dashboard screens
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService creates a Service. A nil logger uses slog.Default.
func NewService(api API, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger.With("component", "sanctuary")}
}

// Load fetches the companion and the inventory in parallel
func (s *Service) Load(ctx context.Context, companionID int64) (*View, error) {
	var view View
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.api.Companion(ctx, companionID)
		if err != nil {
			return fmt.Errorf("fetching companion %d: %w", companionID, err)
		}
		view.Companion = c
		return nil
	})
	g.Go(func() error {
		inv, err := s.api.Inventory(ctx)
		if err != nil {
			return fmt.Errorf("fetching inventory: %w", err)
		}
		view.Inventory = inv
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load sanctuary", "companion_id", companionID, "error", err)
		return nil, err
	}
	return &view, nil
}

// Dashboard fetches the user's companions and the species catalogue in parallel
func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	var dash Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		companions, err := s.api.CompanionsByOwner(ctx, strconv.FormatInt(userID, 10))
		if err != nil {
			return fmt.Errorf("fetching companions: %w", err)
		}
		dash.Companions = companions
		return nil
	})
	g.Go(func() error {
		species, err := s.api.Species(ctx)
		if err != nil {
			return fmt.Errorf("fetching species: %w", err)
		}
		dash.Species = species
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load dashboard", "user_id", userID, "error", err)
		return nil, err
	}
	return &dash, nil
}

// Interact runs the local checks and then sends action. A refused action
// returns a *RefusalError and makes no request.
func (s *Service) Interact(ctx context.Context, c *client.Companion, action client.Interaction) (*client.Companion, error) {
	if err := Check(c, action); err != nil {
		s.logger.Debug("interaction refused locally", "companion_id", c.ID, "action", action, "reason", err)
		return nil, err
	}
	updated, err := s.api.Interact(ctx, c.ID, action)
	if err != nil {
		s.logger.Warn("interaction failed", "companion_id", c.ID, "action", action, "error", err)
		return nil, err
	}
	return updated, nil
}

// InteractFailed returns the message shown when action could not be performed
func InteractFailed(err error, action client.Interaction) string {
	var refusal *RefusalError
	if errors.As(err, &refusal) {
		return refusal.Reason
	}
	return client.Describe(err, fmt.Sprintf("Failed to perform %s.", action))
}

// InteractSucceeded returns the message shown after a successful action
func InteractSucceeded(action client.Interaction) string {
	return fmt.Sprintf("%s successful!", action)
}

// UseItem consumes one of the inventory stack on the companion and returns
// the updated companion together with the refreshed inventory
func (s *Service) UseItem(ctx context.Context, companionID, inventoryItemID int64) (*View, error) {
	c, err := s.api.UseItem(ctx, inventoryItemID, companionID)
	if err != nil {
		return nil, err
	}
	return s.refreshInventory(ctx, c)
}

// ToggleEquip equips the item, or unequips it when it is already equipped.
// The server decides which based on the companion's current gear.
func (s *Service) ToggleEquip(ctx context.Context, companionID, inventoryItemID int64) (*View, error) {
	c, err := s.api.Equip(ctx, companionID, inventoryItemID)
	if err != nil {
		return nil, err
	}
	return s.refreshInventory(ctx, c)
}

func (s *Service) refreshInventory(ctx context.Context, c *client.Companion) (*View, error) {
	inv, err := s.api.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing inventory: %w", err)
	}
	return &View{Companion: c, Inventory: inv}, nil
}

// Create adopts a new companion
func (s *Service) Create(ctx context.Context, name string, speciesID int64) (*client.Companion, error) {
	if name == "" || speciesID == 0 {
		return nil, ErrIncomplete
	}
	c, err := s.api.CreateCompanion(ctx, client.NewCompanion{Name: name, SpeciesID: speciesID})
	if err != nil {
		s.logger.Warn("failed to create companion", "name", name, "species_id", speciesID, "error", err)
		return nil, err
	}
	s.logger.Info("companion created", "companion_id", c.ID, "name", c.Name)
	return c, nil
}

// Delete removes a companion
func (s *Service) Delete(ctx context.Context, companionID int64) error {
	if err := s.api.DeleteCompanion(ctx, companionID); err != nil {
		s.logger.Warn("failed to delete companion", "companion_id", companionID, "error", err)
		return err
	}
	s.logger.Info("companion deleted", "companion_id", companionID)
	return nil
}

// IsEquipped reports whether inv is the companion's equipped gear
func IsEquipped(c *client.Companion, inv client.InventoryItem) bool {
	return c != nil && c.EquippedGear != nil && c.EquippedGear.InventoryItemID == inv.InventoryItemID
}

// Equippable reports whether an item can be worn rather than consumed
func Equippable(item client.Item) bool {
	return item.ItemType == client.ItemWeapon || item.ItemType == client.ItemArmor || item.ItemType == client.ItemCosmetic
}
