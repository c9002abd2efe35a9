// ABOUTME: Client side checks run before a sanctuary interaction is sent
// ABOUTME: A refused action never reaches the server

package sanctuary

import (
	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

// Stat thresholds for interactions
const (
	MaxStat          = 100
	MinEnergyToPlay  = 20
	MinEnergyToTrain = 15
	MaxEnergyToSleep = 50
)

// RefusalError explains why an interaction was not attempted
type RefusalError struct {
	Action client.Interaction
	Reason string
}

func (e *RefusalError) Error() string { return e.Reason }

// Check returns a *RefusalError when the companion is not in a state
// where action makes sense, and nil otherwise
func Check(c *client.Companion, action client.Interaction) error {
	refuse := func(reason string) error {
		return &RefusalError{Action: action, Reason: reason}
	}

	switch action {
	case client.InteractFeed:
		if c.Hunger >= MaxStat {
			return refuse("Companion is already full.")
		}
	case client.InteractPlay:
		if c.Energy < MinEnergyToPlay {
			return refuse("Your companion is too tired to play.")
		}
	case client.InteractSleep:
		if c.Energy >= MaxEnergyToSleep {
			return refuse("Companion is not tired enough to sleep.")
		}
	case client.InteractClean:
		if c.Hygiene >= MaxStat {
			return refuse("Your companion is already sparkling clean!")
		}
	case client.InteractTrain:
		if c.EquippedGear == nil {
			return refuse("Cannot train without a weapon equipped.")
		}
		if c.Energy < MinEnergyToTrain {
			return refuse("Your companion is too tired to train.")
		}
	}
	return nil
}
