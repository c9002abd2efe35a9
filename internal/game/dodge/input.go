// ABOUTME: Latched movement input for the dodge simulation
// ABOUTME: Collects presses and releases between frames; Step samples it once per frame

package dodge

import "time"

// Direction is the horizontal movement requested for a frame
type Direction int

const (
	Left  Direction = -1
	None  Direction = 0
	Right Direction = 1
)

// KeyHold is how long a key press keeps moving the player. Terminals report
// presses and repeats but not releases, so a press holds until it goes
// quiet for this long, the opposite key is pressed, or it is released.
const KeyHold = 400 * time.Millisecond

// Controls tracks held inputs from keys and pointer regions independently of
// the frame loop
type Controls struct {
	keyLeft, keyRight time.Time // press expiry
	pointer           Direction // held control region
}

// PressKey latches dir from a key press or key repeat at now
func (c *Controls) PressKey(dir Direction, now time.Time) {
	switch dir {
	case Left:
		c.keyLeft = now.Add(KeyHold)
		c.keyRight = time.Time{}
	case Right:
		c.keyRight = now.Add(KeyHold)
		c.keyLeft = time.Time{}
	}
}

// PressPointer holds dir until ReleasePointer
func (c *Controls) PressPointer(dir Direction) {
	c.pointer = dir
}

// ReleasePointer releases the held control region. The UI calls it for a
// release anywhere on screen, not only over the region that was pressed.
func (c *Controls) ReleasePointer() {
	c.pointer = None
}

// Stop releases everything
func (c *Controls) Stop() {
	*c = Controls{}
}

// Direction samples the input for a frame at now
func (c *Controls) Direction(now time.Time) Direction {
	left := c.pointer == Left || now.Before(c.keyLeft)
	right := c.pointer == Right || now.Before(c.keyRight)
	switch {
	case left && !right:
		return Left
	case right && !left:
		return Right
	default:
		return None
	}
}
