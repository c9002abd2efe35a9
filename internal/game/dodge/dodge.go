// ABOUTME: Dodge minigame: a per-frame simulation of falling obstacles
// ABOUTME: Geometry is designed at 800x600 and scaled to the rendered width

package dodge

import (
	"math"
	"time"

	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/random"
	"github.com/paumaneja/mythic-companions-cli/internal/game"
)

// Design-space constants. Sizes and speeds are multiplied by the scale factor.
const (
	DesignWidth  = 800.0
	DesignHeight = 600.0

	PlayerWidth  = 50.0
	PlayerHeight = 50.0
	PlayerSpeed  = 8.0 // per frame

	ObstacleWidth  = 40.0
	ObstacleHeight = 40.0

	BaseFallSpeed    = 3.0 // per frame
	FallAcceleration = 0.2 // added to fall speed per elapsed second

	StartingLives = 3
)

// Spawn pacing
const (
	InitialSpawnInterval = 1200 * time.Millisecond
	MinSpawnInterval     = 300 * time.Millisecond
	SpawnDecay           = 15 * time.Millisecond // removed from the interval per elapsed second
)

// FrameInterval is the frame period the UI schedules Step at
const FrameInterval = time.Second / 60

// SpawnInterval returns the gap between obstacle spawns after elapsed play
func SpawnInterval(elapsed time.Duration) time.Duration {
	seconds := time.Duration(elapsed / time.Second)
	interval := InitialSpawnInterval - seconds*SpawnDecay
	if interval < MinSpawnInterval {
		return MinSpawnInterval
	}
	return interval
}

// FallSpeed returns the design-space fall speed per frame after elapsed play
func FallSpeed(elapsed time.Duration) float64 {
	return BaseFallSpeed + float64(elapsed/time.Second)*FallAcceleration
}

// Obstacle is a falling object. Coordinates are in scaled field units.
type Obstacle struct {
	ID        int
	X, Y      float64
	SpawnedAt time.Duration
}

// StepResult reports what happened during one frame
type StepResult struct {
	LivesLost int
	Spawned   bool
	Finished  bool
}

// Game is one dodge session
type Game struct {
	game.Machine
	rnd   random.Random
	scale float64

	started   time.Time
	lastSpawn time.Time
	elapsed   time.Duration

	playerX   float64
	obstacles []Obstacle
	nextID    int
	lives     int
}

// New creates an idle game scaled to a container containerWidth units wide
func New(rnd random.Random, containerWidth float64) *Game {
	g := &Game{rnd: rnd, scale: 1, lives: StartingLives}
	g.Resize(containerWidth)
	g.centerPlayer()
	return g
}

// Resize re-measures the field from the container width. It is ignored
// while playing and reports whether the scale changed.
func (g *Game) Resize(containerWidth float64) bool {
	if g.Playing() || containerWidth <= 0 {
		return false
	}
	scale := containerWidth / DesignWidth
	if scale == g.scale {
		return false
	}
	g.scale = scale
	g.centerPlayer()
	return true
}

// Start resets lives, obstacles and the clock, and begins play at now
func (g *Game) Start(now time.Time) (game.AttemptID, error) {
	id, err := g.Begin(game.Playing)
	if err != nil {
		return "", err
	}
	g.started = now
	g.lastSpawn = now
	g.elapsed = 0
	g.obstacles = nil
	g.nextID = 0
	g.lives = StartingLives
	g.centerPlayer()
	return id, nil
}

// Step advances the simulation to now using the held direction
func (g *Game) Step(now time.Time, dir Direction) StepResult {
	var res StepResult
	if !g.Playing() {
		return res
	}

	// Difficulty follows elapsed play time
	g.elapsed = now.Sub(g.started)
	if g.elapsed < 0 {
		g.elapsed = 0
	}
	fall := FallSpeed(g.elapsed) * g.scale
	interval := SpawnInterval(g.elapsed)

	// Player
	g.playerX += float64(dir) * PlayerSpeed * g.scale
	g.playerX = math.Max(0, math.Min(g.playerX, g.Width()-g.PlayerWidth()))

	// Spawn
	if now.Sub(g.lastSpawn) > interval {
		g.lastSpawn = now
		g.obstacles = append(g.obstacles, Obstacle{
			ID:        g.nextID,
			X:         g.rnd.Float64() * (g.Width() - g.ObstacleWidth()),
			Y:         -g.ObstacleHeight(),
			SpawnedAt: g.elapsed,
		})
		g.nextID++
		res.Spawned = true
	}

	// Fall, collide, discard
	px, py := g.playerX, g.PlayerY()
	pw, ph := g.PlayerWidth(), g.PlayerHeight()
	ow, oh := g.ObstacleWidth(), g.ObstacleHeight()
	kept := g.obstacles[:0]
	for _, o := range g.obstacles {
		o.Y += fall
		if overlaps(px, py, pw, ph, o.X, o.Y, ow, oh) {
			res.LivesLost++
			continue
		}
		if o.Y >= g.Height() {
			continue
		}
		kept = append(kept, o)
	}
	g.obstacles = kept

	if res.LivesLost > 0 {
		g.lives -= res.LivesLost
		if g.lives <= 0 {
			g.lives = 0
			res.Finished = g.Finish()
		}
	}
	return res
}

// overlaps is an axis-aligned bounding box test
func overlaps(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}

func (g *Game) centerPlayer() {
	g.playerX = g.Width()/2 - g.PlayerWidth()/2
}

// Scale returns the factor from design units to field units
func (g *Game) Scale() float64 { return g.scale }

// Width returns the field width
func (g *Game) Width() float64 { return DesignWidth * g.scale }

// Height returns the field height
func (g *Game) Height() float64 { return DesignHeight * g.scale }

// PlayerX returns the player's left edge
func (g *Game) PlayerX() float64 { return g.playerX }

// PlayerY returns the player's top edge, which is fixed at the bottom of the field
func (g *Game) PlayerY() float64 { return g.Height() - g.PlayerHeight() }

// PlayerWidth returns the scaled player width
func (g *Game) PlayerWidth() float64 { return PlayerWidth * g.scale }

// PlayerHeight returns the scaled player height
func (g *Game) PlayerHeight() float64 { return PlayerHeight * g.scale }

// ObstacleWidth returns the scaled obstacle width
func (g *Game) ObstacleWidth() float64 { return ObstacleWidth * g.scale }

// ObstacleHeight returns the scaled obstacle height
func (g *Game) ObstacleHeight() float64 { return ObstacleHeight * g.scale }

// Obstacles returns a copy of the live obstacles
func (g *Game) Obstacles() []Obstacle {
	out := make([]Obstacle, len(g.obstacles))
	copy(out, g.obstacles)
	return out
}

// Lives returns the remaining lives, never below zero
func (g *Game) Lives() int { return g.lives }

// Seconds returns whole seconds survived
func (g *Game) Seconds() int { return int(g.elapsed / time.Second) }

// Outcome returns the seconds survived once lives are exhausted
func (g *Game) Outcome() (game.Outcome, bool) {
	if g.State() != game.Finished {
		return game.Outcome{}, false
	}
	return game.Outcome{Game: game.Dodge, Attempt: g.Attempt(), Score: float64(g.Seconds())}, true
}
