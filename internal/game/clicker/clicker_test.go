// ABOUTME: Tests for the clicker minigame
// ABOUTME: Checks countdown length and that only in-time clicks score

package clicker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paumaneja/mythic-companions-cli/internal/game"
)

func TestClicker_TenClicksScoreTen(t *testing.T) {
	g := New()
	_, err := g.Start()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.True(t, g.Click())
	}
	for i := 0; i < Duration-1; i++ {
		assert.False(t, g.Tick())
	}
	assert.True(t, g.Tick(), "fifteenth tick ends the game")

	out, ok := g.Outcome()
	require.True(t, ok)
	assert.Equal(t, 10.0, out.Score)
	assert.Equal(t, game.Clicker, out.Game)
	assert.Equal(t, g.Attempt(), out.Attempt)
}

func TestClicker_ClicksAfterTimeUpDoNotCount(t *testing.T) {
	g := New()
	g.Start()

	g.Click()
	for i := 0; i < Duration; i++ {
		g.Tick()
	}
	assert.False(t, g.Click())
	assert.False(t, g.Tick())

	out, _ := g.Outcome()
	assert.Equal(t, 1.0, out.Score)
	assert.Equal(t, 0, g.Remaining())
}

func TestClicker_IdleIgnoresInput(t *testing.T) {
	g := New()
	assert.False(t, g.Click())
	assert.False(t, g.Tick())
	assert.Equal(t, Duration, g.Remaining())
	_, ok := g.Outcome()
	assert.False(t, ok)
}

func TestClicker_RestartResets(t *testing.T) {
	g := New()
	g.Start()
	g.Click()
	g.Click()
	for i := 0; i < Duration; i++ {
		g.Tick()
	}
	first := g.Attempt()

	_, err := g.Start()
	require.NoError(t, err)
	assert.Equal(t, 0, g.Clicks())
	assert.Equal(t, Duration, g.Remaining())
	assert.NotEqual(t, first, g.Attempt())
}

func TestClicker_CannotStartTwice(t *testing.T) {
	g := New()
	g.Start()
	_, err := g.Start()
	assert.ErrorIs(t, err, game.ErrIllegalTransition)
}
