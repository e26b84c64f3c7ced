package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_SetKeyEdges(t *testing.T) {
	input := &Input{}
	input.PressKey(KeyE)
	assert.True(t, input.Pressed[KeyE])
	assert.True(t, input.JustPressed[KeyE])

	inputFrameEndSystem(input)
	input.PressKey(KeyE)
	assert.True(t, input.Pressed[KeyE])
	assert.False(t, input.JustPressed[KeyE], "held key is not just pressed")

	input.ReleaseKey(KeyE)
	assert.False(t, input.Pressed[KeyE])
	assert.True(t, input.JustReleased[KeyE])

	input.SetKey(-1, true)
	input.SetKey(1000, true)
}

func TestInput_PushPointer(t *testing.T) {
	input := &Input{}
	input.PushPointer(PointerEvent{Kind: PointerDown, X: 10, Y: 20})
	input.PushPointer(PointerEvent{Kind: PointerMove, X: 15, Y: 18})
	input.PushPointer(PointerEvent{Kind: PointerUp, X: 15, Y: 18, Resolved: true, Instance: 4})

	require.Len(t, input.Events, 3)
	assert.Equal(t, MouseButtonLeft, input.Events[0].Button)
	assert.Equal(t, -1, input.Events[0].Instance)
	assert.Equal(t, 4, input.Events[2].Instance)
	assert.Equal(t, 5.0, input.MouseDeltaX)
	assert.Equal(t, -2.0, input.MouseDeltaY)
	assert.False(t, input.Pressed[MouseButtonLeft])
	assert.True(t, input.JustPressed[MouseButtonLeft])
	assert.True(t, input.JustReleased[MouseButtonLeft])

	inputFrameEndSystem(input)
	assert.Empty(t, input.Events)
	assert.Zero(t, input.MouseDeltaX)
	assert.False(t, input.JustPressed[MouseButtonLeft])
	assert.Equal(t, 15.0, input.MouseX)
}

func TestPointerKind_String(t *testing.T) {
	assert.Equal(t, "down", PointerDown.String())
	assert.Equal(t, "cancel", PointerCancel.String())
	assert.Equal(t, "unknown", PointerKind(9).String())
}
