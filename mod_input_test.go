package pixelcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_Edges(t *testing.T) {
	var in Input

	in.Set(KeyR, true)
	assert.True(t, in.Pressed[KeyR])
	assert.True(t, in.JustPressed[KeyR])

	in.Set(KeyR, true)
	assert.False(t, in.JustPressed[KeyR])

	in.Set(KeyR, false)
	assert.False(t, in.Pressed[KeyR])
	assert.True(t, in.JustReleased[KeyR])

	in.Set(KeyR, false)
	assert.False(t, in.JustReleased[KeyR])
}

func TestInput_Axis(t *testing.T) {
	var in Input
	assert.Equal(t, float32(0), in.Axis(KeyA, KeyD))

	in.Set(KeyD, true)
	assert.Equal(t, float32(1), in.Axis(KeyA, KeyD))

	in.Set(KeyA, true)
	assert.Equal(t, float32(0), in.Axis(KeyA, KeyD))

	in.Set(KeyD, false)
	assert.Equal(t, float32(-1), in.Axis(KeyA, KeyD))
}

func TestInput_EscapeExits(t *testing.T) {
	app := NewAppBuilder().Build()
	input := &Input{}
	app.addResources(input)
	app.UseSystem(System(exitOnEscapeSystem))

	input.Set(KeyEscape, true)
	app.Run()
	assert.Equal(t, uint64(1), app.Frame())
}
