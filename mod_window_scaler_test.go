package pixelcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitCanvasSystem_AppliesResizeEvents(t *testing.T) {
	app := NewAppBuilder().UseModule(WindowScalerModule{Config: DefaultPixelCamConfig()}).Build()
	window := &WindowState{}
	app.addResources(window)
	size, _ := Resource[WindowSize](app)

	assert.False(t, size.Initialized())

	window.pushResize(1280, 720)
	app.Tick()
	assert.Equal(t, float32(2), size.TexelSize)
	assert.Equal(t, float32(0.5), size.ProjectionScale())

	// Several events in one frame: the last valid one wins.
	window.Resized = window.Resized[:0]
	window.pushResize(1920, 1080)
	window.pushResize(0, 0)
	app.Tick()
	assert.Equal(t, float32(4), size.TexelSize)
	assert.Equal(t, float32(1920), size.Width)
	assert.Equal(t, 0, window.WindowWidth)
}

func TestWindowSize_UsesConfiguredResolution(t *testing.T) {
	cfg := DefaultPixelCamConfig()
	cfg.ResWidth, cfg.ResHeight = 320, 180
	size := NewWindowSize(cfg)

	assert.True(t, size.Apply(WindowResized{Width: 1280, Height: 720}))
	// round(min(1280/256, 720/144)) = 5
	assert.Equal(t, float32(5), size.TexelSize)
}
