package pixelcam

import (
	"math"
	"testing"
	"time"

	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func camera(t *testing.T, app *App) (*PixelCamera, *Transform, *CameraAnchor) {
	t.Helper()
	_, cam, tr, anchor, err := singleCamera(app.Commands())
	require.NoError(t, err)
	return cam, tr, anchor
}

func TestPixelCameraModule_Spawns(t *testing.T) {
	app := headlessApp(DefaultPixelCamConfig())
	cam, tr, _ := camera(t, app)

	assert.Equal(t, float32(core.DefaultZoom), cam.Zoom)
	assert.Equal(t, cam.Orientation, tr.Rotation)

	_, canvas, err := MakeQuery1[Canvas](app.Commands()).Single()
	require.NoError(t, err)
	assets, _ := Resource[AssetServer](app)
	img, ok := assets.Image(canvas.Image)
	require.True(t, ok)
	assert.Equal(t, core.DefaultResWidth, img.Width)
	assert.True(t, img.RenderTarget)
}

func TestPixelCameraModule_RejectsBadConfig(t *testing.T) {
	cfg := DefaultPixelCamConfig()
	cfg.MinZoom = 0
	assert.Panics(t, func() { headlessApp(cfg) })
}

func TestPlaceCamera_HoldsUntilFirstResize(t *testing.T) {
	app := headlessApp(DefaultPixelCamConfig())
	cam, tr, _ := camera(t, app)
	cam.SubpixelPosition = mgl32.Vec2{3.3, 1.1}

	app.Tick()
	assert.False(t, cam.Placed)
	assert.Equal(t, mgl32.Vec3{}, tr.Position)
}

func TestPlaceCamera_SnapsToTexelGrid(t *testing.T) {
	app := headlessApp(DefaultPixelCamConfig())
	size, _ := Resource[WindowSize](app)
	require.True(t, size.Apply(WindowResized{Width: 1280, Height: 720}))

	cam, tr, anchor := camera(t, app)
	cam.SubpixelPosition = mgl32.Vec2{5.3, -2.1}
	app.Tick()

	require.True(t, cam.Placed)
	step := float64(size.TexelSize / cam.Zoom)
	right, up := core.CameraAxes(cam.Orientation)
	rendered := tr.Position.Sub(cam.Anchor)

	for _, k := range []float64{float64(rendered.Dot(right)) / step, float64(rendered.Dot(up)) / step} {
		assert.InDelta(t, math.Round(k), k, 1e-3)
	}
	expectedAnchor := core.PlanePoint(cam.Orientation, cam.SubpixelPosition, cam.Anchor)
	assert.True(t, anchor.Position.ApproxEqualThreshold(expectedAnchor, 1e-5))

	_, canvas, _ := MakeQuery1[Canvas](app.Commands()).Single()
	assert.Equal(t, cam.CanvasOffset, canvas.Offset)
	assert.LessOrEqual(t, math.Abs(float64(canvas.Offset[0])), float64(size.TexelSize)/2+1e-4)
}

func TestPixelCameraInput_MovesAndZooms(t *testing.T) {
	app := headlessApp(DefaultPixelCamConfig())
	input, _ := Resource[Input](app)
	setDt(app, 100*time.Millisecond)

	input.Set(KeyD, true)
	input.Set(KeyW, true)
	input.Set(KeyE, true)
	app.Tick()

	cam, _, _ := camera(t, app)
	assert.InDelta(t, 5.0, cam.SubpixelPosition.Len(), 1e-4)
	assert.Greater(t, cam.SubpixelPosition[0], float32(0))
	assert.Greater(t, cam.SubpixelPosition[1], float32(0))
	assert.InDelta(t, 6, cam.Zoom, 1e-4)

	// Zoom stays inside its bounds however long the key is held.
	setDt(app, 10*time.Second)
	app.Tick()
	assert.Equal(t, float32(core.DefaultMaxZoom), cam.Zoom)
}

func TestCameraFollow_PullsTowardsTarget(t *testing.T) {
	app := headlessApp(DefaultPixelCamConfig())
	cam, _, _ := camera(t, app)
	right, _ := core.CameraAxes(cam.Orientation)
	target := NewTransform(right.Mul(20))
	app.Commands().AddEntity(target, CameraTarget{})
	app.FlushCommands()

	// No follow before the window is fitted.
	app.Tick()
	assert.Equal(t, mgl32.Vec2{}, cam.SubpixelPosition)

	size, _ := Resource[WindowSize](app)
	size.Apply(WindowResized{Width: 1280, Height: 720})
	app.Tick()
	assert.Greater(t, cam.SubpixelPosition[0], float32(0))
	assert.InDelta(t, 0, cam.SubpixelPosition[1], 1e-4)
}

func TestPlaceCamera_PanicsWithTwoCameras(t *testing.T) {
	app := headlessApp(DefaultPixelCamConfig())
	app.Commands().AddEntity(NewPixelCamera(5), Transform{}, CameraAnchor{})
	app.FlushCommands()

	assert.Panics(t, app.Tick)
}
