package pixelcam

import (
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCameraEye is the direction the pixel camera looks from, towards the
// origin.
var DefaultCameraEye = mgl32.Vec3{1, 1, -1}

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) Transform {
	return Transform{Position: position, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

func (t Transform) Matrix() mgl32.Mat4 {
	scale := t.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// PixelCamera renders the world into the low resolution canvas. The embedded
// rig state holds the continuous position and zoom plus the last snapped pose.
type PixelCamera struct {
	core.RigState
	Orientation mgl32.Quat
	Anchor      mgl32.Vec3
}

func NewPixelCamera(zoom float32) PixelCamera {
	return PixelCamera{
		RigState:    core.NewRigState(mgl32.Vec2{}, zoom),
		Orientation: core.LookRotation(DefaultCameraEye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
	}
}

// ViewProj is the camera matrix for a rendered translation.
func (c *PixelCamera) ViewProj(translation mgl32.Vec3, resW, resH uint32) mgl32.Mat4 {
	return core.OrthoProjection(resW, resH, c.ProjectionScale()).Mul4(core.ViewMatrix(translation, c.Orientation))
}

// Canvas is the quad showing the offscreen image. Offset is in canvas texels.
type Canvas struct {
	Offset mgl32.Vec2
	Image  AssetId
}

// CameraAnchor tracks the unsnapped camera pose.
type CameraAnchor struct {
	Position mgl32.Vec3
}

// CameraTarget marks the entity the pixel camera follows.
type CameraTarget struct{}

// PixelCameraRig is the rig tuning plus the canvas resolution and image.
type PixelCameraRig struct {
	Config core.RigConfig
	ResW   uint32
	ResH   uint32
	Canvas AssetId
}

type PixelCameraModule struct {
	Config PixelCamConfig
}

func (m PixelCameraModule) Install(app *App, cmd *Commands) {
	if err := m.Config.Validate(); err != nil {
		app.Logger().Errorf("pixel camera: %v", err)
		panic(err)
	}

	var image AssetId
	if assets, ok := Resource[AssetServer](app); ok {
		image = assets.CreateRenderTarget("pixel_canvas", m.Config.ResWidth, m.Config.ResHeight)
	} else {
		image = makeAssetId()
	}

	cam := NewPixelCamera(m.Config.InitialZoom)
	cmd.AddResources(&PixelCameraRig{
		Config: m.Config.Rig(),
		ResW:   m.Config.ResWidth,
		ResH:   m.Config.ResHeight,
		Canvas: image,
	})
	cmd.AddEntity(
		cam,
		Transform{Rotation: cam.Orientation, Scale: mgl32.Vec3{1, 1, 1}},
		CameraAnchor{Position: cam.Anchor},
		core.SettingsForMode(core.ModeColor),
	)
	cmd.AddEntity(Canvas{Image: image})

	app.UseSystem(System(pixelCameraInputSystem).InStage(Update))
	app.UseSystem(System(cameraFollowSystem).InStage(Update))
	app.UseSystem(System(placeCameraSystem).InStage(Update))
}

// mustSingle turns a query error into a startup failure.
func mustSingle(cmd *Commands, what string, err error) {
	if err == nil {
		return
	}
	cmd.App().Logger().Errorf("%s: %v", what, err)
	panic(err)
}

// pixelCameraInputSystem pans with the arrow keys, and with WASD unless a
// Player is using them.
func pixelCameraInputSystem(input *Input, t *Time, rig *PixelCameraRig, cmd *Commands) {
	_, cam, err := MakeQuery1[PixelCamera](cmd).Single()
	mustSingle(cmd, "pixel camera", err)

	dir := mgl32.Vec2{input.Axis(KeyLeft, KeyRight), input.Axis(KeyDown, KeyUp)}
	if !playerExists(cmd) {
		dir = dir.Add(mgl32.Vec2{input.Axis(KeyA, KeyD), input.Axis(KeyS, KeyW)})
	}
	rig.Config.Integrate(&cam.RigState, core.RigInput{
		Direction: dir,
		ZoomDelta: input.Axis(KeyQ, KeyE),
		Dt:        t.Seconds(),
	})
}

// cameraFollowSystem pulls the camera towards the projected position of the
// CameraTarget. It is idle without a target or before the first window fit.
func cameraFollowSystem(size *WindowSize, rig *PixelCameraRig, cmd *Commands) {
	if size.TexelSize == 0 {
		return
	}
	_, _, target, err := MakeQuery2[CameraTarget, Transform](cmd).Single()
	if err != nil {
		return
	}
	_, cam, anchor, err := MakeQuery2[PixelCamera, CameraAnchor](cmd).Single()
	mustSingle(cmd, "pixel camera", err)

	viewProj := cam.ViewProj(anchor.Position, rig.ResW, rig.ResH)
	vp, ok := core.WorldToViewport(viewProj, target.Position, rig.ResW, rig.ResH)
	if !ok {
		return
	}
	step := core.FollowStep(vp, rig.ResW, rig.ResH, core.FollowGain)
	cam.SubpixelPosition = cam.SubpixelPosition.Add(step)
}

// placeCameraSystem grid-locks the rendered camera and moves the canvas by
// the residual so the image does not swim.
func placeCameraSystem(size *WindowSize, cmd *Commands) {
	_, cam, t, anchor, err := singleCamera(cmd)
	mustSingle(cmd, "pixel camera", err)
	_, canvas, err := MakeQuery1[Canvas](cmd).Single()
	mustSingle(cmd, "canvas", err)

	if !cam.Place(size.TexelSize) {
		return
	}
	t.Position = core.PlanePoint(cam.Orientation, cam.Snapped, cam.Anchor)
	t.Rotation = cam.Orientation
	anchor.Position = core.PlanePoint(cam.Orientation, cam.SubpixelPosition, cam.Anchor)
	canvas.Offset = cam.CanvasOffset
}

func singleCamera(cmd *Commands) (EntityId, *PixelCamera, *Transform, *CameraAnchor, error) {
	var (
		id     EntityId
		cam    *PixelCamera
		t      *Transform
		anchor *CameraAnchor
		count  int
	)
	MakeQuery3[PixelCamera, Transform, CameraAnchor](cmd).Map(func(eid EntityId, c *PixelCamera, ct *Transform, a *CameraAnchor) bool {
		count++
		id, cam, t, anchor = eid, c, ct, a
		return count < 2
	})
	if err := singleErr[PixelCamera](count); err != nil {
		return 0, nil, nil, nil, err
	}
	return id, cam, t, anchor, nil
}
