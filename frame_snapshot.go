package pixelcam

import (
	"sync/atomic"

	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameSnapshot is a value copy of everything the renderer reads for one
// frame. Nothing in it aliases ECS storage.
type FrameSnapshot struct {
	Frame        uint64
	Settings     core.PostProcessSettings
	TexelSize    float32
	CanvasOffset mgl32.Vec2
	ViewProj     mgl32.Mat4
	LightDir     mgl32.Vec3
	Instances    []core.Instance
	Capture      bool
}

type FrameSnapshotContainer struct {
	latest atomic.Pointer[FrameSnapshot]
}

func (c *FrameSnapshotContainer) Update(s *FrameSnapshot) {
	c.latest.Store(s)
}

func (c *FrameSnapshotContainer) Get() *FrameSnapshot {
	return c.latest.Load()
}

// extractFrameSystem publishes this frame's snapshot once simulation is done.
func extractFrameSystem(snapshots *FrameSnapshotContainer, size *WindowSize, rig *PixelCameraRig, cmd *Commands) {
	snap := &FrameSnapshot{
		Frame:     cmd.App().Frame(),
		TexelSize: size.TexelSize,
	}

	MakeQuery3[PixelCamera, Transform, core.PostProcessSettings](cmd).Map(
		func(_ EntityId, cam *PixelCamera, t *Transform, settings *core.PostProcessSettings) bool {
			snap.Settings = *settings
			snap.ViewProj = cam.ViewProj(t.Position, rig.ResW, rig.ResH)
			return false
		})
	MakeQuery1[Canvas](cmd).Map(func(_ EntityId, c *Canvas) bool {
		snap.CanvasOffset = c.Offset
		return false
	})
	MakeQuery2[DirectionalLight, Transform](cmd).Map(func(_ EntityId, _ *DirectionalLight, t *Transform) bool {
		snap.LightDir = LightDirection(t.Rotation)
		return false
	})
	MakeQuery2[Transform, Renderable](cmd).Map(func(_ EntityId, t *Transform, r *Renderable) bool {
		snap.Instances = r.AppendInstances(snap.Instances, t.Matrix())
		return true
	})
	if state, ok := Resource[CaptureState](cmd.App()); ok {
		snap.Capture = state.takeRequest()
	}

	snapshots.Update(snap)
}
