package pixelcam

import (
	"fmt"

	rtapp "github.com/gekko3d/pixelcam/pixelrt/rt/app"
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/gekko3d/pixelcam/pixelrt/rt/gpu"
)

const rendererName = "pixelcam"

// PixelRenderer drives the renderer runtime from published frame snapshots.
type PixelRenderer struct {
	rt *rtapp.App

	rendered uint64
	skipped  uint64
}

// Runtime exposes the renderer runtime, nil before install.
func (r *PixelRenderer) Runtime() *rtapp.App { return r.rt }

// Frames counts frames handed to the runtime and frames skipped for lack of
// a snapshot.
func (r *PixelRenderer) Frames() (rendered, skipped uint64) {
	return r.rendered, r.skipped
}

func (r *PixelRenderer) TakeCaptures() []gpu.CanvasFrame {
	if r.rt == nil {
		return nil
	}
	return r.rt.TakeCaptures()
}

func (r *PixelRenderer) Release() {
	if r.rt != nil {
		r.rt.Release()
		r.rt = nil
	}
}

// PixelRenderModule creates the device, the offscreen canvas and the render
// graph on the shared window. It needs PlatformWindowModule installed first.
type PixelRenderModule struct {
	Config PixelCamConfig
}

func (m PixelRenderModule) Install(app *App, cmd *Commands) {
	ensureSingleRenderer(app, rendererName)

	window, ok := Resource[WindowState](app)
	if !ok {
		app.Logger().Errorf("%s renderer needs a window", rendererName)
		panic(fmt.Sprintf("%s renderer installed without PlatformWindowModule", rendererName))
	}

	canvas := canvasTarget(app, m.Config)
	rt := rtapp.NewApp(window.Glfw(), canvas.Width, canvas.Height, app.Logger())
	rt.CanvasLabel = canvas.Label
	rt.SceneMesh = sceneMeshData(app)
	if err := rt.Init(); err != nil {
		app.Logger().Errorf("renderer init: %v", err)
		panic(err)
	}

	cmd.AddResources(&FrameSnapshotContainer{}, &PixelRenderer{rt: rt})
	app.UseSystem(System(extractFrameSystem).InStage(PostUpdate))
	app.UseSystem(System(renderSystem).InStage(Render))
}

// canvasTarget is the registered canvas image, or one built from the config
// when no camera registered it.
func canvasTarget(app *App, cfg PixelCamConfig) ImageAsset {
	fallback := ImageAsset{
		Width:        cfg.ResWidth,
		Height:       cfg.ResHeight,
		Format:       TextureFormatRGBA8Unorm,
		RenderTarget: true,
		Label:        "pixel_canvas",
	}
	rig, ok := Resource[PixelCameraRig](app)
	if !ok {
		return fallback
	}
	assets, ok := Resource[AssetServer](app)
	if !ok {
		return fallback
	}
	img, ok := assets.Image(rig.Canvas)
	if !ok || !img.RenderTarget || img.Width == 0 || img.Height == 0 {
		app.Logger().Warnf("canvas image %s unusable, using %dx%d", rig.Canvas, cfg.ResWidth, cfg.ResHeight)
		return fallback
	}
	return img
}

// sceneMeshData is the registered scene mesh; empty keeps the renderer's cube.
func sceneMeshData(app *App) core.MeshData {
	sm, ok := Resource[SceneMesh](app)
	if !ok {
		return core.MeshData{}
	}
	assets, ok := Resource[AssetServer](app)
	if !ok {
		return core.MeshData{}
	}
	mesh, ok := assets.Mesh(sm.Mesh)
	if !ok {
		return core.MeshData{}
	}
	return mesh.MeshData
}

func renderSystem(w *WindowState, snapshots *FrameSnapshotContainer, r *PixelRenderer) {
	for _, ev := range w.Resized {
		r.rt.Resize(ev.Width, ev.Height)
	}

	snap := snapshots.Get()
	if snap == nil {
		r.skipped++
		return
	}
	r.rt.Update(snap.FrameInput())
	r.rt.Render()
	r.rendered++
}

// FrameInput copies the snapshot into the renderer runtime's input.
func (s *FrameSnapshot) FrameInput() rtapp.FrameInput {
	return rtapp.FrameInput{
		Settings:     s.Settings,
		TexelSize:    s.TexelSize,
		CanvasOffset: s.CanvasOffset,
		ViewProj:     s.ViewProj,
		LightDir:     s.LightDir,
		Instances:    s.Instances,
		Capture:      s.Capture,
	}
}
