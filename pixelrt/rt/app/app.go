// Package app is the renderer runtime: it owns the device, the offscreen
// canvas and the render graph, and draws one frame per Render call.
package app

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/gekko3d/pixelcam/pixelrt/rt/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameInput is the value copy of simulation state the renderer needs for
// one frame. It never aliases ECS storage.
type FrameInput struct {
	Settings     core.PostProcessSettings
	TexelSize    float32
	CanvasOffset mgl32.Vec2
	ViewProj     mgl32.Mat4
	LightDir     mgl32.Vec3 // zero keeps the current light
	Instances    []core.Instance
	Capture      bool
}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	ResWidth  uint32
	ResHeight uint32
	// CanvasLabel names the canvas textures. SceneMesh replaces the default
	// cube of the built-in scene. Both are read by Init.
	CanvasLabel string
	SceneMesh   core.MeshData

	Logger   gpu.Logger
	Scene    gpu.SceneDrawer
	Mesh     *gpu.MeshScene
	Profiler *Profiler

	Pipelines *gpu.PipelineCache
	View      *gpu.ViewTarget
	Settings  *gpu.SettingsUniform
	Graph     *gpu.Graph
	Nodes     Nodes

	composite    gpu.CompositePipeline
	present      gpu.PresentPipeline
	presentation gpu.Presentation

	input     FrameInput
	frame     uint64
	lastStats time.Time
}

func NewApp(window *glfw.Window, resW, resH uint32, logger gpu.Logger) *App {
	if resW == 0 || resH == 0 {
		resW, resH = core.DefaultResWidth, core.DefaultResHeight
	}
	if logger == nil {
		logger = gpu.NopLogger()
	}
	return &App{
		Window:    window,
		ResWidth:  resW,
		ResHeight: resH,
		Logger:    logger,
		Profiler:  NewProfiler(),
		Settings:  gpu.NewSettingsUniform(),
		Nodes:     defaultNodes(),
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Pipelines = gpu.NewPipelineCache(gpu.WithLogger(a.Logger))

	if a.View, err = gpu.NewViewTarget(a.Device, a.CanvasLabel, a.ResWidth, a.ResHeight); err != nil {
		return err
	}
	if err := a.Settings.Allocate(a.Device); err != nil {
		return err
	}
	if err := a.composite.Init(a.Device, a.Pipelines); err != nil {
		return err
	}
	if err := a.present.Init(a.Device, a.Pipelines, a.Config.Format); err != nil {
		return err
	}
	if a.Scene == nil {
		a.Mesh = &gpu.MeshScene{Mesh: a.SceneMesh}
		if err := a.Mesh.Init(a.Device, a.Pipelines); err != nil {
			return err
		}
		a.Scene = a.Mesh
	}
	if err := a.Nodes.Readback.Allocate(a.Device, a.ResWidth, a.ResHeight); err != nil {
		return fmt.Errorf("canvas readback: %w", err)
	}

	a.Nodes.Composite.Pipeline = &a.composite
	a.Nodes.Composite.Pipelines = a.Pipelines
	a.Nodes.Composite.Uniform = a.Settings
	a.Nodes.Present.Pipeline = &a.present
	a.Nodes.Present.Pipelines = a.Pipelines
	a.Nodes.Present.Presentation = &a.presentation
	a.Nodes.Present.Write = a.writeBuffer

	if a.Graph, err = NewRenderGraph(a.Nodes); err != nil {
		return fmt.Errorf("render graph: %w", err)
	}
	a.presentation = gpu.NewPresentation(a.ResWidth, a.ResHeight, width, height, 1, mgl32.Vec2{})
	return nil
}

func (a *App) writeBuffer(buf *wgpu.Buffer, data []byte) {
	a.Queue.WriteBuffer(buf, 0, data)
}

// Resize reconfigures the swapchain. The canvas keeps its fixed resolution.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 || a.Config == nil {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
}

// Update takes this frame's snapshot of simulation state.
func (a *App) Update(in FrameInput) {
	a.input = in
	scale := in.TexelSize
	if scale <= 0 {
		scale = 1
	}
	w, h := 0, 0
	if a.Config != nil {
		w, h = int(a.Config.Width), int(a.Config.Height)
	}
	a.presentation = gpu.NewPresentation(a.ResWidth, a.ResHeight, w, h, scale, in.CanvasOffset)
	if in.Capture {
		a.Nodes.Readback.Request()
	}
}

func (a *App) Render() {
	a.Profiler.BeginScope("pipelines")
	a.Pipelines.Process()
	a.Profiler.EndScope("pipelines")

	frame := a.frame
	a.frame++
	a.Settings.Prepare(frame, a.input.Settings, a.writeBuffer)
	if a.Mesh != nil {
		if a.input.LightDir.Len() > 0 {
			a.Mesh.LightDir = a.input.LightDir.Normalize()
		}
		if err := a.Mesh.Update(a.Queue, a.input.ViewProj, a.input.Instances); err != nil {
			a.Logger.Errorf("scene update: %v", err)
		}
	}

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}
	defer encoder.Release()

	a.Profiler.BeginScope("graph")
	err = a.Graph.Run(&gpu.RenderContext{
		Device:    a.Device,
		Queue:     a.Queue,
		Encoder:   encoder,
		View:      a.View,
		Surface:   view,
		Frame:     frame,
		TexelSize: a.input.TexelSize,
		Scene:     a.Scene,
		Logger:    a.Logger,
	})
	a.Profiler.EndScope("graph")
	if err != nil {
		a.Logger.Errorf("frame %d dropped: %v", frame, err)
		return
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Logger.Errorf("Encoder Finish failed: %v", err)
		return
	}
	defer cmd.Release()
	a.Queue.Submit(cmd)
	a.Surface.Present()

	a.Device.Poll(false, nil)
	a.Nodes.Readback.Poll()

	a.Profiler.SetCount("composite_draws", a.Nodes.Composite.Draws)
	a.Profiler.SetCount("composite_skips", a.Nodes.Composite.Skips)
	if time.Since(a.lastStats) > 5*time.Second {
		a.lastStats = time.Now()
		a.Logger.Debugf("renderer %s", a.Profiler)
	}
}

// TakeCaptures returns canvas frames read back since the last call.
func (a *App) TakeCaptures() []gpu.CanvasFrame {
	return a.Nodes.Readback.Take()
}

func (a *App) Frame() uint64 { return a.frame }

func (a *App) Release() {
	a.Nodes.Readback.Release()
	if a.Mesh != nil {
		a.Mesh.Release()
	}
	a.present.Release()
	a.composite.Release()
	if a.Pipelines != nil {
		a.Pipelines.Release()
	}
	a.Settings.Release()
	if a.View != nil {
		a.View.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}
