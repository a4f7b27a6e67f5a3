package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/graph"
)

// Node labels of the core pipeline, in the order the renderer chains them.
const (
	LabelPrepass           graph.Label = "prepass"
	LabelMainPass          graph.Label = "main_pass"
	LabelTonemapping       graph.Label = "tonemapping"
	LabelComposite         graph.Label = "pixel_composite"
	LabelEndPostProcessing graph.Label = "end_main_pass_post_processing"
	LabelCanvasReadback    graph.Label = "canvas_readback"
	LabelPresent           graph.Label = "present"
)

// Logger is the subset of the engine logger the render nodes use.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }

// SceneDrawer records scene geometry into the prepass and main pass.
// A nil drawer leaves both passes cleared.
type SceneDrawer interface {
	DrawPrepass(pass *wgpu.RenderPassEncoder, ctx *RenderContext)
	DrawMain(pass *wgpu.RenderPassEncoder, ctx *RenderContext)
}

// RenderContext is handed to every node of one graph run.
type RenderContext struct {
	Device  *wgpu.Device
	Queue   *wgpu.Queue
	Encoder *wgpu.CommandEncoder

	// View holds the offscreen canvas targets.
	View *ViewTarget
	// Surface is the swapchain view for this frame, nil when presenting is skipped.
	Surface *wgpu.TextureView

	Frame uint64
	// TexelSize is the presentation scale of this frame.
	TexelSize float32
	Scene     SceneDrawer
	Logger    Logger
}

func (c *RenderContext) logger() Logger {
	if c == nil || c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}

// Graph is the render graph specialised to RenderContext.
type Graph = graph.Graph[*RenderContext]
