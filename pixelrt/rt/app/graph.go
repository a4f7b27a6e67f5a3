package app

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/gpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/graph"
)

// Nodes are the render graph's working nodes. Anchors are added here.
type Nodes struct {
	Main      gpu.MainPassNode
	Composite *gpu.CompositeStage
	Readback  *gpu.CanvasReadback
	Present   *gpu.PresentNode
}

// NewRenderGraph wires the core pipeline:
// prepass -> main pass -> tonemapping -> composite -> end of post-processing -> readback -> present.
func NewRenderGraph(n Nodes) (*gpu.Graph, error) {
	g := graph.New[*gpu.RenderContext]()

	nodes := []struct {
		label graph.Label
		node  graph.Node[*gpu.RenderContext]
	}{
		{gpu.LabelPrepass, gpu.PrepassNode{}},
		{gpu.LabelMainPass, n.Main},
		{gpu.LabelTonemapping, graph.Empty[*gpu.RenderContext]{}},
		{gpu.LabelComposite, n.Composite},
		{gpu.LabelEndPostProcessing, graph.Empty[*gpu.RenderContext]{}},
		{gpu.LabelCanvasReadback, n.Readback},
		{gpu.LabelPresent, n.Present},
	}
	for _, e := range nodes {
		if err := g.AddNode(e.label, e.node); err != nil {
			return nil, err
		}
	}

	if err := g.AddEdges(
		gpu.LabelPrepass,
		gpu.LabelMainPass,
		gpu.LabelTonemapping,
		gpu.LabelComposite,
		gpu.LabelEndPostProcessing,
		gpu.LabelCanvasReadback,
		gpu.LabelPresent,
	); err != nil {
		return nil, err
	}

	// Bad wiring fails here rather than on the first frame.
	if _, err := g.Order(); err != nil {
		return nil, err
	}
	return g, nil
}

func defaultNodes() Nodes {
	return Nodes{
		Main:      gpu.MainPassNode{ClearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1}},
		Composite: &gpu.CompositeStage{},
		Readback:  &gpu.CanvasReadback{},
		Present:   &gpu.PresentNode{},
	}
}
