package app

import (
	"testing"
	"time"

	"github.com/gekko3d/pixelcam/pixelrt/rt/gpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderGraph_CoreOrder(t *testing.T) {
	g, err := NewRenderGraph(defaultNodes())
	require.NoError(t, err)

	order, err := g.Order()
	require.NoError(t, err)
	assert.Equal(t, []graph.Label{
		gpu.LabelPrepass,
		gpu.LabelMainPass,
		gpu.LabelTonemapping,
		gpu.LabelComposite,
		gpu.LabelEndPostProcessing,
		gpu.LabelCanvasReadback,
		gpu.LabelPresent,
	}, order)
}

func TestRenderGraph_HeadlessFrameSkipsComposite(t *testing.T) {
	nodes := defaultNodes()
	g, err := NewRenderGraph(nodes)
	require.NoError(t, err)

	// No encoder and no pipelines: every node must no-op without error.
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Run(&gpu.RenderContext{Frame: uint64(i)}))
	}
	assert.Equal(t, uint64(3), nodes.Composite.Skips)
	assert.Equal(t, gpu.SkipPipelinePending, nodes.Composite.LastSkip)
}

func TestNewApp_DefaultsResolution(t *testing.T) {
	a := NewApp(nil, 0, 0, nil)
	assert.Equal(t, uint32(640), a.ResWidth)
	assert.Equal(t, uint32(360), a.ResHeight)
	assert.NotNil(t, a.Nodes.Composite)
	assert.Empty(t, a.TakeCaptures())
}

func TestProfiler(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("graph")
	time.Sleep(time.Millisecond)
	p.EndScope("graph")
	p.BeginScope("graph")
	p.EndScope("graph")
	p.SetCount("composite_draws", 4)

	assert.Equal(t, []string{"graph"}, p.Order)
	assert.Contains(t, p.String(), "composite_draws=4")
	assert.Contains(t, p.String(), "graph=")
}
