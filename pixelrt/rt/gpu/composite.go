package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/graph"
)

// PipelineSource is satisfied by *PipelineCache.
type PipelineSource interface {
	Get(id CachedPipelineId) (*wgpu.RenderPipeline, bool)
	Err(id CachedPipelineId) error
}

// UniformSource is satisfied by *SettingsUniform.
type UniformSource interface {
	Binding() (*wgpu.Buffer, bool)
}

type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipPipelinePending
	SkipPipelineFailed
	SkipUniformMissing
	SkipNoTarget
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipPipelinePending:
		return "pipeline pending"
	case SkipPipelineFailed:
		return "pipeline failed"
	case SkipUniformMissing:
		return "uniform missing"
	case SkipNoTarget:
		return "no view target"
	}
	return fmt.Sprintf("SkipReason(%d)", int(r))
}

// CompositeStage replaces the main color with the depth or normal
// visualization chosen by the settings uniform. Every reason to skip a frame
// is a no-op that keeps the main pass output on the canvas. A failed pipeline
// is logged once.
type CompositeStage struct {
	Pipeline  *CompositePipeline
	Pipelines PipelineSource
	Uniform   UniformSource

	Draws    uint64
	Skips    uint64
	LastSkip SkipReason

	failureLogged bool
}

func (s *CompositeStage) Requires() []graph.Label {
	return []graph.Label{LabelPrepass}
}

func (s *CompositeStage) skip(reason SkipReason) error {
	s.Skips++
	s.LastSkip = reason
	return nil
}

func (s *CompositeStage) Run(ctx *RenderContext) error {
	if s.Pipeline == nil || !s.Pipeline.queued || s.Pipelines == nil {
		return s.skip(SkipPipelinePending)
	}
	pipeline, ok := s.Pipelines.Get(s.Pipeline.Id)
	if !ok {
		err := s.Pipelines.Err(s.Pipeline.Id)
		if err == nil || errors.Is(err, ErrPipelinePending) {
			return s.skip(SkipPipelinePending)
		}
		if !s.failureLogged {
			s.failureLogged = true
			ctx.logger().Errorf("composite disabled: %v", err)
		}
		return s.skip(SkipPipelineFailed)
	}
	if s.Uniform == nil {
		return s.skip(SkipUniformMissing)
	}
	settings, ok := s.Uniform.Binding()
	if !ok {
		return s.skip(SkipUniformMissing)
	}
	if ctx == nil || ctx.View == nil || ctx.Encoder == nil {
		return s.skip(SkipNoTarget)
	}

	pp := ctx.View.PeekPostProcessWrite()
	bindGroup, err := ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Pixel Composite BG",
		Layout: s.Pipeline.Layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: CompositeBindingScreen, TextureView: pp.Source},
			{Binding: CompositeBindingReference, TextureView: pp.Source},
			{Binding: CompositeBindingSampler, Sampler: s.Pipeline.Sampler},
			{Binding: CompositeBindingSettings, Buffer: settings, Size: wgpu.WholeSize},
			{Binding: CompositeBindingDepth, TextureView: ctx.View.DepthView},
			{Binding: CompositeBindingNormal, TextureView: ctx.View.NormalView},
		},
	})
	if err != nil {
		return fmt.Errorf("composite bind group: %w", err)
	}
	defer bindGroup.Release()

	pass := ctx.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Pixel Composite Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       pp.Destination,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("composite pass: %w", err)
	}
	ctx.View.CommitPostProcessWrite()

	s.Draws++
	s.LastSkip = SkipNone
	return nil
}
