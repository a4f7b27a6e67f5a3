package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/gekko3d/pixelcam/pixelrt/rt/shaders"
)

// Composite bind group slots.
const (
	CompositeBindingScreen    = 0
	CompositeBindingReference = 1
	CompositeBindingSampler   = 2
	CompositeBindingSettings  = 3
	CompositeBindingDepth     = 4
	CompositeBindingNormal    = 5
)

func compositeLayoutEntries() []wgpu.BindGroupLayoutEntry {
	color := wgpu.TextureBindingLayout{
		SampleType:    wgpu.TextureSampleTypeFloat,
		ViewDimension: wgpu.TextureViewDimension2D,
	}
	return []wgpu.BindGroupLayoutEntry{
		{Binding: CompositeBindingScreen, Visibility: wgpu.ShaderStageFragment, Texture: color},
		{Binding: CompositeBindingReference, Visibility: wgpu.ShaderStageFragment, Texture: color},
		{
			Binding:    CompositeBindingSampler,
			Visibility: wgpu.ShaderStageFragment,
			Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
		},
		{
			Binding:    CompositeBindingSettings,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: core.SettingsUniformSize,
			},
		},
		{
			Binding:    CompositeBindingDepth,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeDepth,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    CompositeBindingNormal,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeUnfilterableFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
	}
}

// CompositePipeline is created once per renderer. The render pipeline itself
// is compiled through the cache and may not be ready on the first frames.
type CompositePipeline struct {
	Layout  *wgpu.BindGroupLayout
	Sampler *wgpu.Sampler
	Id      CachedPipelineId

	pipelineLayout *wgpu.PipelineLayout
	queued         bool
}

func (p *CompositePipeline) Init(device *wgpu.Device, cache *PipelineCache) error {
	if p.queued {
		return nil
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Pixel Composite BGL",
		Entries: compositeLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("composite layout: %w", err)
	}
	p.Layout = layout

	p.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Pixel Composite Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("composite sampler: %w", err)
	}

	p.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Pixel Composite PL",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.Layout},
	})
	if err != nil {
		return fmt.Errorf("composite pipeline layout: %w", err)
	}

	p.Id = cache.Queue("pixel_composite", shaders.CompositeWGSL, func(src string) (*wgpu.RenderPipeline, error) {
		module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          "pixel_composite.wgsl",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
		})
		if err != nil {
			return nil, err
		}
		defer module.Release()

		return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  "Pixel Composite Pipeline",
			Layout: p.pipelineLayout,
			Vertex: wgpu.VertexState{Module: module, EntryPoint: "vs_main"},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{{
					Format:    CanvasColorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				}},
			},
			Primitive:   wgpu.PrimitiveState{Topology: wgpu.PrimitiveTopologyTriangleList},
			Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		})
	})
	p.queued = true
	return nil
}

func (p *CompositePipeline) Release() {
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
	}
	if p.Sampler != nil {
		p.Sampler.Release()
	}
	if p.Layout != nil {
		p.Layout.Release()
	}
	*p = CompositePipeline{}
}
