package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

const PresentationUniformSize = 32

// Presentation places the canvas on the window. Offset is in window pixels
// with +y pointing down.
type Presentation struct {
	CanvasSize mgl32.Vec2
	WindowSize mgl32.Vec2
	Offset     mgl32.Vec2
	Scale      float32
}

// NewPresentation converts a canvas offset in canvas texels (+y up) to
// window pixels at the given integer scale.
func NewPresentation(canvasW, canvasH uint32, windowW, windowH int, scale float32, canvasOffset mgl32.Vec2) Presentation {
	return Presentation{
		CanvasSize: mgl32.Vec2{float32(canvasW), float32(canvasH)},
		WindowSize: mgl32.Vec2{float32(windowW), float32(windowH)},
		Offset:     mgl32.Vec2{canvasOffset[0] * scale, -canvasOffset[1] * scale},
		Scale:      scale,
	}
}

// Origin is the window pixel of the canvas' top-left corner.
func (p Presentation) Origin() mgl32.Vec2 {
	size := p.CanvasSize.Mul(p.Scale)
	return mgl32.Vec2{
		float32(math.Floor(float64(p.WindowSize[0]-size[0])*0.5)) + p.Offset[0],
		float32(math.Floor(float64(p.WindowSize[1]-size[1])*0.5)) + p.Offset[1],
	}
}

func (p Presentation) Bytes() []byte {
	b := make([]byte, PresentationUniformSize)
	vals := []float32{
		p.CanvasSize[0], p.CanvasSize[1],
		p.WindowSize[0], p.WindowSize[1],
		p.Offset[0], p.Offset[1],
		p.Scale, 0,
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// PresentPipeline draws the canvas onto the swapchain.
type PresentPipeline struct {
	Layout  *wgpu.BindGroupLayout
	Sampler *wgpu.Sampler
	Uniform *wgpu.Buffer
	Id      CachedPipelineId

	pipelineLayout *wgpu.PipelineLayout
	queued         bool
}

func (p *PresentPipeline) Init(device *wgpu.Device, cache *PipelineCache, surfaceFormat wgpu.TextureFormat) error {
	if p.queued {
		return nil
	}
	var err error
	p.Layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Present BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: PresentationUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("present layout: %w", err)
	}

	// Nearest filtering keeps magnified texels square.
	p.Sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Present Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("present sampler: %w", err)
	}

	p.Uniform, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Presentation",
		Size:  PresentationUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("present uniform: %w", err)
	}

	p.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Present PL",
		BindGroupLayouts: []*wgpu.BindGroupLayout{p.Layout},
	})
	if err != nil {
		return fmt.Errorf("present pipeline layout: %w", err)
	}

	p.Id = cache.Queue("present", shaders.PresentWGSL, func(src string) (*wgpu.RenderPipeline, error) {
		module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          "present.wgsl",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
		})
		if err != nil {
			return nil, err
		}
		defer module.Release()

		return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  "Present Pipeline",
			Layout: p.pipelineLayout,
			Vertex: wgpu.VertexState{Module: module, EntryPoint: "vs_main"},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{{
					Format:    surfaceFormat,
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

func (p *PresentPipeline) Release() {
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
	}
	if p.Uniform != nil {
		p.Uniform.Release()
	}
	if p.Sampler != nil {
		p.Sampler.Release()
	}
	if p.Layout != nil {
		p.Layout.Release()
	}
	*p = PresentPipeline{}
}

// PresentNode draws the main canvas texture onto the window surface. The
// window is cleared to black around the canvas.
type PresentNode struct {
	Pipeline     *PresentPipeline
	Pipelines    PipelineSource
	Presentation *Presentation
	Write        WriteFunc
}

func (n *PresentNode) Run(ctx *RenderContext) error {
	if ctx.Surface == nil || ctx.Encoder == nil || ctx.View == nil {
		return nil
	}
	pass := ctx.Encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Present Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       ctx.Surface,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})

	var bindGroup *wgpu.BindGroup
	if pipeline, ok := n.pipeline(); ok && n.Presentation != nil {
		if n.Write != nil {
			n.Write(n.Pipeline.Uniform, n.Presentation.Bytes())
		}
		var err error
		bindGroup, err = ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Present BG",
			Layout: n.Pipeline.Layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: ctx.View.MainView()},
				{Binding: 1, Sampler: n.Pipeline.Sampler},
				{Binding: 2, Buffer: n.Pipeline.Uniform, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			ctx.logger().Errorf("present bind group: %v", err)
		} else {
			pass.SetPipeline(pipeline)
			pass.SetBindGroup(0, bindGroup, nil)
			pass.Draw(6, 1, 0, 0)
		}
	}
	err := pass.End()
	if bindGroup != nil {
		bindGroup.Release()
	}
	if err != nil {
		return fmt.Errorf("present pass: %w", err)
	}
	return nil
}

func (n *PresentNode) pipeline() (*wgpu.RenderPipeline, bool) {
	if n.Pipeline == nil || !n.Pipeline.queued || n.Pipelines == nil {
		return nil, false
	}
	return n.Pipelines.Get(n.Pipeline.Id)
}
