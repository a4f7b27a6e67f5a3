package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/gekko3d/pixelcam/pixelrt/rt/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

const sceneCameraSize = 80

// DefaultLightDir points down and away from the default camera.
var DefaultLightDir = mgl32.Vec3{-0.4, -1, 0.6}.Normalize()

func meshVertexLayouts() []wgpu.VertexBufferLayout {
	instanceAttrs := make([]wgpu.VertexAttribute, 0, 5)
	for i := 0; i < 5; i++ {
		instanceAttrs = append(instanceAttrs, wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(2 + i),
		})
	}
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: core.MeshVertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: core.InstanceStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes:  instanceAttrs,
		},
	}
}

func cameraBytes(viewProj mgl32.Mat4, light mgl32.Vec3) []byte {
	b := make([]byte, sceneCameraSize)
	for i, v := range viewProj {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	for i, v := range light {
		binary.LittleEndian.PutUint32(b[64+i*4:], math.Float32bits(v))
	}
	return b
}

// MeshScene draws one mesh instanced, a unit cube unless Mesh is set before
// Init. It is the demo's SceneDrawer; real scenes plug in their own.
type MeshScene struct {
	LightDir mgl32.Vec3
	Mesh     core.MeshData

	device    *wgpu.Device
	pipelines PipelineSource

	layout         *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	bindGroup      *wgpu.BindGroup
	camera         *wgpu.Buffer

	vertices   *wgpu.Buffer
	indices    *wgpu.Buffer
	indexCount uint32

	instances     *wgpu.Buffer
	instanceCap   int
	instanceCount uint32
	scratch       []byte

	prepassId CachedPipelineId
	mainId    CachedPipelineId
}

func (s *MeshScene) mesh() (core.MeshData, error) {
	if len(s.Mesh.Vertices) == 0 && len(s.Mesh.Indices) == 0 {
		return core.CubeMeshData(), nil
	}
	if err := s.Mesh.Validate(); err != nil {
		return core.MeshData{}, fmt.Errorf("scene mesh: %w", err)
	}
	return s.Mesh, nil
}

func (s *MeshScene) Init(device *wgpu.Device, cache *PipelineCache) error {
	s.device = device
	s.pipelines = cache
	if s.LightDir.Len() == 0 {
		s.LightDir = DefaultLightDir
	}

	mesh, err := s.mesh()
	if err != nil {
		return err
	}
	s.vertices, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Scene VB",
		Contents: wgpu.ToBytes(mesh.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("scene vertices: %w", err)
	}
	s.indices, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Scene IB",
		Contents: wgpu.ToBytes(mesh.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		return fmt.Errorf("scene indices: %w", err)
	}
	s.indexCount = uint32(len(mesh.Indices))

	s.camera, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Scene Camera",
		Size:  sceneCameraSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("scene camera: %w", err)
	}

	s.layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Scene BGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: sceneCameraSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("scene layout: %w", err)
	}
	s.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Scene BG",
		Layout:  s.layout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: s.camera, Size: wgpu.WholeSize}},
	})
	if err != nil {
		return fmt.Errorf("scene bind group: %w", err)
	}
	s.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Scene PL",
		BindGroupLayouts: []*wgpu.BindGroupLayout{s.layout},
	})
	if err != nil {
		return fmt.Errorf("scene pipeline layout: %w", err)
	}

	s.prepassId = cache.Queue("scene_prepass", shaders.SceneWGSL, s.builder("fs_prepass", CanvasNormalFormat, true, wgpu.CompareFunctionLess))
	s.mainId = cache.Queue("scene_main", shaders.SceneWGSL, s.builder("fs_main", CanvasColorFormat, false, wgpu.CompareFunctionLessEqual))
	return nil
}

func (s *MeshScene) builder(entry string, format wgpu.TextureFormat, depthWrite bool, compare wgpu.CompareFunction) PipelineBuildFunc {
	return func(src string) (*wgpu.RenderPipeline, error) {
		module, err := s.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          "scene.wgsl",
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
		})
		if err != nil {
			return nil, err
		}
		defer module.Release()

		return s.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  "Scene " + entry,
			Layout: s.pipelineLayout,
			Vertex: wgpu.VertexState{
				Module:     module,
				EntryPoint: "vs_main",
				Buffers:    meshVertexLayouts(),
			},
			Fragment: &wgpu.FragmentState{
				Module:     module,
				EntryPoint: entry,
				Targets: []wgpu.ColorTargetState{{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				}},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyTriangleList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			DepthStencil: &wgpu.DepthStencilState{
				Format:            CanvasDepthFormat,
				DepthWriteEnabled: depthWrite,
				DepthCompare:      compare,
				StencilFront: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
				StencilBack: wgpu.StencilFaceState{
					Compare: wgpu.CompareFunctionAlways,
				},
			},
			Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		})
	}
}

// Update uploads the camera and the instance list. Call before Render.
func (s *MeshScene) Update(queue *wgpu.Queue, viewProj mgl32.Mat4, instances []core.Instance) error {
	if s.device == nil {
		return nil
	}
	queue.WriteBuffer(s.camera, 0, cameraBytes(viewProj, s.LightDir))

	s.instanceCount = uint32(len(instances))
	if len(instances) == 0 {
		return nil
	}
	if len(instances) > s.instanceCap {
		if s.instances != nil {
			s.instances.Release()
		}
		capacity := max(len(instances), 2*s.instanceCap, 16)
		buf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Scene Instances",
			Size:  uint64(capacity * core.InstanceStride),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			s.instances, s.instanceCap, s.instanceCount = nil, 0, 0
			return fmt.Errorf("scene instances: %w", err)
		}
		s.instances = buf
		s.instanceCap = capacity
	}
	s.scratch = core.AppendInstanceBytes(s.scratch[:0], instances)
	queue.WriteBuffer(s.instances, 0, s.scratch)
	return nil
}

func (s *MeshScene) draw(pass *wgpu.RenderPassEncoder, id CachedPipelineId) {
	if s.instanceCount == 0 || s.pipelines == nil {
		return
	}
	pipeline, ok := s.pipelines.Get(id)
	if !ok {
		return
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, s.bindGroup, nil)
	pass.SetVertexBuffer(0, s.vertices, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, s.instances, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(s.indices, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	pass.DrawIndexed(s.indexCount, s.instanceCount, 0, 0, 0)
}

func (s *MeshScene) DrawPrepass(pass *wgpu.RenderPassEncoder, _ *RenderContext) {
	s.draw(pass, s.prepassId)
}

func (s *MeshScene) DrawMain(pass *wgpu.RenderPassEncoder, _ *RenderContext) {
	s.draw(pass, s.mainId)
}

func (s *MeshScene) Release() {
	for _, b := range []*wgpu.Buffer{s.vertices, s.indices, s.camera, s.instances} {
		if b != nil {
			b.Release()
		}
	}
	if s.bindGroup != nil {
		s.bindGroup.Release()
	}
	if s.pipelineLayout != nil {
		s.pipelineLayout.Release()
	}
	if s.layout != nil {
		s.layout.Release()
	}
	*s = MeshScene{}
}
