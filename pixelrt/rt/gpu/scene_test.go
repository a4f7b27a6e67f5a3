package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshVertexLayouts(t *testing.T) {
	layouts := meshVertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(core.MeshVertexStride), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
	require.Len(t, layouts[1].Attributes, 5)
	last := layouts[1].Attributes[4]
	assert.Equal(t, uint32(6), last.ShaderLocation)
	assert.Equal(t, uint64(64), last.Offset)
}

func TestCameraBytes(t *testing.T) {
	b := cameraBytes(mgl32.Translate3D(4, 5, 6), mgl32.Vec3{0, -1, 0})
	require.Len(t, b, sceneCameraSize)
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])) }
	assert.Equal(t, float32(4), f(12))
	assert.Equal(t, float32(-1), f(17))
	assert.Equal(t, float32(0), f(19))
}

func TestMeshScene_UninitialisedIsInert(t *testing.T) {
	var s MeshScene
	require.NoError(t, s.Update(nil, mgl32.Ident4(), []core.Instance{{Model: mgl32.Ident4()}}))
	s.DrawPrepass(nil, nil)
	s.DrawMain(nil, nil)
}

func TestMeshScene_MeshDefaultsToCube(t *testing.T) {
	var s MeshScene
	m, err := s.mesh()
	require.NoError(t, err)
	assert.Equal(t, core.CubeMeshData(), m)

	s.Mesh = core.MeshData{Vertices: m.Vertices, Indices: []uint16{0, 1, 99}}
	_, err = s.mesh()
	assert.ErrorIs(t, err, core.ErrBadMesh)

	s.Mesh = core.MeshData{Vertices: m.Vertices, Indices: m.Indices[:6]}
	got, err := s.mesh()
	require.NoError(t, err)
	assert.Len(t, got.Indices, 6)
}
