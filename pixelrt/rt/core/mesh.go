package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MeshVertexStride is position + normal, float32x3 each.
	MeshVertexStride = 24
	// InstanceStride is a column-major model matrix followed by an RGBA color.
	InstanceStride = 80
)

var ErrBadMesh = errors.New("core: bad mesh")

// MeshData is an indexed triangle list with MeshVertexStride vertices.
type MeshData struct {
	Vertices []float32
	Indices  []uint16
}

func (m MeshData) VertexCount() int { return len(m.Vertices) / (MeshVertexStride / 4) }

func (m MeshData) Validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("%w: empty", ErrBadMesh)
	}
	if len(m.Vertices)%(MeshVertexStride/4) != 0 {
		return fmt.Errorf("%w: %d floats is not a whole number of vertices", ErrBadMesh, len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a triangle list", ErrBadMesh, len(m.Indices))
	}
	n := m.VertexCount()
	for _, i := range m.Indices {
		if int(i) >= n {
			return fmt.Errorf("%w: index %d out of %d vertices", ErrBadMesh, i, n)
		}
	}
	return nil
}

// Instance is one drawn copy of the scene mesh.
type Instance struct {
	Model mgl32.Mat4
	Color mgl32.Vec4
}

// AppendInstanceBytes encodes instances for the instance vertex buffer.
func AppendInstanceBytes(dst []byte, instances []Instance) []byte {
	var word [4]byte
	put := func(v float32) {
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(v))
		dst = append(dst, word[:]...)
	}
	for _, in := range instances {
		for _, v := range in.Model {
			put(v)
		}
		for _, v := range in.Color {
			put(v)
		}
	}
	return dst
}

type cubeFace struct {
	n, u, v mgl32.Vec3
}

// u × v == n for every face, so corners listed u/v-counterclockwise wind
// counterclockwise seen from outside.
var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
}

// CubeMesh is a unit cube centred on the origin with flat per-face normals.
func CubeMesh() (vertices []float32, indices []uint16) {
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for i, f := range cubeFaces {
		base := uint16(i * 4)
		for _, c := range corners {
			p := f.n.Mul(0.5).Add(f.u.Mul(0.5 * c[0])).Add(f.v.Mul(0.5 * c[1]))
			vertices = append(vertices, p[0], p[1], p[2], f.n[0], f.n[1], f.n[2])
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

func CubeMeshData() MeshData {
	v, i := CubeMesh()
	return MeshData{Vertices: v, Indices: i}
}
