package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CompositeFunc is the per-texel contract of the composite stage:
// color (sampled source), depth, normal (prepass encoded, 0..1) and the
// per-frame settings in, one RGBA out.
type CompositeFunc func(color mgl32.Vec4, depth float32, normal mgl32.Vec3, s PostProcessSettings) mgl32.Vec4

// CompositeTexel is the CPU mirror of composite.wgsl; keep the two in step.
func CompositeTexel(color mgl32.Vec4, depth float32, normal mgl32.Vec3, s PostProcessSettings) mgl32.Vec4 {
	if s.ShowDepth != 0 {
		d := mgl32.Clamp(depth, 0, 1)
		return mgl32.Vec4{d, d, d, 1}
	}
	if s.ShowNormals != 0 {
		return mgl32.Vec4{normal[0], normal[1], normal[2], 1}
	}
	return color
}

var _ CompositeFunc = CompositeTexel
