package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	OrthoNear = -1000.0
	OrthoFar  = 10000.0

	// FollowGain converts the target's normalized viewport error into
	// subpixel camera motion per frame.
	FollowGain = 10.0
)

// clipZO remaps GL clip depth (-1..1) to the WebGPU range (0..1).
var clipZO = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// OrthoProjection covers a resW×resH viewport at one world unit per texel,
// multiplied by scale (1/zoom for the scene camera).
func OrthoProjection(resW, resH uint32, scale float32) mgl32.Mat4 {
	hw := float32(resW) * 0.5 * scale
	hh := float32(resH) * 0.5 * scale
	return clipZO.Mul4(mgl32.Ortho(-hw, hw, -hh, hh, OrthoNear, OrthoFar))
}

// ViewMatrix is the inverse of the camera's world transform.
func ViewMatrix(translation mgl32.Vec3, orientation mgl32.Quat) mgl32.Mat4 {
	world := mgl32.Translate3D(translation[0], translation[1], translation[2]).Mul4(orientation.Mat4())
	return world.Inv()
}

// WorldToViewport projects p into canvas pixel coordinates (origin top-left).
func WorldToViewport(viewProj mgl32.Mat4, p mgl32.Vec3, resW, resH uint32) (mgl32.Vec2, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip[3] == 0 {
		return mgl32.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	if isBad(ndc[0]) || isBad(ndc[1]) {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{
		(ndc[0] + 1) * 0.5 * float32(resW),
		(1 - ndc[1]) * 0.5 * float32(resH),
	}, true
}

// FollowStep is the subpixel motion that pulls a target at viewport towards
// the canvas centre.
func FollowStep(viewport mgl32.Vec2, resW, resH uint32, gain float32) mgl32.Vec2 {
	w, h := float32(resW), float32(resH)
	return mgl32.Vec2{
		(viewport[0] - w/2) / w,
		-(viewport[1] - h/2) / h,
	}.Mul(gain)
}

// QuarterTurnAngle is the yaw of a quarter-turn animation that starts at
// quarter index and has progressed by fraction (0..1). The progress is
// quantized to steps so the silhouette changes in discrete increments.
func QuarterTurnAngle(index, fraction float32, steps int) float32 {
	t := float32(0)
	if steps > 0 {
		t = float32(Round(float64(fraction)*float64(steps)) / float64(steps))
	}
	return index*math.Pi*0.5 + math.Pi*0.5*t
}
