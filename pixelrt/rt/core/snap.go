package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultCameraSpeed = 50.0
	DefaultZoomSpeed   = 10.0
	DefaultMinZoom     = 1.0
	DefaultMaxZoom     = 10.0
	DefaultZoom        = 5.0
)

// RigConfig holds the tuning of the pixel camera rig.
type RigConfig struct {
	Speed     float32
	ZoomSpeed float32
	MinZoom   float32
	MaxZoom   float32
}

func DefaultRigConfig() RigConfig {
	return RigConfig{
		Speed:     DefaultCameraSpeed,
		ZoomSpeed: DefaultZoomSpeed,
		MinZoom:   DefaultMinZoom,
		MaxZoom:   DefaultMaxZoom,
	}
}

// RigInput is the per-frame input to the rig.
type RigInput struct {
	Direction mgl32.Vec2
	ZoomDelta float32
	Dt        float32
}

// RigState is the continuous camera state plus the last valid snapped pose.
type RigState struct {
	SubpixelPosition mgl32.Vec2
	Zoom             float32

	Snapped      mgl32.Vec2
	CanvasOffset mgl32.Vec2
	Placed       bool
}

func NewRigState(position mgl32.Vec2, zoom float32) RigState {
	return RigState{SubpixelPosition: position, Zoom: zoom}
}

// ProjectionScale is the orthographic scale of the scene camera.
func (s RigState) ProjectionScale() float32 {
	if s.Zoom <= 0 {
		return 1
	}
	return 1 / s.Zoom
}

// NormalizeOrZero returns v normalized, or the zero vector when v has no length.
func NormalizeOrZero(v mgl32.Vec2) mgl32.Vec2 {
	l := v.Len()
	if l == 0 || isBad(l) {
		return mgl32.Vec2{}
	}
	return v.Mul(1 / l)
}

// Integrate advances position and zoom. It reports whether the zoom changed.
func (c RigConfig) Integrate(s *RigState, in RigInput) bool {
	if in.Dt <= 0 {
		return false
	}
	s.SubpixelPosition = s.SubpixelPosition.Add(NormalizeOrZero(in.Direction).Mul(in.Dt * c.Speed))

	if in.ZoomDelta == 0 {
		return false
	}
	prev := s.Zoom
	s.Zoom = mgl32.Clamp(s.Zoom+in.ZoomDelta*in.Dt*c.ZoomSpeed, c.MinZoom, c.MaxZoom)
	return s.Zoom != prev
}

// EffectiveTexel is the world-space size of one canvas texel at the given zoom.
// Zero means snapping must be skipped.
func EffectiveTexel(texelSize, zoom float32) float32 {
	if texelSize <= 0 || zoom <= 0 || isBad(zoom) {
		return 0
	}
	e := texelSize / zoom
	if isBad(e) {
		return 0
	}
	return e
}

// SnapAxis rounds v to the nearest multiple of step.
func SnapAxis(v, step float32) float32 {
	s := float64(step)
	return float32(Round(float64(v)/s) * s)
}

// Snap grid-locks position to multiples of step on both axes.
func Snap(position mgl32.Vec2, step float32) mgl32.Vec2 {
	return mgl32.Vec2{SnapAxis(position[0], step), SnapAxis(position[1], step)}
}

// Place recomputes the snapped pose and the canvas compensation offset.
// When the effective texel is zero the previous pose is kept and false is returned.
func (s *RigState) Place(texelSize float32) bool {
	step := EffectiveTexel(texelSize, s.Zoom)
	if step == 0 {
		return false
	}

	snapped := Snap(s.SubpixelPosition, step)
	if isBad(snapped[0]) || isBad(snapped[1]) {
		return false
	}

	s.Snapped = snapped
	s.CanvasOffset = snapped.Sub(s.SubpixelPosition).Mul(s.Zoom)
	s.Placed = true
	return true
}

// CameraAxes returns the camera-local right and up vectors of orientation.
func CameraAxes(orientation mgl32.Quat) (right, up mgl32.Vec3) {
	right = orientation.Rotate(mgl32.Vec3{1, 0, 0})
	up = orientation.Rotate(mgl32.Vec3{0, 1, 0})
	return right, up
}

// PlanePoint maps a 2D position on the camera plane into world space.
func PlanePoint(orientation mgl32.Quat, p mgl32.Vec2, anchor mgl32.Vec3) mgl32.Vec3 {
	right, up := CameraAxes(orientation)
	return right.Mul(p[0]).Add(up.Mul(p[1])).Add(anchor)
}

// LookRotation builds the orientation of a camera at eye looking at target.
func LookRotation(eye, target, up mgl32.Vec3) mgl32.Quat {
	view := mgl32.LookAtV(eye, target, up)
	return mgl32.Mat4ToQuat(view.Inv()).Normalize()
}

func isBad(v float32) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}
