package pixelcam

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLight shines along the -Z axis of its entity's Transform.
type DirectionalLight struct {
	Color       [3]float32
	Illuminance float32
}

// DefaultSunRotation tilts the sun down 45° and swings it 135° around +Y.
func DefaultSunRotation() mgl32.Quat {
	return mgl32.QuatRotate(3*math.Pi/4, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(-math.Pi/4, mgl32.Vec3{1, 0, 0}))
}

// LightDirection is the world-space direction light travels for rotation.
func LightDirection(rotation mgl32.Quat) mgl32.Vec3 {
	return rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}
