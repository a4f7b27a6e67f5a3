package core

import (
	"math"
)

const (
	// Internal (offscreen) resolution of the pixel-perfect world.
	DefaultResWidth  uint32 = 640
	DefaultResHeight uint32 = 360

	// Fraction of the internal resolution used as the fitting reference.
	DefaultReferenceFraction = 0.8
)

// Round is the single rounding rule used by window fitting and snapping.
// Halves go to the even neighbour, so 2.5 fits to 2 and 3.5 fits to 4.
func Round(v float64) float64 {
	return math.RoundToEven(v)
}

// FitScale returns the integer magnification for a window of w×h pixels
// showing a resW×resH canvas:
//
//	max(1, round(min(w / round(resW·k), h / round(resH·k))))
//
// A zero return means the inputs are degenerate (minimized window, empty
// resolution) and the caller should keep its previous scale.
func FitScale(w, h float64, resW, resH uint32, k float64) int {
	if w <= 0 || h <= 0 || resW == 0 || resH == 0 || k <= 0 {
		return 0
	}

	refW := Round(float64(resW) * k)
	refH := Round(float64(resH) * k)
	if refW <= 0 || refH <= 0 {
		return 0
	}

	hScale := w / refW
	vScale := h / refH

	scale := int(Round(math.Min(hScale, vScale)))
	if scale < 1 {
		scale = 1
	}
	return scale
}

// WindowScale is the renderer-independent view of the current window fit.
type WindowScale struct {
	Width     float32
	Height    float32
	TexelSize float32
}

// Initialized reports whether a resize has been observed yet.
func (s WindowScale) Initialized() bool {
	return s.TexelSize > 0
}

// Resize applies a resize event. It returns false when the event was ignored.
func (s *WindowScale) Resize(w, h float32, resW, resH uint32, k float64) bool {
	scale := FitScale(float64(w), float64(h), resW, resH, k)
	if scale == 0 {
		return false
	}
	s.Width = w
	s.Height = h
	s.TexelSize = float32(scale)
	return true
}

// ProjectionScale is the orthographic scale of the presentation camera.
func (s WindowScale) ProjectionScale() float32 {
	if s.TexelSize <= 0 {
		return 1
	}
	return 1 / s.TexelSize
}
