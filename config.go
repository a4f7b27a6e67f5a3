package pixelcam

import (
	"fmt"

	"github.com/gekko3d/pixelcam/pixelrt/rt/capture"
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
)

// PixelCamConfig is the tuning shared by the scaler, the camera rig, the
// renderer and captures.
type PixelCamConfig struct {
	ResWidth          uint32
	ResHeight         uint32
	ReferenceFraction float64

	Speed       float32
	ZoomSpeed   float32
	MinZoom     float32
	MaxZoom     float32
	InitialZoom float32

	CaptureDir    string
	CaptureFormat capture.Format
}

func DefaultPixelCamConfig() PixelCamConfig {
	return PixelCamConfig{
		ResWidth:          core.DefaultResWidth,
		ResHeight:         core.DefaultResHeight,
		ReferenceFraction: core.DefaultReferenceFraction,
		Speed:             core.DefaultCameraSpeed,
		ZoomSpeed:         core.DefaultZoomSpeed,
		MinZoom:           core.DefaultMinZoom,
		MaxZoom:           core.DefaultMaxZoom,
		InitialZoom:       core.DefaultZoom,
		CaptureDir:        ".",
		CaptureFormat:     capture.FormatWebP,
	}
}

// Validate rejects configurations the rig cannot run with.
func (c PixelCamConfig) Validate() error {
	switch {
	case c.ResWidth == 0 || c.ResHeight == 0:
		return fmt.Errorf("resolution %dx%d must be positive", c.ResWidth, c.ResHeight)
	case c.ReferenceFraction <= 0:
		return fmt.Errorf("reference fraction %v must be positive", c.ReferenceFraction)
	case c.MinZoom <= 0 || c.MaxZoom < c.MinZoom:
		return fmt.Errorf("zoom range [%v, %v] is invalid", c.MinZoom, c.MaxZoom)
	case c.InitialZoom < c.MinZoom || c.InitialZoom > c.MaxZoom:
		return fmt.Errorf("initial zoom %v is outside [%v, %v]", c.InitialZoom, c.MinZoom, c.MaxZoom)
	}
	return nil
}

func (c PixelCamConfig) Rig() core.RigConfig {
	return core.RigConfig{
		Speed:     c.Speed,
		ZoomSpeed: c.ZoomSpeed,
		MinZoom:   c.MinZoom,
		MaxZoom:   c.MaxZoom,
	}
}
