package pixelcam

import (
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
)

// WindowSize is the current window fit. TexelSize is zero until the first
// resize has been applied.
type WindowSize struct {
	core.WindowScale

	resW, resH uint32
	k          float64
}

func NewWindowSize(cfg PixelCamConfig) *WindowSize {
	return &WindowSize{resW: cfg.ResWidth, resH: cfg.ResHeight, k: cfg.ReferenceFraction}
}

// Apply folds one resize event into the fit and reports whether it was used.
func (s *WindowSize) Apply(ev WindowResized) bool {
	return s.Resize(float32(ev.Width), float32(ev.Height), s.resW, s.resH, s.k)
}

type WindowScalerModule struct {
	Config PixelCamConfig
}

func (m WindowScalerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewWindowSize(m.Config))
	app.UseSystem(System(fitCanvasSystem).InStage(PreUpdate))
}

func fitCanvasSystem(w *WindowState, size *WindowSize, cmd *Commands) {
	for _, ev := range w.Resized {
		if !size.Apply(ev) {
			continue
		}
		cmd.App().Logger().Debugf("window %dx%d, texel size %v", ev.Width, ev.Height, size.TexelSize)
	}
}
