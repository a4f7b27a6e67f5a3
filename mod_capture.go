package pixelcam

import (
	"github.com/gekko3d/pixelcam/pixelrt/rt/capture"
	"github.com/gekko3d/pixelcam/pixelrt/rt/gpu"
)

// CaptureState turns F12 presses into canvas readbacks and writes what comes
// back as upscaled image files.
type CaptureState struct {
	Dir    string
	Format capture.Format

	// Written lists the files saved so far, oldest first.
	Written []string

	requested bool
}

func (s *CaptureState) Request() { s.requested = true }

// takeRequest reports a pending request and clears it.
func (s *CaptureState) takeRequest() bool {
	r := s.requested
	s.requested = false
	return r
}

// Save writes every frame magnified by the texel size it was rendered at.
// Failed frames are logged and skipped.
func (s *CaptureState) Save(frames []gpu.CanvasFrame, logger Logger) []string {
	var paths []string
	for _, f := range frames {
		scale := max(int(f.TexelSize), 1)
		img, err := capture.FromRGBA(f.Pixels, int(f.Width), int(f.Height))
		if err != nil {
			logger.Errorf("capture frame %d: %v", f.Frame, err)
			continue
		}
		path, err := capture.WriteFile(s.Dir, capture.Upscale(img, scale), s.Format)
		if err != nil {
			logger.Errorf("capture frame %d: %v", f.Frame, err)
			continue
		}
		logger.Infof("captured frame %d to %s", f.Frame, path)
		paths = append(paths, path)
	}
	s.Written = append(s.Written, paths...)
	return paths
}

type CaptureModule struct {
	Config PixelCamConfig
}

func (m CaptureModule) Install(app *App, cmd *Commands) {
	format := m.Config.CaptureFormat
	if format == "" {
		format = capture.FormatWebP
	}
	cmd.AddResources(&CaptureState{Dir: m.Config.CaptureDir, Format: format})
	app.UseSystem(System(captureInputSystem).InStage(Update))
	app.UseSystem(System(captureWriteSystem).InStage(PostRender))
}

func captureInputSystem(input *Input, state *CaptureState) {
	if input.JustPressed[KeyF12] {
		state.Request()
	}
}

func captureWriteSystem(r *PixelRenderer, state *CaptureState, cmd *Commands) {
	frames := r.TakeCaptures()
	if len(frames) == 0 {
		return
	}
	state.Save(frames, cmd.App().Logger())
}
