package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/gekko3d/pixelcam"
	"github.com/gekko3d/pixelcam/pixelrt/rt/capture"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg := pixelcam.DefaultPixelCamConfig()

	width := flag.Int("width", 1280, "Initial window width")
	height := flag.Int("height", 720, "Initial window height")
	resW := flag.Uint("res-width", uint(cfg.ResWidth), "Canvas width in texels")
	resH := flag.Uint("res-height", uint(cfg.ResHeight), "Canvas height in texels")
	zoom := flag.Float64("zoom", float64(cfg.InitialZoom), "Initial camera zoom")
	follow := flag.Bool("follow", true, "Keep the camera on the player block")
	captureDir := flag.String("capture-dir", cfg.CaptureDir, "Directory for F12 captures")
	captureFormat := flag.String("capture-format", string(cfg.CaptureFormat), "Capture format (webp or png)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	format, err := capture.ParseFormat(*captureFormat)
	if err != nil {
		log.Fatal(err)
	}
	cfg.ResWidth = uint32(*resW)
	cfg.ResHeight = uint32(*resH)
	cfg.InitialZoom = float32(*zoom)
	cfg.CaptureDir = *captureDir
	cfg.CaptureFormat = format
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	app := pixelcam.NewAppBuilder().
		UseModule(
			pixelcam.LoggingModule{Prefix: "pixelcam", Debug: *debug},
			pixelcam.TimeModule{},
			pixelcam.NewPlatformWindow(*width, *height, "pixelcam"),
			pixelcam.InputModule{},
			pixelcam.AssetServerModule{},
			pixelcam.WindowScalerModule{Config: cfg},
			pixelcam.PixelCameraModule{Config: cfg},
			pixelcam.PostProcessModule{},
			pixelcam.SceneModule{Follow: *follow},
			pixelcam.PixelRenderModule{Config: cfg},
			pixelcam.CaptureModule{Config: cfg},
		).
		Build()
	defer glfw.Terminate()

	app.Run()

	if r, ok := pixelcam.Resource[pixelcam.PixelRenderer](app); ok {
		r.Release()
	}
}
