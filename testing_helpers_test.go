package pixelcam

import (
	"time"
)

// headlessApp builds the simulation side of the rig without a window or GPU.
func headlessApp(cfg PixelCamConfig, modules ...Module) *App {
	app := NewAppBuilder().
		UseModule(AssetServerModule{}, PixelCameraModule{Config: cfg}, PostProcessModule{}).
		UseModule(modules...).
		Build()
	app.addResources(&Input{}, &Time{Dt: 0}, NewWindowSize(cfg))
	return app
}

func setDt(app *App, dt time.Duration) {
	t, _ := Resource[Time](app)
	t.Dt = dt
}
