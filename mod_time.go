package pixelcam

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// Seconds is Dt as float seconds, the unit the camera rig integrates in.
func (t *Time) Seconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{Time: time.Now()})
	app.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(t *Time) {
	now := time.Now()
	t.Dt = now.Sub(t.Time)
	t.Time = now
}
