package pixelcam

import (
	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
)

// ShowSettings is the visualization mode cycled from the keyboard.
type ShowSettings struct {
	Mode core.VisualizationMode
}

// Cycle advances the mode and rewrites every settings component to match.
func (s *ShowSettings) Cycle(cmd *Commands) {
	s.Mode = s.Mode.Next()
	settings := core.SettingsForMode(s.Mode)
	MakeQuery1[core.PostProcessSettings](cmd).Map(func(_ EntityId, ps *core.PostProcessSettings) bool {
		*ps = settings
		return true
	})
}

type PostProcessModule struct{}

func (PostProcessModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&ShowSettings{Mode: core.ModeColor})
	app.UseSystem(System(cycleSettingsSystem).InStage(Update))
}

func cycleSettingsSystem(input *Input, show *ShowSettings, cmd *Commands) {
	if !input.JustPressed[KeySpace] {
		return
	}
	show.Cycle(cmd)
	cmd.App().Logger().Debugf("visualization mode %s", show.Mode)
}
