package pixelcam

import (
	"testing"

	"github.com/gekko3d/pixelcam/pixelrt/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleSettings_OnSpaceEdge(t *testing.T) {
	app := headlessApp(DefaultPixelCamConfig())
	input, _ := Resource[Input](app)
	show, _ := Resource[ShowSettings](app)

	settings := func() core.PostProcessSettings {
		var got []core.PostProcessSettings
		MakeQuery1[core.PostProcessSettings](app.Commands()).Map(func(_ EntityId, s *core.PostProcessSettings) bool {
			got = append(got, *s)
			return true
		})
		require.Len(t, got, 1)
		return got[0]
	}
	assert.Equal(t, core.PostProcessSettings{}, settings())

	input.Set(KeySpace, true)
	app.Tick()
	assert.Equal(t, core.ModeDepth, show.Mode)
	assert.Equal(t, core.PostProcessSettings{ShowDepth: 1}, settings())

	// Holding the key does not cycle again.
	input.Set(KeySpace, true)
	app.Tick()
	assert.Equal(t, core.ModeDepth, show.Mode)

	input.Set(KeySpace, false)
	input.Set(KeySpace, true)
	app.Tick()
	assert.Equal(t, core.PostProcessSettings{ShowNormals: 1}, settings())

	input.Set(KeySpace, false)
	input.Set(KeySpace, true)
	app.Tick()
	assert.Equal(t, core.ModeColor, show.Mode)
	assert.Equal(t, core.PostProcessSettings{}, settings())
}
