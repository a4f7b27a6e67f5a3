package pixelcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	commands.AddEntity(position{})
}

type MockModule2 struct {
	installed bool
}

func (m *MockModule2) Install(app *App, commands *Commands) {
	m.installed = true
}

func TestAppBuilder_DefaultStages(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Equal(t, defaultStages, app.Stages())
}

func TestAppBuilder_UseModule(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule2{}

	app := NewAppBuilder().
		UseModule(module1).
		UseModule(module2).
		Build()

	assert.True(t, module1.installed)
	assert.True(t, module2.installed)
	assert.Len(t, app.modules, 2)
	// Entities spawned while installing exist after Build.
	assert.Equal(t, 1, app.ecs.EntityCount())
}
