package pixelcam

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func TestApp_addResources(t *testing.T) {
	app := NewAppBuilder().Build()

	resource1 := &MockResource1{name: "Resource1"}
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem())

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})
	require.Panics(t, func() {
		app.addResources(MockResource2{name: "by value"})
	})

	got, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Same(t, resource1, got)
	_, ok = Resource[MockResource2](app)
	assert.False(t, ok)
}

func TestApp_SystemsResolveResourcesAndCommands(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(&MockResource1{name: "r1"})

	var seen []string
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		seen = append(seen, r.name)
		cmd.AddEntity(position{1, 1})
	}))

	app.Tick()
	assert.Equal(t, []string{"r1"}, seen)
	assert.Equal(t, 1, app.ecs.EntityCount())
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_UnresolvedSystemPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(*MockResource2) {}))
	assert.Panics(t, app.Tick)
}

func TestApp_StagesRunInOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []string
	record := func(name string) func() {
		return func() { order = append(order, name) }
	}
	app.UseSystem(System(record("render")).InStage(Render))
	app.UseSystem(System(record("prelude")).InStage(Prelude))
	app.UseSystem(System(record("update")))

	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))
	app.UseSystem(System(record("custom")).InStage(custom))

	app.Tick()
	assert.Equal(t, []string{"prelude", "update", "custom", "render"}, order)
	assert.Panics(t, func() { app.UseSystem(System(record("x")).InStage(Stage{Name: "missing"})) })
}

func TestApp_CommandsFlushAfterStage(t *testing.T) {
	app := NewAppBuilder().Build()
	var countInUpdate, countInPostUpdate int

	app.UseSystem(System(func(cmd *Commands) {
		if app.Frame() == 0 {
			cmd.AddEntity(position{})
		}
		countInUpdate = cmd.App().ecs.EntityCount()
	}))
	app.UseSystem(System(func(cmd *Commands) {
		countInPostUpdate = cmd.App().ecs.EntityCount()
	}).InStage(PostUpdate))

	app.Tick()
	assert.Equal(t, 0, countInUpdate)
	assert.Equal(t, 1, countInPostUpdate)
}

func TestApp_RunStopsOnExit(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(cmd *Commands) {
		if cmd.App().Frame() == 2 {
			cmd.Exit()
		}
	}))
	app.Run()
	assert.Equal(t, uint64(3), app.Frame())
}

func TestCommands_EntityLifecycle(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()

	eid := cmd.AddEntity(position{1, 2})
	app.FlushCommands()
	cmd.AddComponents(eid, velocity{3, 4})
	app.FlushCommands()
	assert.ElementsMatch(t, []any{position{1, 2}, velocity{3, 4}}, cmd.GetAllComponents(eid))

	cmd.RemoveComponents(eid, position{})
	app.FlushCommands()
	assert.Equal(t, []any{velocity{3, 4}}, cmd.GetAllComponents(eid))

	cmd.RemoveEntity(eid)
	cmd.AddComponents(eid, tag{})
	app.FlushCommands()
	assert.Nil(t, cmd.GetAllComponents(eid))
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.NotNil(t, app.Logger())
	assert.False(t, app.Logger().DebugEnabled())

	var nilApp *App
	assert.NotNil(t, nilApp.Logger())

	app = NewAppBuilder().UseModule(LoggingModule{Prefix: "test", Debug: true}).Build()
	assert.True(t, app.Logger().DebugEnabled())
}
