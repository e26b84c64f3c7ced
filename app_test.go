package swarm

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

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestApp_Resource(t *testing.T) {
	app := NewApp()
	app.Commands().AddResources(NewMockResource1("a"))

	r, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Equal(t, "a", r.name)

	_, ok = Resource[MockResource2](app)
	assert.False(t, ok)
}

func TestApp_SystemsRunInStageOrder(t *testing.T) {
	app := NewApp()
	var order []string
	app.UseSystem(System(func() { order = append(order, "render") }).InStage(Render))
	app.UseSystem(System(func() { order = append(order, "update") }))
	app.UseSystem(System(func() { order = append(order, "prelude") }).InStage(Prelude))
	app.UseSystem(System(func() { order = append(order, "finale") }).InStage(Finale))

	app.Step()

	assert.Equal(t, []string{"prelude", "update", "render", "finale"}, order)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_SystemDependencyInjection(t *testing.T) {
	app := NewApp()
	app.Commands().AddResources(NewMockResource1("injected"))

	var got string
	var gotCmd *Commands
	app.UseSystem(System(func(r *MockResource1, cmd *Commands) {
		got = r.name
		gotCmd = cmd
	}))
	app.Step()

	assert.Equal(t, "injected", got)
	require.NotNil(t, gotCmd)
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r *MockResource2) {}))
	assert.Panics(t, app.Step)
}

func TestApp_NonPointerDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r MockResource1) {}))
	assert.Panics(t, app.Step)
}

func TestApp_UseStage(t *testing.T) {
	app := NewApp()
	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))

	var order []string
	app.UseSystem(System(func() { order = append(order, "post") }).InStage(PostUpdate))
	app.UseSystem(System(func() { order = append(order, "custom") }).InStage(custom))
	app.UseSystem(System(func() { order = append(order, "update") }))
	app.Step()

	assert.Equal(t, []string{"update", "custom", "post"}, order)

	assert.PanicsWithValue(t, "Stage Custom already exists", func() {
		app.UseStage(custom, BeforeStage(Update))
	})
	assert.PanicsWithValue(t, "Stage Missing not found", func() {
		app.UseStage(Stage{Name: "Other"}, BeforeStage(Stage{Name: "Missing"}))
	})
	assert.PanicsWithValue(t, "Stage Nope doesn't exist", func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Nope"}))
	})
}

func TestApp_RunStopsOnExit(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(cmd *Commands) {
		if cmd.app.Frame() == 2 {
			cmd.Exit()
		}
	}))
	app.Run()
	assert.Equal(t, uint64(3), app.Frame())
}

func TestApp_RunStopsAtMaxFrames(t *testing.T) {
	app := NewApp()
	app.MaxFrames = 4
	calls := 0
	app.UseSystem(System(func() { calls++ }))
	app.Run()
	assert.Equal(t, 4, calls)
}
