package kite

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: 1,
		state:        1,
		finalState:   2,
	}

	app.changeState(2)
	if app.nextState != State(2) {
		t.Errorf("nextState should be set by changeState")
	}
	if !app.stateTransitioning {
		t.Errorf("stateTransitioning flag should be raised")
	}

	app.executeChangeState(2)
	if app.state != State(2) {
		t.Errorf("executeChangeState should apply the new state")
	}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	view := &ViewUniforms{}
	app.addResources(view)
	assert.Contains(t, app.resources, reflect.TypeOf(ViewUniforms{}), "view uniforms should be registered by element type")

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(view)), func() {
		app.addResources(&ViewUniforms{})
	})

	app.addResources(&Msaa{Samples: 4})
	assert.Contains(t, app.resources, reflect.TypeOf(Msaa{}), "a second resource type should register alongside the first")
}

func TestApp_addResources_RejectsNonPointer(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	require.Panics(t, func() {
		app.addResources(Msaa{Samples: 2})
	})
}

func TestApp_callSystem_InjectsResourcesAndCommands(t *testing.T) {
	app := NewAppBuilder().Build()
	app.addResources(&Msaa{Samples: 4})

	var gotSamples uint32
	gotCommands := false
	app.callSystem(func(cmd *Commands, msaa *Msaa) {
		gotCommands = cmd != nil && cmd.app == app
		gotSamples = msaa.Samples
	})

	assert.True(t, gotCommands, "systems should receive a Commands facade bound to the app")
	assert.Equal(t, uint32(4), gotSamples, "systems should receive the registered resource")
}

func TestApp_callSystem_PanicsOnUnknownResource(t *testing.T) {
	app := NewAppBuilder().Build()

	require.Panics(t, func() {
		app.callSystem(func(meta *SpriteMeta) {})
	})
}

func TestApp_Logger(t *testing.T) {
	app := NewAppBuilder().Build()
	_, nop := app.Logger().(*nopLogger)
	assert.True(t, nop, "without a logging module the app falls back to the nop logger")

	app = NewAppBuilder().UseModule(LoggingModule{Debug: true}).Build()
	assert.True(t, app.Logger().DebugEnabled(), "the installed logger should be found through the resources")
}
