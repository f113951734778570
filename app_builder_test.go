package kite

import (
	"reflect"
	"testing"
)

type recordingModule struct {
	installs int
}

func (m *recordingModule) Install(app *App, cmd *Commands) {
	m.installs++
}

func TestAppBuilder_Stateless(t *testing.T) {
	app := NewAppBuilder().Build()

	if app.stateful {
		t.Errorf("a builder without states should produce a stateless app")
	}
	if app.initialState != 0 || app.finalState != 0 {
		t.Errorf("stateless app should keep zero state bounds, got %v..%v", app.initialState, app.finalState)
	}
}

func TestAppBuilder_UseStates(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 10).Build()

	if !app.stateful {
		t.Errorf("UseStates should make the app stateful")
	}
	if app.initialState != 1 {
		t.Errorf("expected initialState 1, got %v", app.initialState)
	}
	if app.finalState != 10 {
		t.Errorf("expected finalState 10, got %v", app.finalState)
	}
}

func TestAppBuilder_Build_InstallsModulesOnce(t *testing.T) {
	first := &recordingModule{}
	second := &recordingModule{}

	app := NewAppBuilder().UseModule(first, second).Build()

	if len(app.modules) != 2 {
		t.Errorf("expected 2 installed modules, got %d", len(app.modules))
	}
	if first.installs != 1 || second.installs != 1 {
		t.Errorf("each module should be installed exactly once, got %d and %d", first.installs, second.installs)
	}
}

func TestAppBuilder_Build_CameraModule(t *testing.T) {
	app := NewAppBuilder().UseModule(CameraModule{}).Build()

	if _, ok := app.resources[reflect.TypeOf(ViewUniforms{})]; !ok {
		t.Errorf("camera module should register the view uniforms resource")
	}
	if len(app.systemsStateless[Prepare.Name]) != 1 {
		t.Errorf("camera module should schedule one system into the prepare stage")
	}
}

func TestAppBuilder_Build_LoggingModule(t *testing.T) {
	app := NewAppBuilder().UseModule(LoggingModule{Prefix: "test", Debug: true}).Build()

	if !app.Logger().DebugEnabled() {
		t.Errorf("expected the installed logger with debug enabled")
	}
}
