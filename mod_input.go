package kite

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

type InputModule struct{}

type Input struct {
	Pressed      [64]bool
	JustPressed  [64]bool
	JustReleased [64]bool

	MouseX, MouseY float64

	WindowWidth, WindowHeight int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// inputSystem samples the current key, mouse and window state. Event pumping
// is owned by the window module.
func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		transition(input, key, s.windowGlfw.GetKey(glfwKey))
	}

	input.MouseX, input.MouseY = s.windowGlfw.GetCursorPos()
	input.WindowWidth, input.WindowHeight = s.windowGlfw.GetSize()

	for btn, glfwBtn := range mouseToGlfw {
		transition(input, btn, s.windowGlfw.GetMouseButton(glfwBtn))
	}
}

func transition(input *Input, key int, action glfw.Action) {
	input.JustPressed[key] = false
	input.JustReleased[key] = false

	if glfw.Press == action {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
		input.Pressed[key] = true
	} else if glfw.Release == action {
		if input.Pressed[key] {
			input.JustReleased[key] = true
		}
		input.Pressed[key] = false
	}
}

var keyToGlfw = buildKeyMap()

var mouseToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}

func buildKeyMap() map[int]glfw.Key {
	m := map[int]glfw.Key{
		KeySpace:   glfw.KeySpace,
		KeyEnter:   glfw.KeyEnter,
		KeyEscape:  glfw.KeyEscape,
		KeyTab:     glfw.KeyTab,
		KeyRight:   glfw.KeyRight,
		KeyLeft:    glfw.KeyLeft,
		KeyDown:    glfw.KeyDown,
		KeyUp:      glfw.KeyUp,
		KeyShift:   glfw.KeyLeftShift,
		KeyControl: glfw.KeyLeftControl,
	}
	// Letters and digits are contiguous in both enumerations.
	for k := KeyA; k <= KeyZ; k++ {
		m[k] = glfw.KeyA + glfw.Key(k-KeyA)
	}
	for k := Key0; k <= Key9; k++ {
		m[k] = glfw.Key0 + glfw.Key(k-Key0)
	}
	return m
}
