package pixelcam

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyD
	KeyE
	KeyQ
	KeyR
	KeyS
	KeyW
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyEscape
	KeyF12
	keyCount
)

type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool
}

// Set records the current state of key and derives the edge flags.
func (in *Input) Set(key int, down bool) {
	in.JustPressed[key] = down && !in.Pressed[key]
	in.JustReleased[key] = !down && in.Pressed[key]
	in.Pressed[key] = down
}

// Axis is +1 when only pos is held, -1 when only neg is held, 0 otherwise.
func (in *Input) Axis(neg, pos int) float32 {
	var v float32
	if in.Pressed[pos] {
		v++
	}
	if in.Pressed[neg] {
		v--
	}
	return v
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(System(inputSystem).InStage(PreUpdate))
	app.UseSystem(System(exitOnEscapeSystem).InStage(Update))
}

func inputSystem(w *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		switch w.windowGlfw.GetKey(glfwKey) {
		case glfw.Press, glfw.Repeat:
			input.Set(key, true)
		case glfw.Release:
			input.Set(key, false)
		}
	}
}

func exitOnEscapeSystem(input *Input, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		cmd.Exit()
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:      glfw.KeyA,
	KeyD:      glfw.KeyD,
	KeyE:      glfw.KeyE,
	KeyQ:      glfw.KeyQ,
	KeyR:      glfw.KeyR,
	KeyS:      glfw.KeyS,
	KeyW:      glfw.KeyW,
	KeyLeft:   glfw.KeyLeft,
	KeyRight:  glfw.KeyRight,
	KeyUp:     glfw.KeyUp,
	KeyDown:   glfw.KeyDown,
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyF12:    glfw.KeyF12,
}
