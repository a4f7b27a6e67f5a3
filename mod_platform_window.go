package pixelcam

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowResized is a framebuffer resize observed by glfw, in pixels.
type WindowResized struct {
	Width  int
	Height int
}

// WindowState owns the glfw window. Resize events are buffered by the glfw
// callback and drained once per frame by the systems that care.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	Resized []WindowResized
}

// Glfw exposes the native window to the renderer.
func (s *WindowState) Glfw() *glfw.Window { return s.windowGlfw }

func (s *WindowState) pushResize(w, h int) {
	s.WindowWidth, s.WindowHeight = w, h
	s.Resized = append(s.Resized, WindowResized{Width: w, Height: h})
}

func createWindowState(width, height int, title string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}

	s := &WindowState{
		windowGlfw:  win,
		windowTitle: title,
	}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		s.pushResize(w, h)
	})
	// The first fit happens before any user resize.
	s.pushResize(win.GetFramebufferSize())
	return s
}

// PlatformWindowModule creates the single shared window. Install is a no-op
// when a WindowState resource already exists.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow fills in 1280×720 and a default title for zero values.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "pixelcam"
	}
	return &PlatformWindowModule{Width: width, Height: height, Title: title}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); ok {
		return
	}
	cmd.AddResources(createWindowState(m.Width, m.Height, m.Title))
	app.UseSystem(System(pollWindowSystem).InStage(Prelude))
	app.UseSystem(System(clearResizeEventsSystem).InStage(Finale))
}

func pollWindowSystem(w *WindowState, cmd *Commands) {
	glfw.PollEvents()
	if w.windowGlfw.ShouldClose() {
		cmd.Exit()
	}
}

func clearResizeEventsSystem(w *WindowState) {
	w.Resized = w.Resized[:0]
}
