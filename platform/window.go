package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/swarm"
)

// Window is the shared GLFW window resource.
type Window struct {
	Glfw   *glfw.Window
	Width  int
	Height int
	Title  string
}

// WindowModule opens a GLFW window without a client API (WebGPU draws into it) and
// feeds its keyboard and pointer state into the swarm.Input resource.
// InputModule must be installed first.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m WindowModule) Install(app *swarm.App, cmd *swarm.Commands) {
	input, ok := swarm.Resource[swarm.Input](app)
	if !ok {
		panic("platform.WindowModule requires swarm.InputModule")
	}
	if m.Width <= 0 {
		m.Width = 1280
	}
	if m.Height <= 0 {
		m.Height = 720
	}
	if m.Title == "" {
		m.Title = "Swarm"
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(fmt.Sprintf("glfw init: %v", err))
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(m.Width, m.Height, m.Title, nil, nil)
	if err != nil {
		panic(fmt.Sprintf("glfw create window: %v", err))
	}

	w := &Window{Glfw: win, Width: m.Width, Height: m.Height, Title: m.Title}
	installPointerCallbacks(win, input)
	input.WindowWidth, input.WindowHeight = win.GetSize()

	cmd.AddResources(w)
	cmd.Logger().Infof("window %dx%d %q", m.Width, m.Height, m.Title)

	app.UseSystem(
		swarm.System(windowEventsSystem).
			InStage(swarm.Prelude),
	)
	app.UseSystem(
		swarm.System(windowCloseSystem).
			InStage(swarm.Finale),
	)
}

func installPointerCallbacks(win *glfw.Window, input *swarm.Input) {
	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		btn, ok := mouseButtons[button]
		if !ok {
			return
		}
		x, y := w.GetCursorPos()
		ev := swarm.PointerEvent{
			X:      x,
			Y:      y,
			Button: btn,
			Shift:  mods&glfw.ModShift != 0,
		}
		switch action {
		case glfw.Press:
			ev.Kind = swarm.PointerDown
		case glfw.Release:
			ev.Kind = swarm.PointerUp
		default:
			return
		}
		input.PushPointer(ev)
	})
	win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerMove, X: x, Y: y})
	})
	// a drag must always terminate, so losing focus cancels a held left button
	win.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if focused || !input.Pressed[swarm.MouseButtonLeft] {
			return
		}
		input.PushPointer(swarm.PointerEvent{
			Kind:   swarm.PointerCancel,
			X:      input.MouseX,
			Y:      input.MouseY,
			Button: swarm.MouseButtonLeft,
		})
	})
	win.SetSizeCallback(func(w *glfw.Window, width, height int) {
		input.WindowWidth, input.WindowHeight = width, height
	})
}

func windowEventsSystem(w *Window, input *swarm.Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		switch w.Glfw.GetKey(glfwKey) {
		case glfw.Press, glfw.Repeat:
			input.SetKey(key, true)
		case glfw.Release:
			input.SetKey(key, false)
		}
	}

	w.Width, w.Height = w.Glfw.GetSize()
}

func windowCloseSystem(w *Window, cmd *swarm.Commands) {
	if w.Glfw.ShouldClose() {
		cmd.Exit()
	}
}

// Destroy closes the window and terminates GLFW.
func (w *Window) Destroy() {
	w.Glfw.Destroy()
	glfw.Terminate()
}

var mouseButtons = map[glfw.MouseButton]int{
	glfw.MouseButtonLeft:   swarm.MouseButtonLeft,
	glfw.MouseButtonRight:  swarm.MouseButtonRight,
	glfw.MouseButtonMiddle: swarm.MouseButtonMiddle,
}

var keyToGlfw = map[int]glfw.Key{
	swarm.KeyA:         glfw.KeyA,
	swarm.KeyB:         glfw.KeyB,
	swarm.KeyC:         glfw.KeyC,
	swarm.KeyD:         glfw.KeyD,
	swarm.KeyE:         glfw.KeyE,
	swarm.KeyF:         glfw.KeyF,
	swarm.KeyG:         glfw.KeyG,
	swarm.KeyH:         glfw.KeyH,
	swarm.KeyI:         glfw.KeyI,
	swarm.KeyJ:         glfw.KeyJ,
	swarm.KeyK:         glfw.KeyK,
	swarm.KeyL:         glfw.KeyL,
	swarm.KeyM:         glfw.KeyM,
	swarm.KeyN:         glfw.KeyN,
	swarm.KeyO:         glfw.KeyO,
	swarm.KeyP:         glfw.KeyP,
	swarm.KeyQ:         glfw.KeyQ,
	swarm.KeyR:         glfw.KeyR,
	swarm.KeyS:         glfw.KeyS,
	swarm.KeyT:         glfw.KeyT,
	swarm.KeyU:         glfw.KeyU,
	swarm.KeyV:         glfw.KeyV,
	swarm.KeyW:         glfw.KeyW,
	swarm.KeyX:         glfw.KeyX,
	swarm.KeyY:         glfw.KeyY,
	swarm.KeyZ:         glfw.KeyZ,
	swarm.Key0:         glfw.Key0,
	swarm.Key1:         glfw.Key1,
	swarm.Key2:         glfw.Key2,
	swarm.Key3:         glfw.Key3,
	swarm.Key4:         glfw.Key4,
	swarm.Key5:         glfw.Key5,
	swarm.Key6:         glfw.Key6,
	swarm.Key7:         glfw.Key7,
	swarm.Key8:         glfw.Key8,
	swarm.Key9:         glfw.Key9,
	swarm.KeySpace:     glfw.KeySpace,
	swarm.KeyEnter:     glfw.KeyEnter,
	swarm.KeyEscape:    glfw.KeyEscape,
	swarm.KeyTab:       glfw.KeyTab,
	swarm.KeyBackspace: glfw.KeyBackspace,
	swarm.KeyInsert:    glfw.KeyInsert,
	swarm.KeyDelete:    glfw.KeyDelete,
	swarm.KeyRight:     glfw.KeyRight,
	swarm.KeyLeft:      glfw.KeyLeft,
	swarm.KeyDown:      glfw.KeyDown,
	swarm.KeyUp:        glfw.KeyUp,
	swarm.KeyF1:        glfw.KeyF1,
	swarm.KeyF2:        glfw.KeyF2,
	swarm.KeyF3:        glfw.KeyF3,
	swarm.KeyF4:        glfw.KeyF4,
	swarm.KeyF5:        glfw.KeyF5,
	swarm.KeyF6:        glfw.KeyF6,
	swarm.KeyF7:        glfw.KeyF7,
	swarm.KeyF8:        glfw.KeyF8,
	swarm.KeyF9:        glfw.KeyF9,
	swarm.KeyF10:       glfw.KeyF10,
	swarm.KeyF11:       glfw.KeyF11,
	swarm.KeyF12:       glfw.KeyF12,
	swarm.KeyMinus:     glfw.KeyMinus,
	swarm.KeyEqual:     glfw.KeyEqual,
	swarm.KeyKPPlus:    glfw.KeyKPAdd,
	swarm.KeyKPMinus:   glfw.KeyKPSubtract,
	swarm.KeyShift:     glfw.KeyLeftShift,
	swarm.KeyControl:   glfw.KeyLeftControl,
	swarm.KeyLeftAlt:   glfw.KeyLeftAlt,
}
