package swarm

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
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent is one pointer action in window pixel coordinates. A zero Button means the
// left mouse button. When Resolved is set
// the delivering layer already hit-tested the event and Instance holds the index under
// the pointer, or -1 for empty space.
type PointerEvent struct {
	Kind     PointerKind
	X, Y     float64
	Button   int
	Shift    bool
	Instance int
	Resolved bool
}

type InputModule struct{}

type Input struct {
	Pressed [256]bool

	JustPressed  [256]bool
	JustReleased [256]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64

	WindowWidth, WindowHeight int

	// Events are drained in arrival order by the pointer systems and cleared at the end of the frame.
	Events []PointerEvent
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputFrameEndSystem).
			InStage(Finale),
	)
}

func (input *Input) SetKey(key int, down bool) {
	if key < 0 || key >= len(input.Pressed) {
		return
	}
	if down {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
	} else if input.Pressed[key] {
		input.JustReleased[key] = true
	}
	input.Pressed[key] = down
}

func (input *Input) PressKey(key int)   { input.SetKey(key, true) }
func (input *Input) ReleaseKey(key int) { input.SetKey(key, false) }

func (input *Input) ShiftHeld() bool { return input.Pressed[KeyShift] }

// PushPointer queues ev and tracks cursor position and button state from it.
func (input *Input) PushPointer(ev PointerEvent) {
	if ev.Button == 0 {
		ev.Button = MouseButtonLeft
	}
	if !ev.Resolved {
		ev.Instance = -1
	}
	if ev.Kind == PointerMove {
		input.MouseDeltaX += ev.X - input.MouseX
		input.MouseDeltaY += ev.Y - input.MouseY
	}
	input.MouseX, input.MouseY = ev.X, ev.Y

	switch ev.Kind {
	case PointerDown:
		input.SetKey(ev.Button, true)
	case PointerUp, PointerCancel:
		input.SetKey(ev.Button, false)
	}
	input.Events = append(input.Events, ev)
}

func inputFrameEndSystem(input *Input) {
	input.Events = input.Events[:0]
	input.JustPressed = [256]bool{}
	input.JustReleased = [256]bool{}
	input.MouseDeltaX = 0
	input.MouseDeltaY = 0
}
