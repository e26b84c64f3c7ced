package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/swarm"
)

// scriptStep runs at the start of one frame and queues the input for it.
type scriptStep func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera)

// demoScript selects an instance, drags it, extends the selection, adds a batch,
// deletes the selection and finally edits one instance.
func demoScript() []scriptStep {
	var anchor mgl32.Vec3
	steps := []scriptStep{
		func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
			if editor.Count() == 0 {
				return
			}
			anchor = editor.Snapshot().Position(0)
			x, y := project(camera, anchor)
			input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerDown, X: x, Y: y, Resolved: true, Instance: 0})
		},
	}
	for i := 1; i <= 10; i++ {
		step := float32(i) * 0.3
		steps = append(steps, func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
			x, y := project(camera, anchor.Add(mgl32.Vec3{step, step / 2, 0}))
			input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerMove, X: x, Y: y})
		})
	}
	steps = append(steps,
		func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
			input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerUp, X: input.MouseX, Y: input.MouseY})
			if editor.Count() > 1 {
				input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerDown, Shift: true, Resolved: true, Instance: 1})
				input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerUp})
			}
		},
		tapKey(swarm.KeyEqual),
		releaseKey(swarm.KeyEqual),
		tapKey(swarm.KeyDelete),
		releaseKey(swarm.KeyDelete),
		func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
			if editor.Count() == 0 {
				return
			}
			input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerDown, Resolved: true, Instance: 0})
			input.PushPointer(swarm.PointerEvent{Kind: swarm.PointerUp})
			input.PressKey(swarm.KeyE)
		},
		func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
			input.ReleaseKey(swarm.KeyE)
			if s := editor.Edit(); s != nil {
				editor.SaveEdit(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
			}
		},
	)
	return steps
}

func tapKey(key int) scriptStep {
	return func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
		input.PressKey(key)
	}
}

func releaseKey(key int) scriptStep {
	return func(input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera) {
		input.ReleaseKey(key)
	}
}

func project(camera *swarm.Camera, p mgl32.Vec3) (float64, float64) {
	clip := camera.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() == 0 {
		return 0, 0
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	return float64((ndc.X() + 1) / 2 * float32(camera.Width)),
		float64((1 - ndc.Y()) / 2 * float32(camera.Height))
}

// scriptStage runs right after Prelude, so steps see this frame's time and viewport and
// their events reach the PreUpdate pointer systems.
var scriptStage = swarm.Stage{Name: "Script"}

// ScriptModule plays steps, one per frame, and exits once they run out.
type ScriptModule struct {
	Steps []scriptStep
}

type scriptState struct {
	steps []scriptStep
	next  int
}

func (m ScriptModule) Install(app *swarm.App, cmd *swarm.Commands) {
	cmd.AddResources(&scriptState{steps: m.Steps})
	app.UseStage(scriptStage, swarm.AfterStage(swarm.Prelude))
	app.UseSystem(
		swarm.System(scriptSystem).
			InStage(scriptStage),
	)
}

func scriptSystem(state *scriptState, input *swarm.Input, editor *swarm.InstanceEditor, camera *swarm.Camera, cmd *swarm.Commands) {
	if state.next >= len(state.steps) {
		cmd.Exit()
		return
	}
	state.steps[state.next](input, editor, camera)
	state.next++
}
