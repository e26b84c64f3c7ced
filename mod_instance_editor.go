package swarm

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/swarm/rt/edit"
	"github.com/gekko3d/swarm/rt/framesync"
	"github.com/gekko3d/swarm/rt/interact"
	"github.com/gekko3d/swarm/rt/picking"
	"github.com/gekko3d/swarm/rt/store"
)

// InstanceEditor is the command surface of the instance engine. It owns the canonical
// store, the pointer state machine, the open edit session and the frame syncer.
// Every command returns the snapshot the caller should redraw its controls from.
type InstanceEditor struct {
	store      *store.Store
	controller *interact.Controller
	session    *edit.Session
	syncer     *framesync.Syncer

	PickRadius float32
	AddBatch   int

	log      Logger
	lastSync framesync.Stats

	// pick index for one snapshot; snapshots are immutable so pointer identity is enough
	grid     *picking.Grid
	gridSnap *store.InstanceSet
}

func NewInstanceEditor(cfg InstanceConfig, factory framesync.MeshFactory, log Logger) *InstanceEditor {
	if log == nil {
		log = NewNopLogger()
	}
	gen := store.NewGenerator(cfg.Seed)
	if cfg.Side > 0 {
		gen.Side = cfg.Side
	}
	if cfg.Saturation > 0 {
		gen.Saturation = cfg.Saturation
	}
	if cfg.Lightness > 0 {
		gen.Lightness = cfg.Lightness
	}

	st := store.NewStore(cfg.Initial, gen)
	st.CheckInvariants = cfg.CheckInvariants

	syncer := framesync.NewSyncer(factory)
	syncer.Highlight = cfg.HighlightColor()

	radius := cfg.PickRadius
	if radius <= 0 {
		radius = 0.25
	}
	return &InstanceEditor{
		store:      st,
		controller: interact.NewController(st),
		syncer:     syncer,
		PickRadius: radius,
		AddBatch:   cfg.AddBatch,
		log:        log,
	}
}

func (e *InstanceEditor) Store() *store.Store { return e.store }
func (e *InstanceEditor) Controller() *interact.Controller { return e.controller }
func (e *InstanceEditor) Syncer() *framesync.Syncer { return e.syncer }
func (e *InstanceEditor) Snapshot() *store.InstanceSet { return e.store.Snapshot() }
func (e *InstanceEditor) Count() int { return e.store.Count() }
func (e *InstanceEditor) SelectedCount() int { return e.store.SelectedCount() }
func (e *InstanceEditor) FirstSelectedIndex() (int, bool) { return e.store.FirstSelectedIndex() }
func (e *InstanceEditor) LastSync() framesync.Stats { return e.lastSync }
func (e *InstanceEditor) DragState() interact.State { return e.controller.State() }

// Edit returns the open edit session, or nil.
func (e *InstanceEditor) Edit() *edit.Session {
	if e.session.Closed() {
		return nil
	}
	return e.session
}

func (e *InstanceEditor) AddInstances(n int) *store.InstanceSet {
	if n <= 0 {
		return e.store.Snapshot()
	}
	set := e.store.AddInstances(n)
	e.log.Debugf("added %d instances, count=%d", n, set.Count)
	return set
}

// DeleteSelected compacts the set and closes the edit session, whose index may now
// name a different instance.
func (e *InstanceEditor) DeleteSelected() *store.InstanceSet {
	if e.controller.State() == interact.Dragging {
		e.controller.Cancel()
	}
	if s := e.Edit(); s != nil {
		e.log.Debugf("edit session %s invalidated by delete", s.ID)
		s.Invalidate()
	}
	before := e.store.Count()
	set := e.store.DeleteSelected()
	e.log.Debugf("deleted %d instances, count=%d", before-set.Count, set.Count)
	return set
}

func (e *InstanceEditor) DeselectAll() *store.InstanceSet {
	set := e.store.DeselectAll()
	e.closeStaleEdit(set)
	return set
}

func (e *InstanceEditor) SelectAll() *store.InstanceSet {
	set := e.store.SelectAll()
	e.closeStaleEdit(set)
	return set
}

// closeStaleEdit cancels the edit session once set no longer selects only its instance.
func (e *InstanceEditor) closeStaleEdit(set *store.InstanceSet) {
	s := e.Edit()
	if s == nil || s.Follows(set) {
		return
	}
	s.Cancel()
	e.log.Debugf("edit session %s closed: selection changed", s.ID)
}

// OpenEdit starts an edit session on the single selected instance, replacing any open one.
func (e *InstanceEditor) OpenEdit() (*edit.Session, error) {
	s, err := edit.Open(e.store.Snapshot())
	if err != nil {
		e.log.Warnf("open edit: %v", err)
		return nil, err
	}
	e.session.Cancel()
	e.session = s
	e.log.Debugf("edit session %s opened on instance %d", s.ID, s.Index)
	return s, nil
}

// SaveEdit commits position and color through the open session and closes it.
// Without an open session it changes nothing.
func (e *InstanceEditor) SaveEdit(position, color mgl32.Vec3) *store.InstanceSet {
	s := e.Edit()
	if s == nil {
		e.log.Debugf("save edit ignored: no open session")
		return e.store.Snapshot()
	}
	s.Position = position
	s.Color = color
	set := s.Save(e.store)
	e.log.Debugf("edit session %s saved instance %d", s.ID, s.Index)
	return set
}

func (e *InstanceEditor) CancelEdit() {
	if s := e.Edit(); s != nil {
		s.Cancel()
		e.log.Debugf("edit session %s cancelled", s.ID)
	}
}

// Pick returns the instance nearest along ray, if any.
func (e *InstanceEditor) Pick(ray picking.Ray) (int, bool) {
	set := e.store.Snapshot()
	if e.grid == nil || e.gridSnap != set || e.grid.Radius() != e.PickRadius {
		e.grid = picking.NewGrid(set.Positions, e.PickRadius, 0)
		e.gridSnap = set
	}
	return e.grid.PickRay(ray)
}

// HandlePointer feeds one left-button pointer event to the state machine.
func (e *InstanceEditor) HandlePointer(ev PointerEvent, camera *Camera) {
	switch ev.Kind {
	case PointerDown:
		index := ev.Instance
		if !ev.Resolved {
			var ok bool
			if index, ok = e.Pick(camera.ScreenToWorldRay(ev.X, ev.Y)); !ok {
				// empty space belongs to the camera
				return
			}
		}
		if index < 0 {
			return
		}
		started := e.controller.PointerDown(index, ev.Shift, camera.Forward())
		e.closeStaleEdit(e.store.Snapshot())
		if started {
			drag, _ := e.controller.Session()
			e.log.Debugf("drag %s started on instance %d, %d selected", drag.ID, drag.Anchor, e.store.SelectedCount())
		}
	case PointerMove:
		e.controller.PointerMove(camera.ScreenToWorldRay(ev.X, ev.Y))
	case PointerUp, PointerCancel:
		if drag, ok := e.controller.Session(); ok {
			e.log.Debugf("drag %s ended (%s)", drag.ID, ev.Kind)
		}
		if ev.Kind == PointerUp {
			e.controller.PointerUp()
		} else {
			e.controller.Cancel()
		}
	}
}

// Sync pushes the current snapshot into the render primitive.
func (e *InstanceEditor) Sync() framesync.Stats {
	e.lastSync = e.syncer.Sync(e.store.Snapshot())
	return e.lastSync
}

// InstanceEditorModule installs the InstanceEditor resource and its systems.
type InstanceEditorModule struct {
	Config InstanceConfig
	// Factory builds the render primitive; nil keeps instances in CPU buffers.
	Factory framesync.MeshFactory
}

func (m InstanceEditorModule) Install(app *App, cmd *Commands) {
	editor := NewInstanceEditor(m.Config, m.Factory, cmd.Logger())
	cmd.AddResources(editor)
	cmd.Logger().Infof("instance editor ready: %d instances", editor.Count())

	app.UseSystem(
		System(instancePointerSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(instanceHotkeySystem).
			InStage(Update),
	)
	app.UseSystem(
		System(instanceFrameSyncSystem).
			InStage(PreRender),
	)
}

func instancePointerSystem(editor *InstanceEditor, input *Input, camera *Camera) {
	for _, ev := range input.Events {
		if ev.Button != MouseButtonLeft && ev.Kind != PointerMove {
			continue
		}
		editor.HandlePointer(ev, camera)
	}
}

func instanceHotkeySystem(editor *InstanceEditor, input *Input) {
	if input.JustPressed[KeyDelete] {
		editor.DeleteSelected()
	}
	if input.JustPressed[KeyEscape] {
		editor.DeselectAll()
		editor.CancelEdit()
	}
	if input.JustPressed[KeyA] && input.Pressed[KeyControl] {
		editor.SelectAll()
	}
	if input.JustPressed[KeyEqual] || input.JustPressed[KeyKPPlus] {
		editor.AddInstances(editor.AddBatch)
	}
	if input.JustPressed[KeyE] {
		if _, err := editor.OpenEdit(); err != nil && !errors.Is(err, edit.ErrNotSingleSelection) {
			editor.log.Errorf("open edit: %v", err)
		}
	}
}

func instanceFrameSyncSystem(editor *InstanceEditor) {
	editor.Sync()
}
