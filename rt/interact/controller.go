package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/swarm/rt/picking"
	"github.com/gekko3d/swarm/rt/store"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragSession lives from a pointer-down that leaves something selected until pointer-up.
type DragSession struct {
	ID          uuid.UUID
	Anchor      int
	AnchorStart mgl32.Vec3
	Plane       picking.Plane
	LastHit     mgl32.Vec3
}

// Controller turns pointer events into selection changes and drag displacements.
// It only holds indices and the drag session; all mutations go through the Store.
type Controller struct {
	store *store.Store
	state State
	drag  DragSession
}

func NewController(st *store.Store) *Controller {
	return &Controller{store: st, state: Idle}
}

func (c *Controller) State() State { return c.state }

// Session returns a copy of the running drag session.
func (c *Controller) Session() (DragSession, bool) {
	if c.state != Dragging {
		return DragSession{}, false
	}
	return c.drag, true
}

// PointerDown handles a press on the instance at index. It reports whether a drag started.
// Out-of-range indices are ignored: hit-testing may race with a deletion.
func (c *Controller) PointerDown(index int, shift bool, cameraForward mgl32.Vec3) bool {
	if c.state == Dragging {
		c.endDrag()
	}

	set := c.store.Snapshot()
	if !set.InRange(index) {
		return false
	}

	mode := store.ExclusiveOrExtend
	if shift {
		mode = store.Toggle
	}
	set = c.store.SetSelection(index, mode)
	if store.SelectedCount(set) == 0 {
		return false
	}

	start := set.Position(index)
	c.drag = DragSession{
		ID:          uuid.New(),
		Anchor:      index,
		AnchorStart: start,
		Plane:       picking.DragPlaneFor(start, cameraForward),
		LastHit:     start,
	}
	c.state = Dragging
	return true
}

// PointerMove moves the selection by the plane-space delta since the previous move.
// It returns false when there is no drag or the ray is parallel to the drag plane.
func (c *Controller) PointerMove(ray picking.Ray) bool {
	if c.state != Dragging {
		return false
	}
	hit, ok := picking.IntersectRayWithPlane(ray, c.drag.Plane)
	if !ok {
		return false
	}
	delta := hit.Sub(c.drag.LastHit)
	c.store.MoveSelected(delta)
	c.drag.LastHit = hit
	return true
}

// PointerUp ends the drag. Moves were applied incrementally so there is nothing to commit.
func (c *Controller) PointerUp() {
	c.endDrag()
}

// Cancel is PointerUp for event sources that report a lost pointer capture.
func (c *Controller) Cancel() {
	c.endDrag()
}

func (c *Controller) endDrag() {
	c.drag = DragSession{}
	c.state = Idle
}
