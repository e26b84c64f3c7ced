package edit

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/swarm/rt/store"
)

// ErrNotSingleSelection is returned by Open unless exactly one instance is selected.
var ErrNotSingleSelection = errors.New("edit requires exactly one selected instance")

// Session is a working copy of one instance's position and color.
// Index refers to the snapshot the session was opened from; deletion must Invalidate it.
type Session struct {
	ID       uuid.UUID
	Index    int
	Position mgl32.Vec3
	Color    mgl32.Vec3

	closed bool
}

// Open seeds a session from the single selected instance of set.
func Open(set *store.InstanceSet) (*Session, error) {
	if n := store.SelectedCount(set); n != 1 {
		return nil, fmt.Errorf("%w: %d selected", ErrNotSingleSelection, n)
	}
	idx, _ := store.FirstSelectedIndex(set)
	return &Session{
		ID:       uuid.New(),
		Index:    idx,
		Position: set.Position(idx),
		Color:    set.Color(idx),
	}, nil
}

func (s *Session) Closed() bool { return s == nil || s.closed }

// Follows reports whether set still selects exactly the session's instance and nothing else.
func (s *Session) Follows(set *store.InstanceSet) bool {
	if s.Closed() || store.SelectedCount(set) != 1 {
		return false
	}
	return set.IsSelected(s.Index)
}

// Save writes the working copy back through st and closes the session.
// A closed session leaves the store alone and returns its current snapshot.
func (s *Session) Save(st *store.Store) *store.InstanceSet {
	if s.Closed() {
		return st.Snapshot()
	}
	s.closed = true
	return st.EditOne(s.Index, s.Position, s.Color)
}

// Cancel discards the working copy.
func (s *Session) Cancel() {
	if s != nil {
		s.closed = true
	}
}

// Invalidate closes the session because its index no longer names the same instance.
func (s *Session) Invalidate() {
	s.Cancel()
}
