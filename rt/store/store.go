package store

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Store owns the canonical InstanceSet. Every mutating method swaps in a new snapshot
// and returns it; snapshots handed out earlier are never written to.
type Store struct {
	// CheckInvariants validates each new snapshot and panics on violation.
	CheckInvariants bool

	current    *InstanceSet
	gen        *Generator
	generation uint64
}

func NewStore(n int, gen *Generator) *Store {
	return &Store{
		current: Create(n, gen),
		gen:     gen,
	}
}

// NewStoreFrom adopts an existing snapshot as the canonical value.
func NewStoreFrom(set *InstanceSet, gen *Generator) *Store {
	if set == nil {
		set = Create(0, gen)
	}
	return &Store{current: set, gen: gen}
}

func (s *Store) Snapshot() *InstanceSet { return s.current }

// Generation increases by one on every committed mutation.
func (s *Store) Generation() uint64 { return s.generation }

func (s *Store) Generator() *Generator { return s.gen }

func (s *Store) commit(next *InstanceSet) *InstanceSet {
	if s.CheckInvariants {
		if err := next.Validate(); err != nil {
			panic(err)
		}
	}
	s.current = next
	s.generation++
	return next
}

func (s *Store) AddInstances(n int) *InstanceSet {
	if n <= 0 {
		return s.current
	}
	return s.commit(AddInstances(s.current, n, s.gen))
}

func (s *Store) SetSelection(index int, mode SelectionMode) *InstanceSet {
	if !s.current.InRange(index) {
		return s.current
	}
	return s.commit(SetSelection(s.current, index, mode))
}

func (s *Store) DeselectAll() *InstanceSet {
	return s.commit(DeselectAll(s.current))
}

func (s *Store) SelectAll() *InstanceSet {
	return s.commit(SelectAll(s.current))
}

func (s *Store) MoveSelected(delta mgl32.Vec3) *InstanceSet {
	return s.commit(MoveSelected(s.current, delta))
}

func (s *Store) EditOne(index int, position, color mgl32.Vec3) *InstanceSet {
	if !s.current.InRange(index) {
		return s.current
	}
	return s.commit(EditOne(s.current, index, position, color))
}

func (s *Store) DeleteSelected() *InstanceSet {
	return s.commit(DeleteSelected(s.current))
}

func (s *Store) Count() int { return s.current.Count }

func (s *Store) SelectedCount() int { return SelectedCount(s.current) }

func (s *Store) FirstSelectedIndex() (int, bool) { return FirstSelectedIndex(s.current) }
