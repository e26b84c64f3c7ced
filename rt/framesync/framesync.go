package framesync

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/swarm/rt/store"
)

// DefaultHighlight is drawn instead of the stored color of selected instances.
var DefaultHighlight = mgl32.Vec3{1, 1, 0}

// InstancedMesh is the render primitive: one transform slot and one color slot per instance.
type InstancedMesh interface {
	Len() int
	SetTransformAt(i int, m mgl32.Mat4)
	SetColorAt(i int, c mgl32.Vec3)
	MarkTransformsDirty()
	MarkColorsDirty()
}

// Releaser is implemented by meshes that hold resources beyond Go memory.
type Releaser interface {
	Release()
}

// MeshFactory instantiates a render primitive with count slots.
type MeshFactory func(count int) InstancedMesh

// Stats describes what one Sync call did.
type Stats struct {
	Written   int
	Selected  int
	Recreated bool
}

// Syncer copies the latest snapshot into the render primitive, once per frame.
type Syncer struct {
	Highlight mgl32.Vec3

	factory MeshFactory
	mesh    InstancedMesh
}

func NewSyncer(factory MeshFactory) *Syncer {
	if factory == nil {
		factory = NewBufferMeshFactory()
	}
	return &Syncer{
		Highlight: DefaultHighlight,
		factory:   factory,
	}
}

// Mesh returns the current primitive, nil when there are no instances.
func (s *Syncer) Mesh() InstancedMesh { return s.mesh }

// Sync writes one translation and one color per instance and marks both buffers dirty once.
// An empty set releases the primitive and touches nothing.
func (s *Syncer) Sync(set *store.InstanceSet) Stats {
	var stats Stats
	if set == nil || set.Count == 0 {
		s.release()
		return stats
	}

	if s.mesh == nil || s.mesh.Len() != set.Count {
		s.release()
		s.mesh = s.factory(set.Count)
		stats.Recreated = true
	}

	for i := 0; i < set.Count; i++ {
		p := set.Positions[3*i : 3*i+3]
		s.mesh.SetTransformAt(i, mgl32.Translate3D(p[0], p[1], p[2]))
		if set.Selected[i] {
			s.mesh.SetColorAt(i, s.Highlight)
			stats.Selected++
		} else {
			s.mesh.SetColorAt(i, set.Color(i))
		}
	}
	s.mesh.MarkTransformsDirty()
	s.mesh.MarkColorsDirty()
	stats.Written = set.Count
	return stats
}

func (s *Syncer) release() {
	if s.mesh == nil {
		return
	}
	if r, ok := s.mesh.(Releaser); ok {
		r.Release()
	}
	s.mesh = nil
}
