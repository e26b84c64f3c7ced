package edit

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/swarm/rt/store"
)

func TestOpen_RequiresSingleSelection(t *testing.T) {
	st := store.NewStore(4, store.NewGenerator(1))

	_, err := Open(st.Snapshot())
	assert.ErrorIs(t, err, ErrNotSingleSelection)

	st.SetSelection(0, store.Toggle)
	st.SetSelection(1, store.Toggle)
	_, err = Open(st.Snapshot())
	assert.ErrorIs(t, err, ErrNotSingleSelection)
}

func TestOpen_SeedsFromSelection(t *testing.T) {
	st := store.NewStore(4, store.NewGenerator(1))
	set := st.SetSelection(3, store.ExclusiveOrExtend)

	s, err := Open(set)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Index)
	assert.Equal(t, set.Position(3), s.Position)
	assert.Equal(t, set.Color(3), s.Color)
	assert.False(t, s.Closed())
}

func TestSave_CommitsAndCloses(t *testing.T) {
	st := store.NewStore(3, store.NewGenerator(4))
	st.SetSelection(1, store.ExclusiveOrExtend)

	s, err := Open(st.Snapshot())
	require.NoError(t, err)
	s.Position = mgl32.Vec3{9, 8, 7}
	s.Color = mgl32.Vec3{1, 0, 0}

	set := s.Save(st)
	assert.Same(t, set, st.Snapshot())
	assert.Equal(t, mgl32.Vec3{9, 8, 7}, set.Position(1))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, set.Color(1))
	assert.True(t, set.IsSelected(1))
	assert.True(t, s.Closed())

	// saving twice does nothing
	gen := st.Generation()
	s.Save(st)
	assert.Equal(t, gen, st.Generation())
}

func TestCancel_DiscardsEdits(t *testing.T) {
	st := store.NewStore(2, store.NewGenerator(4))
	before := st.SetSelection(0, store.ExclusiveOrExtend)

	s, err := Open(before)
	require.NoError(t, err)
	s.Position = mgl32.Vec3{100, 100, 100}
	s.Cancel()

	assert.True(t, s.Closed())
	assert.Same(t, before, s.Save(st))
	assert.Equal(t, before.Position(0), st.Snapshot().Position(0))
}

func TestInvalidate(t *testing.T) {
	var nilSession *Session
	assert.True(t, nilSession.Closed())
	nilSession.Invalidate()

	st := store.NewStore(2, store.NewGenerator(4))
	s, err := Open(st.SetSelection(1, store.ExclusiveOrExtend))
	require.NoError(t, err)
	s.Invalidate()
	assert.True(t, s.Closed())
}

func TestFollows(t *testing.T) {
	st := store.NewStore(3, store.NewGenerator(2))
	s, err := Open(st.SetSelection(1, store.ExclusiveOrExtend))
	require.NoError(t, err)
	assert.True(t, s.Follows(st.Snapshot()))

	assert.False(t, s.Follows(st.SetSelection(2, store.Toggle)))
	assert.False(t, s.Follows(st.SetSelection(2, store.ExclusiveOrExtend)))
	assert.False(t, s.Follows(st.DeselectAll()))

	assert.True(t, s.Follows(st.SetSelection(1, store.ExclusiveOrExtend)))
	s.Cancel()
	assert.False(t, s.Follows(st.Snapshot()))
}
