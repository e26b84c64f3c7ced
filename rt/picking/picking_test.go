package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestDragPlaneFor_FacesCamera(t *testing.T) {
	anchor := mgl32.Vec3{1, 2, 3}
	plane := DragPlaneFor(anchor, mgl32.Vec3{0, 0, -2})

	assert.Equal(t, anchor, plane.Point)
	vecNear(t, mgl32.Vec3{0, 0, 1}, plane.Normal)
}

func TestDragPlaneFor_ZeroForwardFallsBack(t *testing.T) {
	plane := DragPlaneFor(mgl32.Vec3{}, mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, plane.Normal)
}

func TestIntersectRayWithPlane(t *testing.T) {
	plane := Plane{Point: mgl32.Vec3{0, 0, -5}, Normal: mgl32.Vec3{0, 0, 1}}
	ray := Ray{Origin: mgl32.Vec3{1, 1, 0}, Direction: mgl32.Vec3{0, 0, -1}}

	hit, ok := IntersectRayWithPlane(ray, plane)
	require.True(t, ok)
	vecNear(t, mgl32.Vec3{1, 1, -5}, hit)
}

func TestIntersectRayWithPlane_Oblique(t *testing.T) {
	plane := Plane{Point: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}}
	ray := Ray{Origin: mgl32.Vec3{0, 4, 0}, Direction: mgl32.Vec3{1, -1, 0}.Normalize()}

	hit, ok := IntersectRayWithPlane(ray, plane)
	require.True(t, ok)
	vecNear(t, mgl32.Vec3{4, 0, 0}, hit)
}

func TestIntersectRayWithPlane_Parallel(t *testing.T) {
	plane := Plane{Point: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}}
	ray := Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{1, 0, 0}}

	_, ok := IntersectRayWithPlane(ray, plane)
	assert.False(t, ok)
}

func TestDisplacement(t *testing.T) {
	plane := Plane{Point: mgl32.Vec3{0, 0, -10}, Normal: mgl32.Vec3{0, 0, 1}}
	from := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{0, 0, -1}}
	to := Ray{Origin: mgl32.Vec3{2, -1, 0}, Direction: mgl32.Vec3{0, 0, -1}}

	d, ok := Displacement(plane, from, to)
	require.True(t, ok)
	vecNear(t, mgl32.Vec3{2, -1, 0}, d)

	_, ok = Displacement(plane, from, Ray{Direction: mgl32.Vec3{1, 0, 0}})
	assert.False(t, ok)
}

func TestPickInstance_Nearest(t *testing.T) {
	positions := []float32{
		0, 0, -10,
		0, 0, -5,
		3, 0, -5,
	}
	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{0, 0, -1}}

	idx, ok := PickInstance(positions, ray, 0.5)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestPickInstance_MissAndBehind(t *testing.T) {
	positions := []float32{0, 0, 5}
	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{0, 0, -1}}

	_, ok := PickInstance(positions, ray, 0.5)
	assert.False(t, ok)

	_, ok = PickInstance(nil, ray, 0.5)
	assert.False(t, ok)
}
