package picking

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ParallelEpsilon is the smallest |dir·normal| treated as a real intersection.
const ParallelEpsilon = 1e-6

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point Origin + t*Direction.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

type Plane struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
}

// DragPlaneFor builds the plane through anchor that faces the camera.
// The plane is meant to be computed once at drag start and kept for the whole drag.
func DragPlaneFor(anchor, cameraForward mgl32.Vec3) Plane {
	normal := mgl32.Vec3{0, 0, 1}
	if cameraForward.Len() > ParallelEpsilon {
		normal = cameraForward.Mul(-1.0).Normalize()
	}
	return Plane{Point: anchor, Normal: normal}
}

// IntersectRayWithPlane returns where ray meets plane, or false if they are parallel.
func IntersectRayWithPlane(ray Ray, plane Plane) (mgl32.Vec3, bool) {
	denom := ray.Direction.Dot(plane.Normal)
	if math32.Abs(denom) < ParallelEpsilon {
		return mgl32.Vec3{}, false
	}
	t := plane.Point.Sub(ray.Origin).Dot(plane.Normal) / denom
	return ray.At(t), true
}

// Displacement is the vector between the plane hits of two rays.
func Displacement(plane Plane, from, to Ray) (mgl32.Vec3, bool) {
	a, ok := IntersectRayWithPlane(from, plane)
	if !ok {
		return mgl32.Vec3{}, false
	}
	b, ok := IntersectRayWithPlane(to, plane)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return b.Sub(a), true
}

// PickInstance returns the index of the nearest instance whose bounding sphere of the
// given radius is hit by ray in front of its origin. positions is a flattened xyz array.
func PickInstance(positions []float32, ray Ray, radius float32) (int, bool) {
	dirLen := ray.Direction.Len()
	if dirLen < ParallelEpsilon || radius <= 0 {
		return -1, false
	}
	dir := ray.Direction.Mul(1 / dirLen)
	r2 := radius * radius

	best := -1
	bestT := float32(math.MaxFloat32)
	for i := 0; i+2 < len(positions); i += 3 {
		t, ok := hitSphere(ray.Origin, dir, mgl32.Vec3{positions[i], positions[i+1], positions[i+2]}, r2)
		if !ok || t >= bestT {
			continue
		}
		bestT = t
		best = i / 3
	}
	return best, best >= 0
}

// hitSphere returns the first non-negative t at which origin+t*dir enters (or, from
// inside, leaves) the sphere. dir must be normalized.
func hitSphere(origin, dir, center mgl32.Vec3, r2 float32) (float32, bool) {
	oc := center.Sub(origin)
	tc := oc.Dot(dir)
	d2 := oc.Dot(oc) - tc*tc
	if d2 > r2 {
		return 0, false
	}
	th := math32.Sqrt(r2 - d2)
	t := tc - th
	if t < 0 {
		t = tc + th
	}
	return t, t >= 0
}
