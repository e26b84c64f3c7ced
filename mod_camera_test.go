package swarm

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testCamera() *Camera {
	return NewCamera(CameraConfig{Position: []float32{0, 0, 10}, Fov: 60}, 800, 600)
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestCamera_DefaultLooksDownNegativeZ(t *testing.T) {
	cam := testCamera()
	assertVecNear(t, mgl32.Vec3{0, 0, -1}, cam.Forward(), 1e-5)
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, cam.Right(), 1e-5)
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, cam.Up(), 1e-5)
}

func TestCamera_ScreenCenterRayIsForward(t *testing.T) {
	cam := testCamera()
	ray := cam.ScreenToWorldRay(400, 300)
	assert.Equal(t, cam.Position, ray.Origin)
	assertVecNear(t, cam.Forward(), ray.Direction, 1e-5)
}

func TestCamera_ScreenCornersMapToFrustumEdges(t *testing.T) {
	cam := testCamera()
	topLeft := cam.ScreenToWorldRay(0, 0).Direction
	assert.Less(t, topLeft.X(), float32(0))
	assert.Greater(t, topLeft.Y(), float32(0))

	bottomRight := cam.ScreenToWorldRay(800, 600).Direction
	assert.Greater(t, bottomRight.X(), float32(0))
	assert.Less(t, bottomRight.Y(), float32(0))
}

func TestCamera_RayAgreesWithProjection(t *testing.T) {
	cam := testCamera()
	cam.Yaw, cam.Pitch = 20, -10

	ray := cam.NDCToWorldRay(0.3, -0.4)
	p := ray.At(7)
	clip := cam.ViewProjection().Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())

	assert.InDelta(t, 0.3, ndc.X(), 1e-3)
	assert.InDelta(t, -0.4, ndc.Y(), 1e-3)
}

func TestCamera_ZeroViewportFallsBackToForward(t *testing.T) {
	cam := testCamera()
	cam.Width, cam.Height = 0, 0
	assertVecNear(t, cam.Forward(), cam.ScreenToWorldRay(12, 34).Direction, 1e-5)
	assert.Equal(t, float32(1), cam.Aspect())
}

func TestOrbitCameraSystem_KeepsDistanceToTarget(t *testing.T) {
	cam := testCamera()
	orbit := &orbitCamera{sensitivity: 0.5}
	input := &Input{}

	OrbitCameraSystem(cam, input, orbit)
	assert.Equal(t, float32(0), cam.Yaw, "no rotation without the right button")

	input.Pressed[MouseButtonRight] = true
	input.MouseDeltaX = 40
	input.MouseDeltaY = 500
	OrbitCameraSystem(cam, input, orbit)

	assert.Equal(t, float32(20), cam.Yaw)
	assert.Equal(t, float32(-89), cam.Pitch)
	assert.InDelta(t, 10, cam.Position.Len(), 1e-4)
	assertVecNear(t, cam.Position.Mul(-1).Normalize(), cam.Forward(), 1e-4)
}

func TestCameraViewportSystem(t *testing.T) {
	cam := testCamera()
	cameraViewportSystem(cam, &Input{})
	assert.Equal(t, 800, cam.Width)

	cameraViewportSystem(cam, &Input{WindowWidth: 1024, WindowHeight: 768})
	assert.Equal(t, 1024, cam.Width)
	assert.Equal(t, 768, cam.Height)
}
