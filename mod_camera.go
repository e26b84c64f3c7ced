package swarm

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/swarm/rt/picking"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a Y-up perspective camera. Yaw and Pitch are in degrees; yaw 0 looks down -Z.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Fov      float32
	Near     float32
	Far      float32

	Width, Height int
}

func NewCamera(cfg CameraConfig, width, height int) *Camera {
	fov := cfg.Fov
	if fov <= 0 {
		fov = 60
	}
	return &Camera{
		Position: cfg.PositionVec(),
		Yaw:      cfg.Yaw,
		Pitch:    clampPitch(cfg.Pitch),
		Fov:      fov,
		Near:     0.1,
		Far:      1000,
		Width:    width,
		Height:   height,
	}
}

func clampPitch(p float32) float32 {
	if p > 89.0 {
		return 89.0
	}
	if p < -89.0 {
		return -89.0
	}
	return p
}

func (c *Camera) Forward() mgl32.Vec3 {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)
	return mgl32.Vec3{
		math32.Sin(yawRad) * math32.Cos(pitchRad),
		math32.Sin(pitchRad),
		-math32.Cos(yawRad) * math32.Cos(pitchRad),
	}.Normalize()
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(worldUp).Normalize()
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward())
}

func (c *Camera) Aspect() float32 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return float32(c.Width) / float32(c.Height)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), worldUp)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect(), c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// NDCToWorldRay turns normalized device coordinates (-1..1, +Y up) into a world-space ray
// starting at the camera position.
func (c *Camera) NDCToWorldRay(nx, ny float32) picking.Ray {
	forward := c.Forward()
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)

	tanHalfFov := math32.Tan(mgl32.DegToRad(c.Fov) / 2.0)
	dir := forward.
		Add(right.Mul(nx * c.Aspect() * tanHalfFov)).
		Add(up.Mul(ny * tanHalfFov))

	return picking.Ray{Origin: c.Position, Direction: dir.Normalize()}
}

// ScreenToWorldRay converts window pixel coordinates (origin top-left) into a world ray.
func (c *Camera) ScreenToWorldRay(x, y float64) picking.Ray {
	if c.Width <= 0 || c.Height <= 0 {
		return c.NDCToWorldRay(0, 0)
	}
	nx := (2.0*float32(x))/float32(c.Width) - 1.0
	ny := 1.0 - (2.0*float32(y))/float32(c.Height)
	return c.NDCToWorldRay(nx, ny)
}

// CameraModule installs the Camera resource and keeps its viewport in step with the window.
type CameraModule struct {
	Config CameraConfig
	Width  int
	Height int
}

func (m CameraModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewCamera(m.Config, m.Width, m.Height))
	app.UseSystem(
		System(cameraViewportSystem).
			InStage(Prelude),
	)
}

func cameraViewportSystem(camera *Camera, input *Input) {
	if input.WindowWidth > 0 && input.WindowHeight > 0 {
		camera.Width, camera.Height = input.WindowWidth, input.WindowHeight
	}
}

// OrbitCameraModule rotates the Camera around Target while the right mouse button is held.
type OrbitCameraModule struct {
	Target      mgl32.Vec3
	Sensitivity float32
}

type orbitCamera struct {
	target      mgl32.Vec3
	sensitivity float32
}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	sensitivity := m.Sensitivity
	if sensitivity == 0 {
		sensitivity = 0.2
	}
	cmd.AddResources(&orbitCamera{target: m.Target, sensitivity: sensitivity})
	app.UseSystem(
		System(OrbitCameraSystem).
			InStage(Update),
	)
}

func OrbitCameraSystem(camera *Camera, input *Input, orbit *orbitCamera) {
	if !input.Pressed[MouseButtonRight] {
		return
	}
	if input.MouseDeltaX == 0 && input.MouseDeltaY == 0 {
		return
	}

	dist := camera.Position.Sub(orbit.target).Len()
	camera.Yaw += float32(input.MouseDeltaX) * orbit.sensitivity
	camera.Pitch = clampPitch(camera.Pitch - float32(input.MouseDeltaY)*orbit.sensitivity)
	camera.Position = orbit.target.Sub(camera.Forward().Mul(dist))
}
