package platform

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"

	"github.com/gekko3d/swarm"
	"github.com/gekko3d/swarm/rt/framesync"
	"github.com/gekko3d/swarm/rt/gpu"
)

// GPU holds the WebGPU device bound to the Window surface.
type GPU struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Renderer *gpu.Renderer
}

// Factory routes the frame sync into GPU instance buffers on this device.
func (g *GPU) Factory() framesync.MeshFactory {
	return gpu.Factory(g.Device)
}

// GPUModule creates the device and renders the instance editor's mesh every frame.
// WindowModule must be installed first.
type GPUModule struct {
	PointSize float32
}

func (m GPUModule) Install(app *swarm.App, cmd *swarm.Commands) {
	w, ok := swarm.Resource[Window](app)
	if !ok {
		panic("platform.GPUModule requires platform.WindowModule")
	}
	g, err := newGPU(w)
	if err != nil {
		panic(fmt.Sprintf("webgpu init: %v", err))
	}
	if m.PointSize > 0 {
		g.Renderer.PointSize = m.PointSize
	}
	cmd.AddResources(g)

	app.UseSystem(
		swarm.System(gpuRenderSystem).
			InStage(swarm.Render),
	)
}

func newGPU(w *Window) (*GPU, error) {
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(w.Glfw))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, err
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, err
	}

	width, height := w.Glfw.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	renderer, err := gpu.NewRenderer(device, config.Format)
	if err != nil {
		return nil, err
	}

	return &GPU{
		Instance: instance,
		Surface:  surface,
		Adapter:  adapter,
		Device:   device,
		Queue:    device.GetQueue(),
		Config:   config,
		Renderer: renderer,
	}, nil
}

func (g *GPU) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if uint32(width) == g.Config.Width && uint32(height) == g.Config.Height {
		return
	}
	g.Config.Width = uint32(width)
	g.Config.Height = uint32(height)
	g.Surface.Configure(g.Adapter, g.Device, g.Config)
}

func gpuRenderSystem(g *GPU, w *Window, editor *swarm.InstanceEditor, camera *swarm.Camera, cmd *swarm.Commands) {
	g.resize(w.Glfw.GetFramebufferSize())
	if err := g.render(editor, camera); err != nil {
		cmd.Logger().Errorf("render: %v", err)
	}
}

func (g *GPU) render(editor *swarm.InstanceEditor, camera *swarm.Camera) error {
	next, err := g.Surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := g.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	instances, _ := editor.Syncer().Mesh().(*gpu.InstanceBuffers)
	err = g.Renderer.Draw(encoder, view, instances, camera.ViewProjection(), camera.Width, camera.Height)
	if err != nil {
		return err
	}

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuf.Release()

	g.Queue.Submit(cmdBuf)
	g.Surface.Present()
	return nil
}

func (g *GPU) Release() {
	g.Renderer.Release()
	g.Device.Release()
	g.Adapter.Release()
	g.Surface.Release()
	g.Instance.Release()
}
