package gpu

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed instances.wgsl
var instancesWGSL string

const cameraUniformSize = 16*4 + 4*4

// Renderer draws InstanceBuffers as camera-facing discs, one quad per instance.
type Renderer struct {
	Device *wgpu.Device

	// PointSize is the disc diameter in pixels.
	PointSize  float32
	ClearColor wgpu.Color

	pipeline  *wgpu.RenderPipeline
	cameraBuf *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	bound     *InstanceBuffers
}

func NewRenderer(device *wgpu.Device, format wgpu.TextureFormat) (*Renderer, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Instances VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: instancesWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Instances Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	cameraBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "InstancesCameraUB",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	return &Renderer{
		Device:     device,
		PointSize:  6,
		ClearColor: wgpu.Color{R: 0.06, G: 0.06, B: 0.09, A: 1},
		pipeline:   pipeline,
		cameraBuf:  cameraBuf,
	}, nil
}

// CameraUniform packs the view-projection matrix and the NDC half-size of a point.
func CameraUniform(viewProj mgl32.Mat4, pointSize float32, width, height int) []byte {
	buf := make([]byte, cameraUniformSize)
	for k, v := range viewProj {
		binary.LittleEndian.PutUint32(buf[4*k:], math.Float32bits(v))
	}
	var hx, hy float32
	if width > 0 && height > 0 {
		hx = pointSize / float32(width)
		hy = pointSize / float32(height)
	}
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(hx))
	binary.LittleEndian.PutUint32(buf[68:], math.Float32bits(hy))
	return buf
}

// Draw uploads dirty instance data and records one pass that clears view and draws
// every instance. instances may be nil for an empty set.
func (r *Renderer) Draw(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, instances *InstanceBuffers, viewProj mgl32.Mat4, width, height int) error {
	drawing := instances != nil && instances.Len() > 0
	if drawing {
		recreated, err := instances.Upload()
		if err != nil {
			return err
		}
		if recreated || r.bound != instances || r.bindGroup == nil {
			if err := r.rebind(instances); err != nil {
				return err
			}
		}
		err = writeBuffer(r.Device.GetQueue(), "Camera", r.cameraBuf, CameraUniform(viewProj, r.PointSize, width, height))
		if err != nil {
			return err
		}
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: r.ClearColor,
		}},
	})
	if drawing {
		pass.SetPipeline(r.pipeline)
		pass.SetBindGroup(0, r.bindGroup, nil)
		pass.Draw(6, uint32(instances.Len()), 0, 0)
	}
	return pass.End()
}

func (r *Renderer) rebind(instances *InstanceBuffers) error {
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	bg, err := r.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "InstancesBG",
		Layout: r.pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.cameraBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: instances.TransformBuf, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: instances.ColorBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}
	r.bindGroup = bg
	r.bound = instances
	return nil
}

func (r *Renderer) Release() {
	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	if r.cameraBuf != nil {
		r.cameraBuf.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
}
