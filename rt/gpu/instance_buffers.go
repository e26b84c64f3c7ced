package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/swarm/rt/framesync"
)

const (
	transformStride = 16 * 4
	// colors are padded to vec4 for storage buffer alignment
	colorStride = 4 * 4
)

// InstanceBuffers is a framesync.InstancedMesh whose transform and color slots live in
// two GPU storage buffers. Writes land in CPU staging slices; Upload sends the dirty ones.
type InstanceBuffers struct {
	Device *wgpu.Device

	TransformBuf *wgpu.Buffer
	ColorBuf     *wgpu.Buffer

	count      int
	transforms []byte
	colors     []byte

	transformsDirty bool
	colorsDirty     bool
}

// queueWriter is the part of *wgpu.Queue used for uploads.
type queueWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

func writeBuffer(q queueWriter, label string, buf *wgpu.Buffer, data []byte) error {
	if err := q.WriteBuffer(buf, 0, data); err != nil {
		return fmt.Errorf("write %s: %w", label, err)
	}
	return nil
}

func NewInstanceBuffers(device *wgpu.Device, count int) *InstanceBuffers {
	return &InstanceBuffers{
		Device:     device,
		count:      count,
		transforms: make([]byte, transformStride*count),
		colors:     make([]byte, colorStride*count),
	}
}

// Factory creates InstanceBuffers on device for the frame sync.
func Factory(device *wgpu.Device) framesync.MeshFactory {
	return func(count int) framesync.InstancedMesh {
		return NewInstanceBuffers(device, count)
	}
}

func (b *InstanceBuffers) Len() int { return b.count }

func (b *InstanceBuffers) SetTransformAt(i int, m mgl32.Mat4) {
	off := i * transformStride
	for k, v := range m {
		binary.LittleEndian.PutUint32(b.transforms[off+4*k:], math.Float32bits(v))
	}
}

func (b *InstanceBuffers) SetColorAt(i int, c mgl32.Vec3) {
	off := i * colorStride
	binary.LittleEndian.PutUint32(b.colors[off:], math.Float32bits(c[0]))
	binary.LittleEndian.PutUint32(b.colors[off+4:], math.Float32bits(c[1]))
	binary.LittleEndian.PutUint32(b.colors[off+8:], math.Float32bits(c[2]))
	binary.LittleEndian.PutUint32(b.colors[off+12:], math.Float32bits(1))
}

func (b *InstanceBuffers) MarkTransformsDirty() { b.transformsDirty = true }

func (b *InstanceBuffers) MarkColorsDirty() { b.colorsDirty = true }

// Dirty reports which buffers wait for Upload.
func (b *InstanceBuffers) Dirty() (transforms, colors bool) {
	return b.transformsDirty, b.colorsDirty
}

// Upload writes the dirty staging slices to the GPU, creating buffers on first use.
// It returns true if a buffer was (re)created and bind groups must be rebuilt.
func (b *InstanceBuffers) Upload() (bool, error) {
	recreated := false
	if b.transformsDirty {
		r, err := b.ensureBuffer("InstanceTransforms", &b.TransformBuf, b.transforms)
		if err != nil {
			return recreated, err
		}
		recreated = recreated || r
		b.transformsDirty = false
	}
	if b.colorsDirty {
		r, err := b.ensureBuffer("InstanceColors", &b.ColorBuf, b.colors)
		if err != nil {
			return recreated, err
		}
		recreated = recreated || r
		b.colorsDirty = false
	}
	return recreated, nil
}

func (b *InstanceBuffers) ensureBuffer(name string, buf **wgpu.Buffer, data []byte) (bool, error) {
	neededSize := uint64(len(data))
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current != nil && current.GetSize() >= neededSize {
		return false, writeBuffer(b.Device.GetQueue(), name, current, data)
	}
	if current != nil {
		current.Release()
	}

	newBuf, err := b.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            name,
		Size:             neededSize,
		Usage:            wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return false, err
	}
	*buf = newBuf
	return true, writeBuffer(b.Device.GetQueue(), name, newBuf, data)
}

func (b *InstanceBuffers) Release() {
	if b.TransformBuf != nil {
		b.TransformBuf.Release()
		b.TransformBuf = nil
	}
	if b.ColorBuf != nil {
		b.ColorBuf.Release()
		b.ColorBuf = nil
	}
}

// TransformBytes exposes the staging bytes, mainly for tests.
func (b *InstanceBuffers) TransformBytes() []byte { return b.transforms }

func (b *InstanceBuffers) ColorBytes() []byte { return b.colors }
