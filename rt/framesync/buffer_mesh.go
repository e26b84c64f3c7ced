package framesync

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BufferMesh keeps per-instance transforms (column-major 4x4) and RGB colors in flat
// float32 slices, ready to be handed to a vertex/storage buffer upload.
type BufferMesh struct {
	Transforms []float32
	Colors     []float32

	// Versions count MarkDirty calls; an uploader compares them to what it last sent.
	TransformVersion uint64
	ColorVersion     uint64
	Released         bool
}

func NewBufferMesh(count int) *BufferMesh {
	return &BufferMesh{
		Transforms: make([]float32, 16*count),
		Colors:     make([]float32, 3*count),
	}
}

func NewBufferMeshFactory() MeshFactory {
	return func(count int) InstancedMesh {
		return NewBufferMesh(count)
	}
}

func (m *BufferMesh) Len() int { return len(m.Colors) / 3 }

func (m *BufferMesh) SetTransformAt(i int, t mgl32.Mat4) {
	copy(m.Transforms[16*i:16*i+16], t[:])
}

func (m *BufferMesh) SetColorAt(i int, c mgl32.Vec3) {
	copy(m.Colors[3*i:3*i+3], c[:])
}

func (m *BufferMesh) MarkTransformsDirty() { m.TransformVersion++ }

func (m *BufferMesh) MarkColorsDirty() { m.ColorVersion++ }

func (m *BufferMesh) Release() { m.Released = true }

// TransformAt reads back slot i.
func (m *BufferMesh) TransformAt(i int) mgl32.Mat4 {
	var t mgl32.Mat4
	copy(t[:], m.Transforms[16*i:16*i+16])
	return t
}

func (m *BufferMesh) ColorAt(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Colors[3*i], m.Colors[3*i+1], m.Colors[3*i+2]}
}
