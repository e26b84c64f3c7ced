package gpu

import (
	"encoding/binary"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraUniform(t *testing.T) {
	vp := mgl32.Perspective(mgl32.DegToRad(60), 2, 0.1, 100)
	buf := CameraUniform(vp, 8, 800, 400)
	require.Len(t, buf, cameraUniformSize)

	assert.Equal(t, vp[0], readFloat(buf, 0))
	assert.Equal(t, vp[15], readFloat(buf, 60))
	assert.Equal(t, float32(0.01), readFloat(buf, 64))
	assert.Equal(t, float32(0.02), readFloat(buf, 68))
}

func TestCameraUniform_ZeroViewport(t *testing.T) {
	buf := CameraUniform(mgl32.Ident4(), 8, 0, 0)
	assert.Zero(t, binary.LittleEndian.Uint32(buf[64:]))
}

func TestInstancesShaderEmbedded(t *testing.T) {
	assert.Contains(t, instancesWGSL, "fn vs_main")
	assert.Contains(t, instancesWGSL, "fn fs_main")
}
