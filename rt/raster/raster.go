// Package raster is a software render primitive. It keeps the same per-instance buffers
// as framesync.BufferMesh and splats every instance into an RGBA image, which is enough
// for headless runs and previews without a GPU.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/gekko3d/swarm/rt/framesync"
)

// Mesh is a framesync.InstancedMesh backed by CPU buffers.
type Mesh struct {
	*framesync.BufferMesh
}

func NewMesh(count int) *Mesh {
	return &Mesh{BufferMesh: framesync.NewBufferMesh(count)}
}

func Factory() framesync.MeshFactory {
	return func(count int) framesync.InstancedMesh {
		return NewMesh(count)
	}
}

// Canvas holds the output parameters for Render.
type Canvas struct {
	Width, Height int
	PointRadius   float32 // in pixels
	Background    color.RGBA
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:       width,
		Height:      height,
		PointRadius: 3,
		Background:  color.RGBA{16, 16, 24, 255},
	}
}

type splat struct {
	x, y, depth float32
	c           color.RGBA
}

// Render projects every instance with viewProj and draws it as a filled octagon,
// far instances first. mesh may be nil for an empty scene.
func (cv *Canvas) Render(mesh *Mesh, viewProj mgl32.Mat4) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(cv.Background), image.Point{}, draw.Src)
	if mesh == nil {
		return dst
	}

	splats := make([]splat, 0, mesh.Len())
	for i := 0; i < mesh.Len(); i++ {
		t := mesh.TransformAt(i)
		clip := viewProj.Mul4(t).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		if clip.W() <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		if ndc.Z() < -1 || ndc.Z() > 1 {
			continue
		}
		splats = append(splats, splat{
			x:     (ndc.X() + 1) * 0.5 * float32(cv.Width),
			y:     (1 - ndc.Y()) * 0.5 * float32(cv.Height),
			depth: clip.W(),
			c:     toRGBA(mesh.ColorAt(i)),
		})
	}
	sort.Slice(splats, func(a, b int) bool { return splats[a].depth > splats[b].depth })

	r := cv.PointRadius
	if r <= 0 {
		r = 1
	}
	size := int(2*r) + 2
	z := vector.NewRasterizer(size, size)
	for _, s := range splats {
		rect := image.Rect(int(s.x)-size/2, int(s.y)-size/2, int(s.x)-size/2+size, int(s.y)-size/2+size)
		if !rect.In(dst.Bounds()) {
			continue
		}
		// octagon centred on the projected point, in rasterizer-local coordinates
		cx := s.x - float32(rect.Min.X)
		cy := s.y - float32(rect.Min.Y)
		k := r * 0.4142
		z.Reset(size, size)
		z.DrawOp = draw.Over
		z.MoveTo(cx-k, cy-r)
		z.LineTo(cx+k, cy-r)
		z.LineTo(cx+r, cy-k)
		z.LineTo(cx+r, cy+k)
		z.LineTo(cx+k, cy+r)
		z.LineTo(cx-k, cy+r)
		z.LineTo(cx-r, cy+k)
		z.LineTo(cx-r, cy-k)
		z.ClosePath()
		z.Draw(dst, rect, image.NewUniform(s.c), image.Point{})
	}
	return dst
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	return color.RGBA{R: unit8(c[0]), G: unit8(c[1]), B: unit8(c[2]), A: 255}
}

func unit8(v float32) uint8 {
	v = mgl32.Clamp(v, 0, 1)
	return uint8(v*255 + 0.5)
}
