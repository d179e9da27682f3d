// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraUniformSize is the byte size of the camera uniform at binding 0.
// Layout (WGSL uniform alignment):
//
//	transform (mat4x4<f32>) = 64 bytes (offset 0)
//	viewport  (vec2<f32>)   =  8 bytes (offset 64)
//	scale     (f32)         =  4 bytes (offset 72)
//	padding                 =  4 bytes (offset 76)
const CameraUniformSize = 80

// Scale limits applied by OrthoCamera.SetScale.
const (
	MinCameraScale = 0.01
	MaxCameraScale = 256
)

// GLToWGPU remaps OpenGL clip depth [-1, 1] to the WebGPU range [0, 1].
var GLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is the per-frame uniform shared read-only by the edge and node
// passes. It is written once per frame before any draw that reads it.
type Camera struct {
	// Transform maps world space to clip space.
	Transform mgl32.Mat4

	// Viewport is the viewport size the node center mapping divides by
	// Style.CenterDivisor. OrthoCamera stores twice the framebuffer size.
	Viewport mgl32.Vec2

	// Scale is the zoom factor. The node disk radius grows linearly with it.
	Scale float32
}

// Project transforms a world-space point into clip space.
func (c *Camera) Project(p mgl32.Vec3) mgl32.Vec4 {
	return c.Transform.Mul4x1(p.Vec4(1))
}

// Validate reports whether the camera can be uploaded. A zero or negative
// scale would make the disk shading stage divide by zero.
func (c *Camera) Validate() error {
	for i, v := range c.Transform {
		if !finite(v) {
			return fmt.Errorf("%w: transform[%d] = %v", ErrInvalidCamera, i, v)
		}
	}
	if !finite(c.Viewport[0]) || !finite(c.Viewport[1]) || c.Viewport[0] <= 0 || c.Viewport[1] <= 0 {
		return fmt.Errorf("%w: viewport %v", ErrInvalidCamera, c.Viewport)
	}
	if !finite(c.Scale) || c.Scale <= 0 {
		return fmt.Errorf("%w: scale %v", ErrInvalidCamera, c.Scale)
	}
	return nil
}

// UniformBytes encodes the camera into its 80-byte uniform layout.
func (c *Camera) UniformBytes() []byte {
	buf := make([]byte, CameraUniformSize)
	putMat4(buf[0:64], c.Transform)
	putFloat32(buf[64:68], c.Viewport[0])
	putFloat32(buf[68:72], c.Viewport[1])
	putFloat32(buf[72:76], c.Scale)
	// Padding bytes 76..79 remain zero.
	return buf
}

// OrthoCamera builds a Camera for a 2D graph view: an orthographic
// projection spanning the framebuffer in world units, centered on
// Translate and zoomed by Scale.
type OrthoCamera struct {
	Width, Height float32
	Translate     mgl32.Vec3
	Scale         float32
}

// NewOrthoCamera returns a camera for a width x height framebuffer looking
// at the origin from z=1 with unit zoom.
func NewOrthoCamera(width, height float32) *OrthoCamera {
	return &OrthoCamera{
		Width:     width,
		Height:    height,
		Translate: mgl32.Vec3{0, 0, 1},
		Scale:     1,
	}
}

// SetScale sets the zoom, clamped to [MinCameraScale, MaxCameraScale].
func (o *OrthoCamera) SetScale(scale float32) {
	o.Scale = mgl32.Clamp(scale, MinCameraScale, MaxCameraScale)
}

// Resize updates the framebuffer size.
func (o *OrthoCamera) Resize(width, height float32) {
	o.Width, o.Height = width, height
}

// ViewProjection returns the world-to-clip transform.
func (o *OrthoCamera) ViewProjection() mgl32.Mat4 {
	proj := mgl32.Ortho(-o.Width/2, o.Width/2, -o.Height/2, o.Height/2, 0.1, 100)
	view := mgl32.Translate3D(-o.Translate[0], -o.Translate[1], -o.Translate[2])
	zoom := mgl32.Scale3D(o.Scale, o.Scale, o.Scale)
	return GLToWGPU.Mul4(proj).Mul4(view).Mul4(zoom)
}

// Camera returns the uniform for the current state. The viewport is
// stored at twice the framebuffer size; with the default center divisor
// of 4 this makes the node center mapping land on framebuffer pixels.
func (o *OrthoCamera) Camera() Camera {
	return Camera{
		Transform: o.ViewProjection(),
		Viewport:  mgl32.Vec2{o.Width * 2, o.Height * 2},
		Scale:     o.Scale,
	}
}
