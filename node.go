// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is one node instance: a quad placed by Model and masked to a disk
// around Center in the shading stage.
type Node struct {
	Model  mgl32.Mat4
	Color  RGBA
	Center mgl32.Vec3
}

// NewNode builds a node whose quad spans size (half-extents) around
// position, rotated by rotation. Model = T(position) * S(size) * R(rotation).
func NewNode(size mgl32.Vec2, position mgl32.Vec3, rotation mgl32.Quat, color RGBA) Node {
	model := mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(mgl32.Scale3D(size[0], size[1], 1)).
		Mul4(rotation.Mat4())
	return Node{Model: model, Color: color, Center: position}
}

// NodeVertex runs the node geometry stage on the CPU for a local quad
// position.
func NodeVertex(cam *Camera, n *Node, local mgl32.Vec3) mgl32.Vec4 {
	return cam.Transform.Mul4x1(n.Model.Mul4x1(local.Vec4(1)))
}

// NodeCenter maps the node center from world space to the pixel space the
// shading stage compares fragment positions against:
//
//	q = viewport / divisor
//	center = (clip.x*q.x + q.x, q.y - clip.y*q.y)
func NodeCenter(cam *Camera, style Style, n *Node) mgl32.Vec2 {
	clip := cam.Project(n.Center)
	qx := cam.Viewport[0] / style.CenterDivisor
	qy := cam.Viewport[1] / style.CenterDivisor
	return mgl32.Vec2{clip[0]*qx + qx, qy - clip[1]*qy}
}

// DiskRadius returns the disk radius in pixels. It tracks the camera zoom,
// so disks keep their size relative to the graph, not to the screen.
func DiskRadius(cam *Camera, style Style) float32 {
	return style.BaseRadius * cam.Scale
}

// smoothstep matches the WGSL builtin: Hermite interpolation of x between
// edge0 and edge1, clamped to [0, 1].
func smoothstep(edge0, edge1, x float32) float32 {
	t := mgl32.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// DiskAlpha is the antialiased disk mask for a normalized distance r and
// its screen-space derivative delta: 1 inside, 0 outside, 0.5 on r == 1.
func DiskAlpha(r, delta float32) float32 {
	if delta <= 0 {
		// A zero-width step degenerates to a hard edge.
		if r < 1 {
			return 1
		}
		if r > 1 {
			return 0
		}
		return 0.5
	}
	return 1 - smoothstep(1-delta, 1+delta, r)
}

// DiskFragment runs the node shading stage on the CPU for a fragment at
// pixel position frag and returns its alpha. delta is estimated the way
// fwidth does: the sum of absolute differences to the next pixel in x and y.
func DiskFragment(cam *Camera, style Style, center, frag mgl32.Vec2) float32 {
	radius := DiskRadius(cam, style)
	dist := func(x, y float32) float32 {
		dx, dy := x-center[0], y-center[1]
		return float32(math.Sqrt(float64(dx*dx+dy*dy))) / radius
	}
	r := dist(frag[0], frag[1])
	dx := dist(frag[0]+1, frag[1]) - r
	dy := dist(frag[0], frag[1]+1) - r
	delta := abs32(dx) + abs32(dy)
	return DiskAlpha(r, delta)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// EncodeNodes packs nodes into the instance buffer layout of
// NodeInstanceLayout.
func EncodeNodes(nodes []Node) []byte {
	return AppendNodes(nil, nodes)
}

// AppendNodes appends the encoded nodes to dst, reusing its capacity.
func AppendNodes(dst []byte, nodes []Node) []byte {
	start := len(dst)
	need := start + len(nodes)*NodeInstanceStride
	if cap(dst) < need {
		grown := make([]byte, start, need)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:need]
	for i := range nodes {
		n := &nodes[i]
		buf := dst[start+i*NodeInstanceStride:]
		putMat4(buf[0:64], n.Model)
		putVec4(buf[64:80], n.Color.Vec4())
		putVec3(buf[80:92], n.Center)
	}
	return dst
}
