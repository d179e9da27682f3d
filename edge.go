// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// normalTolerance bounds |len-1| and |dot(n, dir)| for Edge.Validate.
const normalTolerance = 1e-3

// Edge is one edge instance: a thick segment from A to B.
//
// NormalA and NormalB must be unit length and perpendicular to B-A,
// otherwise the line thickness varies along the segment. A zero normal
// collapses the quad to a hairline.
type Edge struct {
	Color   RGBA
	A, B    mgl32.Vec3
	NormalA mgl32.Vec3
	NormalB mgl32.Vec3

	// Width is the offset along the normal on each side of the segment.
	Width float32
}

// NewEdge builds an edge from two endpoints, deriving opposite unit
// normals in the XY plane. Coincident endpoints produce zero normals.
func NewEdge(a, b mgl32.Vec3, color RGBA, width float32) Edge {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	n := safeNormalize(mgl32.Vec3{-dy, dx, 0})
	return Edge{
		Color:   color,
		A:       a,
		B:       b,
		NormalA: n,
		NormalB: n.Mul(-1),
		Width:   width,
	}
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Thickness returns the full width of the rendered quad, measured
// perpendicular to the segment.
func (e *Edge) Thickness() float32 {
	return 2 * e.Width
}

// Validate checks the normal invariants. Violations only affect how the
// edge looks, so renderers log them rather than reject the frame.
func (e *Edge) Validate() error {
	dir := safeNormalize(e.B.Sub(e.A))
	for i, n := range [2]mgl32.Vec3{e.NormalA, e.NormalB} {
		name := [2]string{"a", "b"}[i]
		if d := n.Len() - 1; d > normalTolerance || d < -normalTolerance {
			return fmt.Errorf("%w: normal %s = %v", ErrNonUnitNormal, name, n)
		}
		if d := n.Dot(dir); d > normalTolerance || d < -normalTolerance {
			return fmt.Errorf("%w: normal %s = %v, dir = %v", ErrNormalNotPerpendicular, name, n, dir)
		}
	}
	return nil
}

// Endpoint selects one end of an edge.
type Endpoint uint8

const (
	EndpointA Endpoint = iota
	EndpointB
)

func (p Endpoint) String() string {
	if p == EndpointA {
		return "A"
	}
	return "B"
}

// EdgeCorner is one vertex of the edge quad: an endpoint and the sign of
// the offset along that endpoint's normal.
type EdgeCorner struct {
	Endpoint Endpoint
	Sign     float32
}

// EdgeCornerTable lists the corners by vertex index. Index 4 repeats
// corner 2 and closes the five-vertex sequence older integrations use.
var EdgeCornerTable = [5]EdgeCorner{
	{EndpointA, +1},
	{EndpointA, -1},
	{EndpointB, +1},
	{EndpointB, -1},
	{EndpointB, +1},
}

// QuadDrawOrder is the triangle-list order of the four unique quad corners.
// NormalB points opposite NormalA, so corners 0 and 3 lie on one side of
// the segment and 1 and 2 on the other; the quad splits along 1-3.
var QuadDrawOrder = [6]int{0, 1, 3, 3, 1, 2}

// EdgeCornerAt returns the corner for a vertex index in [0, 5).
func EdgeCornerAt(index int) (EdgeCorner, bool) {
	if index < 0 || index >= len(EdgeCornerTable) {
		return EdgeCorner{}, false
	}
	return EdgeCornerTable[index], true
}

// Corner returns the world-space XY position of a quad corner before the
// camera transform, with z = 0.
func (e *Edge) Corner(c EdgeCorner) mgl32.Vec3 {
	p, n := e.A, e.NormalA
	if c.Endpoint == EndpointB {
		p, n = e.B, e.NormalB
	}
	return mgl32.Vec3{
		p[0] + n[0]*e.Width*c.Sign,
		p[1] + n[1]*e.Width*c.Sign,
		0,
	}
}

// EdgeVertex runs the edge geometry stage on the CPU for vertex index i.
// The result is the clip-space position with its depth replaced by
// style.EdgeDepth; edges stack by draw order, not by depth.
func EdgeVertex(cam *Camera, style Style, e *Edge, index int) (mgl32.Vec4, error) {
	c, ok := EdgeCornerAt(index)
	if !ok {
		return mgl32.Vec4{}, fmt.Errorf("graphview: edge vertex index %d out of range", index)
	}
	pos := cam.Project(e.Corner(c))
	pos[2] = style.EdgeDepth
	return pos, nil
}

// EncodeEdges packs edges into the instance buffer layout of
// EdgeInstanceLayout.
func EncodeEdges(edges []Edge) []byte {
	return AppendEdges(nil, edges)
}

// AppendEdges appends the encoded edges to dst, reusing its capacity.
func AppendEdges(dst []byte, edges []Edge) []byte {
	start := len(dst)
	need := start + len(edges)*EdgeInstanceStride
	if cap(dst) < need {
		grown := make([]byte, start, need)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:need]
	for i := range edges {
		e := &edges[i]
		buf := dst[start+i*EdgeInstanceStride:]
		putVec4(buf[0:16], e.Color.Vec4())
		putVec3(buf[16:28], e.A)
		putVec3(buf[28:40], e.B)
		putVec3(buf[40:52], e.NormalA)
		putVec3(buf[52:64], e.NormalB)
		putFloat32(buf[64:68], e.Width)
	}
	return dst
}
