// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import "github.com/go-gl/mathgl/mgl32"

// QuadVertexCount is the number of vertices drawn per instance.
const QuadVertexCount = len(QuadDrawOrder)

// nodeQuadCorners are the local corners of the node quad.
var nodeQuadCorners = [4]mgl32.Vec3{
	{-1, -1, 0},
	{1, -1, 0},
	{1, 1, 0},
	{-1, 1, 0},
}

// NodeQuadVertices returns the node quad as QuadVertexCount local
// positions in triangle-list order.
func NodeQuadVertices() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, QuadVertexCount)
	for _, i := range QuadDrawOrder {
		out = append(out, nodeQuadCorners[i])
	}
	return out
}

// EdgeQuadVertices returns the edge quad in triangle-list order. Each
// position encodes a corner rather than a location:
//
//	x = endpoint selector (0 = A, 1 = B)
//	y = offset sign (+1 or -1)
//	z = 0
func EdgeQuadVertices() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, QuadVertexCount)
	for _, i := range QuadDrawOrder {
		c := EdgeCornerTable[i]
		out = append(out, mgl32.Vec3{float32(c.Endpoint), c.Sign, 0})
	}
	return out
}

// EncodeQuad packs quad positions into the QuadVertexLayout format.
func EncodeQuad(vertices []mgl32.Vec3) []byte {
	buf := make([]byte, len(vertices)*QuadVertexStride)
	for i, v := range vertices {
		putVec3(buf[i*QuadVertexStride:], v)
	}
	return buf
}
