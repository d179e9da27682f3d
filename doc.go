// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graphview draws graphs as two antialiased GPU primitives: edges
// as thick line quads and nodes as quads masked to a disk. Both read one
// per-frame camera uniform.
//
// # Overview
//
// A Frame holds the Camera and the Edge and Node instances for one draw.
// Frame.Encode validates it and produces the exact byte payloads the GPU
// programs read: an 80-byte camera uniform, a 16-byte Style uniform, and
// the two instance buffers described by EdgeInstanceLayout and
// NodeInstanceLayout.
//
// # Quick Start
//
//	cam := graphview.NewOrthoCamera(800, 600)
//	a := graphview.NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{-100, 0, 0}, mgl32.QuatIdent(), graphview.Hex("5FB49C"))
//	b := graphview.NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{100, 0, 0}, mgl32.QuatIdent(), graphview.Hex("F93943"))
//	frame := graphview.Frame{
//		Camera: cam.Camera(),
//		Nodes:  []graphview.Node{a, b},
//		Edges:  []graphview.Edge{graphview.NewEdge(a.Center, b.Center, graphview.RGB(0, 1, 0), 10)},
//	}
//
//	r := graphview.NewSoftwareRenderer(800, 600)
//	defer r.Close()
//	img, err := r.Render(&frame)
//
// The gpu sub-package renders the same frame with gogpu/wgpu.
//
// # Renderers
//
// Both renderers draw edges first, without blending, then nodes with
// straight-alpha blending, each in submission order. There is no depth
// test; later primitives cover earlier ones.
//
// The CPU functions EdgeVertex, NodeVertex, NodeCenter and DiskFragment
// compute what the GPU programs compute. SoftwareRenderer is built on them.
//
// # Coordinate System
//
// World space is centered on the camera target with y up. OrthoCamera maps
// one world unit to one pixel at scale 1. Node centers and fragment
// positions are in framebuffer pixels with the origin at top-left.
//
// # Logging
//
// The package is silent by default. Call SetLogger to receive slog records;
// malformed edges are reported at warn level.
package graphview
