// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import "fmt"

// Frame is everything both passes read for one draw: the camera uniform
// and the edge and node instances. Nothing in a Frame outlives the draw.
type Frame struct {
	Camera Camera
	Edges  []Edge
	Nodes  []Node
}

// EncodedFrame holds the validated GPU payloads of a Frame. Its slices are
// reused across calls to Frame.Encode.
type EncodedFrame struct {
	Camera []byte
	Style  []byte
	Edges  []byte
	Nodes  []byte

	EdgeCount int
	NodeCount int

	// MalformedEdges counts edges whose normals failed Edge.Validate.
	MalformedEdges int
}

// Validate checks the camera and style and counts malformed edges. It
// returns the first edge error for logging; edge errors are not fatal.
func (f *Frame) Validate(style Style) (malformed int, firstEdgeErr error, err error) {
	if err := f.Camera.Validate(); err != nil {
		return 0, nil, err
	}
	if err := style.Validate(); err != nil {
		return 0, nil, err
	}
	for i := range f.Edges {
		if eerr := f.Edges[i].Validate(); eerr != nil {
			if firstEdgeErr == nil {
				firstEdgeErr = fmt.Errorf("edge %d: %w", i, eerr)
			}
			malformed++
		}
	}
	return malformed, firstEdgeErr, nil
}

// Encode validates the frame and encodes it into out. The encoded sizes
// are checked against the binding layouts before returning, so a mismatch
// is reported here instead of by the driver.
func (f *Frame) Encode(style Style, out *EncodedFrame) error {
	malformed, edgeErr, err := f.Validate(style)
	if err != nil {
		return err
	}
	if malformed > 0 {
		Logger().Warn("graphview: malformed edge normals",
			"count", malformed, "first", edgeErr)
	}

	out.Camera = f.Camera.UniformBytes()
	out.Style = style.UniformBytes()
	out.Edges = AppendEdges(out.Edges[:0], f.Edges)
	out.Nodes = AppendNodes(out.Nodes[:0], f.Nodes)
	out.EdgeCount = len(f.Edges)
	out.NodeCount = len(f.Nodes)
	out.MalformedEdges = malformed

	if err := CheckUniform(out.Camera, CameraUniformSize); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	if err := CheckUniform(out.Style, StyleUniformSize); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	if err := CheckInstanceData(EdgeInstanceLayout(), out.Edges, out.EdgeCount); err != nil {
		return fmt.Errorf("edges: %w", err)
	}
	if err := CheckInstanceData(NodeInstanceLayout(), out.Nodes, out.NodeCount); err != nil {
		return fmt.Errorf("nodes: %w", err)
	}
	return nil
}
