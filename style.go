// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import "fmt"

// StyleUniformSize is the byte size of the style uniform at binding 1.
// Layout: base_radius, center_divisor, edge_depth, padding (4 x f32).
const StyleUniformSize = 16

// Style holds the constants the shading programs used to hard-code.
// It is uploaded next to the camera so an integration can change them
// without editing WGSL.
type Style struct {
	// BaseRadius is the node disk radius in pixels at Camera.Scale == 1.
	BaseRadius float32

	// CenterDivisor divides Camera.Viewport when mapping a node center
	// from clip space to pixels.
	CenterDivisor float32

	// EdgeDepth is the fixed clip-space depth of every edge vertex.
	EdgeDepth float32
}

// DefaultStyle returns the stock shading constants:
// radius 50, quartering divisor 4, edge depth 0.1.
func DefaultStyle() Style {
	return Style{BaseRadius: 50, CenterDivisor: 4, EdgeDepth: 0.1}
}

// Validate reports whether the style can be uploaded.
func (s Style) Validate() error {
	if !finite(s.BaseRadius) || s.BaseRadius <= 0 {
		return fmt.Errorf("%w: base radius %v", ErrInvalidStyle, s.BaseRadius)
	}
	if !finite(s.CenterDivisor) || s.CenterDivisor <= 0 {
		return fmt.Errorf("%w: center divisor %v", ErrInvalidStyle, s.CenterDivisor)
	}
	if !finite(s.EdgeDepth) || s.EdgeDepth < 0 || s.EdgeDepth > 1 {
		return fmt.Errorf("%w: edge depth %v", ErrInvalidStyle, s.EdgeDepth)
	}
	return nil
}

// UniformBytes encodes the style into its 16-byte uniform layout.
func (s Style) UniformBytes() []byte {
	buf := make([]byte, StyleUniformSize)
	putFloat32(buf[0:4], s.BaseRadius)
	putFloat32(buf[4:8], s.CenterDivisor)
	putFloat32(buf[8:12], s.EdgeDepth)
	return buf
}
