// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
)

// Vertex and instance strides in bytes.
const (
	QuadVertexStride   = 12 // position vec3<f32>
	EdgeInstanceStride = 68
	NodeInstanceStride = 92
)

// QuadVertexLayout returns the per-vertex layout of the shared quad
// geometry. Both primitives read a vec3<f32> position at location 0.
func QuadVertexLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: QuadVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
		},
	}
}

// EdgeInstanceLayout returns the per-instance layout of edge data
// (locations 1-6).
func EdgeInstanceLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: EdgeInstanceStride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 1},  // color
			{Format: gputypes.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 2}, // a
			{Format: gputypes.VertexFormatFloat32x3, Offset: 28, ShaderLocation: 3}, // b
			{Format: gputypes.VertexFormatFloat32x3, Offset: 40, ShaderLocation: 4}, // a_norm
			{Format: gputypes.VertexFormatFloat32x3, Offset: 52, ShaderLocation: 5}, // b_norm
			{Format: gputypes.VertexFormatFloat32, Offset: 64, ShaderLocation: 6},   // line_width
		},
	}
}

// NodeInstanceLayout returns the per-instance layout of node data
// (locations 2-7).
func NodeInstanceLayout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: NodeInstanceStride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},  // model column 0
			{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3}, // model column 1
			{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4}, // model column 2
			{Format: gputypes.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5}, // model column 3
			{Format: gputypes.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6}, // color
			{Format: gputypes.VertexFormatFloat32x3, Offset: 80, ShaderLocation: 7}, // center
		},
	}
}

// vertexFormatSize returns the byte size of the float formats used here.
func vertexFormatSize(f gputypes.VertexFormat) (uint64, bool) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return 4, true
	case gputypes.VertexFormatFloat32x2:
		return 8, true
	case gputypes.VertexFormatFloat32x3:
		return 12, true
	case gputypes.VertexFormatFloat32x4:
		return 16, true
	default:
		return 0, false
	}
}

// CheckLayout verifies that every attribute fits inside the stride, that no
// two attributes overlap and that no shader location is used twice.
func CheckLayout(l gputypes.VertexBufferLayout) error {
	stride := uint64(l.ArrayStride)
	if stride == 0 {
		return fmt.Errorf("%w: zero stride", ErrLayoutMismatch)
	}

	type span struct{ start, end uint64 }
	spans := make([]span, 0, len(l.Attributes))
	seen := make(map[uint32]bool, len(l.Attributes))

	for _, a := range l.Attributes {
		loc := uint32(a.ShaderLocation)
		if seen[loc] {
			return fmt.Errorf("%w: location %d used twice", ErrLayoutMismatch, loc)
		}
		seen[loc] = true

		size, ok := vertexFormatSize(a.Format)
		if !ok {
			return fmt.Errorf("%w: location %d has unsupported format %v", ErrLayoutMismatch, loc, a.Format)
		}
		off := uint64(a.Offset)
		if off%4 != 0 {
			return fmt.Errorf("%w: location %d offset %d not 4-byte aligned", ErrLayoutMismatch, loc, off)
		}
		if off+size > stride {
			return fmt.Errorf("%w: location %d ends at %d past stride %d", ErrLayoutMismatch, loc, off+size, stride)
		}
		spans = append(spans, span{off, off + size})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return fmt.Errorf("%w: attributes overlap at offset %d", ErrLayoutMismatch, spans[i].start)
		}
	}
	return nil
}

// CheckInstanceData verifies that data holds exactly count records of the
// layout's stride.
func CheckInstanceData(l gputypes.VertexBufferLayout, data []byte, count int) error {
	want := uint64(l.ArrayStride) * uint64(count)
	if uint64(len(data)) != want {
		return fmt.Errorf("%w: got %d bytes, want %d (%d x %d)",
			ErrBufferSize, len(data), want, count, uint64(l.ArrayStride))
	}
	return nil
}

// CheckUniform verifies the size of an encoded uniform.
func CheckUniform(data []byte, want int) error {
	if len(data) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrUniformSize, len(data), want)
	}
	return nil
}
