// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestBuiltinLayouts(t *testing.T) {
	tests := []struct {
		name       string
		layout     gputypes.VertexBufferLayout
		stride     uint64
		step       gputypes.VertexStepMode
		locations  []uint32
		lastOffset uint64
	}{
		{"quad", QuadVertexLayout(), QuadVertexStride, gputypes.VertexStepModeVertex, []uint32{0}, 0},
		{"edge", EdgeInstanceLayout(), EdgeInstanceStride, gputypes.VertexStepModeInstance, []uint32{1, 2, 3, 4, 5, 6}, 64},
		{"node", NodeInstanceLayout(), NodeInstanceStride, gputypes.VertexStepModeInstance, []uint32{2, 3, 4, 5, 6, 7}, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckLayout(tt.layout); err != nil {
				t.Fatalf("CheckLayout() = %v", err)
			}
			if uint64(tt.layout.ArrayStride) != tt.stride {
				t.Errorf("stride = %d, want %d", tt.layout.ArrayStride, tt.stride)
			}
			if tt.layout.StepMode != tt.step {
				t.Errorf("step mode = %v, want %v", tt.layout.StepMode, tt.step)
			}
			if len(tt.layout.Attributes) != len(tt.locations) {
				t.Fatalf("%d attributes, want %d", len(tt.layout.Attributes), len(tt.locations))
			}
			for i, a := range tt.layout.Attributes {
				if uint32(a.ShaderLocation) != tt.locations[i] {
					t.Errorf("attribute %d location = %d, want %d", i, a.ShaderLocation, tt.locations[i])
				}
			}
			last := tt.layout.Attributes[len(tt.layout.Attributes)-1]
			if uint64(last.Offset) != tt.lastOffset {
				t.Errorf("last offset = %d, want %d", last.Offset, tt.lastOffset)
			}
		})
	}
}

func TestCheckLayoutRejects(t *testing.T) {
	f3 := gputypes.VertexFormatFloat32x3
	f4 := gputypes.VertexFormatFloat32x4
	tests := []struct {
		name   string
		layout gputypes.VertexBufferLayout
	}{
		{
			name:   "zero stride",
			layout: gputypes.VertexBufferLayout{Attributes: []gputypes.VertexAttribute{{Format: f3}}},
		},
		{
			name: "past stride",
			layout: gputypes.VertexBufferLayout{ArrayStride: 24, Attributes: []gputypes.VertexAttribute{
				{Format: f4, Offset: 16, ShaderLocation: 0},
			}},
		},
		{
			name: "overlap",
			layout: gputypes.VertexBufferLayout{ArrayStride: 32, Attributes: []gputypes.VertexAttribute{
				{Format: f4, Offset: 0, ShaderLocation: 0},
				{Format: f3, Offset: 12, ShaderLocation: 1},
			}},
		},
		{
			name: "duplicate location",
			layout: gputypes.VertexBufferLayout{ArrayStride: 32, Attributes: []gputypes.VertexAttribute{
				{Format: f4, Offset: 0, ShaderLocation: 3},
				{Format: f4, Offset: 16, ShaderLocation: 3},
			}},
		},
		{
			name: "misaligned",
			layout: gputypes.VertexBufferLayout{ArrayStride: 32, Attributes: []gputypes.VertexAttribute{
				{Format: f3, Offset: 2, ShaderLocation: 0},
			}},
		},
		{
			name: "edge stride shrunk",
			layout: func() gputypes.VertexBufferLayout {
				l := EdgeInstanceLayout()
				l.ArrayStride = 64
				return l
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckLayout(tt.layout); !errors.Is(err, ErrLayoutMismatch) {
				t.Errorf("CheckLayout() = %v, want ErrLayoutMismatch", err)
			}
		})
	}
}

func TestCheckInstanceData(t *testing.T) {
	l := EdgeInstanceLayout()
	tests := []struct {
		name    string
		size    int
		count   int
		wantErr bool
	}{
		{"empty", 0, 0, false},
		{"one", EdgeInstanceStride, 1, false},
		{"three", 3 * EdgeInstanceStride, 3, false},
		{"short", EdgeInstanceStride - 4, 1, true},
		{"trailing bytes", 2*EdgeInstanceStride + 1, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInstanceData(l, make([]byte, tt.size), tt.count)
			if tt.wantErr != (err != nil) {
				t.Fatalf("CheckInstanceData() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrBufferSize) {
				t.Errorf("error %v does not wrap ErrBufferSize", err)
			}
		})
	}
}

func TestCheckUniform(t *testing.T) {
	if err := CheckUniform(make([]byte, CameraUniformSize), CameraUniformSize); err != nil {
		t.Errorf("CheckUniform(80) = %v", err)
	}
	if err := CheckUniform(make([]byte, 64), CameraUniformSize); !errors.Is(err, ErrUniformSize) {
		t.Errorf("CheckUniform(64) = %v, want ErrUniformSize", err)
	}
}
