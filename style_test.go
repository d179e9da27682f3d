// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultStyle(t *testing.T) {
	s := DefaultStyle()
	if s.BaseRadius != 50 || s.CenterDivisor != 4 || s.EdgeDepth != 0.1 {
		t.Errorf("DefaultStyle() = %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestStyleValidate(t *testing.T) {
	inf := float32(math.Inf(1))
	tests := []struct {
		name  string
		style Style
	}{
		{"zero radius", Style{0, 4, 0.1}},
		{"negative divisor", Style{50, -4, 0.1}},
		{"zero divisor", Style{50, 0, 0.1}},
		{"depth above one", Style{50, 4, 1.5}},
		{"negative depth", Style{50, 4, -0.1}},
		{"infinite radius", Style{inf, 4, 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.style.Validate(); !errors.Is(err, ErrInvalidStyle) {
				t.Errorf("Validate() = %v, want ErrInvalidStyle", err)
			}
		})
	}
}

func TestStyleUniformBytes(t *testing.T) {
	buf := Style{BaseRadius: 20, CenterDivisor: 2, EdgeDepth: 0.5}.UniformBytes()
	if err := CheckUniform(buf, StyleUniformSize); err != nil {
		t.Fatal(err)
	}
	want := []float32{20, 2, 0.5, 0}
	for i, w := range want {
		if got := getFloat32(buf[i*4:]); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}
