// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import "errors"

var (
	// ErrInvalidCamera is returned when a camera has a non-finite transform,
	// a non-positive viewport, or a non-positive scale.
	ErrInvalidCamera = errors.New("graphview: invalid camera")

	// ErrInvalidStyle is returned when a Style has a non-positive radius or
	// divisor, or an edge depth outside [0, 1].
	ErrInvalidStyle = errors.New("graphview: invalid style")

	// ErrLayoutMismatch is returned when a vertex buffer layout has
	// attributes that overflow the stride, overlap, or share a location.
	ErrLayoutMismatch = errors.New("graphview: vertex layout mismatch")

	// ErrBufferSize is returned when instance data does not match
	// stride * count.
	ErrBufferSize = errors.New("graphview: instance buffer size mismatch")

	// ErrUniformSize is returned when uniform data has the wrong size.
	ErrUniformSize = errors.New("graphview: uniform size mismatch")

	// ErrNonUnitNormal marks an edge normal whose length is not 1.
	ErrNonUnitNormal = errors.New("graphview: edge normal is not unit length")

	// ErrNormalNotPerpendicular marks an edge normal that is not
	// perpendicular to the A->B direction.
	ErrNormalNotPerpendicular = errors.New("graphview: edge normal is not perpendicular to edge")
)
