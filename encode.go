// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// All GPU-bound data is little-endian float32.

func putFloat32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func putVec3(buf []byte, v mgl32.Vec3) {
	putFloat32(buf[0:4], v[0])
	putFloat32(buf[4:8], v[1])
	putFloat32(buf[8:12], v[2])
}

func putVec4(buf []byte, v mgl32.Vec4) {
	putFloat32(buf[0:4], v[0])
	putFloat32(buf[4:8], v[1])
	putFloat32(buf[8:12], v[2])
	putFloat32(buf[12:16], v[3])
}

// putMat4 writes m in column-major order, matching WGSL mat4x4<f32>.
func putMat4(buf []byte, m mgl32.Mat4) {
	for i, v := range m {
		putFloat32(buf[i*4:i*4+4], v)
	}
}

func getFloat32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
