// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// RGBA is a straight-alpha color with float32 components in [0, 1].
// It is the per-instance color format uploaded for both edges and nodes.
type RGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Vec4 returns the color as an mgl32.Vec4 (r, g, b, a).
func (c RGBA) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// NRGBA converts the color to an 8-bit straight-alpha color.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp255(c.R*255 + 0.5)),
		G: uint8(clamp255(c.G*255 + 0.5)),
		B: uint8(clamp255(c.B*255 + 0.5)),
		A: uint8(clamp255(c.A*255 + 0.5)),
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with an optional
// leading '#'. Unrecognized lengths yield opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint32
	a = 255

	switch len(hex) {
	case 3:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	case 8:
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
		parseHex(hex[6:8], &a)
	default:
		return RGBA{A: 1}
	}

	return RGBA{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

func clamp255(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// defaultPalette is the stock node palette.
var defaultPalette = []string{
	"5FB49C", "F2B134", "F93943", "6EF9F5", "B33C86",
	"E4FF1A", "FFB800", "FF5714", "FFEECF", "4D9078",
	"D5F2E3", "FBF5F3", "C6CAED", "A288E3", "CCFFCB",
}

// Palette hands out colors in a fixed cycle. The zero value is not usable;
// create one with NewPalette.
//
// Palette is NOT safe for concurrent use.
type Palette struct {
	colors []RGBA
	idx    int
}

// NewPalette returns a palette cycling over the given colors, or over the
// built-in 15-color palette when none are given.
func NewPalette(colors ...RGBA) *Palette {
	if len(colors) == 0 {
		colors = make([]RGBA, len(defaultPalette))
		for i, h := range defaultPalette {
			colors[i] = Hex(h)
		}
	}
	return &Palette{colors: colors}
}

// Next returns the next color, wrapping around at the end of the palette.
func (p *Palette) Next() RGBA {
	c := p.colors[p.idx%len(p.colors)]
	p.idx++
	return c
}

// Len returns the number of distinct colors in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}
