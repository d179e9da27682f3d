// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

// crossFrame is a 200x200 view with a horizontal green edge through the
// middle and a red node of radius 50 on top of it.
func crossFrame() *Frame {
	return &Frame{
		Camera: NewOrthoCamera(200, 200).Camera(),
		Edges: []Edge{
			NewEdge(mgl32.Vec3{-100, 0, 0}, mgl32.Vec3{100, 0, 0}, RGB(0, 1, 0), 10),
		},
		Nodes: []Node{
			NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent(), RGB(1, 0, 0)),
		},
	}
}

func newTestRenderer(t *testing.T, opts ...SoftwareOption) *SoftwareRenderer {
	t.Helper()
	opts = append([]SoftwareOption{WithBackground(RGB(0, 0, 0))}, opts...)
	r := NewSoftwareRenderer(200, 200, opts...)
	t.Cleanup(r.Close)
	return r
}

func TestSoftwareRendererPixels(t *testing.T) {
	r := newTestRenderer(t)
	img, err := r.Render(crossFrame())
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"background corner", 5, 5, black},
		{"edge left", 10, 100, green},
		{"edge right", 190, 95, green},
		{"above edge", 10, 80, black},
		{"node center", 100, 100, red},
		{"node inside", 100, 60, red},
		{"quad corner outside disk", 55, 55, black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSoftwareRendererRimBlend(t *testing.T) {
	r := newTestRenderer(t)
	f := crossFrame()
	f.Edges = nil
	img, err := r.Render(f)
	if err != nil {
		t.Fatal(err)
	}
	// The pixel straddling the rim on the +x axis is partially covered.
	var partial bool
	for x := 147; x <= 152; x++ {
		c := img.RGBAAt(x, 100)
		if c.R > 10 && c.R < 245 {
			partial = true
			if c.G != 0 || c.B != 0 || c.A != 255 {
				t.Errorf("rim pixel %d = %v, want red over opaque black", x, c)
			}
		}
	}
	if !partial {
		t.Error("no antialiased pixel on the disk rim")
	}
}

// Edges write without blending: a later edge replaces an earlier one where
// they cross and leaves it untouched elsewhere.
func TestSoftwareRendererEdgesReplace(t *testing.T) {
	r := newTestRenderer(t)
	f := &Frame{
		Camera: NewOrthoCamera(200, 200).Camera(),
		Edges: []Edge{
			NewEdge(mgl32.Vec3{-100, 0, 0}, mgl32.Vec3{100, 0, 0}, RGB(0, 1, 0), 10),
			NewEdge(mgl32.Vec3{0, -100, 0}, mgl32.Vec3{0, 100, 0}, RGBA{R: 1, A: 0.5}, 10),
		},
	}
	img, err := r.Render(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(20, 100); got != green {
		t.Errorf("first edge = %v, want green", got)
	}
	want := color.RGBA{R: 255, A: 128}
	if got := img.RGBAAt(100, 100); got != want {
		t.Errorf("crossing = %v, want %v", got, want)
	}
	if got := img.RGBAAt(100, 20); got != want {
		t.Errorf("second edge = %v, want %v", got, want)
	}
	if got := img.RGBAAt(20, 20); got != black {
		t.Errorf("background = %v, want black", got)
	}
}

// Edges are rasterized within their own pixel area, including edges that
// start away from the origin or run off the target.
func TestSoftwareRendererEdgeArea(t *testing.T) {
	r := newTestRenderer(t)
	f := &Frame{
		Camera: NewOrthoCamera(200, 200).Camera(),
		Edges: []Edge{
			NewEdge(mgl32.Vec3{-150, -50, 0}, mgl32.Vec3{50, -50, 0}, RGB(0, 1, 0), 5),
			NewEdge(mgl32.Vec3{-20, 40, 0}, mgl32.Vec3{20, 40, 0}, RGB(0, 1, 0), 5),
		},
	}
	img, err := r.Render(f)
	if err != nil {
		t.Fatal(err)
	}
	if sz := r.raster.Size(); sz.X > 42 || sz.Y > 12 {
		t.Errorf("rasterizer size = %v, want the last edge's area", sz)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"inner center", 100, 60, green},
		{"inner near left end", 82, 58, green},
		{"inner above", 100, 52, black},
		{"inner past end", 75, 60, black},
		{"clipped at left border", 1, 150, green},
		{"clipped near right end", 148, 150, green},
		{"clipped past end", 160, 150, black},
		{"between edges", 100, 100, black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// Nodes blend in submission order, so the last node wins where both are
// opaque.
func TestSoftwareRendererNodeOrder(t *testing.T) {
	r := newTestRenderer(t)
	f := &Frame{
		Camera: NewOrthoCamera(200, 200).Camera(),
		Nodes: []Node{
			NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{-20, 0, 0}, mgl32.QuatIdent(), RGB(1, 0, 0)),
			NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{20, 0, 0}, mgl32.QuatIdent(), RGB(0, 1, 0)),
		},
	}
	img, err := r.Render(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(100, 100); got != green {
		t.Errorf("overlap = %v, want second node", got)
	}
	if got := img.RGBAAt(45, 100); got != red {
		t.Errorf("first node only = %v, want red", got)
	}
}

func TestSoftwareRendererTranslucentNode(t *testing.T) {
	r := newTestRenderer(t)
	f := &Frame{
		Camera: NewOrthoCamera(200, 200).Camera(),
		Nodes: []Node{
			NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{}, mgl32.QuatIdent(), RGBA{R: 1, G: 1, B: 1, A: 1}),
		},
	}
	img, err := r.Render(f)
	if err != nil {
		t.Fatal(err)
	}
	// Instance alpha is replaced by the disk mask, so the center is opaque.
	f.Nodes[0].Color.A = 0.25
	img2, err := r.Render(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.RGBAAt(100, 100) != img2.RGBAAt(100, 100) {
		t.Errorf("instance alpha changed output: %v vs %v", img.RGBAAt(100, 100), img2.RGBAAt(100, 100))
	}
}

func TestSoftwareRendererWorkersAgree(t *testing.T) {
	f := sampleFrame()
	one := NewSoftwareRenderer(800, 600, WithWorkers(1))
	defer one.Close()
	many := NewSoftwareRenderer(800, 600, WithWorkers(8))
	defer many.Close()

	a, err := one.Render(&f)
	if err != nil {
		t.Fatal(err)
	}
	b, err := many.Render(&f)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("byte %d differs: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestSoftwareRendererErrors(t *testing.T) {
	r := newTestRenderer(t)

	f := crossFrame()
	f.Camera.Scale = 0
	if _, err := r.Render(f); !errors.Is(err, ErrInvalidCamera) {
		t.Errorf("Render(zero scale) = %v, want ErrInvalidCamera", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := r.RenderTo(dst, crossFrame()); err == nil {
		t.Error("RenderTo(wrong size) succeeded")
	}

	bad := NewSoftwareRenderer(200, 200, WithSoftwareStyle(Style{}))
	defer bad.Close()
	if _, err := bad.Render(crossFrame()); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("Render(zero style) = %v, want ErrInvalidStyle", err)
	}
}

func TestSoftwareRendererAfterClose(t *testing.T) {
	r := NewSoftwareRenderer(200, 200, WithBackground(RGB(0, 0, 0)))
	r.Close()
	img, err := r.Render(crossFrame())
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(100, 100); got != red {
		t.Errorf("center after Close = %v, want red", got)
	}
}
