// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import (
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/graphview/internal/parallel"
)

// softwareBandHeight is the number of rows one node-shading job covers.
const softwareBandHeight = 32

// SoftwareRenderer draws a Frame on the CPU with the same geometry and
// shading math as the GPU programs. Edges are drawn first without
// blending, then nodes with straight-alpha blending, each in submission
// order.
//
// SoftwareRenderer is NOT safe for concurrent use.
type SoftwareRenderer struct {
	width, height int
	opts          softwareOptions
	pool          *parallel.WorkerPool
	raster        *vector.Rasterizer
	mask          *image.Alpha
}

// NewSoftwareRenderer creates a renderer for a width x height target.
func NewSoftwareRenderer(width, height int, opts ...SoftwareOption) *SoftwareRenderer {
	o := defaultSoftwareOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SoftwareRenderer{
		width:  width,
		height: height,
		opts:   o,
		pool:   parallel.NewWorkerPool(o.workers),
		raster: vector.NewRasterizer(width, height),
		mask:   image.NewAlpha(image.Rect(0, 0, width, height)),
	}
}

// Close stops the shading workers.
func (r *SoftwareRenderer) Close() {
	r.pool.Close()
}

// Size returns the target dimensions.
func (r *SoftwareRenderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws the frame into a new image.
func (r *SoftwareRenderer) Render(f *Frame) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if err := r.RenderTo(dst, f); err != nil {
		return nil, err
	}
	return dst, nil
}

// RenderTo clears dst and draws the frame into it.
func (r *SoftwareRenderer) RenderTo(dst *image.RGBA, f *Frame) error {
	if b := dst.Bounds(); b.Dx() != r.width || b.Dy() != r.height || b.Min != (image.Point{}) {
		return fmt.Errorf("graphview: target bounds %v, want %dx%d at origin", b, r.width, r.height)
	}
	malformed, edgeErr, err := f.Validate(r.opts.style)
	if err != nil {
		return err
	}
	if malformed > 0 {
		Logger().Warn("graphview: malformed edge normals", "count", malformed, "first", edgeErr)
	}

	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.opts.background.NRGBA()), image.Point{}, draw.Src)
	r.drawEdges(dst, f)
	r.drawNodes(dst, f)

	Logger().Debug("graphview: software frame",
		"edges", len(f.Edges), "nodes", len(f.Nodes), "malformed", malformed)
	return nil
}

// toPixel maps a clip-space position to framebuffer pixels (origin top-left).
func (r *SoftwareRenderer) toPixel(v mgl32.Vec4) mgl32.Vec2 {
	x, y := v[0], v[1]
	if v[3] != 0 {
		x, y = x/v[3], y/v[3]
	}
	return mgl32.Vec2{
		(x*0.5 + 0.5) * float32(r.width),
		(0.5 - y*0.5) * float32(r.height),
	}
}

// drawEdges rasterizes each edge quad into a coverage mask and writes the
// edge color over the covered pixels without blending. Partial coverage
// mixes with the destination the way an MSAA resolve does.
func (r *SoftwareRenderer) drawEdges(dst *image.RGBA, f *Frame) {
	full := r.mask.Bounds()
	for i := range f.Edges {
		e := &f.Edges[i]
		var px [4]mgl32.Vec2
		minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
		maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
		for c := range px {
			// Index is always in range, so the error is impossible.
			v, _ := EdgeVertex(&f.Camera, r.opts.style, e, c)
			p := r.toPixel(v)
			px[c] = p
			minX, maxX = min(minX, p[0]), max(maxX, p[0])
			minY, maxY = min(minY, p[1]), max(maxY, p[1])
		}
		if !finite(minX) || !finite(minY) || !finite(maxX) || !finite(maxY) {
			continue
		}
		area := image.Rect(
			int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
			int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
		).Intersect(full)
		if area.Empty() {
			continue
		}

		// The rasterizer covers only the edge's pixel area; its origin maps
		// to area.Min.
		r.raster.Reset(area.Dx(), area.Dy())
		r.raster.DrawOp = draw.Src
		ox, oy := float32(area.Min.X), float32(area.Min.Y)
		// Perimeter order: corners 0 and 3 share one side, 1 and 2 the other.
		r.raster.MoveTo(px[0][0]-ox, px[0][1]-oy)
		r.raster.LineTo(px[3][0]-ox, px[3][1]-oy)
		r.raster.LineTo(px[2][0]-ox, px[2][1]-oy)
		r.raster.LineTo(px[1][0]-ox, px[1][1]-oy)
		r.raster.ClosePath()
		r.raster.Draw(r.mask, area, image.Opaque, image.Point{})

		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				cov := r.mask.Pix[r.mask.PixOffset(x, y)]
				if cov == 0 {
					continue
				}
				writeCoverage(dst, x, y, e.Color, float32(cov)/255)
			}
		}
	}
}

// shadedNode is the per-node state computed once per frame.
type shadedNode struct {
	quad   [4]mgl32.Vec2
	bounds image.Rectangle
	center mgl32.Vec2
	color  RGBA
}

func (r *SoftwareRenderer) prepareNodes(f *Frame) []shadedNode {
	out := make([]shadedNode, 0, len(f.Nodes))
	for i := range f.Nodes {
		n := &f.Nodes[i]
		var sn shadedNode
		minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
		maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
		for c, local := range nodeQuadCorners {
			p := r.toPixel(NodeVertex(&f.Camera, n, local))
			sn.quad[c] = p
			minX, maxX = min(minX, p[0]), max(maxX, p[0])
			minY, maxY = min(minY, p[1]), max(maxY, p[1])
		}
		if !finite(minX) || !finite(minY) || !finite(maxX) || !finite(maxY) {
			continue
		}
		sn.bounds = image.Rect(
			int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
			int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
		).Intersect(image.Rect(0, 0, r.width, r.height))
		if sn.bounds.Empty() {
			continue
		}
		sn.center = NodeCenter(&f.Camera, r.opts.style, n)
		sn.color = n.Color
		out = append(out, sn)
	}
	return out
}

func (r *SoftwareRenderer) drawNodes(dst *image.RGBA, f *Frame) {
	nodes := r.prepareNodes(f)
	if len(nodes) == 0 {
		return
	}
	var work []func()
	for y0 := 0; y0 < r.height; y0 += softwareBandHeight {
		band := image.Rect(0, y0, r.width, min(y0+softwareBandHeight, r.height))
		work = append(work, func() {
			for i := range nodes {
				r.shadeNode(dst, &f.Camera, &nodes[i], band)
			}
		})
	}
	r.pool.ExecuteAll(work)
}

func (r *SoftwareRenderer) shadeNode(dst *image.RGBA, cam *Camera, n *shadedNode, band image.Rectangle) {
	area := n.bounds.Intersect(band)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			frag := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			if !insideConvex(n.quad, frag) {
				continue
			}
			a := DiskFragment(cam, r.opts.style, n.center, frag)
			if a <= 0 {
				continue
			}
			blendStraight(dst, x, y, n.color, a)
		}
	}
}

// insideConvex reports whether p lies inside the convex quad q, whichever
// winding the projection produced.
func insideConvex(q [4]mgl32.Vec2, p mgl32.Vec2) bool {
	var pos, neg bool
	for i := range q {
		a, b := q[i], q[(i+1)%len(q)]
		cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// blendStraight composites (c.rgb, alpha) over the premultiplied pixel with
// SrcAlpha / OneMinusSrcAlpha for color and One / OneMinusSrcAlpha for alpha.
func blendStraight(dst *image.RGBA, x, y int, c RGBA, alpha float32) {
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]
	inv := 1 - alpha
	p[0] = uint8(clamp255(c.R*alpha*255 + float32(p[0])*inv + 0.5))
	p[1] = uint8(clamp255(c.G*alpha*255 + float32(p[1])*inv + 0.5))
	p[2] = uint8(clamp255(c.B*alpha*255 + float32(p[2])*inv + 0.5))
	p[3] = uint8(clamp255(alpha*255 + float32(p[3])*inv + 0.5))
}

// writeCoverage replaces the pixel with the raw color channels where
// coverage is 1 and mixes linearly with the destination below that.
func writeCoverage(dst *image.RGBA, x, y int, c RGBA, cov float32) {
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]
	inv := 1 - cov
	p[0] = uint8(clamp255(c.R*cov*255 + float32(p[0])*inv + 0.5))
	p[1] = uint8(clamp255(c.G*cov*255 + float32(p[1])*inv + 0.5))
	p[2] = uint8(clamp255(c.B*cov*255 + float32(p[2])*inv + 0.5))
	p[3] = uint8(clamp255(c.A*cov*255 + float32(p[3])*inv + 0.5))
}
