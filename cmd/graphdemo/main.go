// Command graphdemo renders a small graph to PNG.
//
// The software renderer is used unless -gpu is given; if the GPU cannot be
// opened the demo falls back to software.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/graphview"
	"github.com/gogpu/graphview/gpu"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "graph.png", "output file")
		scale   = flag.Float64("scale", 1, "camera zoom")
		ring    = flag.Int("ring", 0, "extra nodes placed on a ring around the sample graph")
		useGPU  = flag.Bool("gpu", false, "render with the Vulkan backend")
		workers = flag.Int("workers", 0, "software renderer workers (0 = GOMAXPROCS)")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		graphview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cam := graphview.NewOrthoCamera(float32(*width), float32(*height))
	cam.SetScale(float32(*scale))
	frame := sampleGraph(*ring)
	frame.Camera = cam.Camera()

	var (
		img *image.RGBA
		err error
	)
	if *useGPU {
		img, err = renderGPU(&frame, *width, *height)
		if err != nil {
			graphview.Logger().Warn("GPU render failed, using software renderer", "err", err)
		}
	}
	if img == nil {
		r := graphview.NewSoftwareRenderer(*width, *height, graphview.WithWorkers(*workers))
		img, err = r.Render(&frame)
		r.Close()
		if err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
	}

	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Graph saved to %s (%dx%d, %d nodes, %d edges)\n",
		*output, *width, *height, len(frame.Nodes), len(frame.Edges))
}

// sampleGraph builds four nodes joined by three edges, plus ring extra
// nodes connected in a cycle.
func sampleGraph(ring int) graphview.Frame {
	var f graphview.Frame
	node := func(x, y float32, c graphview.RGBA) {
		f.Nodes = append(f.Nodes, graphview.NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{x, y, 0}, mgl32.QuatIdent(), c))
	}
	edge := func(a, b int, c graphview.RGBA) {
		f.Edges = append(f.Edges, graphview.NewEdge(f.Nodes[a].Center, f.Nodes[b].Center, c, 10))
	}

	green := graphview.RGB(0, 1, 0)
	node(0, 0, graphview.RGB(1, 1, 1))
	node(-100, 0, graphview.RGB(1, 0, 1))
	node(100, 0, graphview.RGB(1, 0, 0))
	node(100, -100, graphview.RGB(0, 1, 0))
	edge(0, 1, green)
	edge(1, 2, green)
	edge(0, 2, green)

	if ring <= 0 {
		return f
	}
	palette := graphview.NewPalette()
	first := len(f.Nodes)
	for i := 0; i < ring; i++ {
		angle := 2 * math.Pi * float64(i) / float64(ring)
		node(float32(250*math.Cos(angle)), float32(250*math.Sin(angle)), palette.Next())
	}
	edgeColor := graphview.Hex("C6CAED")
	for i := 0; i < ring; i++ {
		edge(first+i, first+(i+1)%ring, edgeColor)
		edge(first+i, i%first, edgeColor)
	}
	return f
}

func renderGPU(frame *graphview.Frame, width, height int) (*image.RGBA, error) {
	r, err := gpu.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	graphview.Logger().Info("rendering on GPU", "device", r.DeviceName())
	return r.Render(frame, width, height)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
