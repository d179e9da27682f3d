//go:build !nogpu

// Package gpu draws graphview frames on a GPU.
//
// Open creates a renderer on its own Vulkan device. NewFromProvider shares
// the device of a host application that implements
// gpucontext.DeviceProvider and exposes HAL handles through HalDevice()
// and HalQueue().
//
// Usage:
//
//	r, err := gpu.Open()
//	if err != nil {
//		// fall back to graphview.NewSoftwareRenderer
//	}
//	defer r.Close()
//	img, err := r.Render(&frame, 800, 600)
package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/graphview"
	gpuimpl "github.com/gogpu/graphview/internal/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a Renderer.
type Option = gpuimpl.Option

// WithStyle sets the shading constants.
func WithStyle(s graphview.Style) Option { return gpuimpl.WithStyle(s) }

// WithFormat sets the color target format. NewFromProvider defaults it to
// the provider's surface format.
func WithFormat(f gputypes.TextureFormat) Option { return gpuimpl.WithFormat(f) }

// WithSampleCount sets the MSAA sample count (default 4).
func WithSampleCount(n uint32) Option { return gpuimpl.WithSampleCount(n) }

// WithSPIRV hands the device SPIR-V compiled by naga instead of WGSL.
func WithSPIRV() Option { return gpuimpl.WithSPIRV() }

// Renderer draws frames offscreen or into a render pass owned by the
// caller.
//
// Renderer is NOT safe for concurrent use.
type Renderer struct {
	dev    *gpuimpl.Device
	graph  *gpuimpl.GraphRenderer
	target *gpuimpl.Target
}

// Open creates a renderer on a new Vulkan device.
func Open(opts ...Option) (*Renderer, error) {
	dev, err := gpuimpl.OpenVulkan()
	if err != nil {
		return nil, fmt.Errorf("graphview/gpu: %w", err)
	}
	return newRenderer(dev, opts), nil
}

// NewFromProvider creates a renderer on the device of provider. The
// provider keeps ownership of the device.
//
// The pipelines default to the provider's surface format and a single
// sample so RecordDraws fits a host's swapchain pass. Pass
// WithSampleCount to draw into a multisampled pass instead.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	if provider == nil {
		return nil, fmt.Errorf("graphview/gpu: nil provider")
	}
	dev, err := gpuimpl.SharedDevice(provider)
	if err != nil {
		return nil, fmt.Errorf("graphview/gpu: %w", err)
	}
	defaults := []Option{gpuimpl.WithSampleCount(1)}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		defaults = append(defaults, gpuimpl.WithFormat(f))
	}
	opts = append(defaults, opts...)
	return newRenderer(dev, opts), nil
}

func newRenderer(dev *gpuimpl.Device, opts []Option) *Renderer {
	device, queue := dev.HAL()
	graph := gpuimpl.NewGraphRenderer(device, queue, opts...)
	return &Renderer{
		dev:    dev,
		graph:  graph,
		target: gpuimpl.NewTarget(graph, device, queue),
	}
}

// DeviceName returns the adapter name.
func (r *Renderer) DeviceName() string { return r.dev.Name() }

// SetClearColor sets the background of offscreen renders.
func (r *Renderer) SetClearColor(c graphview.RGBA) { r.target.SetClearColor(c) }

// Render draws frame offscreen and reads it back.
func (r *Renderer) Render(frame *graphview.Frame, width, height int) (*image.RGBA, error) {
	return r.target.Render(frame, width, height)
}

// Prepare uploads frame for a following RecordDraws.
func (r *Renderer) Prepare(frame *graphview.Frame) error {
	return r.graph.Prepare(frame)
}

// RecordDraws records the edge and node draws into rp. The pass must
// target the renderer's format and sample count.
func (r *Renderer) RecordDraws(rp hal.RenderPassEncoder) {
	r.graph.RecordDraws(rp)
}

// Close releases GPU resources, and the device if the renderer owns it.
func (r *Renderer) Close() {
	r.target.Destroy()
	r.graph.Destroy()
	r.dev.Close()
}
