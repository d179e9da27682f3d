//go:build !nogpu

package gpu

import (
	"github.com/gogpu/graphview"
	"github.com/gogpu/gputypes"
)

// sampleCount is the default MSAA sample count for both pipelines.
const sampleCount = 4

// Option configures a GraphRenderer.
type Option func(*config)

type config struct {
	style   graphview.Style
	format  gputypes.TextureFormat
	samples uint32
	spirv   bool
}

func defaultConfig() config {
	return config{
		style:   graphview.DefaultStyle(),
		format:  gputypes.TextureFormatBGRA8Unorm,
		samples: sampleCount,
	}
}

// WithStyle sets the shading constants uploaded at binding 1.
func WithStyle(s graphview.Style) Option {
	return func(c *config) { c.style = s }
}

// WithFormat sets the color target format of both pipelines.
// It must match the render pass the draws are recorded into.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(c *config) { c.format = f }
}

// WithSampleCount sets the MSAA sample count. Values below 1 mean 1.
func WithSampleCount(n uint32) Option {
	return func(c *config) { c.samples = max(n, 1) }
}

// WithSPIRV compiles the WGSL programs to SPIR-V with naga before handing
// them to the device.
func WithSPIRV() Option {
	return func(c *config) { c.spirv = true }
}
