//go:build !nogpu

// Package gpu renders graphview frames with gogpu/wgpu HAL render
// pipelines.
//
// GraphRenderer owns the edge and node pipelines, the shared camera and
// style uniforms, and the per-frame instance buffers. Prepare uploads one
// frame; RecordDraws records both instanced draws into a render pass the
// caller owns, edges first so nodes cover edge ends.
//
// Target wraps a GraphRenderer with an offscreen MSAA color texture,
// a single-sample resolve texture, and CPU readback into an *image.RGBA.
//
// Device opens a Vulkan adapter or borrows a HAL device from a host that
// exposes HalDevice() and HalQueue().
package gpu
