//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/graphview"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyRowAlignment is the bytes-per-row alignment required by
// CopyTextureToBuffer.
const copyRowAlignment = 256

// fenceTimeout bounds the wait for one offscreen frame.
const fenceTimeout = 5 * time.Second

// Target renders frames offscreen: an MSAA color texture resolved into a
// single-sample texture, which is copied to a staging buffer and read
// back. With a sample count of 1 the pass renders straight into the
// resolve texture.
//
// Target is NOT safe for concurrent use.
type Target struct {
	renderer *GraphRenderer
	device   hal.Device
	queue    hal.Queue

	msaaTex     hal.Texture
	msaaView    hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView

	width, height uint32
	clear         gputypes.Color
}

// NewTarget creates an offscreen target for r. Textures are created on
// the first Render.
func NewTarget(r *GraphRenderer, device hal.Device, queue hal.Queue) *Target {
	return &Target{
		renderer: r,
		device:   device,
		queue:    queue,
		clear:    clearColor(graphview.DefaultBackground),
	}
}

// SetClearColor sets the color the pass clears to. The default is
// graphview.DefaultBackground.
func (t *Target) SetClearColor(c graphview.RGBA) {
	t.clear = clearColor(c)
}

func clearColor(c graphview.RGBA) gputypes.Color {
	return gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// Size returns the current texture dimensions.
func (t *Target) Size() (uint32, uint32) {
	return t.width, t.height
}

// Render draws frame into a width x height image.
func (t *Target) Render(frame *graphview.Frame, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	switch t.renderer.Format() {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm:
	default:
		return nil, fmt.Errorf("readback of format %v is not supported", t.renderer.Format())
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // checked positive above
	if err := t.ensureTextures(w, h); err != nil {
		return nil, fmt.Errorf("ensure textures: %w", err)
	}
	if err := t.renderer.Prepare(frame); err != nil {
		return nil, err
	}
	return t.encodeAndReadback(w, h)
}

// Destroy releases the textures. The GraphRenderer is not destroyed.
func (t *Target) Destroy() {
	t.destroyTextures()
}

// ensureTextures creates or recreates the textures if the requested
// dimensions differ from the current size.
func (t *Target) ensureTextures(w, h uint32) error {
	if t.width == w && t.height == h && t.resolveTex != nil {
		return nil
	}
	t.destroyTextures()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}
	format := t.renderer.Format()

	if samples := t.renderer.SampleCount(); samples > 1 {
		tex, view, err := t.createTexture("graph_msaa", size, samples, format,
			gputypes.TextureUsageRenderAttachment)
		if err != nil {
			t.destroyTextures()
			return err
		}
		t.msaaTex, t.msaaView = tex, view
	}

	tex, view, err := t.createTexture("graph_resolve", size, 1, format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		t.destroyTextures()
		return err
	}
	t.resolveTex, t.resolveView = tex, view

	t.width = w
	t.height = h
	slogger().Debug("offscreen textures created", "width", w, "height", h, "samples", t.renderer.SampleCount())
	return nil
}

func (t *Target) createTexture(
	label string, size hal.Extent3D, samples uint32,
	format gputypes.TextureFormat, usage gputypes.TextureUsage,
) (hal.Texture, hal.TextureView, error) {
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s texture: %w", label, err)
	}
	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

// destroyTextures releases all texture resources and resets dimensions.
func (t *Target) destroyTextures() {
	if t.device == nil {
		return
	}
	if t.resolveView != nil {
		t.device.DestroyTextureView(t.resolveView)
		t.resolveView = nil
	}
	if t.resolveTex != nil {
		t.device.DestroyTexture(t.resolveTex)
		t.resolveTex = nil
	}
	if t.msaaView != nil {
		t.device.DestroyTextureView(t.msaaView)
		t.msaaView = nil
	}
	if t.msaaTex != nil {
		t.device.DestroyTexture(t.msaaTex)
		t.msaaTex = nil
	}
	t.width = 0
	t.height = 0
}

// colorAttachment renders into the MSAA view and resolves, or renders
// straight into the resolve view when multisampling is off.
func (t *Target) colorAttachment() hal.RenderPassColorAttachment {
	ca := hal.RenderPassColorAttachment{
		View:       t.resolveView,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: t.clear,
	}
	if t.msaaView != nil {
		ca.View = t.msaaView
		ca.ResolveTarget = t.resolveView
	}
	return ca
}

// encodeAndReadback encodes the graph pass, copies the resolve texture to
// a staging buffer, submits, waits, and reads back pixels.
func (t *Target) encodeAndReadback(w, h uint32) (*image.RGBA, error) {
	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "graph_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("graph_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            "graph_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{t.colorAttachment()},
	})
	t.renderer.RecordDraws(rp)
	rp.End()

	// The resolve texture leaves the pass as a render attachment; the copy
	// needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := alignUp(w*4, copyRowAlignment)
	stagingSize := uint64(bytesPerRow) * uint64(h)
	stagingBuf, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "graph_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer t.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(t.resolveTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: bytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer t.device.FreeCommandBuffer(cmdBuf)

	fence, err := t.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer t.device.DestroyFence(fence)

	if err := t.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := t.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := t.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readbackImage(readback, int(w), int(h), int(bytesPerRow),
		t.renderer.Format() == gputypes.TextureFormatBGRA8Unorm), nil
}

// readbackImage converts padded staging rows into an RGBA image, swapping
// red and blue for BGRA data.
func readbackImage(data []byte, w, h, bytesPerRow int, bgra bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := data[y*bytesPerRow : y*bytesPerRow+w*4]
		dst := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(dst, src)
		if bgra {
			for i := 0; i < len(dst); i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return img
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) / align * align
}
