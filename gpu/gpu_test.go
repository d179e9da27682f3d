//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/graphview"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider and exposes a noop HAL
// device.
type mockProvider struct {
	halDevice hal.Device
	halQueue  hal.Queue
	format    gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) HalDevice() any                        { return m.halDevice }
func (m *mockProvider) HalQueue() any                         { return m.halQueue }

// bareProvider has no HAL access.
type bareProvider struct{ mockProvider }

func (bareProvider) HalDevice() {}

func newMockProvider(t *testing.T) *mockProvider {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	openDev, err := instance.EnumerateAdapters(nil)[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return &mockProvider{
		halDevice: openDev.Device,
		halQueue:  openDev.Queue,
		format:    gputypes.TextureFormatRGBA8Unorm,
	}
}

func sampleFrame() *graphview.Frame {
	p := graphview.NewPalette()
	a := graphview.NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{-100, 0, 0}, mgl32.QuatIdent(), p.Next())
	b := graphview.NewNode(mgl32.Vec2{50, 50}, mgl32.Vec3{100, 0, 0}, mgl32.QuatIdent(), p.Next())
	return &graphview.Frame{
		Camera: graphview.NewOrthoCamera(320, 240).Camera(),
		Nodes:  []graphview.Node{a, b},
		Edges:  []graphview.Edge{graphview.NewEdge(a.Center, b.Center, graphview.RGB(1, 1, 1), 10)},
	}
}

func TestNewFromProvider(t *testing.T) {
	r, err := NewFromProvider(newMockProvider(t))
	if err != nil {
		t.Fatalf("NewFromProvider failed: %v", err)
	}
	defer r.Close()

	if r.DeviceName() != "shared" {
		t.Errorf("DeviceName() = %q", r.DeviceName())
	}
	r.SetClearColor(graphview.RGB(0, 0, 0))
	img, err := r.Render(sampleFrame(), 320, 240)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestNewFromProviderFormat(t *testing.T) {
	p := newMockProvider(t)
	r, err := NewFromProvider(p)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if got := r.graph.Format(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v, want provider surface format", got)
	}
	if got := r.graph.SampleCount(); got != 1 {
		t.Errorf("samples = %d, want 1 for a host pass", got)
	}

	r2, err := NewFromProvider(p, WithFormat(gputypes.TextureFormatBGRA8Unorm), WithSampleCount(4))
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Close()
	if got := r2.graph.Format(); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("format = %v, want explicit option to win", got)
	}
	if got := r2.graph.SampleCount(); got != 4 {
		t.Errorf("samples = %d, want explicit option to win", got)
	}
}

func TestNewFromProviderRejects(t *testing.T) {
	if _, err := NewFromProvider(nil); err == nil {
		t.Error("nil provider accepted")
	}
	if _, err := NewFromProvider(&bareProvider{}); err == nil {
		t.Error("provider without HAL access accepted")
	}
}

func TestRendererPrepare(t *testing.T) {
	r, err := NewFromProvider(newMockProvider(t), WithStyle(graphview.DefaultStyle()))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if err := r.Prepare(sampleFrame()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if edges, nodes := r.graph.Counts(); edges != 1 || nodes != 2 {
		t.Errorf("Counts() = %d, %d", edges, nodes)
	}
}
