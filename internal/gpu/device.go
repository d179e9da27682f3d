//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNoHALProvider is returned by SharedDevice when the provider does not
// expose HAL handles.
var ErrNoHALProvider = errors.New("gpu: provider does not expose HAL types")

// Device is a HAL device and queue the renderer draws with. A device from
// OpenVulkan is owned and destroyed by Close; a shared device is not.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
	shared   bool
}

// OpenVulkan opens the first discrete or integrated GPU on the Vulkan
// backend, or the first adapter if there is neither.
func OpenVulkan() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}
	selected := selectAdapter(adapters)
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	slogger().Info("GPU device opened", "adapter", selected.Info.Name, "type", selected.Info.DeviceType)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
	}, nil
}

// selectAdapter prefers a discrete GPU, then an integrated one, over
// software and virtual adapters.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for _, want := range []gputypes.DeviceType{
		gputypes.DeviceTypeDiscreteGPU,
		gputypes.DeviceTypeIntegratedGPU,
	} {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return &adapters[i]
			}
		}
	}
	return &adapters[0]
}

// SharedDevice borrows the device of a host application. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue.
func SharedDevice(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	slogger().Info("using shared GPU device")
	return &Device{device: device, queue: queue, name: "shared", shared: true}, nil
}

// HAL returns the device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// Name returns the adapter name, or "shared" for a borrowed device.
func (d *Device) Name() string { return d.name }

// Shared reports whether the device belongs to a host application.
func (d *Device) Shared() bool { return d.shared }

// Close destroys an owned device and its instance. Shared devices are
// left to their owner.
func (d *Device) Close() {
	if !d.shared {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}
