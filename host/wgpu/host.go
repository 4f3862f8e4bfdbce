// Package wgpu provides a glprint host backed by a native GPU adapter.
//
// The host opens a device through the gogpu/wgpu HAL, describes the adapter
// as a soft profile (limits, vendor, renderer, performance caveat) and
// validates the scene shaders on the device before the soft rasterizer
// draws them. A host built on the same adapter and driver always produces
// the same fingerprint.
//
// Importing the package registers it as "wgpu":
//
//	import _ "github.com/gogpu/glprint/host/wgpu"
package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/host/soft"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// HostName is the registry name of the wgpu host.
const HostName = "wgpu"

// Errors returned while opening a device.
var (
	ErrNoBackend  = errors.New("wgpu: backend not available")
	ErrNoAdapter  = errors.New("wgpu: no GPU adapters found")
	ErrNoHALTypes = errors.New("wgpu: provider does not expose HAL types")
)

func init() {
	glprint.RegisterHost(HostName, func() (glprint.Host, error) {
		return New()
	})
}

type config struct {
	backend  gputypes.Backend
	provider gpucontext.DeviceProvider
	softOpts []soft.Option
}

// Option configures a Host.
type Option func(*config)

// WithBackend selects the HAL backend New opens. The default is Vulkan.
func WithBackend(b gputypes.Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithDeviceProvider reuses the device of an external provider (e.g.,
// gogpu) instead of opening one. The provider must implement HalDevice()
// any and HalQueue() any returning hal.Device and hal.Queue.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithSoftOptions passes options to the underlying soft host. They apply
// after the adapter profile.
func WithSoftOptions(opts ...soft.Option) Option {
	return func(c *config) {
		c.softOpts = append(c.softOpts, opts...)
	}
}

// Host is a glprint.Host whose profile comes from a GPU adapter.
type Host struct {
	*soft.Host

	info     GPUInfo
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
}

// New opens a device on the configured backend, or adopts the device of
// WithDeviceProvider.
func New(opts ...Option) (*Host, error) {
	c := config{backend: gputypes.BackendVulkan}
	for _, opt := range opts {
		opt(&c)
	}
	if c.provider != nil {
		return fromProvider(c)
	}

	backend, ok := hal.GetBackend(c.backend)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoBackend, c.backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	h, err := fromInstance(instance, c)
	if err != nil {
		instance.Destroy()
		return nil, err
	}
	return h, nil
}

// NewFromInstance opens a device on an adapter of instance. The caller
// keeps ownership of instance.
func NewFromInstance(instance hal.Instance, opts ...Option) (*Host, error) {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	h, err := fromInstance(instance, c)
	if err != nil {
		return nil, err
	}
	h.instance = nil
	return h, nil
}

func fromInstance(instance hal.Instance, c config) (*Host, error) {
	adapter := selectAdapter(instance.EnumerateAdapters(nil))
	if adapter == nil {
		return nil, ErrNoAdapter
	}
	openDev, err := adapter.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	// The profile reports what the adapter supports, not what the device
	// was opened with, as a browser does.
	limits := adapter.Capabilities.Limits
	info := gpuInfo(adapter)
	h := &Host{
		info:     info,
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}
	h.Host = h.newSoft(ProfileFor(info, limits), c.softOpts)
	glprint.Logger().Info("wgpu: host initialized", "adapter", info.Name, "backend", info.Backend)
	return h, nil
}

func fromProvider(c config) (*Host, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := c.provider.(halProvider)
	if !ok {
		return nil, ErrNoHALTypes
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALTypes)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALTypes)
	}

	info := providerInfo(c.provider.AdapterInfo(), c.backend)
	h := &Host{
		info:     info,
		device:   device,
		queue:    queue,
		external: true,
	}
	// DeviceProvider exposes no adapter limits.
	h.Host = h.newSoft(ProfileFor(info, gputypes.DefaultLimits()), c.softOpts)
	glprint.Logger().Info("wgpu: host using shared device", "adapter", info.Name, "type", info.DeviceType)
	return h, nil
}

func (h *Host) newSoft(p soft.Profile, extra []soft.Option) *soft.Host {
	comp := &compiler{host: h}
	opts := append([]soft.Option{soft.WithProfile(p), soft.WithCompiler(comp.compile)}, extra...)
	return soft.New(opts...)
}

// Info returns the adapter description.
func (h *Host) Info() GPUInfo {
	return h.info
}

// Close releases the device and instance the host opened. A shared device
// is left alone.
func (h *Host) Close() error {
	if !h.external && h.device != nil {
		h.device.Destroy()
	}
	if h.instance != nil {
		h.instance.Destroy()
	}
	h.device, h.queue, h.instance = nil, nil, nil
	return nil
}
