package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// GPUInfo contains information about the adapter backing a host.
type GPUInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend gputypes.Backend
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

// Hardware reports whether the adapter is a real GPU rather than a CPU or
// virtual implementation.
func (g *GPUInfo) Hardware() bool {
	return g.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
		g.DeviceType == gputypes.DeviceTypeIntegratedGPU
}

func gpuInfo(a *hal.ExposedAdapter) GPUInfo {
	return GPUInfo{
		Name:       a.Info.Name,
		Vendor:     a.Info.Vendor,
		DeviceType: a.Info.DeviceType,
		Backend:    a.Info.Backend,
		Driver:     a.Info.Driver,
	}
}

// sharedDeviceName names a provider adapter that reports no name.
const sharedDeviceName = "shared device"

// providerInfo describes the adapter behind a shared device.
func providerInfo(a gpucontext.AdapterInfo, backend gputypes.Backend) GPUInfo {
	info := GPUInfo{Name: a.Name, Backend: backend}
	if info.Name == "" {
		info.Name = sharedDeviceName
	}
	switch a.Type {
	case gpucontext.AdapterTypeDiscrete:
		info.DeviceType = gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		info.DeviceType = gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		info.DeviceType = gputypes.DeviceTypeCPU
	default:
		info.DeviceType = gputypes.DeviceTypeOther
	}
	return info
}

// selectAdapter prefers a hardware adapter and falls back to the first one.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	if len(adapters) == 0 {
		return nil
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}
