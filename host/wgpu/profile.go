package wgpu

import (
	"fmt"
	"runtime"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/host/soft"
	"github.com/gogpu/gputypes"
)

// platforms maps GOOS to the navigator.platform a browser on that system
// reports.
var platforms = map[string]string{
	"windows": "Win32",
	"darwin":  "MacIntel",
	"linux":   "Linux x86_64",
	"android": "Linux armv8l",
	"freebsd": "FreeBSD amd64",
}

// Platform returns the browser platform string for goos.
func Platform(goos string) string {
	if p, ok := platforms[goos]; ok {
		return p
	}
	return goos
}

// ProfileFor maps adapter information and device limits onto a soft
// profile: texture and attachment limits become the matching GL limits,
// the adapter identity becomes the unmasked vendor and renderer, and a
// non-hardware adapter reports a major performance caveat.
func ProfileFor(info GPUInfo, limits gputypes.Limits) soft.Profile {
	p := soft.DefaultProfile()
	p.Agent = "Mozilla/5.0 (" + runtime.GOOS + "; " + runtime.GOARCH + ") glprint-wgpu/" + glprint.Version
	p.Platform = Platform(runtime.GOOS)

	vendor := info.Vendor
	if vendor == "" {
		vendor = "Unknown"
	}
	p.Params[glprint.UNMASKED_VENDOR_WEBGL] = vendor
	p.Params[glprint.UNMASKED_RENDERER_WEBGL] = fmt.Sprintf("ANGLE (%s, %s, %s)", vendor, info.Name, info.Backend)

	tex2D := int(limits.MaxTextureDimension2D)
	if tex2D > 0 {
		p.Params[glprint.MAX_TEXTURE_SIZE] = tex2D
		p.Params[glprint.MAX_CUBE_MAP_TEXTURE_SIZE] = tex2D
		p.Params[glprint.MAX_RENDERBUFFER_SIZE] = tex2D
		p.Params[glprint.MAX_VIEWPORT_DIMS] = []int32{int32(tex2D), int32(tex2D)}
	}
	setPositive(p.Params, glprint.MAX_VERTEX_ATTRIBS, int(limits.MaxVertexAttributes))
	setPositive(p.Params, glprint.MAX_TEXTURE_IMAGE_UNITS, int(limits.MaxSampledTexturesPerShaderStage))
	setPositive(p.Params, glprint.MAX_VERTEX_TEXTURE_IMAGE_UNITS, int(limits.MaxSampledTexturesPerShaderStage))
	setPositive(p.Params, glprint.MAX_COMBINED_TEXTURE_IMAGE_UNITS, 2*int(limits.MaxSampledTexturesPerShaderStage))

	setPositive(p.Params2, glprint.MAX_3D_TEXTURE_SIZE, int(limits.MaxTextureDimension3D))
	setPositive(p.Params2, glprint.MAX_ARRAY_TEXTURE_LAYERS, int(limits.MaxTextureArrayLayers))
	setPositive(p.Params2, glprint.MAX_COLOR_ATTACHMENTS, int(limits.MaxColorAttachments))
	setPositive(p.Params2, glprint.MAX_DRAW_BUFFERS, int(limits.MaxColorAttachments))
	setPositive(p.Params2, glprint.MAX_UNIFORM_BLOCK_SIZE, int(limits.MaxUniformBufferBindingSize))
	setPositive(p.Params2, glprint.UNIFORM_BUFFER_OFFSET_ALIGNMENT, int(limits.MinUniformBufferOffsetAlignment))

	p.MajorPerformanceCaveat = !info.Hardware()
	return p
}

func setPositive(m map[glprint.Enum]any, pname glprint.Enum, v int) {
	if v > 0 {
		m[pname] = v
	}
}
