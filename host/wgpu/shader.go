package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/glprint"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// sceneShaderWGSL is the WGSL form of the probe scene program. The GLSL
// sources a context receives are checked against it stage by stage, and the
// compiled module is handed to the device so a broken driver fails the
// scene the way a browser would.
const sceneShaderWGSL = `
struct Uniforms {
    offset: vec2<f32>,
}

@group(0) @binding(0) var<uniform> uniforms: Uniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) coord: vec2<f32>,
}

@vertex
fn vs_main(@location(0) vertex: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.coord = vertex + uniforms.offset;
    out.position = vec4<f32>(vertex, 0.0, 1.0);
    return out;
}

@fragment
fn fs_main(@location(0) coord: vec2<f32>) -> @location(0) vec4<f32> {
    return vec4<f32>(coord, 0.0, 1.0);
}
`

// ErrShaderStage is returned for a GLSL stage the device program does not
// cover.
var ErrShaderStage = errors.New("wgpu: unsupported shader stage")

// ErrClosed is returned for shaders compiled after Close.
var ErrClosed = errors.New("wgpu: host closed")

// shaderCache compiles sceneShaderWGSL once per process.
var shaderCache struct {
	once  sync.Once
	spirv []uint32
	err   error
}

func sceneSPIRV() ([]uint32, error) {
	shaderCache.once.Do(func() {
		b, err := naga.Compile(sceneShaderWGSL)
		if err != nil {
			shaderCache.err = fmt.Errorf("naga: %w", err)
			return
		}
		shaderCache.spirv, shaderCache.err = spirvWords(b)
	})
	return shaderCache.spirv, shaderCache.err
}

// spirvWords reinterprets little-endian SPIR-V bytes as words.
func spirvWords(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("spirv: invalid length %d", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

// stageMarkers are the GLSL features each stage must use to map onto the
// WGSL entry points.
var stageMarkers = map[glprint.Enum][]string{
	glprint.VERTEX_SHADER:   {"attribute", "uniform", "gl_Position"},
	glprint.FRAGMENT_SHADER: {"varying", "gl_FragColor"},
}

// compiler validates GLSL sources against the device by creating the
// equivalent shader module.
type compiler struct {
	host *Host
}

func (c *compiler) compile(shaderType glprint.Enum, source string) error {
	markers, ok := stageMarkers[shaderType]
	if !ok {
		return fmt.Errorf("%w: %#x", ErrShaderStage, uint32(shaderType))
	}
	for _, m := range markers {
		if !strings.Contains(source, m) {
			return fmt.Errorf("%w: source does not use %s", ErrShaderStage, m)
		}
	}

	device := c.host.device
	if device == nil {
		return ErrClosed
	}
	code, err := sceneSPIRV()
	if err != nil {
		return err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glprint_scene",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	device.DestroyShaderModule(module)
	return nil
}
