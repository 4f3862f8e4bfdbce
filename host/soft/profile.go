package soft

import (
	"maps"
	"slices"

	"github.com/gogpu/glprint"
)

// Profile describes everything a soft context answers. Two hosts with equal
// profiles produce equal probe results.
type Profile struct {
	// Agent and Platform are reported by the host.
	Agent    string
	Platform string

	// Versions lists the exposed API versions (1 and/or 2).
	Versions []int

	// Aliases are the context names surfaces accept.
	Aliases []string

	// Params answers Parameter on every context. Params2 overrides and
	// extends it on version-2 contexts.
	Params  map[glprint.Enum]any
	Params2 map[glprint.Enum]any

	// Extensions are the supported extension names, in report order.
	Extensions []string

	// Antialias is the reported antialias attribute.
	Antialias bool

	// ReportsCaveatFlag makes contexts echo failIfMajorPerformanceCaveat
	// in their attributes.
	ReportsCaveatFlag bool

	// MajorPerformanceCaveat refuses contexts requested with
	// failIfMajorPerformanceCaveat.
	MajorPerformanceCaveat bool

	// Precision answers ShaderPrecisionFormat by precision type, for both
	// shader stages.
	Precision map[glprint.Enum]glprint.PrecisionFormat

	// MissingFunctions are WebGL 2 entry points version-2 contexts lack.
	MissingFunctions []string

	// CanvasWidth and CanvasHeight are the default surface size.
	CanvasWidth  int
	CanvasHeight int
}

// DefaultProfile returns a profile shaped like a headless Chromium running
// on a CPU rasterizer.
func DefaultProfile() Profile {
	return Profile{
		Agent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) glprint-soft/" + glprint.Version,
		Platform: "Linux x86_64",
		Versions: []int{1, 2},
		Aliases:  []string{"webgl2", "experimental-webgl2", "webgl", "experimental-webgl"},
		Params: map[glprint.Enum]any{
			glprint.VERSION:                          "WebGL 1.0 (OpenGL ES 2.0 glprint-soft)",
			glprint.SHADING_LANGUAGE_VERSION:         "WebGL GLSL ES 1.0 (OpenGL ES GLSL ES 1.0 glprint-soft)",
			glprint.VENDOR:                           "WebKit",
			glprint.RENDERER:                         "WebKit WebGL",
			glprint.MAX_VERTEX_ATTRIBS:               16,
			glprint.MAX_VERTEX_UNIFORM_VECTORS:       256,
			glprint.MAX_VERTEX_TEXTURE_IMAGE_UNITS:   16,
			glprint.MAX_VARYING_VECTORS:              15,
			glprint.ALIASED_LINE_WIDTH_RANGE:         []float32{1, 1},
			glprint.ALIASED_POINT_SIZE_RANGE:         []float32{1, 1024},
			glprint.MAX_FRAGMENT_UNIFORM_VECTORS:     256,
			glprint.MAX_TEXTURE_IMAGE_UNITS:          16,
			glprint.RED_BITS:                         8,
			glprint.GREEN_BITS:                       8,
			glprint.BLUE_BITS:                        8,
			glprint.ALPHA_BITS:                       8,
			glprint.DEPTH_BITS:                       24,
			glprint.STENCIL_BITS:                     0,
			glprint.MAX_RENDERBUFFER_SIZE:            8192,
			glprint.MAX_VIEWPORT_DIMS:                []int32{8192, 8192},
			glprint.MAX_TEXTURE_SIZE:                 8192,
			glprint.MAX_CUBE_MAP_TEXTURE_SIZE:        8192,
			glprint.MAX_COMBINED_TEXTURE_IMAGE_UNITS: 32,
			glprint.UNMASKED_VENDOR_WEBGL:            "The gogpu Authors",
			glprint.UNMASKED_RENDERER_WEBGL:          "glprint soft rasterizer",
			glprint.MAX_TEXTURE_MAX_ANISOTROPY_EXT:   16,
			glprint.MAX_DRAW_BUFFERS_WEBGL:           8,
		},
		Params2: map[glprint.Enum]any{
			glprint.VERSION:                                       "WebGL 2.0 (OpenGL ES 3.0 glprint-soft)",
			glprint.SHADING_LANGUAGE_VERSION:                      "WebGL GLSL ES 3.00 (OpenGL ES GLSL ES 3.0 glprint-soft)",
			glprint.MAX_VERTEX_UNIFORM_COMPONENTS:                 1024,
			glprint.MAX_VERTEX_UNIFORM_BLOCKS:                     12,
			glprint.MAX_VERTEX_OUTPUT_COMPONENTS:                  64,
			glprint.MAX_VARYING_COMPONENTS:                        60,
			glprint.MAX_TRANSFORM_FEEDBACK_INTERLEAVED_COMPONENTS: 64,
			glprint.MAX_TRANSFORM_FEEDBACK_SEPARATE_ATTRIBS:       4,
			glprint.MAX_TRANSFORM_FEEDBACK_SEPARATE_COMPONENTS:    4,
			glprint.MAX_FRAGMENT_UNIFORM_COMPONENTS:               1024,
			glprint.MAX_FRAGMENT_UNIFORM_BLOCKS:                   12,
			glprint.MAX_FRAGMENT_INPUT_COMPONENTS:                 60,
			glprint.MIN_PROGRAM_TEXEL_OFFSET:                      -8,
			glprint.MAX_PROGRAM_TEXEL_OFFSET:                      7,
			glprint.MAX_DRAW_BUFFERS:                              8,
			glprint.MAX_COLOR_ATTACHMENTS:                         8,
			glprint.MAX_SAMPLES:                                   4,
			glprint.MAX_3D_TEXTURE_SIZE:                           2048,
			glprint.MAX_ARRAY_TEXTURE_LAYERS:                      2048,
			glprint.MAX_TEXTURE_LOD_BIAS:                          float32(2),
			glprint.MAX_UNIFORM_BUFFER_BINDINGS:                   24,
			glprint.MAX_UNIFORM_BLOCK_SIZE:                        65536,
			glprint.UNIFORM_BUFFER_OFFSET_ALIGNMENT:               256,
			glprint.MAX_COMBINED_UNIFORM_BLOCKS:                   24,
			glprint.MAX_COMBINED_VERTEX_UNIFORM_COMPONENTS:        197632,
			glprint.MAX_COMBINED_FRAGMENT_UNIFORM_COMPONENTS:      197632,
		},
		Extensions: []string{
			"ANGLE_instanced_arrays",
			"EXT_blend_minmax",
			"EXT_color_buffer_half_float",
			"EXT_float_blend",
			"EXT_texture_filter_anisotropic",
			"OES_element_index_uint",
			"OES_standard_derivatives",
			"OES_texture_float",
			"OES_texture_float_linear",
			"OES_vertex_array_object",
			"WEBGL_color_buffer_float",
			"WEBGL_debug_renderer_info",
			"WEBGL_debug_shaders",
			"WEBGL_draw_buffers",
			"WEBGL_lose_context",
		},
		Antialias:         true,
		ReportsCaveatFlag: true,
		Precision: map[glprint.Enum]glprint.PrecisionFormat{
			glprint.LOW_FLOAT:    {RangeMin: 127, RangeMax: 127, Precision: 23},
			glprint.MEDIUM_FLOAT: {RangeMin: 127, RangeMax: 127, Precision: 23},
			glprint.HIGH_FLOAT:   {RangeMin: 127, RangeMax: 127, Precision: 23},
			glprint.LOW_INT:      {RangeMin: 31, RangeMax: 30, Precision: 0},
			glprint.MEDIUM_INT:   {RangeMin: 31, RangeMax: 30, Precision: 0},
			glprint.HIGH_INT:     {RangeMin: 31, RangeMax: 30, Precision: 0},
		},
		CanvasWidth:  300,
		CanvasHeight: 150,
	}
}

// Clone returns a deep copy of p, safe to modify.
func (p Profile) Clone() Profile {
	c := p
	c.Versions = slices.Clone(p.Versions)
	c.Aliases = slices.Clone(p.Aliases)
	c.Params = maps.Clone(p.Params)
	c.Params2 = maps.Clone(p.Params2)
	c.Extensions = slices.Clone(p.Extensions)
	c.Precision = maps.Clone(p.Precision)
	c.MissingFunctions = slices.Clone(p.MissingFunctions)
	return c
}

// supportsVersion reports whether version is listed in Versions.
func (p *Profile) supportsVersion(version int) bool {
	return slices.Contains(p.Versions, version)
}
