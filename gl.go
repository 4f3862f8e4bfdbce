package glprint

// Enum is a WebGL enumerant. Values match the WebGL 1/2 specifications so
// hosts backed by a real browser can pass them through unchanged.
type Enum uint32

// Core parameter names.
const (
	VENDOR                           Enum = 0x1F00
	RENDERER                         Enum = 0x1F01
	VERSION                          Enum = 0x1F02
	SHADING_LANGUAGE_VERSION         Enum = 0x8B8C
	MAX_VERTEX_ATTRIBS               Enum = 0x8869
	MAX_VERTEX_UNIFORM_VECTORS       Enum = 0x8DFB
	MAX_VERTEX_TEXTURE_IMAGE_UNITS   Enum = 0x8B4C
	MAX_VARYING_VECTORS              Enum = 0x8DFC
	ALIASED_LINE_WIDTH_RANGE         Enum = 0x846E
	ALIASED_POINT_SIZE_RANGE         Enum = 0x846D
	MAX_FRAGMENT_UNIFORM_VECTORS     Enum = 0x8DFD
	MAX_TEXTURE_IMAGE_UNITS          Enum = 0x8872
	RED_BITS                         Enum = 0x0D52
	GREEN_BITS                       Enum = 0x0D53
	BLUE_BITS                        Enum = 0x0D54
	ALPHA_BITS                       Enum = 0x0D55
	DEPTH_BITS                       Enum = 0x0D56
	STENCIL_BITS                     Enum = 0x0D57
	MAX_RENDERBUFFER_SIZE            Enum = 0x84E8
	MAX_VIEWPORT_DIMS                Enum = 0x0D3A
	MAX_TEXTURE_SIZE                 Enum = 0x0D33
	MAX_CUBE_MAP_TEXTURE_SIZE        Enum = 0x851C
	MAX_COMBINED_TEXTURE_IMAGE_UNITS Enum = 0x8B4D
)

// WebGL 2 parameter names.
const (
	MAX_VERTEX_UNIFORM_COMPONENTS                 Enum = 0x8B4A
	MAX_VERTEX_UNIFORM_BLOCKS                     Enum = 0x8A2B
	MAX_VERTEX_OUTPUT_COMPONENTS                  Enum = 0x9122
	MAX_VARYING_COMPONENTS                        Enum = 0x8B4B
	MAX_TRANSFORM_FEEDBACK_INTERLEAVED_COMPONENTS Enum = 0x8C8A
	MAX_TRANSFORM_FEEDBACK_SEPARATE_ATTRIBS       Enum = 0x8C8B
	MAX_TRANSFORM_FEEDBACK_SEPARATE_COMPONENTS    Enum = 0x8C80
	MAX_FRAGMENT_UNIFORM_COMPONENTS               Enum = 0x8B49
	MAX_FRAGMENT_UNIFORM_BLOCKS                   Enum = 0x8A2D
	MAX_FRAGMENT_INPUT_COMPONENTS                 Enum = 0x9125
	MIN_PROGRAM_TEXEL_OFFSET                      Enum = 0x8904
	MAX_PROGRAM_TEXEL_OFFSET                      Enum = 0x8905
	MAX_DRAW_BUFFERS                              Enum = 0x8824
	MAX_COLOR_ATTACHMENTS                         Enum = 0x8CDF
	MAX_SAMPLES                                   Enum = 0x8D57
	MAX_3D_TEXTURE_SIZE                           Enum = 0x8073
	MAX_ARRAY_TEXTURE_LAYERS                      Enum = 0x88FF
	MAX_TEXTURE_LOD_BIAS                          Enum = 0x84FD
	MAX_UNIFORM_BUFFER_BINDINGS                   Enum = 0x8A2F
	MAX_UNIFORM_BLOCK_SIZE                        Enum = 0x8A30
	UNIFORM_BUFFER_OFFSET_ALIGNMENT               Enum = 0x8A34
	MAX_COMBINED_UNIFORM_BLOCKS                   Enum = 0x8A2E
	MAX_COMBINED_VERTEX_UNIFORM_COMPONENTS        Enum = 0x8A31
	MAX_COMBINED_FRAGMENT_UNIFORM_COMPONENTS      Enum = 0x8A33
)

// Extension enumerants.
const (
	UNMASKED_VENDOR_WEBGL          Enum = 0x9245
	UNMASKED_RENDERER_WEBGL        Enum = 0x9246
	MAX_TEXTURE_MAX_ANISOTROPY_EXT Enum = 0x84FF
	MAX_DRAW_BUFFERS_WEBGL         Enum = 0x8824
)

// Shader and precision enumerants.
const (
	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	LOW_FLOAT       Enum = 0x8DF0
	MEDIUM_FLOAT    Enum = 0x8DF1
	HIGH_FLOAT      Enum = 0x8DF2
	LOW_INT         Enum = 0x8DF3
	MEDIUM_INT      Enum = 0x8DF4
	HIGH_INT        Enum = 0x8DF5
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82
)

// Drawing enumerants.
const (
	TRIANGLE_STRIP Enum = 0x0005
	UNSIGNED_BYTE  Enum = 0x1401
	FLOAT          Enum = 0x1406
	RGBA           Enum = 0x1908
	ARRAY_BUFFER   Enum = 0x8892
	STATIC_DRAW    Enum = 0x88E4
)

// Handle is an opaque host object (buffer, shader, program, uniform location).
type Handle any

// ContextAttributes are the creation flags requested from a surface.
type ContextAttributes struct {
	Stencil                      bool
	FailIfMajorPerformanceCaveat bool
}

// ReportedAttributes are the attributes a live context reports back.
type ReportedAttributes struct {
	Antialias bool

	// FailIfMajorPerformanceCaveat is nil when the context does not
	// recognize the flag at all.
	FailIfMajorPerformanceCaveat *bool
}

// PrecisionFormat is the result of a shader precision query.
type PrecisionFormat struct {
	RangeMin  int
	RangeMax  int
	Precision int
}

// Host is the environment that owns drawing surfaces. It is the only
// collaborator the probe needs: a browser page, a WASM runtime, a GPU
// adapter, or an in-memory reference implementation.
type Host interface {
	// NewSurface creates an offscreen drawing surface (a canvas). Zero
	// dimensions select the host's default canvas size.
	NewSurface(width, height int) (Surface, error)

	// Agent returns the client identifier (navigator.userAgent or equivalent).
	Agent() string

	// Platform returns navigator.platform or equivalent. It may be empty.
	Platform() string
}

// APIReporter is implemented by hosts that can tell whether a WebGL API
// version is exposed at all, independent of whether a context can be made.
type APIReporter interface {
	SupportsAPI(version int) bool
}

// Surface is a drawing surface that hands out rendering contexts.
type Surface interface {
	// Context acquires a context for alias. A nil context with a nil error
	// means the alias is not supported by this surface.
	Context(alias string, attrs ContextAttributes) (RenderingContext, error)

	// Close detaches the surface from the host.
	Close() error
}

// Extension is an enabled context extension.
type Extension interface {
	Name() string
}

// ContextLoser is implemented by the lose-context family of extensions.
type ContextLoser interface {
	LoseContext() error
}

// Querier is the read-only capability surface of a context.
type Querier interface {
	// Parameter returns the value of pname. Hosts return nil, bool, string,
	// integer, float, or a two-element numeric slice for paired values.
	Parameter(pname Enum) (any, error)

	// Attributes returns the attributes the context was created with.
	Attributes() (*ReportedAttributes, error)

	// SupportedExtensions lists extension names in host order.
	SupportedExtensions() ([]string, error)

	// Extension enables name. It returns a nil Extension when unavailable.
	Extension(name string) (Extension, error)

	// ShaderPrecisionFormat queries the precision of a shader numeric type.
	ShaderPrecisionFormat(shaderType, precisionType Enum) (PrecisionFormat, error)

	// HasFunction reports whether the context exposes the named entry point.
	HasFunction(name string) bool
}

// Drawer is the subset of the context used to render the probe scene.
type Drawer interface {
	CreateBuffer() (Handle, error)
	BindBuffer(target Enum, buffer Handle) error
	BufferData(target Enum, data []float32, usage Enum) error
	CreateProgram() (Handle, error)
	CreateShader(shaderType Enum) (Handle, error)
	ShaderSource(shader Handle, source string) error
	CompileShader(shader Handle) error
	AttachShader(program, shader Handle) error
	LinkProgram(program Handle) error
	UseProgram(program Handle) error
	AttribLocation(program Handle, name string) (int, error)
	UniformLocation(program Handle, name string) (Handle, error)
	EnableVertexAttribArray(index int) error
	VertexAttribPointer(index, size int, typ Enum, normalized bool, stride, offset int) error
	Uniform2f(location Handle, x, y float32) error
	DrawArrays(mode Enum, first, count int) error
	ReadPixels(x, y, width, height int, format, typ Enum, dst []byte) error
}

// RenderingContext is a live WebGL-style context.
type RenderingContext interface {
	Querier
	Drawer
}
