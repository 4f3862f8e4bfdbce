package glprint

import (
	"errors"
	"slices"
)

var errFake = errors.New("fake: injected failure")

// fakeHost is a scriptable Host. Aliases not listed in accept yield no
// context; aliases in fail return an error.
type fakeHost struct {
	agent    string
	platform string
	accept   []string
	fail     map[string]error

	surfaceErr error

	// caveatFails makes fail-on-caveat context requests return nothing.
	caveatFails bool

	// configure adjusts every context the host hands out.
	configure func(*fakeContext)

	contexts []*fakeContext
	surfaces int
	closed   int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		agent:    "Mozilla/5.0 (X11; Linux x86_64) fake/1.0",
		platform: "Linux x86_64",
		accept:   []string{"webgl2", "experimental-webgl2", "webgl", "experimental-webgl"},
	}
}

func (h *fakeHost) NewSurface(width, height int) (Surface, error) {
	if h.surfaceErr != nil {
		return nil, h.surfaceErr
	}
	h.surfaces++
	if width == 0 || height == 0 {
		width, height = 300, 150
	}
	return &fakeSurface{host: h, width: width, height: height}, nil
}

func (h *fakeHost) Agent() string    { return h.agent }
func (h *fakeHost) Platform() string { return h.platform }

// live returns the contexts that were acquired and never lost.
func (h *fakeHost) live() []*fakeContext {
	var out []*fakeContext
	for _, c := range h.contexts {
		if !c.lost {
			out = append(out, c)
		}
	}
	return out
}

// reportingHost adds an APIReporter to fakeHost.
type reportingHost struct {
	*fakeHost
	apis map[int]bool
}

func (h reportingHost) SupportsAPI(version int) bool { return h.apis[version] }

type fakeSurface struct {
	host   *fakeHost
	width  int
	height int
}

func (s *fakeSurface) Context(alias string, attrs ContextAttributes) (RenderingContext, error) {
	if err := s.host.fail[alias]; err != nil {
		return nil, err
	}
	if !slices.Contains(s.host.accept, alias) {
		return nil, nil
	}
	if attrs.FailIfMajorPerformanceCaveat && s.host.caveatFails {
		return nil, nil
	}
	c := newFakeContext()
	c.alias = alias
	c.attrs = attrs
	c.width, c.height = s.width, s.height
	if s.host.configure != nil {
		s.host.configure(c)
	}
	s.host.contexts = append(s.host.contexts, c)
	return c, nil
}

func (s *fakeSurface) Close() error {
	s.host.closed++
	return nil
}

type fakeExtension struct {
	name string
	ctx  *fakeContext
}

func (e fakeExtension) Name() string { return e.name }

type fakeLoser struct {
	fakeExtension
}

func (l fakeLoser) LoseContext() error {
	if l.ctx.loseErr != nil {
		return l.ctx.loseErr
	}
	l.ctx.lost = true
	return nil
}

// fakeContext answers from fixed tables. Setting an *Err field makes the
// matching call family fail.
type fakeContext struct {
	alias         string
	attrs         ContextAttributes
	width, height int

	params   map[Enum]any
	paramErr error

	reported *ReportedAttributes
	attrErr  error

	extensions []string
	extsErr    error
	extErr     error

	precision map[Enum]PrecisionFormat
	precErr   error

	functions map[string]bool

	drawErr error
	readErr error
	// fill writes the framebuffer; nil leaves it zeroed.
	fill func(dst []byte)

	loseErr error
	lost    bool

	calls []string
}

func newFakeContext() *fakeContext {
	caveat := false
	return &fakeContext{
		params: map[Enum]any{
			VERSION:                        "WebGL 2.0 (OpenGL ES 3.0 Chromium)",
			SHADING_LANGUAGE_VERSION:       "WebGL GLSL ES 3.00",
			VENDOR:                         "WebKit",
			RENDERER:                       "WebKit WebGL",
			MAX_VERTEX_ATTRIBS:             16,
			MAX_VERTEX_UNIFORM_VECTORS:     4096,
			MAX_VARYING_VECTORS:            30,
			ALIASED_LINE_WIDTH_RANGE:       []float32{1, 1},
			ALIASED_POINT_SIZE_RANGE:       []float32{1, 1024},
			MAX_FRAGMENT_UNIFORM_VECTORS:   1024,
			MAX_TEXTURE_IMAGE_UNITS:        16,
			RED_BITS:                       8,
			MAX_VIEWPORT_DIMS:              []int32{32767, 32767},
			MAX_TEXTURE_SIZE:               16384,
			UNMASKED_VENDOR_WEBGL:          "Google Inc. (NVIDIA)",
			UNMASKED_RENDERER_WEBGL:        "ANGLE (NVIDIA GeForce)",
			MAX_TEXTURE_MAX_ANISOTROPY_EXT: 16,
			MAX_TEXTURE_LOD_BIAS:           float32(2),
		},
		reported: &ReportedAttributes{Antialias: true, FailIfMajorPerformanceCaveat: &caveat},
		extensions: []string{
			"EXT_texture_filter_anisotropic",
			"WEBGL_debug_renderer_info",
			"OES_texture_float_linear",
			"WEBGL_lose_context",
			"WEBGL_debug_shaders",
		},
		precision: map[Enum]PrecisionFormat{
			HIGH_FLOAT:   {RangeMin: 127, RangeMax: 127, Precision: 23},
			MEDIUM_FLOAT: {RangeMin: 15, RangeMax: 15, Precision: 10},
			LOW_FLOAT:    {RangeMin: 1, RangeMax: 1, Precision: 8},
			HIGH_INT:     {RangeMin: 31, RangeMax: 30, Precision: 0},
		},
		functions: map[string]bool{"drawBuffers": true, "texStorage2D": true},
		fill: func(dst []byte) {
			for i := range dst {
				dst[i] = byte(i % 251)
			}
		},
	}
}

func (c *fakeContext) record(call string) { c.calls = append(c.calls, call) }

func (c *fakeContext) Parameter(pname Enum) (any, error) {
	if c.paramErr != nil {
		return nil, c.paramErr
	}
	return c.params[pname], nil
}

func (c *fakeContext) Attributes() (*ReportedAttributes, error) {
	if c.attrErr != nil {
		return nil, c.attrErr
	}
	return c.reported, nil
}

func (c *fakeContext) SupportedExtensions() ([]string, error) {
	if c.extsErr != nil {
		return nil, c.extsErr
	}
	return c.extensions, nil
}

func (c *fakeContext) Extension(name string) (Extension, error) {
	if c.extErr != nil {
		return nil, c.extErr
	}
	if !slices.Contains(c.extensions, name) {
		return nil, nil
	}
	ext := fakeExtension{name: name, ctx: c}
	if slices.Contains(LoseContextExtensions, name) {
		return fakeLoser{ext}, nil
	}
	return ext, nil
}

func (c *fakeContext) ShaderPrecisionFormat(_, precisionType Enum) (PrecisionFormat, error) {
	if c.precErr != nil {
		return PrecisionFormat{}, c.precErr
	}
	return c.precision[precisionType], nil
}

func (c *fakeContext) HasFunction(name string) bool { return c.functions[name] }

func (c *fakeContext) CreateBuffer() (Handle, error) { c.record("createBuffer"); return 1, nil }

func (c *fakeContext) BindBuffer(Enum, Handle) error { c.record("bindBuffer"); return nil }

func (c *fakeContext) BufferData(_ Enum, data []float32, _ Enum) error {
	c.record("bufferData")
	if len(data) != 9 {
		return errors.New("fake: unexpected vertex data")
	}
	return nil
}

func (c *fakeContext) CreateProgram() (Handle, error) { c.record("createProgram"); return 2, nil }

func (c *fakeContext) CreateShader(t Enum) (Handle, error) {
	c.record("createShader")
	return int(t), nil
}

func (c *fakeContext) ShaderSource(Handle, string) error { c.record("shaderSource"); return nil }
func (c *fakeContext) CompileShader(Handle) error        { c.record("compileShader"); return nil }
func (c *fakeContext) AttachShader(_, _ Handle) error    { c.record("attachShader"); return nil }
func (c *fakeContext) LinkProgram(Handle) error          { c.record("linkProgram"); return nil }
func (c *fakeContext) UseProgram(Handle) error           { c.record("useProgram"); return nil }

func (c *fakeContext) AttribLocation(_ Handle, name string) (int, error) {
	c.record("getAttribLocation")
	if name != SceneAttribute {
		return -1, nil
	}
	return 0, nil
}

func (c *fakeContext) UniformLocation(Handle, string) (Handle, error) {
	c.record("getUniformLocation")
	return 3, nil
}

func (c *fakeContext) EnableVertexAttribArray(int) error {
	c.record("enableVertexAttribArray")
	return nil
}

func (c *fakeContext) VertexAttribPointer(_, _ int, _ Enum, _ bool, _, _ int) error {
	c.record("vertexAttribPointer")
	return nil
}

func (c *fakeContext) Uniform2f(Handle, float32, float32) error { c.record("uniform2f"); return nil }

func (c *fakeContext) DrawArrays(Enum, int, int) error {
	c.record("drawArrays")
	return c.drawErr
}

func (c *fakeContext) ReadPixels(_, _, _, _ int, _, _ Enum, dst []byte) error {
	c.record("readPixels")
	if c.readErr != nil {
		return c.readErr
	}
	if c.fill != nil {
		c.fill(dst)
	}
	return nil
}
