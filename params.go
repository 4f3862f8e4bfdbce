package glprint

import (
	"math"
	"strings"

	"github.com/avct/uasurfer"
)

// Param pairs a parameter's record key with its enumerant.
type Param struct {
	Name string
	Enum Enum
}

// BaseParams are queried on every context, in this order.
var BaseParams = []Param{
	{"VERSION", VERSION},
	{"SHADING_LANGUAGE_VERSION", SHADING_LANGUAGE_VERSION},
	{"VENDOR", VENDOR},
	{"RENDERER", RENDERER},
	{"MAX_VERTEX_ATTRIBS", MAX_VERTEX_ATTRIBS},
	{"MAX_VERTEX_UNIFORM_VECTORS", MAX_VERTEX_UNIFORM_VECTORS},
	{"MAX_VERTEX_TEXTURE_IMAGE_UNITS", MAX_VERTEX_TEXTURE_IMAGE_UNITS},
	{"MAX_VARYING_VECTORS", MAX_VARYING_VECTORS},
	{"ALIASED_LINE_WIDTH_RANGE", ALIASED_LINE_WIDTH_RANGE},
	{"ALIASED_POINT_SIZE_RANGE", ALIASED_POINT_SIZE_RANGE},
	{"MAX_FRAGMENT_UNIFORM_VECTORS", MAX_FRAGMENT_UNIFORM_VECTORS},
	{"MAX_TEXTURE_IMAGE_UNITS", MAX_TEXTURE_IMAGE_UNITS},
	{"RED_BITS", RED_BITS},
	{"GREEN_BITS", GREEN_BITS},
	{"BLUE_BITS", BLUE_BITS},
	{"ALPHA_BITS", ALPHA_BITS},
	{"DEPTH_BITS", DEPTH_BITS},
	{"STENCIL_BITS", STENCIL_BITS},
	{"MAX_RENDERBUFFER_SIZE", MAX_RENDERBUFFER_SIZE},
	{"MAX_VIEWPORT_DIMS", MAX_VIEWPORT_DIMS},
	{"MAX_TEXTURE_SIZE", MAX_TEXTURE_SIZE},
	{"MAX_CUBE_MAP_TEXTURE_SIZE", MAX_CUBE_MAP_TEXTURE_SIZE},
	{"MAX_COMBINED_TEXTURE_IMAGE_UNITS", MAX_COMBINED_TEXTURE_IMAGE_UNITS},
}

// Version2Params are appended to BaseParams on version-2 contexts.
var Version2Params = []Param{
	{"MAX_VERTEX_UNIFORM_COMPONENTS", MAX_VERTEX_UNIFORM_COMPONENTS},
	{"MAX_VERTEX_UNIFORM_BLOCKS", MAX_VERTEX_UNIFORM_BLOCKS},
	{"MAX_VERTEX_OUTPUT_COMPONENTS", MAX_VERTEX_OUTPUT_COMPONENTS},
	{"MAX_VARYING_COMPONENTS", MAX_VARYING_COMPONENTS},
	{"MAX_TRANSFORM_FEEDBACK_INTERLEAVED_COMPONENTS", MAX_TRANSFORM_FEEDBACK_INTERLEAVED_COMPONENTS},
	{"MAX_TRANSFORM_FEEDBACK_SEPARATE_ATTRIBS", MAX_TRANSFORM_FEEDBACK_SEPARATE_ATTRIBS},
	{"MAX_TRANSFORM_FEEDBACK_SEPARATE_COMPONENTS", MAX_TRANSFORM_FEEDBACK_SEPARATE_COMPONENTS},
	{"MAX_FRAGMENT_UNIFORM_COMPONENTS", MAX_FRAGMENT_UNIFORM_COMPONENTS},
	{"MAX_FRAGMENT_UNIFORM_BLOCKS", MAX_FRAGMENT_UNIFORM_BLOCKS},
	{"MAX_FRAGMENT_INPUT_COMPONENTS", MAX_FRAGMENT_INPUT_COMPONENTS},
	{"MIN_PROGRAM_TEXEL_OFFSET", MIN_PROGRAM_TEXEL_OFFSET},
	{"MAX_PROGRAM_TEXEL_OFFSET", MAX_PROGRAM_TEXEL_OFFSET},
	{"MAX_DRAW_BUFFERS", MAX_DRAW_BUFFERS},
	{"MAX_COLOR_ATTACHMENTS", MAX_COLOR_ATTACHMENTS},
	{"MAX_SAMPLES", MAX_SAMPLES},
	{"MAX_3D_TEXTURE_SIZE", MAX_3D_TEXTURE_SIZE},
	{"MAX_ARRAY_TEXTURE_LAYERS", MAX_ARRAY_TEXTURE_LAYERS},
	{"MAX_TEXTURE_LOD_BIAS", MAX_TEXTURE_LOD_BIAS},
	{"MAX_UNIFORM_BUFFER_BINDINGS", MAX_UNIFORM_BUFFER_BINDINGS},
	{"MAX_UNIFORM_BLOCK_SIZE", MAX_UNIFORM_BLOCK_SIZE},
	{"UNIFORM_BUFFER_OFFSET_ALIGNMENT", UNIFORM_BUFFER_OFFSET_ALIGNMENT},
	{"MAX_COMBINED_UNIFORM_BLOCKS", MAX_COMBINED_UNIFORM_BLOCKS},
	{"MAX_COMBINED_VERTEX_UNIFORM_COMPONENTS", MAX_COMBINED_VERTEX_UNIFORM_COMPONENTS},
	{"MAX_COMBINED_FRAGMENT_UNIFORM_COMPONENTS", MAX_COMBINED_FRAGMENT_UNIFORM_COMPONENTS},
}

// Extension names consulted by the extractor.
const (
	ExtDebugRendererInfo = "WEBGL_debug_renderer_info"
	ExtDebugShaders      = "WEBGL_debug_shaders"
	ExtDrawBuffers       = "WEBGL_draw_buffers"
)

// AnisotropyExtensions are the anisotropic-filtering extension names, tried
// in order.
var AnisotropyExtensions = []string{
	"EXT_texture_filter_anisotropic",
	"WEBKIT_EXT_texture_filter_anisotropic",
	"MOZ_EXT_texture_filter_anisotropic",
}

// Labels recorded by the derived parameters.
const (
	labelTrue           = "True"
	labelFalse          = "False"
	labelNotImplemented = "Not implemented"
	labelNoGL           = "n/gl"
	labelD3D11          = "True, Direct3D 11"
	labelD3D9           = "True, Direct3D 9"
)

// defaultAnisotropy replaces a zero anisotropy reading.
const defaultAnisotropy = 2

// ParamsFor returns the ordered parameter list for an API version.
func ParamsFor(version int) []Param {
	params := append([]Param(nil), BaseParams...)
	if version == 2 {
		params = append(params, Version2Params...)
	}
	return params
}

// extractor fills the params subject from a live context. Every sub-probe
// degrades to its own fallback; none can abort the others.
type extractor struct {
	host    Host
	rc      RenderingContext
	alias   string
	version int
	agent   string
	record  *Record
}

// ExtractParams queries the ordered parameter list and the derived
// capability values of rc into the params subject of record.
//
// alias is the alias rc was acquired with; it is reused on a second scratch
// surface to test for a major performance caveat.
func ExtractParams(host Host, rc RenderingContext, alias string, version int, agent string, record *Record) {
	e := &extractor{host: host, rc: rc, alias: alias, version: version, agent: agent, record: record}
	e.run()
}

func (e *extractor) add(key string, value any) {
	e.record.Add(SubjectParams, key, value)
}

func (e *extractor) run() {
	for _, p := range ParamsFor(e.version) {
		e.add(p.Name, e.param(p))
	}
	e.add("ANTIALIASING", e.antialiasing())

	vendor, renderer := e.unmasked()
	e.add("UNMASKED_VENDOR", vendor)
	e.add("UNMASKED_RENDERER", renderer)
	e.add("ANGLE", e.angle())
	e.add("MAX_ANISOTROPY", e.anisotropy())
	e.add("MAJOR_PERFORMANCE_CAVEAT", e.performanceCaveat())
	if e.version == 1 {
		e.add("MAX_DRAW_BUFFERS", e.maxDrawBuffers())
	}
	e.add("FLOAT_INT_PRECISION", e.floatIntPrecision())
}

func (e *extractor) param(p Param) any {
	v, err := e.rc.Parameter(p.Enum)
	if err != nil {
		Logger().Debug("glprint: parameter query failed", "param", p.Name, "err", err)
		return NotAvailable
	}
	return normalizeParam(v)
}

// raw queries pname without normalization; errors read as nil.
func (e *extractor) raw(pname Enum) any {
	v, err := e.rc.Parameter(pname)
	if err != nil {
		return nil
	}
	return v
}

func (e *extractor) antialiasing() string {
	attrs, err := e.rc.Attributes()
	if err != nil || attrs == nil || !attrs.Antialias {
		return labelFalse
	}
	return labelTrue
}

// unmasked reads the driver vendor and renderer through the debug renderer
// extension, falling back to the masked strings when it is absent.
func (e *extractor) unmasked() (vendor, renderer any) {
	vendor = normalizeParam(e.raw(VENDOR))
	renderer = normalizeParam(e.raw(RENDERER))

	ext, err := e.rc.Extension(ExtDebugRendererInfo)
	if err != nil || ext == nil {
		return vendor, renderer
	}
	if v, err := e.rc.Parameter(UNMASKED_VENDOR_WEBGL); err == nil {
		vendor = normalizeParam(v)
	}
	if r, err := e.rc.Parameter(UNMASKED_RENDERER_WEBGL); err == nil {
		renderer = normalizeParam(r)
	}
	return vendor, renderer
}

// angle guesses whether a Windows browser renders through ANGLE and which
// Direct3D generation backs it.
func (e *extractor) angle() string {
	if !isWindows(e.host.Platform(), e.agent) {
		return labelFalse
	}
	renderer, _ := e.raw(RENDERER).(string)
	if renderer == "Internet Explorer" || renderer == "Microsoft Edge" {
		return labelFalse
	}
	lineWidth, ok := pairElements(e.raw(ALIASED_LINE_WIDTH_RANGE))
	if !ok || expandPair(lineWidth) != "[1, 1]" {
		return labelFalse
	}
	if isPowerOfTwo(e.raw(MAX_VERTEX_UNIFORM_VECTORS)) && isPowerOfTwo(e.raw(MAX_FRAGMENT_UNIFORM_VECTORS)) {
		return labelD3D11
	}
	return labelD3D9
}

// isWindows checks navigator.platform, or the agent string when the host
// does not report a platform.
func isWindows(platform, agent string) bool {
	if platform != "" {
		return platform == "Win32" || platform == "Win64"
	}
	if agent == "" {
		return false
	}
	return uasurfer.Parse(agent).OS.Name == uasurfer.OSWindows
}

func (e *extractor) anisotropy() any {
	for _, name := range AnisotropyExtensions {
		ext, err := e.rc.Extension(name)
		if err != nil || ext == nil {
			continue
		}
		v, err := e.rc.Parameter(MAX_TEXTURE_MAX_ANISOTROPY_EXT)
		if err != nil {
			return NotAvailable
		}
		if f, ok := toFloat(v); ok && f == 0 {
			return defaultAnisotropy
		}
		return normalizeParam(v)
	}
	return NotAvailable
}

// performanceCaveat asks a second scratch surface for a context that must
// fail on a major performance caveat.
func (e *extractor) performanceCaveat() string {
	surface, err := e.host.NewSurface(1, 1)
	if err != nil {
		return labelNoGL
	}
	defer func() { _ = surface.Close() }()

	rc, err := surface.Context(e.alias, ContextAttributes{FailIfMajorPerformanceCaveat: true})
	if err != nil {
		return labelNoGL
	}
	if rc == nil {
		return labelTrue
	}
	defer Release(rc)

	attrs, err := rc.Attributes()
	if err != nil || attrs == nil {
		return labelNoGL
	}
	if attrs.FailIfMajorPerformanceCaveat == nil {
		return labelNotImplemented
	}
	return labelFalse
}

func (e *extractor) maxDrawBuffers() any {
	ext, err := e.rc.Extension(ExtDrawBuffers)
	if err != nil || ext == nil {
		return 0
	}
	v, err := e.rc.Parameter(MAX_DRAW_BUFFERS_WEBGL)
	if err != nil {
		return 0
	}
	return normalizeParam(v)
}

func (e *extractor) floatIntPrecision() string {
	hf, err := e.rc.ShaderPrecisionFormat(FRAGMENT_SHADER, HIGH_FLOAT)
	if err != nil {
		return NotAvailable
	}
	hi, err := e.rc.ShaderPrecisionFormat(FRAGMENT_SHADER, HIGH_INT)
	if err != nil {
		return NotAvailable
	}

	var sb strings.Builder
	if hf.Precision != 0 {
		sb.WriteString("highp/")
	} else {
		sb.WriteString("mediump/")
	}
	if hi.RangeMax != 0 {
		sb.WriteString("highp")
	} else {
		sb.WriteString("lowp")
	}
	return sb.String()
}

// DescribePrecision renders the high, medium and low float precision of a
// shader stage, plus a "range" label for the best precision available. It
// returns false when any query fails.
func DescribePrecision(q Querier, shaderType Enum) any {
	high, err := q.ShaderPrecisionFormat(shaderType, HIGH_FLOAT)
	if err != nil {
		return false
	}
	med, err := q.ShaderPrecisionFormat(shaderType, MEDIUM_FLOAT)
	if err != nil {
		return false
	}
	low, err := q.ShaderPrecisionFormat(shaderType, LOW_FLOAT)
	if err != nil {
		return false
	}

	best := high
	if high.Precision == 0 {
		best = med
	}
	return Fields{
		{"high", renderRange(high, true)},
		{"medium", renderRange(med, true)},
		{"low", renderRange(low, true)},
		{"range", renderRange(best, false)},
	}
}

func renderRange(p PrecisionFormat, asNumber bool) string {
	suffix := ""
	if asNumber {
		suffix = " bit mantissa"
	}
	return "[-" + rangeValue(p.RangeMin, asNumber) + ", " + rangeValue(p.RangeMax, asNumber) +
		"] (" + formatNumber(float64(p.Precision)) + suffix + ")"
}

func rangeValue(exp int, asNumber bool) string {
	if asNumber {
		return formatNumber(math.Ldexp(1, exp))
	}
	return "2^" + formatNumber(float64(exp))
}
