package soft

import (
	"fmt"
	"slices"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/raster"
)

// Surface is a soft canvas. Like a browser canvas it hands out a single
// context: asking again with the same alias returns it, any other alias
// yields nothing.
type Surface struct {
	host   *Host
	width  int
	height int
	ctx    *Context
	closed bool
}

// Width returns the surface width.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height.
func (s *Surface) Height() int { return s.height }

// Context implements glprint.Surface.
func (s *Surface) Context(alias string, attrs glprint.ContextAttributes) (glprint.RenderingContext, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: surface closed", ErrInvalidOperation)
	}
	if s.ctx != nil {
		if s.ctx.alias == alias {
			return s.ctx, nil
		}
		return nil, nil
	}
	version := s.host.aliasVersion(alias)
	if version == 0 {
		return nil, nil
	}
	if attrs.FailIfMajorPerformanceCaveat && s.host.profile.MajorPerformanceCaveat {
		return nil, nil
	}

	c := &Context{
		host:    s.host,
		surface: s,
		alias:   alias,
		version: version,
		attrs:   attrs,
		enabled: make(map[string]bool),
		attribs: make(map[int]attribState),
		target:  raster.NewTarget(s.width, s.height),
	}
	s.ctx = c
	s.host.track(c)
	glprint.Logger().Debug("soft: context created", "alias", alias, "version", version,
		"width", s.width, "height", s.height)
	return c, nil
}

// Close detaches the surface. A context still attached is lost, the way a
// collected canvas frees its context.
func (s *Surface) Close() error {
	s.closed = true
	if s.ctx != nil {
		s.ctx.markLost()
	}
	return nil
}

type attribState struct {
	enabled bool
	size    int
	stride  int
	offset  int
	buffer  *buffer
}

// Context is a soft rendering context.
type Context struct {
	host    *Host
	surface *Surface
	alias   string
	version int
	attrs   glprint.ContextAttributes
	enabled map[string]bool
	lost    bool

	arrayBuffer *buffer
	current     *program
	attribs     map[int]attribState
	target      *raster.Target
}

// Alias returns the alias the context was created with.
func (c *Context) Alias() string { return c.alias }

// Version returns the API version of the context.
func (c *Context) Version() int { return c.version }

// Lost reports whether the context has been lost.
func (c *Context) Lost() bool { return c.lost }

func (c *Context) markLost() {
	if c.lost {
		return
	}
	c.lost = true
	c.host.untrack(c)
	glprint.Logger().Debug("soft: context lost", "alias", c.alias)
}

func (c *Context) check() error {
	if c.lost {
		return ErrContextLost
	}
	return nil
}

// extensionEnums maps extension-provided parameters to the extensions that
// must be enabled before they can be queried.
var extensionEnums = map[glprint.Enum][]string{
	glprint.UNMASKED_VENDOR_WEBGL:          {glprint.ExtDebugRendererInfo},
	glprint.UNMASKED_RENDERER_WEBGL:        {glprint.ExtDebugRendererInfo},
	glprint.MAX_TEXTURE_MAX_ANISOTROPY_EXT: glprint.AnisotropyExtensions,
}

// Parameter implements glprint.Querier. Unknown enumerants read as nil, as
// getParameter returns null for them.
func (c *Context) Parameter(pname glprint.Enum) (any, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if exts, ok := extensionEnums[pname]; ok && !c.anyEnabled(exts) {
		return nil, nil
	}
	if c.version == 2 {
		if v, ok := c.host.profile.Params2[pname]; ok {
			return v, nil
		}
	} else {
		if _, v2only := c.host.profile.Params2[pname]; v2only && pname != glprint.VERSION && pname != glprint.SHADING_LANGUAGE_VERSION {
			if pname != glprint.MAX_DRAW_BUFFERS_WEBGL || !c.enabled[glprint.ExtDrawBuffers] {
				return nil, nil
			}
		}
	}
	return c.host.profile.Params[pname], nil
}

func (c *Context) anyEnabled(names []string) bool {
	for _, n := range names {
		if c.enabled[n] {
			return true
		}
	}
	return false
}

// Attributes implements glprint.Querier.
func (c *Context) Attributes() (*glprint.ReportedAttributes, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	a := &glprint.ReportedAttributes{Antialias: c.host.profile.Antialias}
	if c.host.profile.ReportsCaveatFlag {
		v := c.attrs.FailIfMajorPerformanceCaveat
		a.FailIfMajorPerformanceCaveat = &v
	}
	return a, nil
}

// SupportedExtensions implements glprint.Querier.
func (c *Context) SupportedExtensions() ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return slices.Clone(c.host.profile.Extensions), nil
}

type extension struct {
	name string
}

func (e extension) Name() string { return e.name }

type loseContext struct {
	extension
	ctx *Context
}

// LoseContext implements glprint.ContextLoser.
func (l loseContext) LoseContext() error {
	l.ctx.markLost()
	return nil
}

// Extension implements glprint.Querier.
func (c *Context) Extension(name string) (glprint.Extension, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if !slices.Contains(c.host.profile.Extensions, name) {
		return nil, nil
	}
	c.enabled[name] = true
	if slices.Contains(glprint.LoseContextExtensions, name) {
		return loseContext{extension: extension{name}, ctx: c}, nil
	}
	return extension{name}, nil
}

// ShaderPrecisionFormat implements glprint.Querier.
func (c *Context) ShaderPrecisionFormat(shaderType, precisionType glprint.Enum) (glprint.PrecisionFormat, error) {
	if err := c.check(); err != nil {
		return glprint.PrecisionFormat{}, err
	}
	if shaderType != glprint.VERTEX_SHADER && shaderType != glprint.FRAGMENT_SHADER {
		return glprint.PrecisionFormat{}, fmt.Errorf("%w: shader type %#x", ErrInvalidEnum, uint32(shaderType))
	}
	p, ok := c.host.profile.Precision[precisionType]
	if !ok {
		return glprint.PrecisionFormat{}, fmt.Errorf("%w: precision type %#x", ErrInvalidEnum, uint32(precisionType))
	}
	return p, nil
}

// HasFunction implements glprint.Querier.
func (c *Context) HasFunction(name string) bool {
	if c.version != 2 {
		return false
	}
	return slices.Contains(glprint.Version2Functions, name) &&
		!slices.Contains(c.host.profile.MissingFunctions, name)
}
