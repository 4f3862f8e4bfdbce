package browser

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gogpu/glprint"
)

// ErrForeignHandle is returned for a handle created by another context.
var ErrForeignHandle = errors.New("browser: handle from another context")

// Surface is a canvas element in the page.
type Surface struct {
	host *Host
	id   int
}

// Context implements glprint.Surface.
func (s *Surface) Context(alias string, attrs glprint.ContextAttributes) (glprint.RenderingContext, error) {
	jsAttrs := map[string]bool{
		"stencil":                      attrs.Stencil,
		"failIfMajorPerformanceCaveat": attrs.FailIfMajorPerformanceCaveat,
	}
	var id int
	if err := s.host.callInto(&id, "context", s.id, alias, jsAttrs); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return &Context{host: s.host, id: id, alias: alias}, nil
}

// Close drops the page's reference to the canvas.
func (s *Surface) Close() error {
	_, err := s.host.call("closeSurface", s.id)
	return err
}

// handle is a page object id owned by one context.
type handle struct {
	ctx *Context
	id  int
}

// Context forwards WebGL calls to one page context.
type Context struct {
	host  *Host
	id    int
	alias string
}

// Alias returns the alias the context was created with.
func (c *Context) Alias() string { return c.alias }

func (c *Context) do(method string, args ...any) error {
	_, err := c.host.call(method, append([]any{c.id}, args...)...)
	return err
}

func (c *Context) into(v any, method string, args ...any) error {
	return c.host.callInto(v, method, append([]any{c.id}, args...)...)
}

func (c *Context) newHandle(method string, args ...any) (glprint.Handle, error) {
	var id int
	if err := c.into(&id, method, args...); err != nil {
		return nil, err
	}
	return &handle{ctx: c, id: id}, nil
}

// ref resolves h to its page id; nil maps to 0, the page's null.
func (c *Context) ref(h glprint.Handle) (int, error) {
	if h == nil {
		return 0, nil
	}
	hd, ok := h.(*handle)
	if !ok || hd.ctx != c {
		return 0, ErrForeignHandle
	}
	return hd.id, nil
}

// Parameter implements glprint.Querier.
func (c *Context) Parameter(pname glprint.Enum) (any, error) {
	raw, err := c.host.call("param", c.id, uint32(pname))
	if err != nil {
		return nil, err
	}
	return decodeValue(raw)
}

// Attributes implements glprint.Querier.
func (c *Context) Attributes() (*glprint.ReportedAttributes, error) {
	var a *struct {
		Antialias bool  `json:"antialias"`
		Caveat    *bool `json:"caveat"`
	}
	if err := c.into(&a, "attributes"); err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return &glprint.ReportedAttributes{Antialias: a.Antialias, FailIfMajorPerformanceCaveat: a.Caveat}, nil
}

// SupportedExtensions implements glprint.Querier.
func (c *Context) SupportedExtensions() ([]string, error) {
	var names []string
	if err := c.into(&names, "extensions"); err != nil {
		return nil, err
	}
	return names, nil
}

type extension struct {
	ctx  *Context
	name string
}

func (e *extension) Name() string { return e.name }

type loseContext struct {
	extension
}

// LoseContext implements glprint.ContextLoser.
func (l *loseContext) LoseContext() error {
	var ok bool
	if err := l.ctx.into(&ok, "loseContext", l.name); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("browser: %s unavailable", l.name)
	}
	return nil
}

// Extension implements glprint.Querier.
func (c *Context) Extension(name string) (glprint.Extension, error) {
	var ok bool
	if err := c.into(&ok, "extension", name); err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	for _, lose := range glprint.LoseContextExtensions {
		if name == lose {
			return &loseContext{extension{ctx: c, name: name}}, nil
		}
	}
	return &extension{ctx: c, name: name}, nil
}

// ShaderPrecisionFormat implements glprint.Querier.
func (c *Context) ShaderPrecisionFormat(shaderType, precisionType glprint.Enum) (glprint.PrecisionFormat, error) {
	var f struct {
		RangeMin  int `json:"rangeMin"`
		RangeMax  int `json:"rangeMax"`
		Precision int `json:"precision"`
	}
	if err := c.into(&f, "precision", uint32(shaderType), uint32(precisionType)); err != nil {
		return glprint.PrecisionFormat{}, err
	}
	return glprint.PrecisionFormat{RangeMin: f.RangeMin, RangeMax: f.RangeMax, Precision: f.Precision}, nil
}

// HasFunction implements glprint.Querier. Bridge failures read as absent.
func (c *Context) HasFunction(name string) bool {
	var ok bool
	if err := c.into(&ok, "hasFunction", name); err != nil {
		glprint.Logger().Debug("browser: function check failed", "name", name, "err", err)
		return false
	}
	return ok
}

// CreateBuffer implements glprint.Drawer.
func (c *Context) CreateBuffer() (glprint.Handle, error) { return c.newHandle("createBuffer") }

// BindBuffer implements glprint.Drawer.
func (c *Context) BindBuffer(target glprint.Enum, b glprint.Handle) error {
	id, err := c.ref(b)
	if err != nil {
		return err
	}
	return c.do("bindBuffer", uint32(target), id)
}

// BufferData implements glprint.Drawer.
func (c *Context) BufferData(target glprint.Enum, data []float32, usage glprint.Enum) error {
	return c.do("bufferData", uint32(target), data, uint32(usage))
}

// CreateProgram implements glprint.Drawer.
func (c *Context) CreateProgram() (glprint.Handle, error) { return c.newHandle("createProgram") }

// CreateShader implements glprint.Drawer.
func (c *Context) CreateShader(shaderType glprint.Enum) (glprint.Handle, error) {
	return c.newHandle("createShader", uint32(shaderType))
}

// ShaderSource implements glprint.Drawer.
func (c *Context) ShaderSource(s glprint.Handle, source string) error {
	id, err := c.ref(s)
	if err != nil {
		return err
	}
	return c.do("shaderSource", id, source)
}

// CompileShader implements glprint.Drawer. A failed compile status is an
// error carrying the info log.
func (c *Context) CompileShader(s glprint.Handle) error {
	id, err := c.ref(s)
	if err != nil {
		return err
	}
	return c.do("compileShader", id)
}

// AttachShader implements glprint.Drawer.
func (c *Context) AttachShader(p, s glprint.Handle) error {
	pid, err := c.ref(p)
	if err != nil {
		return err
	}
	sid, err := c.ref(s)
	if err != nil {
		return err
	}
	return c.do("attachShader", pid, sid)
}

// LinkProgram implements glprint.Drawer.
func (c *Context) LinkProgram(p glprint.Handle) error {
	id, err := c.ref(p)
	if err != nil {
		return err
	}
	return c.do("linkProgram", id)
}

// UseProgram implements glprint.Drawer.
func (c *Context) UseProgram(p glprint.Handle) error {
	id, err := c.ref(p)
	if err != nil {
		return err
	}
	return c.do("useProgram", id)
}

// AttribLocation implements glprint.Drawer.
func (c *Context) AttribLocation(p glprint.Handle, name string) (int, error) {
	id, err := c.ref(p)
	if err != nil {
		return -1, err
	}
	loc := -1
	if err := c.into(&loc, "attribLocation", id, name); err != nil {
		return -1, err
	}
	return loc, nil
}

// UniformLocation implements glprint.Drawer.
func (c *Context) UniformLocation(p glprint.Handle, name string) (glprint.Handle, error) {
	id, err := c.ref(p)
	if err != nil {
		return nil, err
	}
	var loc int
	if err := c.into(&loc, "uniformLocation", id, name); err != nil {
		return nil, err
	}
	if loc == 0 {
		return nil, nil
	}
	return &handle{ctx: c, id: loc}, nil
}

// EnableVertexAttribArray implements glprint.Drawer.
func (c *Context) EnableVertexAttribArray(index int) error {
	return c.do("enableVertexAttribArray", index)
}

// VertexAttribPointer implements glprint.Drawer.
func (c *Context) VertexAttribPointer(index, size int, typ glprint.Enum, normalized bool, stride, offset int) error {
	return c.do("vertexAttribPointer", index, size, uint32(typ), normalized, stride, offset)
}

// Uniform2f implements glprint.Drawer.
func (c *Context) Uniform2f(loc glprint.Handle, x, y float32) error {
	id, err := c.ref(loc)
	if err != nil {
		return err
	}
	return c.do("uniform2f", id, x, y)
}

// DrawArrays implements glprint.Drawer.
func (c *Context) DrawArrays(mode glprint.Enum, first, count int) error {
	return c.do("drawArrays", uint32(mode), first, count)
}

// ReadPixels implements glprint.Drawer. Pixels travel base64-encoded.
func (c *Context) ReadPixels(x, y, width, height int, format, typ glprint.Enum, dst []byte) error {
	var enc string
	if err := c.into(&enc, "readPixels", x, y, width, height, uint32(format), uint32(typ)); err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return fmt.Errorf("browser: decode pixels: %w", err)
	}
	if len(dst) < len(data) {
		return fmt.Errorf("browser: destination holds %d bytes, need %d", len(dst), len(data))
	}
	copy(dst, data)
	return nil
}
