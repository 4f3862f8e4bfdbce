//go:build js && wasm

package jsgl

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/glprint"
)

// Context wraps a WebGLRenderingContext or WebGL2RenderingContext.
type Context struct {
	gl js.Value
}

type handle struct {
	v js.Value
}

func value(h glprint.Handle) js.Value {
	if hd, ok := h.(*handle); ok {
		return hd.v
	}
	return js.Null()
}

func wrap(v js.Value) glprint.Handle {
	if !v.Truthy() {
		return nil
	}
	return &handle{v: v}
}

// goValue converts a getParameter result to the kinds glprint.Querier
// documents.
func goValue(v js.Value) any {
	switch v.Type() {
	case js.TypeNull, js.TypeUndefined:
		return nil
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeString:
		return v.String()
	case js.TypeNumber:
		f := v.Float()
		if f == float64(int(f)) {
			return v.Int()
		}
		return f
	case js.TypeObject:
		n := v.Get("length")
		if n.Type() != js.TypeNumber {
			return v.String()
		}
		if v.InstanceOf(js.Global().Get("Float32Array")) {
			out := make([]float32, n.Int())
			for i := range out {
				out[i] = float32(v.Index(i).Float())
			}
			return out
		}
		out := make([]int32, n.Int())
		for i := range out {
			out[i] = int32(v.Index(i).Int())
		}
		return out
	}
	return v.String()
}

// Parameter implements glprint.Querier.
func (c *Context) Parameter(pname glprint.Enum) (v any, err error) {
	defer catch(&err)
	return goValue(c.gl.Call("getParameter", uint32(pname))), nil
}

// Attributes implements glprint.Querier.
func (c *Context) Attributes() (a *glprint.ReportedAttributes, err error) {
	defer catch(&err)
	attrs := c.gl.Call("getContextAttributes")
	if !attrs.Truthy() {
		return nil, nil
	}
	a = &glprint.ReportedAttributes{Antialias: attrs.Get("antialias").Truthy()}
	if f := attrs.Get("failIfMajorPerformanceCaveat"); !f.IsUndefined() {
		b := f.Truthy()
		a.FailIfMajorPerformanceCaveat = &b
	}
	return a, nil
}

// SupportedExtensions implements glprint.Querier.
func (c *Context) SupportedExtensions() (names []string, err error) {
	defer catch(&err)
	list := c.gl.Call("getSupportedExtensions")
	if !list.Truthy() {
		return nil, fmt.Errorf("%w: getSupportedExtensions returned null", ErrJS)
	}
	names = make([]string, list.Length())
	for i := range names {
		names[i] = list.Index(i).String()
	}
	return names, nil
}

type extension struct {
	name string
	v    js.Value
}

func (e *extension) Name() string { return e.name }

type loseContext struct {
	extension
}

// LoseContext implements glprint.ContextLoser.
func (l *loseContext) LoseContext() (err error) {
	defer catch(&err)
	l.v.Call("loseContext")
	return nil
}

// Extension implements glprint.Querier.
func (c *Context) Extension(name string) (ext glprint.Extension, err error) {
	defer catch(&err)
	v := c.gl.Call("getExtension", name)
	if !v.Truthy() {
		return nil, nil
	}
	if v.Get("loseContext").Type() == js.TypeFunction {
		return &loseContext{extension{name: name, v: v}}, nil
	}
	return &extension{name: name, v: v}, nil
}

// ShaderPrecisionFormat implements glprint.Querier.
func (c *Context) ShaderPrecisionFormat(shaderType, precisionType glprint.Enum) (f glprint.PrecisionFormat, err error) {
	defer catch(&err)
	v := c.gl.Call("getShaderPrecisionFormat", uint32(shaderType), uint32(precisionType))
	if !v.Truthy() {
		return f, fmt.Errorf("%w: no precision format", ErrJS)
	}
	return glprint.PrecisionFormat{
		RangeMin:  v.Get("rangeMin").Int(),
		RangeMax:  v.Get("rangeMax").Int(),
		Precision: v.Get("precision").Int(),
	}, nil
}

// HasFunction implements glprint.Querier.
func (c *Context) HasFunction(name string) bool {
	return c.gl.Get(name).Type() == js.TypeFunction
}

// CreateBuffer implements glprint.Drawer.
func (c *Context) CreateBuffer() (h glprint.Handle, err error) {
	defer catch(&err)
	return wrap(c.gl.Call("createBuffer")), nil
}

// BindBuffer implements glprint.Drawer.
func (c *Context) BindBuffer(target glprint.Enum, b glprint.Handle) (err error) {
	defer catch(&err)
	c.gl.Call("bindBuffer", uint32(target), value(b))
	return nil
}

// BufferData implements glprint.Drawer.
func (c *Context) BufferData(target glprint.Enum, data []float32, usage glprint.Enum) (err error) {
	defer catch(&err)
	arr := js.Global().Get("Float32Array").New(len(data))
	for i, f := range data {
		arr.SetIndex(i, f)
	}
	c.gl.Call("bufferData", uint32(target), arr, uint32(usage))
	return nil
}

// CreateProgram implements glprint.Drawer.
func (c *Context) CreateProgram() (h glprint.Handle, err error) {
	defer catch(&err)
	return wrap(c.gl.Call("createProgram")), nil
}

// CreateShader implements glprint.Drawer.
func (c *Context) CreateShader(shaderType glprint.Enum) (h glprint.Handle, err error) {
	defer catch(&err)
	return wrap(c.gl.Call("createShader", uint32(shaderType))), nil
}

// ShaderSource implements glprint.Drawer.
func (c *Context) ShaderSource(s glprint.Handle, source string) (err error) {
	defer catch(&err)
	c.gl.Call("shaderSource", value(s), source)
	return nil
}

// CompileShader implements glprint.Drawer.
func (c *Context) CompileShader(s glprint.Handle) (err error) {
	defer catch(&err)
	sh := value(s)
	c.gl.Call("compileShader", sh)
	if !c.gl.Call("getShaderParameter", sh, c.gl.Get("COMPILE_STATUS")).Truthy() {
		return fmt.Errorf("%w: compile: %s", ErrJS, c.gl.Call("getShaderInfoLog", sh).String())
	}
	return nil
}

// AttachShader implements glprint.Drawer.
func (c *Context) AttachShader(p, s glprint.Handle) (err error) {
	defer catch(&err)
	c.gl.Call("attachShader", value(p), value(s))
	return nil
}

// LinkProgram implements glprint.Drawer.
func (c *Context) LinkProgram(p glprint.Handle) (err error) {
	defer catch(&err)
	prog := value(p)
	c.gl.Call("linkProgram", prog)
	if !c.gl.Call("getProgramParameter", prog, c.gl.Get("LINK_STATUS")).Truthy() {
		return fmt.Errorf("%w: link: %s", ErrJS, c.gl.Call("getProgramInfoLog", prog).String())
	}
	return nil
}

// UseProgram implements glprint.Drawer.
func (c *Context) UseProgram(p glprint.Handle) (err error) {
	defer catch(&err)
	c.gl.Call("useProgram", value(p))
	return nil
}

// AttribLocation implements glprint.Drawer.
func (c *Context) AttribLocation(p glprint.Handle, name string) (loc int, err error) {
	defer catch(&err)
	return c.gl.Call("getAttribLocation", value(p), name).Int(), nil
}

// UniformLocation implements glprint.Drawer.
func (c *Context) UniformLocation(p glprint.Handle, name string) (h glprint.Handle, err error) {
	defer catch(&err)
	return wrap(c.gl.Call("getUniformLocation", value(p), name)), nil
}

// EnableVertexAttribArray implements glprint.Drawer.
func (c *Context) EnableVertexAttribArray(index int) (err error) {
	defer catch(&err)
	c.gl.Call("enableVertexAttribArray", index)
	return nil
}

// VertexAttribPointer implements glprint.Drawer.
func (c *Context) VertexAttribPointer(index, size int, typ glprint.Enum, normalized bool, stride, offset int) (err error) {
	defer catch(&err)
	c.gl.Call("vertexAttribPointer", index, size, uint32(typ), normalized, stride, offset)
	return nil
}

// Uniform2f implements glprint.Drawer.
func (c *Context) Uniform2f(loc glprint.Handle, x, y float32) (err error) {
	defer catch(&err)
	c.gl.Call("uniform2f", value(loc), x, y)
	return nil
}

// DrawArrays implements glprint.Drawer.
func (c *Context) DrawArrays(mode glprint.Enum, first, count int) (err error) {
	defer catch(&err)
	c.gl.Call("drawArrays", uint32(mode), first, count)
	return nil
}

// ReadPixels implements glprint.Drawer.
func (c *Context) ReadPixels(x, y, width, height int, format, typ glprint.Enum, dst []byte) (err error) {
	defer catch(&err)
	n := width * height * 4
	if len(dst) < n {
		return fmt.Errorf("jsgl: destination holds %d bytes, need %d", len(dst), n)
	}
	buf := js.Global().Get("Uint8Array").New(n)
	c.gl.Call("readPixels", x, y, width, height, uint32(format), uint32(typ), buf)
	js.CopyBytesToGo(dst[:n], buf)
	return nil
}
