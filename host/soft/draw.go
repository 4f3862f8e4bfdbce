package soft

import (
	"fmt"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/internal/raster"
)

func (c *Context) bufferHandle(h glprint.Handle) (*buffer, error) {
	b, ok := h.(*buffer)
	if !ok || b.ctx != c {
		return nil, fmt.Errorf("%w: buffer", ErrInvalidHandle)
	}
	return b, nil
}

func (c *Context) shaderHandle(h glprint.Handle) (*shader, error) {
	s, ok := h.(*shader)
	if !ok || s.ctx != c {
		return nil, fmt.Errorf("%w: shader", ErrInvalidHandle)
	}
	return s, nil
}

func (c *Context) programHandle(h glprint.Handle) (*program, error) {
	p, ok := h.(*program)
	if !ok || p.ctx != c {
		return nil, fmt.Errorf("%w: program", ErrInvalidHandle)
	}
	return p, nil
}

// CreateBuffer implements glprint.Drawer.
func (c *Context) CreateBuffer() (glprint.Handle, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return &buffer{ctx: c}, nil
}

// BindBuffer implements glprint.Drawer. Only ARRAY_BUFFER is supported.
func (c *Context) BindBuffer(target glprint.Enum, h glprint.Handle) error {
	if err := c.check(); err != nil {
		return err
	}
	if target != glprint.ARRAY_BUFFER {
		return fmt.Errorf("%w: buffer target %#x", ErrInvalidEnum, uint32(target))
	}
	if h == nil {
		c.arrayBuffer = nil
		return nil
	}
	b, err := c.bufferHandle(h)
	if err != nil {
		return err
	}
	c.arrayBuffer = b
	return nil
}

// BufferData implements glprint.Drawer.
func (c *Context) BufferData(target glprint.Enum, data []float32, _ glprint.Enum) error {
	if err := c.check(); err != nil {
		return err
	}
	if target != glprint.ARRAY_BUFFER {
		return fmt.Errorf("%w: buffer target %#x", ErrInvalidEnum, uint32(target))
	}
	if c.arrayBuffer == nil {
		return fmt.Errorf("%w: no buffer bound", ErrInvalidOperation)
	}
	c.arrayBuffer.data = append([]float32(nil), data...)
	return nil
}

// CreateProgram implements glprint.Drawer.
func (c *Context) CreateProgram() (glprint.Handle, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return &program{ctx: c}, nil
}

// CreateShader implements glprint.Drawer.
func (c *Context) CreateShader(shaderType glprint.Enum) (glprint.Handle, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if shaderType != glprint.VERTEX_SHADER && shaderType != glprint.FRAGMENT_SHADER {
		return nil, fmt.Errorf("%w: shader type %#x", ErrInvalidEnum, uint32(shaderType))
	}
	return &shader{ctx: c, typ: shaderType}, nil
}

// ShaderSource implements glprint.Drawer.
func (c *Context) ShaderSource(h glprint.Handle, source string) error {
	if err := c.check(); err != nil {
		return err
	}
	s, err := c.shaderHandle(h)
	if err != nil {
		return err
	}
	s.source = source
	s.compiled = false
	return nil
}

// CompileShader implements glprint.Drawer. The host compiler, if any, runs
// before the source is matched against the supported program shape.
func (c *Context) CompileShader(h glprint.Handle) error {
	if err := c.check(); err != nil {
		return err
	}
	s, err := c.shaderHandle(h)
	if err != nil {
		return err
	}
	if c.host.compiler != nil {
		if err := c.host.compiler(s.typ, s.source); err != nil {
			return fmt.Errorf("%w: %w", ErrCompile, err)
		}
	}
	return s.compile()
}

// AttachShader implements glprint.Drawer.
func (c *Context) AttachShader(ph, sh glprint.Handle) error {
	if err := c.check(); err != nil {
		return err
	}
	p, err := c.programHandle(ph)
	if err != nil {
		return err
	}
	s, err := c.shaderHandle(sh)
	if err != nil {
		return err
	}
	for _, a := range p.shaders {
		if a.typ == s.typ {
			return fmt.Errorf("%w: stage already attached", ErrInvalidOperation)
		}
	}
	p.shaders = append(p.shaders, s)
	return nil
}

// LinkProgram implements glprint.Drawer.
func (c *Context) LinkProgram(h glprint.Handle) error {
	if err := c.check(); err != nil {
		return err
	}
	p, err := c.programHandle(h)
	if err != nil {
		return err
	}
	return p.link()
}

// UseProgram implements glprint.Drawer.
func (c *Context) UseProgram(h glprint.Handle) error {
	if err := c.check(); err != nil {
		return err
	}
	if h == nil {
		c.current = nil
		return nil
	}
	p, err := c.programHandle(h)
	if err != nil {
		return err
	}
	if !p.linked {
		return fmt.Errorf("%w: program not linked", ErrInvalidOperation)
	}
	c.current = p
	return nil
}

// AttribLocation implements glprint.Drawer. The single attribute lives at
// location 0; unknown names return -1.
func (c *Context) AttribLocation(h glprint.Handle, name string) (int, error) {
	if err := c.check(); err != nil {
		return -1, err
	}
	p, err := c.programHandle(h)
	if err != nil {
		return -1, err
	}
	if !p.linked {
		return -1, fmt.Errorf("%w: program not linked", ErrInvalidOperation)
	}
	if name != p.attribute {
		return -1, nil
	}
	return 0, nil
}

// UniformLocation implements glprint.Drawer. Unknown names return nil.
func (c *Context) UniformLocation(h glprint.Handle, name string) (glprint.Handle, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	p, err := c.programHandle(h)
	if err != nil {
		return nil, err
	}
	if !p.linked {
		return nil, fmt.Errorf("%w: program not linked", ErrInvalidOperation)
	}
	if name != p.uniform {
		return nil, nil
	}
	return &uniformLocation{program: p, name: name}, nil
}

func (c *Context) maxAttribs() int {
	if n, ok := c.host.profile.Params[glprint.MAX_VERTEX_ATTRIBS].(int); ok && n > 0 {
		return n
	}
	return 16
}

// EnableVertexAttribArray implements glprint.Drawer.
func (c *Context) EnableVertexAttribArray(index int) error {
	if err := c.check(); err != nil {
		return err
	}
	if index < 0 || index >= c.maxAttribs() {
		return fmt.Errorf("%w: attribute index %d", ErrInvalidOperation, index)
	}
	st := c.attribs[index]
	st.enabled = true
	c.attribs[index] = st
	return nil
}

// VertexAttribPointer implements glprint.Drawer. Only FLOAT data is
// supported; stride and offset are in bytes.
func (c *Context) VertexAttribPointer(index, size int, typ glprint.Enum, _ bool, stride, offset int) error {
	if err := c.check(); err != nil {
		return err
	}
	if index < 0 || index >= c.maxAttribs() || size < 1 || size > 4 || stride < 0 || offset < 0 {
		return fmt.Errorf("%w: attribute pointer", ErrInvalidOperation)
	}
	if typ != glprint.FLOAT {
		return fmt.Errorf("%w: attribute type %#x", ErrInvalidEnum, uint32(typ))
	}
	if c.arrayBuffer == nil {
		return fmt.Errorf("%w: no buffer bound", ErrInvalidOperation)
	}
	st := c.attribs[index]
	st.size, st.stride, st.offset, st.buffer = size, stride, offset, c.arrayBuffer
	c.attribs[index] = st
	return nil
}

// Uniform2f implements glprint.Drawer. A nil location is ignored.
func (c *Context) Uniform2f(h glprint.Handle, x, y float32) error {
	if err := c.check(); err != nil {
		return err
	}
	if h == nil {
		return nil
	}
	loc, ok := h.(*uniformLocation)
	if !ok || loc.program.ctx != c {
		return fmt.Errorf("%w: uniform location", ErrInvalidHandle)
	}
	if loc.program != c.current {
		return fmt.Errorf("%w: location is not from the current program", ErrInvalidOperation)
	}
	loc.program.offset = [2]float32{x, y}
	return nil
}

// DrawArrays implements glprint.Drawer for TRIANGLE_STRIP.
func (c *Context) DrawArrays(mode glprint.Enum, first, count int) error {
	if err := c.check(); err != nil {
		return err
	}
	if mode != glprint.TRIANGLE_STRIP {
		return fmt.Errorf("%w: draw mode %#x", ErrInvalidEnum, uint32(mode))
	}
	p := c.current
	if p == nil {
		return fmt.Errorf("%w: no program in use", ErrInvalidOperation)
	}
	st := c.attribs[0]
	if !st.enabled || st.buffer == nil {
		return fmt.Errorf("%w: attribute 0 not enabled", ErrInvalidOperation)
	}
	if first < 0 || count < 0 {
		return fmt.Errorf("%w: draw range", ErrInvalidOperation)
	}

	step := st.size
	if st.stride > 0 {
		step = st.stride / 4
	}
	verts := make([]raster.Vertex, 0, count)
	for i := first; i < first+count; i++ {
		base := st.offset/4 + i*step
		if base+min(st.size, 2) > len(st.buffer.data) {
			return fmt.Errorf("%w: vertex %d out of buffer range", ErrInvalidOperation, i)
		}
		x, y := st.buffer.data[base], float32(0)
		if st.size > 1 {
			y = st.buffer.data[base+1]
		}
		verts = append(verts, raster.Vertex{
			X:       x,
			Y:       y,
			Varying: [2]float32{x + p.offset[0], y + p.offset[1]},
		})
	}

	c.target.DrawTriangleStrip(verts, func(v [2]float32) [4]float32 {
		return [4]float32{v[0], v[1], 0, 1}
	})
	return nil
}

// ReadPixels implements glprint.Drawer for RGBA/UNSIGNED_BYTE.
func (c *Context) ReadPixels(x, y, width, height int, format, typ glprint.Enum, dst []byte) error {
	if err := c.check(); err != nil {
		return err
	}
	if format != glprint.RGBA || typ != glprint.UNSIGNED_BYTE {
		return fmt.Errorf("%w: read format %#x/%#x", ErrInvalidEnum, uint32(format), uint32(typ))
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: read size", ErrInvalidOperation)
	}
	if len(dst) < width*height*4 {
		return fmt.Errorf("%w: destination holds %d bytes, need %d", ErrInvalidOperation, len(dst), width*height*4)
	}
	c.target.ReadPixels(x, y, width, height, dst)
	return nil
}
