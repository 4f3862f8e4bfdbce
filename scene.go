package glprint

import (
	"fmt"
	"slices"
)

// Probe scene dimensions. The read-back buffer is always
// SceneWidth*SceneHeight*4 bytes.
const (
	SceneWidth  = 256
	SceneHeight = 128
)

// SceneVertices is the triangle strip drawn by the scene, three components
// per vertex.
var SceneVertices = []float32{
	-.2, -.9, 0,
	.4, -.26, 0,
	0, .7321, 0,
}

const (
	sceneItemSize = 3
	sceneNumItems = 3
)

// Scene shader sources.
const (
	SceneVertexShader = "attribute vec2 attrVertex;" +
		"varying vec2 varyinTexCoordinate;" +
		"uniform vec2 uniformOffset;" +
		"void main(){" +
		"    varyinTexCoordinate = attrVertex + uniformOffset;" +
		"    gl_Position = vec4(attrVertex, 0, 1);" +
		"}"

	SceneFragmentShader = "precision mediump float;" +
		"varying vec2 varyinTexCoordinate;" +
		"void main(){" +
		"    gl_FragColor = vec4(varyinTexCoordinate, 0, 1);" +
		"}"
)

// Scene attribute and uniform names.
const (
	SceneAttribute = "attrVertex"
	SceneUniform   = "uniformOffset"
)

// sceneAliases returns the aliases tried for the scene surface: the alias
// that won discovery first, then the remaining genuine aliases in order.
// The sentinel is never used for drawing.
func sceneAliases(winner string, aliases []string) []string {
	out := make([]string, 0, len(aliases))
	if winner != "" && winner != SentinelAlias {
		out = append(out, winner)
	}
	for _, a := range aliases {
		if a == SentinelAlias || slices.Contains(out, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// RenderScene draws the probe scene on a fresh width x height surface and
// reads the framebuffer back. Every failure wraps ErrRenderFailed; an
// all-zero framebuffer additionally wraps ErrZeroPixels. The scene context
// is released before returning.
func RenderScene(host Host, aliases []string, width, height int) (*PixelBuffer, error) {
	surface, err := host.NewSurface(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: surface: %w", ErrRenderFailed, err)
	}
	defer func() { _ = surface.Close() }()

	var rc RenderingContext
	for _, alias := range aliases {
		rc, err = surface.Context(alias, ContextAttributes{})
		if err != nil {
			Logger().Debug("glprint: scene context failed", "alias", alias, "err", err)
			continue
		}
		if rc != nil {
			break
		}
	}
	if rc == nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, ErrNoContext)
	}
	defer Release(rc)

	if err := drawScene(rc); err != nil {
		return nil, fmt.Errorf("%w: draw: %w", ErrRenderFailed, err)
	}

	pixels := NewPixelBuffer(width, height)
	if err := rc.ReadPixels(0, 0, width, height, RGBA, UNSIGNED_BYTE, pixels.data); err != nil {
		return nil, fmt.Errorf("%w: read pixels: %w", ErrRenderFailed, err)
	}
	if pixels.IsZero() {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, ErrZeroPixels)
	}
	return pixels, nil
}

// drawScene issues the fixed draw sequence. The first failing call aborts.
func drawScene(d Drawer) error {
	buf, err := d.CreateBuffer()
	if err != nil {
		return fmt.Errorf("create buffer: %w", err)
	}
	if err := d.BindBuffer(ARRAY_BUFFER, buf); err != nil {
		return fmt.Errorf("bind buffer: %w", err)
	}
	if err := d.BufferData(ARRAY_BUFFER, SceneVertices, STATIC_DRAW); err != nil {
		return fmt.Errorf("buffer data: %w", err)
	}

	program, err := d.CreateProgram()
	if err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	vs, err := compileShader(d, VERTEX_SHADER, SceneVertexShader)
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	fs, err := compileShader(d, FRAGMENT_SHADER, SceneFragmentShader)
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	if err := d.AttachShader(program, vs); err != nil {
		return fmt.Errorf("attach vertex shader: %w", err)
	}
	if err := d.AttachShader(program, fs); err != nil {
		return fmt.Errorf("attach fragment shader: %w", err)
	}
	if err := d.LinkProgram(program); err != nil {
		return fmt.Errorf("link program: %w", err)
	}
	if err := d.UseProgram(program); err != nil {
		return fmt.Errorf("use program: %w", err)
	}

	attrib, err := d.AttribLocation(program, SceneAttribute)
	if err != nil {
		return fmt.Errorf("attribute location: %w", err)
	}
	offset, err := d.UniformLocation(program, SceneUniform)
	if err != nil {
		return fmt.Errorf("uniform location: %w", err)
	}
	if err := d.EnableVertexAttribArray(attrib); err != nil {
		return fmt.Errorf("enable attribute: %w", err)
	}
	if err := d.VertexAttribPointer(attrib, sceneItemSize, FLOAT, false, 0, 0); err != nil {
		return fmt.Errorf("attribute pointer: %w", err)
	}
	if err := d.Uniform2f(offset, 1, 1); err != nil {
		return fmt.Errorf("uniform: %w", err)
	}
	if err := d.DrawArrays(TRIANGLE_STRIP, 0, sceneNumItems); err != nil {
		return fmt.Errorf("draw arrays: %w", err)
	}
	return nil
}

func compileShader(d Drawer, shaderType Enum, source string) (Handle, error) {
	sh, err := d.CreateShader(shaderType)
	if err != nil {
		return nil, err
	}
	if err := d.ShaderSource(sh, source); err != nil {
		return nil, err
	}
	if err := d.CompileShader(sh); err != nil {
		return nil, err
	}
	return sh, nil
}
