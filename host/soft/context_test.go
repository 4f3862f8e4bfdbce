package soft

import (
	"errors"
	"testing"

	"github.com/gogpu/glprint"
)

func newContext(t *testing.T, h *Host, alias string) *Context {
	t.Helper()
	s, err := h.NewSurface(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	rc, err := s.Context(alias, glprint.ContextAttributes{})
	if err != nil || rc == nil {
		t.Fatalf("Context(%q) = %v, %v", alias, rc, err)
	}
	return rc.(*Context)
}

func TestShaderCompile(t *testing.T) {
	tests := []struct {
		name    string
		typ     glprint.Enum
		source  string
		wantErr bool
	}{
		{"vertex", glprint.VERTEX_SHADER, glprint.SceneVertexShader, false},
		{"fragment", glprint.FRAGMENT_SHADER, glprint.SceneFragmentShader, false},
		{"empty", glprint.VERTEX_SHADER, "", true},
		{"no varying", glprint.FRAGMENT_SHADER, "void main(){gl_FragColor=vec4(1.0);}", true},
		{"fragment as vertex", glprint.VERTEX_SHADER, glprint.SceneFragmentShader, true},
		{
			"position from uniform",
			glprint.VERTEX_SHADER,
			"attribute vec2 a;uniform vec2 u;varying vec2 v;void main(){v=a+u;gl_Position=vec4(u,0,1);}",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &shader{typ: tt.typ, source: tt.source}
			err := s.compile()
			if (err != nil) != tt.wantErr {
				t.Fatalf("compile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrCompile) {
				t.Errorf("compile() error = %v, want ErrCompile", err)
			}
		})
	}
}

func TestLinkMismatchedVarying(t *testing.T) {
	vs := &shader{typ: glprint.VERTEX_SHADER, source: glprint.SceneVertexShader}
	fs := &shader{typ: glprint.FRAGMENT_SHADER,
		source: "varying vec2 other;void main(){gl_FragColor=vec4(other,0,1);}"}
	if err := vs.compile(); err != nil {
		t.Fatal(err)
	}
	if err := fs.compile(); err != nil {
		t.Fatal(err)
	}
	p := &program{shaders: []*shader{vs, fs}}
	if err := p.link(); !errors.Is(err, ErrLink) {
		t.Errorf("link() error = %v, want ErrLink", err)
	}
}

func TestParameterGating(t *testing.T) {
	c := newContext(t, New(), "webgl2")

	v, err := c.Parameter(glprint.UNMASKED_VENDOR_WEBGL)
	if err != nil || v != nil {
		t.Fatalf("UNMASKED_VENDOR before extension = %v, %v", v, err)
	}
	if ext, _ := c.Extension(glprint.ExtDebugRendererInfo); ext == nil {
		t.Fatal("debug renderer info not supported")
	}
	v, _ = c.Parameter(glprint.UNMASKED_VENDOR_WEBGL)
	if v != "The gogpu Authors" {
		t.Errorf("UNMASKED_VENDOR = %v", v)
	}

	if v, _ := c.Parameter(glprint.Enum(0x1234)); v != nil {
		t.Errorf("unknown enum = %v, want nil", v)
	}
	if ext, _ := c.Extension("EXT_does_not_exist"); ext != nil {
		t.Errorf("unknown extension = %v, want nil", ext)
	}
}

func TestSurfaceSingleContext(t *testing.T) {
	h := New()
	s, err := h.NewSurface(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.(*Surface).Width() != 300 || s.(*Surface).Height() != 150 {
		t.Errorf("default size = %dx%d", s.(*Surface).Width(), s.(*Surface).Height())
	}
	a, _ := s.Context("webgl", glprint.ContextAttributes{})
	b, _ := s.Context("webgl", glprint.ContextAttributes{})
	if a == nil || a != b {
		t.Error("same alias did not return the same context")
	}
	if c, _ := s.Context("webgl2", glprint.ContextAttributes{}); c != nil {
		t.Error("second alias on one surface yielded a context")
	}
	_ = s.Close()
	if !a.(*Context).Lost() {
		t.Error("context survived surface close")
	}
	if n := h.LiveContexts(); n != 0 {
		t.Errorf("LiveContexts() = %d, want 0", n)
	}
}

func TestLoseContextExtension(t *testing.T) {
	h := New()
	c := newContext(t, h, "webgl")
	ext, err := c.Extension("WEBGL_lose_context")
	if err != nil || ext == nil {
		t.Fatalf("Extension() = %v, %v", ext, err)
	}
	if err := ext.(glprint.ContextLoser).LoseContext(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SupportedExtensions(); !errors.Is(err, ErrContextLost) {
		t.Errorf("SupportedExtensions() error = %v, want ErrContextLost", err)
	}
}

func TestDrawRejectsUnsupportedMode(t *testing.T) {
	c := newContext(t, New(), "webgl")
	if err := c.DrawArrays(glprint.Enum(0x0004), 0, 3); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("DrawArrays(TRIANGLES) error = %v, want ErrInvalidEnum", err)
	}
	dst := make([]byte, 4)
	if err := c.ReadPixels(0, 0, 1, 1, glprint.RGBA, glprint.FLOAT, dst); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("ReadPixels(FLOAT) error = %v, want ErrInvalidEnum", err)
	}
}
