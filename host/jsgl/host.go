//go:build js && wasm

package jsgl

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/gogpu/glprint"
)

// HostName is the registry name of the jsgl host.
const HostName = "jsgl"

// ErrNoDocument is returned outside a page with a document.
var ErrNoDocument = errors.New("jsgl: no document")

// ErrJS is wrapped around exceptions thrown by page calls.
var ErrJS = errors.New("jsgl: javascript exception")

func init() {
	glprint.RegisterHost(HostName, func() (glprint.Host, error) {
		return New()
	})
}

// Host is the page running the WASM module.
type Host struct {
	global   js.Value
	document js.Value
}

// New binds the host to the current page.
func New() (*Host, error) {
	g := js.Global()
	doc := g.Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return nil, ErrNoDocument
	}
	return &Host{global: g, document: doc}, nil
}

// Agent implements glprint.Host.
func (h *Host) Agent() string {
	return h.global.Get("navigator").Get("userAgent").String()
}

// Platform implements glprint.Host.
func (h *Host) Platform() string {
	p := h.global.Get("navigator").Get("platform")
	if p.Type() != js.TypeString {
		return ""
	}
	return p.String()
}

// SupportsAPI implements glprint.APIReporter.
func (h *Host) SupportsAPI(version int) bool {
	switch version {
	case 1:
		return h.global.Get("WebGLRenderingContext").Truthy()
	case 2:
		return h.global.Get("WebGL2RenderingContext").Truthy()
	}
	return false
}

// NewSurface implements glprint.Host.
func (h *Host) NewSurface(width, height int) (s glprint.Surface, err error) {
	defer catch(&err)
	canvas := h.document.Call("createElement", "canvas")
	if width > 0 && height > 0 {
		canvas.Set("width", width)
		canvas.Set("height", height)
	}
	return &Surface{canvas: canvas}, nil
}

// catch converts a js.Error panic into an error.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = fmt.Errorf("%w: %s", ErrJS, jsErr.Error())
		return
	}
	panic(r)
}

// Surface is a canvas element.
type Surface struct {
	canvas js.Value
}

// Context implements glprint.Surface.
func (s *Surface) Context(alias string, attrs glprint.ContextAttributes) (rc glprint.RenderingContext, err error) {
	defer catch(&err)
	opts := map[string]any{
		"stencil":                      attrs.Stencil,
		"failIfMajorPerformanceCaveat": attrs.FailIfMajorPerformanceCaveat,
	}
	gl := s.canvas.Call("getContext", alias, opts)
	if !gl.Truthy() {
		return nil, nil
	}
	return &Context{gl: gl}, nil
}

// Close implements glprint.Surface.
func (s *Surface) Close() error {
	s.canvas = js.Null()
	return nil
}
