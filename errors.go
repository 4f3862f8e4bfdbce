package glprint

import "errors"

// Terminal probe outcomes. Probe returns one of these (possibly wrapped)
// instead of a Result; callers must not retry.
var (
	// ErrUnsupported is returned when no context alias could be acquired.
	ErrUnsupported = errors.New("glprint: webgl unsupported")

	// ErrBlocked is returned when the first alias to yield a context is the
	// sentinel alias, which a genuine implementation never answers to.
	ErrBlocked = errors.New("glprint: webgl blocked")

	// ErrNilHost is returned when Probe is called without a host.
	ErrNilHost = errors.New("glprint: nil host")
)

// Rendering failures. These never leave Probe: they are attached to
// Result.RenderErr and the pixel contribution is dropped.
var (
	// ErrRenderFailed wraps any failure while drawing or reading back the scene.
	ErrRenderFailed = errors.New("glprint: scene render failed")

	// ErrZeroPixels is returned when the read-back buffer serializes to
	// all zeros, the signature of a blocked or software-stubbed rasterizer.
	ErrZeroPixels = errors.New("glprint: scene read back only zeroes")

	// ErrNoContext is returned by the scene renderer when no alias yields a
	// context on the scene surface.
	ErrNoContext = errors.New("glprint: no rendering context for scene")
)
