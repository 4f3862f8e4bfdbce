// Package soft provides a deterministic in-memory WebGL host.
//
// A soft host answers every capability query from a Profile and draws with
// the internal CPU rasterizer, so the same profile always yields the same
// fingerprint on every machine. It is the reference host for tests and the
// fallback when no browser or GPU is available.
//
// Importing the package registers it as "soft":
//
//	import _ "github.com/gogpu/glprint/host/soft"
package soft

import (
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/glprint"
)

// HostName is the registry name of the soft host.
const HostName = "soft"

// DefaultMaxContexts mirrors the per-page live context cap of Chromium.
const DefaultMaxContexts = 16

func init() {
	glprint.RegisterHost(HostName, func() (glprint.Host, error) {
		return New(), nil
	})
}

// Compiler validates a shader source before the soft context accepts it.
// Hosts that own a real shader toolchain plug it in with WithCompiler.
type Compiler func(shaderType glprint.Enum, source string) error

// Option configures a Host.
type Option func(*Host)

// WithProfile replaces the default profile.
func WithProfile(p Profile) Option {
	return func(h *Host) {
		h.profile = p.Clone()
	}
}

// WithAgent overrides the profile's agent string.
func WithAgent(agent string) Option {
	return func(h *Host) {
		h.profile.Agent = agent
	}
}

// WithPlatform overrides the profile's platform string.
func WithPlatform(platform string) Option {
	return func(h *Host) {
		h.profile.Platform = platform
	}
}

// WithMaxContexts sets how many contexts may be live at once. When the cap
// is reached the oldest live context is lost, as browsers do.
func WithMaxContexts(n int) Option {
	return func(h *Host) {
		if n > 0 {
			h.maxContexts = n
		}
	}
}

// WithCompiler adds a shader validation step to CompileShader.
func WithCompiler(c Compiler) Option {
	return func(h *Host) {
		h.compiler = c
	}
}

// Host is an in-memory glprint.Host.
type Host struct {
	profile     Profile
	maxContexts int
	compiler    Compiler

	mu   sync.Mutex
	live []*Context
}

// New creates a soft host with DefaultProfile unless overridden.
func New(opts ...Option) *Host {
	h := &Host{
		profile:     DefaultProfile(),
		maxContexts: DefaultMaxContexts,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Profile returns a copy of the host's profile.
func (h *Host) Profile() Profile {
	return h.profile.Clone()
}

// Agent implements glprint.Host.
func (h *Host) Agent() string { return h.profile.Agent }

// Platform implements glprint.Host.
func (h *Host) Platform() string { return h.profile.Platform }

// SupportsAPI implements glprint.APIReporter.
func (h *Host) SupportsAPI(version int) bool {
	return h.profile.supportsVersion(version)
}

// NewSurface implements glprint.Host.
func (h *Host) NewSurface(width, height int) (glprint.Surface, error) {
	if width < 0 || height < 0 {
		return nil, ErrInvalidSize
	}
	if width == 0 || height == 0 {
		width, height = h.profile.CanvasWidth, h.profile.CanvasHeight
	}
	return &Surface{host: h, width: width, height: height}, nil
}

// LiveContexts returns the number of contexts not yet lost.
func (h *Host) LiveContexts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// aliasVersion returns the API version an alias asks for, or 0 when the
// profile does not accept it.
func (h *Host) aliasVersion(alias string) int {
	if !slices.Contains(h.profile.Aliases, alias) {
		return 0
	}
	version := 1
	if strings.HasSuffix(alias, "2") {
		version = 2
	}
	if !h.profile.supportsVersion(version) {
		return 0
	}
	return version
}

// track registers a new live context, losing the oldest when over the cap.
func (h *Host) track(c *Context) {
	h.mu.Lock()
	var evicted *Context
	if len(h.live) >= h.maxContexts {
		evicted = h.live[0]
		h.live = h.live[1:]
	}
	h.live = append(h.live, c)
	h.mu.Unlock()

	if evicted != nil {
		glprint.Logger().Warn("soft: too many active contexts, oldest context lost",
			"max", h.maxContexts, "alias", evicted.alias)
		evicted.markLost()
	}
}

// untrack removes c from the live list.
func (h *Host) untrack(c *Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.live {
		if l == c {
			h.live = append(h.live[:i], h.live[i+1:]...)
			return
		}
	}
}
