package glprint

import "strings"

// SentinelAlias is an alias no genuine implementation answers to. It is
// probed only to prove absence; a host that accepts it is blocking or
// faking WebGL.
const SentinelAlias = "fake-webgl"

// DefaultAliases is the ordered list of context aliases the prober tries.
var DefaultAliases = []string{
	"webgl2",
	"experimental-webgl2",
	"webgl",
	"experimental-webgl",
	"moz-webgl",
	SentinelAlias,
}

// ProbeResult is the outcome of context discovery.
type ProbeResult struct {
	// Implementations lists every alias that yielded a context, in probe order.
	Implementations []string

	// Context is the live context of the first successful alias. Every later
	// success was released as soon as it was acquired.
	Context RenderingContext
}

// Supported reports whether any alias succeeded.
func (p *ProbeResult) Supported() bool {
	return p != nil && len(p.Implementations) > 0 && p.Context != nil
}

// Alias returns the alias the live context was acquired with.
func (p *ProbeResult) Alias() string {
	if !p.Supported() {
		return ""
	}
	return p.Implementations[0]
}

// Version returns the highest API version: 2 when the winning alias is a
// version-2 alias, 1 otherwise, 0 when unsupported.
func (p *ProbeResult) Version() int {
	if !p.Supported() {
		return 0
	}
	return aliasVersion(p.Implementations[0])
}

func aliasVersion(alias string) int {
	if strings.HasSuffix(alias, "2") {
		return 2
	}
	return 1
}

// ProbeContexts tries each alias in order on a scratch surface, requesting a
// stencil buffer. Only the first successful context stays live. An alias
// whose acquisition fails is treated as unsupported; it never aborts the
// remaining aliases.
//
// The returned error is ErrUnsupported when no alias succeeded.
func ProbeContexts(host Host, aliases []string) (*ProbeResult, error) {
	res := &ProbeResult{}
	log := Logger()

	for _, alias := range aliases {
		rc, err := acquire(host, alias, ContextAttributes{Stencil: true})
		if err != nil {
			log.Debug("glprint: alias probe failed", "alias", alias, "err", err)
			continue
		}
		if rc == nil {
			log.Debug("glprint: alias unsupported", "alias", alias)
			continue
		}
		if res.Context == nil {
			res.Context = rc
		} else {
			Release(rc)
		}
		res.Implementations = append(res.Implementations, alias)
		log.Debug("glprint: alias supported", "alias", alias)
	}

	if !res.Supported() {
		return res, ErrUnsupported
	}
	return res, nil
}

// acquire creates a fresh surface and asks it for alias. Each alias gets its
// own surface, as a canvas hands out only one context type.
func acquire(host Host, alias string, attrs ContextAttributes) (RenderingContext, error) {
	surface, err := host.NewSurface(0, 0)
	if err != nil {
		return nil, err
	}
	rc, err := surface.Context(alias, attrs)
	if err != nil || rc == nil {
		_ = surface.Close()
		return nil, err
	}
	return rc, nil
}
