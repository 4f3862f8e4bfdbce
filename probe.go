package glprint

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// APIStatus is the availability of one WebGL API version in a host.
type APIStatus int

const (
	// StatusUnsupported means the host does not expose the API at all.
	StatusUnsupported APIStatus = iota

	// StatusSupported means the API is exposed and a context was acquired.
	StatusSupported

	// StatusDisabled means the API is exposed but no context could be made.
	StatusDisabled

	// StatusBlocked means contexts are handed out for aliases no genuine
	// implementation accepts.
	StatusBlocked
)

// String returns the status label.
func (s APIStatus) String() string {
	switch s {
	case StatusUnsupported:
		return "Unsupported"
	case StatusSupported:
		return "Supported"
	case StatusDisabled:
		return "Disabled"
	case StatusBlocked:
		return "Blocked"
	default:
		return fmt.Sprintf("APIStatus(%d)", int(s))
	}
}

// Status reports the per-version availability observed during a probe. It
// is diagnostic only and never enters the fingerprint.
type Status struct {
	WebGL1 APIStatus
	WebGL2 APIStatus
}

// Record info keys.
const (
	KeyImplementations = "implementations"
	KeyWebGLVersion    = "WebGLVersion"
	KeyBestPrecision   = "BEST_FLOAT_PRECISION"
)

// Result is the outcome of a successful probe run.
type Result struct {
	// Agent is the client identifier mixed into both digests.
	Agent string

	// Canvas is the rendered scene, top row first. It is nil when the scene
	// could not be rendered.
	Canvas *image.RGBA

	// Pixels is the raw read-back buffer, nil when the scene failed.
	Pixels *PixelBuffer

	// Fingerprint is the first-stage digest.
	Fingerprint string

	// Hash is the second-stage digest, the externally consumable identifier.
	Hash string

	// Digest is the hash function both stages used.
	Digest Digest

	// Record is the capability snapshot.
	Record *Record

	// Implementations lists every alias that yielded a context.
	Implementations []string

	// Version is the highest WebGL API version detected (1 or 2).
	Version int

	// Status is the per-version availability.
	Status Status

	// RenderErr is the reason the scene contributed no pixels, if any. It
	// wraps ErrRenderFailed.
	RenderErr error
}

// Probe runs the full capability probe against host and composes the
// fingerprint.
//
// The returned error is ErrNilHost, ErrUnsupported or ErrBlocked (all
// terminal), or ctx.Err() when ctx is done between stages. Every other
// failure degrades a single record value or drops the pixel contribution;
// it is never returned.
//
// Probe is synchronous. Probes of the same host must not overlap: a host
// keeps at most one probe context live at a time.
func Probe(ctx context.Context, host Host, opts ...Option) (*Result, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	agent := host.Agent()
	if o.agentSet {
		agent = o.agent
	}
	log := Logger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := initialStatus(host)
	pr, err := ProbeContexts(host, o.aliases)
	status = resolveStatus(status, pr)
	if err != nil {
		log.Info("glprint: webgl unsupported", "webgl1", status.WebGL1, "webgl2", status.WebGL2)
		return nil, err
	}

	record := NewRecord()
	record.Add(SubjectInfo, KeyImplementations, append([]string(nil), pr.Implementations...))

	alias := pr.Alias()
	if alias == SentinelAlias {
		Release(pr.Context)
		log.Info("glprint: webgl blocked", "implementations", strings.Join(pr.Implementations, ","))
		return nil, ErrBlocked
	}

	version := pr.Version()
	record.Add(SubjectInfo, KeyWebGLVersion, version)

	collect(host, pr.Context, alias, version, agent, o, record)
	Release(pr.Context)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		Agent:           agent,
		Digest:          o.digest,
		Record:          record,
		Implementations: pr.Implementations,
		Version:         version,
		Status:          status,
	}

	if o.sceneEnabled {
		pixels, err := RenderScene(host, sceneAliases(alias, o.aliases), o.sceneWidth, o.sceneHeight)
		if err != nil {
			log.Warn("glprint: scene degraded", "err", err)
			res.RenderErr = err
		} else {
			res.Pixels = pixels
			res.Canvas = pixels.ToImage()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := Compose(o.digest, res.Pixels, record, agent, o.legacy)
	if err != nil {
		// Unreachable with values the probe itself records.
		return nil, err
	}
	res.Fingerprint = c.Fingerprint
	res.Hash = c.Hash

	log.Info("glprint: probe completed",
		"alias", alias,
		"version", version,
		"digest", o.digest,
		"pixels", res.Pixels != nil,
	)
	return res, nil
}

// collect fills the functions and params subjects from the live context.
func collect(host Host, rc RenderingContext, alias string, version int, agent string, o options, record *Record) {
	if version == 2 && supportsAPI(host, 2) {
		RecordFunctions(rc, version, record)
	}
	ExtractParams(host, rc, alias, version, agent, record)
	RecordExtensions(rc, o.hostOrder, record)
	record.Add(SubjectParams, KeyBestPrecision, DescribePrecision(rc, VERTEX_SHADER))
}

// supportsAPI defers to the host's APIReporter. Hosts without one are taken
// to expose every version they hand out contexts for.
func supportsAPI(host Host, version int) bool {
	r, ok := host.(APIReporter)
	if !ok {
		return true
	}
	return r.SupportsAPI(version)
}

func initialStatus(host Host) Status {
	var s Status
	if supportsAPI(host, 1) {
		s.WebGL1 = StatusSupported
	}
	if supportsAPI(host, 2) {
		s.WebGL2 = StatusSupported
	}
	return s
}

// resolveStatus downgrades exposed APIs that yielded no usable context.
func resolveStatus(s Status, pr *ProbeResult) Status {
	if !pr.Supported() {
		if s.WebGL1 == StatusSupported {
			s.WebGL1 = StatusDisabled
		}
		if s.WebGL2 == StatusSupported {
			s.WebGL2 = StatusDisabled
		}
		return s
	}
	if s.WebGL2 == StatusSupported {
		found := false
		for _, impl := range pr.Implementations {
			if impl != SentinelAlias && aliasVersion(impl) == 2 {
				found = true
				break
			}
		}
		if !found {
			s.WebGL2 = StatusDisabled
		}
	}
	if pr.Alias() == SentinelAlias {
		s.WebGL1 = StatusBlocked
	}
	return s
}
