// Package glprint derives a stable identifier for a client's graphics stack.
//
// # Overview
//
// glprint probes a WebGL-style host for the context aliases it accepts,
// snapshots the capability parameters, extensions and entry points of the
// best context, renders a fixed triangle and reads the pixels back. All of
// that, plus the client identifier, is folded into a two-stage SHA-256
// digest: the Fingerprint, and the Hash derived from it.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glprint"
//	    _ "github.com/gogpu/glprint/host/soft"
//	)
//
//	host, _ := glprint.NewHost("soft")
//	res, err := glprint.Probe(ctx, host)
//	if errors.Is(err, glprint.ErrUnsupported) {
//	    // no WebGL at all
//	}
//	fmt.Println(res.Hash)
//
// # Hosts
//
// A Host is the only collaborator the probe needs. Implementations live in
// sub-packages and register themselves on import:
//   - host/soft: deterministic in-memory reference host
//   - host/wgpu: native GPU adapter through gogpu/wgpu
//   - host/browser: headless Chrome driven by go-rod
//   - host/jsgl: the page's own WebGL when compiled to js/wasm
//
// # Determinism
//
// For identical host answers and agent, Probe returns byte-identical
// Fingerprint and Hash. The capability record serializes subjects in the
// order info, params, functions and keys in probe order. Extension names
// are sorted unless WithHostOrder is given.
//
// # Failure Model
//
// Only ErrUnsupported, ErrBlocked and ErrNilHost (or a context error) leave
// Probe. Each failing sub-query degrades its own record value to "n/a",
// false or a documented label. A failed scene drops the pixel contribution
// and is reported in Result.RenderErr.
package glprint

// Version is the current version of the library.
const Version = "0.1.0"
