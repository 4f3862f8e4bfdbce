package glprint

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func mustProbe(t *testing.T, h Host, opts ...Option) *Result {
	t.Helper()
	res, err := Probe(context.Background(), h, opts...)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	return res
}

func TestProbeDeterministic(t *testing.T) {
	a := mustProbe(t, newFakeHost())
	b := mustProbe(t, newFakeHost())

	if a.Fingerprint != b.Fingerprint {
		t.Errorf("Fingerprint differs: %s vs %s", a.Fingerprint, b.Fingerprint)
	}
	if a.Hash != b.Hash {
		t.Errorf("Hash differs: %s vs %s", a.Hash, b.Hash)
	}
	if len(a.Fingerprint) != 64 || len(a.Hash) != 64 {
		t.Errorf("digest lengths = %d, %d, want 64", len(a.Fingerprint), len(a.Hash))
	}
}

func TestProbeResult(t *testing.T) {
	h := newFakeHost()
	res := mustProbe(t, h)

	if res.Agent != h.agent {
		t.Errorf("Agent = %q", res.Agent)
	}
	if res.Version != 2 {
		t.Errorf("Version = %d, want 2", res.Version)
	}
	if res.Pixels == nil || res.Pixels.Len() != 131072 {
		t.Fatal("scene pixels missing")
	}
	if res.Canvas == nil || res.Canvas.Bounds().Dx() != SceneWidth || res.Canvas.Bounds().Dy() != SceneHeight {
		t.Error("Canvas missing or wrong size")
	}
	if res.RenderErr != nil {
		t.Errorf("RenderErr = %v", res.RenderErr)
	}
	if res.Digest != DigestSHA256 {
		t.Errorf("Digest = %v", res.Digest)
	}

	impls, _ := res.Record.Get(SubjectInfo, KeyImplementations)
	if !slices.Equal(impls.([]string), res.Implementations) {
		t.Errorf("info.implementations = %v, want %v", impls, res.Implementations)
	}
	if v, _ := res.Record.Get(SubjectInfo, KeyWebGLVersion); v != 2 {
		t.Errorf("info.WebGLVersion = %v", v)
	}
	if n := res.Record.Section(SubjectFunctions).Len(); n != len(Version2Functions) {
		t.Errorf("functions recorded = %d, want %d", n, len(Version2Functions))
	}

	keys := res.Record.Section(SubjectParams).Keys()
	tail := keys[len(keys)-4:]
	want := []string{"FLOAT_INT_PRECISION", KeyOrdinaryExtensions, KeyPrivilegedExtensions, KeyBestPrecision}
	if !slices.Equal(tail, want) {
		t.Errorf("params tail = %v, want %v", tail, want)
	}

	if live := h.live(); len(live) != 0 {
		t.Errorf("%d contexts left live after Probe", len(live))
	}
}

func TestProbeHashRelationship(t *testing.T) {
	for _, d := range []Digest{DigestSHA256, DigestSHA3} {
		res := mustProbe(t, newFakeHost(), WithDigest(d), WithAgent("custom-agent"))
		if res.Agent != "custom-agent" {
			t.Errorf("Agent = %q", res.Agent)
		}
		if res.Hash != d.Sum(res.Fingerprint+"custom-agent") {
			t.Errorf("%v: Hash is not digest(Fingerprint + agent)", d)
		}
		input, err := CanonicalInput(res.Pixels, res.Record, res.Agent, false)
		if err != nil {
			t.Fatal(err)
		}
		if res.Fingerprint != d.Sum(input) {
			t.Errorf("%v: Fingerprint is not digest(pixels + record + agent)", d)
		}
	}
}

func reversed(s []string) []string {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}

func TestProbeExtensionOrderInvariance(t *testing.T) {
	a := mustProbe(t, newFakeHost())

	h := newFakeHost()
	h.configure = func(c *fakeContext) { c.extensions = reversed(c.extensions) }
	b := mustProbe(t, h)

	if a.Fingerprint != b.Fingerprint {
		t.Error("reordered extension list changed the fingerprint")
	}

	// Host order opts out of normalization.
	c := mustProbe(t, newFakeHost(), WithHostOrder())
	h2 := newFakeHost()
	h2.configure = func(c *fakeContext) { c.extensions = reversed(c.extensions) }
	d := mustProbe(t, h2, WithHostOrder())
	if c.Fingerprint == d.Fingerprint {
		t.Error("WithHostOrder fingerprint ignored extension order")
	}
}

func TestProbeUnsupported(t *testing.T) {
	h := newFakeHost()
	h.accept = nil

	res, err := Probe(context.Background(), h)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Probe() error = %v, want ErrUnsupported", err)
	}
	if res != nil {
		t.Error("Probe() returned a result for an unsupported host")
	}
	// Only the alias probes touched the host: no caveat or scene surface.
	if h.surfaces != len(DefaultAliases) {
		t.Errorf("surfaces = %d, want %d", h.surfaces, len(DefaultAliases))
	}
}

func TestProbeBlocked(t *testing.T) {
	h := newFakeHost()
	h.accept = []string{SentinelAlias}

	res, err := Probe(context.Background(), h)
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("Probe() error = %v, want ErrBlocked", err)
	}
	if res != nil {
		t.Error("Probe() returned a result for a blocked host")
	}
	if live := h.live(); len(live) != 0 {
		t.Errorf("%d contexts left live", len(live))
	}
}

func TestProbeNilHost(t *testing.T) {
	if _, err := Probe(context.Background(), nil); !errors.Is(err, ErrNilHost) {
		t.Errorf("Probe(nil) error = %v, want ErrNilHost", err)
	}
}

func TestProbeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Probe(ctx, newFakeHost()); !errors.Is(err, context.Canceled) {
		t.Errorf("Probe() error = %v, want context.Canceled", err)
	}
}

func TestProbeGracefulDegradation(t *testing.T) {
	h := newFakeHost()
	h.configure = func(c *fakeContext) {
		c.extsErr = errFake
		c.extErr = errFake
		c.precErr = errFake
		c.attrErr = errFake
	}
	res := mustProbe(t, h)

	want := map[string]any{
		KeyOrdinaryExtensions:      NotAvailable,
		KeyPrivilegedExtensions:    NotAvailable,
		KeyBestPrecision:           false,
		"FLOAT_INT_PRECISION":      NotAvailable,
		"ANTIALIASING":             "False",
		"MAX_ANISOTROPY":           NotAvailable,
		"MAJOR_PERFORMANCE_CAVEAT": "n/gl",
		"UNMASKED_VENDOR":          "WebKit",
	}
	for key, w := range want {
		if got, _ := res.Record.Get(SubjectParams, key); got != w {
			t.Errorf("%s = %v, want %v", key, got, w)
		}
	}
	if res.Hash == "" {
		t.Error("degraded probe produced no hash")
	}
}

func TestProbeZeroPixels(t *testing.T) {
	h := newFakeHost()
	h.configure = func(c *fakeContext) { c.fill = nil }
	res := mustProbe(t, h)

	if !errors.Is(res.RenderErr, ErrZeroPixels) {
		t.Errorf("RenderErr = %v, want ErrZeroPixels", res.RenderErr)
	}
	if res.Pixels != nil || res.Canvas != nil {
		t.Error("zero buffer leaked into the result")
	}
	input, _ := CanonicalInput(nil, res.Record, res.Agent, false)
	if res.Fingerprint != DigestSHA256.Sum(input) {
		t.Error("fingerprint includes a pixel contribution")
	}
}

func TestProbeSceneFailureKeepsCapabilities(t *testing.T) {
	h := newFakeHost()
	h.configure = func(c *fakeContext) { c.drawErr = errFake }
	res := mustProbe(t, h)

	if !errors.Is(res.RenderErr, ErrRenderFailed) {
		t.Errorf("RenderErr = %v, want ErrRenderFailed", res.RenderErr)
	}
	ok := mustProbe(t, newFakeHost())
	if res.Fingerprint == ok.Fingerprint {
		t.Error("failed scene produced the same fingerprint as a rendered one")
	}
}

func TestProbeOptions(t *testing.T) {
	withScene := mustProbe(t, newFakeHost())
	legacy := mustProbe(t, newFakeHost(), WithLegacyFingerprint())
	if legacy.Fingerprint != DigestSHA256.Sum(legacy.Pixels.Serialize()) {
		t.Error("legacy fingerprint is not digest(pixels)")
	}
	if legacy.Hash != DigestSHA256.Sum(legacy.Fingerprint+legacy.Agent) {
		t.Error("legacy hash is not digest(fingerprint + agent)")
	}
	if legacy.Fingerprint == withScene.Fingerprint {
		t.Error("legacy fingerprint equals the default")
	}

	noScene := mustProbe(t, newFakeHost(), WithoutScene())
	if noScene.Pixels != nil || noScene.RenderErr != nil {
		t.Error("WithoutScene still rendered")
	}

	small := mustProbe(t, newFakeHost(), WithSceneSize(16, 8))
	if small.Pixels.Len() != 16*8*4 {
		t.Errorf("WithSceneSize pixels = %d", small.Pixels.Len())
	}
	if withScene.Pixels.Len() != SceneWidth*SceneHeight*4 || withScene.Pixels.Len() != 131072 {
		t.Errorf("default pixels = %d, want 131072", withScene.Pixels.Len())
	}
	if small.Fingerprint == withScene.Fingerprint {
		t.Error("resized scene fingerprint equals the canonical one")
	}

	h := newFakeHost()
	v1 := mustProbe(t, h, WithAliases("webgl", "experimental-webgl"))
	if v1.Version != 1 || !slices.Equal(v1.Implementations, []string{"webgl", "experimental-webgl"}) {
		t.Errorf("WithAliases: version %d, implementations %v", v1.Version, v1.Implementations)
	}
	if v1.Record.Section(SubjectFunctions).Len() != 0 {
		t.Error("version 1 probe recorded entry points")
	}
}

func TestProbeStatus(t *testing.T) {
	tests := []struct {
		name   string
		accept []string
		apis   map[int]bool
		want   Status
	}{
		{"both", []string{"webgl2", "webgl"}, map[int]bool{1: true, 2: true}, Status{StatusSupported, StatusSupported}},
		{"webgl2 disabled", []string{"webgl"}, map[int]bool{1: true, 2: true}, Status{StatusSupported, StatusDisabled}},
		{"webgl2 absent", []string{"webgl"}, map[int]bool{1: true}, Status{StatusSupported, StatusUnsupported}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost()
			h.accept = tt.accept
			res := mustProbe(t, reportingHost{fakeHost: h, apis: tt.apis})
			if res.Status != tt.want {
				t.Errorf("Status = %+v, want %+v", res.Status, tt.want)
			}
		})
	}

	// Without the WebGL2 API the entry points are not checked.
	h := newFakeHost()
	res := mustProbe(t, reportingHost{fakeHost: h, apis: map[int]bool{1: true}})
	if res.Record.Section(SubjectFunctions).Len() != 0 {
		t.Error("entry points recorded although the host lacks WebGL2")
	}
}

func TestResolveStatusFailures(t *testing.T) {
	s := resolveStatus(Status{StatusSupported, StatusSupported}, &ProbeResult{})
	if s != (Status{StatusDisabled, StatusDisabled}) {
		t.Errorf("unsupported status = %+v", s)
	}
	s = resolveStatus(Status{StatusSupported, StatusSupported}, &ProbeResult{
		Implementations: []string{SentinelAlias},
		Context:         newFakeContext(),
	})
	if s.WebGL1 != StatusBlocked || s.WebGL2 != StatusDisabled {
		t.Errorf("blocked status = %+v", s)
	}
	if StatusBlocked.String() != "Blocked" {
		t.Errorf("String() = %q", StatusBlocked.String())
	}
}

func TestCanonicalSubjectOrderFollowsCollection(t *testing.T) {
	res := mustProbe(t, newFakeHost())
	got, err := res.Record.Canonical()
	if err != nil {
		t.Fatal(err)
	}

	prefix := `{"info":{"implementations":["webgl2","experimental-webgl2","webgl","experimental-webgl"],"WebGLVersion":2},"functions":{`
	if !strings.HasPrefix(got, prefix) {
		t.Errorf("canonical record starts %.160s, want prefix %s", got, prefix)
	}
	fn, params := strings.Index(got, `"functions":`), strings.Index(got, `"params":`)
	if fn < 0 || params < 0 || fn > params {
		t.Errorf("functions at %d, params at %d; want functions first", fn, params)
	}
}
