package glprint

import (
	"errors"
	"slices"
	"testing"
)

func TestProbeContexts(t *testing.T) {
	tests := []struct {
		name        string
		accept      []string
		fail        map[string]error
		wantImpls   []string
		wantVersion int
		wantErr     error
	}{
		{
			name:        "all genuine aliases",
			accept:      []string{"webgl2", "experimental-webgl2", "webgl", "experimental-webgl"},
			wantImpls:   []string{"webgl2", "experimental-webgl2", "webgl", "experimental-webgl"},
			wantVersion: 2,
		},
		{
			name:        "webgl1 only",
			accept:      []string{"webgl", "experimental-webgl"},
			wantImpls:   []string{"webgl", "experimental-webgl"},
			wantVersion: 1,
		},
		{
			name:        "failing alias is skipped",
			accept:      []string{"webgl2", "webgl"},
			fail:        map[string]error{"webgl2": errFake},
			wantImpls:   []string{"webgl"},
			wantVersion: 1,
		},
		{
			name:        "sentinel only",
			accept:      []string{SentinelAlias},
			wantImpls:   []string{SentinelAlias},
			wantVersion: 1,
		},
		{
			name:    "nothing",
			accept:  nil,
			wantErr: ErrUnsupported,
		},
		{
			name:    "everything throws",
			accept:  DefaultAliases,
			fail:    map[string]error{"webgl2": errFake, "experimental-webgl2": errFake, "webgl": errFake, "experimental-webgl": errFake, "moz-webgl": errFake, SentinelAlias: errFake},
			wantErr: ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost()
			h.accept = tt.accept
			h.fail = tt.fail

			res, err := ProbeContexts(h, DefaultAliases)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ProbeContexts() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if res.Supported() {
					t.Error("Supported() = true on failure")
				}
				return
			}
			if !slices.Equal(res.Implementations, tt.wantImpls) {
				t.Errorf("Implementations = %v, want %v", res.Implementations, tt.wantImpls)
			}
			if got := res.Version(); got != tt.wantVersion {
				t.Errorf("Version() = %d, want %d", got, tt.wantVersion)
			}
			if got := res.Alias(); got != tt.wantImpls[0] {
				t.Errorf("Alias() = %q, want %q", got, tt.wantImpls[0])
			}
		})
	}
}

func TestProbeContextsKeepsOneLive(t *testing.T) {
	h := newFakeHost()

	res, err := ProbeContexts(h, DefaultAliases)
	if err != nil {
		t.Fatalf("ProbeContexts() error = %v", err)
	}
	live := h.live()
	if len(live) != 1 {
		t.Fatalf("live contexts = %d, want 1", len(live))
	}
	if live[0] != res.Context {
		t.Error("the live context is not the first successful one")
	}
	if live[0].alias != "webgl2" {
		t.Errorf("live alias = %q, want webgl2", live[0].alias)
	}
	if !live[0].attrs.Stencil {
		t.Error("probe context was not requested with a stencil buffer")
	}
	if h.surfaces != len(DefaultAliases) {
		t.Errorf("surfaces = %d, want one per alias (%d)", h.surfaces, len(DefaultAliases))
	}
}

func TestProbeResultNil(t *testing.T) {
	var p *ProbeResult
	if p.Supported() || p.Alias() != "" || p.Version() != 0 {
		t.Error("nil ProbeResult should report unsupported")
	}
}
