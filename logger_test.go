package glprint

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// captureLogs routes glprint logging into a buffer for the test's duration.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func TestNopHandler(t *testing.T) {
	var h slog.Handler = nopHandler{}
	ctx := context.Background()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(ctx, level) {
			t.Errorf("Enabled(%v) = true", level)
		}
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(nopHandler); !ok {
		t.Error("WithAttrs() left the nop handler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("WithGroup() left the nop handler")
	}
}

func TestLoggerSilentByDefault(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("Logger() = nil after SetLogger(nil)")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) left an enabled logger")
	}
}

func TestProbeLogging(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		host  func() *fakeHost
		want  []string
		skip  []string
	}{
		{
			name:  "completed",
			level: slog.LevelInfo,
			host:  newFakeHost,
			want:  []string{"glprint: probe completed", "alias=webgl2", "version=2"},
			skip:  []string{"alias supported"},
		},
		{
			name:  "alias detail at debug",
			level: slog.LevelDebug,
			host:  newFakeHost,
			want:  []string{"glprint: alias supported", "alias=experimental-webgl"},
		},
		{
			name:  "scene degraded",
			level: slog.LevelWarn,
			host: func() *fakeHost {
				h := newFakeHost()
				h.configure = func(c *fakeContext) { c.fill = nil }
				return h
			},
			want: []string{"glprint: scene degraded"},
			skip: []string{"probe completed"},
		},
		{
			name:  "unsupported",
			level: slog.LevelInfo,
			host: func() *fakeHost {
				h := newFakeHost()
				h.accept = nil
				return h
			},
			want: []string{"glprint: webgl unsupported"},
			skip: []string{"probe completed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t, tt.level)
			_, _ = Probe(context.Background(), tt.host())

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("log missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.skip {
				if strings.Contains(out, s) {
					t.Errorf("log has unexpected %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("read")
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("glprint: parameter query failed", "param", "VERSION")
	}
}
