package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/host/soft"
)

func probeReport(t *testing.T, opts ...soft.Option) *Report {
	t.Helper()
	res, err := glprint.Probe(context.Background(), soft.New(opts...))
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	return New(res)
}

func findRow(t *testing.T, r *Report, subject glprint.Subject, key string) Row {
	t.Helper()
	for _, sec := range r.Sections {
		if sec.Subject != subject {
			continue
		}
		for _, row := range sec.Rows {
			if row.Key == key {
				return row
			}
		}
	}
	t.Fatalf("row %s.%s not found", subject, key)
	return Row{}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"nil", nil, "null"},
		{"string", "WebKit", "WebKit"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 16, "16"},
		{"float32", float32(0.5), "0.5"},
		{"large", 1e21, "1e+21"},
		{"array", []string{"a", "b", "c"}, "a, b, c"},
		{"empty array", []string{}, ""},
		{"fields", glprint.Fields{{Key: "high", Value: "x"}, {Key: "low", Value: "y"}}, "x\ny"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.v); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestNewSections(t *testing.T) {
	r := probeReport(t)

	want := []string{"Info", "Params", "Functions"}
	if len(r.Sections) != len(want) {
		t.Fatalf("sections = %d, want %d", len(r.Sections), len(want))
	}
	for i, sec := range r.Sections {
		if sec.Heading != want[i] {
			t.Errorf("section %d heading = %q, want %q", i, sec.Heading, want[i])
		}
	}

	impl := findRow(t, r, glprint.SubjectInfo, glprint.KeyImplementations)
	if impl.Value != "webgl2, experimental-webgl2, webgl, experimental-webgl" {
		t.Errorf("implementations = %q", impl.Value)
	}
	best := findRow(t, r, glprint.SubjectParams, glprint.KeyBestPrecision)
	if len(best.Lines) != 4 {
		t.Errorf("BEST_FLOAT_PRECISION lines = %q, want 4", best.Lines)
	}
	if r.WebGL1 != "Supported" || r.WebGL2 != "Supported" {
		t.Errorf("status = %s/%s", r.WebGL1, r.WebGL2)
	}
}

func TestWriteText(t *testing.T) {
	r := probeReport(t)
	var buf bytes.Buffer
	if err := r.Write(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"Hash:", r.Hash, "== Info ==", "== Params ==", "== Functions ==", "UNMASKED_RENDERER"} {
		if !strings.Contains(out, s) {
			t.Errorf("text report missing %q", s)
		}
	}
}

func TestWriteHTMLSanitizes(t *testing.T) {
	p := soft.DefaultProfile()
	p.Params[glprint.UNMASKED_RENDERER_WEBGL] = "<b>evil</b> GPU<script>alert(1)</script>"
	p.Agent = "<i>agent</i>"
	r := probeReport(t, soft.WithProfile(p))

	var buf bytes.Buffer
	if err := r.WriteHTML(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<b>") || strings.Contains(out, "<script>") || strings.Contains(out, "<i>") {
		t.Errorf("markup leaked into the page:\n%s", out)
	}
	if !strings.Contains(out, "evil GPU") {
		t.Error("sanitized renderer text missing")
	}
	if !strings.Contains(out, `src="data:image/png;base64,`) {
		t.Error("canvas image missing")
	}
	if !strings.Contains(out, "<br>") {
		t.Error("flattened precision not joined with <br>")
	}
	if !strings.Contains(out, `id="table-params"`) {
		t.Error("params table missing")
	}
}

func TestWriteYAMLKeepsOrder(t *testing.T) {
	r := probeReport(t)
	var buf bytes.Buffer
	if err := r.WriteYAML(&buf); err != nil {
		t.Fatal(err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	root := doc.Content[0]
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	want := []string{"agent", "hash", "fingerprint", "digest", "webgl1", "webgl2", "info", "params", "functions"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	params := root.Content[15]
	if params.Content[0].Value != "VERSION" {
		t.Errorf("first param = %q, want VERSION", params.Content[0].Value)
	}
}

func TestWriteJSON(t *testing.T) {
	r := probeReport(t)
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Hash     string `json:"hash"`
		Sections []struct {
			Subject string `json:"subject"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Hash != r.Hash || len(got.Sections) != 3 || got.Sections[2].Subject != "functions" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"text", FormatText},
		{"TXT", FormatText},
		{"html", FormatHTML},
		{"yml", FormatYAML},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(pdf) error = %v", err)
	}
	if got := FormatJSON.ContentType(); got != "application/json" {
		t.Errorf("ContentType() = %q", got)
	}
}
