package report

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image/png"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

// Format selects a report rendering.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a format name ParseFormat does not know.
var ErrUnknownFormat = errors.New("report: unknown format")

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatHTML, FormatYAML, FormatJSON:
		return f, nil
	case "txt":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Write renders r to w in format f.
func (r *Report) Write(w io.Writer, f Format) error {
	switch f {
	case FormatText:
		return r.WriteText(w)
	case FormatHTML:
		return r.WriteHTML(w)
	case FormatYAML:
		return r.WriteYAML(w)
	case FormatJSON:
		return r.WriteJSON(w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WriteText renders r as aligned plain text. Continuation lines of
// flattened values are indented under their first line.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Agent:\t%s\n", r.Agent)
	fmt.Fprintf(tw, "Hash:\t%s\n", r.Hash)
	fmt.Fprintf(tw, "Fingerprint:\t%s\n", r.Fingerprint)
	fmt.Fprintf(tw, "Digest:\t%s\n", r.Digest)
	fmt.Fprintf(tw, "WebGL:\t%s\n", r.WebGL1)
	fmt.Fprintf(tw, "WebGL2:\t%s\n", r.WebGL2)
	if r.RenderError != "" {
		fmt.Fprintf(tw, "Canvas:\t%s\n", r.RenderError)
	}
	for _, sec := range r.Sections {
		if len(sec.Rows) == 0 {
			continue
		}
		fmt.Fprintf(tw, "\n== %s ==\n", sec.Heading)
		for _, row := range sec.Rows {
			lines := row.Lines
			if len(lines) == 0 {
				lines = []string{row.Value}
			}
			fmt.Fprintf(tw, "%s\t%s\n", row.Key, lines[0])
			for _, l := range lines[1:] {
				fmt.Fprintf(tw, "\t%s\n", l)
			}
		}
	}
	return tw.Flush()
}

// WriteJSON renders r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// WriteYAML renders r as YAML with one mapping per subject. Keys keep
// record order.
func (r *Report) WriteYAML(w io.Writer) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	addScalar(root, "agent", r.Agent)
	addScalar(root, "hash", r.Hash)
	addScalar(root, "fingerprint", r.Fingerprint)
	addScalar(root, "digest", r.Digest)
	addScalar(root, "webgl1", r.WebGL1)
	addScalar(root, "webgl2", r.WebGL2)
	if r.RenderError != "" {
		addScalar(root, "renderError", r.RenderError)
	}
	for _, sec := range r.Sections {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, row := range sec.Rows {
			addScalar(m, row.Key, row.Value)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(sec.Subject)}, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("report: yaml: %w", err)
	}
	return enc.Close()
}

func addScalar(m *yaml.Node, key, value string) {
	v := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if strings.Contains(value, "\n") {
		v.Style = yaml.LiteralStyle
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>glprint {{.Hash}}</title></head>
<body>
<dl>
<dt>Agent</dt><dd id="agent">{{.Agent}}</dd>
<dt>Fingerprint</dt><dd id="fingerprint">{{.Hash}}</dd>
<dt>WebGL</dt><dd>{{.WebGL1}}</dd>
<dt>WebGL2</dt><dd>{{.WebGL2}}</dd>
</dl>
{{if .Canvas}}<img id="canvas" alt="probe scene" src="{{.Canvas}}">{{else}}<p id="canvas">{{.RenderError}}</p>{{end}}
{{range .Sections}}
<h2>{{.Heading}}</h2>
<table id="table-{{.Subject}}">
<tbody>
{{range .Rows}}<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</tbody>
</table>
{{end}}
</body>
</html>
`))

type htmlRow struct {
	Key   string
	Value template.HTML
}

type htmlSection struct {
	Heading string
	Subject string
	Rows    []htmlRow
}

// WriteHTML renders r as a standalone page. Host-provided strings are
// stripped of markup before flattened lines are joined with <br>.
func (r *Report) WriteHTML(w io.Writer) error {
	policy := bluemonday.StrictPolicy()
	data := struct {
		Agent       string
		Hash        string
		WebGL1      string
		WebGL2      string
		RenderError string
		Canvas      template.URL
		Sections    []htmlSection
	}{
		Agent:       r.Agent,
		Hash:        r.Hash,
		WebGL1:      r.WebGL1,
		WebGL2:      r.WebGL2,
		RenderError: r.RenderError,
	}

	if r.result != nil && r.result.Canvas != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, r.result.Canvas); err != nil {
			return fmt.Errorf("report: encode canvas: %w", err)
		}
		data.Canvas = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
	}

	for _, sec := range r.Sections {
		hs := htmlSection{Heading: sec.Heading, Subject: string(sec.Subject)}
		for _, row := range sec.Rows {
			lines := row.Lines
			if len(lines) == 0 {
				lines = []string{row.Value}
			}
			clean := make([]string, len(lines))
			for i, l := range lines {
				clean[i] = policy.Sanitize(l)
			}
			hs.Rows = append(hs.Rows, htmlRow{Key: row.Key, Value: template.HTML(strings.Join(clean, "<br>"))})
		}
		data.Sections = append(data.Sections, hs)
	}
	return htmlTemplate.Execute(w, data)
}
