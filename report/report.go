// Package report renders probe results for people.
//
// A Report is the presentation view of a glprint.Result: the agent, the
// hash, the rendered canvas and one table per record subject (info,
// params, functions, in that order). Cell values follow a fixed contract:
// arrays are joined with ", ", nested mappings are flattened to their
// values one per line, numbers print the way a JavaScript engine prints
// them. The same Report renders as text, HTML, YAML or JSON.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/glprint"
)

// Row is one key/value line of a section.
type Row struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`

	// Lines is Value split on the flattening separator; it has more than
	// one element only for flattened mappings.
	Lines []string `json:"-" yaml:"-"`
}

// Section is the table of one record subject.
type Section struct {
	Subject glprint.Subject `json:"subject" yaml:"subject"`
	Heading string          `json:"heading" yaml:"heading"`
	Rows    []Row           `json:"rows" yaml:"rows"`
}

// Report is the presentation view of a probe result.
type Report struct {
	Agent       string          `json:"agent" yaml:"agent"`
	Hash        string          `json:"hash" yaml:"hash"`
	Fingerprint string          `json:"fingerprint" yaml:"fingerprint"`
	Digest      string          `json:"digest" yaml:"digest"`
	WebGL1      string          `json:"webgl1" yaml:"webgl1"`
	WebGL2      string          `json:"webgl2" yaml:"webgl2"`
	RenderError string          `json:"renderError,omitempty" yaml:"renderError,omitempty"`
	Sections    []Section       `json:"sections" yaml:"sections"`
	result      *glprint.Result
}

// New builds the report of res.
func New(res *glprint.Result) *Report {
	title := cases.Title(language.English)
	r := &Report{
		Agent:       res.Agent,
		Hash:        res.Hash,
		Fingerprint: res.Fingerprint,
		Digest:      res.Digest.String(),
		WebGL1:      res.Status.WebGL1.String(),
		WebGL2:      res.Status.WebGL2.String(),
		result:      res,
	}
	if res.RenderErr != nil {
		r.RenderError = res.RenderErr.Error()
	}
	for _, subject := range glprint.Subjects {
		s := res.Record.Section(subject)
		sec := Section{Subject: subject, Heading: title.String(string(subject))}
		for _, key := range s.Keys() {
			v, _ := s.Get(key)
			lines := valueLines(v)
			sec.Rows = append(sec.Rows, Row{Key: key, Value: strings.Join(lines, "\n"), Lines: lines})
		}
		r.Sections = append(r.Sections, sec)
	}
	return r
}

// FormatValue renders one record value by the presentation contract.
func FormatValue(v any) string {
	return strings.Join(valueLines(v), "\n")
}

func valueLines(v any) []string {
	switch val := v.(type) {
	case glprint.Fields:
		lines := make([]string, 0, len(val))
		for _, f := range val {
			lines = append(lines, FormatValue(f.Value))
		}
		return lines
	case []string:
		return []string{strings.Join(val, ", ")}
	}
	return []string{scalar(v)}
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return glprint.FormatNumber(float64(val))
	case int32:
		return glprint.FormatNumber(float64(val))
	case int64:
		return glprint.FormatNumber(float64(val))
	case uint32:
		return glprint.FormatNumber(float64(val))
	case float32:
		return glprint.FormatNumber(float64(val))
	case float64:
		return glprint.FormatNumber(val)
	}
	return fmt.Sprint(v)
}
