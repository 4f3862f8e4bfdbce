package glprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Subject names a section of the capability record.
type Subject string

// Record subjects.
const (
	SubjectInfo      Subject = "info"
	SubjectParams    Subject = "params"
	SubjectFunctions Subject = "functions"
)

// Subjects lists the record subjects in presentation order. Serialization
// follows insertion order instead; see Record.MarshalJSON.
var Subjects = []Subject{SubjectInfo, SubjectParams, SubjectFunctions}

// Field is one entry of a nested value such as BEST_FLOAT_PRECISION.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered mapping used for nested record values.
type Fields []Field

// Get returns the value stored under key.
func (f Fields) Get(key string) (any, bool) {
	for _, e := range f {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Section is an insertion-ordered mapping from key to normalized value.
type Section struct {
	keys   []string
	values map[string]any
}

func newSection() *Section {
	return &Section{values: make(map[string]any)}
}

// Keys returns the keys in insertion order.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Get returns the value stored under key.
func (s *Section) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of keys.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *Section) set(key string, value any) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Record is the capability snapshot of one probe run. Every key keeps the
// position of its first insertion, so the serialization follows the fixed
// probe lists rather than map iteration order.
//
// A Record is owned by a single probe and is not safe for concurrent
// mutation.
type Record struct {
	sections map[Subject]*Section
	order    []Subject
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{sections: make(map[Subject]*Section, len(Subjects))}
}

// Add stores value under subject/key. Re-adding a key replaces the value
// but keeps the original position.
func (r *Record) Add(subject Subject, key string, value any) {
	s, ok := r.sections[subject]
	if !ok {
		s = newSection()
		r.sections[subject] = s
		r.order = append(r.order, subject)
	}
	s.set(key, value)
}

// Section returns the section for subject, or nil when nothing was added.
func (r *Record) Section(subject Subject) *Section {
	if r == nil {
		return nil
	}
	return r.sections[subject]
}

// Get returns the value stored under subject/key.
func (r *Record) Get(subject Subject, key string) (any, bool) {
	return r.Section(subject).Get(key)
}

// MarshalJSON writes the canonical serialization: subjects and keys in
// first-insertion order (collection writes info, functions, params), numbers
// and strings as JSON.stringify prints them.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, subject := range r.Order() {
		s := r.Section(subject)
		if s.Len() == 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeString(&buf, string(subject))
		buf.WriteByte(':')
		buf.WriteByte('{')
		for i, key := range s.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(&buf, key)
			buf.WriteByte(':')
			if err := writeValue(&buf, s.values[key]); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", subject, key, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Order returns the subjects in first-insertion order.
func (r *Record) Order() []Subject {
	if r == nil {
		return nil
	}
	return append([]Subject(nil), r.order...)
}

// Canonical returns the canonical serialization as a string.
func (r *Record) Canonical() (string, error) {
	b, err := r.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encode cannot fail for a string; it appends a newline we drop.
	_ = enc.Encode(s)
	out := tmp.Bytes()[:tmp.Len()-1]
	if !strings.ContainsAny(s, "\u2028\u2029") {
		buf.Write(out)
		return
	}
	// encoding/json escapes U+2028 and U+2029; JSON.stringify leaves them raw.
	for i := 0; i < len(out); i++ {
		if out[i] != '\\' || i+1 >= len(out) {
			buf.WriteByte(out[i])
			continue
		}
		switch string(out[i:min(i+6, len(out))]) {
		case `\u2028`:
			buf.WriteRune('\u2028')
			i += 5
		case `\u2029`:
			buf.WriteRune('\u2029')
			i += 5
		default:
			buf.Write(out[i : i+2])
			i++
		}
	}
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		writeString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []string:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, s)
		}
		buf.WriteByte(']')
	case Fields:
		buf.WriteByte('{')
		for i, f := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, f.Key)
			buf.WriteByte(':')
			if err := writeValue(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		if elems, ok := pairElements(v); ok {
			buf.WriteByte('[')
			for i, e := range elems {
				if i > 0 {
					buf.WriteByte(',')
				}
				buf.WriteString(formatNumber(e))
			}
			buf.WriteByte(']')
			return nil
		}
		f, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("unsupported record value %T", v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(formatNumber(f))
	}
	return nil
}

// String renders the record one "subject.key = value" per line, mainly for
// debugging and test failure output.
func (r *Record) String() string {
	var sb strings.Builder
	for _, subject := range r.Order() {
		s := r.Section(subject)
		for _, key := range s.Keys() {
			v, _ := s.Get(key)
			fmt.Fprintf(&sb, "%s.%s = %v\n", subject, key, v)
		}
	}
	return sb.String()
}
