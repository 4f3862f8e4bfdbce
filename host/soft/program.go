package soft

import (
	"fmt"
	"regexp"

	"github.com/gogpu/glprint"
)

// The soft context runs one program shape: a vertex stage that outputs its
// vec2 attribute as the position and attribute+uniform as a vec2 varying,
// and a fragment stage that writes vec4(varying, 0, 1). Sources are matched
// structurally; anything else fails to compile.
var (
	reMain      = regexp.MustCompile(`void\s+main\s*\(\s*\)`)
	reAttribute = regexp.MustCompile(`attribute\s+vec2\s+(\w+)\s*;`)
	reVarying   = regexp.MustCompile(`varying\s+vec2\s+(\w+)\s*;`)
	reUniform   = regexp.MustCompile(`uniform\s+vec2\s+(\w+)\s*;`)
	reOffset    = regexp.MustCompile(`(\w+)\s*=\s*(\w+)\s*\+\s*(\w+)\s*;`)
	rePosition  = regexp.MustCompile(`gl_Position\s*=\s*vec4\s*\(\s*(\w+)\s*,\s*0(?:\.0)?\s*,\s*1(?:\.0)?\s*\)`)
	reFragColor = regexp.MustCompile(`gl_FragColor\s*=\s*vec4\s*\(\s*(\w+)\s*,\s*0(?:\.0)?\s*,\s*1(?:\.0)?\s*\)`)
)

type buffer struct {
	ctx  *Context
	data []float32
}

type shader struct {
	ctx      *Context
	typ      glprint.Enum
	source   string
	compiled bool

	// Names bound by a compiled vertex stage.
	attribute string
	uniform   string
	// varying is declared by both stages.
	varying string
}

type program struct {
	ctx     *Context
	shaders []*shader
	linked  bool

	attribute string
	uniform   string
	offset    [2]float32
}

type uniformLocation struct {
	program *program
	name    string
}

// compile parses s.source into the supported program shape.
func (s *shader) compile() error {
	src := s.source
	if !reMain.MatchString(src) {
		return fmt.Errorf("%w: no main function", ErrCompile)
	}
	varying := submatch(reVarying, src)
	if varying == "" {
		return fmt.Errorf("%w: no vec2 varying", ErrCompile)
	}

	switch s.typ {
	case glprint.VERTEX_SHADER:
		attr := submatch(reAttribute, src)
		uni := submatch(reUniform, src)
		if attr == "" || uni == "" {
			return fmt.Errorf("%w: vertex stage needs a vec2 attribute and uniform", ErrCompile)
		}
		if submatch(rePosition, src) != attr {
			return fmt.Errorf("%w: position must be the attribute", ErrCompile)
		}
		m := reOffset.FindStringSubmatch(src)
		if m == nil || m[1] != varying || !sameOperands(m[2], m[3], attr, uni) {
			return fmt.Errorf("%w: varying must be attribute + uniform", ErrCompile)
		}
		s.attribute, s.uniform = attr, uni
	case glprint.FRAGMENT_SHADER:
		if submatch(reFragColor, src) != varying {
			return fmt.Errorf("%w: color must be the varying", ErrCompile)
		}
	default:
		return fmt.Errorf("%w: shader type %#x", ErrInvalidEnum, uint32(s.typ))
	}
	s.varying = varying
	s.compiled = true
	return nil
}

func submatch(re *regexp.Regexp, src string) string {
	m := re.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

func sameOperands(a, b, x, y string) bool {
	return (a == x && b == y) || (a == y && b == x)
}

// link checks that exactly one compiled stage of each kind is attached and
// that they agree on the varying.
func (p *program) link() error {
	var vs, fs *shader
	for _, s := range p.shaders {
		if !s.compiled {
			return fmt.Errorf("%w: shader not compiled", ErrLink)
		}
		switch s.typ {
		case glprint.VERTEX_SHADER:
			vs = s
		case glprint.FRAGMENT_SHADER:
			fs = s
		}
	}
	if vs == nil || fs == nil {
		return fmt.Errorf("%w: missing stage", ErrLink)
	}
	if vs.varying != fs.varying {
		return fmt.Errorf("%w: varying %q does not match %q", ErrLink, vs.varying, fs.varying)
	}
	p.attribute, p.uniform = vs.attribute, vs.uniform
	p.linked = true
	return nil
}
