package glprint

import (
	"math"
	"strconv"
	"strings"
)

// NotAvailable is the fallback recorded for values a host could not provide.
const NotAvailable = "n/a"

// FormatNumber renders v the way a JavaScript engine prints a Number.
func FormatNumber(v float64) string {
	return formatNumber(v)
}

// formatNumber renders v the way a JavaScript engine prints a Number, so
// canonical strings built here agree with those built in a browser.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		// Go pads the exponent to two digits, JavaScript does not.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// toFloat converts the numeric kinds hosts return into float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// pairElements returns the elements of a paired parameter value.
func pairElements(v any) ([]float64, bool) {
	switch s := v.(type) {
	case []float32:
		out := make([]float64, len(s))
		for i, f := range s {
			out[i] = float64(f)
		}
		return out, true
	case []float64:
		return s, true
	case []int32:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	case []int:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	}
	return nil, false
}

// expandPair renders a paired parameter as "[a, b]".
func expandPair(elems []float64) string {
	if len(elems) < 2 {
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = formatNumber(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "[" + formatNumber(elems[0]) + ", " + formatNumber(elems[1]) + "]"
}

// normalizeParam applies the record's value rules: nil becomes "n/a",
// paired values become "[a, b]", everything else passes through.
func normalizeParam(v any) any {
	if v == nil {
		return NotAvailable
	}
	if elems, ok := pairElements(v); ok {
		return expandPair(elems)
	}
	return v
}

// isPowerOfTwo reports whether v is a non-zero integral power of two.
func isPowerOfTwo(v any) bool {
	f, ok := toFloat(v)
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64/2 {
		return false
	}
	n := int64(f)
	return n&(n-1) == 0
}
