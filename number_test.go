package glprint

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-3, "-3"},
		{0.5, "0.5"},
		{16384, "16384"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{math.Ldexp(1, 127), "1.7014118346046923e+38"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeParam(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, NotAvailable},
		{"string", "WebKit", "WebKit"},
		{"int", 16, 16},
		{"bool", true, true},
		{"float32 pair", []float32{1, 1024}, "[1, 1024]"},
		{"int32 pair", []int32{32767, 32767}, "[32767, 32767]"},
		{"fractional pair", []float64{0.5, 7.5}, "[0.5, 7.5]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeParam(tt.in); got != tt.want {
				t.Errorf("normalizeParam(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{1, true},
		{1024, true},
		{4096, true},
		{1023, false},
		{0, false},
		{-4, false},
		{2.5, false},
		{"1024", false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("isPowerOfTwo(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
