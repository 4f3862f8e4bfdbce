// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster is a small deterministic triangle rasterizer for clip-space
// geometry with one interpolated two-component varying. It backs the hosts
// that draw the probe scene without a real GL driver.
package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// coverageThreshold is the coverage (0-255) a pixel needs to be shaded.
// Pixels about half covered or more are drawn, approximating the GL
// pixel-center rule without multisampling.
const coverageThreshold = 128

// Vertex is a clip-space position with its varying.
type Vertex struct {
	X, Y    float32
	Varying [2]float32
}

// Shader maps an interpolated varying to an RGBA color in [0, 1].
type Shader func(varying [2]float32) [4]float32

// Target is an RGBA framebuffer. Rows are stored bottom-up, as glReadPixels
// returns them.
type Target struct {
	Width  int
	Height int
	Pix    []uint8

	mask *image.Alpha
}

// NewTarget creates a cleared width x height framebuffer.
func NewTarget(width, height int) *Target {
	return &Target{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
		mask:   image.NewAlpha(image.Rect(0, 0, width, height)),
	}
}

// Clear resets every pixel to transparent black.
func (t *Target) Clear() {
	clear(t.Pix)
}

// DrawTriangleStrip draws verts as a GL triangle strip.
func (t *Target) DrawTriangleStrip(verts []Vertex, shade Shader) {
	for i := 0; i+2 < len(verts); i++ {
		t.DrawTriangle(verts[i], verts[i+1], verts[i+2], shade)
	}
}

// DrawTriangle draws a single triangle.
func (t *Target) DrawTriangle(a, b, c Vertex, shade Shader) {
	if t.Width <= 0 || t.Height <= 0 {
		return
	}
	// Window coordinates with y growing downward, the convention of
	// vector.Rasterizer.
	ax, ay := t.window(a)
	bx, by := t.window(b)
	cx, cy := t.window(c)

	area := edge(ax, ay, bx, by, cx, cy)
	if area == 0 {
		return
	}

	clear(t.mask.Pix)
	r := vector.NewRasterizer(t.Width, t.Height)
	r.DrawOp = draw.Src
	r.MoveTo(ax, ay)
	r.LineTo(bx, by)
	r.LineTo(cx, cy)
	r.ClosePath()
	r.Draw(t.mask, t.mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < t.Height; y++ {
		row := t.mask.Pix[y*t.mask.Stride : y*t.mask.Stride+t.Width]
		for x, cov := range row {
			if cov < coverageThreshold {
				continue
			}
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := edge(bx, by, cx, cy, px, py) / area
			w1 := edge(cx, cy, ax, ay, px, py) / area
			w2 := 1 - w0 - w1

			var v [2]float32
			for k := range v {
				v[k] = w0*a.Varying[k] + w1*b.Varying[k] + w2*c.Varying[k]
			}
			t.set(x, t.Height-1-y, shade(v))
		}
	}
}

func (t *Target) window(v Vertex) (float32, float32) {
	return (v.X + 1) / 2 * float32(t.Width), (1 - v.Y) / 2 * float32(t.Height)
}

func (t *Target) set(x, glY int, c [4]float32) {
	i := (glY*t.Width + x) * 4
	for k := range c {
		t.Pix[i+k] = toByte(c[k])
	}
}

// edge is twice the signed area of the triangle (a, b, p).
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// toByte converts a color channel the way a UNSIGNED_BYTE framebuffer
// stores it: clamped, then rounded.
func toByte(f float32) uint8 {
	if math.IsNaN(float64(f)) || f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(math.Round(float64(f) * 255))
}

// ReadPixels copies the rectangle (x, y, w, h), in GL bottom-up
// coordinates, into dst. Pixels outside the target read as zero.
func (t *Target) ReadPixels(x, y, w, h int, dst []uint8) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			di := (row*w + col) * 4
			if di+4 > len(dst) {
				return
			}
			sx, sy := x+col, y+row
			if sx < 0 || sy < 0 || sx >= t.Width || sy >= t.Height {
				copy(dst[di:di+4], []uint8{0, 0, 0, 0})
				continue
			}
			si := (sy*t.Width + sx) * 4
			copy(dst[di:di+4], t.Pix[si:si+4])
		}
	}
}
