package glprint

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"
)

// PixelBuffer is the RGBA framebuffer read back from the probe scene.
// Rows are stored bottom-up, the order glReadPixels returns them.
type PixelBuffer struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixelBuffer creates a zeroed buffer of width*height*4 bytes.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the buffer.
func (p *PixelBuffer) Width() int {
	return p.width
}

// Height returns the height of the buffer.
func (p *PixelBuffer) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA, bottom-up rows).
func (p *PixelBuffer) Data() []uint8 {
	return p.data
}

// Len returns the buffer length in bytes.
func (p *PixelBuffer) Len() int {
	return len(p.data)
}

// IsZero reports whether every byte is zero.
func (p *PixelBuffer) IsZero() bool {
	for _, b := range p.data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Serialize returns the canonical pixel serialization: every byte value in
// decimal, concatenated without separators, wrapped in braces. Only the
// value sequence contributes; positions do not.
func (p *PixelBuffer) Serialize() string {
	var sb strings.Builder
	sb.Grow(len(p.data)*3 + 2)
	sb.WriteByte('{')
	var num [3]byte
	for _, b := range p.data {
		sb.Write(strconv.AppendUint(num[:0], uint64(b), 10))
	}
	sb.WriteByte('}')
	return sb.String()
}

// ToImage converts the buffer to an image.RGBA with the first row at the top.
func (p *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	stride := p.width * 4
	for y := 0; y < p.height; y++ {
		src := p.data[(p.height-1-y)*stride : (p.height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img
}

// SavePNG saves the buffer to a PNG file.
func (p *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, p.ToImage())
}

// At implements the image.Image interface. y grows downward, as for ToImage.
func (p *PixelBuffer) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := ((p.height-1-y)*p.width + x) * 4
	return color.RGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}
