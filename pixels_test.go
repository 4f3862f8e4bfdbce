package glprint

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPixelBufferSerialize(t *testing.T) {
	p := NewPixelBuffer(1, 1)
	copy(p.Data(), []byte{0, 12, 255, 7})
	if got := p.Serialize(); got != "{0122557}" {
		t.Errorf("Serialize() = %q, want {0122557}", got)
	}

	z := NewPixelBuffer(2, 2)
	if got := z.Serialize(); got != "{"+strings.Repeat("0", 16)+"}" {
		t.Errorf("zero Serialize() = %q", got)
	}
}

func TestPixelBufferIsZero(t *testing.T) {
	p := NewPixelBuffer(SceneWidth, SceneHeight)
	if !p.IsZero() {
		t.Error("new buffer is not zero")
	}
	if p.Len() != SceneWidth*SceneHeight*4 {
		t.Errorf("Len() = %d", p.Len())
	}
	p.Data()[p.Len()-1] = 1
	if p.IsZero() {
		t.Error("IsZero() ignored the last byte")
	}
}

func TestPixelBufferFlip(t *testing.T) {
	// Two rows: the first in memory is the bottom of the image.
	p := NewPixelBuffer(1, 2)
	copy(p.Data(), []byte{255, 0, 0, 255, 0, 0, 255, 255})

	img := p.ToImage()
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom pixel = %v, want red", got)
	}
	if got := p.At(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("At(0, 0) = %v, want blue", got)
	}
	if got := p.At(5, 5); got != (color.RGBA{}) {
		t.Errorf("At out of bounds = %v", got)
	}
}

func TestPixelBufferSavePNG(t *testing.T) {
	p := NewPixelBuffer(3, 2)
	for i := range p.Data() {
		p.Data()[i] = 200
	}
	path := filepath.Join(t.TempDir(), "scene.png")
	if err := p.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded bounds = %v", b)
	}
}
