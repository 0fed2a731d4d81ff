package imaging

import (
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
)

// BytesPerPixel is the stride of one pixel in a PixelBuffer.
const BytesPerPixel = 4

// PixelBuffer is an immutable RGBA pixel grid.
//
// The zero value is an empty 0x0 buffer. PixelBuffer implements image.Image so
// it can be handed to encoders and to the imaging library directly.
type PixelBuffer struct {
	width  int
	height int
	pix    []uint8
}

// NewPixelBuffer copies img into a new buffer. The result has its origin at
// (0,0) even when img.Bounds() does not.
func NewPixelBuffer(img image.Image) *PixelBuffer {
	if img == nil {
		return &PixelBuffer{}
	}
	n := imaging.Clone(img)
	return &PixelBuffer{
		width:  n.Rect.Dx(),
		height: n.Rect.Dy(),
		pix:    n.Pix,
	}
}

// NewPixelBufferFromBytes wraps a copy of raw RGBA bytes laid out row-major
// with no row padding.
func NewPixelBufferFromBytes(width, height int, pix []uint8) (*PixelBuffer, error) {
	if width < 0 || height < 0 {
		return nil, errors.Newf("invalid buffer dimensions %dx%d", width, height)
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return nil, errors.Newf("buffer length %d does not match %dx%d RGBA (%d bytes)",
			len(pix), width, height, want)
	}
	cp := make([]uint8, len(pix))
	copy(cp, pix)
	return &PixelBuffer{width: width, height: height, pix: cp}, nil
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Len returns the number of pixels.
func (b *PixelBuffer) Len() int { return b.width * b.height }

// Empty reports whether the buffer holds no pixels.
func (b *PixelBuffer) Empty() bool { return b == nil || b.Len() == 0 }

// RGB returns the colour channels of the i-th pixel in row-major order.
func (b *PixelBuffer) RGB(i int) (r, g, bl uint8) {
	o := i * BytesPerPixel
	return b.pix[o], b.pix[o+1], b.pix[o+2]
}

// RGBAt returns the colour channels at (x, y).
func (b *PixelBuffer) RGBAt(x, y int) (r, g, bl uint8) {
	return b.RGB(y*b.width + x)
}

// Bytes returns a copy of the raw RGBA bytes.
func (b *PixelBuffer) Bytes() []uint8 {
	cp := make([]uint8, len(b.pix))
	copy(cp, b.pix)
	return cp
}

// ColorModel implements image.Image.
func (b *PixelBuffer) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (b *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// At implements image.Image.
func (b *PixelBuffer) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.NRGBA{}
	}
	o := (y*b.width + x) * BytesPerPixel
	return color.NRGBA{R: b.pix[o], G: b.pix[o+1], B: b.pix[o+2], A: b.pix[o+3]}
}

// Brightness is the unweighted mean of the three channels, in 0..255.
func Brightness(r, g, b uint8) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}

// Luminance is the ITU-R BT.601 weighted grey value, in 0..255.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}
