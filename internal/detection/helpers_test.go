package detection

import (
	"image"
	"image/color"

	"github.com/ironsheep/frame-recognizer/internal/imaging"
)

var (
	neutralGray = color.RGBA{128, 128, 128, 255}
	oceanBlue   = color.RGBA{0, 0, 200, 255}
	landGreen   = color.RGBA{0, 200, 0, 255}
	brightRed   = color.RGBA{200, 30, 30, 255}
	maroon      = color.RGBA{120, 40, 40, 255}
	skinTone    = color.RGBA{200, 160, 130, 255}
)

// newSolidImage creates a width x height image filled with c.
func newSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// fillRows paints rows [y0, y1) with c.
func fillRows(img *image.RGBA, y0, y1 int, c color.Color) {
	for y := y0; y < y1; y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, c)
		}
	}
}

// bandedBuffer returns a 100x100 neutral buffer whose first rows are painted
// with each band colour in turn, one row per percent.
func bandedBuffer(bands ...band) *imaging.PixelBuffer {
	img := newSolidImage(100, 100, neutralGray)
	y := 0
	for _, b := range bands {
		fillRows(img, y, y+b.percent, b.color)
		y += b.percent
	}
	return imaging.NewPixelBuffer(img)
}

type band struct {
	color   color.Color
	percent int
}

// stripedDiagram draws 2px black and grey vertical stripes, a stand-in for
// a busy line drawing.
func stripedDiagram() *imaging.PixelBuffer {
	img := newSolidImage(100, 100, color.Black)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x%4 >= 2 {
				img.Set(x, y, color.RGBA{150, 150, 150, 255})
			}
		}
	}
	return imaging.NewPixelBuffer(img)
}
