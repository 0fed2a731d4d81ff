package recognizer

import (
	"image"
	"image/color"

	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
)

var (
	neutralGray = color.RGBA{128, 128, 128, 255}
	oceanBlue   = color.RGBA{0, 0, 200, 255}
	brightRed   = color.RGBA{200, 30, 30, 255}
)

func solidImage(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// bandedImage is neutral grey with its first rows painted c, one row per
// percent.
func bandedImage(c color.Color, percent int) *image.RGBA {
	img := solidImage(neutralGray)
	for y := 0; y < percent; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// stripedImage is a busy black and grey line pattern that passes the brain
// shape rule.
func stripedImage() *image.RGBA {
	img := solidImage(color.Black)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x%4 >= 2 {
				img.Set(x, y, color.RGBA{150, 150, 150, 255})
			}
		}
	}
	return img
}

// halvesImage is black over white: plenty of variance, almost no edges.
func halvesImage() *image.RGBA {
	img := solidImage(color.White)
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func captureOf(img image.Image) *imaging.Capture {
	return &imaging.Capture{
		Buffer:   imaging.NewPixelBuffer(img),
		Encoded:  []byte{0xff, 0xd8, 0xff, 0xd9},
		MimeType: imaging.MimeJPEG,
	}
}

type fakeProvider struct {
	clf    classifier.Classifier
	status classifier.Status
}

func readyProvider(clf classifier.Classifier) *fakeProvider {
	return &fakeProvider{clf: clf, status: classifier.StatusReady}
}

func (f *fakeProvider) Ready() (classifier.Classifier, bool) {
	if f.status != classifier.StatusReady {
		return nil, false
	}
	return f.clf, true
}

func (f *fakeProvider) Status() classifier.Status { return f.status }

type panickingProvider struct{}

func (panickingProvider) Ready() (classifier.Classifier, bool) { panic("model exploded") }
func (panickingProvider) Status() classifier.Status         { return classifier.StatusReady }
