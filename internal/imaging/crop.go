package imaging

import (
	"bytes"
	"encoding/base64"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
)

// MimeJPEG is the media type of Capture.Encoded.
const MimeJPEG = "image/jpeg"

// Capture is the analysed region of one frame.
type Capture struct {
	// Buffer holds the side x side pixels the detectors read.
	Buffer *PixelBuffer

	// Encoded is Buffer encoded as JPEG.
	Encoded []byte

	// MimeType is always MimeJPEG.
	MimeType string

	// Region is the rectangle that was cut from the source frame, in frame
	// coordinates. It is smaller than Buffer when the frame was too small
	// and the crop had to be scaled up.
	Region image.Rectangle
}

// DataURL renders the encoded capture as a data: URL.
func (c *Capture) DataURL() string {
	return "data:" + c.MimeType + ";base64," + base64.StdEncoding.EncodeToString(c.Encoded)
}

// CenterSquare returns the side x side square centred in bounds. When bounds
// is smaller than side in either dimension, the largest centred square that
// fits is returned instead.
func CenterSquare(bounds image.Rectangle, side int) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	if w < side || h < side {
		side = min(w, h)
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// Preprocessor crops frames to the framing guide and encodes the result.
type Preprocessor struct {
	side    int
	quality int
}

// NewPreprocessor creates a preprocessor producing side x side captures
// encoded at the given JPEG quality.
func NewPreprocessor(side, jpegQuality int) *Preprocessor {
	return &Preprocessor{side: side, quality: jpegQuality}
}

// Side returns the capture edge length in pixels.
func (p *Preprocessor) Side() int { return p.side }

// Process cuts the centred square out of frame.
//
// Parameters:
//   - frame: The live camera frame. Its bounds need not start at (0,0).
//
// Returns:
//   - *Capture: A side x side PixelBuffer of the crop, the same crop encoded
//     as JPEG at the configured quality, and the region it was cut from in
//     frame coordinates.
//   - error: Non-nil when no capture could be produced (see below).
//
// Frames at least side pixels in both dimensions are cropped without
// resampling. Smaller frames have their largest centred square resized up to
// side x side with a Lanczos filter, so detectors always see the same
// geometry.
//
// # Errors
//
//   - frame is nil or has no pixels
//   - the preprocessor was built with a non-positive side
//   - JPEG encoding fails
func (p *Preprocessor) Process(frame image.Image) (*Capture, error) {
	if frame == nil {
		return nil, errors.New("no frame to process")
	}
	if p.side <= 0 {
		return nil, errors.Newf("invalid capture size %d", p.side)
	}
	bounds := frame.Bounds()
	if bounds.Empty() {
		return nil, errors.Newf("frame has no pixels (%dx%d)", bounds.Dx(), bounds.Dy())
	}

	region := CenterSquare(bounds, p.side)
	cropped := imaging.Crop(frame, region)
	if cropped.Rect.Dx() != p.side || cropped.Rect.Dy() != p.side {
		cropped = imaging.Resize(cropped, p.side, p.side, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(p.quality)(&buf, cropped); err != nil {
		return nil, errors.Wrap(err, "failed to encode capture")
	}

	return &Capture{
		Buffer:   NewPixelBuffer(cropped),
		Encoded:  buf.Bytes(),
		MimeType: MimeJPEG,
		Region:   region,
	}, nil
}
