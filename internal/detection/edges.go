package detection

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/cockroachdb/errors"

	"github.com/ironsheep/frame-recognizer/internal/imaging"
)

// EdgeGradientThreshold is the summed right+down luminance difference a
// pixel must exceed to be marked as an edge.
const EdgeGradientThreshold = 25.0

// EdgeMap is a binary edge image with the same dimensions as its source.
// Border pixels are never edges.
type EdgeMap struct {
	Width  int
	Height int
	Count  int
	edges  []bool
}

// DetectEdges builds the edge map of buf.
//
// For every interior pixel, the absolute luminance differences to the right
// and lower neighbours are summed and compared against EdgeGradientThreshold.
func DetectEdges(buf *imaging.PixelBuffer) *EdgeMap {
	if buf.Empty() {
		return &EdgeMap{}
	}

	w, h := buf.Width(), buf.Height()
	gray := make([]float64, w*h)
	for i := range gray {
		gray[i] = imaging.Luminance(buf.RGB(i))
	}

	m := &EdgeMap{Width: w, Height: h, edges: make([]bool, w*h)}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			gradient := math.Abs(gray[i]-gray[i+1]) + math.Abs(gray[i]-gray[i+w])
			if gradient > EdgeGradientThreshold {
				m.edges[i] = true
				m.Count++
			}
		}
	}
	return m
}

// At reports whether (x, y) is an edge pixel. Out of range coordinates are
// never edges.
func (m *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.edges[y*m.Width+x]
}

// ShapeMetrics are the topic-agnostic descriptors of an edge map.
type ShapeMetrics struct {
	// EdgeDensity is edge pixels over all pixels, in [0,1].
	EdgeDensity float64 `json:"edge_density"`

	// Roundness is 1 - stddev/mean of the edge pixels' distances to their
	// centroid. It is 1 only when every edge pixel is equidistant from the
	// centroid, may go negative for very irregular spreads, and is 0 when
	// there are no edges.
	Roundness float64 `json:"roundness"`

	// Complexity is EdgeDensity*100.
	Complexity float64 `json:"complexity"`

	EdgeCount int     `json:"edge_count"`
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`
}

// Metrics computes the shape descriptors of m.
func (m *EdgeMap) Metrics() ShapeMetrics {
	total := m.Width * m.Height
	if total == 0 || m.Count == 0 {
		return ShapeMetrics{}
	}

	var sx, sy float64
	m.each(func(x, y int) {
		sx += float64(x)
		sy += float64(y)
	})
	n := float64(m.Count)
	cx, cy := sx/n, sy/n

	var sumDist float64
	m.each(func(x, y int) {
		sumDist += math.Hypot(float64(x)-cx, float64(y)-cy)
	})
	mean := sumDist / n

	var variance float64
	m.each(func(x, y int) {
		d := math.Hypot(float64(x)-cx, float64(y)-cy) - mean
		variance += d * d
	})
	std := math.Sqrt(variance / n)

	roundness := 0.0
	if mean > 0 {
		roundness = 1 - std/mean
	}

	density := float64(m.Count) / float64(total)
	return ShapeMetrics{
		EdgeDensity: density,
		Roundness:   roundness,
		Complexity:  density * 100,
		EdgeCount:   m.Count,
		CentroidX:   cx,
		CentroidY:   cy,
	}
}

// each calls fn for every edge pixel in row-major order.
func (m *EdgeMap) each(fn func(x, y int)) {
	for i, e := range m.edges {
		if e {
			fn(i%m.Width, i/m.Width)
		}
	}
}

// MeasureShape is DetectEdges followed by Metrics.
func MeasureShape(buf *imaging.PixelBuffer) ShapeMetrics {
	return DetectEdges(buf).Metrics()
}

// Image renders the edge map as white edges on black.
func (m *EdgeMap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	m.each(func(x, y int) {
		img.SetGray(x, y, color.Gray{Y: 255})
	})
	return img
}

// EncodePNG renders the edge map and encodes it as PNG.
func (m *EdgeMap) EncodePNG() ([]byte, error) {
	if m.Width == 0 || m.Height == 0 {
		return nil, errors.New("edge map is empty")
	}
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, m.Image()); err != nil {
		return nil, errors.Wrap(err, "failed to encode edge map")
	}
	return buf.Bytes(), nil
}
