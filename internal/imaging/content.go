package imaging

import "math"

// ContentThreshold is the channel standard deviation a capture must exceed
// to be considered a real image rather than a blank or uniform surface.
const ContentThreshold = 20.0

// ContentStdDev measures how much the pixels of buf vary around their
// average colour.
//
// Each channel is compared against its own mean, and the squared deviations
// of all 3n samples are averaged:
//
//	sqrt( Σ (r-meanR)² + (g-meanG)² + (b-meanB)² / 3n )
//
// A single-colour buffer of any hue therefore yields 0. An empty buffer
// also yields 0.
func ContentStdDev(buf *PixelBuffer) float64 {
	if buf.Empty() {
		return 0
	}

	n := buf.Len()
	var sumR, sumG, sumB float64
	for i := 0; i < n; i++ {
		r, g, b := buf.RGB(i)
		sumR += float64(r)
		sumG += float64(g)
		sumB += float64(b)
	}
	count := float64(n)
	meanR, meanG, meanB := sumR/count, sumG/count, sumB/count

	var variance float64
	for i := 0; i < n; i++ {
		r, g, b := buf.RGB(i)
		dr := float64(r) - meanR
		dg := float64(g) - meanG
		db := float64(b) - meanB
		variance += dr*dr + dg*dg + db*db
	}
	return math.Sqrt(variance / (count * 3))
}

// HasSignificantContent reports whether buf carries enough variation to be
// worth analysing. Uniform and empty buffers are rejected.
func HasSignificantContent(buf *PixelBuffer) bool {
	return ContentStdDev(buf) > ContentThreshold
}
