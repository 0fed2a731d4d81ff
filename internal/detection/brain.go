package detection

import (
	"fmt"
	"math"

	"github.com/ironsheep/frame-recognizer/internal/imaging"
)

// Brain shape rule thresholds.
const (
	// Pixels darker or brighter than these are left out of the organ count.
	BrainMinBrightness = 20.0
	BrainMaxBrightness = 250.0

	// Neutral grey window, for black and white diagrams.
	GrayMaxChannelSpread = 20
	GrayMinBrightness    = 50.0
	GrayMaxBrightness    = 230.0

	BrainOrganColorThreshold = 1.0
	BrainMinEdgeDensity      = 0.05
	BrainMaxEdgeDensity      = 0.6
	BrainMinComplexity       = 5.0

	// Edge-rich captures get at least BrainBusyConfidenceFloor.
	BrainBusyEdgeDensity     = 0.1
	BrainBusyComplexity      = 8.0
	BrainBusyConfidenceFloor = 60.0
)

func isOrganColor(r, g, b int, brightness float64) bool {
	redDominant := r > 100 && r > g && r > b
	skinToned := r > 120 && g > 100 && b > 100 && r > b
	neutralGray := absInt(r-g) < GrayMaxChannelSpread &&
		absInt(r-b) < GrayMaxChannelSpread &&
		absInt(g-b) < GrayMaxChannelSpread &&
		brightness > GrayMinBrightness && brightness < GrayMaxBrightness
	return redDominant || skinToned || neutralGray
}

// OrganColorPercent is the share of all pixels in buf that are red-dominant,
// skin-toned or neutral grey.
func OrganColorPercent(buf *imaging.PixelBuffer) float64 {
	if buf.Empty() {
		return 0
	}

	var count int
	n := buf.Len()
	for i := 0; i < n; i++ {
		r8, g8, b8 := buf.RGB(i)
		br := imaging.Brightness(r8, g8, b8)
		if br < BrainMinBrightness || br > BrainMaxBrightness {
			continue
		}
		if isOrganColor(int(r8), int(g8), int(b8), br) {
			count++
		}
	}
	return percent(count, n)
}

// BrainShape is the outcome of the brain shape rule with the measurements it
// was based on.
type BrainShape struct {
	Verdict           Verdict      `json:"verdict"`
	OrganColorPercent float64      `json:"organ_color_percent"`
	Shape             ShapeMetrics `json:"shape"`
}

// EvaluateBrainShape applies the brain rule to precomputed measurements.
//
// The edge-rich floor can lift confidence to 60 on a capture that did not
// match; callers read Matched and Confidence independently.
func EvaluateBrainShape(organPercent float64, m ShapeMetrics) Verdict {
	matched := organPercent > BrainOrganColorThreshold &&
		m.EdgeDensity > BrainMinEdgeDensity &&
		m.EdgeDensity < BrainMaxEdgeDensity &&
		m.Complexity > BrainMinComplexity

	confidence := math.Min(organPercent+m.Complexity*2+m.EdgeDensity*100, 100)
	if m.EdgeDensity > BrainBusyEdgeDensity && m.Complexity > BrainBusyComplexity {
		confidence = math.Max(confidence, BrainBusyConfidenceFloor)
	}

	return Verdict{
		Matched:    matched,
		Confidence: confidence,
		Detected: fmt.Sprintf("Features: %.1f%%, Complexity: %.1f, Edges: %.1f%%",
			organPercent, m.Complexity, m.EdgeDensity*100),
	}
}

// AnalyzeBrainShape measures buf and applies the brain rule.
func AnalyzeBrainShape(buf *imaging.PixelBuffer) BrainShape {
	organ := OrganColorPercent(buf)
	shape := MeasureShape(buf)
	return BrainShape{
		Verdict:           EvaluateBrainShape(organ, shape),
		OrganColorPercent: organ,
		Shape:             shape,
	}
}

// DetectBrainShape decides from colour and structure alone whether buf looks
// like brain anatomy.
func DetectBrainShape(buf *imaging.PixelBuffer) Verdict {
	return AnalyzeBrainShape(buf).Verdict
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
