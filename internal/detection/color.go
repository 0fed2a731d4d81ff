package detection

import (
	"fmt"

	"github.com/ironsheep/frame-recognizer/internal/imaging"
)

// Exposure window shared by the colour detectors. Both bounds are
// inclusive: a pixel whose brightness is exactly MinBrightness or
// MaxBrightness is classified, only strictly darker or brighter pixels are
// skipped.
const (
	MinBrightness = 30.0
	MaxBrightness = 240.0
)

// Earth thresholds. These and the Heart thresholds below were tuned by hand.
const (
	EarthBlueThreshold = 8.0 // blue percent that must be exceeded to match
	EarthGreenWeight   = 0.5 // contribution of land to the score
)

// Heart thresholds.
const (
	HeartTotalRedThreshold  = 5.0  // bright + dark red percent
	HeartBrightRedThreshold = 2.0  // bright red percent
	HeartSkinCeiling        = 70.0 // skin percent must stay below
	HeartBlueCeiling        = 10.0 // blue percent must stay below
	HeartConfidenceScale    = 2.0
)

// isBlue reports ocean blue: clearly more blue than red or green.
func isBlue(r, g, b int) bool {
	return b > r+30 && b > g+20 && b > 80
}

// isGreen reports land green.
func isGreen(r, g, b int) bool {
	return g > r+20 && g > b+20 && g > 60
}

func isBrightRed(r, g, b int) bool {
	return r > 120 && r > g+40 && r > b+40 && g < 100 && b < 100
}

// isDarkRed reports maroon tissue tones.
func isDarkRed(r, g, b int) bool {
	return r > 80 && r < 150 && r > g+30 && r > b+30 && g < 80 && b < 80
}

func isSkin(r, g, b int) bool {
	return r > 140 && g > 100 && b > 80 && r-g < 50 && r-b < 80
}

// inExposure reports whether a pixel lies inside the colour detectors'
// brightness window.
func inExposure(r, g, b uint8) bool {
	br := imaging.Brightness(r, g, b)
	return br >= MinBrightness && br <= MaxBrightness
}

// EarthStats are the colour ratios the Earth detector decides on.
type EarthStats struct {
	BluePercent  float64 `json:"blue_percent"`
	GreenPercent float64 `json:"green_percent"`

	// Score is BluePercent + 0.5*GreenPercent, capped at 100.
	Score float64 `json:"score"`
}

// MeasureEarth counts ocean-blue and land-green pixels in buf.
func MeasureEarth(buf *imaging.PixelBuffer) EarthStats {
	if buf.Empty() {
		return EarthStats{}
	}

	var blue, green int
	n := buf.Len()
	for i := 0; i < n; i++ {
		r8, g8, b8 := buf.RGB(i)
		if !inExposure(r8, g8, b8) {
			continue
		}
		r, g, b := int(r8), int(g8), int(b8)
		if isBlue(r, g, b) {
			blue++
		}
		if isGreen(r, g, b) {
			green++
		}
	}

	s := EarthStats{
		BluePercent:  percent(blue, n),
		GreenPercent: percent(green, n),
	}
	s.Score = clampConfidence(s.BluePercent + EarthGreenWeight*s.GreenPercent)
	return s
}

// Verdict applies the Earth decision rule: oceans must cover more than
// EarthBlueThreshold percent of the capture.
func (s EarthStats) Verdict() Verdict {
	return Verdict{
		Matched:    s.BluePercent > EarthBlueThreshold,
		Confidence: s.Score,
		Detected:   fmt.Sprintf("Blue: %.1f%%, Green: %.1f%%", s.BluePercent, s.GreenPercent),
	}
}

// DetectEarth decides whether buf looks like a photo of Earth from space.
func DetectEarth(buf *imaging.PixelBuffer) Verdict {
	return MeasureEarth(buf).Verdict()
}

// HeartStats are the colour ratios the Heart detector decides on.
type HeartStats struct {
	BrightRedPercent float64 `json:"bright_red_percent"`
	DarkRedPercent   float64 `json:"dark_red_percent"`
	SkinPercent      float64 `json:"skin_percent"`
	BluePercent      float64 `json:"blue_percent"`
}

// TotalRedPercent is bright plus dark red.
func (s HeartStats) TotalRedPercent() float64 {
	return s.BrightRedPercent + s.DarkRedPercent
}

// MeasureHeart classifies the pixels of buf into red, skin and blue buckets.
// A pixel may fall into more than one bucket.
func MeasureHeart(buf *imaging.PixelBuffer) HeartStats {
	if buf.Empty() {
		return HeartStats{}
	}

	var bright, dark, skin, blue int
	n := buf.Len()
	for i := 0; i < n; i++ {
		r8, g8, b8 := buf.RGB(i)
		if !inExposure(r8, g8, b8) {
			continue
		}
		r, g, b := int(r8), int(g8), int(b8)
		if isBrightRed(r, g, b) {
			bright++
		}
		if isDarkRed(r, g, b) {
			dark++
		}
		if isSkin(r, g, b) {
			skin++
		}
		if isBlue(r, g, b) {
			blue++
		}
	}

	return HeartStats{
		BrightRedPercent: percent(bright, n),
		DarkRedPercent:   percent(dark, n),
		SkinPercent:      percent(skin, n),
		BluePercent:      percent(blue, n),
	}
}

// Verdict applies the Heart decision rule. Skin and blue ceilings reject
// hands in frame and sky or ocean backgrounds.
func (s HeartStats) Verdict() Verdict {
	total := s.TotalRedPercent()
	return Verdict{
		Matched: total > HeartTotalRedThreshold &&
			s.BrightRedPercent > HeartBrightRedThreshold &&
			s.SkinPercent < HeartSkinCeiling &&
			s.BluePercent < HeartBlueCeiling,
		Confidence: clampConfidence(total * HeartConfidenceScale),
		Detected: fmt.Sprintf("Bright Red: %.1f%%, Dark Red: %.1f%%, Skin: %.1f%%",
			s.BrightRedPercent, s.DarkRedPercent, s.SkinPercent),
	}
}

// DetectHeart decides whether buf looks like a red heart anatomy image.
func DetectHeart(buf *imaging.PixelBuffer) Verdict {
	return MeasureHeart(buf).Verdict()
}

// ColorStats bundles every colour ratio the detectors compute.
type ColorStats struct {
	Earth             EarthStats `json:"earth"`
	Heart             HeartStats `json:"heart"`
	OrganColorPercent float64    `json:"organ_color_percent"`
}

// MeasureColors computes all colour statistics for buf.
func MeasureColors(buf *imaging.PixelBuffer) ColorStats {
	return ColorStats{
		Earth:             MeasureEarth(buf),
		Heart:             MeasureHeart(buf),
		OrganColorPercent: OrganColorPercent(buf),
	}
}
