package detection

import "math"

// Verdict is a single detector's decision.
type Verdict struct {
	Matched bool `json:"matched"`

	// Confidence is in 0..100.
	Confidence float64 `json:"confidence"`

	// Detected is a short human-readable summary of the measurements the
	// decision was based on, e.g. "Blue: 12.3%, Green: 4.0%".
	Detected string `json:"detected"`
}

// percent returns count/total as a percentage, or 0 when total is 0.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// clampConfidence caps c to the 0..100 confidence scale.
func clampConfidence(c float64) float64 {
	return math.Max(0, math.Min(c, 100))
}
