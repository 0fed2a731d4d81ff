package recognizer

import (
	"fmt"

	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/detection"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
)

// Outcome classifies how an attempt ended.
type Outcome string

const (
	OutcomeMatched    Outcome = "matched"
	OutcomeNotMatched Outcome = "not_matched"
	OutcomeNoContent  Outcome = "no_content" // blank capture, retake
)

// Explanations for paths that never reach a detector.
const (
	ExplainNoContent      = "No significant content"
	ExplainUnknownTopic   = "Unknown topic"
	ExplainCameraNotReady = "Camera not ready. Please wait..."
	ExplainFailed         = "Failed to recognize image. Please try again."
)

// Result is the outcome of one recognition attempt.
type Result struct {
	AttemptID   string  `json:"attempt_id"`
	Topic       Topic   `json:"topic"`
	Outcome     Outcome `json:"outcome"`
	Matched     bool    `json:"matched"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`

	// ModelPath is the 3D model to present on a match.
	ModelPath string `json:"model_path,omitempty"`

	// Capture is the analysed crop. It is set whenever a frame was
	// captured; the UI forwards it to the viewer on a match.
	Capture *imaging.Capture `json:"-"`

	Diagnostics Diagnostics `json:"diagnostics"`
}

// Diagnostics are the measurements behind a result. Only the fields
// relevant to the topic's detectors are set.
type Diagnostics struct {
	ContentStdDev     float64                 `json:"content_std_dev"`
	Earth             *detection.EarthStats   `json:"earth,omitempty"`
	Heart             *detection.HeartStats   `json:"heart,omitempty"`
	Shape             *detection.ShapeMetrics `json:"shape,omitempty"`
	OrganColorPercent *float64                `json:"organ_color_percent,omitempty"`
	ClassifierStatus  string                  `json:"classifier_status,omitempty"`
	Predictions       []classifier.Prediction `json:"predictions,omitempty"`
}

// DataURL returns the capture as a data: URL, or "" when there is none.
func (r Result) DataURL() string {
	if r.Capture == nil {
		return ""
	}
	return r.Capture.DataURL()
}

// Message renders the notification shown to the user.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeMatched:
		return fmt.Sprintf("Recognized: %s! Confidence: %.1f%%", r.Topic.Title(), r.Confidence)
	case OutcomeNoContent:
		return "Blank or empty image detected. Please scan an actual image."
	default:
		if r.Explanation == ExplainCameraNotReady || r.Explanation == ExplainFailed {
			return r.Explanation
		}
		return fmt.Sprintf("Not recognized as %s. %s", r.Topic.Title(), r.Explanation)
	}
}
