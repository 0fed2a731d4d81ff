package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/frame-recognizer/internal/detection"
	"github.com/ironsheep/frame-recognizer/internal/logger"
)

// DefaultFloor is the keyword-match probability that must be exceeded for a
// classifier verdict to match.
const DefaultFloor = 0.10

// Adapter diagnostics for the paths that produce no ranking.
const (
	DetectedNoPredictions  = "No predictions"
	DetectedModelNotLoaded = "Model not loaded"
	DetectedFailed         = "AI recognition failed"
)

// Adapter turns classifier predictions into a topic verdict by keyword
// matching.
type Adapter struct {
	Keywords []string
	Floor    float64
	TopK     int
}

// NewAdapter creates an adapter for keywords with DefaultFloor.
func NewAdapter(keywords []string, topK int) *Adapter {
	return &Adapter{Keywords: keywords, Floor: DefaultFloor, TopK: clampTopK(topK)}
}

// Evaluation is an adapter verdict with the predictions behind it.
type Evaluation struct {
	Verdict     detection.Verdict `json:"verdict"`
	Predictions []Prediction      `json:"predictions,omitempty"`
	Err         error             `json:"-"`
}

// Evaluate classifies image with clf and matches the result. Classifier
// errors and panics are converted into a zero-confidence non-match; they
// never reach the caller.
func (a *Adapter) Evaluate(ctx context.Context, clf Classifier, image []byte) (ev Evaluation) {
	if clf == nil {
		return Evaluation{
			Verdict: detection.Verdict{Detected: DetectedModelNotLoaded},
			Err:     ErrNotReady,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err := errors.Newf("classifier panicked: %v", r)
			logger.Logger.Errorw("Classifier inference failed", "error", err)
			ev = Evaluation{Verdict: detection.Verdict{Detected: DetectedFailed}, Err: err}
		}
	}()

	preds, err := clf.Classify(ctx, image, a.TopK)
	if err != nil {
		logger.Logger.Warnw("Classifier inference failed", "error", err)
		return Evaluation{Verdict: detection.Verdict{Detected: DetectedFailed}, Err: err}
	}

	preds = Rank(preds, a.TopK)
	return Evaluation{
		Verdict:     MatchKeywords(preds, a.Keywords, a.Floor),
		Predictions: preds,
	}
}

// MatchKeywords scans preds for labels containing any keyword,
// case-insensitively, and keeps the most probable match.
//
// A best match above floor yields a matching verdict with confidence
// probability*100. Otherwise the verdict reports the top prediction
// regardless of relevance, or DetectedNoPredictions when preds is empty.
func MatchKeywords(preds []Prediction, keywords []string, floor float64) detection.Verdict {
	if len(preds) == 0 {
		return detection.Verdict{Detected: DetectedNoPredictions}
	}

	var bestLabel string
	var best float64
	for _, p := range preds {
		label := strings.ToLower(p.Label)
		for _, kw := range keywords {
			if strings.Contains(label, strings.ToLower(kw)) {
				if p.Probability > best {
					best = p.Probability
					bestLabel = label
				}
				break
			}
		}
	}

	if best > floor {
		return detection.Verdict{
			Matched:    true,
			Confidence: best * 100,
			Detected:   fmt.Sprintf("AI detected: %s (%.1f%%)", bestLabel, best*100),
		}
	}

	top := preds[0]
	return detection.Verdict{
		Confidence: top.Probability * 100,
		Detected:   fmt.Sprintf("Top prediction: %s (%.1f%%)", top.Label, top.Probability*100),
	}
}
