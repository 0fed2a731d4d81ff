// Package classifier wraps general-purpose image classifiers and matches
// their output against topic keywords.
//
// A Classifier is an opaque black box returning ranked (label, probability)
// pairs. Backends are constructed through a Loader, which a Session runs
// once in the background so that callers never block on model start-up.
package classifier

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
)

// MaxTopK bounds the number of predictions requested from a backend.
const MaxTopK = 5

var (
	// ErrNotReady is returned while a classifier is still loading.
	ErrNotReady = errors.New("classifier not loaded yet")

	// ErrUnavailable is returned when no classifier is configured, loading
	// failed, or the session was closed.
	ErrUnavailable = errors.New("classifier unavailable")
)

// Prediction is one ranked label.
type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Classifier labels an encoded image.
//
// image is JPEG-encoded. Implementations return at most topK predictions
// ordered by descending probability.
type Classifier interface {
	Classify(ctx context.Context, image []byte, topK int) ([]Prediction, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, image []byte, topK int) ([]Prediction, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, image []byte, topK int) ([]Prediction, error) {
	return f(ctx, image, topK)
}

// Loader constructs a Classifier. It may be slow and may fail.
type Loader func(ctx context.Context) (Classifier, error)

// Rank sorts predictions by descending probability, keeping the original
// order among equals, and truncates to topK (clamped to 1..MaxTopK). The
// input slice is not modified.
func Rank(preds []Prediction, topK int) []Prediction {
	topK = clampTopK(topK)
	out := make([]Prediction, len(preds))
	copy(out, preds)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

func clampTopK(k int) int {
	if k < 1 || k > MaxTopK {
		return MaxTopK
	}
	return k
}
