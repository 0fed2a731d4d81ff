package classifier

import "context"

// Static is a Classifier that always returns the same ranking or error.
// It stands in for a real model in tests and offline runs.
type Static struct {
	Predictions []Prediction
	Err         error
}

// Classify returns the configured predictions ranked and truncated to topK.
func (s *Static) Classify(ctx context.Context, _ []byte, topK int) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return Rank(s.Predictions, topK), nil
}

// StaticLoader returns a Loader that yields clf immediately.
func StaticLoader(clf Classifier) Loader {
	return func(context.Context) (Classifier, error) {
		return clf, nil
	}
}
