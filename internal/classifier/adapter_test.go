package classifier

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var brainKeywords = []string{"brain", "head", "skull", "cerebrum", "neuron", "neural"}

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name        string
		preds       []Prediction
		wantMatched bool
		wantConf    float64
		wantText    string
	}{
		{
			name:     "empty list",
			preds:    nil,
			wantText: "No predictions",
		},
		{
			name:        "keyword at fifteen percent",
			preds:       []Prediction{{"jellyfish", 0.6}, {"Brain coral", 0.15}},
			wantMatched: true,
			wantConf:    15,
			wantText:    "AI detected: brain coral (15.0%)",
		},
		{
			name:        "highest keyword match wins",
			preds:       []Prediction{{"skull cap", 0.2}, {"crash helmet, head", 0.3}},
			wantMatched: true,
			wantConf:    30,
			wantText:    "AI detected: crash helmet, head (30.0%)",
		},
		{
			name:     "keyword exactly at floor",
			preds:    []Prediction{{"mask", 0.5}, {"neural net", 0.10}},
			wantConf: 50,
			wantText: "Top prediction: mask (50.0%)",
		},
		{
			name:     "no keyword reports top prediction",
			preds:    []Prediction{{"Golden Retriever", 0.82}, {"tennis ball", 0.1}},
			wantConf: 82,
			wantText: "Top prediction: Golden Retriever (82.0%)",
		},
		{
			name:        "case insensitive",
			preds:       []Prediction{{"CEREBRUM", 0.4}},
			wantMatched: true,
			wantConf:    40,
			wantText:    "AI detected: cerebrum (40.0%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := MatchKeywords(tt.preds, brainKeywords, DefaultFloor)
			assert.Equal(t, tt.wantMatched, v.Matched)
			assert.InDelta(t, tt.wantConf, v.Confidence, 1e-9)
			assert.Equal(t, tt.wantText, v.Detected)
		})
	}
}

func TestAdapter_Evaluate(t *testing.T) {
	clf := &Static{Predictions: []Prediction{
		{"a", 0.01}, {"b", 0.02}, {"c", 0.03}, {"d", 0.04}, {"e", 0.05}, {"brain", 0.5},
	}}
	a := NewAdapter(brainKeywords, 3)

	ev := a.Evaluate(context.Background(), clf, []byte("jpeg"))
	require.NoError(t, ev.Err)
	assert.True(t, ev.Verdict.Matched)
	assert.InDelta(t, 50.0, ev.Verdict.Confidence, 1e-9)
	require.Len(t, ev.Predictions, 3)
	assert.Equal(t, "brain", ev.Predictions[0].Label)
}

func TestAdapter_Evaluate_NilClassifier(t *testing.T) {
	ev := NewAdapter(brainKeywords, 5).Evaluate(context.Background(), nil, nil)
	assert.False(t, ev.Verdict.Matched)
	assert.Equal(t, 0.0, ev.Verdict.Confidence)
	assert.Equal(t, "Model not loaded", ev.Verdict.Detected)
	assert.ErrorIs(t, ev.Err, ErrNotReady)
}

func TestAdapter_Evaluate_ClassifierError(t *testing.T) {
	boom := errors.New("inference exploded")
	ev := NewAdapter(brainKeywords, 5).Evaluate(context.Background(), &Static{Err: boom}, nil)

	assert.False(t, ev.Verdict.Matched)
	assert.Equal(t, 0.0, ev.Verdict.Confidence)
	assert.Equal(t, "AI recognition failed", ev.Verdict.Detected)
	assert.ErrorIs(t, ev.Err, boom)
}

func TestAdapter_Evaluate_ClassifierPanics(t *testing.T) {
	clf := ClassifierFunc(func(context.Context, []byte, int) ([]Prediction, error) {
		panic("tensor shape mismatch")
	})

	ev := NewAdapter(brainKeywords, 5).Evaluate(context.Background(), clf, nil)
	assert.False(t, ev.Verdict.Matched)
	assert.Equal(t, "AI recognition failed", ev.Verdict.Detected)
	assert.Error(t, ev.Err)
}

func TestAdapter_Evaluate_EmptyPredictions(t *testing.T) {
	ev := NewAdapter(brainKeywords, 5).Evaluate(context.Background(), &Static{}, nil)
	assert.Equal(t, "No predictions", ev.Verdict.Detected)
	assert.Equal(t, 0.0, ev.Verdict.Confidence)
	assert.NoError(t, ev.Err)
}

func TestRank(t *testing.T) {
	in := []Prediction{{"a", 0.1}, {"b", 0.5}, {"c", 0.5}, {"d", 0.9}}

	got := Rank(in, 3)
	assert.Equal(t, []Prediction{{"d", 0.9}, {"b", 0.5}, {"c", 0.5}}, got)
	assert.Equal(t, "a", in[0].Label, "input is not reordered")

	assert.Len(t, Rank(in, 0), 4, "invalid k falls back to the maximum")
	assert.Len(t, Rank(in, 99), 4)
	assert.Empty(t, Rank(nil, 5))
}
