package classifier

import (
	"strings"
	"unicode"
)

// Word is one OCR token with Tesseract's 0..100 confidence.
type Word struct {
	Text       string
	Confidence float64
}

// minWordLength drops single letters and stray punctuation.
const minWordLength = 2

// RankWords turns OCR tokens into predictions.
//
// Printed anatomy and astronomy material is usually captioned ("Human
// Brain", "Planet Earth"), so recognised caption words act as labels.
// Tokens are lower-cased and stripped of surrounding punctuation; repeated
// words keep their highest confidence.
func RankWords(words []Word, topK int) []Prediction {
	best := make(map[string]float64)
	order := make([]string, 0, len(words))
	for _, w := range words {
		label := strings.ToLower(strings.TrimFunc(w.Text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if len([]rune(label)) < minWordLength {
			continue
		}
		p := clampUnit(w.Confidence / 100)
		prev, seen := best[label]
		if !seen {
			order = append(order, label)
		}
		if !seen || p > prev {
			best[label] = p
		}
	}

	preds := make([]Prediction, 0, len(order))
	for _, label := range order {
		preds = append(preds, Prediction{Label: label, Probability: best[label]})
	}
	return Rank(preds, topK)
}
