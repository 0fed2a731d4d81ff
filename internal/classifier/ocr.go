//go:build cgo

package classifier

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/frame-recognizer/internal/logger"
)

// OCR labels images by the caption words Tesseract reads in them.
type OCR struct {
	language string
}

// NewOCRLoader returns a Loader that checks Tesseract is usable for
// language.
func NewOCRLoader(language string) Loader {
	return func(ctx context.Context) (Classifier, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(language); err != nil {
			return nil, errors.Wrapf(err, "tesseract language %q", language)
		}
		logger.Logger.Infow("Tesseract caption classifier ready",
			"version", client.Version(), "language", language)
		return &OCR{language: language}, nil
	}
}

// Classify reads words from the JPEG image and ranks them.
func (o *OCR) Classify(ctx context.Context, image []byte, topK int) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(o.language); err != nil {
		return nil, errors.Wrap(err, "failed to set language")
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, errors.Wrap(err, "failed to set image")
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.Wrap(err, "OCR failed")
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		words = append(words, Word{Text: box.Word, Confidence: box.Confidence})
	}
	logger.Logger.Debugw("OCR words read", "count", len(words))
	return RankWords(words, topK), nil
}
