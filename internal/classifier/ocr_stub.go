//go:build !cgo

package classifier

import (
	"context"

	"github.com/cockroachdb/errors"
)

// NewOCRLoader returns a Loader that always fails: Tesseract bindings need
// cgo.
func NewOCRLoader(language string) Loader {
	return func(context.Context) (Classifier, error) {
		return nil, errors.WithHint(
			errors.Mark(errors.Newf("OCR classifier (%s) not built in", language), ErrUnavailable),
			"rebuild with CGO_ENABLED=1 and libtesseract installed")
	}
}
