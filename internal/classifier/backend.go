package classifier

import (
	"github.com/cockroachdb/errors"

	"github.com/ironsheep/frame-recognizer/internal/config"
)

// LoaderFor returns the Loader for the configured backend. The "none"
// backend yields a nil Loader, which a Session treats as permanently
// unavailable.
func LoaderFor(cfg config.ClassifierConfig) (Loader, error) {
	switch cfg.Backend {
	case config.BackendNone, "":
		return nil, nil
	case config.BackendGemini:
		return NewGeminiLoader(cfg.Gemini.APIKey, cfg.Gemini.Model), nil
	case config.BackendOCR:
		return NewOCRLoader(cfg.OCR.Language), nil
	default:
		return nil, errors.Newf("unknown classifier backend %q", cfg.Backend)
	}
}
