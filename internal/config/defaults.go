package config

import "github.com/spf13/viper"

// Defaults that other packages fall back to when no config is loaded.
const (
	DefaultCropSize    = 288 // on-screen framing guide side
	DefaultJPEGQuality = 92
	DefaultTopK        = 5
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultOCRLanguage = "eng"
)

// SetDefaults registers default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("capture.crop_size", DefaultCropSize)
	v.SetDefault("capture.jpeg_quality", DefaultJPEGQuality)

	v.SetDefault("classifier.backend", BackendNone)
	v.SetDefault("classifier.top_k", DefaultTopK)
	v.SetDefault("classifier.gemini.api_key", "")
	v.SetDefault("classifier.gemini.model", DefaultGeminiModel)
	v.SetDefault("classifier.ocr.language", DefaultOCRLanguage)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// BindSensitiveEnvVars binds secrets to their conventional variable names
// in addition to the prefixed form.
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("classifier.gemini.api_key", EnvPrefix+"_CLASSIFIER_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("classifier.gemini.model", EnvPrefix+"_CLASSIFIER_GEMINI_MODEL", "GEMINI_MODEL_NAME")
}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			CropSize:    DefaultCropSize,
			JPEGQuality: DefaultJPEGQuality,
		},
		Classifier: ClassifierConfig{
			Backend: BackendNone,
			TopK:    DefaultTopK,
			Gemini:  GeminiConfig{Model: DefaultGeminiModel},
			OCR:     OCRConfig{Language: DefaultOCRLanguage},
		},
		Log: LogConfig{Level: "info"},
	}
}
