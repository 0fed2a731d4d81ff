// Package config loads frame-recognizer settings.
//
// Sources are merged in increasing precedence: built-in defaults, an
// optional TOML file, a .env file in the working directory, and finally
// FRAME_RECOGNIZER_* environment variables.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "FRAME_RECOGNIZER"

// DefaultConfigName is the file looked up in the working directory when no
// explicit config path is given.
const DefaultConfigName = "frame-recognizer.toml"

// Config is the root configuration.
type Config struct {
	Capture    CaptureConfig    `mapstructure:"capture"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Log        LogConfig        `mapstructure:"log"`
}

// CaptureConfig controls how the analysed region is cut out of a frame.
type CaptureConfig struct {
	// CropSize is the side, in pixels, of the centred square that is analysed.
	CropSize int `mapstructure:"crop_size"`

	// JPEGQuality is used when encoding the crop for the classifier and the viewer.
	JPEGQuality int `mapstructure:"jpeg_quality"`
}

// ClassifierConfig selects and configures the general-purpose classifier.
type ClassifierConfig struct {
	// Backend is one of "none", "gemini" or "ocr".
	Backend string       `mapstructure:"backend"`
	TopK    int          `mapstructure:"top_k"`
	Gemini  GeminiConfig `mapstructure:"gemini"`
	OCR     OCRConfig    `mapstructure:"ocr"`
}

// GeminiConfig configures the Gemini vision backend.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OCRConfig configures the Tesseract caption backend.
type OCRConfig struct {
	Language string `mapstructure:"language"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Classifier backends.
const (
	BackendNone   = "none"
	BackendGemini = "gemini"
	BackendOCR    = "ocr"
)

// Load reads configuration from all sources. configPath may be empty, in
// which case DefaultConfigName is used if it exists.
func Load(configPath string) (*Config, error) {
	return LoadInto(New(), configPath)
}

// LoadInto is Load on a caller-prepared viper, typically one with command
// line flags bound to it.
func LoadInto(v *viper.Viper, configPath string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	if configPath == "" {
		if _, err := os.Stat(DefaultConfigName); err == nil {
			configPath = DefaultConfigName
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	return LoadWithViper(v)
}

// New returns a viper instance with defaults and environment binding set up
// but no file read. Callers (the CLI) bind flags onto it.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	BindSensitiveEnvVars(v)
	return v
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Classifier.Backend = strings.ToLower(strings.TrimSpace(cfg.Classifier.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if c.Capture.CropSize <= 0 {
		return errors.Newf("capture.crop_size must be positive, got %d", c.Capture.CropSize)
	}
	if c.Capture.JPEGQuality < 1 || c.Capture.JPEGQuality > 100 {
		return errors.Newf("capture.jpeg_quality must be in 1..100, got %d", c.Capture.JPEGQuality)
	}
	if c.Classifier.TopK < 1 || c.Classifier.TopK > 5 {
		return errors.Newf("classifier.top_k must be in 1..5, got %d", c.Classifier.TopK)
	}

	switch c.Classifier.Backend {
	case BackendNone, BackendOCR:
	case BackendGemini:
		if c.Classifier.Gemini.APIKey == "" {
			return errors.WithHint(
				errors.New("classifier.gemini.api_key is required for the gemini backend"),
				"set GEMINI_API_KEY or FRAME_RECOGNIZER_CLASSIFIER_GEMINI_API_KEY")
		}
	default:
		return errors.Newf("unknown classifier backend %q", c.Classifier.Backend)
	}
	return nil
}
