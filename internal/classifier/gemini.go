package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/generative-ai-go/genai"
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/api/option"

	"github.com/ironsheep/frame-recognizer/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Gemini labels images with a Gemini vision model.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGeminiLoader returns a Loader that connects to the Gemini API.
func NewGeminiLoader(apiKey, modelName string) Loader {
	return func(ctx context.Context) (Classifier, error) {
		if apiKey == "" {
			return nil, errors.WithHint(errors.New("gemini API key is required"),
				"set GEMINI_API_KEY")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create gemini client")
		}

		model := client.GenerativeModel(modelName)
		model.SetTemperature(0)
		model.ResponseMIMEType = "application/json"

		logger.Logger.Infow("Gemini classifier connected", "model", modelName)
		return &Gemini{client: client, model: model, name: modelName}, nil
	}
}

// geminiPrompt asks for an ImageNet-style ranking.
func geminiPrompt(topK int) string {
	return fmt.Sprintf(`Classify the main subject of this image.
Respond with a JSON array of at most %d objects, most likely first, each of the form
{"label": "<short lowercase noun phrase>", "probability": <number between 0 and 1>}.
Probabilities must not sum to more than 1.`, topK)
}

// Classify sends the JPEG image to Gemini and parses the returned ranking.
func (g *Gemini) Classify(ctx context.Context, image []byte, topK int) ([]Prediction, error) {
	topK = clampTopK(topK)
	resp, err := g.model.GenerateContent(ctx, genai.ImageData("jpeg", image), genai.Text(geminiPrompt(topK)))
	if err != nil {
		return nil, errors.Wrapf(err, "gemini %s request failed", g.name)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return ParseGeminiPredictions(sb.String(), topK)
}

// Close releases the client connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// ParseGeminiPredictions decodes the JSON ranking returned by the model.
//
// Markdown code fences are tolerated. Entries without a label are dropped
// and probabilities are clamped to [0,1].
func ParseGeminiPredictions(text string, topK int) ([]Prediction, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw []Prediction
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse gemini response")
	}

	preds := make([]Prediction, 0, len(raw))
	for _, p := range raw {
		label := strings.TrimSpace(p.Label)
		if label == "" {
			continue
		}
		preds = append(preds, Prediction{Label: label, Probability: clampUnit(p.Probability)})
	}
	return Rank(preds, topK), nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
