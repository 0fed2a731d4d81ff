package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
	"github.com/ironsheep/frame-recognizer/internal/recognizer"
)

func TestFrameRecognize_Earth(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "earth.png", bandedFrame(oceanBlue, 20))

	res := callTool(t, s.handleFrameRecognize, ToolRecognize, map[string]any{
		"path":          path,
		"topic":         "Planet Earth",
		"include_image": true,
	})

	var got RecognizeResponse
	decodeResult(t, res, &got)
	assert.True(t, got.Matched)
	assert.Equal(t, recognizer.TopicEarth, got.Topic)
	assert.Equal(t, recognizer.OutcomeMatched, got.Outcome)
	assert.InDelta(t, 20.0, got.Confidence, 1e-9)
	assert.Equal(t, "Blue: 20.0%, Green: 0.0%", got.Explanation)
	assert.Equal(t, "/models/Earth2.glb", got.ModelPath)
	assert.Equal(t, "Recognized: Planet Earth! Confidence: 20.0%", got.Message)
	assert.True(t, strings.HasPrefix(got.ImageDataURL, "data:image/jpeg;base64,"))
	assert.NotEmpty(t, got.AttemptID)
	require.NotNil(t, got.Diagnostics.Earth)
}

func TestFrameRecognize_ImageOmittedByDefault(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "earth.png", bandedFrame(oceanBlue, 20))

	res := callTool(t, s.handleFrameRecognize, ToolRecognize, map[string]any{"path": path, "topic": "earth"})

	var got RecognizeResponse
	decodeResult(t, res, &got)
	assert.Empty(t, got.ImageDataURL)
}

func TestFrameRecognize_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		frame       image.Image
		topic       string
		wantOutcome recognizer.Outcome
		wantMessage string
	}{
		{
			name:        "blank frame",
			frame:       solidFrame(100, 100, neutralGray),
			topic:       "heart",
			wantOutcome: recognizer.OutcomeNoContent,
			wantMessage: "Blank or empty image detected. Please scan an actual image.",
		},
		{
			name:        "wrong topic",
			frame:       bandedFrame(oceanBlue, 20),
			topic:       "heart",
			wantOutcome: recognizer.OutcomeNotMatched,
			wantMessage: "Not recognized as Human Heart. Bright Red: 0.0%, Dark Red: 0.0%, Skin: 0.0%",
		},
		{
			name:        "heart",
			frame:       bandedFrame(brightRed, 20),
			topic:       "Human Heart",
			wantOutcome: recognizer.OutcomeMatched,
			wantMessage: "Recognized: Human Heart! Confidence: 40.0%",
		},
		{
			name:        "unknown topic",
			frame:       stripedFrame(),
			topic:       "liver",
			wantOutcome: recognizer.OutcomeNotMatched,
			wantMessage: "Not recognized as Unknown. Unknown topic",
		},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createFrameFile(t, "frame.png", tt.frame)
			res := callTool(t, s.handleFrameRecognize, ToolRecognize, map[string]any{"path": path, "topic": tt.topic})

			var got RecognizeResponse
			decodeResult(t, res, &got)
			assert.Equal(t, tt.wantOutcome, got.Outcome)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestFrameRecognize_BrainWithClassifier(t *testing.T) {
	clf := &classifier.Static{Predictions: []classifier.Prediction{
		{Label: "brain scan", Probability: 0.9},
	}}
	s := newTestServer(t, WithClassifierLoader(classifier.StaticLoader(clf)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.Classifier().Wait(ctx)
	require.NoError(t, err)

	path := createFrameFile(t, "brain.png", halvesFrame())
	res := callTool(t, s.handleFrameRecognize, ToolRecognize, map[string]any{"path": path, "topic": "brain"})

	var got RecognizeResponse
	decodeResult(t, res, &got)
	assert.True(t, got.Matched)
	assert.InDelta(t, 90.0, got.Confidence, 1e-9)
	assert.Equal(t, "AI detected: brain scan (90.0%)", got.Explanation)
	assert.Equal(t, "/models/brain.glb", got.ModelPath)

	// The shared classifier survives the per-attempt session.
	assert.Equal(t, classifier.StatusReady, s.Classifier().Status())
}

func TestFrameRecognize_Errors(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "frame.png", stripedFrame())

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing path", map[string]any{"topic": "brain"}},
		{"missing topic", map[string]any{"path": path}},
		{"missing file", map[string]any{"path": filepath.Join(t.TempDir(), "nope.png"), "topic": "brain"}},
		{"zero crop", map[string]any{"path": path, "topic": "brain", "crop_size": 0}},
		{"huge crop", map[string]any{"path": path, "topic": "brain", "crop_size": 5000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s.handleFrameRecognize, ToolRecognize, tt.args)
			assert.True(t, res.IsError)
		})
	}
}

func TestCheckContent(t *testing.T) {
	s := newTestServer(t)

	blank := createFrameFile(t, "blank.png", solidFrame(100, 100, neutralGray))
	var got ContentResponse
	decodeResult(t, callTool(t, s.handleCheckContent, ToolCheckContent, map[string]any{"path": blank}), &got)
	assert.False(t, got.Significant)
	assert.Equal(t, 0.0, got.StdDev)
	assert.Equal(t, imaging.ContentThreshold, got.Threshold)

	halves := createFrameFile(t, "halves.png", halvesFrame())
	decodeResult(t, callTool(t, s.handleCheckContent, ToolCheckContent, map[string]any{"path": halves}), &got)
	assert.True(t, got.Significant)
	assert.InDelta(t, 127.5, got.StdDev, 1e-9)
}

func TestCheckContent_CropSizeArgument(t *testing.T) {
	s := newTestServer(t)
	// Black frame with a white border: a 50px centre crop sees only black.
	img := solidFrame(100, 100, color.White)
	for y := 20; y < 80; y++ {
		for x := 20; x < 80; x++ {
			img.Set(x, y, color.Black)
		}
	}
	path := createFrameFile(t, "framed.png", img)

	var got ContentResponse
	decodeResult(t, callTool(t, s.handleCheckContent, ToolCheckContent,
		map[string]any{"path": path, "crop_size": 50}), &got)
	assert.False(t, got.Significant)

	decodeResult(t, callTool(t, s.handleCheckContent, ToolCheckContent,
		map[string]any{"path": path}), &got)
	assert.True(t, got.Significant)
}

func TestColorStats(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "red.png", bandedFrame(brightRed, 20))

	var got ColorStatsResponse
	decodeResult(t, callTool(t, s.handleColorStats, ToolColorStats, map[string]any{"path": path}), &got)

	assert.InDelta(t, 20.0, got.Heart.BrightRedPercent, 1e-9)
	assert.Equal(t, 0.0, got.Earth.BluePercent)
	assert.True(t, got.HeartVerdict.Matched)
	assert.False(t, got.EarthVerdict.Matched)
	assert.InDelta(t, 100.0, got.OrganColorPercent, 1e-9)
}

func TestEdgeMetrics(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "striped.png", stripedFrame())

	var got struct {
		Verdict           map[string]any `json:"verdict"`
		OrganColorPercent float64        `json:"organ_color_percent"`
		Shape             struct {
			EdgeDensity float64 `json:"edge_density"`
			Complexity  float64 `json:"complexity"`
			EdgeCount   int     `json:"edge_count"`
		} `json:"shape"`
	}
	decodeResult(t, callTool(t, s.handleEdgeMetrics, ToolEdgeMetrics, map[string]any{"path": path}), &got)

	assert.Equal(t, true, got.Verdict["matched"])
	assert.InDelta(t, 50.0, got.OrganColorPercent, 1e-9)
	assert.Greater(t, got.Shape.EdgeCount, 0)
	assert.InDelta(t, got.Shape.EdgeDensity*100, got.Shape.Complexity, 1e-9)
}

func TestEdgeMap(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "halves.png", halvesFrame())

	res := callTool(t, s.handleEdgeMap, ToolEdgeMap, map[string]any{"path": path})
	require.False(t, res.IsError, resultText(t, res))
	require.Len(t, res.Content, 2)

	assert.Contains(t, resultText(t, res), "edge_density")

	img, ok := mcp.AsImageContent(res.Content[1])
	require.True(t, ok)
	assert.Equal(t, "image/png", img.MIMEType)

	data, err := base64.StdEncoding.DecodeString(img.Data)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), decoded.Bounds())
}

func TestClassify_NoBackend(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "striped.png", stripedFrame())

	var got ClassifyResponse
	decodeResult(t, callTool(t, s.handleClassify, ToolClassify, map[string]any{"path": path, "topic": "brain"}), &got)

	assert.Equal(t, recognizer.TopicBrain, got.Topic)
	assert.Equal(t, "none", got.Status)
	assert.False(t, got.Verdict.Matched)
	assert.Equal(t, classifier.DetectedModelNotLoaded, got.Verdict.Detected)
	assert.Empty(t, got.Predictions)
	assert.NotEmpty(t, got.Error)
}

func TestClassify_WithBackend(t *testing.T) {
	clf := &classifier.Static{Predictions: []classifier.Prediction{
		{Label: "jellyfish", Probability: 0.7},
		{Label: "Neural network diagram", Probability: 0.2},
	}}
	s := newTestServer(t, WithClassifierLoader(classifier.StaticLoader(clf)))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.Classifier().Wait(ctx)
	require.NoError(t, err)

	path := createFrameFile(t, "striped.png", stripedFrame())
	var got ClassifyResponse
	decodeResult(t, callTool(t, s.handleClassify, ToolClassify, map[string]any{"path": path, "topic": "brain"}), &got)

	assert.Equal(t, "ready", got.Status)
	assert.True(t, got.Verdict.Matched)
	assert.InDelta(t, 20.0, got.Verdict.Confidence, 1e-9)
	assert.Equal(t, "AI detected: neural network diagram (20.0%)", got.Verdict.Detected)
	assert.Len(t, got.Predictions, 2)
	assert.Empty(t, got.Error)
}

func TestClassify_ColorTopicRejected(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "striped.png", stripedFrame())

	res := callTool(t, s.handleClassify, ToolClassify, map[string]any{"path": path, "topic": "earth"})
	assert.True(t, res.IsError)
}

func TestDominantColors(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "halves.png", halvesFrame())

	var got DominantColorsResponse
	decodeResult(t, callTool(t, s.handleDominantColors, ToolDominantColors,
		map[string]any{"path": path, "count": 3}), &got)

	require.Len(t, got.Colors, 2)
	assert.Equal(t, "#000000", got.Colors[0].Hex)
	assert.Equal(t, "#f0f0f0", got.Colors[1].Hex)
	assert.InDelta(t, 50.0, got.Colors[0].Percentage, 1e-9)

	res := callTool(t, s.handleDominantColors, ToolDominantColors, map[string]any{"path": path, "count": 50})
	assert.True(t, res.IsError)
}

func TestFrameInfo(t *testing.T) {
	s := newTestServer(t)
	path := createFrameFile(t, "wide.png", solidFrame(120, 80, neutralGray))

	var got imaging.FrameInfo
	decodeResult(t, callTool(t, s.handleFrameInfo, ToolFrameInfo,
		map[string]any{"path": path, "crop_size": 50}), &got)

	assert.Equal(t, 120, got.Width)
	assert.Equal(t, 80, got.Height)
	assert.Equal(t, "png", got.Format)
	assert.Equal(t, 35, got.CropX)
	assert.Equal(t, 15, got.CropY)
	assert.Equal(t, 50, got.CropSize)
	assert.False(t, got.Upscaled)
	assert.Positive(t, got.FileSizeBytes)

	// Default crop is larger than the frame's short side.
	decodeResult(t, callTool(t, s.handleFrameInfo, ToolFrameInfo, map[string]any{"path": path}), &got)
	assert.True(t, got.Upscaled)
	assert.Equal(t, 80, got.CropSize)
}

func TestTopicsList(t *testing.T) {
	s := newTestServer(t)

	var got TopicsResponse
	decodeResult(t, callTool(t, s.handleTopicsList, ToolTopicsList, nil), &got)

	require.Len(t, got.Topics, 3)
	assert.Equal(t, "earth", got.Topics[0].ID)
	assert.Equal(t, "Human Brain", got.Topics[1].Title)
	assert.True(t, got.Topics[1].UsesClassifier)
	assert.False(t, got.Topics[2].UsesClassifier)
	assert.Equal(t, "/models/heart.glb", got.Topics[2].ModelPath)
	assert.Equal(t, "none", got.ClassifierStatus)
}
