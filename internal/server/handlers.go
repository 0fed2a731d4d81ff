package server

import (
	"context"
	"encoding/base64"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ironsheep/frame-recognizer/internal/capture"
	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/detection"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
	"github.com/ironsheep/frame-recognizer/internal/recognizer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonResult returns v as structured content with an indented text copy.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode result")
	}
	return mcp.NewToolResultStructured(v, string(b)), nil
}

// cropSize reads the optional crop_size argument.
func (s *Server) cropSize(req mcp.CallToolRequest) (int, error) {
	side := req.GetInt("crop_size", s.cfg.Capture.CropSize)
	if side <= 0 || side > maxCropSize {
		return 0, errors.Newf("crop_size must be in 1..%d, got %d", maxCropSize, side)
	}
	return side, nil
}

func (s *Server) preprocessor(side int) *imaging.Preprocessor {
	return imaging.NewPreprocessor(side, s.cfg.Capture.JPEGQuality)
}

// capture loads the frame named by the path argument and crops it.
func (s *Server) capture(req mcp.CallToolRequest) (*imaging.Capture, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return nil, err
	}
	side, err := s.cropSize(req)
	if err != nil {
		return nil, err
	}
	frame, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return s.preprocessor(side).Process(frame)
}

// RecognizeResponse is the frame_recognize payload.
type RecognizeResponse struct {
	recognizer.Result
	Message      string `json:"message"`
	ImageDataURL string `json:"image_data_url,omitempty"`
}

func (s *Server) handleFrameRecognize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	topicName, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	side, err := s.cropSize(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.cache.Load(path); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to load frame", err), nil
	}

	s.attempts.Lock()
	defer s.attempts.Unlock()

	sess := recognizer.NewSession(
		recognizer.ParseTopic(topicName),
		capture.NewFileSource(path, s.cache),
		s.preprocessor(side),
		recognizer.WithClassifierSession(s.models),
		recognizer.WithTopK(s.cfg.Classifier.TopK),
	)
	defer sess.Close()
	sess.Open()

	res, err := sess.Scan(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("recognition aborted", err), nil
	}

	resp := RecognizeResponse{Result: res, Message: res.Message()}
	if req.GetBool("include_image", false) {
		resp.ImageDataURL = res.DataURL()
	}
	return jsonResult(resp)
}

// ContentResponse is the frame_check_content payload.
type ContentResponse struct {
	Significant bool    `json:"significant"`
	StdDev      float64 `json:"std_dev"`
	Threshold   float64 `json:"threshold"`
}

func (s *Server) handleCheckContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.capture(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	std := imaging.ContentStdDev(c.Buffer)
	return jsonResult(ContentResponse{
		Significant: std > imaging.ContentThreshold,
		StdDev:      std,
		Threshold:   imaging.ContentThreshold,
	})
}

// ColorStatsResponse is the frame_color_stats payload.
type ColorStatsResponse struct {
	detection.ColorStats
	EarthVerdict detection.Verdict `json:"earth_verdict"`
	HeartVerdict detection.Verdict `json:"heart_verdict"`
}

func (s *Server) handleColorStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.capture(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stats := detection.MeasureColors(c.Buffer)
	return jsonResult(ColorStatsResponse{
		ColorStats:   stats,
		EarthVerdict: stats.Earth.Verdict(),
		HeartVerdict: stats.Heart.Verdict(),
	})
}

func (s *Server) handleEdgeMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.capture(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(detection.AnalyzeBrainShape(c.Buffer))
}

func (s *Server) handleEdgeMap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.capture(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	edges := detection.DetectEdges(c.Buffer)
	data, err := edges.EncodePNG()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to render edge map", err), nil
	}
	summary, err := json.Marshal(edges.Metrics())
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode metrics")
	}
	return mcp.NewToolResultImage(string(summary), base64.StdEncoding.EncodeToString(data), "image/png"), nil
}

// ClassifyResponse is the frame_classify payload.
type ClassifyResponse struct {
	Topic       recognizer.Topic        `json:"topic"`
	Status      string                  `json:"classifier_status"`
	Verdict     detection.Verdict       `json:"verdict"`
	Predictions []classifier.Prediction `json:"predictions"`
	Error       string                  `json:"error,omitempty"`
}

func (s *Server) handleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicName, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	topic := recognizer.ParseTopic(topicName)
	if !topic.UsesClassifier() {
		return mcp.NewToolResultErrorf("topic %q is not recognised with the classifier", topicName), nil
	}
	c, err := s.capture(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var clf classifier.Classifier
	if s.models != nil {
		clf, _ = s.models.Ready()
	}
	ev := classifier.NewAdapter(topic.Info().Keywords, s.cfg.Classifier.TopK).Evaluate(ctx, clf, c.Encoded)

	resp := ClassifyResponse{
		Topic:       topic,
		Status:      s.classifierStatus(),
		Verdict:     ev.Verdict,
		Predictions: ev.Predictions,
	}
	if resp.Predictions == nil {
		resp.Predictions = []classifier.Prediction{}
	}
	if ev.Err != nil {
		resp.Error = ev.Err.Error()
	}
	return jsonResult(resp)
}

// DominantColorsResponse is the frame_dominant_colors payload.
type DominantColorsResponse struct {
	Colors []imaging.ColorFrequency `json:"colors"`
}

func (s *Server) handleDominantColors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := req.GetInt("count", defaultColors)
	if count < 1 || count > maxColors {
		return mcp.NewToolResultErrorf("count must be in 1..%d, got %d", maxColors, count), nil
	}
	c, err := s.capture(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(DominantColorsResponse{Colors: imaging.DominantColors(c.Buffer, count)})
}

func (s *Server) handleFrameInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	side, err := s.cropSize(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := imaging.LoadFrameInfo(s.cache, path, side)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to load frame", err), nil
	}
	return jsonResult(info)
}

// TopicEntry is one topics_list item.
type TopicEntry struct {
	recognizer.TopicInfo
	UsesClassifier bool `json:"uses_classifier"`
}

// TopicsResponse is the topics_list payload.
type TopicsResponse struct {
	Topics           []TopicEntry `json:"topics"`
	ClassifierStatus string       `json:"classifier_status"`
}

func (s *Server) handleTopicsList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := TopicsResponse{ClassifierStatus: s.classifierStatus()}
	for _, t := range recognizer.Topics() {
		resp.Topics = append(resp.Topics, TopicEntry{TopicInfo: t.Info(), UsesClassifier: t.UsesClassifier()})
	}
	return jsonResult(resp)
}
