package recognizer

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/detection"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
	"github.com/ironsheep/frame-recognizer/internal/logger"
)

// ClassifierProvider hands out the classifier once it has loaded.
// *classifier.Session implements it.
type ClassifierProvider interface {
	Ready() (classifier.Classifier, bool)
	Status() classifier.Status
}

// Engine runs the detectors for a topic and fuses their verdicts.
type Engine struct {
	models ClassifierProvider
	topK   int
}

// NewEngine creates an engine. models may be nil, in which case
// classifier topics use their shape rule only.
func NewEngine(models ClassifierProvider, topK int) *Engine {
	return &Engine{models: models, topK: topK}
}

// Recognize runs one attempt for topic on c. It never fails: unknown topics,
// missing captures, blank input and detector panics all come back as a
// Result.
func (e *Engine) Recognize(ctx context.Context, topic Topic, c *imaging.Capture) (res Result) {
	res = Result{
		AttemptID: uuid.NewString(),
		Topic:     topic,
		Outcome:   OutcomeNotMatched,
		Capture:   c,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Errorw("Recognition panicked",
				"attempt_id", res.AttemptID, "topic", topic.String(), "panic", r)
			res = e.reject(res.AttemptID, topic, c, ExplainFailed)
			return
		}
		logAttempt(res)
	}()

	if !topic.Known() {
		res.Explanation = ExplainUnknownTopic
		return res
	}
	if c == nil || c.Buffer.Empty() {
		res.Explanation = ExplainCameraNotReady
		return res
	}

	buf := c.Buffer
	res.Diagnostics.ContentStdDev = imaging.ContentStdDev(buf)
	if res.Diagnostics.ContentStdDev <= imaging.ContentThreshold {
		res.Outcome = OutcomeNoContent
		res.Explanation = ExplainNoContent
		return res
	}

	var v detection.Verdict
	switch topic {
	case TopicEarth:
		s := detection.MeasureEarth(buf)
		res.Diagnostics.Earth = &s
		v = s.Verdict()
	case TopicHeart:
		s := detection.MeasureHeart(buf)
		res.Diagnostics.Heart = &s
		v = s.Verdict()
	case TopicBrain:
		v = e.recognizeBrain(ctx, c, &res.Diagnostics)
	default:
		v = detection.Verdict{Detected: ExplainUnknownTopic}
	}

	res.Matched = v.Matched
	res.Confidence = v.Confidence
	res.Explanation = v.Detected
	if v.Matched {
		res.Outcome = OutcomeMatched
		res.ModelPath = topic.Info().ModelPath
	}
	return res
}

// recognizeBrain consults the classifier when it has already loaded and
// falls back to the shape rule otherwise. It never waits for a load.
func (e *Engine) recognizeBrain(ctx context.Context, c *imaging.Capture, d *Diagnostics) detection.Verdict {
	shape := detection.AnalyzeBrainShape(c.Buffer)
	d.Shape = &shape.Shape
	organ := shape.OrganColorPercent
	d.OrganColorPercent = &organ

	if e.models == nil {
		return shape.Verdict
	}
	d.ClassifierStatus = e.models.Status().String()
	clf, ok := e.models.Ready()
	if !ok {
		return shape.Verdict
	}

	ev := classifier.NewAdapter(TopicBrain.Info().Keywords, e.topK).Evaluate(ctx, clf, c.Encoded)
	d.Predictions = ev.Predictions
	if ev.Verdict.Matched {
		return ev.Verdict
	}
	return Fuse(ev.Verdict, shape.Verdict)
}

// Fuse combines a non-matching classifier verdict with the shape rule: the
// shape rule decides the match, confidence is the larger of the two.
func Fuse(cls, shape detection.Verdict) detection.Verdict {
	return detection.Verdict{
		Matched:    shape.Matched,
		Confidence: math.Max(cls.Confidence, shape.Confidence),
		Detected:   cls.Detected + " | Fallback: " + shape.Detected,
	}
}

// reject builds a non-matching result for an attempt that never reached
// the detectors.
func (e *Engine) reject(id string, topic Topic, c *imaging.Capture, explanation string) Result {
	if !topic.Known() {
		explanation = ExplainUnknownTopic
	}
	if id == "" {
		id = uuid.NewString()
	}
	res := Result{
		AttemptID:   id,
		Topic:       topic,
		Outcome:     OutcomeNotMatched,
		Explanation: explanation,
		Capture:     c,
	}
	logAttempt(res)
	return res
}

func logAttempt(res Result) {
	d := res.Diagnostics
	fields := []any{
		"attempt_id", res.AttemptID,
		"topic", res.Topic.String(),
		"outcome", string(res.Outcome),
		"confidence", res.Confidence,
		"explanation", res.Explanation,
		"std_dev", d.ContentStdDev,
	}
	if d.Earth != nil {
		fields = append(fields, "blue_pct", d.Earth.BluePercent, "green_pct", d.Earth.GreenPercent)
	}
	if d.Heart != nil {
		fields = append(fields,
			"bright_red_pct", d.Heart.BrightRedPercent,
			"dark_red_pct", d.Heart.DarkRedPercent,
			"skin_pct", d.Heart.SkinPercent)
	}
	if d.Shape != nil {
		fields = append(fields,
			"edge_density", d.Shape.EdgeDensity,
			"roundness", d.Shape.Roundness,
			"complexity", d.Shape.Complexity)
	}
	if d.ClassifierStatus != "" {
		fields = append(fields, "classifier", d.ClassifierStatus, "predictions", len(d.Predictions))
	}
	logger.Logger.Infow("Recognition attempt", fields...)
}
