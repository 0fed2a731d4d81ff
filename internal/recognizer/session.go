package recognizer

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/frame-recognizer/internal/capture"
	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
	"github.com/ironsheep/frame-recognizer/internal/logger"
)

var (
	// ErrBusy is returned by Scan while another attempt is in flight.
	ErrBusy = errors.New("recognition already in progress")

	// ErrClosed is returned once the session has been closed. A Scan that
	// was in flight when Close ran also returns it and its result is dropped.
	ErrClosed = errors.New("recognition session closed")
)

// State is the position of a Session in its recognition cycle.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateMatched
	StateNotMatched
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateMatched:
		return "matched"
	case StateNotMatched:
		return "not_matched"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithClassifierLoader gives the session its own classifier, loaded when
// the session opens and released when it closes.
func WithClassifierLoader(loader classifier.Loader) Option {
	return func(s *Session) {
		if loader == nil {
			return
		}
		s.models = classifier.NewSession(loader)
		s.ownsModels = true
	}
}

// WithClassifierSession shares an existing classifier session. The caller
// keeps ownership and must close it.
func WithClassifierSession(models *classifier.Session) Option {
	return func(s *Session) {
		s.models = models
		s.ownsModels = false
	}
}

// WithTopK sets how many predictions the classifier is asked for.
func WithTopK(k int) Option {
	return func(s *Session) { s.topK = k }
}

// Session is one capture view: a topic, a frame source and, for classifier
// topics, a classifier. Attempts run one at a time:
//
//	Idle -> Scanning -> Matched | NotMatched -> Idle
//
// A finished result stays available until Consume or the next Scan.
type Session struct {
	topic  Topic
	source capture.Source
	pre    *imaging.Preprocessor
	engine *Engine
	topK   int

	models     *classifier.Session
	ownsModels bool

	mu     sync.Mutex
	state  State
	last   *Result
	cancel context.CancelFunc
}

// NewSession creates a session for topic reading frames from source.
func NewSession(topic Topic, source capture.Source, pre *imaging.Preprocessor, opts ...Option) *Session {
	s := &Session{
		topic:  topic,
		source: source,
		pre:    pre,
		topK:   classifier.MaxTopK,
	}
	for _, opt := range opts {
		opt(s)
	}

	var provider ClassifierProvider
	if s.models != nil {
		provider = s.models
	}
	s.engine = NewEngine(provider, s.topK)
	return s
}

// Topic returns the session's topic.
func (s *Session) Topic() Topic { return s.topic }

// Classifier returns the classifier session, or nil when there is none.
func (s *Session) Classifier() *classifier.Session { return s.models }

// Open starts loading the classifier in the background for topics that use
// one. It does not block.
func (s *Session) Open() {
	s.mu.Lock()
	closed := s.state == StateClosed
	s.mu.Unlock()
	if closed || s.models == nil || !s.topic.UsesClassifier() {
		return
	}
	s.models.Start()
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Scan runs one recognition attempt on the current frame. A result left
// over from the previous attempt is consumed implicitly.
func (s *Session) Scan(ctx context.Context) (Result, error) {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return Result{}, ErrClosed
	case StateScanning:
		s.mu.Unlock()
		return Result{}, ErrBusy
	}
	ctx, cancel := context.WithCancel(ctx)
	s.state = StateScanning
	s.last = nil
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	res := s.attempt(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		logger.Logger.Debugw("Discarding result of closed session", "attempt_id", res.AttemptID)
		return Result{}, ErrClosed
	}
	s.cancel = nil
	if res.Matched {
		s.state = StateMatched
	} else {
		s.state = StateNotMatched
	}
	s.last = &res
	return res, nil
}

// attempt captures and analyses one frame. Failures in the source or the
// preprocessor end the attempt as a not-matched result so Scan always
// leaves the Scanning state.
func (s *Session) attempt(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Errorw("Capture panicked", "topic", s.topic.String(), "panic", r)
			res = s.engine.reject("", s.topic, nil, ExplainFailed)
		}
	}()

	if s.source == nil {
		return s.engine.Recognize(ctx, s.topic, nil)
	}
	frame, err := s.source.Frame(ctx)
	if err != nil {
		logger.Logger.Warnw("No frame to scan", "topic", s.topic.String(), "error", err)
		return s.engine.Recognize(ctx, s.topic, nil)
	}

	if s.pre == nil {
		return s.engine.reject("", s.topic, nil, ExplainFailed)
	}
	c, err := s.pre.Process(frame)
	if err != nil {
		logger.Logger.Warnw("Failed to preprocess frame", "topic", s.topic.String(), "error", err)
		return s.engine.reject("", s.topic, nil, ExplainFailed)
	}
	return s.engine.Recognize(ctx, s.topic, c)
}

// Consume hands over the finished result and returns the session to Idle.
// It reports false when no result is waiting.
func (s *Session) Consume() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || (s.state != StateMatched && s.state != StateNotMatched) {
		return Result{}, false
	}
	res := *s.last
	s.last = nil
	s.state = StateIdle
	return res, true
}

// Close releases the frame source and an owned classifier, and abandons an
// attempt in flight. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosed
	s.last = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	var errs error
	if s.source != nil {
		if err := s.source.Close(); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "closing capture source"))
		}
	}
	if s.ownsModels && s.models != nil {
		if err := s.models.Close(); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "closing classifier"))
		}
	}
	return errs
}
