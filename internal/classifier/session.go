package classifier

import (
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/frame-recognizer/internal/logger"
)

// Status is the load state of a Session.
type Status int

const (
	StatusIdle    Status = iota // Start not called yet
	StatusLoading               // loader running
	StatusReady                 // classifier available
	StatusFailed                // loader returned an error, or no loader
	StatusClosed                // released
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session owns one lazily loaded classifier.
//
// Start kicks off the loader in the background; Ready never blocks and is
// what recognition uses; Wait blocks for callers that prefer to wait. Close
// cancels a pending load and releases the classifier. A classifier that
// finishes loading after Close is released immediately.
type Session struct {
	loader Loader

	mu     sync.Mutex
	status Status
	clf    Classifier
	err    error
	done   chan struct{}
	cancel context.CancelFunc
}

// NewSession creates a session for loader. A nil loader yields a session
// that is permanently unavailable.
func NewSession(loader Loader) *Session {
	return &Session{
		loader: loader,
		done:   make(chan struct{}),
	}
}

// Start begins loading in the background. Subsequent calls are no-ops.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusIdle {
		return
	}
	if s.loader == nil {
		s.status = StatusFailed
		s.err = ErrUnavailable
		close(s.done)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.status = StatusLoading
	go s.load(ctx)
}

func (s *Session) load(ctx context.Context) {
	clf, err := safeLoad(ctx, s.loader)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(s.done)

	if s.status == StatusClosed {
		if err == nil {
			closeClassifier(clf)
		}
		return
	}
	if err != nil {
		s.status = StatusFailed
		s.err = err
		logger.Logger.Warnw("Classifier failed to load", "error", err)
		return
	}
	s.status = StatusReady
	s.clf = clf
	logger.Logger.Infow("Classifier ready")
}

// safeLoad runs loader, converting a panic into an error.
func safeLoad(ctx context.Context, loader Loader) (clf Classifier, err error) {
	defer func() {
		if r := recover(); r != nil {
			clf = nil
			err = errors.Newf("classifier loader panicked: %v", r)
		}
	}()
	clf, err = loader(ctx)
	if err == nil && clf == nil {
		err = errors.New("classifier loader returned nil")
	}
	return clf, err
}

// Ready returns the classifier if it has finished loading.
func (s *Session) Ready() (Classifier, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady {
		return nil, false
	}
	return s.clf, true
}

// Status returns the current load state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the load error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until loading resolves or ctx is done. It starts loading if
// Start has not been called.
func (s *Session) Wait(ctx context.Context) (Classifier, error) {
	s.Start()

	select {
	case <-s.done:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "waiting for classifier")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case StatusReady:
		return s.clf, nil
	case StatusClosed:
		return nil, ErrUnavailable
	default:
		return nil, errors.Mark(errors.Wrap(s.err, "classifier unavailable"), ErrUnavailable)
	}
}

// Close releases the classifier and cancels a pending load. It is safe to
// call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusClosed {
		return nil
	}
	prev := s.status
	s.status = StatusClosed
	if s.cancel != nil {
		s.cancel()
	}
	if prev == StatusIdle {
		close(s.done)
	}

	clf := s.clf
	s.clf = nil
	if clf != nil {
		return closeClassifier(clf)
	}
	return nil
}

func closeClassifier(clf Classifier) error {
	if c, ok := clf.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
