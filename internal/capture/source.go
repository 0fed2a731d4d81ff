// Package capture supplies frames to a recognition session.
//
// A Source stands in for the live camera: each Frame call returns the
// current picture. Closing a Source releases the underlying device or file
// handle; frames requested afterwards fail with ErrClosed.
package capture

import (
	"context"
	"image"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ironsheep/frame-recognizer/internal/imaging"
)

var (
	// ErrNoFrame means the source has nothing to show yet.
	ErrNoFrame = errors.New("no frame available")

	// ErrClosed means the source was released.
	ErrClosed = errors.New("capture source closed")
)

// Source yields the current frame.
type Source interface {
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// FileSource reads its frame from an image file through a shared cache.
type FileSource struct {
	path  string
	cache *imaging.ImageCache

	mu     sync.Mutex
	closed bool
}

// NewFileSource creates a source for path. A nil cache gets a private one.
func NewFileSource(path string, cache *imaging.ImageCache) *FileSource {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return &FileSource{path: path, cache: cache}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string { return s.path }

// Frame loads the file, or returns the cached decode.
func (s *FileSource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	return s.cache.Load(s.path)
}

// Close marks the source closed. The shared cache entry is kept.
func (s *FileSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// StaticSource serves an in-memory frame that can be swapped, like a feed.
type StaticSource struct {
	mu     sync.Mutex
	frame  image.Image
	closed bool
}

// NewStaticSource creates a source showing frame. A nil frame makes Frame
// return ErrNoFrame until Set is called.
func NewStaticSource(frame image.Image) *StaticSource {
	return &StaticSource{frame: frame}
}

// Set replaces the current frame.
func (s *StaticSource) Set(frame image.Image) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
}

// Frame returns the current frame.
func (s *StaticSource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.frame == nil {
		return nil, ErrNoFrame
	}
	return s.frame, nil
}

// Close drops the frame.
func (s *StaticSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.frame = nil
	s.mu.Unlock()
	return nil
}
