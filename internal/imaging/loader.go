package imaging

import (
	"bytes"
	"image"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/disintegration/imaging"
)

// ImageCache provides thread-safe caching of decoded frames to avoid
// redundant disk reads.
//
// Frames are keyed by the exact path string they were loaded with. Once a
// frame is loaded, subsequent Load calls for the same path return the cached
// copy without disk I/O.
//
// # Orientation
//
// Photos taken on phones usually carry an EXIF orientation tag. Frames are
// decoded with auto-orientation enabled so that the centred crop matches what
// a person sees when viewing the photo.
//
// # Memory Management
//
// Cached frames stay in memory until removed via Evict or Clear.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	frame, err := cache.Load("/path/to/scan.jpg")
//	if err != nil {
//	    return err
//	}
//	capture, err := imaging.NewPreprocessor(288, 92).Process(frame)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves a frame from the cache or decodes it from disk.
//
// Supported formats are those of the imaging library: JPEG, PNG, GIF, TIFF
// and BMP.
//
// # Errors
//
//   - the file does not exist or cannot be read
//   - the file is not a decodable image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load frame %s", path)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached frames.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all frames from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a single frame. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// DecodeFrame decodes an in-memory encoded frame, honouring EXIF orientation.
func DecodeFrame(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty frame data")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode frame")
	}
	return img, nil
}

// FrameInfo describes a frame file and how it will be captured.
type FrameInfo struct {
	// Width is the frame width in pixels, after orientation.
	Width int `json:"width"`

	// Height is the frame height in pixels, after orientation.
	Height int `json:"height"`

	// Format is derived from the file extension: "jpeg", "png", "gif",
	// "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// CropX, CropY, CropSize locate the square that will be analysed.
	CropX    int `json:"crop_x"`
	CropY    int `json:"crop_y"`
	CropSize int `json:"crop_size"`

	// Upscaled is set when the frame is smaller than the capture size and
	// the crop will be resized up.
	Upscaled bool `json:"upscaled"`
}

// LoadFrameInfo loads a frame through cache and reports its metadata along
// with the capture region a side x side preprocessor would use.
//
// Parameters:
//   - cache: Cache the frame is read through, so a following recognition of
//     the same path does not decode it again.
//   - path: File path of the frame.
//   - side: Capture edge length in pixels.
//
// Returns:
//   - *FrameInfo: Dimensions, format (from the file extension, "unknown" when
//     unrecognised), file size and the crop region relative to the frame
//     origin. Upscaled reports that the frame is smaller than side.
//   - error: Non-nil if the frame cannot be loaded.
//
// # Errors
//
//   - the file does not exist or cannot be read
//   - the file is not a decodable image
//   - the file cannot be stat'ed after loading
func LoadFrameInfo(cache *ImageCache, path string, side int) (*FrameInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	bounds := img.Bounds()
	region := CenterSquare(bounds, side)
	return &FrameInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
		CropX:         region.Min.X - bounds.Min.X,
		CropY:         region.Min.Y - bounds.Min.Y,
		CropSize:      region.Dx(),
		Upscaled:      region.Dx() < side,
	}, nil
}
