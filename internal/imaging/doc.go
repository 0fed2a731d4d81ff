// Package imaging turns camera frames into the pixel buffers the detectors
// read.
//
// A frame of any size is reduced to a centred square (the region inside the
// on-screen framing guide), copied into an immutable PixelBuffer and encoded
// as JPEG for hand-off to a classifier or a viewer. The package also provides
// the topic-independent content check that rejects blank captures.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner. X
// grows to the right and Y grows downward. A PixelBuffer always has its
// origin at (0,0) regardless of where the crop came from in the frame.
//
// # Pixel Layout
//
// PixelBuffer stores non-premultiplied RGBA, four bytes per pixel, row-major.
// The alpha channel is carried but never analysed.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. PixelBuffer and Capture are never
// mutated after construction and may be shared freely between goroutines.
package imaging
