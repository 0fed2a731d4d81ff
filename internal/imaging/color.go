package imaging

import (
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorFrequency is one entry of a palette.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // "#rrggbb" of the quantized color
	Percentage float64  `json:"percentage"` // Share of pixels, 0-100
	RGB        RGBColor `json:"rgb"`
	HSL        HSLColor `json:"hsl"`
}

// quantStep groups colors within 16 units per channel.
const quantStep = 16

// DominantColors returns the count most common colors in buf, most common
// first.
//
// Parameters:
//   - buf: The capture to summarise.
//   - count: Maximum number of entries. Fewer are returned when the buffer
//     holds fewer distinct colors after quantization.
//
// Returns:
//   - []ColorFrequency: Hex, RGB, HSL and percentage of each bucket. Nil for
//     an empty buffer or a non-positive count.
//
// # Color Quantization
//
// Each channel is rounded down to a multiple of 16 before counting, so
// #F0F0F0 and #FAFAFA fall into the same bucket. Ties are broken by the
// packed RGB value so the order is stable between runs.
//
// The palette explains a verdict: an Earth miss on a photo whose top entry
// is a pale blue usually means the blue channel did not clear the
// dominance margin.
func DominantColors(buf *PixelBuffer, count int) []ColorFrequency {
	if buf.Empty() || count <= 0 {
		return nil
	}

	counts := make(map[uint32]int)
	n := buf.Len()
	for i := 0; i < n; i++ {
		r, g, b := buf.RGB(i)
		key := uint32(r/quantStep*quantStep)<<16 | uint32(g/quantStep*quantStep)<<8 | uint32(b/quantStep*quantStep)
		counts[key]++
	}

	keys := make([]uint32, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > count {
		keys = keys[:count]
	}

	colors := make([]ColorFrequency, 0, len(keys))
	for _, k := range keys {
		rgb := RGBColor{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k)}
		c := colorful.Color{
			R: float64(rgb.R) / 255,
			G: float64(rgb.G) / 255,
			B: float64(rgb.B) / 255,
		}
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(counts[k]) / float64(n) * 100,
			RGB:        rgb,
			HSL:        toHSL(c),
		})
	}
	return colors
}

// toHSL converts to integer HSL with saturation and lightness in percent.
func toHSL(c colorful.Color) HSLColor {
	h, s, l := c.Hsl()
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
