package imaging

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/palette-transfer/internal/palette"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string      `json:"hex"` // Hex format "#RRGGBB"
	RGB palette.RGB `json:"rgb"` // RGB components
	HSL HSLColor    `json:"hsl"` // HSL representation
}

// DescribeColor renders c as hex, RGB and HSL.
func DescribeColor(c palette.RGB) ColorResult {
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := col.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string      `json:"hex"`        // Hex color "#RRGGBB"
	Percentage float64     `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        palette.RGB `json:"rgb"`        // RGB components
}

// DominantColors returns the count most frequent colors of pixels, most
// common first. Ties are broken by hex value so the order is stable.
//
// Unlike a source photo, a transferred image only holds colors of the
// palette's hull, so exact colors are counted without quantizing.
func DominantColors(pixels []palette.RGB, count int) []ColorFrequency {
	counts := make(map[palette.RGB]int)
	for _, p := range pixels {
		counts[p]++
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(n) / float64(len(pixels)) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count >= 0 && len(colors) > count {
		colors = colors[:count]
	}
	return colors
}
