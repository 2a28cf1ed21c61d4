package palette

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RGB represents a color with 8-bit components.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Key packs the color into a 24-bit integer, one distinct key per color.
func (c RGB) Key() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// FromKey is the inverse of RGB.Key.
func FromKey(k uint32) RGB {
	return RGB{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k)}
}

// Vec returns the color as a point in RGB space.
func (c RGB) Vec() r3.Vec {
	return r3.Vec{X: float64(c.R), Y: float64(c.G), Z: float64(c.B)}
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// truncate converts a point in RGB space back into 8-bit channels,
// truncating toward zero and clamping to 0-255.
func truncate(v r3.Vec) RGB {
	return RGB{R: channel(v.X), G: channel(v.Y), B: channel(v.Z)}
}

func channel(f float64) uint8 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f)
}
