package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Nord is the default palette, https://www.nordtheme.com/.
var Nord = []string{
	"#2E3440", "#3B4252", "#434C5E", "#4C566A", "#D8DEE9", "#E5E9F0", "#ECEFF4", "#8FBCBB",
	"#88C0D0", "#81A1C1", "#5E81AC", "#BF616A", "#D08770", "#EBCB8B", "#A3BE8C", "#B48EAD",
}

// ParseHex decodes a "#RRGGBB" or "#RGB" color. The leading '#' is optional.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGB{}, fmt.Errorf("invalid hex color %q: want 3 or 6 hex digits", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// ParseColors decodes every entry of codes with ParseHex, keeping order.
func ParseColors(codes []string) ([]RGB, error) {
	colors := make([]RGB, 0, len(codes))
	for i, code := range codes {
		c, err := ParseHex(code)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i+1, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

// ParseList decodes a comma-separated list such as "2E3440,3B4252,434C5E".
func ParseList(list string) ([]RGB, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, fmt.Errorf("empty color list")
	}
	return ParseColors(strings.Split(list, ","))
}

// NordColors returns the Nord palette as colors.
func NordColors() []RGB {
	colors, err := ParseColors(Nord)
	if err != nil {
		panic(err)
	}
	return colors
}
