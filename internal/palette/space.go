package palette

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMargin bounds nearest-point searches. Any two points of the RGB cube
// are at most 255*sqrt(3) (about 441.7) apart.
const DefaultMargin = 99999.0

// latticeReach is how many units around a projected point Resolve searches
// for an 8-bit color inside the hull before falling back to a hull vertex.
const latticeReach = 2

// Space is the convex region spanned by a palette.
//
// A Space is immutable and safe for concurrent use.
type Space struct {
	palette   []RGB
	hull      *Hull
	placement Placement
	probe     Ball
	margin    float64
	logger    *slog.Logger
}

// Option configures a Space.
type Option func(*Space)

// WithMargin overrides DefaultMargin.
func WithMargin(margin float64) Option {
	return func(s *Space) {
		s.margin = margin
	}
}

// WithLogger sets the logger used for construction diagnostics.
// A nil logger disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Space) {
		if l == nil {
			l = newNopLogger()
		}
		s.logger = l
	}
}

// NewSpace builds the convex region spanned by colors.
//
// Returns a *DegenerateHullError when the colors do not enclose a volume:
// fewer than four distinct colors, or all of them on one plane.
func NewSpace(colors []RGB, opts ...Option) (*Space, error) {
	s := &Space{
		palette:   append([]RGB(nil), colors...),
		placement: Identity(),
		probe:     Ball{Radius: 0},
		margin:    DefaultMargin,
		logger:    newNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	points := make([]r3.Vec, len(colors))
	for i, c := range colors {
		points[i] = c.Vec()
	}
	hull, err := BuildHull(points)
	if err != nil {
		s.logger.Warn("palette rejected", "colors", len(colors), "error", err)
		return nil, err
	}
	s.hull = hull

	s.logger.Debug("palette space built",
		"colors", len(colors),
		"vertices", len(hull.vertices),
		"faces", len(hull.faces),
		"volume", hull.Volume())
	return s, nil
}

// Palette returns a copy of the colors the space was built from.
func (s *Space) Palette() []RGB {
	return append([]RGB(nil), s.palette...)
}

// Hull returns the boundary mesh of the space.
func (s *Space) Hull() *Hull {
	return s.hull
}

// Margin returns the search margin used by queries.
func (s *Space) Margin() float64 {
	return s.margin
}

// Query places a point probe at c and reports its contact with the hull.
//
// A Disjoint contact is returned together with an *InternalGeometryError.
func (s *Space) Query(c RGB) (Contact, error) {
	contact := ClosestPoints(s.placement, s.hull, At(c.Vec()), s.probe, s.margin)
	if contact.Kind == Disjoint {
		return contact, &InternalGeometryError{Query: c, Distance: contact.Distance, Margin: s.margin}
	}
	return contact, nil
}

// Resolve returns the color of the space nearest to c.
//
// Colors inside the hull come back unchanged. Colors outside are projected
// onto the hull surface and truncated to 8-bit channels. When truncation
// leaves the hull, the nearest 8-bit color around the projection that the
// hull contains is used instead. Every result lies in the hull, so
// Resolve(Resolve(c)) == Resolve(c).
//
// The only error is *InternalGeometryError, which cannot happen with the
// default margin.
func (s *Space) Resolve(c RGB) (RGB, error) {
	contact, err := s.Query(c)
	if err != nil {
		return RGB{}, err
	}
	if contact.Kind == Intersecting {
		return c, nil
	}
	return s.settle(contact.OnHull), nil
}

// settle maps a point on the hull surface to an 8-bit color inside the hull.
//
// The truncated point wins when the hull contains it. Otherwise the lattice
// points within latticeReach units of p are searched, nearest to p first,
// and the nearest hull vertex ends the search. Vertices are palette colors,
// so the search always succeeds.
func (s *Space) settle(p r3.Vec) RGB {
	t := truncate(p)
	if s.hull.Contains(t.Vec()) {
		return t
	}

	base := [3]int{int(math.Floor(p.X)), int(math.Floor(p.Y)), int(math.Floor(p.Z))}
	for reach := 1; reach <= latticeReach; reach++ {
		best, bestDist := RGB{}, math.Inf(1)
		for dr := 1 - reach; dr <= reach; dr++ {
			for dg := 1 - reach; dg <= reach; dg++ {
				for db := 1 - reach; db <= reach; db++ {
					c, ok := latticePoint(base[0]+dr, base[1]+dg, base[2]+db)
					if !ok || !s.hull.Contains(c.Vec()) {
						continue
					}
					if d := r3.Norm2(r3.Sub(c.Vec(), p)); d < bestDist {
						best, bestDist = c, d
					}
				}
			}
		}
		if !math.IsInf(bestDist, 1) {
			s.logger.Debug("truncation left the hull", "point", p, "settled", best, "reach", reach)
			return best
		}
	}

	best, bestDist := t, math.Inf(1)
	for _, v := range s.hull.vertices {
		if d := r3.Norm2(r3.Sub(v, p)); d < bestDist {
			best, bestDist = truncate(v), d
		}
	}
	s.logger.Debug("truncation left the hull", "point", p, "settled", best, "reach", "vertex")
	return best
}

// latticePoint returns the color with the given channels, or false when a
// channel is outside 0-255.
func latticePoint(r, g, b int) (RGB, bool) {
	for _, v := range [3]int{r, g, b} {
		if v < 0 || v > 255 {
			return RGB{}, false
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, true
}

// Corners returns the palette colors that are vertices of the hull. The
// remaining palette colors lie inside or on its surface.
func (s *Space) Corners() []RGB {
	out := make([]RGB, len(s.hull.vertices))
	for i, v := range s.hull.vertices {
		out[i] = truncate(v)
	}
	return out
}
