package palette

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Ball is a sphere centered on the origin of its placement. A zero radius
// turns it into a single point.
type Ball struct {
	Radius float64
}

// Placement positions a shape in RGB space. Shapes here never rotate, so a
// translation is all a placement holds.
type Placement struct {
	Translation r3.Vec
}

// Identity returns the placement that leaves a shape where it is.
func Identity() Placement {
	return Placement{}
}

// At returns a placement that moves a shape's origin to v.
func At(v r3.Vec) Placement {
	return Placement{Translation: v}
}

// ContactKind classifies the relationship between a hull and a ball.
type ContactKind int

const (
	// Intersecting means the ball touches or overlaps the hull.
	Intersecting ContactKind = iota
	// WithinMargin means the shapes are apart by no more than the margin.
	WithinMargin
	// Disjoint means the shapes are farther apart than the margin.
	Disjoint
)

func (k ContactKind) String() string {
	switch k {
	case Intersecting:
		return "intersecting"
	case WithinMargin:
		return "within_margin"
	case Disjoint:
		return "disjoint"
	}
	return "unknown"
}

// Contact is the result of ClosestPoints.
type Contact struct {
	Kind ContactKind

	// OnHull and OnBall are the closest features of each shape, in world
	// coordinates. Only set for WithinMargin.
	OnHull r3.Vec
	OnBall r3.Vec

	// Distance is the gap between the two surfaces. Zero when intersecting.
	Distance float64
}

// ClosestPoints finds the closest features of a placed hull and a placed ball.
//
// The margin bounds the search: shapes farther apart than margin are reported
// as Disjoint without closest points.
func ClosestPoints(pa Placement, hull *Hull, pb Placement, ball Ball, margin float64) Contact {
	// Work in the hull's frame.
	center := r3.Sub(pb.Translation, pa.Translation)
	if hull.Contains(center) {
		return Contact{Kind: Intersecting}
	}

	nearest, dist := hull.Closest(center)
	gap := dist - ball.Radius
	switch {
	case gap <= 0:
		return Contact{Kind: Intersecting}
	case gap > margin:
		return Contact{Kind: Disjoint, Distance: gap}
	}

	onHull := r3.Add(nearest, pa.Translation)
	toHull := r3.Scale(ball.Radius/dist, r3.Sub(nearest, center))
	return Contact{
		Kind:     WithinMargin,
		OnHull:   onHull,
		OnBall:   r3.Add(pb.Translation, toHull),
		Distance: gap,
	}
}
