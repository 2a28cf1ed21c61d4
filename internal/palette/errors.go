package palette

import (
	"errors"
	"fmt"
)

// ErrDegenerateHull is matched by every *DegenerateHullError.
var ErrDegenerateHull = errors.New("degenerate convex hull")

// ErrGeometryInvariant is matched by every *InternalGeometryError.
var ErrGeometryInvariant = errors.New("geometry invariant violated")

// DegenerateHullError reports a palette that does not enclose a positive volume.
type DegenerateHullError struct {
	// Points is the number of distinct colors that were available.
	Points int

	// Reason describes which degeneracy was found.
	Reason string
}

func (e *DegenerateHullError) Error() string {
	return fmt.Sprintf("palette does not span a convex volume (%d distinct colors): %s", e.Points, e.Reason)
}

// Is reports whether target is ErrDegenerateHull.
func (e *DegenerateHullError) Is(target error) bool {
	return target == ErrDegenerateHull
}

// InternalGeometryError reports a query that ended up farther from the hull
// than the search margin. The margin is chosen to exceed every distance inside
// the RGB cube, so this error always indicates a defect.
type InternalGeometryError struct {
	Query    RGB
	Distance float64
	Margin   float64
}

func (e *InternalGeometryError) Error() string {
	return fmt.Sprintf("internal geometry invariant violated: %s is %.3f from the palette hull, beyond search margin %.3f",
		e.Query, e.Distance, e.Margin)
}

// Is reports whether target is ErrGeometryInvariant.
func (e *InternalGeometryError) Is(target error) bool {
	return target == ErrGeometryInvariant
}
