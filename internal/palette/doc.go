// Package palette models a color palette as a convex region of RGB space and
// projects arbitrary colors onto it.
//
// A palette is an ordered set of 8-bit RGB colors. NewSpace builds the convex
// hull of those colors once; the resulting Space answers nearest-point queries
// for the rest of the process and is safe for concurrent use because it is
// never mutated after construction.
//
// # Geometry
//
// Colors are points in a 0-255 cube with R, G and B as the X, Y and Z axes.
// The hull is stored as a closed triangle mesh whose faces are oriented with
// their normals pointing away from the interior. All palette coordinates are
// integers, so the orientation tests used during construction and for the
// containment check are exact in float64.
//
// A query is expressed as a zero-radius Ball placed at the query color and
// handed to ClosestPoints together with the hull. The result is one of:
//   - Intersecting: the color already lies inside or on the hull
//   - WithinMargin: the color is outside; the closest hull point is reported
//   - Disjoint: the color is farther than the search margin
//
// The default margin is far larger than the diagonal of the RGB cube, so the
// disjoint outcome signals a defect and surfaces as InternalGeometryError.
//
// # Channel Conversion
//
// Closest points are converted back to 8-bit channels by truncation toward
// zero. When truncation steps off the hull, the nearest 8-bit color the hull
// contains is used instead. Results always lie in the hull, which makes
// Resolve idempotent.
//
// # Errors
//
// NewSpace fails with a *DegenerateHullError (matching ErrDegenerateHull) when
// the palette has fewer than four distinct colors or all colors are coplanar.
package palette
