package palette

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Hull is a closed convex triangle mesh.
//
// Faces index into the vertex list and are wound counter-clockwise when seen
// from outside, so the normal (b-a)x(c-a) of face {a, b, c} points outward.
// A Hull is never modified after BuildHull returns it.
type Hull struct {
	vertices []r3.Vec
	faces    [][3]int
}

// BuildHull computes the convex hull of points.
//
// Duplicate points are ignored. The hull is grown incrementally from an
// initial tetrahedron: every point that lies strictly outside the current
// hull removes the faces it can see and is connected to their horizon.
// Points on or inside the current hull are skipped.
//
// Orientation tests are exact when every coordinate is an integer of
// magnitude below 2^16, which covers all 8-bit colors.
//
// # Errors
//
//   - fewer than 4 distinct points
//   - all points collinear or coplanar
func BuildHull(points []r3.Vec) (*Hull, error) {
	pts := dedupe(points)
	if len(pts) < 4 {
		return nil, &DegenerateHullError{Points: len(pts), Reason: "at least 4 distinct colors are required"}
	}

	simplex, reason := initialSimplex(pts)
	if reason != "" {
		return nil, &DegenerateHullError{Points: len(pts), Reason: reason}
	}

	b := hullBuilder{points: pts}
	b.seed(simplex)
	for i := range pts {
		if i == simplex[0] || i == simplex[1] || i == simplex[2] || i == simplex[3] {
			continue
		}
		b.add(i)
	}

	h := b.compact()
	if h.Volume() <= 0 {
		return nil, &DegenerateHullError{Points: len(pts), Reason: "hull has no volume"}
	}
	return h, nil
}

// Vertices returns a copy of the hull's corner points.
func (h *Hull) Vertices() []r3.Vec {
	out := make([]r3.Vec, len(h.vertices))
	copy(out, h.vertices)
	return out
}

// Faces returns a copy of the hull's triangles as vertex indices.
func (h *Hull) Faces() [][3]int {
	out := make([][3]int, len(h.faces))
	copy(out, h.faces)
	return out
}

// Volume returns the enclosed volume in cubic channel units.
func (h *Hull) Volume() float64 {
	var v float64
	for _, f := range h.faces {
		a, b, c := h.vertices[f[0]], h.vertices[f[1]], h.vertices[f[2]]
		v += r3.Dot(a, r3.Cross(b, c))
	}
	return v / 6
}

// Contains reports whether p lies inside or on the hull.
func (h *Hull) Contains(p r3.Vec) bool {
	for _, f := range h.faces {
		if orient(h.vertices[f[0]], h.vertices[f[1]], h.vertices[f[2]], p) > 0 {
			return false
		}
	}
	return true
}

// Closest returns the point on the hull's surface nearest to p and its
// distance from p.
func (h *Hull) Closest(p r3.Vec) (r3.Vec, float64) {
	best := math.Inf(1)
	var nearest r3.Vec
	for _, f := range h.faces {
		q := closestOnTriangle(p, h.vertices[f[0]], h.vertices[f[1]], h.vertices[f[2]])
		if d := r3.Norm2(r3.Sub(p, q)); d < best {
			best = d
			nearest = q
		}
	}
	return nearest, math.Sqrt(best)
}

type hullBuilder struct {
	points []r3.Vec
	faces  [][3]int
}

func (b *hullBuilder) seed(s [4]int) {
	p := b.points
	centroid := r3.Scale(0.25, r3.Add(r3.Add(p[s[0]], p[s[1]]), r3.Add(p[s[2]], p[s[3]])))
	for _, f := range [][3]int{
		{s[0], s[1], s[2]},
		{s[0], s[1], s[3]},
		{s[0], s[2], s[3]},
		{s[1], s[2], s[3]},
	} {
		if orient(p[f[0]], p[f[1]], p[f[2]], centroid) > 0 {
			f[1], f[2] = f[2], f[1]
		}
		b.faces = append(b.faces, f)
	}
}

// add inserts point i, replacing every face that sees it with a fan of
// triangles from its horizon edges to the point.
func (b *hullBuilder) add(i int) {
	p := b.points[i]
	visible := make([]bool, len(b.faces))
	seen := false
	for fi, f := range b.faces {
		if orient(b.points[f[0]], b.points[f[1]], b.points[f[2]], p) > 0 {
			visible[fi] = true
			seen = true
		}
	}
	if !seen {
		return
	}

	edges := make(map[[2]int]struct{})
	for fi, f := range b.faces {
		if visible[fi] {
			edges[[2]int{f[0], f[1]}] = struct{}{}
			edges[[2]int{f[1], f[2]}] = struct{}{}
			edges[[2]int{f[2], f[0]}] = struct{}{}
		}
	}

	next := make([][3]int, 0, len(b.faces)+2)
	for fi, f := range b.faces {
		if !visible[fi] {
			next = append(next, f)
			continue
		}
		for _, e := range [3][2]int{{f[0], f[1]}, {f[1], f[2]}, {f[2], f[0]}} {
			// An edge whose twin is not visible lies on the horizon.
			if _, ok := edges[[2]int{e[1], e[0]}]; !ok {
				next = append(next, [3]int{e[0], e[1], i})
			}
		}
	}
	b.faces = next
}

// compact drops interior points and renumbers the faces.
func (b *hullBuilder) compact() *Hull {
	remap := make([]int, len(b.points))
	for i := range remap {
		remap[i] = -1
	}
	for _, f := range b.faces {
		for _, v := range f {
			remap[v] = 0
		}
	}

	h := &Hull{faces: make([][3]int, len(b.faces))}
	for i, p := range b.points {
		if remap[i] < 0 {
			continue
		}
		remap[i] = len(h.vertices)
		h.vertices = append(h.vertices, p)
	}
	for fi, f := range b.faces {
		h.faces[fi] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return h
}

// initialSimplex picks four affinely independent points. A non-empty reason
// is returned when none exist.
func initialSimplex(pts []r3.Vec) ([4]int, string) {
	s := [4]int{0, 1, -1, -1}
	edge := r3.Sub(pts[1], pts[0])
	for i := 2; i < len(pts); i++ {
		if r3.Norm2(r3.Cross(edge, r3.Sub(pts[i], pts[0]))) > 0 {
			s[2] = i
			break
		}
	}
	if s[2] < 0 {
		return s, "all colors are collinear"
	}
	for i := 2; i < len(pts); i++ {
		if orient(pts[s[0]], pts[s[1]], pts[s[2]], pts[i]) != 0 {
			s[3] = i
			break
		}
	}
	if s[3] < 0 {
		return s, "all colors are coplanar"
	}
	return s, ""
}

func dedupe(points []r3.Vec) []r3.Vec {
	seen := make(map[r3.Vec]struct{}, len(points))
	out := make([]r3.Vec, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// orient is positive when p lies on the outer side of the plane through
// a, b and c, negative on the inner side and zero on the plane.
func orient(a, b, c, p r3.Vec) float64 {
	return r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)), r3.Sub(p, a))
}

// closestOnTriangle returns the point of triangle abc nearest to p by
// classifying p against the triangle's vertex, edge and face regions.
func closestOnTriangle(p, a, b, c r3.Vec) r3.Vec {
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	ap := r3.Sub(p, a)
	d1 := r3.Dot(ab, ap)
	d2 := r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := r3.Sub(p, b)
	d3 := r3.Dot(ab, bp)
	d4 := r3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return r3.Add(a, r3.Scale(d1/(d1-d3), ab))
	}

	cp := r3.Sub(p, c)
	d5 := r3.Dot(ab, cp)
	d6 := r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return r3.Add(a, r3.Scale(d2/(d2-d6), ac))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
	}

	denom := 1 / (va + vb + vc)
	return r3.Add(a, r3.Add(r3.Scale(vb*denom, ab), r3.Scale(vc*denom, ac)))
}
