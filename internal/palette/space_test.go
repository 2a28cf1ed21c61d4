package palette

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	black = RGB{0, 0, 0}
	white = RGB{255, 255, 255}
	red   = RGB{255, 0, 0}
	green = RGB{0, 255, 0}
)

func tetrahedron(t *testing.T, opts ...Option) *Space {
	t.Helper()
	s, err := NewSpace([]RGB{black, white, red, green}, opts...)
	require.NoError(t, err)
	return s
}

func nordSpace(t *testing.T) *Space {
	t.Helper()
	s, err := NewSpace(NordColors())
	require.NoError(t, err)
	return s
}

// lattice returns every color whose channels are multiples of step.
func lattice(step int) []RGB {
	var out []RGB
	for r := 0; r <= 255; r += step {
		for g := 0; g <= 255; g += step {
			for b := 0; b <= 255; b += step {
				out = append(out, RGB{uint8(r), uint8(g), uint8(b)})
			}
		}
	}
	return out
}

func TestNewSpace_Nord(t *testing.T) {
	s := nordSpace(t)
	assert.Greater(t, s.Hull().Volume(), 0.0)
	assert.Equal(t, DefaultMargin, s.Margin())
	assert.Len(t, s.Palette(), 16)
}

func TestNewSpace_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		colors []RGB
	}{
		{"two colors", []RGB{black, white}},
		{"three colors", []RGB{black, white, red}},
		{"zero blue", []RGB{black, red, green, {255, 255, 0}, {10, 20, 0}}},
		{"all identical", []RGB{red, red, red, red, red}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSpace(tt.colors)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrDegenerateHull)
		})
	}
}

func TestNewSpace_CopiesPalette(t *testing.T) {
	colors := []RGB{black, white, red, green}
	s, err := NewSpace(colors)
	require.NoError(t, err)

	colors[0] = RGB{1, 2, 3}
	assert.Equal(t, black, s.Palette()[0])
}

func TestResolve_FixedPoints(t *testing.T) {
	s := nordSpace(t)
	for _, c := range s.Palette() {
		got, err := s.Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, c, got, "palette color %s moved", c)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	for name, s := range map[string]*Space{"nord": nordSpace(t), "tetrahedron": tetrahedron(t)} {
		t.Run(name, func(t *testing.T) {
			for _, c := range lattice(15) {
				once, err := s.Resolve(c)
				require.NoError(t, err)
				twice, err := s.Resolve(once)
				require.NoError(t, err)
				require.Equal(t, once, twice, "resolve(%s)", c)
			}
		})
	}
}

func TestResolve_Containment(t *testing.T) {
	for name, s := range map[string]*Space{"nord": nordSpace(t), "tetrahedron": tetrahedron(t)} {
		t.Run(name, func(t *testing.T) {
			for _, c := range lattice(17) {
				got, err := s.Resolve(c)
				require.NoError(t, err)
				require.True(t, s.Hull().Contains(got.Vec()), "resolve(%s) = %s lies outside the hull", c, got)
			}
		})
	}
}

func TestResolve_JustOutsideFace(t *testing.T) {
	s, err := NewSpace(rgbCube(0, 128))
	require.NoError(t, err)

	tests := []struct {
		in   RGB
		want RGB
	}{
		{RGB{129, 50, 50}, RGB{128, 50, 50}},
		{RGB{50, 129, 50}, RGB{50, 128, 50}},
		{RGB{129, 129, 129}, RGB{128, 128, 128}},
		{RGB{128, 50, 50}, RGB{128, 50, 50}},
	}
	for _, tt := range tests {
		got, err := s.Resolve(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "resolve(%s)", tt.in)
	}
}

func TestSettle_StaysInHull(t *testing.T) {
	s, err := NewSpace(rgbCube(10, 138))
	require.NoError(t, err)

	// Truncation drops below the face at r=10; the nearest contained neighbor
	// is used instead.
	assert.Equal(t, RGB{10, 50, 50}, s.settle(r3.Vec{X: 9.5, Y: 50.2, Z: 50}))
	// Truncation stays inside.
	assert.Equal(t, RGB{137, 50, 50}, s.settle(r3.Vec{X: 137.9, Y: 50.2, Z: 50}))
	// Nothing within reach is contained, so the nearest corner is used.
	assert.Equal(t, RGB{138, 138, 138}, s.settle(r3.Vec{X: 250, Y: 250, Z: 250}))
}

func TestResolve_InsideUnchanged(t *testing.T) {
	s := tetrahedron(t)
	for _, c := range []RGB{{200, 100, 50}, {128, 128, 128}, {250, 10, 5}} {
		require.True(t, s.Hull().Contains(c.Vec()), "%s should be inside", c)
		got, err := s.Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestResolve_YellowOutsideTetrahedron(t *testing.T) {
	s := tetrahedron(t)
	yellow := RGB{255, 255, 0}

	contact, err := s.Query(yellow)
	require.NoError(t, err)
	require.Equal(t, WithinMargin, contact.Kind)

	// No sampled boundary point may be closer than the reported one.
	best := math.Inf(1)
	vs := s.Hull().Vertices()
	const n = 60
	for _, f := range s.Hull().Faces() {
		a, b, c := vs[f[0]], vs[f[1]], vs[f[2]]
		for i := 0; i <= n; i++ {
			for j := 0; i+j <= n; j++ {
				u, v := float64(i)/n, float64(j)/n
				p := r3.Add(a, r3.Add(r3.Scale(u, r3.Sub(b, a)), r3.Scale(v, r3.Sub(c, a))))
				best = math.Min(best, r3.Norm(r3.Sub(p, yellow.Vec())))
			}
		}
	}
	assert.LessOrEqual(t, contact.Distance, best+1e-9)
	assert.InDelta(t, 85*math.Sqrt(3), contact.Distance, 1e-9)

	got, err := s.Resolve(yellow)
	require.NoError(t, err)
	assert.InDelta(t, 170, float64(got.R), 1)
	assert.InDelta(t, 170, float64(got.G), 1)
	assert.InDelta(t, 85, float64(got.B), 1)
	assert.LessOrEqual(t, r3.Norm(r3.Sub(got.Vec(), yellow.Vec())), best+math.Sqrt(3))
	assert.True(t, s.Hull().Contains(got.Vec()))
}

func TestResolve_NearBlack(t *testing.T) {
	s := tetrahedron(t)
	got, err := s.Resolve(RGB{10, 10, 10})
	require.NoError(t, err)
	for i, pair := range [][2]uint8{{got.R, 10}, {got.G, 10}, {got.B, 10}} {
		assert.InDelta(t, float64(pair[1]), float64(pair[0]), 2, "channel %d", i)
	}
}

func TestResolve_Truncates(t *testing.T) {
	// The cube face r=128 is the nearest feature of every point beyond it.
	// Side lengths are powers of two so the projection is exact.
	s, err := NewSpace(rgbCube(0, 128))
	require.NoError(t, err)

	got, err := s.Resolve(RGB{200, 32, 64})
	require.NoError(t, err)
	assert.Equal(t, RGB{128, 32, 64}, got)
}

// rgbCube returns the corners of the axis-aligned cube from lo to hi.
func rgbCube(lo, hi uint8) []RGB {
	var out []RGB
	for _, r := range []uint8{lo, hi} {
		for _, g := range []uint8{lo, hi} {
			for _, b := range []uint8{lo, hi} {
				out = append(out, RGB{r, g, b})
			}
		}
	}
	return out
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, RGB{0, 254, 255}, truncate(r3.Vec{X: -1e-12, Y: 254.9999, Z: 255.0000001}))
	assert.Equal(t, RGB{12, 0, 0}, truncate(r3.Vec{X: 12.7, Y: math.NaN(), Z: -3}))
}

func TestResolve_DisjointIsInternalError(t *testing.T) {
	s := tetrahedron(t, WithMargin(10))

	_, err := s.Resolve(RGB{0, 0, 255})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGeometryInvariant)

	var ige *InternalGeometryError
	require.True(t, errors.As(err, &ige))
	assert.Equal(t, RGB{0, 0, 255}, ige.Query)
	assert.Greater(t, ige.Distance, ige.Margin)

	contact, err := s.Query(RGB{0, 0, 255})
	assert.Error(t, err)
	assert.Equal(t, Disjoint, contact.Kind)
}

func TestResolve_DefaultMarginCoversCube(t *testing.T) {
	assert.Greater(t, DefaultMargin, 255*math.Sqrt(3))

	s := tetrahedron(t)
	for _, c := range lattice(51) {
		_, err := s.Resolve(c)
		require.NoError(t, err, "resolve(%s)", c)
	}
}

func TestClosestPoints_BallRadius(t *testing.T) {
	h, err := BuildHull(cubeCorners(100))
	require.NoError(t, err)

	at := At(r3.Vec{X: 130, Y: 50, Z: 50})

	c := ClosestPoints(Identity(), h, at, Ball{Radius: 10}, DefaultMargin)
	require.Equal(t, WithinMargin, c.Kind)
	assert.InDelta(t, 20, c.Distance, 1e-9)
	assert.InDelta(t, 100, c.OnHull.X, 1e-9)
	assert.InDelta(t, 120, c.OnBall.X, 1e-9)

	c = ClosestPoints(Identity(), h, at, Ball{Radius: 40}, DefaultMargin)
	assert.Equal(t, Intersecting, c.Kind)

	c = ClosestPoints(At(r3.Vec{X: 50}), h, At(r3.Vec{X: 200, Y: 50, Z: 50}), Ball{}, DefaultMargin)
	require.Equal(t, WithinMargin, c.Kind)
	assert.InDelta(t, 150, c.OnHull.X, 1e-9, "hull placement is applied")
	assert.Equal(t, Intersecting, ClosestPoints(At(r3.Vec{X: 50}), h, at, Ball{}, 1).Kind)
}

func TestContactKind_String(t *testing.T) {
	assert.Equal(t, "intersecting", Intersecting.String())
	assert.Equal(t, "within_margin", WithinMargin.String())
	assert.Equal(t, "disjoint", Disjoint.String())
	assert.Equal(t, "unknown", ContactKind(9).String())
}

func TestSpace_Corners(t *testing.T) {
	s, err := NewSpace([]RGB{black, white, red, green, {128, 100, 50}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []RGB{black, white, red, green}, s.Corners())
}
