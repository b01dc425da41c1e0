package cell

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitCell() *Cell {
	c := New()
	c.Init(-0.5, 0.5, -0.5, 0.5, -0.5, 0.5)
	return c
}

func TestInitBox(t *testing.T) {
	c := unitCell()
	require.NoError(t, c.CheckEdges())

	assert.Equal(t, 8, c.NumberOfVertices())
	assert.Equal(t, 12, c.NumberOfEdges())
	assert.Equal(t, 6, c.NumberOfFaces())
	assert.InDelta(t, 1.0, c.Volume(), 1e-14)
	assert.InDelta(t, 6.0, c.SurfaceArea(), 1e-14)
	assert.InDelta(t, 12.0, c.TotalEdgeDistance(), 1e-14)
	assert.InDelta(t, 0.75, c.MaxRadiusSquared(), 1e-14)

	cx, cy, cz := c.Centroid()
	assert.InDelta(t, 0.0, cx, 1e-14)
	assert.InDelta(t, 0.0, cy, 1e-14)
	assert.InDelta(t, 0.0, cz, 1e-14)
}

func TestInitFaceTables(t *testing.T) {
	c := unitCell()

	wantFaces := [][]int{
		{0, 1, 3, 2}, {0, 4, 5, 1}, {0, 2, 6, 4},
		{1, 5, 7, 3}, {2, 3, 7, 6}, {4, 6, 7, 5},
	}
	if diff := cmp.Diff(wantFaces, c.FaceVertices()); diff != "" {
		t.Errorf("FaceVertices() mismatch (-want +got):\n%s", diff)
	}

	wantOrders := []int{4, 4, 4, 4, 4, 4}
	if diff := cmp.Diff(wantOrders, c.FaceOrders()); diff != "" {
		t.Errorf("FaceOrders() mismatch (-want +got):\n%s", diff)
	}
}

func TestInitNeighbors(t *testing.T) {
	c := NewTracked()
	c.Init(-0.5, 0.5, -0.5, 0.5, -0.5, 0.5)

	want := []int{WallZMin, WallYMin, WallXMin, WallXMax, WallYMax, WallZMax}
	if diff := cmp.Diff(want, c.Neighbors()); diff != "" {
		t.Errorf("Neighbors() mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, unitCell().Neighbors())
}

func TestCutHalfSlab(t *testing.T) {
	// The bisector of the origin and (0.5, 0, 0) is the plane x = 0.25.
	c := unitCell()
	require.True(t, c.CutPlane(0.5, 0, 0, 1))
	require.NoError(t, c.CheckEdges())

	assert.Equal(t, 8, c.NumberOfVertices())
	assert.Equal(t, 6, c.NumberOfFaces())
	assert.InDelta(t, 0.75, c.Volume(), 1e-14)

	cx, cy, cz := c.Centroid()
	assert.InDelta(t, -0.125, cx, 1e-14)
	assert.InDelta(t, 0.0, cy, 1e-14)
	assert.InDelta(t, 0.0, cz, 1e-14)
}

func TestCutCorner(t *testing.T) {
	// The plane x+y+z = 1.2 slices off the (+,+,+) corner, a tetrahedron
	// with legs of 0.3.
	c := unitCell()
	require.True(t, c.Cut(1, 1, 1, 2.4, 1))
	require.NoError(t, c.CheckEdges())

	assert.Equal(t, 10, c.NumberOfVertices())
	assert.Equal(t, 15, c.NumberOfEdges())
	assert.Equal(t, 7, c.NumberOfFaces())
	assert.InDelta(t, 1-0.3*0.3*0.3/6, c.Volume(), 1e-14)
}

func TestCutCoincidentWithFace(t *testing.T) {
	// A plane running exactly along an existing face has no strictly
	// outside vertex and must leave the mesh alone.
	c := unitCell()
	require.True(t, c.Cut(1, 0, 0, 1, 1))
	require.NoError(t, c.CheckEdges())
	assert.Equal(t, 8, c.NumberOfVertices())
	assert.InDelta(t, 1.0, c.Volume(), 1e-14)
}

func TestCutAnnihilates(t *testing.T) {
	c := unitCell()
	// Half-space x <= -1.5 misses the box entirely.
	require.False(t, c.Cut(1, 0, 0, -3, 1))
	// A failed cut must leave the mesh untouched.
	require.NoError(t, c.CheckEdges())
	assert.InDelta(t, 1.0, c.Volume(), 1e-14)
}

func TestCutKeepsDistantPlane(t *testing.T) {
	c := unitCell()
	require.True(t, c.CutPlane(-2, 0, 0, 1)) // plane x = -1, outside the box
	assert.Equal(t, 8, c.NumberOfVertices())
	assert.InDelta(t, 1.0, c.Volume(), 1e-14)
}

func TestCutIdempotent(t *testing.T) {
	c := unitCell()
	require.True(t, c.CutPlane(0.5, 0, 0, 1))
	v1 := c.Volume()
	n1 := c.NumberOfVertices()

	require.True(t, c.CutPlane(0.5, 0, 0, 1))
	require.NoError(t, c.CheckEdges())
	assert.InDelta(t, v1, c.Volume(), 1e-12)
	assert.Equal(t, n1, c.NumberOfVertices())
}

func randomPlanes(n int, gen *rand.Rand) [][3]float64 {
	ps := make([][3]float64, n)
	for i := range ps {
		// Directions roughly uniform on the sphere, distances in a band
		// that guarantees every plane leaves part of the cell behind.
		for {
			x := 2*gen.Float64() - 1
			y := 2*gen.Float64() - 1
			z := 2*gen.Float64() - 1
			s := math.Sqrt(x*x + y*y + z*z)
			if s < 1e-3 || s > 1 {
				continue
			}
			d := (0.6 + 0.4*gen.Float64()) / s
			ps[i] = [3]float64{x * d, y * d, z * d}
			break
		}
	}
	return ps
}

func TestCutCommutes(t *testing.T) {
	gen := rand.New(rand.NewSource(42))
	planes := randomPlanes(12, gen)

	a, b := unitCell(), unitCell()
	for i := range planes {
		p := planes[i]
		require.True(t, a.CutPlane(p[0], p[1], p[2], i))
	}
	for i := len(planes) - 1; i >= 0; i-- {
		p := planes[i]
		require.True(t, b.CutPlane(p[0], p[1], p[2], i))
	}

	require.NoError(t, a.CheckEdges())
	require.NoError(t, b.CheckEdges())
	assert.InDelta(t, a.Volume(), b.Volume(), 1e-12)
	assert.InDelta(t, a.SurfaceArea(), b.SurfaceArea(), 1e-12)
}

func TestRandomCutsStayClosed(t *testing.T) {
	gen := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		c := unitCell()
		for _, p := range randomPlanes(30, gen) {
			require.True(t, c.CutPlane(p[0], p[1], p[2], 0))
			if err := c.CheckEdges(); err != nil {
				t.Fatalf("trial %d: %v", trial, err)
			}
		}
		assert.Greater(t, c.Volume(), 0.0)
		assert.Less(t, c.Volume(), 1.0)
	}
}

func TestTrackedCutNeighbors(t *testing.T) {
	c := NewTracked()
	c.Init(-0.5, 0.5, -0.5, 0.5, -0.5, 0.5)
	// The plane x = 0.25 consumes the x-max face of the box.
	require.True(t, c.CutPlane(0.5, 0, 0, 42))
	require.NoError(t, c.CheckEdges())

	ns := c.Neighbors()
	assert.Len(t, ns, 6)
	assert.Contains(t, ns, 42)
	assert.NotContains(t, ns, WallXMax)
	for _, id := range []int{WallXMin, WallYMin, WallYMax, WallZMin, WallZMax} {
		assert.Contains(t, ns, id)
	}
}

func TestTrackedCornerCut(t *testing.T) {
	c := NewTracked()
	c.Init(-0.5, 0.5, -0.5, 0.5, -0.5, 0.5)
	require.True(t, c.Cut(1, 1, 1, 2.4, 7))
	require.NoError(t, c.CheckEdges())

	ns := c.Neighbors()
	assert.Len(t, ns, 7)
	assert.Contains(t, ns, 7)
	for _, id := range []int{WallXMin, WallXMax, WallYMin, WallYMax,
		WallZMin, WallZMax} {
		assert.Contains(t, ns, id)
	}
}

func TestMaxRadiusSquaredShrinks(t *testing.T) {
	// The origin sits on the x-min face, so the farthest corners are the
	// x-max ones and a cut in x removes them.
	c := New()
	c.Init(0, 1, -0.5, 0.5, -0.5, 0.5)
	r0 := c.MaxRadiusSquared()
	require.True(t, c.Cut(1, 0, 0, 0.2, 0)) // keep x <= 0.1
	assert.Less(t, c.MaxRadiusSquared(), r0)
	assert.InDelta(t, 0.1*0.1+0.25+0.25, c.MaxRadiusSquared(), 1e-14)
}

func TestSetTolerance(t *testing.T) {
	c := New()
	c.SetTolerance(1e-6)
	c.Init(-0.5, 0.5, -0.5, 0.5, -0.5, 0.5)
	assert.Equal(t, 1e-6, c.Tolerance())

	// A vertex within the band counts as retained, so a plane shaved this
	// close to a face must not cut.
	require.True(t, c.Cut(1, 0, 0, 1-1e-7, 0))
	assert.Equal(t, 8, c.NumberOfVertices())
}

func BenchmarkCutCorner(b *testing.B) {
	c := New()
	for i := 0; i < b.N; i++ {
		c.Init(-0.5, 0.5, -0.5, 0.5, -0.5, 0.5)
		c.Cut(1, 1, 1, 2.4, 0)
	}
}

func BenchmarkRandomCell(b *testing.B) {
	gen := rand.New(rand.NewSource(7))
	planes := randomPlanes(40, gen)
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Init(-0.5, 0.5, -0.5, 0.5, -0.5, 0.5)
		for _, p := range planes {
			c.CutPlane(p[0], p[1], p[2], 0)
		}
	}
}
