/*package cell implements the mutable convex polyhedron that represents a
single Voronoi cell while it is being carved out of space.

A cell starts as an axis-aligned box and is refined by a sequence of
half-space cuts. Vertices are stored in a local frame whose origin is the
generating particle, so the bisector of a neighbor at relative offset
(x, y, z) is the plane n.v = (x^2+y^2+z^2)/2 with n = (x, y, z).

The surface is kept as a planar edge-paired graph: each vertex i of order
nu[i] stores its neighboring vertex indices followed by back-references,
the slot in each neighbor's table that points back at i. That pairing is
the structural invariant everything else leans on; CheckEdges audits it.
*/
package cell

import (
	"fmt"
	"math"
)

// DefaultTolerance sets the half-width of the on-plane classification band
// as a fraction of the initial cell diagonal.
const DefaultTolerance = 1e-11

// maxVertices bounds the vertex table. A convex cell in a sane tessellation
// has tens of vertices; hitting this means the caller's geometry or
// tolerances are broken, which we treat as fatal.
const maxVertices = 1 << 20

// Vec is a three dimensional vector.
type Vec [3]float64

// Classification marks used by the scratch table during a cut.
const (
	markInside = iota
	markOnPlane
	markOutside
)

// Container wall ids used for the six faces of the initial box, in the
// order x-min, x-max, y-min, y-max, z-min, z-max.
const (
	WallXMin = -1
	WallXMax = -2
	WallYMin = -3
	WallYMax = -4
	WallZMin = -5
	WallZMax = -6
)

// Cell is a convex polyhedron under construction. The zero value is unusable;
// call Init before cutting. A Cell is not safe for concurrent use.
type Cell struct {
	pts []Vec
	nu  []int
	ed  [][]int
	ne  [][]int

	track bool

	tol    float64
	tolSet bool

	// cut scratch, reused between calls
	q    []float64
	mask []int
	ring []ringEdge

	// face-walk scratch, reused between calls
	offs  []int
	vis   []bool
	cycle []int
}

// ringEdge records one crossing edge found during the boundary walk of a
// cut: u is the retained endpoint, w the discarded one, su the slot of w in
// u's table and sw the slot of u in w's table.
type ringEdge struct {
	u, w   int
	su, sw int
}

// New returns a cell without neighbor tracking.
func New() *Cell { return &Cell{} }

// NewTracked returns a cell that remembers, for every face, the id of the
// plane that created it. Container walls use the Wall* constants; cuts store
// the id passed to Cut.
func NewTracked() *Cell { return &Cell{track: true} }

// Tracked reports whether the cell records face neighbor ids.
func (c *Cell) Tracked() bool { return c.track }

// SetTolerance overrides the absolute classification tolerance. Subsequent
// Init calls keep the value instead of rescaling it from the box diagonal.
func (c *Cell) SetTolerance(tol float64) {
	c.tol = tol
	c.tolSet = true
}

// Tolerance returns the current absolute classification tolerance.
func (c *Cell) Tolerance() float64 { return c.tol }

// initEd is the canonical edge table of the initial box: for every vertex,
// three neighbor indices in counterclockwise order as seen from outside the
// polyhedron. The back-references of this table are [2 1 0] for every
// vertex.
var initEd = [8][3]int{
	{1, 4, 2}, {3, 5, 0}, {0, 6, 3}, {2, 7, 1},
	{6, 0, 5}, {4, 1, 7}, {7, 2, 4}, {5, 3, 6},
}

// initNe assigns each directed edge of the initial box to the container
// wall whose face it borders under the face-walk rule.
var initNe = [8][3]int{
	{WallZMin, WallYMin, WallXMin},
	{WallZMin, WallXMax, WallYMin},
	{WallZMin, WallXMin, WallYMax},
	{WallZMin, WallYMax, WallXMax},
	{WallZMax, WallXMin, WallYMin},
	{WallZMax, WallYMin, WallXMax},
	{WallZMax, WallYMax, WallXMin},
	{WallZMax, WallXMax, WallYMax},
}

// Init resets the cell to the axis-aligned box [xmin,xmax] x [ymin,ymax] x
// [zmin,zmax]. Unless SetTolerance was called, the classification tolerance
// is rescaled to DefaultTolerance times the box diagonal.
func (c *Cell) Init(xmin, xmax, ymin, ymax, zmin, zmax float64) {
	c.pts = append(c.pts[:0],
		Vec{xmin, ymin, zmin}, Vec{xmax, ymin, zmin},
		Vec{xmin, ymax, zmin}, Vec{xmax, ymax, zmin},
		Vec{xmin, ymin, zmax}, Vec{xmax, ymin, zmax},
		Vec{xmin, ymax, zmax}, Vec{xmax, ymax, zmax},
	)
	c.nu = append(c.nu[:0], 3, 3, 3, 3, 3, 3, 3, 3)

	c.ed = c.ed[:0]
	for i := 0; i < 8; i++ {
		e := initEd[i]
		c.ed = append(c.ed, []int{e[0], e[1], e[2], 2, 1, 0, i})
	}
	if c.track {
		c.ne = c.ne[:0]
		for i := 0; i < 8; i++ {
			n := initNe[i]
			c.ne = append(c.ne, []int{n[0], n[1], n[2]})
		}
	}

	if !c.tolSet {
		dx, dy, dz := xmax-xmin, ymax-ymin, zmax-zmin
		c.tol = DefaultTolerance * math.Sqrt(dx*dx+dy*dy+dz*dz)
	}
}

// CutPlane clips the cell by the perpendicular bisector of the origin and
// the point (x, y, z), tagging the face with id when tracking is enabled.
func (c *Cell) CutPlane(x, y, z float64, id int) bool {
	return c.Cut(x, y, z, x*x+y*y+z*z, id)
}

// Cut clips the cell by the half-space n.v <= rsq/2 with n = (x, y, z).
// It returns false when nothing of the cell remains; the mesh is left
// untouched in that case so the caller can still inspect it. The only
// panic is a vertex table growing past maxVertices; a topology broken by
// numerical failure is caught by CheckEdges, not here.
func (c *Cell) Cut(x, y, z, rsq float64, id int) bool {
	r := 0.5 * rsq
	n := len(c.pts)

	if cap(c.q) < n {
		c.q = make([]float64, n)
		c.mask = make([]int, n)
	}
	c.q = c.q[:n]
	c.mask = c.mask[:n]

	in, out := 0, 0
	for i := 0; i < n; i++ {
		p := &c.pts[i]
		qv := x*p[0] + y*p[1] + z*p[2] - r
		c.q[i] = qv
		switch {
		case qv < -c.tol:
			c.mask[i] = markInside
			in++
		case qv > c.tol:
			c.mask[i] = markOutside
			out++
		default:
			// Ambiguous vertices count as retained: the conservative
			// choice is that the plane does not cut.
			c.mask[i] = markOnPlane
		}
	}
	if out == 0 {
		return true
	}
	if in == 0 {
		return false
	}

	u0, s0 := c.seedEdge()
	if u0 < 0 {
		return true
	}
	if !c.walkBoundary(u0, s0) {
		// The walk failed to close, which can only happen if tolerance
		// snapping produced an inconsistent classification. Nothing has
		// been mutated yet, so leave the cell alone.
		return true
	}
	c.stitch(id)
	c.compact()
	return true
}

// seedEdge finds a directed edge from a retained vertex to an outside one.
func (c *Cell) seedEdge() (u, s int) {
	for i := range c.pts {
		if c.mask[i] == markOutside {
			continue
		}
		for j := 0; j < c.nu[i]; j++ {
			if c.mask[c.ed[i][j]] == markOutside {
				return i, j
			}
		}
	}
	return -1, -1
}

// walkBoundary traces the cycle of crossing edges around the outside
// region, starting from the seed edge (u0, s0). Entries are collected so
// that ring[t+1] is the ring predecessor of ring[t] in face order.
func (c *Cell) walkBoundary(u0, s0 int) bool {
	c.ring = c.ring[:0]
	limit := 0
	for _, d := range c.nu {
		limit += d
	}

	u, su := u0, s0
	for {
		w := c.ed[u][su]
		sw := c.ed[u][c.nu[u]+su]
		c.ring = append(c.ring, ringEdge{u, w, su, sw})
		if len(c.ring) > limit {
			return false
		}

		// Face-walk from the directed edge u->w until the orbit leaves
		// the outside region again.
		i, j := w, (sw+1)%c.nu[w]
		steps := 0
		for c.mask[c.ed[i][j]] == markOutside {
			t := c.ed[i][j]
			b := c.ed[i][c.nu[i]+j]
			i, j = t, (b+1)%c.nu[t]
			if steps++; steps > limit {
				return false
			}
		}
		u = c.ed[i][j]
		su = c.ed[i][c.nu[i]+j]
		if u == u0 && su == s0 {
			return true
		}
	}
}

// stitch creates one new vertex per crossing edge, links the new vertices
// into the ring of the cut face, and splices each into the retained
// endpoint's table in place of the discarded edge.
func (c *Cell) stitch(id int) {
	m := len(c.ring)
	base := len(c.pts)
	if base+m > maxVertices {
		panic(fmt.Sprintf("cell: vertex table exceeded %d entries", maxVertices))
	}

	for t := range c.ring {
		e := &c.ring[t]
		qu, qw := c.q[e.u], c.q[e.w]
		f := qu / (qu - qw)
		pu, pw := c.pts[e.u], c.pts[e.w]
		c.pts = append(c.pts, Vec{
			pu[0] + f*(pw[0]-pu[0]),
			pu[1] + f*(pw[1]-pu[1]),
			pu[2] + f*(pw[2]-pu[2]),
		})

		prev := base + (t+1)%m
		next := base + (t-1+m)%m
		c.nu = append(c.nu, 3)
		c.ed = append(c.ed, []int{prev, next, e.u, 1, 0, e.su, base + t})
		if c.track {
			c.ne = append(c.ne, []int{c.ne[e.u][e.su], id, c.ne[e.w][e.sw]})
		}

		c.ed[e.u][e.su] = base + t
		c.ed[e.u][c.nu[e.u]+e.su] = 2
		c.mask = append(c.mask, markInside)
	}
}

// compact removes every vertex marked outside, filling holes with vertices
// taken from the end of the table and repairing the back-references of
// everything that moved.
func (c *Cell) compact() {
	last := len(c.pts) - 1
	for i := 0; i <= last; {
		if c.mask[i] != markOutside {
			i++
			continue
		}
		for last > i && c.mask[last] == markOutside {
			last--
		}
		if last == i {
			last--
			break
		}
		c.moveVertex(last, i)
		last--
		i++
	}
	c.pts = c.pts[:last+1]
	c.nu = c.nu[:last+1]
	c.ed = c.ed[:last+1]
	if c.track {
		c.ne = c.ne[:last+1]
	}
	c.mask = c.mask[:last+1]
}

func (c *Cell) moveVertex(src, dst int) {
	c.pts[dst] = c.pts[src]
	c.nu[dst] = c.nu[src]
	c.ed[dst] = c.ed[src]
	c.mask[dst] = c.mask[src]
	if c.track {
		c.ne[dst] = c.ne[src]
	}
	d := c.nu[dst]
	c.ed[dst][2*d] = dst
	for k := 0; k < d; k++ {
		nb := c.ed[dst][k]
		b := c.ed[dst][d+k]
		c.ed[nb][b] = dst
	}
}

// CheckEdges audits the edge pairing and the Euler characteristic. It is
// meant for debug builds and tests; the cut path never calls it.
func (c *Cell) CheckEdges() error {
	n := len(c.pts)
	edges := 0
	for i := 0; i < n; i++ {
		d := c.nu[i]
		if len(c.ed[i]) != 2*d+1 {
			return fmt.Errorf("cell: vertex %d has table length %d, want %d",
				i, len(c.ed[i]), 2*d+1)
		}
		if c.ed[i][2*d] != i {
			return fmt.Errorf("cell: vertex %d label is %d", i, c.ed[i][2*d])
		}
		if c.track && len(c.ne[i]) != d {
			return fmt.Errorf("cell: vertex %d neighbor table length %d, want %d",
				i, len(c.ne[i]), d)
		}
		edges += d
		for k := 0; k < d; k++ {
			j, b := c.ed[i][k], c.ed[i][d+k]
			if j < 0 || j >= n {
				return fmt.Errorf("cell: edge (%d,%d) points at vertex %d of %d",
					i, k, j, n)
			}
			if b < 0 || b >= c.nu[j] {
				return fmt.Errorf("cell: edge (%d,%d) back-reference %d out of range",
					i, k, b)
			}
			if c.ed[j][b] != i {
				return fmt.Errorf("cell: edge (%d,%d) -> %d is not paired: reverse slot holds %d",
					i, k, j, c.ed[j][b])
			}
		}
	}
	if edges%2 != 0 {
		return fmt.Errorf("cell: odd directed edge count %d", edges)
	}
	e := edges / 2
	f := c.NumberOfFaces()
	if n-e+f != 2 {
		return fmt.Errorf("cell: Euler characteristic V-E+F = %d-%d+%d != 2", n, e, f)
	}
	return nil
}
