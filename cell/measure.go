package cell

import (
	"math"
)

// faces walks every face of the cell exactly once, handing fn the starting
// directed edge of the orbit and the vertex cycle. The cycle slice is
// reused; callers must copy it if they keep it.
func (c *Cell) faces(fn func(i0, s0 int, cycle []int)) {
	n := len(c.pts)
	if cap(c.offs) < n+1 {
		c.offs = make([]int, n+1)
	}
	c.offs = c.offs[:n+1]
	total := 0
	for i := 0; i < n; i++ {
		c.offs[i] = total
		total += c.nu[i]
	}
	c.offs[n] = total

	if cap(c.vis) < total {
		c.vis = make([]bool, total)
	}
	c.vis = c.vis[:total]
	for i := range c.vis {
		c.vis[i] = false
	}

	for i := 0; i < n; i++ {
		for s := 0; s < c.nu[i]; s++ {
			if c.vis[c.offs[i]+s] {
				continue
			}
			c.cycle = c.cycle[:0]
			a, b := i, s
			for !c.vis[c.offs[a]+b] {
				c.vis[c.offs[a]+b] = true
				c.cycle = append(c.cycle, a)
				k := c.ed[a][b]
				bb := c.ed[a][c.nu[a]+b]
				a, b = k, (bb+1)%c.nu[k]
			}
			fn(i, s, c.cycle)
		}
	}
}

func triple(u, a, b Vec) float64 {
	return u[0]*(a[1]*b[2]-a[2]*b[1]) +
		u[1]*(a[2]*b[0]-a[0]*b[2]) +
		u[2]*(a[0]*b[1]-a[1]*b[0])
}

// Volume returns the cell volume, computed by decomposing the cell into
// tetrahedra spanned by the local origin and the face triangulations.
func (c *Cell) Volume() float64 {
	vol := 0.0
	c.faces(func(_, _ int, f []int) {
		v0 := c.pts[f[0]]
		for i := 1; i+1 < len(f); i++ {
			vol += triple(v0, c.pts[f[i]], c.pts[f[i+1]])
		}
	})
	return -vol / 6
}

// Centroid returns the centroid of the cell in the local frame.
func (c *Cell) Centroid() (x, y, z float64) {
	var cx, cy, cz, vol float64
	c.faces(func(_, _ int, f []int) {
		v0 := c.pts[f[0]]
		for i := 1; i+1 < len(f); i++ {
			a, b := c.pts[f[i]], c.pts[f[i+1]]
			w := triple(v0, a, b)
			vol += w
			cx += w * (v0[0] + a[0] + b[0])
			cy += w * (v0[1] + a[1] + b[1])
			cz += w * (v0[2] + a[2] + b[2])
		}
	})
	if vol == 0 {
		return 0, 0, 0
	}
	// Each tetrahedron's centroid is (0+v0+a+b)/4.
	return cx / (4 * vol), cy / (4 * vol), cz / (4 * vol)
}

// faceCross accumulates the cross-product sum of a face fan; its magnitude
// is twice the face area and its direction is the inward face normal.
func (c *Cell) faceCross(f []int) Vec {
	v0 := c.pts[f[0]]
	var s Vec
	for i := 1; i+1 < len(f); i++ {
		a, b := c.pts[f[i]], c.pts[f[i+1]]
		ax, ay, az := a[0]-v0[0], a[1]-v0[1], a[2]-v0[2]
		bx, by, bz := b[0]-v0[0], b[1]-v0[1], b[2]-v0[2]
		s[0] += ay*bz - az*by
		s[1] += az*bx - ax*bz
		s[2] += ax*by - ay*bx
	}
	return s
}

// SurfaceArea returns the total area of the cell surface.
func (c *Cell) SurfaceArea() float64 {
	area := 0.0
	c.faces(func(_, _ int, f []int) {
		s := c.faceCross(f)
		area += 0.5 * math.Sqrt(s[0]*s[0]+s[1]*s[1]+s[2]*s[2])
	})
	return area
}

// FaceAreas returns the area of each face.
func (c *Cell) FaceAreas() []float64 {
	var areas []float64
	c.faces(func(_, _ int, f []int) {
		s := c.faceCross(f)
		areas = append(areas, 0.5*math.Sqrt(s[0]*s[0]+s[1]*s[1]+s[2]*s[2]))
	})
	return areas
}

// NormalVectors returns the outward unit normal of each face. Faces with
// exactly zero area report the zero vector.
func (c *Cell) NormalVectors() []Vec {
	var ns []Vec
	c.faces(func(_, _ int, f []int) {
		s := c.faceCross(f)
		m := math.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
		if m == 0 {
			ns = append(ns, Vec{})
			return
		}
		// The face-walk orbits run clockwise seen from outside, so the fan
		// cross sum points inward.
		ns = append(ns, Vec{-s[0] / m, -s[1] / m, -s[2] / m})
	})
	return ns
}

// FaceOrders returns the number of edges of each face.
func (c *Cell) FaceOrders() []int {
	var orders []int
	c.faces(func(_, _ int, f []int) {
		orders = append(orders, len(f))
	})
	return orders
}

// FaceFreqTable returns a histogram of face orders: entry k counts the
// faces with k edges.
func (c *Cell) FaceFreqTable() []int {
	var freq []int
	c.faces(func(_, _ int, f []int) {
		for len(freq) <= len(f) {
			freq = append(freq, 0)
		}
		freq[len(f)]++
	})
	return freq
}

// FacePerimeters returns the perimeter of each face.
func (c *Cell) FacePerimeters() []float64 {
	var ps []float64
	c.faces(func(_, _ int, f []int) {
		p := 0.0
		for i := range f {
			a, b := c.pts[f[i]], c.pts[f[(i+1)%len(f)]]
			dx, dy, dz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
			p += math.Sqrt(dx*dx + dy*dy + dz*dz)
		}
		ps = append(ps, p)
	})
	return ps
}

// FaceVertices returns, for each face, the cycle of vertex indices that
// bounds it.
func (c *Cell) FaceVertices() [][]int {
	var fv [][]int
	c.faces(func(_, _ int, f []int) {
		fv = append(fv, append([]int(nil), f...))
	})
	return fv
}

// Neighbors returns the id of the plane that created each face, in the
// same face order as the other face reports. It returns nil for cells
// without neighbor tracking.
func (c *Cell) Neighbors() []int {
	if !c.track {
		return nil
	}
	var ns []int
	c.faces(func(i0, s0 int, _ []int) {
		ns = append(ns, c.ne[i0][s0])
	})
	return ns
}

// NumberOfFaces returns the face count of the cell.
func (c *Cell) NumberOfFaces() int {
	n := 0
	c.faces(func(_, _ int, _ []int) { n++ })
	return n
}

// NumberOfEdges returns the edge count of the cell.
func (c *Cell) NumberOfEdges() int {
	n := 0
	for _, d := range c.nu {
		n += d
	}
	return n / 2
}

// NumberOfVertices returns the vertex count of the cell.
func (c *Cell) NumberOfVertices() int { return len(c.pts) }

// VertexOrders returns the order of each vertex.
func (c *Cell) VertexOrders() []int {
	return append([]int(nil), c.nu...)
}

// Vertices returns the vertex positions in the local frame.
func (c *Cell) Vertices() []Vec {
	return append([]Vec(nil), c.pts...)
}

// VerticesAt returns the vertex positions translated to the global frame of
// a particle at (x, y, z).
func (c *Cell) VerticesAt(x, y, z float64) []Vec {
	vs := make([]Vec, len(c.pts))
	for i, p := range c.pts {
		vs[i] = Vec{p[0] + x, p[1] + y, p[2] + z}
	}
	return vs
}

// TotalEdgeDistance returns the summed length of the cell's edges.
func (c *Cell) TotalEdgeDistance() float64 {
	d := 0.0
	for i := range c.pts {
		for k := 0; k < c.nu[i]; k++ {
			j := c.ed[i][k]
			if j < i {
				continue
			}
			a, b := c.pts[i], c.pts[j]
			dx, dy, dz := b[0]-a[0], b[1]-a[1], b[2]-a[2]
			d += math.Sqrt(dx*dx + dy*dy + dz*dz)
		}
	}
	return d
}

// MaxRadiusSquared returns the largest squared vertex distance from the
// local origin. The compute driver uses it to bound the neighbor search.
func (c *Cell) MaxRadiusSquared() float64 {
	max := 0.0
	for _, p := range c.pts {
		r := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if r > max {
			max = r
		}
	}
	return max
}
