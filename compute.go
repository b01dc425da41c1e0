package govoro

import (
	"math"
	"sort"

	"github.com/phil-mansfield/govoro/cell"
)

// radialContainer is the capability set the compute driver needs from a
// container: the shared grid plus the radius hooks that differ between the
// Euclidean and the radical variants.
type radialContainer interface {
	base() *containerBase
	rInit(ijk, s int) (rad, mul float64)
	rScale(rs float64, ijk, q int, rad float64) float64
}

// blockOffset is one entry of the radius-ordered worklist: a block offset
// and a lower bound on the squared distance from anywhere in the source
// box to anywhere in the offset block.
type blockOffset struct {
	ei, ej, ek int
	dist       float64
}

// worklist is the sequence of block offsets every cell computation scans,
// sorted by minimum squared distance. It is built once per container
// geometry and shared; it is immutable after construction.
type worklist struct {
	blocks []blockOffset
	margin float64
}

// axisExtent returns how many blocks along one axis the search may ever
// have to reach. Non-periodic axes are bounded by the grid itself; periodic
// axes by the largest distance at which a neighbor can still cut, 2R+M with
// R at most the container half-diagonal.
func axisExtent(periodic bool, n int, boxSide, reach float64) int {
	if !periodic {
		return n - 1
	}
	e := int(math.Ceil(reach/boxSide)) + 1
	if e < n {
		e = n
	}
	return e
}

func newWorklist(cb *containerBase, margin float64) *worklist {
	dx := cb.bx - cb.ax
	dy := cb.by - cb.ay
	dz := cb.bz - cb.az
	reach := math.Sqrt(dx*dx+dy*dy+dz*dz) + margin

	kx := axisExtent(cb.xPeriodic, cb.nx, cb.boxx, reach)
	ky := axisExtent(cb.yPeriodic, cb.ny, cb.boxy, reach)
	kz := axisExtent(cb.zPeriodic, cb.nz, cb.boxz, reach)

	wl := &worklist{margin: margin}
	wl.blocks = make([]blockOffset, 0, (2*kx+1)*(2*ky+1)*(2*kz+1))
	for ek := -kz; ek <= kz; ek++ {
		for ej := -ky; ej <= ky; ej++ {
			for ei := -kx; ei <= kx; ei++ {
				wl.blocks = append(wl.blocks, blockOffset{
					ei, ej, ek, blockDistSq(cb, ei, ej, ek),
				})
			}
		}
	}
	sort.Slice(wl.blocks, func(i, j int) bool {
		return wl.blocks[i].dist < wl.blocks[j].dist
	})
	return wl
}

// blockDistSq bounds, from below, the squared distance between a point in
// the source box and a point in the block at offset (ei, ej, ek). The
// bound assumes the source can sit anywhere in its box, which is safe and
// costs at most one extra shell of scanned blocks.
func blockDistSq(cb *containerBase, ei, ej, ek int) float64 {
	x := axisGap(ei, cb.boxx)
	y := axisGap(ej, cb.boxy)
	z := axisGap(ek, cb.boxz)
	return x*x + y*y + z*z
}

func axisGap(e int, side float64) float64 {
	if e > 0 {
		return float64(e-1) * side
	}
	if e < 0 {
		return float64(-e-1) * side
	}
	return 0
}

// ensureWorklist builds the shared worklist on first use. The radical
// variant widens the reach by the largest radius; inserting a bigger
// particle later invalidates the list and it is rebuilt here.
func (con *Container) ensureWorklist() *worklist {
	if con.wl == nil {
		con.wl = newWorklist(&con.containerBase, 0)
	}
	return con.wl
}

func (con *PolyContainer) ensureWorklist() *worklist {
	if con.wl == nil || con.wl.margin < con.maxRadius {
		con.wl = newWorklist(&con.containerBase, con.maxRadius)
	}
	return con.wl
}

// CellComputer carves Voronoi cells for one container. It owns all
// per-computation scratch state, so independent computers may run
// concurrently against the same container as long as no goroutine is
// inserting particles.
type CellComputer struct {
	rc radialContainer
	cb *containerBase

	// scratch: source particle of the computation in progress
	px, py, pz float64
	ci, cj, ck int
}

func newCellComputer(rc radialContainer) *CellComputer {
	return &CellComputer{rc: rc, cb: rc.base()}
}

// NewComputer returns a fresh compute driver for concurrent use on
// disjoint regions of the container.
func (con *Container) NewComputer() *CellComputer { return newCellComputer(con) }

// NewComputer returns a fresh compute driver for concurrent use on
// disjoint regions of the container.
func (con *PolyContainer) NewComputer() *CellComputer { return newCellComputer(con) }

// initCell resets c to the container's extent as seen from the source
// particle: the walls of the box on non-periodic axes, half the axis
// length either way on periodic ones. Walls are applied afterwards; a wall
// that annihilates the cell makes initCell report false.
func (vc *CellComputer) initCell(c *cell.Cell) bool {
	cb := vc.cb
	var x1, x2, y1, y2, z1, z2 float64
	if cb.xPeriodic {
		x2 = 0.5 * (cb.bx - cb.ax)
		x1 = -x2
	} else {
		x1, x2 = cb.ax-vc.px, cb.bx-vc.px
	}
	if cb.yPeriodic {
		y2 = 0.5 * (cb.by - cb.ay)
		y1 = -y2
	} else {
		y1, y2 = cb.ay-vc.py, cb.by-vc.py
	}
	if cb.zPeriodic {
		z2 = 0.5 * (cb.bz - cb.az)
		z1 = -z2
	} else {
		z1, z2 = cb.az-vc.pz, cb.bz-vc.pz
	}
	c.SetTolerance(cb.tol)
	c.Init(x1, x2, y1, y2, z1, z2)
	return cb.walls.apply(c, vc.px, vc.py, vc.pz)
}

// Compute carves the cell of the particle in slot q of box ijk into c.
// It returns false when walls or neighbors annihilate the cell.
//
// The loop invariant: with R^2 the largest squared vertex distance of the
// current mesh, a neighbor at squared distance beyond 4R^2 cannot cut it.
// The worklist is ordered by a lower bound on that distance, so the first
// block past the cutoff ends the computation.
func (vc *CellComputer) Compute(c *cell.Cell, wl *worklist, ijk, q int) bool {
	cb := vc.cb
	pp := cb.p[ijk][cb.ps*q:]
	vc.px, vc.py, vc.pz = pp[0], pp[1], pp[2]
	vc.ci, vc.cj, vc.ck = cb.blockCoords(ijk)

	if !vc.initCell(c) {
		return false
	}
	rad, mul := vc.rc.rInit(ijk, q)
	mrs := 4 * c.MaxRadiusSquared()

	for _, b := range wl.blocks {
		if mul*b.dist >= mrs {
			return true
		}
		jjk, qx, qy, qz, ok := cb.region(vc.ci, vc.cj, vc.ck, b.ei, b.ej, b.ek)
		if !ok {
			continue
		}
		self := jjk == ijk && qx == 0 && qy == 0 && qz == 0
		cut := false
		for s := 0; s < cb.co[jjk]; s++ {
			if self && s == q {
				continue
			}
			sp := cb.p[jjk][cb.ps*s:]
			x := sp[0] + qx - vc.px
			y := sp[1] + qy - vc.py
			z := sp[2] + qz - vc.pz
			lrs := x*x + y*y + z*z
			if mul*lrs >= mrs {
				continue
			}
			rs := vc.rc.rScale(lrs, jjk, s, rad)
			if !c.Cut(x, y, z, rs, cb.id[jjk][s]) {
				return false
			}
			cut = true
		}
		if cut {
			mrs = 4 * c.MaxRadiusSquared()
		}
	}
	return true
}

// ComputeCell carves the cell of the particle the loop l currently points
// at into c. It returns false for an annihilated cell.
func (con *Container) ComputeCell(c *cell.Cell, l Loop) bool {
	ijk, q := l.Block()
	return con.vc.Compute(c, con.ensureWorklist(), ijk, q)
}

// ComputeCell carves the radical cell of the particle the loop l currently
// points at into c. It returns false for an annihilated cell.
func (con *PolyContainer) ComputeCell(c *cell.Cell, l Loop) bool {
	ijk, q := l.Block()
	return con.vc.Compute(c, con.ensureWorklist(), ijk, q)
}

// SumCellVolumes computes every cell and returns the summed volume. For a
// container without walls this reproduces the container volume up to the
// classification tolerance.
func (con *Container) SumCellVolumes() float64 {
	c := cell.New()
	vol := 0.0
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if con.ComputeCell(c, l) {
			vol += c.Volume()
		}
	}
	return vol
}

// SumCellVolumes computes every radical cell and returns the summed volume.
func (con *PolyContainer) SumCellVolumes() float64 {
	c := cell.New()
	vol := 0.0
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if con.ComputeCell(c, l) {
			vol += c.Volume()
		}
	}
	return vol
}

// ComputeAllCells computes every cell once and returns how many survived.
// It is mainly useful for timing and for validating a configuration.
func (con *Container) ComputeAllCells() int {
	c := cell.New()
	n := 0
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if con.ComputeCell(c, l) {
			n++
		}
	}
	return n
}

// ComputeAllCells computes every radical cell once and returns how many
// survived.
func (con *PolyContainer) ComputeAllCells() int {
	c := cell.New()
	n := 0
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if con.ComputeCell(c, l) {
			n++
		}
	}
	return n
}
