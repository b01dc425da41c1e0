/*package govoro computes three dimensional Voronoi tessellations of point
sets in a rectangular box, with optional periodicity along each axis,
optional per-particle radii (the radical or power diagram variant), and
optional clipping against user-supplied walls.

Particles are stored in a uniform grid of computational boxes. The cell of
one particle is carved out of the container by the compute driver, which
scans neighboring boxes in order of increasing distance and clips the cell
by each candidate's bisecting plane until no remaining candidate can matter.
The polyhedron itself lives in the cell subpackage.
*/
package govoro

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/govoro/cell"
)

var (
	// ErrOutOfDomain reports an insertion outside a non-periodic container.
	ErrOutOfDomain = errors.New("govoro: position outside the container")
	// ErrParse reports a malformed particle record during import.
	ErrParse = errors.New("govoro: malformed particle record")
)

// DefaultMaxParticleMem bounds the per-box particle capacity. Hitting it
// means the grid was sized wrong for the input, which is fatal.
const DefaultMaxParticleMem = 1 << 16

// containerBase holds the geometry and the particle grid shared by the
// plain and the radical container variants.
type containerBase struct {
	ax, bx, ay, by, az, bz float64
	boxx, boxy, boxz       float64
	xsp, ysp, zsp          float64
	nx, ny, nz, nxyz       int

	xPeriodic, yPeriodic, zPeriodic bool

	// ps is the stride of the packed position array: 3 for positions, 4
	// for positions followed by a radius.
	ps int

	co  []int
	mem []int
	id  [][]int
	p   [][]float64

	initMem        int
	maxParticleMem int
	tol            float64

	walls wallList
	wl    *worklist
}

// Container indexes particles by position and computes Voronoi cells under
// the Euclidean metric.
type Container struct {
	containerBase
	vc *CellComputer
}

// PolyContainer indexes particles with radii and computes radical
// (power diagram) cells.
type PolyContainer struct {
	containerBase
	maxRadius float64
	vc        *CellComputer
}

func (cb *containerBase) initBase(
	ax, bx, ay, by, az, bz float64,
	nx, ny, nz int, xp, yp, zp bool, initMem, ps int,
) error {
	if bx <= ax || by <= ay || bz <= az {
		return fmt.Errorf("govoro: degenerate bounds (%g,%g) (%g,%g) (%g,%g)",
			ax, bx, ay, by, az, bz)
	}
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return fmt.Errorf("govoro: grid %dx%dx%d is not positive", nx, ny, nz)
	}
	if initMem <= 0 {
		initMem = 8
	}

	cb.ax, cb.bx, cb.ay, cb.by, cb.az, cb.bz = ax, bx, ay, by, az, bz
	cb.nx, cb.ny, cb.nz = nx, ny, nz
	cb.nxyz = nx * ny * nz
	cb.boxx = (bx - ax) / float64(nx)
	cb.boxy = (by - ay) / float64(ny)
	cb.boxz = (bz - az) / float64(nz)
	cb.xsp, cb.ysp, cb.zsp = 1/cb.boxx, 1/cb.boxy, 1/cb.boxz
	cb.xPeriodic, cb.yPeriodic, cb.zPeriodic = xp, yp, zp
	cb.ps = ps
	cb.initMem = initMem
	cb.maxParticleMem = DefaultMaxParticleMem

	dx, dy, dz := bx-ax, by-ay, bz-az
	cb.tol = cell.DefaultTolerance * math.Sqrt(dx*dx+dy*dy+dz*dz)

	cb.co = make([]int, cb.nxyz)
	cb.mem = make([]int, cb.nxyz)
	cb.id = make([][]int, cb.nxyz)
	cb.p = make([][]float64, cb.nxyz)
	for i := range cb.mem {
		cb.mem[i] = initMem
		cb.id[i] = make([]int, initMem)
		cb.p[i] = make([]float64, ps*initMem)
	}
	return nil
}

// NewContainer creates an empty container over [ax,bx]x[ay,by]x[az,bz],
// partitioned into nx*ny*nz computational boxes, periodic along the axes
// whose flag is set, with an initial per-box capacity of initMem particles.
func NewContainer(
	ax, bx, ay, by, az, bz float64,
	nx, ny, nz int, xPeriodic, yPeriodic, zPeriodic bool, initMem int,
) (*Container, error) {
	con := &Container{}
	err := con.initBase(ax, bx, ay, by, az, bz,
		nx, ny, nz, xPeriodic, yPeriodic, zPeriodic, initMem, 3)
	if err != nil {
		return nil, err
	}
	con.vc = newCellComputer(con)
	return con, nil
}

// NewPolyContainer creates an empty radical-variant container. Layout and
// semantics match NewContainer, except that every particle also carries a
// radius.
func NewPolyContainer(
	ax, bx, ay, by, az, bz float64,
	nx, ny, nz int, xPeriodic, yPeriodic, zPeriodic bool, initMem int,
) (*PolyContainer, error) {
	con := &PolyContainer{}
	err := con.initBase(ax, bx, ay, by, az, bz,
		nx, ny, nz, xPeriodic, yPeriodic, zPeriodic, initMem, 4)
	if err != nil {
		return nil, err
	}
	con.vc = newCellComputer(con)
	return con, nil
}

// SetMaxParticleMem changes the per-box capacity ceiling.
func (cb *containerBase) SetMaxParticleMem(max int) { cb.maxParticleMem = max }

// SetTolerance overrides the absolute plane classification tolerance handed
// to every cell this container computes.
func (cb *containerBase) SetTolerance(tol float64) { cb.tol = tol }

// AddWall appends a wall to the container. Walls are applied to every cell
// at initialization time, in insertion order.
func (cb *containerBase) AddWall(w Wall) {
	cb.walls.add(w)
}

// Walls returns the number of walls added to the container.
func (cb *containerBase) Walls() int { return len(cb.walls.walls) }

// PointInside reports whether (x, y, z) lies in the container and inside
// every wall. Periodic axes are remapped before the test.
func (cb *containerBase) PointInside(x, y, z float64) bool {
	if cb.xPeriodic {
		x = remap(x, cb.ax, cb.bx)
	} else if x < cb.ax || x > cb.bx {
		return false
	}
	if cb.yPeriodic {
		y = remap(y, cb.ay, cb.by)
	} else if y < cb.ay || y > cb.by {
		return false
	}
	if cb.zPeriodic {
		z = remap(z, cb.az, cb.bz)
	} else if z < cb.az || z > cb.bz {
		return false
	}
	return cb.walls.pointInside(x, y, z)
}

// TotalParticles returns the number of particles stored in the container.
func (cb *containerBase) TotalParticles() int {
	n := 0
	for _, c := range cb.co {
		n += c
	}
	return n
}

// Clear removes every particle. Capacities are retained.
func (cb *containerBase) Clear() {
	for i := range cb.co {
		cb.co[i] = 0
	}
}

// Bounds returns the container bounds.
func (cb *containerBase) Bounds() (ax, bx, ay, by, az, bz float64) {
	return cb.ax, cb.bx, cb.ay, cb.by, cb.az, cb.bz
}

// Put inserts a particle. Positions on a periodic axis are remapped into
// the container; positions outside a non-periodic axis return
// ErrOutOfDomain.
func (con *Container) Put(id int, x, y, z float64) error {
	ijk, x, y, z, err := con.putLocate(x, y, z)
	if err != nil {
		return err
	}
	s := con.claimSlot(ijk)
	con.id[ijk][s] = id
	pp := con.p[ijk][3*s:]
	pp[0], pp[1], pp[2] = x, y, z
	return nil
}

// PutOrdered inserts a particle and records its storage slot in po, so a
// LoopOrder traversal can replay insertion order.
func (con *Container) PutOrdered(po *ParticleOrder, id int, x, y, z float64) error {
	ijk, x, y, z, err := con.putLocate(x, y, z)
	if err != nil {
		return err
	}
	s := con.claimSlot(ijk)
	con.id[ijk][s] = id
	pp := con.p[ijk][3*s:]
	pp[0], pp[1], pp[2] = x, y, z
	po.add(ijk, s)
	return nil
}

// Put inserts a particle with radius r, remapping or rejecting the position
// exactly like Container.Put.
func (con *PolyContainer) Put(id int, x, y, z, r float64) error {
	ijk, x, y, z, err := con.putLocate(x, y, z)
	if err != nil {
		return err
	}
	s := con.claimSlot(ijk)
	con.id[ijk][s] = id
	pp := con.p[ijk][4*s:]
	pp[0], pp[1], pp[2], pp[3] = x, y, z, r
	if r > con.maxRadius {
		con.maxRadius = r
		con.wl = nil // the search bound depends on the largest radius
	}
	return nil
}

// PutOrdered inserts a particle with a radius and records its slot in po.
func (con *PolyContainer) PutOrdered(po *ParticleOrder, id int, x, y, z, r float64) error {
	ijk, x, y, z, err := con.putLocate(x, y, z)
	if err != nil {
		return err
	}
	s := con.claimSlot(ijk)
	con.id[ijk][s] = id
	pp := con.p[ijk][4*s:]
	pp[0], pp[1], pp[2], pp[3] = x, y, z, r
	po.add(ijk, s)
	if r > con.maxRadius {
		con.maxRadius = r
		con.wl = nil
	}
	return nil
}

// MaxRadius returns the largest particle radius seen so far.
func (con *PolyContainer) MaxRadius() float64 { return con.maxRadius }

func remap(x, a, b float64) float64 {
	d := b - a
	x -= d * math.Floor((x-a)/d)
	if x >= b { // guard against floating round-up at the seam
		x = a
	}
	return x
}

// putLocate remaps (x, y, z) onto periodic axes, checks non-periodic
// bounds, and returns the linear index of the box the position lands in.
// The boundary convention is inclusive at the lower edge and exclusive at
// the upper edge, except that the exact upper bound is accepted into the
// last box.
func (cb *containerBase) putLocate(x, y, z float64) (ijk int, rx, ry, rz float64, err error) {
	if cb.xPeriodic {
		x = remap(x, cb.ax, cb.bx)
	} else if x < cb.ax || x > cb.bx {
		return 0, 0, 0, 0, fmt.Errorf("%w: x = %g not in [%g, %g]",
			ErrOutOfDomain, x, cb.ax, cb.bx)
	}
	if cb.yPeriodic {
		y = remap(y, cb.ay, cb.by)
	} else if y < cb.ay || y > cb.by {
		return 0, 0, 0, 0, fmt.Errorf("%w: y = %g not in [%g, %g]",
			ErrOutOfDomain, y, cb.ay, cb.by)
	}
	if cb.zPeriodic {
		z = remap(z, cb.az, cb.bz)
	} else if z < cb.az || z > cb.bz {
		return 0, 0, 0, 0, fmt.Errorf("%w: z = %g not in [%g, %g]",
			ErrOutOfDomain, z, cb.az, cb.bz)
	}

	i := clampIdx(int(math.Floor((x-cb.ax)*cb.xsp)), cb.nx)
	j := clampIdx(int(math.Floor((y-cb.ay)*cb.ysp)), cb.ny)
	k := clampIdx(int(math.Floor((z-cb.az)*cb.zsp)), cb.nz)
	return i + cb.nx*(j+cb.ny*k), x, y, z, nil
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// claimSlot returns the next free slot of box ijk, doubling the box's
// storage when it is full. Exceeding the capacity ceiling panics: it
// indicates a sizing mistake, not a recoverable condition.
func (cb *containerBase) claimSlot(ijk int) int {
	if cb.co[ijk] == cb.mem[ijk] {
		cb.addParticleMemory(ijk)
	}
	s := cb.co[ijk]
	cb.co[ijk]++
	return s
}

func (cb *containerBase) addParticleMemory(ijk int) {
	nmem := 2 * cb.mem[ijk]
	if nmem > cb.maxParticleMem {
		panic(fmt.Sprintf(
			"govoro: box %d exceeded the per-box capacity ceiling of %d particles",
			ijk, cb.maxParticleMem))
	}
	nid := make([]int, nmem)
	np := make([]float64, cb.ps*nmem)
	copy(nid, cb.id[ijk][:cb.co[ijk]])
	copy(np, cb.p[ijk][:cb.ps*cb.co[ijk]])
	cb.id[ijk] = nid
	cb.p[ijk] = np
	cb.mem[ijk] = nmem
}

// blockCoords splits a linear box index into grid coordinates.
func (cb *containerBase) blockCoords(ijk int) (i, j, k int) {
	i = ijk % cb.nx
	j = (ijk / cb.nx) % cb.ny
	k = ijk / (cb.nx * cb.ny)
	return i, j, k
}

// region resolves the block at offset (ei, ej, ek) from the source block
// (ci, cj, ck). For a non-periodic axis the offset is rejected when it
// leaves the grid; for a periodic axis it wraps, and the returned
// displacement is what must be added to stored positions to express them
// in the source particle's frame.
func (cb *containerBase) region(ci, cj, ck, ei, ej, ek int) (ijk int, qx, qy, qz float64, ok bool) {
	i := ci + ei
	if cb.xPeriodic {
		for i < 0 {
			i += cb.nx
			qx -= cb.bx - cb.ax
		}
		for i >= cb.nx {
			i -= cb.nx
			qx += cb.bx - cb.ax
		}
	} else if i < 0 || i >= cb.nx {
		return 0, 0, 0, 0, false
	}
	j := cj + ej
	if cb.yPeriodic {
		for j < 0 {
			j += cb.ny
			qy -= cb.by - cb.ay
		}
		for j >= cb.ny {
			j -= cb.ny
			qy += cb.by - cb.ay
		}
	} else if j < 0 || j >= cb.ny {
		return 0, 0, 0, 0, false
	}
	k := ck + ek
	if cb.zPeriodic {
		for k < 0 {
			k += cb.nz
			qz -= cb.bz - cb.az
		}
		for k >= cb.nz {
			k -= cb.nz
			qz += cb.bz - cb.az
		}
	} else if k < 0 || k >= cb.nz {
		return 0, 0, 0, 0, false
	}
	return i + cb.nx*(j+cb.ny*k), qx, qy, qz, true
}

// radius hooks distinguishing the Euclidean and the radical variants.

func (con *Container) base() *containerBase { return &con.containerBase }

func (con *Container) rInit(ijk, s int) (rad, mul float64) { return 0, 1 }

func (con *Container) rScale(rs float64, ijk, q int, rad float64) float64 {
	return rs
}

func (con *PolyContainer) base() *containerBase { return &con.containerBase }

// rInit loads the source particle's squared radius and the search-bound
// multiplier that keeps the worklist cutoff valid under the power metric.
func (con *PolyContainer) rInit(ijk, s int) (rad, mul float64) {
	r := con.p[ijk][4*s+3]
	m := con.maxRadius
	if m+r == 0 {
		return 0, 1
	}
	mul = 1 + (r*r-m*m)/((m+r)*(m+r))
	return r * r, mul
}

// rScale turns the squared distance to a candidate into the radical plane
// parameter rs = |d|^2 + r_source^2 - r_candidate^2.
func (con *PolyContainer) rScale(rs float64, ijk, q int, rad float64) float64 {
	rq := con.p[ijk][4*q+3]
	return rs + rad - rq*rq
}
