package govoro

import (
	"math"
)

// Loop is a traversal over stored particles. Start positions the loop on
// the first particle and Next advances it; both report whether a particle
// is available. Block exposes the storage slot the compute driver needs.
type Loop interface {
	Start() bool
	Next() bool
	Block() (ijk, q int)
	ID() int
	Pos() (x, y, z float64)
}

// ParticleOrder records the storage slot of each insertion, so traversals
// can replay insertion order. It is filled by the PutOrdered variants.
type ParticleOrder struct {
	ijk, q []int
}

// NewParticleOrder returns an empty insertion-order record.
func NewParticleOrder() *ParticleOrder { return &ParticleOrder{} }

func (po *ParticleOrder) add(ijk, q int) {
	po.ijk = append(po.ijk, ijk)
	po.q = append(po.q, q)
}

// Size returns the number of recorded insertions.
func (po *ParticleOrder) Size() int { return len(po.ijk) }

// LoopAll traverses every particle in grid-scan order.
type LoopAll struct {
	cb  *containerBase
	ijk int
	q   int
}

// LoopAll returns a traversal over every particle in grid-scan order.
func (cb *containerBase) LoopAll() *LoopAll {
	return &LoopAll{cb: cb}
}

func (l *LoopAll) Start() bool {
	l.ijk, l.q = 0, 0
	for l.ijk < l.cb.nxyz && l.cb.co[l.ijk] == 0 {
		l.ijk++
	}
	return l.ijk < l.cb.nxyz
}

func (l *LoopAll) Next() bool {
	l.q++
	if l.q < l.cb.co[l.ijk] {
		return true
	}
	l.q = 0
	l.ijk++
	for l.ijk < l.cb.nxyz && l.cb.co[l.ijk] == 0 {
		l.ijk++
	}
	return l.ijk < l.cb.nxyz
}

func (l *LoopAll) Block() (ijk, q int) { return l.ijk, l.q }

func (l *LoopAll) ID() int { return l.cb.id[l.ijk][l.q] }

func (l *LoopAll) Pos() (x, y, z float64) {
	pp := l.cb.p[l.ijk][l.cb.ps*l.q:]
	return pp[0], pp[1], pp[2]
}

// Radius returns the particle radius, or zero for a plain container.
func (l *LoopAll) Radius() float64 {
	if l.cb.ps < 4 {
		return 0
	}
	return l.cb.p[l.ijk][4*l.q+3]
}

// LoopOrder traverses particles in insertion order using a ParticleOrder
// sidecar.
type LoopOrder struct {
	cb  *containerBase
	po  *ParticleOrder
	idx int
}

// LoopOrder returns a traversal that replays the insertions recorded in po.
func (cb *containerBase) LoopOrder(po *ParticleOrder) *LoopOrder {
	return &LoopOrder{cb: cb, po: po}
}

func (l *LoopOrder) Start() bool {
	l.idx = 0
	return l.idx < l.po.Size()
}

func (l *LoopOrder) Next() bool {
	l.idx++
	return l.idx < l.po.Size()
}

func (l *LoopOrder) Block() (ijk, q int) {
	return l.po.ijk[l.idx], l.po.q[l.idx]
}

func (l *LoopOrder) ID() int {
	ijk, q := l.Block()
	return l.cb.id[ijk][q]
}

func (l *LoopOrder) Pos() (x, y, z float64) {
	ijk, q := l.Block()
	pp := l.cb.p[ijk][l.cb.ps*q:]
	return pp[0], pp[1], pp[2]
}

// Radius returns the particle radius, or zero for a plain container.
func (l *LoopOrder) Radius() float64 {
	if l.cb.ps < 4 {
		return 0
	}
	ijk, q := l.Block()
	return l.cb.p[ijk][4*q+3]
}

// subset predicate modes
const (
	subsetSphere = iota
	subsetBox
	subsetBlocks
)

// LoopSubset traverses the particles inside a spherical or rectangular
// region, or inside an integer block range. On periodic axes the region
// may extend past the container; particles are then tested against their
// nearest image.
type LoopSubset struct {
	cb   *containerBase
	mode int

	// sphere
	vx, vy, vz, rsq float64
	// box
	xa, xb, ya, yb, za, zb float64
	// inclusive block ranges, possibly out of [0, n) on periodic axes
	ai, bi, aj, bj, ak, bk int

	i, j, k int
	q       int
	// resolved block and displacement for the current (i, j, k)
	ijk        int
	qx, qy, qz float64
}

// LoopSphere returns a traversal over the particles within distance r of
// (x, y, z).
func (cb *containerBase) LoopSphere(x, y, z, r float64) *LoopSubset {
	l := &LoopSubset{
		cb: cb, mode: subsetSphere,
		vx: x, vy: y, vz: z, rsq: r * r,
	}
	l.setBounds(x-r, x+r, y-r, y+r, z-r, z+r)
	return l
}

// LoopBox returns a traversal over the particles inside the axis-aligned
// box [xa,xb]x[ya,yb]x[za,zb].
func (cb *containerBase) LoopBox(xa, xb, ya, yb, za, zb float64) *LoopSubset {
	l := &LoopSubset{
		cb: cb, mode: subsetBox,
		xa: xa, xb: xb, ya: ya, yb: yb, za: za, zb: zb,
	}
	l.setBounds(xa, xb, ya, yb, za, zb)
	return l
}

// LoopBlocks returns a traversal over the particles stored in the blocks
// of the inclusive index range [ai,bi]x[aj,bj]x[ak,bk].
func (cb *containerBase) LoopBlocks(ai, bi, aj, bj, ak, bk int) *LoopSubset {
	l := &LoopSubset{cb: cb, mode: subsetBlocks}
	l.ai, l.bi = clampRange(ai, bi, cb.nx, cb.xPeriodic)
	l.aj, l.bj = clampRange(aj, bj, cb.ny, cb.yPeriodic)
	l.ak, l.bk = clampRange(ak, bk, cb.nz, cb.zPeriodic)
	return l
}

func (l *LoopSubset) setBounds(xa, xb, ya, yb, za, zb float64) {
	cb := l.cb
	l.ai, l.bi = clampRange(
		int(math.Floor((xa-cb.ax)*cb.xsp)),
		int(math.Floor((xb-cb.ax)*cb.xsp)), cb.nx, cb.xPeriodic)
	l.aj, l.bj = clampRange(
		int(math.Floor((ya-cb.ay)*cb.ysp)),
		int(math.Floor((yb-cb.ay)*cb.ysp)), cb.ny, cb.yPeriodic)
	l.ak, l.bk = clampRange(
		int(math.Floor((za-cb.az)*cb.zsp)),
		int(math.Floor((zb-cb.az)*cb.zsp)), cb.nz, cb.zPeriodic)
}

// clampRange clips [a, b] to the grid on a non-periodic axis and caps it to
// one full period on a periodic one.
func clampRange(a, b, n int, periodic bool) (int, int) {
	if !periodic {
		if a < 0 {
			a = 0
		}
		if b >= n {
			b = n - 1
		}
		return a, b
	}
	if b-a >= n {
		b = a + n - 1
	}
	return a, b
}

// resolve maps the conceptual block (i, j, k) onto a stored block and the
// displacement of its image.
func (l *LoopSubset) resolve() bool {
	ijk, qx, qy, qz, ok := l.cb.region(0, 0, 0, l.i, l.j, l.k)
	if !ok {
		return false
	}
	l.ijk, l.qx, l.qy, l.qz = ijk, qx, qy, qz
	return true
}

func (l *LoopSubset) inside(q int) bool {
	if l.mode == subsetBlocks {
		return true
	}
	pp := l.cb.p[l.ijk][l.cb.ps*q:]
	x := pp[0] + l.qx
	y := pp[1] + l.qy
	z := pp[2] + l.qz
	switch l.mode {
	case subsetSphere:
		dx, dy, dz := x-l.vx, y-l.vy, z-l.vz
		return dx*dx+dy*dy+dz*dz <= l.rsq
	case subsetBox:
		return x >= l.xa && x <= l.xb &&
			y >= l.ya && y <= l.yb &&
			z >= l.za && z <= l.zb
	}
	return false
}

func (l *LoopSubset) Start() bool {
	l.i, l.j, l.k = l.ai, l.aj, l.ak
	l.q = -1
	return l.advance()
}

func (l *LoopSubset) Next() bool { return l.advance() }

// advance steps to the next particle satisfying the predicate, moving
// through the block range as needed.
func (l *LoopSubset) advance() bool {
	for {
		if l.q >= 0 || l.resolve() {
			for l.q++; l.q < l.cb.co[l.ijk]; l.q++ {
				if l.inside(l.q) {
					return true
				}
			}
		}
		l.q = -1
		l.i++
		if l.i > l.bi {
			l.i = l.ai
			l.j++
			if l.j > l.bj {
				l.j = l.aj
				l.k++
				if l.k > l.bk {
					return false
				}
			}
		}
	}
}

func (l *LoopSubset) Block() (ijk, q int) { return l.ijk, l.q }

func (l *LoopSubset) ID() int { return l.cb.id[l.ijk][l.q] }

func (l *LoopSubset) Pos() (x, y, z float64) {
	pp := l.cb.p[l.ijk][l.cb.ps*l.q:]
	return pp[0], pp[1], pp[2]
}
