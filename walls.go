package govoro

import (
	"math"

	"github.com/golang/geo/r3"
)

// DefaultWallID is the face id walls report when the caller does not pick
// one. User wall ids must be -7 or below; -1 through -6 belong to the
// container faces.
const DefaultWallID = -99

// PlaneWall bounds cells by the half-space n.x <= d.
type PlaneWall struct {
	n  r3.Vector
	d  float64
	id int
}

// NewPlaneWall returns a wall keeping the side n.x <= d of the plane.
func NewPlaneWall(n r3.Vector, d float64, id int) *PlaneWall {
	return &PlaneWall{n: n, d: d, id: id}
}

func (w *PlaneWall) PointInside(x, y, z float64) bool {
	return w.n.X*x+w.n.Y*y+w.n.Z*z <= w.d
}

func (w *PlaneWall) Cut(c Cutter, x, y, z float64) bool {
	// In the cell's local frame the plane shifts by the particle position.
	dq := w.d - (w.n.X*x + w.n.Y*y + w.n.Z*z)
	return c.Cut(w.n.X, w.n.Y, w.n.Z, 2*dq, w.id)
}

// SphereWall bounds cells by the interior of a sphere, approximated at
// each cell by the tangent plane nearest the particle.
type SphereWall struct {
	c  r3.Vector
	r  float64
	id int
}

// NewSphereWall returns a spherical wall with center c and radius r.
func NewSphereWall(c r3.Vector, r float64, id int) *SphereWall {
	return &SphereWall{c: c, r: r, id: id}
}

func (w *SphereWall) PointInside(x, y, z float64) bool {
	dx, dy, dz := x-w.c.X, y-w.c.Y, z-w.c.Z
	return dx*dx+dy*dy+dz*dz < w.r*w.r
}

func (w *SphereWall) Cut(c Cutter, x, y, z float64) bool {
	dx, dy, dz := x-w.c.X, y-w.c.Y, z-w.c.Z
	dsq := dx*dx + dy*dy + dz*dz
	if dsq < 1e-10 {
		// The particle sits at the center; no tangent direction exists and
		// no plane is needed at this scale.
		return true
	}
	d := math.Sqrt(dsq)
	return c.Cut(dx, dy, dz, 2*(d*w.r-dsq), w.id)
}

// CylinderWall bounds cells by the interior of an infinite cylinder,
// approximated at each cell by the tangent plane nearest the particle.
type CylinderWall struct {
	pt   r3.Vector // a point on the axis
	axis r3.Vector // unit axis direction
	r    float64
	id   int
}

// NewCylinderWall returns a cylindrical wall of radius r around the axis
// through pt with direction axis (normalized here).
func NewCylinderWall(pt, axis r3.Vector, r float64, id int) *CylinderWall {
	return &CylinderWall{pt: pt, axis: axis.Normalize(), r: r, id: id}
}

// radial returns the component of (x,y,z)-pt perpendicular to the axis.
func (w *CylinderWall) radial(x, y, z float64) r3.Vector {
	d := r3.Vector{X: x - w.pt.X, Y: y - w.pt.Y, Z: z - w.pt.Z}
	return d.Sub(w.axis.Mul(d.Dot(w.axis)))
}

func (w *CylinderWall) PointInside(x, y, z float64) bool {
	rv := w.radial(x, y, z)
	return rv.Dot(rv) < w.r*w.r
}

func (w *CylinderWall) Cut(c Cutter, x, y, z float64) bool {
	rv := w.radial(x, y, z)
	dsq := rv.Dot(rv)
	if dsq < 1e-10 {
		return true
	}
	d := math.Sqrt(dsq)
	return c.Cut(rv.X, rv.Y, rv.Z, 2*(d*w.r-dsq), w.id)
}

// ConeWall bounds cells by the interior of an open cone, approximated at
// each cell by the plane tangent to the cone along the generator nearest
// the particle.
type ConeWall struct {
	apex r3.Vector
	axis r3.Vector // unit direction into the cone
	ang  float64   // half-opening angle
	id   int
}

// NewConeWall returns a conical wall with the given apex, axis direction
// (normalized here) and half-opening angle in radians.
func NewConeWall(apex, axis r3.Vector, ang float64, id int) *ConeWall {
	return &ConeWall{apex: apex, axis: axis.Normalize(), ang: ang, id: id}
}

func (w *ConeWall) PointInside(x, y, z float64) bool {
	d := r3.Vector{X: x - w.apex.X, Y: y - w.apex.Y, Z: z - w.apex.Z}
	h := d.Dot(w.axis)
	rv := d.Sub(w.axis.Mul(h))
	return h > 0 && math.Sqrt(rv.Dot(rv)) < h*math.Tan(w.ang)
}

func (w *ConeWall) Cut(c Cutter, x, y, z float64) bool {
	d := r3.Vector{X: x - w.apex.X, Y: y - w.apex.Y, Z: z - w.apex.Z}
	h := d.Dot(w.axis)
	rv := d.Sub(w.axis.Mul(h))
	rsq := rv.Dot(rv)
	if rsq < 1e-10 {
		// On the axis the nearest generator is undefined; the cone cannot
		// be approximated by a single tangent plane here.
		return true
	}
	rho := math.Sqrt(rsq)
	rhat := rv.Mul(1 / rho)
	sin, cos := math.Sin(w.ang), math.Cos(w.ang)
	// Outward tangent-plane normal along the nearest generator; the kept
	// half-space margin is positive for particles inside the cone.
	n := rhat.Mul(cos).Sub(w.axis.Mul(sin))
	dist := h*sin - rho*cos
	return c.Cut(n.X, n.Y, n.Z, 2*dist, w.id)
}

// Compile-time capability checks.
var (
	_ Wall = &PlaneWall{}
	_ Wall = &SphereWall{}
	_ Wall = &CylinderWall{}
	_ Wall = &ConeWall{}
)
