package govoro

// Cutter is the capability a wall needs from a cell: a single half-space
// cut in the cell's local frame. cell.Cell satisfies it for both the plain
// and the neighbor-tracking flavors, so wall implementations never depend
// on a concrete cell type.
type Cutter interface {
	// Cut clips by n.v <= rsq/2 with n = (x, y, z), tagging the face with
	// id when the cell tracks neighbors.
	Cut(x, y, z, rsq float64, id int) bool
}

// Wall is a half-space or implicit surface that bounds every cell of a
// container. PointInside tests a position against the wall; Cut clips a
// cell belonging to the particle at (x, y, z).
type Wall interface {
	PointInside(x, y, z float64) bool
	Cut(c Cutter, x, y, z float64) bool
}

// wallList is an ordered collection of walls applied at cell
// initialization.
type wallList struct {
	walls []Wall
}

func (wl *wallList) add(w Wall) { wl.walls = append(wl.walls, w) }

// pointInside is the conjunction of the wall tests.
func (wl *wallList) pointInside(x, y, z float64) bool {
	for _, w := range wl.walls {
		if !w.PointInside(x, y, z) {
			return false
		}
	}
	return true
}

// apply cuts c by every wall in order, stopping as soon as one of them
// annihilates the cell.
func (wl *wallList) apply(c Cutter, x, y, z float64) bool {
	for _, w := range wl.walls {
		if !w.Cut(c, x, y, z) {
			return false
		}
	}
	return true
}
