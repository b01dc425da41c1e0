package govoro

import (
	"bufio"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/phil-mansfield/govoro/cell"
)

// DrawParticles writes one "id x y z" line per particle.
func (cb *containerBase) DrawParticles(w io.Writer) error {
	bw := bufio.NewWriter(w)
	l := cb.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		x, y, z := l.Pos()
		fmt.Fprintf(bw, "%d %g %g %g\n", l.ID(), x, y, z)
	}
	return bw.Flush()
}

// DrawParticlesPOV writes the particles as POV-Ray spheres using the scene
// variable s as the sphere radius.
func (cb *containerBase) DrawParticlesPOV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	l := cb.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		x, y, z := l.Pos()
		fmt.Fprintf(bw, "// id %d\nsphere{<%g,%g,%g>,s}\n", l.ID(), x, y, z)
	}
	return bw.Flush()
}

// svgCanvas is the pixel width of the square particle projections.
const svgCanvas = 800

// DrawParticlesSVG writes an SVG scatter of the particles projected along
// the given axis (0, 1 or 2).
func (cb *containerBase) DrawParticlesSVG(w io.Writer, axis int) error {
	iDim, jDim := 0, 1
	switch axis {
	case 0:
		iDim, jDim = 1, 2
	case 1:
		iDim, jDim = 0, 2
	}
	lo := [3]float64{cb.ax, cb.ay, cb.az}
	hi := [3]float64{cb.bx, cb.by, cb.bz}
	iScale := svgCanvas / (hi[iDim] - lo[iDim])
	jScale := svgCanvas / (hi[jDim] - lo[jDim])

	canvas := svg.New(w)
	canvas.Start(svgCanvas, svgCanvas)
	l := cb.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		x, y, z := l.Pos()
		p := [3]float64{x, y, z}
		ci := int((p[iDim] - lo[iDim]) * iScale)
		cj := svgCanvas - int((p[jDim]-lo[jDim])*jScale)
		canvas.Circle(ci, cj, 2, "fill:black")
	}
	canvas.End()
	return nil
}

// DrawCells computes every cell and writes it in gnuplot format: each
// face's vertices closed back to the first, one vertex per line, with a
// blank line between faces.
func (con *Container) DrawCells(w io.Writer) error {
	c := cell.New()
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if !con.ComputeCell(c, l) {
			continue
		}
		x, y, z := l.Pos()
		if err := c.DrawGnuplot(x, y, z, w); err != nil {
			return err
		}
	}
	return nil
}

// DrawCells computes every radical cell and writes it in gnuplot format.
func (con *PolyContainer) DrawCells(w io.Writer) error {
	c := cell.New()
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if !con.ComputeCell(c, l) {
			continue
		}
		x, y, z := l.Pos()
		if err := c.DrawGnuplot(x, y, z, w); err != nil {
			return err
		}
	}
	return nil
}

// DrawCellsPOV computes every cell and writes it as POV-Ray cylinders and
// spheres.
func (con *Container) DrawCellsPOV(w io.Writer) error {
	c := cell.New()
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if !con.ComputeCell(c, l) {
			continue
		}
		x, y, z := l.Pos()
		if err := c.DrawPOV(x, y, z, w); err != nil {
			return err
		}
	}
	return nil
}

// DrawCellsPOV computes every radical cell and writes it as POV-Ray
// cylinders and spheres.
func (con *PolyContainer) DrawCellsPOV(w io.Writer) error {
	c := cell.New()
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if !con.ComputeCell(c, l) {
			continue
		}
		x, y, z := l.Pos()
		if err := c.DrawPOV(x, y, z, w); err != nil {
			return err
		}
	}
	return nil
}
