package govoro

import (
	"bufio"
	"fmt"
	"io"

	"github.com/phil-mansfield/govoro/cell"
)

// PrintCustom computes every cell and writes one line per particle,
// substituting the %-directives of format with cell attributes:
//
//	%i  particle id              %q  position "x y z"
//	%r  radius                   %v  volume
//	%c  centroid, local frame    %C  centroid, global frame
//	%w  vertex count             %o  vertex orders
//	%p  local vertex positions   %P  global vertex positions
//	%m  max radius squared       %g  edge count
//	%E  total edge distance      %e  face perimeters
//	%s  face count               %F  total surface area
//	%a  face orders              %f  face areas
//	%t  face vertex index lists  %l  face unit normals
//	%n  face neighbor ids        %A  face order histogram
//	%%  a literal percent sign
//
// Unknown directives are copied through verbatim.
func (con *Container) PrintCustom(format string, w io.Writer) error {
	c := cell.NewTracked()
	bw := bufio.NewWriter(w)
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if !con.ComputeCell(c, l) {
			continue
		}
		x, y, z := l.Pos()
		writeCustom(bw, c, format, l.ID(), x, y, z, 0)
	}
	return bw.Flush()
}

// PrintCustom is the radical-variant custom output; %r substitutes the
// particle radius.
func (con *PolyContainer) PrintCustom(format string, w io.Writer) error {
	c := cell.NewTracked()
	bw := bufio.NewWriter(w)
	l := con.LoopAll()
	for ok := l.Start(); ok; ok = l.Next() {
		if !con.ComputeCell(c, l) {
			continue
		}
		x, y, z := l.Pos()
		writeCustom(bw, c, format, l.ID(), x, y, z, l.Radius())
	}
	return bw.Flush()
}

func writeCustom(
	w *bufio.Writer, c *cell.Cell,
	format string, id int, x, y, z, r float64,
) {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 == len(format) {
			w.WriteByte(format[i])
			continue
		}
		i++
		switch format[i] {
		case 'i':
			fmt.Fprintf(w, "%d", id)
		case 'q':
			fmt.Fprintf(w, "%g %g %g", x, y, z)
		case 'r':
			fmt.Fprintf(w, "%g", r)
		case 'v':
			fmt.Fprintf(w, "%g", c.Volume())
		case 'c':
			cx, cy, cz := c.Centroid()
			fmt.Fprintf(w, "%g %g %g", cx, cy, cz)
		case 'C':
			cx, cy, cz := c.Centroid()
			fmt.Fprintf(w, "%g %g %g", cx+x, cy+y, cz+z)
		case 'w':
			fmt.Fprintf(w, "%d", c.NumberOfVertices())
		case 'o':
			writeInts(w, c.VertexOrders())
		case 'p':
			writeVecs(w, c.Vertices())
		case 'P':
			writeVecs(w, c.VerticesAt(x, y, z))
		case 'm':
			fmt.Fprintf(w, "%g", c.MaxRadiusSquared())
		case 'g':
			fmt.Fprintf(w, "%d", c.NumberOfEdges())
		case 'E':
			fmt.Fprintf(w, "%g", c.TotalEdgeDistance())
		case 'e':
			writeFloats(w, c.FacePerimeters())
		case 's':
			fmt.Fprintf(w, "%d", c.NumberOfFaces())
		case 'F':
			fmt.Fprintf(w, "%g", c.SurfaceArea())
		case 'a':
			writeInts(w, c.FaceOrders())
		case 'f':
			writeFloats(w, c.FaceAreas())
		case 't':
			for fi, f := range c.FaceVertices() {
				if fi > 0 {
					w.WriteByte(' ')
				}
				w.WriteByte('(')
				for vi, v := range f {
					if vi > 0 {
						w.WriteByte(',')
					}
					fmt.Fprintf(w, "%d", v)
				}
				w.WriteByte(')')
			}
		case 'l':
			for ni, n := range c.NormalVectors() {
				if ni > 0 {
					w.WriteByte(' ')
				}
				fmt.Fprintf(w, "(%g,%g,%g)", n[0], n[1], n[2])
			}
		case 'n':
			writeInts(w, c.Neighbors())
		case 'A':
			writeInts(w, c.FaceFreqTable())
		case '%':
			w.WriteByte('%')
		default:
			w.WriteByte('%')
			w.WriteByte(format[i])
		}
	}
	w.WriteByte('\n')
}

func writeInts(w *bufio.Writer, xs []int) {
	for i, x := range xs {
		if i > 0 {
			w.WriteByte(' ')
		}
		fmt.Fprintf(w, "%d", x)
	}
}

func writeFloats(w *bufio.Writer, xs []float64) {
	for i, x := range xs {
		if i > 0 {
			w.WriteByte(' ')
		}
		fmt.Fprintf(w, "%g", x)
	}
}

func writeVecs(w *bufio.Writer, vs []cell.Vec) {
	for i, v := range vs {
		if i > 0 {
			w.WriteByte(' ')
		}
		fmt.Fprintf(w, "(%g,%g,%g)", v[0], v[1], v[2])
	}
}
