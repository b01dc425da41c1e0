package cell

import (
	"bufio"
	"fmt"
	"io"
)

// DrawGnuplot writes the cell's faces for a particle at (x, y, z) in
// gnuplot format: each face's vertices closed back to the first, one
// vertex per line, with a blank line between faces.
func (c *Cell) DrawGnuplot(x, y, z float64, w io.Writer) error {
	bw := bufio.NewWriter(w)
	c.faces(func(_, _ int, f []int) {
		for _, v := range f {
			p := c.pts[v]
			fmt.Fprintf(bw, "%g %g %g\n", p[0]+x, p[1]+y, p[2]+z)
		}
		p := c.pts[f[0]]
		fmt.Fprintf(bw, "%g %g %g\n\n", p[0]+x, p[1]+y, p[2]+z)
	})
	return bw.Flush()
}

// DrawPOV writes the cell for a particle at (x, y, z) as a POV-Ray scene
// fragment: one sphere per vertex and one cylinder per edge, using the
// scene variable r as the element radius.
func (c *Cell) DrawPOV(x, y, z float64, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range c.pts {
		fmt.Fprintf(bw, "sphere{<%g,%g,%g>,r}\n", p[0]+x, p[1]+y, p[2]+z)
	}
	for i := range c.pts {
		for k := 0; k < c.nu[i]; k++ {
			j := c.ed[i][k]
			if j < i {
				continue
			}
			a, b := c.pts[i], c.pts[j]
			fmt.Fprintf(bw, "cylinder{<%g,%g,%g>,<%g,%g,%g>,r}\n",
				a[0]+x, a[1]+y, a[2]+z, b[0]+x, b[1]+y, b[2]+z)
		}
	}
	return bw.Flush()
}
