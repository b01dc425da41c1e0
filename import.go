package govoro

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/phil-mansfield/table"
)

// Import reads whitespace-separated particle records, one per line, in the
// form "id x y z". Blank lines are skipped; the first malformed record
// aborts the import with an error naming the line.
func (con *Container) Import(r io.Reader) error {
	return importLines(r, 4, func(f []float64) error {
		return con.Put(int(f[0]), f[1], f[2], f[3])
	})
}

// Import reads whitespace-separated particle records, one per line, in the
// form "id x y z r".
func (con *PolyContainer) Import(r io.Reader) error {
	return importLines(r, 5, func(f []float64) error {
		return con.Put(int(f[0]), f[1], f[2], f[3], f[4])
	})
}

func importLines(r io.Reader, n int, put func([]float64) error) error {
	scan := bufio.NewScanner(r)
	f := make([]float64, n)
	line := 0
	for scan.Scan() {
		line++
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != n {
			return fmt.Errorf("%w: line %d has %d fields, want %d",
				ErrParse, line, len(fields), n)
		}
		for i, s := range fields {
			x, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("%w: line %d field %q", ErrParse, line, s)
			}
			f[i] = x
		}
		if err := put(f); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scan.Err()
}

// ImportFile reads a particle file in the Import format.
func (con *Container) ImportFile(name string) error {
	cols, err := table.ReadTable(name, []int{0, 1, 2, 3}, nil)
	if err != nil {
		return err
	}
	ids, xs, ys, zs := cols[0], cols[1], cols[2], cols[3]
	for i := range ids {
		err := con.Put(int(ids[i]), xs[i], ys[i], zs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// ImportFile reads a particle file in the Import format.
func (con *PolyContainer) ImportFile(name string) error {
	cols, err := table.ReadTable(name, []int{0, 1, 2, 3, 4}, nil)
	if err != nil {
		return err
	}
	ids, xs, ys, zs, rs := cols[0], cols[1], cols[2], cols[3], cols[4]
	for i := range ids {
		err := con.Put(int(ids[i]), xs[i], ys[i], zs[i], rs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

type csvParticle struct {
	ID int     `csv:"id"`
	X  float64 `csv:"x"`
	Y  float64 `csv:"y"`
	Z  float64 `csv:"z"`
}

type csvPolyParticle struct {
	ID int     `csv:"id"`
	X  float64 `csv:"x"`
	Y  float64 `csv:"y"`
	Z  float64 `csv:"z"`
	R  float64 `csv:"r"`
}

// ImportCSV reads particles from a CSV stream with the header id,x,y,z.
func (con *Container) ImportCSV(r io.Reader) error {
	var recs []csvParticle
	if err := gocsv.Unmarshal(r, &recs); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	for _, rec := range recs {
		if err := con.Put(rec.ID, rec.X, rec.Y, rec.Z); err != nil {
			return err
		}
	}
	return nil
}

// ImportCSV reads particles from a CSV stream with the header id,x,y,z,r.
func (con *PolyContainer) ImportCSV(r io.Reader) error {
	var recs []csvPolyParticle
	if err := gocsv.Unmarshal(r, &recs); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	for _, rec := range recs {
		if err := con.Put(rec.ID, rec.X, rec.Y, rec.Z, rec.R); err != nil {
			return err
		}
	}
	return nil
}
