package govoro

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	in := strings.NewReader(`1 0.25 0.5 0.5

2 0.75 0.5 0.5
`)
	require.NoError(t, con.Import(in))
	assert.Equal(t, 2, con.TotalParticles())
}

func TestImportRejectsMalformedLine(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)

	err := con.Import(strings.NewReader("1 0.25 0.5\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))

	err = con.Import(strings.NewReader("1 x 0.5 0.5\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestImportRejectsOutOfDomain(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	err := con.Import(strings.NewReader("1 1.1 0.5 0.5\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfDomain))
}

func TestImportPoly(t *testing.T) {
	con, err := NewPolyContainer(0, 1, 0, 1, 0, 1, 5, 5, 5,
		false, false, false, 8)
	require.NoError(t, err)
	require.NoError(t, con.Import(strings.NewReader("3 0.5 0.5 0.5 0.1\n")))
	assert.Equal(t, 1, con.TotalParticles())
	assert.Equal(t, 0.1, con.MaxRadius())
}

func TestImportFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "particles.txt")
	data := "1 0.25 0.5 0.5\n2 0.75 0.5 0.5\n"
	require.NoError(t, os.WriteFile(name, []byte(data), 0666))

	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.ImportFile(name))
	assert.Equal(t, 2, con.TotalParticles())
}

func TestImportCSV(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	in := strings.NewReader("id,x,y,z\n1,0.25,0.5,0.5\n2,0.75,0.5,0.5\n")
	require.NoError(t, con.ImportCSV(in))
	assert.Equal(t, 2, con.TotalParticles())

	poly, err := NewPolyContainer(0, 1, 0, 1, 0, 1, 5, 5, 5,
		false, false, false, 8)
	require.NoError(t, err)
	require.NoError(t, poly.ImportCSV(
		strings.NewReader("id,x,y,z,r\n1,0.5,0.5,0.5,0.2\n")))
	assert.Equal(t, 0.2, poly.MaxRadius())
}

func TestDrawParticles(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.Put(1, 0.25, 0.5, 0.5))
	require.NoError(t, con.Put(2, 0.75, 0.5, 0.5))

	buf := &bytes.Buffer{}
	require.NoError(t, con.DrawParticles(buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines, "1 0.25 0.5 0.5")
	assert.Contains(t, lines, "2 0.75 0.5 0.5")
}

func TestDrawParticlesPOV(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.Put(1, 0.5, 0.5, 0.5))

	buf := &bytes.Buffer{}
	require.NoError(t, con.DrawParticlesPOV(buf))
	assert.Contains(t, buf.String(), "sphere{<0.5,0.5,0.5>,s}")
}

func TestDrawParticlesSVG(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.Put(1, 0.5, 0.5, 0.5))

	buf := &bytes.Buffer{}
	require.NoError(t, con.DrawParticlesSVG(buf, 2))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "circle")
	assert.Contains(t, out, "</svg>")
}

func TestDrawCellsGnuplot(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.Put(0, 0.5, 0.5, 0.5))

	buf := &bytes.Buffer{}
	require.NoError(t, con.DrawCells(buf))
	// One box cell: six faces of five lines each, separated by blanks.
	blocks := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n\n")
	assert.Len(t, blocks, 6)
}

func TestPrintCustom(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.Put(9, 0.5, 0.5, 0.5))

	buf := &bytes.Buffer{}
	require.NoError(t, con.PrintCustom("%i %q %w %g %s %v %F", buf))
	assert.Equal(t, "9 0.5 0.5 0.5 8 12 6 1 6\n", buf.String())
}

func TestPrintCustomEscapes(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.Put(1, 0.5, 0.5, 0.5))

	buf := &bytes.Buffer{}
	require.NoError(t, con.PrintCustom("%% %z id=%i", buf))
	assert.Equal(t, "% %z id=1\n", buf.String())
}

func TestPrintCustomNeighbors(t *testing.T) {
	con := mustContainer(t, 0, 1, 0, 1, 0, 1, 5, 5, 5, false, false, false)
	require.NoError(t, con.Put(1, 0.25, 0.5, 0.5))
	require.NoError(t, con.Put(2, 0.75, 0.5, 0.5))

	buf := &bytes.Buffer{}
	require.NoError(t, con.PrintCustom("%i: %n", buf))
	out := buf.String()
	assert.Contains(t, out, "1: ")
	assert.Contains(t, out, "2")
	// Each line lists six face neighbors.
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		assert.Len(t, fields, 7)
	}
}

func TestPrintCustomPoly(t *testing.T) {
	con, err := NewPolyContainer(0, 1, 0, 1, 0, 1, 5, 5, 5,
		false, false, false, 8)
	require.NoError(t, err)
	require.NoError(t, con.Put(4, 0.5, 0.5, 0.5, 0.125))

	buf := &bytes.Buffer{}
	require.NoError(t, con.PrintCustom("%i %r %v", buf))
	assert.Equal(t, "4 0.125 1\n", buf.String())
}
