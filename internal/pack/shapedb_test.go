package pack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// GIVEN a `<shapeset>-geom.dat` file referencing one particle and its
// matching `.anm` coefficient file, written per spec §6
// WHEN LoadShapeDB reads the directory
// THEN it returns the one parsed ShapeEntry and a coefficient table carrying
// the file's (n,m) rows.
func TestLoadShapeDB_ParsesGeomAndAnmFiles(t *testing.T) {
	dir := t.TempDir()

	geom := "name xlow xhi ylow yhi zlow zhi volume surfarea nsurfarea diam itrace nnn ngc length width thickness nlength nwidth\n" +
		"round1 -2 2 -2 2 -2 2 33.5 50.2 48.1 4.0 1 6 1 4.0 4.0 4.0 1 1\n"
	if err := os.WriteFile(filepath.Join(dir, "round-geom.dat"), []byte(geom), 0o644); err != nil {
		t.Fatalf("writing geom file: %v", err)
	}

	anm := "0 0 7.0 0.0\n2 0 0.5 0.0\n2 1 0.1 -0.1\n"
	if err := os.WriteFile(filepath.Join(dir, "round1.anm"), []byte(anm), 0o644); err != nil {
		t.Fatalf("writing anm file: %v", err)
	}

	entries, coeffs, err := LoadShapeDB(dir, "round")
	if err != nil {
		t.Fatalf("LoadShapeDB: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Name != "round1" {
		t.Errorf("Name = %q, want round1", entries[0].Name)
	}
	if entries[0].Volume != 33.5 {
		t.Errorf("Volume = %g, want 33.5", entries[0].Volume)
	}

	c, ok := coeffs["round1"]
	if !ok {
		t.Fatal("no coefficient table for round1")
	}
	if got := c.At(0, 0); real(got) != 7.0 {
		t.Errorf("A[0,0] = %v, want 7.0", got)
	}
	if got := c.At(2, 1); real(got) != 0.1 || imag(got) != -0.1 {
		t.Errorf("A[2,1] = %v, want (0.1,-0.1)", got)
	}
}

// GIVEN a geom file row with too few columns
// WHEN LoadShapeDB reads it
// THEN it returns an error rather than silently truncating the row.
func TestLoadShapeDB_RejectsShortRow(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad-geom.dat"), []byte("round1 1 2 3\n"), 0o644); err != nil {
		t.Fatalf("writing geom file: %v", err)
	}
	if _, _, err := LoadShapeDB(dir, "bad"); err == nil {
		t.Fatal("expected an error for a short geometry row")
	}
}

// GIVEN a quadrature file of (xg, wg) rows
// WHEN LoadQuadrature reads it
// THEN every row is parsed in file order.
func TestLoadQuadrature_ParsesRowsInOrder(t *testing.T) {
	data := "-0.861136311594053 0.347854845137454\n" +
		"-0.339981043584856 0.652145154862546\n" +
		"0.339981043584856 0.652145154862546\n" +
		"0.861136311594053 0.347854845137454\n"
	nodes, err := LoadQuadrature(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadQuadrature: %v", err)
	}
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(nodes))
	}
	if nodes[0].Xg != -0.861136311594053 || nodes[0].Wg != 0.347854845137454 {
		t.Errorf("nodes[0] = %+v, want first Gauss-Legendre-4 node", nodes[0])
	}
}
