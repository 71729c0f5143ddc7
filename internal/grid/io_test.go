package grid

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadImage_NoHeader_DefaultsAndRewinds(t *testing.T) {
	// GIVEN a raw voxel block with no header, of the default 100^3 size and
	// filled with zeros (a smaller block would fail parseVoxels' count check).
	n := defaultN * defaultN * defaultN
	body := strings.Repeat("0 ", n)

	// WHEN read with no header
	g, err := ReadImage(strings.NewReader(body))

	// THEN the default 100^3 @ R=1.0 grid is produced
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if g.Nx != defaultN || g.Ny != defaultN || g.Nz != defaultN || g.R != defaultR {
		t.Errorf("got %dx%dx%d R=%v, want %dx%dx%d R=%v", g.Nx, g.Ny, g.Nz, g.R, defaultN, defaultN, defaultN, defaultR)
	}
}

func TestReadImage_WithHeader_UsesDeclaredDims(t *testing.T) {
	// GIVEN a header declaring a small grid, in unordered key order
	body := "Y_Size: 2\nX_Size: 2\nImage_Resolution: 1.5\nZ_Size: 2\nVersion: 2.0\n" +
		"0 0 0 0 0 0 0 0\n"

	// WHEN read
	g, err := ReadImage(strings.NewReader(body))

	// THEN the declared dims and resolution are honored
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if g.Nx != 2 || g.Ny != 2 || g.Nz != 2 || g.R != 1.5 {
		t.Errorf("got %dx%dx%d R=%v, want 2x2x2 R=1.5", g.Nx, g.Ny, g.Nz, g.R)
	}
}

func TestReadImage_MissingHeaderKey_Fatal(t *testing.T) {
	// GIVEN a header missing Z_Size
	body := "Version: 2.0\nX_Size: 2\nY_Size: 2\n" + strings.Repeat("0 ", 8)

	// WHEN read
	_, err := ReadImage(strings.NewReader(body))

	// THEN it fails fatally
	if err == nil {
		t.Fatal("expected error for missing header key, got nil")
	}
}

func TestReadImage_TooFewValues_Fatal(t *testing.T) {
	// GIVEN a header declaring 2x2x2=8 voxels but only 4 values supplied
	body := "Version: 2.0\nX_Size: 2\nY_Size: 2\nZ_Size: 2\n0 0 0 0\n"

	// WHEN read
	_, err := ReadImage(strings.NewReader(body))

	// THEN it fails fatally
	if err == nil {
		t.Fatal("expected error for too few voxel values, got nil")
	}
}

func TestWriteImage_ReadImage_RoundTrip(t *testing.T) {
	// GIVEN a small grid with distinct phases
	g := New(3, 2, 2, 1.25)
	g.Set(0, 0, 0, AGG)
	g.Set(2, 1, 1, CH)

	// WHEN written then read back
	var buf bytes.Buffer
	if err := g.WriteImage(&buf); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	got, err := ReadImage(&buf)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}

	// THEN the round trip is voxel-for-voxel identical (spec §8 universal invariant)
	if !g.Equal(got) {
		t.Errorf("round trip changed grid contents")
	}
}

func TestWriteImage_AlwaysEmitsHeader(t *testing.T) {
	// GIVEN any grid
	g := New(2, 2, 2, 1.0)

	// WHEN written
	var buf bytes.Buffer
	if err := g.WriteImage(&buf); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	// THEN the output starts with a Version header line
	if !strings.HasPrefix(buf.String(), "Version: ") {
		t.Errorf("WriteImage did not start with a header: %q", buf.String()[:20])
	}
}
