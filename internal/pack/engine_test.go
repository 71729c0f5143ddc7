package pack

import (
	"testing"

	"github.com/vcctl/vcctl-core/internal/grid"
)

func TestEngine_Run_PlacementInvariants(t *testing.T) {
	// GIVEN an empty 30^3 grid and a config with one small sphere size class
	g := grid.New(30, 30, 30, 1.0)
	cfg := &Config{
		SizeClasses: []SizeClassSpec{
			{VolumeTotal: 2000, RadiusMin: 2, RadiusMax: 2},
		},
		Phase:               int(grid.AGG),
		Seed:                7,
		LargeClassThreshold: 1000, // keep this class in "small" mode
		MaxTries:            200,
	}
	e := NewEngine(cfg)

	// WHEN the engine runs
	res, err := e.Run(g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN every AGG voxel has a matching nonzero particle id and vice versa
	// (spec §8 packing invariant), and no two particles share a voxel.
	owner := make(map[int]int)
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				idx := g.Index(x, y, z)
				isAgg := g.Phase[idx] == grid.AGG
				hasOwner := res.PartGrid.PartID[idx] != 0
				if isAgg != hasOwner {
					t.Fatalf("voxel (%d,%d,%d): AGG=%v but hasOwner=%v", x, y, z, isAgg, hasOwner)
				}
				if hasOwner {
					owner[idx] = res.PartGrid.PartID[idx]
				}
			}
		}
	}

	seen := make(map[int]bool)
	for _, p := range res.Particles {
		for _, vidx := range p.Voxels {
			if seen[vidx] {
				t.Fatalf("voxel %d claimed by more than one particle", vidx)
			}
			seen[vidx] = true
			if g.Phase[vidx] != p.Phase {
				t.Errorf("particle %d voxel %d has phase %v, want %v", p.ID, vidx, g.Phase[vidx], p.Phase)
			}
		}
	}

	if len(res.Particles) == 0 {
		t.Fatal("expected at least one placed particle")
	}
}

func TestEngine_Run_RealShapeMode(t *testing.T) {
	// GIVEN a config with real_shape enabled and a single roughly-spherical
	// database shape injected directly on the Engine (LoadShapeDB's file
	// format is covered by its own parser test; this test only needs the
	// loaded-state shape it produces)
	g := grid.New(30, 30, 30, 1.0)
	cfg := &Config{
		SizeClasses: []SizeClassSpec{
			{VolumeTotal: 1500, RadiusMin: 2, RadiusMax: 2},
		},
		Phase:               int(grid.AGG),
		Seed:                11,
		LargeClassThreshold: 1000,
		MaxTries:            200,
		RealShape:           true,
		ShapeSetDir:         "testdata",
		ShapeSet:            "round",
		QuadratureFile:      "testdata/quad.dat",
	}
	e := NewEngine(cfg)

	coeffs := NewShapeCoeffs()
	coeffs.Set(0, 0, complex(7.0, 0)) // constant-radius (n=0,m=0 only) shape, ~ target volume
	e.shapeEntries = []ShapeEntry{{Name: "round1"}}
	e.shapeCoeffs = map[string]*ShapeCoeffs{"round1": coeffs}
	e.quadNodes = gaussLegendre4Nodes()

	// WHEN the engine runs
	res, err := e.Run(g)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN placement went through the real-shape path: every particle is
	// recorded in Shapes, never in Radii, and at most ShapesPerBin distinct
	// database shapes are drawn for the one size class (§4.2 reuse-and-rotate
	// rule).
	if len(res.Particles) == 0 {
		t.Fatal("expected at least one placed particle")
	}
	if len(res.Radii) != 0 {
		t.Fatalf("real-shape mode should never populate Radii, got %d entries", len(res.Radii))
	}
	if len(res.Shapes) != len(res.Particles) {
		t.Fatalf("expected every particle to have a recorded shape, got %d shapes for %d particles", len(res.Shapes), len(res.Particles))
	}
	if got := len(e.classShapes[0]); got > ShapesPerBin {
		t.Fatalf("class 0 drew %d distinct shapes, want <= %d", got, ShapesPerBin)
	}
}

// gaussLegendre4Nodes is a 4-point Gauss-Legendre rule on [-1,1], standing in
// for the spec §6 120-point quadrature file in tests that don't need its
// full resolution.
func gaussLegendre4Nodes() []QuadratureNode {
	return []QuadratureNode{
		{Xg: -0.861136311594053, Wg: 0.347854845137454},
		{Xg: -0.339981043584856, Wg: 0.652145154862546},
		{Xg: 0.339981043584856, Wg: 0.652145154862546},
		{Xg: 0.861136311594053, Wg: 0.347854845137454},
	}
}

func TestTryFit_RejectsOverlap(t *testing.T) {
	// GIVEN a grid with one voxel already occupied by AGG
	g := grid.New(10, 10, 10, 1.0)
	g.Set(5, 5, 5, grid.AGG)
	box := DigitizeSphere(1.5, 7) // 3^3 box: center voxel plus its 6 face neighbors

	// WHEN attempting to fit a box centered on the occupied voxel
	occupied := TryFit(g, box, 5, 5, 5)

	// THEN the fit fails
	if occupied != nil {
		t.Errorf("TryFit over an occupied voxel should fail, got %d voxels", len(occupied))
	}
}
