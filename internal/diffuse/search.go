package diffuse

import "github.com/vcctl/vcctl-core/internal/grid"

// search5x5 scans the 5x5 neighborhood centered on (cx,cy) within material
// layer z (periodic on x,y) in row-major order and returns the flat voxel
// index of the first voxel satisfying want, or -1 if z is out of range or
// none match. Row-major order makes the scan deterministic, per the
// concentric-neighborhood search of spec §4.3 extphase/removech.
func search5x5(g *grid.Grid, cx, cy, z int, want func(grid.PhaseId) bool) int {
	if z < 0 || z >= g.Nz {
		return -1
	}
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			x := grid.Wrap(cx+dx, g.Nx)
			y := grid.Wrap(cy+dy, g.Ny)
			if want(g.At(x, y, z)) {
				return g.Index(x, y, z)
			}
		}
	}
	return -1
}

// randomLayerSearch draws up to trials random (x,y) positions within
// material layer z and returns the first one satisfying want, or -1 if z is
// out of range or the trial budget is exhausted without a match.
func randomLayerSearch(g *grid.Grid, z, trials int, stream randSource, want func(grid.PhaseId) bool) int {
	if z < 0 || z >= g.Nz {
		return -1
	}
	for i := 0; i < trials; i++ {
		x := stream.Intn(maxInt(g.Nx, 1))
		y := stream.Intn(maxInt(g.Ny, 1))
		if want(g.At(x, y, z)) {
			return g.Index(x, y, z)
		}
	}
	return -1
}

// concentricSearch runs the full six-step concentric order of spec §4.3:
// 5x5 at z, z-1, z+1, then random trials at z, z-1, z+1. It returns the
// found voxel index, the material z-layer it was found in, and whether the
// search succeeded.
func concentricSearch(g *grid.Grid, x, y, z int, stream randSource, want func(grid.PhaseId) bool) (voxel, foundZ int, ok bool) {
	trials := g.Nx * g.Ny
	layers := [3]int{z, z - 1, z + 1}
	for _, lz := range layers {
		if v := search5x5(g, x, y, lz, want); v >= 0 {
			return v, lz, true
		}
	}
	for _, lz := range layers {
		if v := randomLayerSearch(g, lz, trials, stream, want); v >= 0 {
			return v, lz, true
		}
	}
	return -1, 0, false
}
