package pack

import "github.com/vcctl/vcctl-core/internal/grid"

// AddITZ relabels any POROSITY voxel 18-neighborhood-adjacent to a particle
// (PartGrid id != 0) as ITZ, per spec §4.2.4. It is an optional pre-export
// step, run once after placement and settling are complete.
func AddITZ(g *grid.Grid, pg *PartGrid) {
	nx, ny, nz := g.Nx, g.Ny, g.Nz
	toRelabel := make([]int, 0)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				if g.At(x, y, z) != grid.POROSITY {
					continue
				}
				if hasParticleNeighbor18(g, pg, x, y, z) {
					toRelabel = append(toRelabel, g.Index(x, y, z))
				}
			}
		}
	}
	for _, idx := range toRelabel {
		g.Phase[idx] = grid.ITZ
	}
}

func hasParticleNeighbor18(g *grid.Grid, pg *PartGrid, x, y, z int) bool {
	for _, idx := range g.Neighbors18(x, y, z) {
		if pg.PartID[idx] != 0 {
			return true
		}
	}
	return false
}
