package pack

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// PartGrid is the parallel particle-id grid (§3/§6): each voxel holds the
// owning particle id, or 0 for non-particle voxels.
type PartGrid struct {
	Nx, Ny, Nz int
	PartID     []int
}

// NewPartGrid allocates a zeroed particle-id grid matching g's dimensions.
func NewPartGrid(g *grid.Grid) *PartGrid {
	return &PartGrid{Nx: g.Nx, Ny: g.Ny, Nz: g.Nz, PartID: make([]int, g.NumVoxels())}
}

func (pg *PartGrid) index(x, y, z int) int {
	return (grid.Wrap(z, pg.Nz)*pg.Ny+grid.Wrap(y, pg.Ny))*pg.Nx + grid.Wrap(x, pg.Nx)
}

// At returns the particle id owning (x,y,z), periodically wrapped.
func (pg *PartGrid) At(x, y, z int) int { return pg.PartID[pg.index(x, y, z)] }

// Set assigns the particle id owning (x,y,z), periodically wrapped.
func (pg *PartGrid) Set(x, y, z, id int) { pg.PartID[pg.index(x, y, z)] = id }

// TryFit tests whether placing box centered at (cx,cy,cz) is legal: every
// AGG voxel of box maps, under periodic wrap, to a POROSITY grid voxel, per
// spec §4.2 "Fit test". Returns the list of absolute (x,y,z) grid
// coordinates the box would occupy, or nil if the placement doesn't fit.
func TryFit(g *grid.Grid, box *Bbox, cx, cy, cz int) [][3]int {
	originX := cx - box.Dx/2
	originY := cy - box.Dy/2
	originZ := cz - box.Dz/2

	var occupied [][3]int
	for k := 0; k < box.Dz; k++ {
		for j := 0; j < box.Dy; j++ {
			for i := 0; i < box.Dx; i++ {
				if !box.Mask[box.Index(i, j, k)] {
					continue
				}
				gx, gy, gz := originX+i, originY+j, originZ+k
				if g.At(gx, gy, gz) != grid.POROSITY {
					return nil
				}
				occupied = append(occupied, [3]int{gx, gy, gz})
			}
		}
	}
	return occupied
}

// Place commits a successful TryFit: writes phase into g and id into pg for
// every occupied voxel, and returns the constructed Particle (geometry and
// voxel/periphery lists populated).
func Place(g *grid.Grid, pg *PartGrid, id int, phase grid.PhaseId, box *Bbox, cx, cy, cz int, occupied [][3]int) *Particle {
	p := &Particle{
		ID:      id,
		Phase:   phase,
		Center:  mgl64.Vec3{float64(cx), float64(cy), float64(cz)},
		Extents: mgl64.Vec3{float64(box.Dx) / 2, float64(box.Dy) / 2, float64(box.Dz) / 2},
	}
	p.Voxels = make([]int, len(occupied))
	minZ := 1 << 62
	minZIdx := 0
	for i, v := range occupied {
		g.Set(v[0], v[1], v[2], phase)
		pg.Set(v[0], v[1], v[2], id)
		p.Voxels[i] = g.Index(grid.Wrap(v[0], g.Nx), grid.Wrap(v[1], g.Ny), grid.Wrap(v[2], g.Nz))
		if v[2] < minZ {
			minZ = v[2]
			minZIdx = i
		}
	}
	p.MinZVox = minZIdx
	p.Periph = peripheryVoxels(g, occupied)
	return p
}

// peripheryVoxels returns the subset of occupied voxels with at least one
// non-aggregate 6-neighbor, per spec §3 Particle.periph.
func peripheryVoxels(g *grid.Grid, occupied [][3]int) []int {
	var out []int
	for _, v := range occupied {
		for _, idx := range g.Neighbors6(v[0], v[1], v[2]) {
			if !grid.IsAggregate(g.Phase[idx]) {
				out = append(out, g.Index(grid.Wrap(v[0], g.Nx), grid.Wrap(v[1], g.Ny), grid.Wrap(v[2], g.Nz)))
				break
			}
		}
	}
	return out
}
