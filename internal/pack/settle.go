package pack

import (
	"sort"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// Settler performs one rigid-settling pass over a set of particles, per
// spec §4.2.3.
type Settler struct {
	Grid *grid.Grid
	Part *PartGrid
}

// unflattenIdx recovers absolute (x,y,z) from a particle's flat voxel index
// (already periodic-wrapped into [0,Nx)x[0,Ny)x[0,Nz)).
func unflattenIdx(g *grid.Grid, idx int) (x, y, z int) {
	x = idx % g.Nx
	rest := idx / g.Nx
	y = rest % g.Ny
	z = rest / g.Ny
	return
}

// Settle runs one settling pass: particles are sorted ascending by the z
// coordinate of MinZVox; each unsettled particle attempts a -1 z shift,
// falling back to up to 4 lateral +-1 x/y attempts, per spec §4.2.3. It
// returns the count of particles that settled (shifted or confirmed
// resting) during this pass.
func (s *Settler) Settle(particles []*Particle) int {
	order := make([]*Particle, len(particles))
	copy(order, particles)
	sort.Slice(order, func(i, j int) bool {
		_, _, zi := unflattenIdx(s.Grid, order[i].Voxels[order[i].MinZVox])
		_, _, zj := unflattenIdx(s.Grid, order[j].Voxels[order[j].MinZVox])
		return zi < zj
	})

	settledCount := 0
	for _, p := range order {
		if p.Settled {
			continue
		}
		_, _, minZ := unflattenIdx(s.Grid, p.Voxels[p.MinZVox])
		if minZ == 0 {
			p.Settled = true
			settledCount++
			continue
		}
		if s.tryShift(p, 0, 0, -1) {
			settledCount++
			continue
		}
		lateral := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		moved := false
		for _, lat := range lateral {
			if s.tryShift(p, lat[0], lat[1], 0) {
				moved = true
				break
			}
		}
		if moved {
			settledCount++
		}
	}
	return settledCount
}

// tryShift attempts to translate p by (dx,dy,dz), probing the periphery
// first; on success it commits the shift to both grids, clearing the
// previous position only where it is no longer owned by p.
func (s *Settler) tryShift(p *Particle, dx, dy, dz int) bool {
	g := s.Grid
	newAbs := make([][3]int, len(p.Voxels))
	oldSet := make(map[int]bool, len(p.Voxels))
	for _, idx := range p.Voxels {
		oldSet[idx] = true
	}
	for _, vidx := range p.Periph {
		x, y, z := unflattenIdx(g, vidx)
		nx, ny, nz := x+dx, y+dy, z+dz
		below := g.At(nx, ny, nz)
		if below != grid.POROSITY && !oldSet[g.Index(grid.Wrap(nx, g.Nx), grid.Wrap(ny, g.Ny), grid.Wrap(nz, g.Nz))] {
			return false
		}
	}
	for i, idx := range p.Voxels {
		x, y, z := unflattenIdx(g, idx)
		nx, ny, nz := x+dx, y+dy, z+dz
		if g.At(nx, ny, nz) != grid.POROSITY && !oldSet[g.Index(grid.Wrap(nx, g.Nx), grid.Wrap(ny, g.Ny), grid.Wrap(nz, g.Nz))] {
			return false
		}
		newAbs[i] = [3]int{nx, ny, nz}
	}

	newSet := make(map[int]bool, len(newAbs))
	for _, v := range newAbs {
		newSet[g.Index(grid.Wrap(v[0], g.Nx), grid.Wrap(v[1], g.Ny), grid.Wrap(v[2], g.Nz))] = true
	}
	for idx := range oldSet {
		if newSet[idx] {
			continue
		}
		x, y, z := unflattenIdx(g, idx)
		g.Set(x, y, z, grid.POROSITY)
		s.Part.Set(x, y, z, 0)
	}
	newVoxels := make([]int, len(newAbs))
	minZ := 1 << 62
	minZIdx := 0
	for i, v := range newAbs {
		g.Set(v[0], v[1], v[2], p.Phase)
		s.Part.Set(v[0], v[1], v[2], p.ID)
		newVoxels[i] = g.Index(grid.Wrap(v[0], g.Nx), grid.Wrap(v[1], g.Ny), grid.Wrap(v[2], g.Nz))
		if v[2] < minZ {
			minZ = v[2]
			minZIdx = i
		}
	}
	p.Voxels = newVoxels
	p.MinZVox = minZIdx
	p.Periph = peripheryVoxels(g, newAbs)
	if minZ == 0 {
		p.Settled = true
	}
	return true
}
