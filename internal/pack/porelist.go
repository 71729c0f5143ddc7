package pack

import (
	"github.com/vcctl/vcctl-core/internal/grid"
	"github.com/vcctl/vcctl-core/internal/rlist"
)

// PoreList is the ranked candidate-location index used by the packing
// engine's placement search, per spec §3. It wraps the shared arena-backed
// rlist, adding the grid-aware radius probe and rebuild logic of §4.2 step 1.
type PoreList struct {
	list *rlist.List
}

// BuildPoreList scans g for POROSITY voxels and returns a PoreList with one
// node per pore voxel, Rank left at 0 (radius not yet computed).
func BuildPoreList(g *grid.Grid) *PoreList {
	l := rlist.New()
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				if g.At(x, y, z) == grid.POROSITY {
					l.PushBack(g.Index(x, y, z), 0)
				}
			}
		}
	}
	return &PoreList{list: l}
}

// ComputePoreRadii walks every node and sets its Rank to the pore radius:
// the largest integer r such that every voxel within a cube of radius r
// centered on the pore is POROSITY, per spec §4.2 step 1. maxR bounds the
// search (the largest size class radius any class will need).
func (pl *PoreList) ComputePoreRadii(g *grid.Grid, maxR int) {
	tmp := rlist.New()
	for idx := pl.list.Head(); idx != -1; idx = pl.list.Next(idx) {
		n := pl.list.At(idx)
		radius := poreRadiusAt(g, n.Voxel, maxR)
		tmp.PushBack(n.Voxel, float64(radius))
	}
	pl.list = tmp
}

// poreRadiusAt returns the largest integer r in [0,maxR] such that the full
// cube of side 2r+1 centered on voxel is entirely POROSITY.
func poreRadiusAt(g *grid.Grid, voxel int, maxR int) int {
	cx, cy, cz := unflatten(g, voxel)
	best := 0
	for r := 1; r <= maxR; r++ {
		if cubeAllPorosity(g, cx, cy, cz, r) {
			best = r
		} else {
			break
		}
	}
	return best
}

func unflatten(g *grid.Grid, voxel int) (x, y, z int) {
	x = voxel % g.Nx
	rest := voxel / g.Nx
	y = rest % g.Ny
	z = rest / g.Ny
	return
}

func cubeAllPorosity(g *grid.Grid, cx, cy, cz, r int) bool {
	for dz := -r; dz <= r; dz++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if g.At(cx+dx, cy+dy, cz+dz) != grid.POROSITY {
					return false
				}
			}
		}
	}
	return true
}

// SortDescending sorts the pore list by radius descending, per §4.2 step 1.
func (pl *PoreList) SortDescending() { pl.list.SortDescending() }

// FirstNPores returns the count of leading list entries (after
// SortDescending) whose radius is >= minRadius, per §4.2 step 2.
func (pl *PoreList) FirstNPores(minRadius float64) int {
	n := 0
	for idx := pl.list.Head(); idx != -1; idx = pl.list.Next(idx) {
		if pl.list.At(idx).Rank < minRadius {
			break
		}
		n++
	}
	return n
}

// Len returns the number of candidate pores remaining.
func (pl *PoreList) Len() int { return pl.list.Len() }

// LocateByCursor returns the arena index of the cursor-th entry (0-based
// from the head).
func (pl *PoreList) LocateByCursor(cursor int) int { return pl.list.LocateByIndex(cursor) }

// VoxelAt returns the grid voxel index stored at arena index idx.
func (pl *PoreList) VoxelAt(idx int) int { return pl.list.At(idx).Voxel }

// Remove deletes the entry at arena index idx.
func (pl *PoreList) Remove(idx int) { pl.list.DeleteAt(idx) }
