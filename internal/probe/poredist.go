// Package probe implements the two structural ranking engines that share
// the "score every candidate voxel, rank, then mutate" shape (Design Notes):
// simulated mercury intrusion (pore-size distribution) and the desiccation
// ranker that removes saturated pore voxels to hit a target degree of
// saturation.
package probe

import (
	"fmt"
	"io"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// PoreDistResult is the pore-size distribution table: Nrad[r] is the count
// of voxels newly intruded at probe radius r, indexed 0..MaxR.
type PoreDistResult struct {
	MaxR int
	Nrad []int
}

// Diameter returns the table's diameter key for radius r, per spec §4.5
// "keyed by diameter 2r+1".
func Diameter(r int) int { return 2*r + 1 }

// sixDirs are the face-adjacent displacement vectors admissible-center
// expansion walks (periodic x,y, bounded z — see templateFits).
var sixDirs = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// PoreDist simulates non-wetting intrusion from the z=0 face down to every
// probe radius from maxR to 0, per spec §4.5. At each radius a voxel is an
// "admissible center" if the full sphere template fits entirely within
// porosity-like voxels there; admissible centers adjacent to the external
// face seed a BFS that walks from center to center wherever the neighboring
// position is itself admissible (morphological reconstruction). Every voxel
// covered by any reconstructed center's footprint — not just the center
// itself — is marked intruded, since mercury reaching an admissible center
// fills that center's whole sphere, per the classical MIP algorithm this
// probe follows. x,y periodic; z open: offsets that read past [0,Nz-1]
// never block admissibility (the specimen's ends are exposed, not solid
// walls) and contribute no footprint voxel of their own.
func PoreDist(g *grid.Grid, maxR int) PoreDistResult {
	result := PoreDistResult{MaxR: maxR, Nrad: make([]int, maxR+1)}
	intruded := make([]bool, g.NumVoxels())

	for r := maxR; r >= 0; r-- {
		offsets := sphereOffsets(r)
		isCenter := make([]bool, g.NumVoxels())
		var frontier []int

		markFootprint := func(cx, cy, cz int) {
			for _, o := range offsets {
				z := cz + o.dz
				if z < 0 || z >= g.Nz {
					continue
				}
				x := grid.Wrap(cx+o.dx, g.Nx)
				y := grid.Wrap(cy+o.dy, g.Ny)
				v := g.Index(x, y, z)
				if !intruded[v] {
					intruded[v] = true
					result.Nrad[r]++
				}
			}
		}

		// Seed from every admissible center on the external (z=0) face.
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				v := g.Index(x, y, 0)
				if isCenter[v] || !grid.IsPorosityLike(g.Phase[v]) {
					continue
				}
				if templateFits(g, x, y, 0, offsets) {
					isCenter[v] = true
					markFootprint(x, y, 0)
					frontier = append(frontier, v)
				}
			}
		}

		// BFS over admissible centers: a frontier center's face-neighbor
		// becomes a new center (and its footprint is marked) if the same
		// full-radius template also fits there.
		for head := 0; head < len(frontier); head++ {
			cx, cy, cz := unflatten(g, frontier[head])
			for _, d := range sixDirs {
				nz := cz + d[2]
				if nz < 0 || nz >= g.Nz {
					continue
				}
				nx := grid.Wrap(cx+d[0], g.Nx)
				ny := grid.Wrap(cy+d[1], g.Ny)
				nv := g.Index(nx, ny, nz)
				if isCenter[nv] || !grid.IsPorosityLike(g.Phase[nv]) {
					continue
				}
				if templateFits(g, nx, ny, nz, offsets) {
					isCenter[nv] = true
					markFootprint(nx, ny, nz)
					frontier = append(frontier, nv)
				}
			}
		}
	}
	return result
}

// sphereOffset is one relative position inside a probe radius's digitized
// sphere template.
type sphereOffset struct{ dx, dy, dz int }

// sphereOffsets returns every integer offset within radius r of the origin
// (dx²+dy²+dz² <= r²), the digitized-sphere template of spec §4.5.
func sphereOffsets(r int) []sphereOffset {
	var out []sphereOffset
	r2 := r * r
	for dz := -r; dz <= r; dz++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy+dz*dz <= r2 {
					out = append(out, sphereOffset{dx, dy, dz})
				}
			}
		}
	}
	return out
}

// templateFits reports whether every offset of the sphere template centered
// at (cx,cy,cz) lands on a porosity-like voxel. Periodic on x,y; on z an
// offset that reads past [0,Nz-1] is simply skipped rather than rejected —
// the specimen's two end faces are open to the surrounding fluid, not solid
// boundaries, so they never block a template from fitting.
func templateFits(g *grid.Grid, cx, cy, cz int, offsets []sphereOffset) bool {
	for _, o := range offsets {
		z := cz + o.dz
		if z < 0 || z >= g.Nz {
			continue
		}
		x := grid.Wrap(cx+o.dx, g.Nx)
		y := grid.Wrap(cy+o.dy, g.Ny)
		if !grid.IsPorosityLike(g.Phase[g.Index(x, y, z)]) {
			return false
		}
	}
	return true
}

func unflatten(g *grid.Grid, voxel int) (x, y, z int) {
	x = voxel % g.Nx
	rest := voxel / g.Nx
	y = rest % g.Ny
	z = rest / g.Ny
	return
}

// WritePoreDist writes the distribution table as "diameter\tnrad" rows, one
// per radius from MaxR down to 0, per spec §6.
func WritePoreDist(w io.Writer, r PoreDistResult) error {
	if _, err := fmt.Fprintln(w, "Diameter\tNrad"); err != nil {
		return err
	}
	for radius := r.MaxR; radius >= 0; radius-- {
		if _, err := fmt.Fprintf(w, "%d\t%d\n", Diameter(radius), r.Nrad[radius]); err != nil {
			return err
		}
	}
	return nil
}
