// Package grid implements the periodic 3-D labeled voxel volume shared by
// every engine: its phase-id vocabulary, text image I/O, and the periodic
// neighborhood helpers every engine builds its local structure (pore search,
// walker moves, FEM element assembly) on top of.
package grid

import "fmt"

// Grid is a finite, rectangular 3-D array of PhaseId over axes (X,Y,Z) with
// an isotropic resolution R (µm/voxel). Phase is stored flat in
// z-outermost, then y, then x order: index = (z*Ny+y)*Nx+x, matching the
// text image's on-disk layout so reads and writes need no reshuffling.
type Grid struct {
	Nx, Ny, Nz int
	R          float64
	Version    string
	Phase      []PhaseId
}

// New allocates a Grid of the given dimensions, all voxels POROSITY.
func New(nx, ny, nz int, r float64) *Grid {
	g := &Grid{Nx: nx, Ny: ny, Nz: nz, R: r, Version: CurrentVersion}
	g.Phase = make([]PhaseId, nx*ny*nz)
	return g
}

// CurrentVersion is the version token this package writes and the one
// RemapPhase treats as already-current (no rows for it in remapTable).
const CurrentVersion = "2.0"

// Index returns the flat offset of voxel (x,y,z) WITHOUT wrapping; callers
// on a periodic axis should wrap first via Wrap.
func (g *Grid) Index(x, y, z int) int {
	return (z*g.Ny+y)*g.Nx + x
}

// At returns the phase at (x,y,z) after periodic wrapping on all three axes.
func (g *Grid) At(x, y, z int) PhaseId {
	x = Wrap(x, g.Nx)
	y = Wrap(y, g.Ny)
	z = Wrap(z, g.Nz)
	return g.Phase[g.Index(x, y, z)]
}

// AtOpenZ returns the phase at (x,y,z) with x,y periodic but z used as-is
// (no wrap). Callers (diffusion, pore intrusion) must range-check z
// themselves; this only exists so those engines don't silently wrap an
// axis the spec declares open.
func (g *Grid) AtOpenZ(x, y, z int) PhaseId {
	x = Wrap(x, g.Nx)
	y = Wrap(y, g.Ny)
	return g.Phase[g.Index(x, y, z)]
}

// Set writes phase at (x,y,z) after periodic wrapping on all three axes.
func (g *Grid) Set(x, y, z int, phase PhaseId) {
	x = Wrap(x, g.Nx)
	y = Wrap(y, g.Ny)
	z = Wrap(z, g.Nz)
	g.Phase[g.Index(x, y, z)] = phase
}

// NumVoxels returns Nx*Ny*Nz.
func (g *Grid) NumVoxels() int { return g.Nx * g.Ny * g.Nz }

// Wrap implements the spec's modular periodic index: wrap(i,N) =
// ((i mod N)+N) mod N, total over all integers including negatives.
func Wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// offsets6/18/26 are the face/edge/corner neighbor displacements used by
// Neighbors6, Neighbors18, and Neighbors26.
var offsets6 = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

var offsets18 = buildOffsets(func(dx, dy, dz int) bool {
	// 18-neighborhood: face + edge neighbors, i.e. one or two nonzero
	// coordinates (at least one zero coordinate), excluding corners.
	nz := 0
	if dx != 0 {
		nz++
	}
	if dy != 0 {
		nz++
	}
	if dz != 0 {
		nz++
	}
	return nz > 0 && nz <= 2
})

var offsets26 = buildOffsets(func(dx, dy, dz int) bool {
	return dx != 0 || dy != 0 || dz != 0
})

func buildOffsets(keep func(dx, dy, dz int) bool) [][3]int {
	var out [][3]int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if keep(dx, dy, dz) {
					out = append(out, [3]int{dx, dy, dz})
				}
			}
		}
	}
	return out
}

// Neighbors6 returns the 6 face-adjacent voxel indices of (x,y,z), wrapped
// periodically on all axes.
func (g *Grid) Neighbors6(x, y, z int) [6]int {
	var out [6]int
	for i, o := range offsets6 {
		out[i] = g.Index(Wrap(x+o[0], g.Nx), Wrap(y+o[1], g.Ny), Wrap(z+o[2], g.Nz))
	}
	return out
}

// Neighbors18 returns the 18 face+edge-adjacent voxel indices of (x,y,z),
// wrapped periodically on all axes.
func (g *Grid) Neighbors18(x, y, z int) []int {
	out := make([]int, len(offsets18))
	for i, o := range offsets18 {
		out[i] = g.Index(Wrap(x+o[0], g.Nx), Wrap(y+o[1], g.Ny), Wrap(z+o[2], g.Nz))
	}
	return out
}

// Neighbors26 returns the 26 face+edge+corner-adjacent voxel indices of
// (x,y,z), wrapped periodically on all axes.
func (g *Grid) Neighbors26(x, y, z int) []int {
	out := make([]int, len(offsets26))
	for i, o := range offsets26 {
		out[i] = g.Index(Wrap(x+o[0], g.Nx), Wrap(y+o[1], g.Ny), Wrap(z+o[2], g.Nz))
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{Nx: g.Nx, Ny: g.Ny, Nz: g.Nz, R: g.R, Version: g.Version}
	out.Phase = make([]PhaseId, len(g.Phase))
	copy(out.Phase, g.Phase)
	return out
}

// Equal reports whether two grids have identical dimensions and phase
// content voxel-by-voxel (used by the round-trip property in spec §8).
func (g *Grid) Equal(other *Grid) bool {
	if g.Nx != other.Nx || g.Ny != other.Ny || g.Nz != other.Nz {
		return false
	}
	if len(g.Phase) != len(other.Phase) {
		return false
	}
	for i, p := range g.Phase {
		if other.Phase[i] != p {
			return false
		}
	}
	return true
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid{%dx%dx%d R=%.3f v=%s}", g.Nx, g.Ny, g.Nz, g.R, g.Version)
}
