package fem

import "github.com/vcctl/vcctl-core/internal/grid"

// cornerOffset gives the {0,1} physical corner offset of each of the 8
// local element nodes, derived from nodeCoords (natural -1/+1 maps to
// physical 0/1 on each axis).
var cornerOffset = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// MacroStrain is the applied macroscopic strain tensor, in the 6-component
// order (exx,eyy,ezz,exz,eyz,exy) per spec §4.4.
type MacroStrain struct {
	Exx float64 `yaml:"exx"`
	Eyy float64 `yaml:"eyy"`
	Ezz float64 `yaml:"ezz"`
	Exz float64 `yaml:"exz"`
	Eyz float64 `yaml:"eyz"`
	Exy float64 `yaml:"exy"`
}

// tensor returns the full symmetric 3x3 strain tensor (engineering-shear
// convention, matching the B-matrix rows of element.go).
func (m MacroStrain) tensor() [3][3]float64 {
	return [3][3]float64{
		{m.Exx, m.Exy, m.Exz},
		{m.Exy, m.Eyy, m.Eyz},
		{m.Exz, m.Eyz, m.Ezz},
	}
}

// AffineAt returns the homogeneous-strain displacement u_macro(x,y,z) =
// strain·(x,y,z) used both as the CG "initial condition" baseline (spec
// §4.4) and to build periodic-boundary jump corrections.
func (m MacroStrain) AffineAt(x, y, z float64) [3]float64 {
	s := m.tensor()
	return [3]float64{
		s[0][0]*x + s[0][1]*y + s[0][2]*z,
		s[1][0]*x + s[1][1]*y + s[1][2]*z,
		s[2][0]*x + s[2][1]*y + s[2][2]*z,
	}
}

// Assembly bundles everything Solve needs: the grid's per-voxel dk lookup,
// the macroscopic strain, and precomputed periodic-boundary jump corrections
// for every (voxel, local corner) pair that crosses a domain edge.
//
// Design note: the source computes an equivalent periodic-strain
// contribution via a fixed per-axis index table into a 27-entry neighbor
// list (spec Design Notes). That table isn't recoverable from the retrieval
// pack for this repository, so this assembly instead derives the same
// physics directly: each element-local corner's true displacement is the
// periodic correction field plus a jump term equal to the macroscopic
// strain applied across whichever periodic faces that corner's lookup
// wrapped. Applying the stiffness operator to (correction + jump) is
// linearly equivalent to the source's A*u + b decomposition.
type Assembly struct {
	Grid      *grid.Grid
	DK        map[grid.PhaseId]ElementStiffness
	Materials MaterialTable
	Strain    MacroStrain
}

// jumpAt returns the displacement jump to add for element origin o's local
// corner j, i.e. strain·(wrap_x*Nx, wrap_y*Ny, wrap_z*Nz) where wrap_axis is
// 1 only if o's coordinate on that axis is the last index and corner j's
// offset on that axis is 1.
func (a *Assembly) jumpAt(ox, oy, oz int, corner int) [3]float64 {
	off := cornerOffset[corner]
	g := a.Grid
	jx, jy, jz := 0.0, 0.0, 0.0
	if off[0] == 1 && ox == g.Nx-1 {
		jx = float64(g.Nx)
	}
	if off[1] == 1 && oy == g.Ny-1 {
		jy = float64(g.Ny)
	}
	if off[2] == 1 && oz == g.Nz-1 {
		jz = float64(g.Nz)
	}
	return a.Strain.AffineAt(jx, jy, jz)
}

// cornerNode returns the (periodic) flat node index of element origin
// (ox,oy,oz)'s local corner j.
func (a *Assembly) cornerNode(ox, oy, oz, corner int) int {
	off := cornerOffset[corner]
	g := a.Grid
	x := grid.Wrap(ox+off[0], g.Nx)
	y := grid.Wrap(oy+off[1], g.Ny)
	z := grid.Wrap(oz+off[2], g.Nz)
	return g.Index(x, y, z)
}

// Apply computes A*field + (jump contribution if includeJump), i.e. the
// full gradient operator of spec §4.4 ("g = Au + b" when includeJump is
// true on the zero field gives exactly b; called on a nonzero periodic
// field with includeJump=false gives a pure A*h for the CG inner loop).
func (a *Assembly) Apply(field [][3]float64, includeJump bool) [][3]float64 {
	g := a.Grid
	out := make([][3]float64, len(field))
	for oz := 0; oz < g.Nz; oz++ {
		for oy := 0; oy < g.Ny; oy++ {
			for ox := 0; ox < g.Nx; ox++ {
				phase := g.Phase[g.Index(ox, oy, oz)]
				dk, ok := a.DK[phase]
				if !ok {
					continue
				}
				var total [8][3]float64
				for j := 0; j < 8; j++ {
					node := a.cornerNode(ox, oy, oz, j)
					total[j] = field[node]
					if includeJump {
						jump := a.jumpAt(ox, oy, oz, j)
						total[j][0] += jump[0]
						total[j][1] += jump[1]
						total[j][2] += jump[2]
					}
				}
				for i := 0; i < 8; i++ {
					pnode := a.cornerNode(ox, oy, oz, i)
					for alpha := 0; alpha < 3; alpha++ {
						sum := 0.0
						for j := 0; j < 8; j++ {
							for beta := 0; beta < 3; beta++ {
								sum += dk[i][alpha][j][beta] * total[j][beta]
							}
						}
						out[pnode][alpha] += sum
					}
				}
			}
		}
	}
	return out
}

// ConstantEnergy computes C of spec §4.4: half the self-energy of the pure
// jump field (the macroscopic strain's contribution with zero periodic
// correction), Σ_elements ½ jumpᵀ dk jump.
func (a *Assembly) ConstantEnergy() float64 {
	g := a.Grid
	total := 0.0
	for oz := 0; oz < g.Nz; oz++ {
		for oy := 0; oy < g.Ny; oy++ {
			for ox := 0; ox < g.Nx; ox++ {
				phase := g.Phase[g.Index(ox, oy, oz)]
				dk, ok := a.DK[phase]
				if !ok {
					continue
				}
				var jump [8][3]float64
				for j := 0; j < 8; j++ {
					jump[j] = a.jumpAt(ox, oy, oz, j)
				}
				for i := 0; i < 8; i++ {
					for alpha := 0; alpha < 3; alpha++ {
						for j := 0; j < 8; j++ {
							for beta := 0; beta < 3; beta++ {
								total += 0.5 * jump[i][alpha] * dk[i][alpha][j][beta] * jump[j][beta]
							}
						}
					}
				}
			}
		}
	}
	return total
}
