package fem

import "github.com/vcctl/vcctl-core/internal/grid"

// VoxelState is one voxel's computed strain and stress (6-component, same
// order as element.go: exx,eyy,ezz,exz,eyz,exy), per spec §4.4
// "Stress/strain averaging".
type VoxelState struct {
	Strain [6]float64
	Stress [6]float64
}

// PhaseAccumulator sums per-phase stress/strain contributions toward the
// bulk/shear/Young moduli fit, per spec §4.4.
type PhaseAccumulator struct {
	Voxels int
	Strain [6]float64
	Stress [6]float64
}

// LayerAccumulator is one x-layer's averages, used when doITZ is set.
type LayerAccumulator struct {
	X      int
	Voxels int
	Strain [6]float64
	Stress [6]float64
}

// EvaluateStress computes per-voxel strain (from the 8 corner
// displacements, total = periodic correction + macroscopic affine part)
// and stress (cmod[phase]*strain), and accumulates per-phase and, if
// doITZ, per-x-layer totals.
func EvaluateStress(a *Assembly, sol Solution, doITZ bool) (map[grid.PhaseId]*PhaseAccumulator, []*LayerAccumulator) {
	g := a.Grid
	byPhase := make(map[grid.PhaseId]*PhaseAccumulator)
	var byLayer []*LayerAccumulator
	if doITZ {
		byLayer = make([]*LayerAccumulator, g.Nx)
		for x := range byLayer {
			byLayer[x] = &LayerAccumulator{X: x}
		}
	}

	for oz := 0; oz < g.Nz; oz++ {
		for oy := 0; oy < g.Ny; oy++ {
			for ox := 0; ox < g.Nx; ox++ {
				voxel := g.Index(ox, oy, oz)
				phase := g.Phase[voxel]
				strain := elementStrain(a, sol, ox, oy, oz)
				m := byPhase[phase]
				if m == nil {
					m = &PhaseAccumulator{}
					byPhase[phase] = m
				}
				m.Voxels++
				stress := stressFromStrain(a.Materials[phase], strain)
				for k := 0; k < 6; k++ {
					m.Strain[k] += strain[k]
					m.Stress[k] += stress[k]
				}
				if doITZ {
					l := byLayer[ox]
					l.Voxels++
					for k := 0; k < 6; k++ {
						l.Strain[k] += strain[k]
						l.Stress[k] += stress[k]
					}
				}
			}
		}
	}
	return byPhase, byLayer
}

// elementStrain evaluates the 6-component strain at the centroid of voxel
// (ox,oy,oz) from its 8 corner total displacements.
func elementStrain(a *Assembly, sol Solution, ox, oy, oz int) [6]float64 {
	b := strainMatrix(0, 0, 0) // centroid of natural cube
	var disp [24]float64
	for j := 0; j < 8; j++ {
		node := a.cornerNode(ox, oy, oz, j)
		jump := a.jumpAt(ox, oy, oz, j)
		u := sol.U[node]
		disp[3*j+0] = u[0] + jump[0]
		disp[3*j+1] = u[1] + jump[1]
		disp[3*j+2] = u[2] + jump[2]
	}
	var strain [6]float64
	for row := 0; row < 6; row++ {
		sum := 0.0
		for col := 0; col < 24; col++ {
			sum += b[row][col] * disp[col]
		}
		strain[row] = sum
	}
	return strain
}

// stressFromStrain applies the phase's isotropic elasticity matrix
// (cmod[phase]·strain, per spec §4.4) to a voxel's strain.
func stressFromStrain(m Moduli, strain [6]float64) [6]float64 {
	c := isotropicC(m)
	var stress [6]float64
	for i := 0; i < 6; i++ {
		sum := 0.0
		for j := 0; j < 6; j++ {
			sum += c[i][j] * strain[j]
		}
		stress[i] = sum
	}
	return stress
}
