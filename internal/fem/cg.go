package fem

import (
	"github.com/vcctl/vcctl-core/internal/grid"
	"github.com/vcctl/vcctl-core/internal/vcerr"
)

const engineName = "fem"

// kmax and ldemb bound the CG iteration budget at kmax*ldemb steps, per spec
// §4.4 "Call budget kmax·ldemb = 40·100 steps."
const (
	kmax  = 40
	ldemb = 100
)

// NewAssembly builds the per-phase element stiffness table from materials
// and validates it against the grid's actual phase usage, per spec §7:
// "phase with (K,G)=(0,0) in FEM when that phase has non-zero volume
// fraction" is fatal.
func NewAssembly(g *grid.Grid, materials MaterialTable, strain MacroStrain) (*Assembly, error) {
	used := make(map[grid.PhaseId]bool)
	for _, p := range g.Phase {
		used[p] = true
	}
	dk := make(map[grid.PhaseId]ElementStiffness, len(used))
	usedMaterials := make(MaterialTable, len(used))
	for phase := range used {
		m, ok := materials[phase]
		if !ok {
			m = EmptyModuli
		}
		if m.K == 0 && m.G == 0 {
			return nil, vcerr.Newf(engineName, "NewAssembly", vcerr.Fatal,
				"phase %d has zero (K,G) but occupies the grid", phase)
		}
		dk[phase] = BuildElementStiffness(m)
		usedMaterials[phase] = m
	}
	return &Assembly{Grid: g, DK: dk, Materials: usedMaterials, Strain: strain}, nil
}

// Solution is the CG solver's output: the periodic displacement correction
// field (indexed like the grid, one Vec3 per voxel corner node) and
// convergence diagnostics.
type Solution struct {
	U         [][3]float64
	Converged bool
	Iters     int
	FinalGG   float64
}

// Solve runs the conjugate-gradient minimization of spec §4.4: initial
// h=g=b (u starts at the zero periodic correction), stopping when
// gg=‖g‖² < gtest=1e-7*Nvoxels or the kmax*ldemb budget is exhausted. It
// also stops early, unconverged, if hAh is exactly zero (a step that would
// divide by zero).
func Solve(a *Assembly) Solution {
	n := a.Grid.NumVoxels()
	gtest := 1e-7 * float64(n)

	u := make([][3]float64, n)
	zero := make([][3]float64, n)
	g := a.Apply(zero, true) // = b, since A*0 + jump-contribution = b
	h := cloneField(g)
	gg := dot(g, g)

	budget := kmax * ldemb
	iters := 0
	for iters < budget && gg >= gtest {
		ah := a.Apply(h, false)
		hAh := dot(h, ah)
		if hAh == 0 {
			break
		}
		lambda := gg / hAh
		axpy(u, h, -lambda)
		axpy(g, ah, -lambda)
		ggNew := dot(g, g)
		gamma := ggNew / gg
		for i := range h {
			for k := 0; k < 3; k++ {
				h[i][k] = g[i][k] + gamma*h[i][k]
			}
		}
		gg = ggNew
		iters++
	}

	return Solution{U: u, Converged: gg < gtest, Iters: iters, FinalGG: gg}
}

func cloneField(f [][3]float64) [][3]float64 {
	out := make([][3]float64, len(f))
	copy(out, f)
	return out
}

func dot(a, b [][3]float64) float64 {
	sum := 0.0
	for i := range a {
		for k := 0; k < 3; k++ {
			sum += a[i][k] * b[i][k]
		}
	}
	return sum
}

func axpy(dst, x [][3]float64, lambda float64) {
	for i := range dst {
		for k := 0; k < 3; k++ {
			dst[i][k] += lambda * x[i][k]
		}
	}
}

// GtestFor exposes the convergence threshold for a grid of n voxels, used
// by callers reporting solver diagnostics.
func GtestFor(n int) float64 { return 1e-7 * float64(n) }
