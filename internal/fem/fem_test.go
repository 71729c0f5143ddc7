package fem

import (
	"math"
	"testing"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// GIVEN a single-phase grid with known (K,G)
// WHEN the CG solve runs to convergence
// THEN the fitted effective moduli equal the input moduli within 1e-4.
func TestSinglePhase_EffectiveModuliMatchInput(t *testing.T) {
	g := grid.New(4, 4, 4, 1.0)
	for i := range g.Phase {
		g.Phase[i] = grid.C3S
	}
	materials := MaterialTable{grid.C3S: {K: 10, G: 5}}
	strain := MacroStrain{Exx: 0.001}

	asm, err := NewAssembly(g, materials, strain)
	if err != nil {
		t.Fatalf("NewAssembly: %v", err)
	}
	sol := Solve(asm)
	byPhase, _ := EvaluateStress(asm, sol, false)
	totalStrain, totalStress := TotalStressStrain(byPhase)
	m := Fit(totalStrain, totalStress)

	if math.Abs(m.K-10) > 1e-4 {
		t.Errorf("K = %g, want ~10", m.K)
	}
	if math.Abs(m.G-5) > 1e-4 {
		t.Errorf("G = %g, want ~5", m.G)
	}
	wantE := 9.0 * 10 * 5 / (3*10 + 5)
	if math.Abs(m.E-wantE) > 1e-4 {
		t.Errorf("E = %g, want ~%g", m.E, wantE)
	}
}

// GIVEN a two-phase grid laid out as alternating x-layers (series loading)
// WHEN effective moduli are fit
// THEN the computed bulk modulus is bracketed by the Reuss (series) and
// Voigt (parallel) bounds for the two phases' bulk moduli.
func TestTwoPhaseLayered_BracketedByVoigtReussBounds(t *testing.T) {
	g := grid.New(4, 4, 4, 1.0)
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				phase := grid.C3S
				if x%2 == 1 {
					phase = grid.CH
				}
				g.Phase[g.Index(x, y, z)] = phase
			}
		}
	}
	k1, k2 := 10.0, 2.0
	materials := MaterialTable{
		grid.C3S: {K: k1, G: 5},
		grid.CH:  {K: k2, G: 1},
	}
	strain := MacroStrain{Exx: 0.001}

	asm, err := NewAssembly(g, materials, strain)
	if err != nil {
		t.Fatalf("NewAssembly: %v", err)
	}
	sol := Solve(asm)
	byPhase, _ := EvaluateStress(asm, sol, false)
	totalStrain, totalStress := TotalStressStrain(byPhase)
	m := Fit(totalStrain, totalStress)

	voigt := 0.5 * (k1 + k2)
	reuss := 1 / (0.5/k1 + 0.5/k2)
	lo, hi := reuss, voigt
	if lo > hi {
		lo, hi = hi, lo
	}
	// allow a small numerical margin around the bounds
	margin := 0.05 * (hi - lo)
	if m.K < lo-margin || m.K > hi+margin {
		t.Errorf("K = %g, want within [%g,%g] (Reuss/Voigt bounds)", m.K, lo, hi)
	}
}

// GIVEN any FEM assembly
// WHEN the CG solver runs
// THEN the residual gg either converges below gtest or the iteration budget
// is exhausted, and FinalGG is never negative.
func TestSolve_ConvergesOrExhaustsBudget(t *testing.T) {
	g := grid.New(3, 3, 3, 1.0)
	for i := range g.Phase {
		g.Phase[i] = grid.C3S
	}
	materials := MaterialTable{grid.C3S: {K: 10, G: 5}}
	asm, err := NewAssembly(g, materials, MacroStrain{Exx: 0.002, Eyy: -0.001})
	if err != nil {
		t.Fatalf("NewAssembly: %v", err)
	}
	sol := Solve(asm)

	if sol.FinalGG < 0 {
		t.Fatalf("FinalGG = %g, must be non-negative", sol.FinalGG)
	}
	gtest := GtestFor(g.NumVoxels())
	if !sol.Converged && sol.Iters < kmax*ldemb {
		t.Errorf("did not converge (gg=%g, gtest=%g) but also didn't exhaust the %d-iteration budget (got %d)",
			sol.FinalGG, gtest, kmax*ldemb, sol.Iters)
	}
}

// GIVEN a grid containing a phase absent from the material table
// WHEN NewAssembly is called
// THEN it returns a fatal error per spec §7.
func TestNewAssembly_RejectsUnmappedPhase(t *testing.T) {
	g := grid.New(2, 2, 2, 1.0)
	for i := range g.Phase {
		g.Phase[i] = grid.CH
	}
	_, err := NewAssembly(g, MaterialTable{}, MacroStrain{})
	if err == nil {
		t.Fatal("expected an error for an unmapped, non-zero-volume-fraction phase")
	}
}

// GIVEN aggregate classes, paste and ITZ moduli
// WHEN Concelas runs
// THEN the effective E is positive and each configured correlation yields a
// positive strength estimate.
func TestConcelas_ProducesPositiveModuliAndStrengths(t *testing.T) {
	paste := Moduli{K: 10, G: 5}
	itz := Moduli{K: 8, G: 4}
	classes := []AggregateClass{
		{Diameter: 5000, VolFrac: 0.4, Moduli: Moduli{K: 40, G: 30}},
		{Diameter: 10000, VolFrac: 0.2, Moduli: Moduli{K: 40, G: 30}},
	}
	result := Concelas(paste, itz, classes, 20, 0.02, nil)

	if result.E <= 0 {
		t.Fatalf("E = %g, want > 0", result.E)
	}
	if len(result.Strengths) != len(DefaultCorrelations) {
		t.Fatalf("got %d strengths, want %d", len(result.Strengths), len(DefaultCorrelations))
	}
	for name, s := range result.Strengths {
		if s <= 0 {
			t.Errorf("strength[%s] = %g, want > 0", name, s)
		}
	}
}
