package fem

import (
	"fmt"
	"io"
	"math"
)

// shapeFactor is the DEM integration's aspect-ratio correction for
// near-spherical aggregate inclusions, per spec §4.4 "SHAPEFACTOR=1.10".
const shapeFactor = 1.10

// AggregateClass is one row of the aggregate grading table feeding
// concelas: diameter (µm), volume fraction of the paste+aggregate system,
// and the aggregate's own elastic moduli.
type AggregateClass struct {
	Diameter float64 `yaml:"diameter"`
	VolFrac  float64 `yaml:"vol_frac"`
	Moduli   Moduli  `yaml:"moduli"`
}

// StrengthCorrelation is one empirical compressive-strength fit
// `strength = Coeff * E^Exp`, kept configurable rather than hard-coded per
// spec §9 open question (b).
type StrengthCorrelation struct {
	Name  string  `yaml:"name"`
	Coeff float64 `yaml:"coeff"`
	Exp   float64 `yaml:"exp"`
}

// DefaultCorrelations are the three named fits referenced by spec §4.4
// step 3 (mortar-cube, concrete-cube, concrete-cylinder); callers may
// override any of them from configuration.
var DefaultCorrelations = []StrengthCorrelation{
	{Name: "mortar_cube", Coeff: 5e-4, Exp: 3.18577},
	{Name: "concrete_cube", Coeff: 4.4e-4, Exp: 3.18577},
	{Name: "concrete_cylinder", Coeff: 3.6e-4, Exp: 3.18577},
}

// ITZShellModuli computes the Christensen-Hashin-style effective moduli of
// one aggregate coated by an ITZ shell of width equal to the median cement
// PSD diameter, per spec §4.4 step 1: ba = d/(d+2*itz), c = ba^3, a
// closed-form K_eff (Hashin's composite-sphere-assemblage bulk modulus),
// and a closed-form shear estimate built on the matrix's zeta term. The
// shear modulus is not obtained by solving a quadratic in G_eff.
func ITZShellModuli(itz, aggregate Moduli, diameter, itzWidth float64) Moduli {
	ba := diameter / (diameter + 2*itzWidth)
	c := ba * ba * ba

	km, gm := itz.K, itz.G
	kp, gp := aggregate.K, aggregate.G

	kEff := km + c*(kp-km)/(1+(1-c)*(kp-km)/(km+4*gm/3))

	zeta := gm * (9*km + 8*gm) / (6 * (km + 2*gm))
	gEff := gm + c*(gp-gm)*zeta/(gp+zeta-c*(gp-gm))

	return Moduli{K: kEff, G: gEff}
}

// demState is the (K,G) pair integrated by the differential effective
// medium scheme as matrix fraction φ decreases from 1.
type demState struct{ K, G float64 }

func (s demState) slope(classes []AggregateClass, phi float64) demState {
	if phi <= 0 {
		return demState{}
	}
	var dK, dG float64
	for _, c := range classes {
		// DEM inclusion-addition rates (Norris-type), scaled by each
		// class's own volume fraction share of the remaining matrix, per
		// spec §4.4 step 2 "Σ vf_i·...".
		kTerm := (c.Moduli.K - s.K) * (s.K + 4*s.G/3) / (c.Moduli.K + 4*s.G/3)
		zeta := s.G * (9*s.K + 8*s.G) / (6 * (s.K + 2*s.G))
		gTerm := shapeFactor * (c.Moduli.G - s.G) * (s.G + zeta) / (c.Moduli.G + zeta)
		dK += c.VolFrac * kTerm / phi
		dG += c.VolFrac * gTerm / phi
	}
	return demState{K: -dK, G: -dG}
}

func (s demState) add(o demState, scale float64) demState {
	return demState{K: s.K + scale*o.K, G: s.G + scale*o.G}
}

// IntegrateDEM runs the differential effective medium ODE via RK4 with
// step h=-0.001, from matrix fraction 1.0 down to targetMatrixFraction =
// 1 - aggregate - air, per spec §4.4 step 2.
func IntegrateDEM(paste Moduli, classes []AggregateClass, targetMatrixFraction float64) Moduli {
	const h = -0.001
	state := demState{K: paste.K, G: paste.G}
	phi := 1.0
	for phi > targetMatrixFraction {
		step := h
		if phi+step < targetMatrixFraction {
			step = targetMatrixFraction - phi
		}
		k1 := state.slope(classes, phi)
		k2 := state.add(k1, step/2).slope(classes, phi+step/2)
		k3 := state.add(k2, step/2).slope(classes, phi+step/2)
		k4 := state.add(k3, step).slope(classes, phi+step)
		state = state.add(k1, step/6).add(k2, step/3).add(k3, step/3).add(k4, step/6)
		phi += step
	}
	return Moduli{K: state.K, G: state.G}
}

// ConcreteResult bundles concelas's final output: the effective moduli and
// the configured strength estimates.
type ConcreteResult struct {
	Moduli       Moduli
	E            float64
	Correlations []StrengthCorrelation
	Strengths    map[string]float64
}

// Concelas runs the full multi-scale estimator of spec §4.4 step 3: ITZ
// shell moduli per aggregate class feed the DEM integration, and the
// resulting effective (K,G,E) is passed through each configured strength
// correlation.
func Concelas(paste, itz Moduli, classes []AggregateClass, itzWidth, airFraction float64, correlations []StrengthCorrelation) ConcreteResult {
	shelled := make([]AggregateClass, len(classes))
	aggregateFraction := 0.0
	for i, c := range classes {
		shelled[i] = AggregateClass{
			Diameter: c.Diameter,
			VolFrac:  c.VolFrac,
			Moduli:   ITZShellModuli(itz, c.Moduli, c.Diameter, itzWidth),
		}
		aggregateFraction += c.VolFrac
	}
	target := 1 - aggregateFraction - airFraction
	eff := IntegrateDEM(paste, shelled, target)
	e := 9 * eff.K * eff.G / (3*eff.K + eff.G)

	if correlations == nil {
		correlations = DefaultCorrelations
	}
	strengths := make(map[string]float64, len(correlations))
	for _, corr := range correlations {
		strengths[corr.Name] = corr.Coeff * math.Pow(e, corr.Exp)
	}
	return ConcreteResult{Moduli: eff, E: e, Correlations: correlations, Strengths: strengths}
}

// WriteConcrete appends a keyed-line Concrete.dat block, per spec §6.
func WriteConcrete(w io.Writer, r ConcreteResult) error {
	fmt.Fprintf(w, "K: %g\n", r.Moduli.K)
	fmt.Fprintf(w, "G: %g\n", r.Moduli.G)
	fmt.Fprintf(w, "E: %g\n", r.E)
	for _, corr := range r.Correlations {
		if _, err := fmt.Fprintf(w, "%s: %g\n", corr.Name, r.Strengths[corr.Name]); err != nil {
			return err
		}
	}
	return nil
}
