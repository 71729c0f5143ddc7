package fem

import (
	"fmt"
	"io"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// EffectiveModuli is the isotropic fit to the overall stress/strain tensor,
// per spec §4.4.
type EffectiveModuli struct {
	K, G, E, Nu float64
}

// Fit computes the isotropic effective moduli from total accumulated
// stress/strain over the whole grid (strain order exx,eyy,ezz,exz,eyz,exy),
// per spec §4.4's closed-form expressions.
func Fit(strain, stress [6]float64) EffectiveModuli {
	k := (stress[0] + stress[1] + stress[2]) / (3 * (strain[0] + strain[1] + strain[2]))
	g := (ratio(stress[5], strain[5]) + ratio(stress[3], strain[3]) + ratio(stress[4], strain[4])) / 3
	e := 9 * k * g / (3*k + g)
	nu := (3*k - 2*g) / (2 * (3*k + g))
	return EffectiveModuli{K: k, G: g, E: e, Nu: nu}
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// TotalStressStrain sums every phase accumulator's strain/stress into one
// grid-wide total, weighting by voxel count (both fields are already
// voxel-summed, so a plain sum across phases gives the grid total).
func TotalStressStrain(byPhase map[grid.PhaseId]*PhaseAccumulator) (strain, stress [6]float64) {
	for _, acc := range byPhase {
		for k := 0; k < 6; k++ {
			strain[k] += acc.Strain[k]
			stress[k] += acc.Stress[k]
		}
	}
	return
}

// WriteEffectiveModuli writes EffectiveModuli.dat, per spec §6.
func WriteEffectiveModuli(w io.Writer, m EffectiveModuli) error {
	_, err := fmt.Fprintf(w, "K: %g\nG: %g\nE: %g\nNu: %g\n", m.K, m.G, m.E, m.Nu)
	return err
}

// WritePhaseContributions writes PhaseContributions.dat: one row per phase
// with its voxel count and averaged strain/stress, per spec §6.
func WritePhaseContributions(w io.Writer, byPhase map[grid.PhaseId]*PhaseAccumulator) error {
	fmt.Fprintln(w, "Phase\tVoxels\tExx\tEyy\tEzz\tExz\tEyz\tExy\tSxx\tSyy\tSzz\tSxz\tSyz\tSxy")
	for phase, acc := range byPhase {
		if acc.Voxels == 0 {
			continue
		}
		n := float64(acc.Voxels)
		_, err := fmt.Fprintf(w, "%d\t%d\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\t%g\n",
			phase, acc.Voxels,
			acc.Strain[0]/n, acc.Strain[1]/n, acc.Strain[2]/n, acc.Strain[3]/n, acc.Strain[4]/n, acc.Strain[5]/n,
			acc.Stress[0]/n, acc.Stress[1]/n, acc.Stress[2]/n, acc.Stress[3]/n, acc.Stress[4]/n, acc.Stress[5]/n)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteITZModuli writes ITZmoduli.dat: one row per x-layer, `x K G E nu`,
// per spec §6.
func WriteITZModuli(w io.Writer, byLayer []*LayerAccumulator) error {
	for _, l := range byLayer {
		if l.Voxels == 0 {
			continue
		}
		m := Fit(l.Strain, l.Stress)
		if _, err := fmt.Fprintf(w, "%d %g %g %g %g\n", l.X, m.K, m.G, m.E, m.Nu); err != nil {
			return err
		}
	}
	return nil
}
