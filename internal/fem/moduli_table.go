package fem

import "github.com/vcctl/vcctl-core/internal/grid"

// Moduli is a phase's isotropic elastic description, per spec §4.4 "Input
// per phase is (K,G) in GPa".
type Moduli struct {
	K float64 `yaml:"k"` // bulk, GPa
	G float64 `yaml:"g"` // shear, GPa
}

// FromYoung converts an (E,ν) pair to (K,G), per spec §4.4.
func FromYoung(e, nu float64) Moduli {
	return Moduli{
		K: e / (3 * (1 - 2*nu)),
		G: e / (2 * (1 + nu)),
	}
}

// MaterialTable maps each voxel phase to its elastic moduli for one FEM run.
// Phases absent from the table default to (0,0), which is fatal unless that
// phase has zero volume fraction in the grid (spec §7).
type MaterialTable map[grid.PhaseId]Moduli

// WaterModuli and EmptyModuli are the two fixed special cases named in spec
// §4.4: "Water/pore phases take K=2.0, G=0; empty pore K=G=0."
var (
	WaterModuli = Moduli{K: 2.0, G: 0}
	EmptyModuli = Moduli{K: 0, G: 0}
)
