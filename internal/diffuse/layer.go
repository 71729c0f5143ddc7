package diffuse

import "github.com/vcctl/vcctl-core/internal/grid"

// LayerStats is the per-z-layer accounting record of spec §3: initial and
// reacted counts of every reactive phase, capillary-porosity count, gel
// porosity fraction, and accumulated strain from failed precipitations.
type LayerStats struct {
	InitialCH, InitialAFM, InitialC3AH6, InitialAFMC int
	ReactedCH, ReactedAFM, ReactedC3AH6, ReactedAFMC int

	Ncap int     // capillary porosity voxel count
	Gel  float64 // gel porosity fraction

	StrainBrucite, StrainEttr, StrainGyp, StrainAFM float64

	NochFailures int // removech total-failure count
}

// LayerAccounting holds one LayerStats per padded z-layer (index 0 is the
// reservoir, Nz+1 is the solid sentinel).
type LayerAccounting struct {
	Layers []LayerStats
}

// NewLayerAccounting allocates Nz+2 layer records and populates initial
// counts and capillary/gel porosity by scanning g.
func NewLayerAccounting(g *grid.Grid) *LayerAccounting {
	la := &LayerAccounting{Layers: make([]LayerStats, g.Nz+2)}
	for z := 0; z < g.Nz; z++ {
		stats := &la.Layers[z+1]
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				switch g.At(x, y, z) {
				case grid.CH:
					stats.InitialCH++
				case grid.AFM:
					stats.InitialAFM++
				case grid.C3AH6:
					stats.InitialC3AH6++
				case grid.AFMC:
					stats.InitialAFMC++
				case grid.POROSITY:
					stats.Ncap++
				case grid.CSH:
					stats.Gel += cshGelPorosity
				case grid.POZZCSH:
					stats.Gel += pozzCshGelPorosity
				case grid.SLAGCSH:
					stats.Gel += slagCshGelPorosity
				}
			}
		}
	}
	return la
}

// Gel porosity constants, expressed as a constant fraction of each
// CSH-family phase's own volume. The drying probe (probe/dryout.go) defines
// its own constants with the same values.
const (
	cshGelPorosity     = 0.38
	pozzCshGelPorosity = 0.20
	slagCshGelPorosity = 0.20
)

// AFMConsumedFraction returns the fraction of this layer's initial AFM+AFMC
// that has been reacted, used by the CH-reactivity gate of spec §4.3 step 3
// ("CH reactive only after 85% of local-layer AFM and AFMC consumed").
func (s LayerStats) AFMConsumedFraction() float64 {
	initial := s.InitialAFM + s.InitialAFMC
	if initial == 0 {
		return 1.0
	}
	reacted := s.ReactedAFM + s.ReactedAFMC
	return float64(reacted) / float64(initial)
}
