package diffuse

import (
	"bufio"
	"fmt"
	"io"
)

// plotHeader names the fixed columns WritePlot emits per layer, per spec
// §4.3 "Plot output".
var plotHeader = []string{
	"Cycle", "Layer",
	"Walkers", "ReactedCH", "ReactedAFM", "ReactedC3AH6", "ReactedAFMC",
	"Ncap", "Gel",
	"StrainBrucite", "StrainEttr", "StrainGyp", "StrainAFM",
	"InitialCH", "InitialAFM", "InitialC3AH6", "InitialAFMC",
}

// WritePlot appends one fixed-column line per material layer (padded
// indices 1..Nz, reservoir and solid sentinel excluded) for the given cycle
// number, per spec §4.3 "Plot output appends a fixed-column line per layer
// with current counts". pop supplies the live per-layer walker counts.
func WritePlot(w io.Writer, cycle int, la *LayerAccounting, pop *Population) error {
	bw := bufio.NewWriter(w)
	if cycle == 0 {
		fmt.Fprintln(bw, joinTabs(plotHeader))
	}
	for z := 1; z < len(la.Layers)-1; z++ {
		s := la.Layers[z]
		fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%d\t%d\t%d\t%d\n",
			cycle, z-1,
			pop.Ndiff[z],
			s.ReactedCH, s.ReactedAFM, s.ReactedC3AH6, s.ReactedAFMC,
			s.Ncap, s.Gel,
			s.StrainBrucite, s.StrainEttr, s.StrainGyp, s.StrainAFM,
			s.InitialCH, s.InitialAFM, s.InitialC3AH6, s.InitialAFMC,
		)
	}
	return bw.Flush()
}

func joinTabs(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += "\t" + c
	}
	return out
}
