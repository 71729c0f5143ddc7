package pack

import (
	"bufio"
	"fmt"
	"io"
)

// WriteStructure emits the ASCII packing structure file of spec §6: a
// first line giving Npart, then per particle a 4-tuple line `xc yc zc 0`
// followed by its SH block. Sphere-mode particles (no ShapeCoeffs
// supplied) write the single line `0 0 radius 0`; real-shape particles
// write the full (Nnn+1)^2 coefficient rows.
func WriteStructure(w io.Writer, particles []*Particle, radii map[int]float64, shapes map[int]*ShapeCoeffs) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(particles))
	for _, p := range particles {
		fmt.Fprintf(bw, "%g %g %g 0\n", p.Center[0], p.Center[1], p.Center[2])
		if shape, ok := shapes[p.ID]; ok {
			writeShapeBlock(bw, shape)
		} else {
			fmt.Fprintf(bw, "0 0 %g 0\n", radii[p.ID])
		}
	}
	return bw.Flush()
}

func writeShapeBlock(bw *bufio.Writer, shape *ShapeCoeffs) {
	for n := 0; n <= MaxDegree; n++ {
		for m := -n; m <= n; m++ {
			c := shape.At(n, m)
			fmt.Fprintf(bw, "%d %d %g %g\n", n, m, real(c), imag(c))
		}
	}
}

// WritePartGrid emits the particle-id grid as the same whitespace-delimited,
// Nx-columns-per-row integer block the phase grid uses (spec §3/§6), so the
// two files stay directly diffable against one another.
func WritePartGrid(w io.Writer, pg *PartGrid) error {
	bw := bufio.NewWriter(w)
	col := 0
	for _, id := range pg.PartID {
		if col > 0 {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%d", id)
		col++
		if col == pg.Nx {
			bw.WriteByte('\n')
			col = 0
		}
	}
	if col != 0 {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
