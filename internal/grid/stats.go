package grid

// PhaseStats holds the volume and binder-exposed-surface fraction for one
// phase, per spec §4.6 apstats.
type PhaseStats struct {
	Phase          PhaseId
	VolumeVoxels   int
	VolumeFraction float64
	SurfaceVoxels  int
	SurfaceFraction float64
}

// ApStats computes volume and surface-area statistics for the aggregate-
// relevant phases (BINDER-complement phases, AGG, ITZ): the volume count of
// each tracked phase, and the surface count — voxels of that phase whose
// periodic 6-neighborhood contains a binder-solid or ITZ voxel — normalized
// into fractions of total grid volume and total surface voxels observed
// across the tracked set, respectively. "Binder" per the GLOSSARY is
// anything that is not aggregate, ITZ, or void; isBinder classifies each
// phase into that bucket for the neighbor test.
func ApStats(g *Grid, tracked []PhaseId) []PhaseStats {
	counts := make(map[PhaseId]int, len(tracked))
	surfaces := make(map[PhaseId]int, len(tracked))
	want := make(map[PhaseId]bool, len(tracked))
	for _, p := range tracked {
		want[p] = true
	}

	totalVoxels := g.NumVoxels()
	totalSurface := 0

	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				phase := g.At(x, y, z)
				if !want[phase] {
					continue
				}
				counts[phase]++
				if hasBinderOrITZNeighbor(g, x, y, z) {
					surfaces[phase]++
					totalSurface++
				}
			}
		}
	}

	out := make([]PhaseStats, 0, len(tracked))
	for _, p := range tracked {
		vf := 0.0
		if totalVoxels > 0 {
			vf = float64(counts[p]) / float64(totalVoxels)
		}
		sf := 0.0
		if totalSurface > 0 {
			sf = float64(surfaces[p]) / float64(totalSurface)
		}
		out = append(out, PhaseStats{
			Phase:           p,
			VolumeVoxels:    counts[p],
			VolumeFraction:  vf,
			SurfaceVoxels:   surfaces[p],
			SurfaceFraction: sf,
		})
	}
	return out
}

// isBinder classifies a phase as binder: not aggregate, not ITZ, not
// porosity-like.
func isBinder(p PhaseId) bool {
	if IsAggregate(p) || p == ITZ || IsPorosityLike(p) {
		return false
	}
	return true
}

func hasBinderOrITZNeighbor(g *Grid, x, y, z int) bool {
	for _, idx := range g.Neighbors6(x, y, z) {
		n := g.Phase[idx]
		if n == ITZ || isBinder(n) {
			return true
		}
	}
	return false
}
