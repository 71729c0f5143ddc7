package diffuse

import "github.com/vcctl/vcctl-core/internal/grid"

// relocateProbability is the chance a partially-reacted CH voxel's
// unresolved reaction count is migrated to another CH voxel instead of
// being discarded outright when removech needs to consume it, per spec
// §4.3 "distribute its unresolved reactions ... via a probabilistic
// relocation".
const relocateProbability = 0.5

// removech consumes one CH voxel symmetrically to extphase's precipitation:
// search the same concentric order for a CH voxel, convert it to porosity,
// and update the layer's capillary-porosity count. If the voxel found
// already carries a nonzero reaction counter, then with probability
// relocateProbability its unresolved progress is relocated to another CH
// voxel (found by the same search started from it) before the conversion;
// otherwise, or when that search finds only the voxel itself, the progress
// is dropped. Total failure to find any CH voxel increments that layer's
// Noch counter.
func (e *Engine) removech(g *grid.Grid, x, y, origZ, paddedZ int) {
	stream := e.rngs.Stream("removech")
	voxel, foundZ, ok := concentricSearch(g, x, y, origZ, stream, isCH)
	if !ok {
		e.layers.Layers[paddedZ].NochFailures++
		return
	}

	if e.counter[voxel] > 0 && stream.Float64() < relocateProbability {
		e.relocate(g, voxel, foundZ, stream)
	}

	g.Phase[voxel] = grid.POROSITY
	e.counter[voxel] = 0
	foundPaddedZ := foundZ + 1
	e.layers.Layers[foundPaddedZ].Ncap++
}

// relocate moves source's unresolved reaction counter onto another CH
// voxel found near it, so the partial progress isn't lost when source is
// converted to porosity.
func (e *Engine) relocate(g *grid.Grid, source, z int, stream randSource) {
	sx, sy := voxelXY(g, source, z)
	target, _, ok := concentricSearch(g, sx, sy, z, stream, isCH)
	if !ok || target == source {
		return
	}
	e.counter[target] += e.counter[source]
	e.counter[source] = 0
}

func isCH(p grid.PhaseId) bool { return p == grid.CH }

func voxelXY(g *grid.Grid, voxel, z int) (x, y int) {
	rem := voxel - z*g.Ny*g.Nx
	y = rem / g.Nx
	x = rem % g.Nx
	return x, y
}
