package diffuse

import "github.com/vcctl/vcctl-core/internal/grid"

// extphase precipitates one voxel of product into a nearby void, per spec
// §4.3 "extphase": search concentric neighborhoods of (x,y,origZ) for a
// porosity-like voxel; on success, write product there and decrement that
// layer's Nrcap; on total failure, accumulate the appropriate strain
// counter at the reacting voxel's own layer instead.
func (e *Engine) extphase(g *grid.Grid, product grid.PhaseId, x, y, origZ, paddedZ int) {
	stream := e.rngs.Stream("extphase")
	voxel, foundZ, ok := concentricSearch(g, x, y, origZ, stream, grid.IsPorosityLike)
	if !ok {
		e.accumulateStrain(product, paddedZ)
		return
	}

	g.Phase[voxel] = product
	foundPaddedZ := foundZ + 1
	e.nrcap[foundPaddedZ]--
	e.layers.Layers[foundPaddedZ].Ncap--
}

// accumulateStrain increments the strain counter matching product's family
// at the given padded layer, per spec §4.3 "increment the corresponding
// strain counter at z". The modeled reaction table produces only gypsum,
// ettringite and AFM products, so brucite strain (tracked for the
// MgO/brucite reaction this engine does not model) stays at zero.
func (e *Engine) accumulateStrain(product grid.PhaseId, paddedZ int) {
	stats := &e.layers.Layers[paddedZ]
	switch product {
	case grid.GYPSUM:
		stats.StrainGyp++
	case grid.ETTR:
		stats.StrainEttr++
	case grid.AFM:
		stats.StrainAFM++
	}
}
