package diffuse

import "github.com/vcctl/vcctl-core/internal/grid"

// movePermitted reports whether a walker may move into a voxel of the given
// phase, per spec §4.3 step 3: porosity-like, C-S-H-family, C3AH6, AFM,
// AFMC, or EMPTYP/DRIEDP voxels admit the walker; CH additionally requires
// that 85% of the local layer's initial AFM+AFMC has already reacted,
// otherwise it blocks.
func movePermitted(phase grid.PhaseId, layer LayerStats) bool {
	switch phase {
	case grid.CH:
		return layer.AFMConsumedFraction() >= chAfmConsumedGate
	case grid.EMPTYP, grid.DRIEDP:
		return true
	default:
		return grid.IsPorosityLike(phase) || grid.IsGelLike(phase)
	}
}

// chAfmConsumedGate is the 85% threshold of spec §4.3 step 3.
const chAfmConsumedGate = 0.85

// reactive reports whether phase carries a stoichiometric reaction rule the
// diffusion engine tracks (CH, C3AH6, AFM, AFMC per Design Notes' phase
// behavior table).
func reactive(phase grid.PhaseId) bool { return grid.IsReactive(phase) }

// blocksOnReact reports whether a walker that reacts at phase still fails to
// advance into the voxel regardless of reaction outcome (§4.3 step 4).
func blocksOnReact(phase grid.PhaseId) bool { return grid.IsBlocking(phase) }
