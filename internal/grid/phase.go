package grid

// PhaseId is the small-integer material/void tag assigned to one voxel.
// The set is opaque cement-chemistry vocabulary from this package's
// perspective (see spec GLOSSARY); only the distinguished subsets below
// (porosity-like, reactive, aggregate, ITZ) matter to the engines.
type PhaseId int

const (
	POROSITY PhaseId = iota
	C3S
	C2S
	C3A
	C4AF
	GYPSUM
	HEMIHYD
	ANHYDRITE
	POZZ
	INERT
	SLAG
	ASG // aluminosilicate glass (slag precursor)
	CAS2
	CH
	CSH
	C3AH6
	ETTR
	ETTRC4AF
	AFM
	AFMC
	FH3
	POZZCSH
	SLAGCSH
	EMPTYP
	EMPTYDP
	DRIEDP
	CRACKP
	CACO3
	ABSGYP
	DIFFCSH
	AGG
	ITZ
	FILLER
	INERTAGG
	BRUCITE
	MS // magnesium silicate
	FREELIME
	SFUME
	ARCANITE
	SYNGENITE
	NPHASES
)

// porosityLike is the spec's "porosity-like" distinguished subset:
// {POROSITY, EMPTYP, EMPTYDP, DRIEDP, CRACKP}.
var porosityLike = map[PhaseId]bool{
	POROSITY: true,
	EMPTYP:   true,
	EMPTYDP:  true,
	DRIEDP:   true,
	CRACKP:   true,
}

// IsPorosityLike reports whether id belongs to the porosity-like set.
func IsPorosityLike(id PhaseId) bool { return porosityLike[id] }

// cshLike covers the phases the diffusion engine treats as passable
// alongside true porosity (§4.3 step 3): the CSH family (CSH, POZZCSH,
// SLAGCSH) plus the reactive CH, C3AH6, AFM and AFMC.
var cshLike = map[PhaseId]bool{
	CSH:      true,
	C3AH6:    true,
	CH:       true,
	AFM:      true,
	AFMC:     true,
	POZZCSH:  true,
	SLAGCSH:  true,
}

// IsGelLike reports whether id is in cshLike: a CSH-family phase or one of
// CH, C3AH6, AFM, AFMC. The diffusion engine seeds walkers into, and admits
// walker moves into, these phases alongside porosity.
func IsGelLike(id PhaseId) bool { return cshLike[id] }

var aggregateLike = map[PhaseId]bool{
	AGG:      true,
	INERTAGG: true,
	FILLER:   true,
}

// IsAggregate reports whether id is an aggregate-family phase.
func IsAggregate(id PhaseId) bool { return aggregateLike[id] }

// IsSolid reports whether id is NOT a member of the porosity-like set.
// Every "porosity" voxel is porosity-like and every "solid" voxel is not,
// per the Grid invariant in spec §3.
func IsSolid(id PhaseId) bool { return !porosityLike[id] }

// reactionRule is one row of the §4.3/Design-Notes phase behavior table
// (reactionTable): whether a
// phase reacts with a diffusing walker, its stoichiometric threshold, and
// the product phase it transitions to once the threshold is reached.
type reactionRule struct {
	threshold int
	product   PhaseId
}

var reactionTable = map[PhaseId]reactionRule{
	CH:    {threshold: 90, product: GYPSUM},
	C3AH6: {threshold: 20, product: AFM},
	AFM:   {threshold: 19, product: ETTR},
	AFMC:  {threshold: 34, product: ETTR},
}

// IsReactive reports whether id has a stoichiometric reaction rule.
func IsReactive(id PhaseId) bool {
	_, ok := reactionTable[id]
	return ok
}

// ReactionThreshold returns the per-voxel reaction-counter threshold for id,
// and false if id has no reaction rule.
func ReactionThreshold(id PhaseId) (int, bool) {
	r, ok := reactionTable[id]
	return r.threshold, ok
}

// ReactionProduct returns the phase id transitions to once its reaction
// counter reaches threshold, and false if id has no reaction rule.
func ReactionProduct(id PhaseId) (PhaseId, bool) {
	r, ok := reactionTable[id]
	return r.product, ok
}

// blockingReactive marks phases that, while reactive, block the arriving walker's
// move (it does not advance into the voxel) regardless of reaction outcome
// (§4.3 step 4: AFM, C3AH6, AFMC).
var blockingReactive = map[PhaseId]bool{
	AFM:   true,
	C3AH6: true,
	AFMC:  true,
}

// IsBlocking reports whether a walker that reacts at id still fails to
// move into the voxel.
func IsBlocking(id PhaseId) bool { return blockingReactive[id] }

// remapTable maps (version, old id) -> current id. The remap is total:
// any id not present in a version's table maps to itself. It is also
// idempotent since every value it can produce is already a fixed point of
// its own version's table (re-running the current version's rows is a
// no-op on an already-current id).
var remapTable = map[string]map[PhaseId]PhaseId{
	// Version "1.0" grids packed some of today's split phases into a single
	// legacy id; this table recovers the current split. Unlisted ids pass
	// through unchanged.
	"1.0": {
		PhaseId(23): CACO3,   // legacy "filler carbonate" slot
		PhaseId(24): POZZCSH, // legacy "pozzolan reaction product" slot
		PhaseId(25): SLAGCSH, // legacy "slag reaction product" slot
	},
}

// RemapPhase rewrites id read from a grid tagged with the given version
// string into the current id space. Remapping is total (ids absent from the
// version's table pass through unchanged) and idempotent: remapping the
// result a second time under the same version returns it unchanged, because
// no id a version's table produces is itself a key of that table.
func RemapPhase(id PhaseId, version string) PhaseId {
	table, ok := remapTable[version]
	if !ok {
		return id
	}
	if mapped, ok := table[id]; ok {
		return mapped
	}
	return id
}
