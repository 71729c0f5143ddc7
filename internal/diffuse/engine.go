package diffuse

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vcctl/vcctl-core/internal/grid"
	"github.com/vcctl/vcctl-core/internal/rng"
)

const engineName = "diffuse"

// molarityDivisor converts a molar sulfate concentration to walkers per
// voxel of resolution R (µm), per spec §4.3 "Initial population".
const molarityDivisor = 0.334892

// Config is the diffusion engine's YAML-loadable configuration bundle.
type Config struct {
	Molarity float64 `yaml:"molarity"`
	Preact   float64 `yaml:"preact"`
	Ncyc     int     `yaml:"ncyc"`
	InitDepth int    `yaml:"init_depth"`
	Seed     int64   `yaml:"seed"`
}

// LoadConfig reads and strictly decodes a diffusion engine config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading diffusion config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing diffusion config: %w", err)
	}
	if cfg.Ncyc <= 0 {
		cfg.Ncyc = 100
	}
	return &cfg, nil
}

// Validate checks that Config's fields are physically sensible.
func (c *Config) Validate() error {
	if c.Molarity < 0 {
		return fmt.Errorf("molarity must be non-negative, got %v", c.Molarity)
	}
	if c.Preact < 0 || c.Preact > 1 {
		return fmt.Errorf("preact must be in [0,1], got %v", c.Preact)
	}
	if c.InitDepth < 0 {
		return fmt.Errorf("init_depth must be non-negative, got %v", c.InitDepth)
	}
	return nil
}

// Result is the diffusion engine's output: the mutated grid, the final
// layer accounting (used for plot output and testing), and the number of
// cycles actually executed.
type Result struct {
	Grid      *grid.Grid
	Layers    *LayerAccounting
	CyclesRan int
}

// Engine runs the sulfate-attack diffusion lifecycle of spec §4.3.
type Engine struct {
	cfg     *Config
	rngs    *rng.Partitioned
	nantsurf int

	pop    *Population
	layers *LayerAccounting
	counter []int // per-voxel reaction counter, same length/index as grid.Phase
	nrcap   []int // per padded-layer capillary-void target, decremented by extphase successes

	nextWalkerID int
}

// NewEngine constructs a diffusion Engine from cfg.
func NewEngine(cfg *Config) *Engine {
	return &Engine{cfg: cfg, rngs: rng.NewPartitioned(rng.NewSeedKey(cfg.Seed))}
}

// Run seeds the initial walker population and executes up to cfg.Ncyc
// per-cycle steps over g. g is mutated in place. When plotW is non-nil, one
// WritePlot line set is appended per cycle, per spec §4.3 "Plot output".
func (e *Engine) Run(g *grid.Grid, plotW io.Writer) (*Result, error) {
	e.layers = NewLayerAccounting(g)
	e.counter = make([]int, len(g.Phase))
	e.nrcap = make([]int, g.Nz+2)
	for z := range e.nrcap {
		e.nrcap[z] = e.layers.Layers[z].Ncap
	}

	walkersPerVoxel := (e.cfg.Molarity / molarityDivisor) * g.R * g.R * g.R
	e.nantsurf = int(walkersPerVoxel*float64(g.Nx*g.Ny) + 0.5)

	e.pop = NewPopulation(g.Nz)
	e.seedReservoir(g)
	e.seedDepth(g, walkersPerVoxel)

	res := &Result{Grid: g, Layers: e.layers}
	for cycle := 0; cycle < e.cfg.Ncyc; cycle++ {
		e.replenishReservoir(g)
		e.moveAll(g)
		res.CyclesRan++
		if plotW != nil {
			if err := WritePlot(plotW, cycle, e.layers, e.pop); err != nil {
				return res, fmt.Errorf("writing diffusion plot output: %w", err)
			}
		}
	}
	return res, nil
}

// seedReservoir fills the z=0 padded layer (pure porosity reservoir) to
// Nantsurf walkers.
func (e *Engine) seedReservoir(g *grid.Grid) {
	stream := e.rngs.Stream("reservoir")
	for e.pop.Ndiff[0] < e.nantsurf {
		x := stream.Intn(maxInt(g.Nx, 1))
		y := stream.Intn(maxInt(g.Ny, 1))
		e.addWalker(Walker{X: x, Y: y, Z: 0})
	}
}

// seedDepth seeds layers 1..InitDepth by random placement, skipping voxels
// whose phase is not porosity-like or gel-like, targeting a per-layer count
// derived from the layer's local capillary+gel volume.
func (e *Engine) seedDepth(g *grid.Grid, walkersPerVoxel float64) {
	depth := e.cfg.InitDepth
	if depth > g.Nz {
		depth = g.Nz
	}
	for z := 0; z < depth; z++ {
		stats := e.layers.Layers[z+1]
		target := int(walkersPerVoxel*(float64(stats.Ncap)+stats.Gel) + 0.5)
		if target <= 0 {
			continue
		}
		stream := e.rngs.Stream(fmt.Sprintf("seed_layer_%d", z))
		placed := 0
		maxAttempts := target * 50
		for attempt := 0; placed < target && attempt < maxAttempts; attempt++ {
			x := stream.Intn(maxInt(g.Nx, 1))
			y := stream.Intn(maxInt(g.Ny, 1))
			phase := g.At(x, y, z)
			if !grid.IsPorosityLike(phase) && !grid.IsGelLike(phase) {
				continue
			}
			e.addWalker(Walker{X: x, Y: y, Z: z + 1})
			placed++
		}
		if placed < target {
			logrus.Warnf("[%s] layer %d: seeded only %d/%d walkers (too few eligible voxels)", engineName, z, placed, target)
		}
	}
}

func (e *Engine) addWalker(w Walker) {
	e.pop.Add(w)
	e.nextWalkerID++
}

// replenishReservoir tops up or drains the z=0 layer so Ndiff[0]==Nantsurf,
// per spec §4.3 step 1.
func (e *Engine) replenishReservoir(g *grid.Grid) {
	stream := e.rngs.Stream("reservoir")
	for e.pop.Ndiff[0] < e.nantsurf {
		x := stream.Intn(maxInt(g.Nx, 1))
		y := stream.Intn(maxInt(g.Ny, 1))
		e.addWalker(Walker{X: x, Y: y, Z: 0})
	}
	for e.pop.Ndiff[0] > e.nantsurf {
		idx := e.firstInLayer(0)
		if idx < 0 {
			break
		}
		e.pop.RemoveAt(idx)
	}
}

func (e *Engine) firstInLayer(z int) int {
	for i, w := range e.pop.Walkers {
		if w.Z == z {
			return i
		}
	}
	return -1
}

// moveAll runs one random move+reaction step for every active walker, per
// spec §4.3 steps 2-4. Walkers are visited in a fixed order (current
// population order) so that reaction-counter increments are reproducible.
func (e *Engine) moveAll(g *grid.Grid) {
	i := 0
	for i < len(e.pop.Walkers) {
		w := e.pop.Walkers[i]
		absorbed := e.stepWalker(g, i, w)
		if absorbed {
			// stepWalker already removed the walker via RemoveAt; the
			// swapped-in walker now occupies index i and must still be
			// visited this cycle, so don't advance i.
			continue
		}
		i++
	}
}

// stepWalker moves the walker at population index i one random face step,
// applies the spec §4.3 steps 3-4 arrival/reaction logic, and reports
// whether the walker was absorbed (removed from the population).
func (e *Engine) stepWalker(g *grid.Grid, i int, w Walker) bool {
	stream := e.rngs.ForWalker(walkerIdentity(w, e.nextWalkerID))
	dir := stream.Intn(6)
	nx, ny, nz := w.X, w.Y, w.Z
	switch dir {
	case 0:
		nx++
	case 1:
		nx--
	case 2:
		ny++
	case 3:
		ny--
	case 4:
		nz++
	case 5:
		nz--
	}
	nx = grid.Wrap(nx, g.Nx)
	ny = grid.Wrap(ny, g.Ny)
	if nz < 0 || nz > g.Nz+1 {
		return false // blocked: bounces in place, cycle-silent per §7
	}

	if nz == 0 || nz == g.Nz+1 {
		// reservoir or solid sentinel: reservoir always admits (no
		// reaction there); the solid sentinel never admits.
		if nz == 0 {
			e.pop.MoveTo(i, Walker{X: nx, Y: ny, Z: nz})
		}
		return false
	}

	origZ := nz - 1
	phase := g.At(nx, ny, origZ)
	layerStats := e.layers.Layers[nz]
	if !movePermitted(phase, layerStats) {
		return false // CH gate not yet open, or disallowed phase: bounce
	}

	if reactive(phase) {
		absorbed := e.react(g, nx, ny, origZ, nz, phase, stream)
		if absorbed {
			e.pop.RemoveAt(i)
			return true
		}
		if blocksOnReact(phase) {
			return false // blocking phase: stays put even without a reaction this step
		}
	}

	e.pop.MoveTo(i, Walker{X: nx, Y: ny, Z: nz})
	return false
}

// react applies spec §4.3 step 4 at the destination voxel: with probability
// Preact, increments the voxel's reaction counter; on reaching the phase's
// stoichiometric threshold, transitions the voxel and fires extphase and
// removech. Returns true if the walker was absorbed (the voxel converted).
func (e *Engine) react(g *grid.Grid, x, y, origZ, paddedZ int, phase grid.PhaseId, stream randSource) bool {
	if stream.Float64() >= e.cfg.Preact {
		return false
	}
	voxel := g.Index(x, y, origZ)
	threshold, _ := grid.ReactionThreshold(phase)
	e.counter[voxel]++
	if e.counter[voxel] < threshold {
		return false
	}

	product, _ := grid.ReactionProduct(phase)
	e.counter[voxel] = 0
	g.Phase[voxel] = product
	e.recordReacted(phase, paddedZ)

	e.extphase(g, product, x, y, origZ, paddedZ)
	e.removech(g, x, y, origZ, paddedZ)
	return true
}

func (e *Engine) recordReacted(phase grid.PhaseId, paddedZ int) {
	stats := &e.layers.Layers[paddedZ]
	switch phase {
	case grid.CH:
		stats.ReactedCH++
	case grid.C3AH6:
		stats.ReactedC3AH6++
	case grid.AFM:
		stats.ReactedAFM++
	case grid.AFMC:
		stats.ReactedAFMC++
	}
}

// walkerIdentity derives a stable per-walker substream key from its current
// position and a monotonically increasing birth counter, approximating the
// spec's "one RNG stream per walker" rule without a persistent walker id
// field on the compact Walker record.
func walkerIdentity(w Walker, generation int) int {
	return ((w.X*31+w.Y)*31+w.Z)*31 + generation
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// randSource is the subset of *rand.Rand the reaction/precipitation helpers
// use; it lets phasetable-level helpers stay test-friendly.
type randSource interface {
	Intn(n int) int
	Float64() float64
}
