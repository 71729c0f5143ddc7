package pack

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vcctl/vcctl-core/internal/grid"
	"github.com/vcctl/vcctl-core/internal/rng"
	"github.com/vcctl/vcctl-core/internal/vcerr"
)

const engineName = "pack"

// SizeClassSpec is one YAML-configured size class, in µm, per spec §4.2.
type SizeClassSpec struct {
	VolumeTotal float64 `yaml:"volume_total"`
	RadiusMin   float64 `yaml:"radius_min"`
	RadiusMax   float64 `yaml:"radius_max"`
}

// Config is the packing engine's YAML-loadable configuration bundle, in the
// teacher's PolicyBundle style: strict decoding, a Validate() method
// enumerating legal values.
type Config struct {
	SizeClasses         []SizeClassSpec `yaml:"size_classes"`
	Phase               int             `yaml:"phase"`
	Seed                int64           `yaml:"seed"`
	LargeClassThreshold int             `yaml:"large_class_threshold"`
	MaxTries            int             `yaml:"max_tries"`
	AddITZ              bool            `yaml:"add_itz"`
	RealShape           bool            `yaml:"real_shape"`
	ShapeSetDir         string          `yaml:"shape_set_dir"`
	ShapeSet            string          `yaml:"shape_set"`
	QuadratureFile      string          `yaml:"quadrature_file"`
}

// LoadConfig reads and strictly decodes a packing engine config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading packing config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing packing config: %w", err)
	}
	if cfg.MaxTries <= 0 {
		cfg.MaxTries = 100
	}
	return &cfg, nil
}

// Validate checks that every size class and parameter is well-formed.
func (c *Config) Validate() error {
	if len(c.SizeClasses) == 0 {
		return fmt.Errorf("at least one size class is required")
	}
	for i, sc := range c.SizeClasses {
		if sc.RadiusMin <= 0 || sc.RadiusMax < sc.RadiusMin {
			return fmt.Errorf("size class %d: invalid radius range [%v,%v]", i, sc.RadiusMin, sc.RadiusMax)
		}
		if sc.VolumeTotal < 0 {
			return fmt.Errorf("size class %d: negative volume_total %v", i, sc.VolumeTotal)
		}
	}
	if c.Phase <= 0 {
		return fmt.Errorf("phase must be a positive PhaseId, got %d", c.Phase)
	}
	if c.RealShape {
		if c.ShapeSetDir == "" || c.ShapeSet == "" {
			return fmt.Errorf("real_shape mode requires shape_set_dir and shape_set")
		}
		if c.QuadratureFile == "" {
			return fmt.Errorf("real_shape mode requires quadrature_file")
		}
	}
	return nil
}

// Result is the engine's output: the mutated grids, the placed particles,
// and per-class leftover (deferred) volume for diagnostics/testing (spec §8
// "placedVolume + deferredVolume == requestedVolume"). Radii and Shapes feed
// WriteStructure (§6): every placed particle id appears in exactly one of
// the two, keyed by Particle.ID.
type Result struct {
	Grid      *grid.Grid
	PartGrid  *PartGrid
	Particles []*Particle
	Deferred  []float64 // per size class, in input order

	Radii  map[int]float64      // sphere-mode particles: digitization radius
	Shapes map[int]*ShapeCoeffs // real-shape-mode particles: fitted, rotated coefficients
}

// Engine runs the packing lifecycle of spec §4.2 over a starting Grid.
type Engine struct {
	cfg       *Config
	rngs      *rng.Partitioned
	particles []*Particle
	settler   *Settler

	// Real-shape digitization state (spec §4.2 "Real-shape mode"), loaded
	// once on the first Run call when cfg.RealShape is set.
	shapeEntries []ShapeEntry
	shapeCoeffs  map[string]*ShapeCoeffs
	quadNodes    []QuadratureNode
	// classShapes tracks, per size-class index, the shape names drawn so
	// far for that class, capped at ShapesPerBin: once the cap is hit, new
	// particles reuse and re-rotate an already-drawn shape rather than
	// drawing a fresh one.
	classShapes map[int][]string

	// radii/shapeUsed record, per placed particle id, the digitization
	// geometry WriteStructure needs (§6): a radius for sphere mode, or the
	// fitted+rotated coefficient table for real-shape mode.
	radii     map[int]float64
	shapeUsed map[int]*ShapeCoeffs
}

// NewEngine constructs a packing Engine from cfg.
func NewEngine(cfg *Config) *Engine {
	return &Engine{
		cfg:         cfg,
		rngs:        rng.NewPartitioned(rng.NewSeedKey(cfg.Seed)),
		classShapes: make(map[int][]string),
		radii:       make(map[int]float64),
		shapeUsed:   make(map[int]*ShapeCoeffs),
	}
}

// loadShapeDB reads the real-shape database and quadrature file named by
// cfg, caching the result on e. A no-op once loaded.
func (e *Engine) loadShapeDB() error {
	if !e.cfg.RealShape || e.shapeEntries != nil {
		return nil
	}
	entries, coeffs, err := LoadShapeDB(e.cfg.ShapeSetDir, e.cfg.ShapeSet)
	if err != nil {
		return fmt.Errorf("loading real-shape database: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("real-shape database %q in %s is empty", e.cfg.ShapeSet, e.cfg.ShapeSetDir)
	}
	qf, err := os.Open(e.cfg.QuadratureFile)
	if err != nil {
		return fmt.Errorf("opening quadrature file: %w", err)
	}
	defer qf.Close()
	nodes, err := LoadQuadrature(qf)
	if err != nil {
		return fmt.Errorf("loading quadrature file: %w", err)
	}
	e.shapeEntries, e.shapeCoeffs, e.quadNodes = entries, coeffs, nodes
	return nil
}

// Run places aggregate particles into g following cfg's size classes,
// largest first, per spec §4.2. g is mutated in place; the same *grid.Grid
// is returned (loaned in by value semantics at the caller boundary: callers
// that need the original preserved should Clone first).
func (e *Engine) Run(g *grid.Grid) (*Result, error) {
	if err := e.loadShapeDB(); err != nil {
		return nil, vcerr.Newf(engineName, "Run", vcerr.Fatal, "%v", err)
	}

	classes := sortClassesDescending(e.cfg.SizeClasses)
	pg := NewPartGrid(g)
	e.settler = &Settler{Grid: g, Part: pg}

	res := &Result{Grid: g, PartGrid: pg, Deferred: make([]float64, len(classes))}
	nextID := 1
	carry := 0.0

	maxRadius := 0.0
	for _, c := range classes {
		if c.RadiusMax > maxRadius {
			maxRadius = c.RadiusMax
		}
	}

	for ci, spec := range classes {
		if spec.RadiusMin < g.R {
			return nil, vcerr.Newf(engineName, "Run", vcerr.Fatal,
				"size class %d: minimum radius %.3f below grid resolution %.3f (irresolvable)", ci, spec.RadiusMin, g.R)
		}
		class := SizeClass{
			VolumeTotal: spec.VolumeTotal + carry,
			RadiusMin:   spec.RadiusMin,
			RadiusMax:   spec.RadiusMax,
			Large:       ci > e.cfg.LargeClassThreshold,
		}
		carry = 0

		voxelVolume := g.R * g.R * g.R
		particleVolume := class.ParticleVolume()
		voxelsPerParticle := particleVolume / voxelVolume
		count := class.ParticleCount(voxelsPerParticle)

		logrus.Infof("[pack] size class %d: target %d particles (r=%.2f..%.2f um)", ci, count, spec.RadiusMin, spec.RadiusMax)

		placed := 0
		for placed < count {
			ok, err := e.placeOne(g, pg, &nextID, class, int(maxRadius), ci)
			if err != nil {
				if vcerr.IsFatal(err) {
					return nil, err
				}
				logrus.Warnf("[pack] %v", err)
			}
			if !ok {
				// Settling couldn't free any space, or the placement attempts
				// ran out: defer the remainder of this class's volume to the
				// next class and stop, per §4.2.
				remaining := float64(count-placed) * voxelsPerParticle * voxelVolume
				carry += remaining
				logrus.Warnf("[pack] size class %d: could not place remaining %d particles after settling; deferring volume %.1f", ci, count-placed, remaining)
				break
			}
			placed++
		}
		res.Deferred[ci] = carry
	}
	res.Particles = e.particles
	res.Radii = e.radii
	res.Shapes = e.shapeUsed
	if e.cfg.AddITZ {
		AddITZ(g, pg)
	}
	return res, nil
}

// placeOne runs one §4.2 step-2 placement iteration for class: build and
// rank the pore list, repeatedly try a random candidate among the leading
// firstnpores entries, and fall back to settling when the candidate pool is
// exhausted. Returns false when settling cannot free any further space, and
// false with a Recoverable error when all MaxTries attempts fail (in both
// cases the caller defers the remainder of the class).
func (e *Engine) placeOne(g *grid.Grid, pg *PartGrid, nextID *int, class SizeClass, maxRadius, classIdx int) (bool, error) {
	stream := e.rngs.ForParticle(*nextID)

	pores := BuildPoreList(g)
	if class.Large {
		pores.ComputePoreRadii(g, maxRadius)
		pores.SortDescending()
	}

	for attempt := 0; attempt < e.cfg.MaxTries; attempt++ {
		firstN := pores.Len()
		if class.Large {
			firstN = pores.FirstNPores(class.RadiusMin)
		}
		if firstN == 0 {
			settled := e.settler.Settle(e.particles)
			if settled == 0 {
				return false, nil
			}
			pores = BuildPoreList(g)
			if class.Large {
				pores.ComputePoreRadii(g, maxRadius)
				pores.SortDescending()
			}
			continue
		}

		cursor := stream.Intn(firstN)
		arenaIdx := pores.LocateByCursor(cursor)
		voxel := pores.VoxelAt(arenaIdx)
		cx, cy, cz := unflatten(g, voxel)

		target := int(class.ParticleVolume() / (g.R * g.R * g.R))
		var box *Bbox
		var fitted *ShapeCoeffs
		if e.cfg.RealShape {
			box, fitted = e.realShapeBox(stream, classIdx, target)
		} else {
			box = DigitizeSphere(class.RadiusMin, target)
		}
		occupied := TryFit(g, box, cx, cy, cz)
		if occupied == nil {
			pores.Remove(arenaIdx)
			continue
		}

		p := Place(g, pg, *nextID, grid.PhaseId(e.cfg.Phase), box, cx, cy, cz, occupied)
		if fitted != nil {
			e.shapeUsed[p.ID] = fitted
		} else {
			e.radii[p.ID] = class.RadiusMin
		}
		e.particles = append(e.particles, p)
		*nextID++
		return true, nil
	}
	return false, vcerr.Newf(engineName, "placeOne", vcerr.Recoverable,
		"exhausted %d placement attempts for class r=[%v,%v]", e.cfg.MaxTries, class.RadiusMin, class.RadiusMax)
}

// realShapeBox digitizes a real-aggregate shape for target voxels, per spec
// §4.2 "Real-shape mode": draw (or reuse) a database shape per classIdx's
// ShapesPerBin reuse-and-rotate rule, apply a fresh random rotation, rescale
// to the target volume, voxelize, and trim to the exact voxel count. Returns
// the box alongside the fitted coefficient table actually used, so the
// caller can record it for WriteStructure.
func (e *Engine) realShapeBox(stream *rand.Rand, classIdx, target int) (*Bbox, *ShapeCoeffs) {
	names := e.classShapes[classIdx]
	var name string
	if len(names) < ShapesPerBin {
		name = e.shapeEntries[stream.Intn(len(e.shapeEntries))].Name
		e.classShapes[classIdx] = append(names, name)
	} else {
		name = names[stream.Intn(len(names))]
	}

	rot := EulerAngles{AlphaSteps: stream.Intn(4), BetaSteps: stream.Intn(4), GammaSteps: stream.Intn(4)}
	rotated := e.shapeCoeffs[name].Rotate(rot)
	fitted := FitShapeToVolume(rotated, e.quadNodes, target)

	halfExtent := int(math.Cbrt(3*float64(target)/(4*math.Pi))) + 2
	box := VoxelizeRealShape(fitted, halfExtent)
	AdjustVol(box, target, stream)
	return box, fitted
}

func sortClassesDescending(specs []SizeClassSpec) []SizeClassSpec {
	out := make([]SizeClassSpec, len(specs))
	copy(out, specs)
	sort.Slice(out, func(i, j int) bool { return out[i].RadiusMax > out[j].RadiusMax })
	return out
}
