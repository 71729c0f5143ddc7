package probe

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// Gel-porosity fractions: the constant fraction of a gel-like solid voxel's
// volume that is itself pore space, always assumed saturated (self-
// desiccation within the gel is not modeled), per spec §4.5.
const (
	cshGelPorosity     = 0.38
	pozzCshGelPorosity = 0.20
	slagCshGelPorosity = 0.20
)

// CubeMin is the smallest Cubesize dryout's adaptive search will shrink to.
const CubeMin = 3

// DryoutConfig is the drying engine's YAML-loadable configuration bundle.
type DryoutConfig struct {
	TargetSaturation float64 `yaml:"target_saturation"`
	CubeSize         int     `yaml:"cube_size"`
}

// LoadDryoutConfig reads and strictly decodes a drying config from path.
func LoadDryoutConfig(path string) (*DryoutConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dryout config: %w", err)
	}
	var cfg DryoutConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing dryout config: %w", err)
	}
	if cfg.CubeSize <= 0 {
		cfg.CubeSize = 7
	}
	return &cfg, nil
}

// Validate checks that DryoutConfig's fields are physically sensible.
func (c *DryoutConfig) Validate() error {
	if c.TargetSaturation < 0 || c.TargetSaturation > 1 {
		return fmt.Errorf("target_saturation must be in [0,1], got %v", c.TargetSaturation)
	}
	if c.CubeSize < CubeMin {
		return fmt.Errorf("cube_size must be >= %d, got %v", CubeMin, c.CubeSize)
	}
	if c.CubeSize%2 == 0 {
		return fmt.Errorf("cube_size must be odd (a centered cube), got %v", c.CubeSize)
	}
	return nil
}

// DryoutResult reports what the run actually did, since the requested
// TargetSaturation may be unreachable (bounded below by the gel-porosity-only
// limit) and the cube size may have been adapted down from the configured
// value.
type DryoutResult struct {
	Ndesire            int
	Removed            int
	CubeSize           int
	AchievedSaturation float64
	GelFloor           float64
}

// porosityAccounting scans g once for: capTotal (every porosity-like voxel,
// wet or already dry), satCount (voxels still POROSITY, i.e. currently
// saturated capillary pore), and gelVol (the always-saturated gel pore
// volume contributed by CSH/POZZCSH/SLAGCSH solid voxels).
func porosityAccounting(g *grid.Grid) (capTotal, satCount int, gelVol float64) {
	for _, p := range g.Phase {
		switch {
		case p == grid.POROSITY:
			capTotal++
			satCount++
		case grid.IsPorosityLike(p):
			capTotal++
		case p == grid.CSH:
			gelVol += cshGelPorosity
		case p == grid.POZZCSH:
			gelVol += pozzCshGelPorosity
		case p == grid.SLAGCSH:
			gelVol += slagCshGelPorosity
		}
	}
	return
}

// Dryout removes exactly Ndesire saturated capillary-pore voxels (flipping
// POROSITY to EMPTYP) to bring the grid's overall degree of saturation down
// to cfg.TargetSaturation, per spec §4.5.
func Dryout(g *grid.Grid, cfg DryoutConfig) (DryoutResult, error) {
	if err := cfg.Validate(); err != nil {
		return DryoutResult{}, err
	}

	capTotal, satCount, gelVol := porosityAccounting(g)
	totalPoreVolume := float64(capTotal) + gelVol
	if totalPoreVolume <= 0 {
		return DryoutResult{}, fmt.Errorf("grid has no porosity-like or gel-bearing voxels")
	}
	gelFloor := gelVol / totalPoreVolume

	target := cfg.TargetSaturation
	if target < gelFloor {
		target = gelFloor
	}

	ndesireF := float64(satCount) + gelVol - target*totalPoreVolume
	ndesire := int(math.Round(ndesireF))
	if ndesire < 0 {
		ndesire = 0
	}
	if ndesire > satCount {
		ndesire = satCount
	}

	result := DryoutResult{Ndesire: ndesire, CubeSize: cfg.CubeSize, GelFloor: gelFloor}
	if ndesire == 0 {
		result.AchievedSaturation = (float64(satCount) + gelVol) / totalPoreVolume
		return result, nil
	}

	cubeSize := cfg.CubeSize
	var cl *CubeList
	for {
		cl = NewCubeList(ndesire)
		maxScore := rankCandidates(g, cubeSize, cl)
		volume := cubeSize * cubeSize * cubeSize
		if float64(maxScore) < float64(volume)/2 && cubeSize-2 >= CubeMin {
			cubeSize -= 2
			continue
		}
		break
	}

	voxels := cl.Voxels()
	for _, v := range voxels {
		g.Phase[v] = grid.EMPTYP
	}

	result.Removed = len(voxels)
	result.CubeSize = cubeSize
	result.AchievedSaturation = (float64(satCount-len(voxels)) + gelVol) / totalPoreVolume
	return result, nil
}

// rankCandidates scores every currently-saturated (POROSITY) voxel by the
// count of porosity-like voxels in a centered, periodic cube of side
// cubeSize and offers it into cl, per spec §4.5 step "Ranking". Returns the
// highest score observed, used by Dryout's adaptive Cubesize search.
func rankCandidates(g *grid.Grid, cubeSize int, cl *CubeList) int {
	maxScore := 0
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				v := g.Index(x, y, z)
				if g.Phase[v] != grid.POROSITY {
					continue
				}
				score := cubeScore(g, x, y, z, cubeSize)
				if score > maxScore {
					maxScore = score
				}
				cl.Offer(v, float64(score))
			}
		}
	}
	return maxScore
}

// cubeScore counts porosity-like voxels in the cube of side size centered on
// (cx,cy,cz), periodic on all three axes.
func cubeScore(g *grid.Grid, cx, cy, cz, size int) int {
	half := (size - 1) / 2
	count := 0
	for dz := -half; dz <= half; dz++ {
		z := grid.Wrap(cz+dz, g.Nz)
		for dy := -half; dy <= half; dy++ {
			y := grid.Wrap(cy+dy, g.Ny)
			for dx := -half; dx <= half; dx++ {
				x := grid.Wrap(cx+dx, g.Nx)
				if grid.IsPorosityLike(g.Phase[g.Index(x, y, z)]) {
					count++
				}
			}
		}
	}
	return count
}
