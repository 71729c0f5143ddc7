package diffuse

import (
	"testing"

	"github.com/vcctl/vcctl-core/internal/grid"
)

func TestEngine_Run_WalkerConservationAndBounds(t *testing.T) {
	// GIVEN a 20^3 grid of plain porosity and a modest molarity/cycle count
	g := grid.New(20, 20, 20, 1.0)
	cfg := &Config{Molarity: 0.1, Preact: 0.0, Ncyc: 10, InitDepth: 5, Seed: 11}
	e := NewEngine(cfg)

	// WHEN the engine runs
	res, err := e.Run(g, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.CyclesRan != cfg.Ncyc {
		t.Fatalf("CyclesRan = %d, want %d", res.CyclesRan, cfg.Ncyc)
	}

	// THEN Ndiff sums to the active walker count (spec §8 conservation),
	// and no walker sits outside [0, Nz+1] (spec §8 bounds invariant).
	if got, want := e.pop.NdiffTotal(), e.pop.Active(); got != want {
		t.Errorf("NdiffTotal() = %d, want Active() = %d", got, want)
	}
	for _, w := range e.pop.Walkers {
		if w.Z < 0 || w.Z > g.Nz+1 {
			t.Fatalf("walker at z=%d out of bounds [0,%d]", w.Z, g.Nz+1)
		}
	}
}

func TestEngine_Run_ZeroReactionProbabilityLeavesCountersAtZero(t *testing.T) {
	// GIVEN a grid with a CH slab at z=15 and preact=0 (scenario 4 of spec §8)
	g := grid.New(30, 30, 30, 1.0)
	for y := 0; y < g.Ny; y++ {
		for x := 0; x < g.Nx; x++ {
			g.Set(x, y, 15, grid.CH)
		}
	}
	cfg := &Config{Molarity: 0.1, Preact: 0.0, Ncyc: 20, InitDepth: 3, Seed: 3}
	e := NewEngine(cfg)

	// WHEN the engine runs with zero reaction probability
	_, err := e.Run(g, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN no voxel reacted: every layer's reacted counters stay at zero
	for z, s := range e.layers.Layers {
		if s.ReactedCH != 0 || s.ReactedAFM != 0 || s.ReactedC3AH6 != 0 || s.ReactedAFMC != 0 {
			t.Errorf("layer %d: nonzero reacted counters with preact=0: %+v", z, s)
		}
	}
}

func TestConfig_Validate_RejectsOutOfRangePreact(t *testing.T) {
	// GIVEN a config with an out-of-range reaction probability
	cfg := &Config{Preact: 1.5}

	// WHEN validated
	err := cfg.Validate()

	// THEN it is rejected
	if err == nil {
		t.Error("Validate() with Preact=1.5 should fail")
	}
}
