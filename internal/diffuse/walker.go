// Package diffuse implements the sulfate-attack diffusion engine (spec
// §4.3): a many-walker random walk ingressing from the top surface, with
// reaction kinetics, product precipitation into neighboring voids, strain
// accounting when no void is available, and per-layer bookkeeping.
package diffuse

// Walker is a diffusing species token: a compact (x,y,z) record. Walkers
// are boson (multiple may occupy the same voxel), per spec §3.
type Walker struct {
	X, Y, Z int
}

// Population is the compact, in-place-updated array of active walkers plus
// the per-z-slice accounting vector Ndiff, per spec §3 ("walker count per
// z-slice matches the Ndiff[z] accounting vector").
type Population struct {
	Walkers []Walker
	Ndiff   []int // length Nz+2 (reservoir layer 0 .. solid sentinel Nz+1)
}

// NewPopulation allocates an empty population sized for nz+2 layers
// (reservoir at 0, solid sentinel at nz+1, per spec §4.3 geometry).
func NewPopulation(nz int) *Population {
	return &Population{Ndiff: make([]int, nz+2)}
}

// Add appends a walker and increments its layer's count.
func (p *Population) Add(w Walker) {
	p.Walkers = append(p.Walkers, w)
	p.Ndiff[w.Z]++
}

// RemoveAt removes the walker at index i (swap-with-last, O(1)), updating
// Ndiff for its layer.
func (p *Population) RemoveAt(i int) {
	w := p.Walkers[i]
	p.Ndiff[w.Z]--
	last := len(p.Walkers) - 1
	p.Walkers[i] = p.Walkers[last]
	p.Walkers = p.Walkers[:last]
}

// MoveTo updates walker i's position, adjusting Ndiff for the old and new
// layer.
func (p *Population) MoveTo(i int, w Walker) {
	old := p.Walkers[i]
	p.Ndiff[old.Z]--
	p.Walkers[i] = w
	p.Ndiff[w.Z]++
}

// Active returns the number of walkers currently in the population.
func (p *Population) Active() int { return len(p.Walkers) }

// NdiffTotal sums Ndiff across every layer (used by the conservation test:
// spec §8 "Sum_z Ndiff[z] == activeWalkers").
func (p *Population) NdiffTotal() int {
	total := 0
	for _, n := range p.Ndiff {
		total += n
	}
	return total
}
