package pack

import (
	"math"
	"testing"
)

func TestSizeClass_MeanRadius_WithinRange(t *testing.T) {
	// GIVEN a size class with a radius range
	c := SizeClass{RadiusMin: 2, RadiusMax: 10}

	// WHEN the volume-weighted mean radius is computed
	rBar := c.MeanRadius()

	// THEN it falls within [RadiusMin, RadiusMax] (it is weighted
	// toward the larger end since r^4 grows faster than r^3)
	if rBar < c.RadiusMin || rBar > c.RadiusMax {
		t.Errorf("MeanRadius() = %v, want within [%v,%v]", rBar, c.RadiusMin, c.RadiusMax)
	}
	if rBar < (c.RadiusMin+c.RadiusMax)/2 {
		t.Errorf("MeanRadius() = %v, want biased toward the larger radius (>%v)", rBar, (c.RadiusMin+c.RadiusMax)/2)
	}
}

func TestSizeClass_ParticleCount_RoundsHalfUp(t *testing.T) {
	// GIVEN a class whose volume divides voxelsPerParticle to exactly x.5
	c := SizeClass{VolumeTotal: 25}

	// WHEN ParticleCount is computed with voxelsPerParticle=10 (2.5 -> 3)
	got := c.ParticleCount(10)

	// THEN floor(2.5+0.5) = 3
	if got != 3 {
		t.Errorf("ParticleCount() = %d, want 3", got)
	}
}

func TestSizeClass_ParticleVolume_MatchesSphereFormula(t *testing.T) {
	// GIVEN a degenerate size class (min==max==r), so MeanRadius==r exactly
	r := 5.0
	c := SizeClass{RadiusMin: r, RadiusMax: r}

	// WHEN ParticleVolume is computed
	got := c.ParticleVolume()

	// THEN it matches the classical sphere volume formula
	want := (4.0 / 3.0) * math.Pi * r * r * r
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("ParticleVolume() = %v, want %v", got, want)
	}
}
