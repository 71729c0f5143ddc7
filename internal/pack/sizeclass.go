package pack

import "gonum.org/v1/gonum/integrate"

// SizeClass describes one (volumeTotal, radiusMin, radiusMax) entry from an
// aggregate size distribution source, in µm, per spec §4.2. Size classes are
// processed largest-first by the caller.
type SizeClass struct {
	VolumeTotal float64 // µm^3 requested for this class
	RadiusMin   float64
	RadiusMax   float64
	Large       bool // whether pore-radius ranking applies (class index > threshold)
}

// quadPoints is the number of evenly spaced samples used to numerically
// integrate r^3 and r^4 over [radiusMin,radiusMax] via the trapezoidal
// rule, mirroring the source's quadrature rather than the closed form.
const quadPoints = 101

// MeanRadius returns r_bar = (integral r^4 dr) / (integral r^3 dr) over
// [RadiusMin, RadiusMax], both integrated by the trapezoidal rule, per
// spec §4.2.
func (c SizeClass) MeanRadius() float64 {
	if c.RadiusMax <= c.RadiusMin {
		return c.RadiusMin
	}
	r := make([]float64, quadPoints)
	r3 := make([]float64, quadPoints)
	r4 := make([]float64, quadPoints)
	step := (c.RadiusMax - c.RadiusMin) / float64(quadPoints-1)
	for i := 0; i < quadPoints; i++ {
		ri := c.RadiusMin + float64(i)*step
		r[i] = ri
		r3[i] = ri * ri * ri
		r4[i] = ri * ri * ri * ri
	}
	num := integrate.Trapezoidal(r, r4)
	den := integrate.Trapezoidal(r, r3)
	if den == 0 {
		return c.RadiusMin
	}
	return num / den
}

// ParticleVolume returns the representative single-particle volume for the
// class: (4/3)*pi*r_bar^3 with r_bar from MeanRadius.
func (c SizeClass) ParticleVolume() float64 {
	rBar := c.MeanRadius()
	return (4.0 / 3.0) * pi * rBar * rBar * rBar
}

const pi = 3.14159265358979323846

// ParticleCount returns the number of particles to place for this class
// given the voxel volume of one representative particle (voxelsPerParticle,
// already converted from ParticleVolume by the caller using the grid
// resolution), per spec §4.2:
// floor(volumeTotal/voxelsPerParticle + 0.5).
func (c SizeClass) ParticleCount(voxelsPerParticle float64) int {
	if voxelsPerParticle <= 0 {
		return 0
	}
	n := c.VolumeTotal/voxelsPerParticle + 0.5
	if n < 0 {
		return 0
	}
	return int(n)
}
