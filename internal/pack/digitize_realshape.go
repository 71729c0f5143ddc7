package pack

import (
	"math"
	"math/rand"
)

// maxRescaleIterations caps the coefficient-rescaling loop of §4.2 real-
// shape digitization at 2 iterations.
const maxRescaleIterations = 2

// volumeTolerance returns the allowed absolute voxel-count difference
// before the rescale loop stops: max(4, 3% of target), per spec §4.2.
func volumeTolerance(target int) int {
	pct := int(math.Round(0.03 * float64(target)))
	if pct < 4 {
		return 4
	}
	return pct
}

// ShapeVolume numerically integrates the enclosed volume of the radial
// surface rho(theta,phi) using the supplied Gauss quadrature nodes for
// theta (via xg=cos(theta)) and a uniform phi grid of the same count, per
// spec §4.2: V = integral (1/3) rho^3 dOmega.
func ShapeVolume(coeffs *ShapeCoeffs, nodes []QuadratureNode) float64 {
	nPhi := len(nodes)
	dPhi := 2 * math.Pi / float64(nPhi)
	total := 0.0
	for _, tn := range nodes {
		theta := math.Acos(clamp(tn.Xg, -1, 1))
		for p := 0; p < nPhi; p++ {
			phi := float64(p) * dPhi
			rho := RadiusAt(coeffs, theta, phi)
			if rho < 0 {
				rho = 0
			}
			total += tn.Wg * dPhi * (rho * rho * rho) / 3.0
		}
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FitShapeToVolume rescales coeffs by (target/computed)^(1/3) and
// recomputes the volume, iterating up to maxRescaleIterations times or
// until the voxel-count difference is within volumeTolerance(target), per
// spec §4.2.
func FitShapeToVolume(coeffs *ShapeCoeffs, nodes []QuadratureNode, target int) *ShapeCoeffs {
	current := coeffs
	tol := volumeTolerance(target)
	for iter := 0; iter < maxRescaleIterations; iter++ {
		computed := ShapeVolume(current, nodes)
		if computed <= 0 {
			break
		}
		diff := int(math.Abs(computed - float64(target)))
		if diff <= tol {
			break
		}
		factor := math.Cbrt(float64(target) / computed)
		current = current.Scale(factor)
	}
	return current
}

// VoxelizeRealShape tests r(i,j,k) <= rho(theta,phi) over a box of the
// given half-extent (in voxels) for every local grid point, producing a
// Bbox, per spec §4.2.
func VoxelizeRealShape(coeffs *ShapeCoeffs, halfExtent int) *Bbox {
	dim := 2*halfExtent + 1
	b := &Bbox{Dx: dim, Dy: dim, Dz: dim, Mask: make([]bool, dim*dim*dim)}
	center := float64(halfExtent)
	for k := 0; k < dim; k++ {
		for j := 0; j < dim; j++ {
			for i := 0; i < dim; i++ {
				dx := float64(i) - center
				dy := float64(j) - center
				dz := float64(k) - center
				r := math.Sqrt(dx*dx + dy*dy + dz*dz)
				if r == 0 {
					b.Mask[b.Index(i, j, k)] = true
					continue
				}
				theta := math.Acos(clamp(dz/r, -1, 1))
				phi := math.Atan2(dy, dx)
				if phi < 0 {
					phi += 2 * math.Pi
				}
				rho := RadiusAt(coeffs, theta, phi)
				if r <= rho {
					b.Mask[b.Index(i, j, k)] = true
				}
			}
		}
	}
	return b
}

// AdjustVol surgically flips surface voxels (drawn from the 6-neighbor-
// defined surface set, per §4.2) until the box's AGG voxel count matches
// target exactly. rng drives the random selection.
func AdjustVol(b *Bbox, target int, rng *rand.Rand) {
	for {
		count := b.VoxelCount()
		if count == target {
			return
		}
		if count > target {
			surf := b.SurfaceVoxels()
			if len(surf) == 0 {
				return
			}
			pick := surf[rng.Intn(len(surf))]
			b.Mask[b.Index(pick[0], pick[1], pick[2])] = false
		} else {
			surf := exteriorSurfaceVoxels(b)
			if len(surf) == 0 {
				return
			}
			pick := surf[rng.Intn(len(surf))]
			b.Mask[b.Index(pick[0], pick[1], pick[2])] = true
		}
	}
}

// exteriorSurfaceVoxels returns non-AGG voxels with at least one AGG
// 6-neighbor: the candidate set AdjustVol grows into when under target.
func exteriorSurfaceVoxels(b *Bbox) [][3]int {
	var out [][3]int
	deltas := [6][3]int{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for k := 0; k < b.Dz; k++ {
		for j := 0; j < b.Dy; j++ {
			for i := 0; i < b.Dx; i++ {
				if b.Mask[b.Index(i, j, k)] {
					continue
				}
				for _, d := range deltas {
					ni, nj, nk := i+d[0], j+d[1], k+d[2]
					if ni < 0 || ni >= b.Dx || nj < 0 || nj >= b.Dy || nk < 0 || nk >= b.Dz {
						continue
					}
					if b.Mask[b.Index(ni, nj, nk)] {
						out = append(out, [3]int{i, j, k})
						break
					}
				}
			}
		}
	}
	return out
}

// ShapesPerBin is the cap on reused digitizations per size class (25
// rotated instances), per spec §4.2.
const ShapesPerBin = 25
