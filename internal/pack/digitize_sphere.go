package pack

import "math"

// sphereCand is a candidate voxel during sphere digitization: its flat
// Bbox offset and squared distance from the box center.
type sphereCand struct {
	idx  int
	dist float64
}

// DigitizeSphere produces a Bbox for a sphere of radius r (µm, already
// converted to voxel units by the caller) via classical Bresenham-style
// digitization to a target voxel count, per spec §4.2 "Sphere mode". The
// bounding box diameter is ceil(2r).
func DigitizeSphere(r float64, target int) *Bbox {
	diam := int(math.Ceil(2 * r))
	if diam < 1 {
		diam = 1
	}
	b := &Bbox{Dx: diam, Dy: diam, Dz: diam, Mask: make([]bool, diam*diam*diam)}
	center := float64(diam-1) / 2.0

	var cands []sphereCand
	for k := 0; k < diam; k++ {
		for j := 0; j < diam; j++ {
			for i := 0; i < diam; i++ {
				dx := float64(i) - center
				dy := float64(j) - center
				dz := float64(k) - center
				d := dx*dx + dy*dy + dz*dz
				if d <= r*r {
					cands = append(cands, sphereCand{idx: b.Index(i, j, k), dist: d})
				}
			}
		}
	}
	if target <= 0 || target >= len(cands) {
		for _, c := range cands {
			b.Mask[c.idx] = true
		}
		return b
	}
	// Bresenham-style digitization: take the `target` voxels closest to the
	// sphere's center first, so the digitized shape stays round as voxel
	// count is trimmed to an exact target.
	sortCandsByDistAsc(cands)
	for i := 0; i < target; i++ {
		b.Mask[cands[i].idx] = true
	}
	return b
}

func sortCandsByDistAsc(c []sphereCand) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].dist < c[j-1].dist; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}
