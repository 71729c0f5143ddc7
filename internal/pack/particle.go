// Package pack implements the aggregate packing engine (spec §4.2): particle
// placement driven by a pore-size-indexed free-space search, real-shape
// digitization via spherical-harmonic reconstruction, rigid settling, and
// ITZ layering. It produces a phase-id Grid and a parallel particle-id grid.
package pack

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// Particle is one placed aggregate, per spec §3. Center and Extents use
// mgl64.Vec3 for the rigid-translation math the settler and fit test do
// against the Grid's periodic coordinate space.
type Particle struct {
	ID      int
	Phase   grid.PhaseId
	Center  mgl64.Vec3 // bounding-box center, voxel coordinates
	Extents mgl64.Vec3 // bounding-box half-extents, voxel coordinates

	Voxels  []int // flat grid indices this particle owns
	Periph  []int // subset of Voxels adjacent to a non-aggregate voxel
	MinZVox int    // index into Voxels of the voxel with smallest z

	Settled bool
}

// Bbox is a local digitized bounding-box template: for each local voxel
// offset within the box, whether it belongs to the particle (AGG) or not.
// Real-shape and sphere digitization both produce a Bbox; Fit and Place
// only need this common shape, never the digitization method that produced
// it (Design Notes: "Dynamic dispatch -> tagged variants" behind one
// interface).
type Bbox struct {
	Dx, Dy, Dz int    // box dimensions in voxels
	Mask       []bool // Dx*Dy*Dz, true where this box voxel is AGG
}

// Index returns the flat offset of local coordinate (i,j,k) within the box.
func (b *Bbox) Index(i, j, k int) int {
	return (k*b.Dy+j)*b.Dx + i
}

// VoxelCount returns the number of AGG voxels in the box.
func (b *Bbox) VoxelCount() int {
	n := 0
	for _, v := range b.Mask {
		if v {
			n++
		}
	}
	return n
}

// SurfaceVoxels returns the local coordinates of every AGG voxel in the box
// with at least one non-AGG 6-neighbor (used by adjustvol's surface-flip
// correction; a placed particle's Periph is computed on the grid instead).
func (b *Bbox) SurfaceVoxels() [][3]int {
	var out [][3]int
	for k := 0; k < b.Dz; k++ {
		for j := 0; j < b.Dy; j++ {
			for i := 0; i < b.Dx; i++ {
				if !b.Mask[b.Index(i, j, k)] {
					continue
				}
				if b.isSurface(i, j, k) {
					out = append(out, [3]int{i, j, k})
				}
			}
		}
	}
	return out
}

func (b *Bbox) isSurface(i, j, k int) bool {
	deltas := [6][3]int{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for _, d := range deltas {
		ni, nj, nk := i+d[0], j+d[1], k+d[2]
		if ni < 0 || ni >= b.Dx || nj < 0 || nj >= b.Dy || nk < 0 || nk >= b.Dz {
			return true
		}
		if !b.Mask[b.Index(ni, nj, nk)] {
			return true
		}
	}
	return false
}
