package probe

import "github.com/vcctl/vcctl-core/internal/rlist"

// CubeList is the bounded, rank-sorted candidate list dryout ranks POROSITY
// voxels into, per spec §4.5 "build a length-ndesire sorted list ... insert
// in order, evict from tail". It shares pack's arena-backed rlist.List
// rather than its own pointer graph (Design Notes).
type CubeList struct {
	list *rlist.List
	cap  int
}

// NewCubeList returns an empty CubeList bounded to at most capacity entries.
func NewCubeList(capacity int) *CubeList {
	return &CubeList{list: rlist.New(), cap: capacity}
}

// Offer inserts (voxel, score) in descending-score order if it belongs in
// the top `cap` candidates seen so far, evicting the current tail (lowest
// score) if the list was already full. Scores tie-broken by insertion order
// (first-seen wins a tie, matching the list's left-to-right scan).
func (cl *CubeList) Offer(voxel int, score float64) {
	if cl.cap <= 0 {
		return
	}
	if cl.list.Len() < cl.cap {
		cl.list.InsertDescending(voxel, score)
		return
	}
	tail := cl.list.Tail()
	if score <= cl.list.At(tail).Rank {
		return
	}
	cl.list.DeleteAt(tail)
	cl.list.InsertDescending(voxel, score)
}

// Len returns the number of candidates currently held.
func (cl *CubeList) Len() int { return cl.list.Len() }

// MaxScore returns the highest score currently held, or 0 if empty.
func (cl *CubeList) MaxScore() float64 {
	head := cl.list.Head()
	if head == -1 {
		return 0
	}
	return cl.list.At(head).Rank
}

// Voxels returns the candidate voxel indices in descending-score order
// (head first), the "empty the head of the list" order spec §4.5 flips to
// EMPTYP.
func (cl *CubeList) Voxels() []int {
	out := make([]int, 0, cl.list.Len())
	for idx := cl.list.Head(); idx != -1; idx = cl.list.Next(idx) {
		out = append(out, cl.list.At(idx).Voxel)
	}
	return out
}
