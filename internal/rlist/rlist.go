// Package rlist implements the arena-backed doubly linked ranked list used
// by the packing engine's PoreList and the drying engine's candidate-voxel
// list (Design Notes: "Pointer-graph walkers/particles -> arena + indices").
// Nodes live in a contiguous slice addressed by integer index instead of a
// heap pointer graph, with a free list recycling deleted slots, giving O(1)
// head/tail/delete-at-cursor the way the source's intrusive linked lists did
// without the C original's manual alloc/free bookkeeping.
package rlist

const nilIdx = -1

// Node is one ranked entry: a voxel index and its rank (pore radius for
// packing, cube-count score for drying). Rank is descending-sorted by
// List.SortDescending.
type Node struct {
	Voxel int
	Rank  float64
	prev  int
	next  int
	free  bool
}

// List is the arena: a slice of Nodes plus head/tail indices and a free
// list of recycled slots.
type List struct {
	nodes []Node
	head  int
	tail  int
	free  int
	size  int
}

// New returns an empty List.
func New() *List {
	return &List{head: nilIdx, tail: nilIdx, free: nilIdx}
}

// Len returns the number of live nodes.
func (l *List) Len() int { return l.size }

// PushFront inserts a new node at the head and returns its index.
func (l *List) PushFront(voxel int, rank float64) int {
	idx := l.alloc(voxel, rank)
	l.nodes[idx].next = l.head
	l.nodes[idx].prev = nilIdx
	if l.head != nilIdx {
		l.nodes[l.head].prev = idx
	}
	l.head = idx
	if l.tail == nilIdx {
		l.tail = idx
	}
	l.size++
	return idx
}

// PushBack inserts a new node at the tail and returns its index.
func (l *List) PushBack(voxel int, rank float64) int {
	idx := l.alloc(voxel, rank)
	l.nodes[idx].prev = l.tail
	l.nodes[idx].next = nilIdx
	if l.tail != nilIdx {
		l.nodes[l.tail].next = idx
	}
	l.tail = idx
	if l.head == nilIdx {
		l.head = idx
	}
	l.size++
	return idx
}

func (l *List) alloc(voxel int, rank float64) int {
	if l.free != nilIdx {
		idx := l.free
		l.free = l.nodes[idx].next
		l.nodes[idx] = Node{Voxel: voxel, Rank: rank, prev: nilIdx, next: nilIdx}
		return idx
	}
	l.nodes = append(l.nodes, Node{Voxel: voxel, Rank: rank, prev: nilIdx, next: nilIdx})
	return len(l.nodes) - 1
}

// Head returns the index of the head node, or -1 if empty.
func (l *List) Head() int { return l.head }

// Tail returns the index of the tail node, or -1 if empty.
func (l *List) Tail() int { return l.tail }

// Next returns the index following idx, or -1 at the tail.
func (l *List) Next(idx int) int { return l.nodes[idx].next }

// Prev returns the index preceding idx, or -1 at the head.
func (l *List) Prev(idx int) int { return l.nodes[idx].prev }

// At returns the Node stored at idx.
func (l *List) At(idx int) Node { return l.nodes[idx] }

// DeleteAt removes the node at idx in O(1), recycling its slot.
func (l *List) DeleteAt(idx int) {
	n := l.nodes[idx]
	if n.prev != nilIdx {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilIdx {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.nodes[idx] = Node{free: true, next: l.free, prev: nilIdx}
	l.free = idx
	l.size--
}

// LocateByIndex walks from the head to find the cursor-th live node
// (0-based) and returns its arena index, or -1 if cursor is out of range.
func (l *List) LocateByIndex(cursor int) int {
	if cursor < 0 {
		return nilIdx
	}
	idx := l.head
	for i := 0; i < cursor && idx != nilIdx; i++ {
		idx = l.nodes[idx].next
	}
	return idx
}

// LocateByVoxel returns the arena index of the first live node whose Voxel
// equals voxel, or -1 if none matches.
func (l *List) LocateByVoxel(voxel int) int {
	for idx := l.head; idx != nilIdx; idx = l.nodes[idx].next {
		if l.nodes[idx].Voxel == voxel {
			return idx
		}
	}
	return nilIdx
}

// SortDescending re-links all live nodes into descending-Rank order using a
// stable merge sort (O(n log n), no extra arena growth: only prev/next
// pointers are rewritten).
func (l *List) SortDescending() {
	if l.size < 2 {
		return
	}
	order := make([]int, 0, l.size)
	for idx := l.head; idx != nilIdx; idx = l.nodes[idx].next {
		order = append(order, idx)
	}
	order = mergeSortDesc(order, l.nodes)

	for i, idx := range order {
		if i == 0 {
			l.nodes[idx].prev = nilIdx
		} else {
			l.nodes[idx].prev = order[i-1]
		}
		if i == len(order)-1 {
			l.nodes[idx].next = nilIdx
		} else {
			l.nodes[idx].next = order[i+1]
		}
	}
	l.head = order[0]
	l.tail = order[len(order)-1]
}

func mergeSortDesc(idxs []int, nodes []Node) []int {
	if len(idxs) <= 1 {
		return idxs
	}
	mid := len(idxs) / 2
	left := mergeSortDesc(append([]int(nil), idxs[:mid]...), nodes)
	right := mergeSortDesc(append([]int(nil), idxs[mid:]...), nodes)
	out := make([]int, 0, len(idxs))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if nodes[left[i]].Rank >= nodes[right[j]].Rank {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	out = append(out, right[j:]...)
	return out
}

// InsertDescending inserts a new node at the position that keeps the list in
// descending-Rank order, assuming the list is already sorted that way (the
// drying probe's bounded candidate ranking relies on this to avoid a full
// re-sort per insertion). Returns the new node's arena index.
func (l *List) InsertDescending(voxel int, rank float64) int {
	idx := l.alloc(voxel, rank)
	prev := nilIdx
	cur := l.head
	for cur != nilIdx && l.nodes[cur].Rank >= rank {
		prev = cur
		cur = l.nodes[cur].next
	}
	l.nodes[idx].prev = prev
	l.nodes[idx].next = cur
	if prev != nilIdx {
		l.nodes[prev].next = idx
	} else {
		l.head = idx
	}
	if cur != nilIdx {
		l.nodes[cur].prev = idx
	} else {
		l.tail = idx
	}
	l.size++
	return idx
}

// Clear empties the list while keeping the underlying arena allocated for
// reuse by the next size class / probe radius.
func (l *List) Clear() {
	l.nodes = l.nodes[:0]
	l.head, l.tail, l.free, l.size = nilIdx, nilIdx, nilIdx, 0
}
