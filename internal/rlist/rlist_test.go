package rlist

import "testing"

func TestList_PushFrontBack_Order(t *testing.T) {
	// GIVEN an empty list
	l := New()

	// WHEN pushing A at front, B at back, C at front
	a := l.PushFront(1, 1.0)
	l.PushBack(2, 2.0)
	c := l.PushFront(3, 3.0)

	// THEN the head is the most recent PushFront and Len tracks live nodes
	if l.Head() != c {
		t.Errorf("Head() = %d, want %d", l.Head(), c)
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
	if l.At(a).Voxel != 1 {
		t.Errorf("At(a).Voxel = %d, want 1", l.At(a).Voxel)
	}
}

func TestList_DeleteAt_RecyclesAndRelinks(t *testing.T) {
	// GIVEN a list [A,B,C] (head to tail)
	l := New()
	a := l.PushBack(1, 1.0)
	b := l.PushBack(2, 2.0)
	c := l.PushBack(3, 3.0)

	// WHEN the middle node is deleted
	l.DeleteAt(b)

	// THEN the list is [A,C] and re-pushing reuses the freed slot
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if l.Next(a) != c {
		t.Errorf("Next(a) = %d, want %d", l.Next(a), c)
	}
	if l.Prev(c) != a {
		t.Errorf("Prev(c) = %d, want %d", l.Prev(c), a)
	}
	if d := l.PushBack(4, 4.0); d != b {
		t.Errorf("PushBack after DeleteAt = %d, want recycled slot %d", d, b)
	}
}

func TestList_SortDescending_ByRank(t *testing.T) {
	// GIVEN nodes pushed out of order
	l := New()
	l.PushBack(10, 1.0)
	l.PushBack(20, 5.0)
	l.PushBack(30, 3.0)

	// WHEN sorted descending by rank
	l.SortDescending()

	// THEN traversal from head visits ranks in descending order
	var ranks []float64
	for idx := l.Head(); idx != nilIdx; idx = l.Next(idx) {
		ranks = append(ranks, l.At(idx).Rank)
	}
	want := []float64{5.0, 3.0, 1.0}
	if len(ranks) != len(want) {
		t.Fatalf("got %v, want %v", ranks, want)
	}
	for i := range want {
		if ranks[i] != want[i] {
			t.Errorf("ranks[%d] = %v, want %v", i, ranks[i], want[i])
		}
	}
}

func TestList_LocateByIndex_OutOfRange(t *testing.T) {
	// GIVEN a list with 2 nodes
	l := New()
	l.PushBack(1, 1.0)
	l.PushBack(2, 2.0)

	// WHEN locating a cursor beyond the list length
	got := l.LocateByIndex(5)

	// THEN -1 is returned
	if got != nilIdx {
		t.Errorf("LocateByIndex(5) = %d, want -1", got)
	}
}
