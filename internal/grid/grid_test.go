package grid

import "testing"

func TestWrap_Total_AllIntegersIncludingNegative(t *testing.T) {
	// GIVEN a modulus N=5
	n := 5

	// WHEN wrapping a range of indices including negatives and large values
	cases := map[int]int{
		0: 0, 4: 4, 5: 0, -1: 4, -5: 0, -6: 4, 12: 2,
	}

	// THEN every wrapped value lands in [0,N)
	for in, want := range cases {
		got := Wrap(in, n)
		if got != want {
			t.Errorf("Wrap(%d,%d) = %d, want %d", in, n, got, want)
		}
		if got < 0 || got >= n {
			t.Errorf("Wrap(%d,%d) = %d out of range [0,%d)", in, n, got, n)
		}
	}
}

func TestWrap_Idempotent_AfterAlreadyInRange(t *testing.T) {
	// GIVEN an already-wrapped index
	n := 7
	i := Wrap(100, n)

	// WHEN wrapping it again (with an additional offset of zero)
	got := Wrap(Wrap(i+0, n), n)

	// THEN it is unchanged
	if got != i {
		t.Errorf("re-wrapping a wrapped index changed it: %d -> %d", i, got)
	}
}

func TestGrid_AtSet_PeriodicWrap(t *testing.T) {
	// GIVEN a 4x4x4 grid
	g := New(4, 4, 4, 1.0)

	// WHEN a voxel is set at an in-range coordinate
	g.Set(1, 2, 3, AGG)

	// THEN reading the same coordinate shifted by whole periods (one on x and
	// y, two on z) returns the same phase
	if got := g.At(1+4, 2-4, 3+8); got != AGG {
		t.Errorf("periodic At() = %v, want AGG", got)
	}
}

func TestGrid_CloneEqual_RoundTrip(t *testing.T) {
	// GIVEN a grid with some phases set
	g := New(3, 3, 3, 2.0)
	g.Set(0, 0, 0, AGG)
	g.Set(1, 1, 1, CH)

	// WHEN it is cloned
	clone := g.Clone()

	// THEN the clone is Equal and mutating the clone does not affect the original
	if !g.Equal(clone) {
		t.Fatalf("clone not equal to original")
	}
	clone.Set(0, 0, 0, ETTR)
	if g.At(0, 0, 0) != AGG {
		t.Errorf("mutating clone affected original")
	}
	if g.Equal(clone) {
		t.Errorf("grids should differ after mutating the clone")
	}
}

func TestRemapPhase_Idempotent(t *testing.T) {
	// GIVEN every id in the legacy 1.0 table, plus two ids outside it
	ids := []PhaseId{PhaseId(23), PhaseId(24), PhaseId(25), AGG, CH}

	// WHEN remapped twice under the same version
	for _, id := range ids {
		once := RemapPhase(id, "1.0")
		twice := RemapPhase(once, "1.0")

		// THEN the second remap is a no-op
		if once != twice {
			t.Errorf("RemapPhase not idempotent for %d: once=%d twice=%d", id, once, twice)
		}
	}
}

func TestRemapPhase_UnknownVersion_PassesThrough(t *testing.T) {
	// GIVEN an id and an unrecognized version string
	id := PhaseId(23)

	// WHEN remapped
	got := RemapPhase(id, "9.9")

	// THEN it is returned unchanged (total: ids absent from the table pass through)
	if got != id {
		t.Errorf("RemapPhase(%d, unknown version) = %d, want unchanged", id, got)
	}
}
