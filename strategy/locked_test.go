package strategy

import (
	"testing"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

func TestLockedCandidatesPointing(t *testing.T) {
	p := grid9(t)
	s := emptyStore(t, p)

	// Value 5 survives in box 0 only on its top row, so it points along
	// row 0 and clears the rest of that row.
	for _, c := range []int{9, 10, 11, 18, 19, 20} {
		drop(t, s, c, 5)
	}

	effects := LockedCandidates{}.Find(p, s)
	if len(effects) != 6 {
		t.Fatalf("expected 6 eliminations along row 0, got %v", effects)
	}
	for i, c := range []int{3, 4, 5, 6, 7, 8} {
		if effects[i] != EliminateEffect(c, puzzle.NewValueSet(5)) {
			t.Errorf("effect %d: expected eliminate 5 from cell %d, got %s", i, c, effects[i])
		}
	}
}

func TestLockedCandidatesClaiming(t *testing.T) {
	p := grid9(t)
	s := emptyStore(t, p)

	// Value 7 survives in row 0 only inside box 0, so the box claims it.
	for _, c := range []int{3, 4, 5, 6, 7, 8} {
		drop(t, s, c, 7)
	}

	effects := LockedCandidates{}.Find(p, s)
	if len(effects) != 6 {
		t.Fatalf("expected 6 eliminations inside box 0, got %v", effects)
	}
	for i, c := range []int{9, 10, 11, 18, 19, 20} {
		if effects[i] != EliminateEffect(c, puzzle.NewValueSet(7)) {
			t.Errorf("effect %d: expected eliminate 7 from cell %d, got %s", i, c, effects[i])
		}
	}
}

func TestLockedCandidatesNeedsAnOverlap(t *testing.T) {
	p := grid9(t)
	s := emptyStore(t, p)

	// Value 5 in row 0 is confined to cells 0 and 4, which sit in
	// different boxes and different columns: row 0 is the only group
	// containing both, so nothing can be eliminated.
	for _, c := range []int{1, 2, 3, 5, 6, 7, 8} {
		drop(t, s, c, 5)
	}

	if effects := (LockedCandidates{}).Find(p, s); len(effects) != 0 {
		t.Errorf("expected no effects without an overlapping group, got %v", effects)
	}
}

func TestLockedCandidatesFirstInstanceWins(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)

	// Dropping 3 from cells 4 and 5 creates two confinements at once:
	// box 0 points 3 into row 0, and row 1 confines 3 to box 1. Row 1 is
	// scanned before box 0, so the box 1 eliminations come back first.
	drop(t, s, 4, 3)
	drop(t, s, 5, 3)

	effects := LockedCandidates{}.Find(p, s)
	want := []Effect{
		EliminateEffect(2, puzzle.NewValueSet(3)),
		EliminateEffect(3, puzzle.NewValueSet(3)),
	}
	if len(effects) != len(want) {
		t.Fatalf("expected %d effects, got %v", len(want), effects)
	}
	for i := range want {
		if effects[i] != want[i] {
			t.Errorf("effect %d: expected %s, got %s", i, want[i], effects[i])
		}
	}
}

func TestIntersectGroupsHelper(t *testing.T) {
	p := grid9(t)

	shared := intersectGroups(p, []int{0, 1, 2})
	if len(shared) != 2 || shared[0] != 0 || shared[1] != 18 {
		t.Errorf("cells 0,1,2 should share row 0 and box 0, got %v", shared)
	}

	shared = intersectGroups(p, []int{0, 80})
	if len(shared) != 0 {
		t.Errorf("opposite corners share no group, got %v", shared)
	}

	shared = intersectGroups(p, []int{40})
	if len(shared) != 3 {
		t.Errorf("a single cell lies in three groups, got %v", shared)
	}
}
