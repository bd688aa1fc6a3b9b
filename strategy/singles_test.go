package strategy

import (
	"testing"
)

func TestNakedSingleFindsNarrowedCell(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)
	keepOnly(t, s, 5, 4)

	effects := NakedSingle{}.Find(p, s)
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %v", effects)
	}
	if effects[0] != AssignEffect(5, 4) {
		t.Errorf("expected assign 5=4, got %s", effects[0])
	}
}

func TestNakedSingleReturnsLowestCell(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)
	keepOnly(t, s, 9, 2)
	keepOnly(t, s, 5, 4)

	effects := NakedSingle{}.Find(p, s)
	if len(effects) != 1 || effects[0] != AssignEffect(5, 4) {
		t.Fatalf("expected the lowest-index single, got %v", effects)
	}
}

func TestNakedSingleSkipsAssignedCells(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)
	if err := s.Assign(0, 1); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if effects := (NakedSingle{}).Find(p, s); len(effects) != 0 {
		t.Errorf("assigned cell reported as naked single: %v", effects)
	}
}

func TestHiddenSingleFindsOnlyPosition(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)

	// Value 3 is barred from every cell of row 0 except cell 2, which
	// still holds all four candidates. Nothing is naked here.
	drop(t, s, 0, 3)
	drop(t, s, 1, 3)
	drop(t, s, 3, 3)

	if effects := (NakedSingle{}).Find(p, s); len(effects) != 0 {
		t.Fatalf("naked single should not see a hidden single: %v", effects)
	}

	effects := HiddenSingle{}.Find(p, s)
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %v", effects)
	}
	if effects[0] != AssignEffect(2, 3) {
		t.Errorf("expected assign 2=3, got %s", effects[0])
	}
}

func TestHiddenSingleIgnoresPlacedValues(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)
	if err := s.Assign(0, 1); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Assigning 1 to cell 0 leaves value 1 with exactly one open position
	// in several groups of the 4x4 grid, none of which is a deduction.
	for _, e := range (HiddenSingle{}).Find(p, s) {
		if e.Value == 1 && p.SharesGroup(e.Cell, 0) {
			t.Errorf("re-derived a placed value: %s", e)
		}
	}
}

func TestHiddenSingleInColumn(t *testing.T) {
	p := grid9(t)
	s := emptyStore(t, p)

	// Value 7 is confined to cell 36 within column 0. Rows and boxes all
	// retain more than one position for 7, so the column group fires.
	for _, c := range []int{0, 9, 18, 27, 45, 54, 63, 72} {
		drop(t, s, c, 7)
	}

	effects := HiddenSingle{}.Find(p, s)
	if len(effects) != 1 || effects[0] != AssignEffect(36, 7) {
		t.Fatalf("expected assign 36=7, got %v", effects)
	}
}

func TestHiddenSingleHonorsGroupScanOrder(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)

	// Two hidden singles at once: value 2 in row 1 (cell 6) and value 3
	// in row 0 (cell 2). Row 0 is scanned first.
	drop(t, s, 0, 3)
	drop(t, s, 1, 3)
	drop(t, s, 3, 3)
	drop(t, s, 4, 2)
	drop(t, s, 5, 2)
	drop(t, s, 7, 2)

	effects := HiddenSingle{}.Find(p, s)
	if len(effects) != 1 || effects[0] != AssignEffect(2, 3) {
		t.Fatalf("expected the first group's single, got %v", effects)
	}
}

func TestTwoStrategiesAgreeOnForcedCell(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)

	// Cell 10 holds only value 1, and value 1 appears nowhere else in
	// row 2, so both singles see the same forced assignment.
	keepOnly(t, s, 10, 1)
	drop(t, s, 8, 1)
	drop(t, s, 9, 1)
	drop(t, s, 11, 1)

	naked := NakedSingle{}.Find(p, s)
	if len(naked) != 1 || naked[0] != AssignEffect(10, 1) {
		t.Fatalf("naked single missed the forced cell: %v", naked)
	}
	hidden := HiddenSingle{}.Find(p, s)
	if len(hidden) != 1 || hidden[0].Cell != 10 || hidden[0].Value != 1 {
		t.Fatalf("hidden single missed the forced cell: %v", hidden)
	}
}

func TestGroupPositionsHelper(t *testing.T) {
	p := grid4(t)
	s := emptyStore(t, p)
	drop(t, s, 1, 2)
	drop(t, s, 3, 2)

	pos := groupPositions(p, s, 0, 2)
	if len(pos) != 2 || pos[0] != 0 || pos[1] != 2 {
		t.Errorf("expected positions [0 2], got %v", pos)
	}

	if err := s.Assign(0, 2); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if pos := groupPositions(p, s, 0, 2); len(pos) != 0 {
		t.Errorf("assigned and propagated cells still reported: %v", pos)
	}
}

func TestForEachCombinationOrder(t *testing.T) {
	var seen [][]int
	forEachCombination([]int{1, 2, 3, 4}, 2, func(combo []int) bool {
		cp := make([]int, len(combo))
		copy(cp, combo)
		seen = append(seen, cp)
		return false
	})
	want := [][]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}
	if len(seen) != len(want) {
		t.Fatalf("expected %d combinations, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i][0] != want[i][0] || seen[i][1] != want[i][1] {
			t.Errorf("combination %d: expected %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestForEachCombinationStopsEarly(t *testing.T) {
	count := 0
	stopped := forEachCombination([]int{1, 2, 3}, 2, func([]int) bool {
		count++
		return count == 2
	})
	if !stopped || count != 2 {
		t.Errorf("expected early stop after 2 visits, got stopped=%v count=%d", stopped, count)
	}
}
