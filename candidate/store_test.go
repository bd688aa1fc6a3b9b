package candidate

import (
	"errors"
	"testing"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// grid4 builds a 4x4 boxed puzzle: rows, columns, and 2x2 boxes.
func grid4(t *testing.T) *puzzle.Puzzle {
	t.Helper()
	var groups [][]int
	for r := 0; r < 4; r++ {
		groups = append(groups, []int{4 * r, 4*r + 1, 4*r + 2, 4*r + 3})
	}
	for c := 0; c < 4; c++ {
		groups = append(groups, []int{c, c + 4, c + 8, c + 12})
	}
	for _, base := range []int{0, 2, 8, 10} {
		groups = append(groups, []int{base, base + 1, base + 4, base + 5})
	}
	p, err := puzzle.New(4, groups)
	if err != nil {
		t.Fatalf("grid4: %v", err)
	}
	return p
}

// solved4 is a complete valid 4x4 grid in row-major order.
var solved4 = []int{
	1, 2, 3, 4,
	3, 4, 1, 2,
	4, 3, 2, 1,
	2, 1, 4, 3,
}

func TestNewStorePropagatesGivens(t *testing.T) {
	s, err := NewStore(grid4(t), map[int]int{0: 1})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if s.Value(0) != 1 {
		t.Errorf("expected cell 0 = 1, got %d", s.Value(0))
	}
	if !s.Candidates(0).Empty() {
		t.Errorf("assigned cell keeps candidates: %s", s.Candidates(0))
	}
	// Peers lose 1; unrelated cells keep the full set.
	if s.Candidates(1).Has(1) {
		t.Error("peer cell 1 still has candidate 1")
	}
	if s.Candidates(12).Has(1) {
		t.Error("peer cell 12 still has candidate 1")
	}
	if got := s.Candidates(10); got != puzzle.FullSet(4) {
		t.Errorf("non-peer cell 10 lost candidates: %s", got)
	}
	if s.UnassignedCount() != 15 {
		t.Errorf("expected 15 unassigned, got %d", s.UnassignedCount())
	}
}

func TestNewStoreRejectsBadGivens(t *testing.T) {
	tests := []struct {
		name   string
		givens map[int]int
	}{
		{"duplicate in row", map[int]int{0: 1, 3: 1}},
		{"duplicate in column", map[int]int{1: 2, 13: 2}},
		{"duplicate in box", map[int]int{0: 3, 5: 3}},
		{"unknown cell", map[int]int{16: 1}},
		{"value above domain", map[int]int{0: 5}},
		{"value zero", map[int]int{0: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(grid4(t), tt.givens)
			if !errors.Is(err, ErrInvalidGiven) {
				t.Errorf("expected ErrInvalidGiven, got %v", err)
			}
		})
	}
}

func TestAssignRejectsNonCandidate(t *testing.T) {
	s, err := NewStore(grid4(t), map[int]int{0: 1})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	// 1 was propagated out of cell 1's candidates.
	if err := s.Assign(1, 1); !errors.Is(err, ErrContradiction) {
		t.Errorf("expected ErrContradiction, got %v", err)
	}
	// Re-assigning an assigned cell is a contradiction as well.
	if err := s.Assign(0, 1); !errors.Is(err, ErrContradiction) {
		t.Errorf("expected ErrContradiction on reassign, got %v", err)
	}
}

func TestAssignDetectsEmptiedPeer(t *testing.T) {
	s, err := NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	// Narrow cell 1 to the single candidate 1, then place 1 on a peer.
	if _, err := s.Eliminate(1, puzzle.NewValueSet(2, 3, 4)); err != nil {
		t.Fatalf("Eliminate failed: %v", err)
	}
	err = s.Assign(0, 1)
	if !errors.Is(err, ErrContradiction) {
		t.Errorf("expected ErrContradiction, got %v", err)
	}
}

func TestEliminateDoesNotAutoAssign(t *testing.T) {
	s, err := NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	changed, err := s.Eliminate(5, puzzle.NewValueSet(1, 2, 3))
	if err != nil {
		t.Fatalf("Eliminate failed: %v", err)
	}
	if !changed {
		t.Error("expected elimination to report a change")
	}
	// Narrowed to one candidate but still unassigned.
	if s.Value(5) != 0 {
		t.Errorf("eliminate must not assign, cell 5 = %d", s.Value(5))
	}
	if v, ok := s.Candidates(5).Single(); !ok || v != 4 {
		t.Errorf("expected single candidate 4, got %s", s.Candidates(5))
	}
	if s.UnassignedCount() != 16 {
		t.Errorf("expected 16 unassigned, got %d", s.UnassignedCount())
	}
}

func TestEliminateContradictionLeavesSetIntact(t *testing.T) {
	s, err := NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	_, err = s.Eliminate(5, puzzle.FullSet(4))
	if !errors.Is(err, ErrContradiction) {
		t.Fatalf("expected ErrContradiction, got %v", err)
	}
	if got := s.Candidates(5); got != puzzle.FullSet(4) {
		t.Errorf("candidate set changed on failed elimination: %s", got)
	}
}

func TestEliminateOnAssignedCellIsNoOp(t *testing.T) {
	s, err := NewStore(grid4(t), map[int]int{0: 1})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	changed, err := s.Eliminate(0, puzzle.FullSet(4))
	if err != nil {
		t.Fatalf("Eliminate failed: %v", err)
	}
	if changed {
		t.Error("eliminating from an assigned cell must not report change")
	}
}

func TestValidateSolvedGrid(t *testing.T) {
	givens := make(map[int]int, len(solved4))
	for c, v := range solved4 {
		givens[c] = v
	}
	s, err := NewStore(grid4(t), givens)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if !s.Solved() {
		t.Fatal("store with all givens must be solved")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("valid grid rejected: %v", err)
	}

	partial, err := NewStore(grid4(t), map[int]int{0: 1})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := partial.Validate(); err == nil {
		t.Error("partial grid must not validate")
	}
}

func TestFingerprintMatchesPuzzle(t *testing.T) {
	p := grid4(t)
	givens := map[int]int{0: 1, 5: 4}
	s, err := NewStore(p, givens)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if s.Fingerprint() != p.Fingerprint(givens) {
		t.Error("store fingerprint disagrees with puzzle fingerprint")
	}
}
