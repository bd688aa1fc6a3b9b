package strategy

import (
	"strings"
	"testing"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Published grids with unique solutions. The exhaustive reference search
// below recomputes each solution from the givens alone, so the strategy
// audit never trusts the published digits blindly.

const easyAuditGrid = `
5 3 . . 7 . . . .
6 . . 1 9 5 . . .
. 9 8 . . . . 6 .
8 . . . 6 . . . 3
4 . . 8 . 3 . . 1
7 . . . 2 . . . 6
. 6 . . . . 2 8 .
. . . 4 1 9 . . 5
. . . . 8 . . 7 9
`

const easyAuditSolution = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"

const hardAuditGrid = `
8 . . . . . . . .
. . 3 6 . . . . .
. 7 . . 9 . 2 . .
. 5 . . . 7 . . .
. . . . 4 5 7 . .
. . . 1 . . . 3 .
. . 1 . . . . 6 8
. . 8 5 . . . 1 .
. 9 . . . . 4 . .
`

const hardAuditSolution = "812753649943682175675491283154237896369845721287169534521974368438526917796318452"

// parseAuditGivens reads a whitespace-separated grid with "." for blanks.
func parseAuditGivens(grid string) map[int]int {
	givens := make(map[int]int)
	for i, tok := range strings.Fields(grid) {
		if tok == "." {
			continue
		}
		givens[i] = int(tok[0] - '0')
	}
	return givens
}

// digitString renders per-cell values as one compact digit string.
func digitString(values []int) string {
	b := make([]byte, len(values))
	for i, v := range values {
		b[i] = byte('0' + v)
	}
	return string(b)
}

// legalValues returns the values cell c can still take against the
// committed assignments of its peers.
func legalValues(p *puzzle.Puzzle, vals []int, c int) puzzle.ValueSet {
	set := puzzle.FullSet(p.Domain())
	for _, peer := range p.Peers(c) {
		if v := vals[peer]; v != 0 {
			set = set.Remove(v)
		}
	}
	return set
}

// countCompletions extends vals by exhaustive search and counts complete
// assignments, stopping once limit is reached. The last completion found
// is copied into out. Branch cells are chosen fewest-candidates-first.
func countCompletions(p *puzzle.Puzzle, vals []int, limit int, out []int) int {
	branch := -1
	var branchSet puzzle.ValueSet
	for c := 0; c < p.Cells(); c++ {
		if vals[c] != 0 {
			continue
		}
		set := legalValues(p, vals, c)
		if set.Empty() {
			return 0
		}
		if branch == -1 || set.Count() < branchSet.Count() {
			branch, branchSet = c, set
		}
	}
	if branch == -1 {
		copy(out, vals)
		return 1
	}
	found := 0
	for _, v := range branchSet.Values() {
		vals[branch] = v
		found += countCompletions(p, vals, limit-found, out)
		vals[branch] = 0
		if found >= limit {
			break
		}
	}
	return found
}

// referenceSolve solves by exhaustive search, independent of every
// strategy, and fails unless the puzzle has exactly one solution.
func referenceSolve(t *testing.T, p *puzzle.Puzzle, givens map[int]int) []int {
	t.Helper()
	vals := make([]int, p.Cells())
	for c, v := range givens {
		vals[c] = v
	}
	out := make([]int, p.Cells())
	if n := countCompletions(p, vals, 2, out); n != 1 {
		t.Fatalf("reference search found %d solutions, want exactly 1", n)
	}
	return out
}

// checkEffect fails the test when an effect contradicts the known solution.
func checkEffect(t *testing.T, name string, eff Effect, solution []int) {
	t.Helper()
	want := solution[eff.Cell]
	switch eff.Kind {
	case EffectAssign:
		if eff.Value != want {
			t.Fatalf("%s assigns cell %d = %d, solution holds %d", name, eff.Cell, eff.Value, want)
		}
	case EffectEliminate:
		if eff.Values.Has(want) {
			t.Fatalf("%s eliminates %d from cell %d, its solution value", name, want, eff.Cell)
		}
	}
}

// applyAudited applies a batch the way the engine does and reports how
// many effects changed the store.
func applyAudited(t *testing.T, s *candidate.Store, effects []Effect) int {
	t.Helper()
	applied := 0
	for _, eff := range effects {
		switch eff.Kind {
		case EffectAssign:
			if err := s.Assign(eff.Cell, eff.Value); err != nil {
				t.Fatalf("apply %s: %v", eff, err)
			}
			applied++
		case EffectEliminate:
			changed, err := s.Eliminate(eff.Cell, eff.Values)
			if err != nil {
				t.Fatalf("apply %s: %v", eff, err)
			}
			if changed {
				applied++
			}
		}
	}
	return applied
}

// auditDeduction replays the engine's deduction loop, checking every
// proposed effect against the known solution before applying it. It
// returns once the store is solved or no strategy fires.
func auditDeduction(t *testing.T, p *puzzle.Puzzle, s *candidate.Store, solution []int) {
	t.Helper()
	battery := DefaultBattery()
	for !s.Solved() {
		applied := 0
		for _, st := range battery {
			effects := st.Find(p, s)
			for _, eff := range effects {
				checkEffect(t, st.Name(), eff, solution)
			}
			if applied = applyAudited(t, s, effects); applied > 0 {
				break
			}
		}
		if applied == 0 {
			return
		}
	}
}

// checkStoreAdmits verifies the store still admits the solution: assigned
// cells match it and unassigned cells keep it as a candidate.
func checkStoreAdmits(t *testing.T, s *candidate.Store, solution []int) {
	t.Helper()
	for c, want := range solution {
		if s.Assigned(c) {
			if got := s.Value(c); got != want {
				t.Errorf("cell %d assigned %d, solution holds %d", c, got, want)
			}
			continue
		}
		if !s.Candidates(c).Has(want) {
			t.Errorf("cell %d lost candidate %d, its solution value", c, want)
		}
	}
}

func TestReferenceSearchMatchesPublishedSolutions(t *testing.T) {
	p := grid9(t)

	easy := referenceSolve(t, p, parseAuditGivens(easyAuditGrid))
	if got := digitString(easy); got != easyAuditSolution {
		t.Errorf("easy grid:\n got %s\nwant %s", got, easyAuditSolution)
	}

	hard := referenceSolve(t, p, parseAuditGivens(hardAuditGrid))
	if got := digitString(hard); got != hardAuditSolution {
		t.Errorf("hard grid:\n got %s\nwant %s", got, hardAuditSolution)
	}
}

func TestBatteryPreservesSolutionOnEasyGrid(t *testing.T) {
	p := grid9(t)
	givens := parseAuditGivens(easyAuditGrid)
	solution := referenceSolve(t, p, givens)

	s, err := candidate.NewStore(p, givens)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	auditDeduction(t, p, s, solution)

	if !s.Solved() {
		t.Fatalf("deduction stalled with %d cells unassigned", s.UnassignedCount())
	}
	checkStoreAdmits(t, s, solution)
}

// The hard grid stalls the battery before search would take over. Every
// effect produced up to the stall still has to respect the unique solution.
func TestBatteryPreservesSolutionOnHardGrid(t *testing.T) {
	p := grid9(t)
	givens := parseAuditGivens(hardAuditGrid)
	solution := referenceSolve(t, p, givens)

	s, err := candidate.NewStore(p, givens)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	auditDeduction(t, p, s, solution)
	checkStoreAdmits(t, s, solution)
}

func TestBatteryPreservesSolutionOnFourGrid(t *testing.T) {
	p := grid4(t)
	givens := map[int]int{
		1: 2, 2: 3, 3: 4,
		4: 3, 6: 1, 7: 2,
		8: 4, 9: 3, 11: 1,
		12: 2, 13: 1, 14: 4,
	}
	solution := referenceSolve(t, p, givens)
	if got := digitString(solution); got != "1234341243212143" {
		t.Fatalf("four grid solution = %s, want 1234341243212143", got)
	}

	s, err := candidate.NewStore(p, givens)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	auditDeduction(t, p, s, solution)

	if !s.Solved() {
		t.Fatalf("deduction stalled with %d cells unassigned", s.UnassignedCount())
	}
	checkStoreAdmits(t, s, solution)
}
