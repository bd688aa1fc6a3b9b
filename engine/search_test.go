package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
	"github.com/cnpp-xyz/go-cnpp/strategy"
)

// grid9 builds the classic 9x9 puzzle: rows, columns, and 3x3 boxes.
func grid9(t *testing.T) *puzzle.Puzzle {
	t.Helper()
	var groups [][]int
	for r := 0; r < 9; r++ {
		row := make([]int, 9)
		for c := 0; c < 9; c++ {
			row[c] = 9*r + c
		}
		groups = append(groups, row)
	}
	for c := 0; c < 9; c++ {
		col := make([]int, 9)
		for r := 0; r < 9; r++ {
			col[r] = 9*r + c
		}
		groups = append(groups, col)
	}
	for br := 0; br < 9; br += 3 {
		for bc := 0; bc < 9; bc += 3 {
			var box []int
			for r := br; r < br+3; r++ {
				for c := bc; c < bc+3; c++ {
					box = append(box, 9*r+c)
				}
			}
			groups = append(groups, box)
		}
	}
	p, err := puzzle.New(9, groups)
	if err != nil {
		t.Fatalf("grid9: %v", err)
	}
	return p
}

// parseGivens reads a whitespace-separated grid with "." for blanks.
func parseGivens(t *testing.T, grid string) map[int]int {
	t.Helper()
	givens := make(map[int]int)
	for i, tok := range strings.Fields(grid) {
		if tok == "." {
			continue
		}
		givens[i] = int(tok[0] - '0')
	}
	return givens
}

// parseSolution reads a compact digit string into per-cell values.
func parseSolution(sol string) []int {
	values := make([]int, len(sol))
	for i := 0; i < len(sol); i++ {
		values[i] = int(sol[i] - '0')
	}
	return values
}

const beginnerGrid = `
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

const beginnerSolution = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"

const extremeGrid = `
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

const extremeSolution = "812753649943682175675491283154237896369845721287169534521974368438526917796318452"

func TestSolveBeginnerByPureDeduction(t *testing.T) {
	s, err := candidate.NewStore(grid9(t), parseGivens(t, beginnerGrid))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	res, err := NewSolver(nil).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusSolved {
		t.Fatalf("expected solved, got %s", res.Status)
	}
	if res.Guesses != 0 {
		t.Errorf("beginner grid should need no guesses, got %d", res.Guesses)
	}
	want := parseSolution(beginnerSolution)
	for c, v := range want {
		if res.Solution[c] != v {
			t.Fatalf("cell %d: expected %d, got %d", c, v, res.Solution[c])
		}
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSolveExtremeGrid(t *testing.T) {
	s, err := candidate.NewStore(grid9(t), parseGivens(t, extremeGrid))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	res, err := NewSolver(nil).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusSolved {
		t.Fatalf("expected solved, got %s", res.Status)
	}
	want := parseSolution(extremeSolution)
	for c, v := range want {
		if res.Solution[c] != v {
			t.Fatalf("cell %d: expected %d, got %d", c, v, res.Solution[c])
		}
	}
	if res.Guesses == 0 {
		t.Error("extreme grid should be out of reach for pure deduction")
	}
	if res.Steps == 0 {
		t.Error("expected a nonzero step count")
	}
}

func TestSolveGuessesWhenDeductionCannotDecide(t *testing.T) {
	// An empty grid has many solutions, and sound deductions hold in all
	// of them, so no strategy can ever assign a cell. The solver must
	// branch.
	s, err := candidate.NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	res, err := NewSolver(nil).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusSolved {
		t.Fatalf("expected solved, got %s", res.Status)
	}
	if res.Guesses == 0 {
		t.Error("expected at least one guess on a multi-solution grid")
	}
	if res.MaxDepth == 0 {
		t.Error("expected the search to descend")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSolveUnsolvableByDeduction(t *testing.T) {
	// A 3x3 latin square with 1s at two diagonal cells and a 2 in the
	// last corner: consistent under unit propagation, yet every
	// completion clashes.
	p, err := puzzle.New(3, [][]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := candidate.NewStore(p, map[int]int{0: 1, 4: 1, 8: 2})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	res, err := NewSolver(nil).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusUnsolvable {
		t.Fatalf("expected unsolvable, got %s", res.Status)
	}
	if !errors.Is(res.Err(), ErrUnsolvable) {
		t.Errorf("expected ErrUnsolvable from Err, got %v", res.Err())
	}
}

func TestSolveExhaustsSearchSpace(t *testing.T) {
	// Four cells over domain {1,2}: the two outer constraints force the
	// ends of the middle pair to agree, the first group forbids it. With
	// only naked singles in the battery, the solver must branch twice
	// and fail both times.
	p, err := puzzle.New(2, [][]int{{0, 1}, {2, 3}, {0, 2}, {1, 2}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := candidate.NewStore(p, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	eng := New().WithStrategies(strategy.NakedSingle{})
	res, err := NewSolver(eng).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusUnsolvable {
		t.Fatalf("expected unsolvable, got %s", res.Status)
	}
	if res.Guesses != 2 || res.Backtracks != 2 {
		t.Errorf("expected 2 guesses and 2 backtracks, got %d and %d", res.Guesses, res.Backtracks)
	}
	if res.MaxDepth != 1 {
		t.Errorf("expected max depth 1, got %d", res.MaxDepth)
	}
}

func TestSolveRestoresStateAfterDeadBranches(t *testing.T) {
	s, err := candidate.NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	res, err := NewSolver(nil).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusSolved {
		t.Fatalf("expected solved, got %s", res.Status)
	}
	if len(res.Solution) != 16 {
		t.Fatalf("expected a 16-cell solution, got %d", len(res.Solution))
	}
	for c, v := range res.Solution {
		if s.Value(c) != v {
			t.Errorf("cell %d: store has %d, result has %d", c, s.Value(c), v)
		}
	}
}

func TestSolveParallelRootBranching(t *testing.T) {
	s, err := candidate.NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	res, err := NewSolver(nil).WithParallel(4).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusSolved {
		t.Fatalf("expected solved, got %s", res.Status)
	}
	if res.Guesses == 0 {
		t.Error("expected root branching to count guesses")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("winner state not restored into caller's store: %v", err)
	}
}

func TestSolveParallelAgreesOnUniquePuzzle(t *testing.T) {
	s, err := candidate.NewStore(grid9(t), parseGivens(t, extremeGrid))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	res, err := NewSolver(nil).WithParallel(3).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != StatusSolved {
		t.Fatalf("expected solved, got %s", res.Status)
	}
	want := parseSolution(extremeSolution)
	for c, v := range want {
		if res.Solution[c] != v {
			t.Fatalf("cell %d: expected %d, got %d", c, v, res.Solution[c])
		}
	}
}

func TestSolveHonorsContext(t *testing.T) {
	s, err := candidate.NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSolver(nil).Solve(ctx, s); err == nil {
		t.Error("expected a context error from a canceled solve")
	}
}

func TestSolveEmitsSearchSteps(t *testing.T) {
	var guesses, backtracks int
	eng := New().WithStepFunc(func(step Step) {
		switch step.Strategy {
		case "guess":
			guesses++
		case "backtrack":
			backtracks++
		}
	})

	s, err := candidate.NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	res, err := NewSolver(eng).Solve(context.Background(), s)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if guesses != res.Guesses {
		t.Errorf("hook saw %d guesses, result counted %d", guesses, res.Guesses)
	}
	if backtracks != res.Backtracks {
		t.Errorf("hook saw %d backtracks, result counted %d", backtracks, res.Backtracks)
	}
}

func TestBranchCellPrefersFewestCandidates(t *testing.T) {
	s, err := candidate.NewStore(grid4(t), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.Eliminate(7, puzzle.NewValueSet(1, 2)); err != nil {
		t.Fatalf("Eliminate: %v", err)
	}
	if _, err := s.Eliminate(3, puzzle.NewValueSet(1)); err != nil {
		t.Fatalf("Eliminate: %v", err)
	}

	if got := branchCell(s); got != 7 {
		t.Errorf("expected cell 7 with two candidates, got %d", got)
	}

	if _, err := s.Eliminate(2, puzzle.NewValueSet(3, 4)); err != nil {
		t.Fatalf("Eliminate: %v", err)
	}
	if got := branchCell(s); got != 2 {
		t.Errorf("expected the tie to break toward cell 2, got %d", got)
	}
}
