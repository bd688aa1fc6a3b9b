package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
	"github.com/cnpp-xyz/go-cnpp/strategy"
)

// Result summarizes a full solve: terminal status, the solution when one
// was found, and the accumulated search statistics.
type Result struct {
	Status     Status
	Solution   []int
	Steps      int
	Guesses    int
	Backtracks int
	MaxDepth   int
	ByStrategy map[string]int
	Duration   time.Duration
}

// Err maps a terminal status to its sentinel error, for callers that treat
// an unsolvable puzzle as a failure rather than a result.
func (r *Result) Err() error {
	if r.Status == StatusUnsolvable {
		return ErrUnsolvable
	}
	return nil
}

// merge folds one deduction run's tallies into the result.
func (r *Result) merge(rep Report) {
	r.Steps += rep.Effects
	for name, n := range rep.ByStrategy {
		r.ByStrategy[name] += n
	}
}

// Solver wraps an engine with backtracking search. When deduction stalls it
// branches on the unassigned cell with the fewest candidates, lowest index
// first, trying values in ascending order against a snapshot.
type Solver struct {
	eng      *Engine
	parallel int
	log      zerolog.Logger
}

// NewSolver returns a sequential solver around eng. A nil engine gets the
// default battery.
func NewSolver(eng *Engine) *Solver {
	if eng == nil {
		eng = New()
	}
	return &Solver{eng: eng, parallel: 1, log: zerolog.Nop()}
}

// WithParallel sets how many root branches may be explored concurrently.
// Values below 2 keep the search sequential.
func (sv *Solver) WithParallel(n int) *Solver {
	if n < 1 {
		n = 1
	}
	sv.parallel = n
	return sv
}

// WithLogger routes the solver's branch events to log.
func (sv *Solver) WithLogger(log zerolog.Logger) *Solver {
	sv.log = log
	return sv
}

// Solve drives the store to a solution or exhausts the search space.
// A store left unsolved by deduction is branched on; every dead branch is
// rolled back through its snapshot. The returned error is reserved for
// context cancellation; an unsolvable puzzle is reported through the
// result status.
func (sv *Solver) Solve(ctx context.Context, s *candidate.Store) (*Result, error) {
	start := time.Now()
	res := &Result{Status: StatusRunning, ByStrategy: make(map[string]int)}

	var status Status
	var err error
	if sv.parallel > 1 {
		status, err = sv.solveRoot(ctx, s, res)
	} else {
		status, err = sv.solve(ctx, s, 0, res)
	}
	res.Duration = time.Since(start)
	if err != nil {
		res.Status = status
		return res, err
	}
	if status == StatusContradiction {
		// Every branch under the root died: no assignment of the givens
		// extends to a solution.
		status = StatusUnsolvable
	}
	res.Status = status
	if status == StatusSolved {
		res.Solution = s.Values()
	}
	sv.log.Debug().Stringer("status", res.Status).Int("steps", res.Steps).
		Int("guesses", res.Guesses).Int("backtracks", res.Backtracks).
		Dur("duration", res.Duration).Msg("solve finished")
	return res, nil
}

// solve is the sequential depth-first search.
func (sv *Solver) solve(ctx context.Context, s *candidate.Store, depth int, res *Result) (Status, error) {
	if depth > res.MaxDepth {
		res.MaxDepth = depth
	}
	rep, err := sv.eng.at(depth).Run(ctx, s)
	res.merge(rep)
	if err != nil {
		return rep.Status, err
	}
	if rep.Status != StatusStalled {
		return rep.Status, nil
	}

	cell := branchCell(s)
	for _, v := range s.Candidates(cell).Values() {
		if err := ctx.Err(); err != nil {
			return StatusRunning, err
		}
		res.Guesses++
		sv.log.Debug().Int("depth", depth).Int("cell", cell).Int("value", v).Msg("branch")
		sv.emit(Step{Depth: depth, Strategy: StepGuess, Effect: strategy.AssignEffect(cell, v)})

		snap := s.Snapshot()
		if err := s.Assign(cell, v); err == nil {
			status, err := sv.solve(ctx, s, depth+1, res)
			if err != nil {
				return status, err
			}
			if status == StatusSolved {
				return StatusSolved, nil
			}
		}
		s.Restore(snap)
		res.Backtracks++
		sv.emit(Step{Depth: depth, Strategy: StepBacktrack, Effect: strategy.EliminateEffect(cell, puzzle.NewValueSet(v))})
	}
	return StatusContradiction, nil
}

// errSolved aborts the remaining root branches once one of them wins.
var errSolved = errors.New("branch solved")

// solveRoot explores the root branch point concurrently: one independent
// clone per candidate value, raced under an errgroup. The first branch to
// solve cancels the rest and its state is copied back into s.
func (sv *Solver) solveRoot(ctx context.Context, s *candidate.Store, res *Result) (Status, error) {
	rep, err := sv.eng.at(0).Run(ctx, s)
	res.merge(rep)
	if err != nil {
		return rep.Status, err
	}
	if rep.Status != StatusStalled {
		return rep.Status, nil
	}

	cell := branchCell(s)
	values := s.Candidates(cell).Values()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sv.parallel)

	var mu sync.Mutex
	var winner *candidate.Store

	for _, v := range values {
		v := v
		branch := s.Clone()
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			mu.Lock()
			res.Guesses++
			mu.Unlock()
			sv.log.Debug().Int("cell", cell).Int("value", v).Msg("root branch")
			sv.emit(Step{Depth: 0, Strategy: StepGuess, Effect: strategy.AssignEffect(cell, v)})

			if err := branch.Assign(cell, v); err != nil {
				mu.Lock()
				res.Backtracks++
				mu.Unlock()
				sv.emit(Step{Depth: 0, Strategy: StepBacktrack, Effect: strategy.EliminateEffect(cell, puzzle.NewValueSet(v))})
				return nil
			}

			sub := &Result{ByStrategy: make(map[string]int)}
			status, err := sv.solve(gctx, branch, 1, sub)
			mu.Lock()
			res.Steps += sub.Steps
			res.Guesses += sub.Guesses
			res.Backtracks += sub.Backtracks
			if sub.MaxDepth > res.MaxDepth {
				res.MaxDepth = sub.MaxDepth
			}
			for name, n := range sub.ByStrategy {
				res.ByStrategy[name] += n
			}
			mu.Unlock()
			if err != nil {
				// Losers die of cancellation once a sibling has won;
				// that is not a failure of the solve.
				if errors.Is(err, context.Canceled) && ctx.Err() == nil {
					return nil
				}
				return err
			}
			if status == StatusSolved {
				mu.Lock()
				if winner == nil {
					winner = branch
				}
				mu.Unlock()
				return errSolved
			}
			mu.Lock()
			res.Backtracks++
			mu.Unlock()
			sv.emit(Step{Depth: 0, Strategy: StepBacktrack, Effect: strategy.EliminateEffect(cell, puzzle.NewValueSet(v))})
			return nil
		})
	}

	err = g.Wait()
	if winner != nil {
		s.Restore(winner.Snapshot())
		return StatusSolved, nil
	}
	if err != nil && !errors.Is(err, errSolved) {
		return StatusRunning, err
	}
	return StatusContradiction, nil
}

// emit forwards a search event to the engine's step hook.
func (sv *Solver) emit(step Step) {
	if sv.eng.step != nil {
		sv.eng.step(step)
	}
}

// branchCell picks the unassigned cell with the fewest candidates,
// breaking ties toward the lowest index. After a stall every unassigned
// cell holds at least two candidates.
func branchCell(s *candidate.Store) int {
	p := s.Puzzle()
	best, bestCount := -1, 0
	for c := 0; c < p.Cells(); c++ {
		if s.Assigned(c) {
			continue
		}
		cnt := s.Candidates(c).Count()
		if best == -1 || cnt < bestCount {
			best, bestCount = c, cnt
		}
	}
	return best
}
