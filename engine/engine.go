// Package engine drives a candidate store to a terminal state. The
// deduction loop applies the first effective strategy from a prioritized
// battery and rescans from the top after every applied batch, so cheap
// deductions always preempt expensive ones. When the loop stalls, the
// search layer takes over with snapshot-based backtracking.
package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/strategy"
)

// Status is the state of a solving run.
type Status int

const (
	// StatusRunning means the run is still in progress. It only escapes a
	// run through a context error.
	StatusRunning Status = iota
	// StatusSolved means every cell is assigned and all groups check out.
	StatusSolved
	// StatusContradiction means an applied effect emptied a candidate set
	// or clashed with an assignment.
	StatusContradiction
	// StatusStalled means no strategy in the battery can make progress.
	StatusStalled
	// StatusUnsolvable means the search exhausted every branch. Only the
	// solver produces it; the deduction loop alone never does.
	StatusUnsolvable
)

// String renders the status for logs and storage.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSolved:
		return "solved"
	case StatusContradiction:
		return "contradiction"
	case StatusStalled:
		return "stalled"
	case StatusUnsolvable:
		return "unsolvable"
	}
	return "unknown"
}

// Step describes one applied effect, for trace collectors.
type Step struct {
	Depth    int
	Strategy string
	Effect   strategy.Effect
}

// Search events carry these names in Step.Strategy instead of a
// deduction strategy name.
const (
	StepGuess     = "guess"
	StepBacktrack = "backtrack"
)

// StepFunc receives every applied effect in order. In parallel search mode
// it is called from multiple goroutines and must be safe for concurrent use.
type StepFunc func(Step)

// Report tallies the work of a single deduction run.
type Report struct {
	Status     Status
	Effects    int
	ByStrategy map[string]int
}

// Engine holds the immutable configuration of the deduction loop: the
// strategy battery in priority order, a logger, and an optional step hook.
// A configured engine is safe to share across search branches.
type Engine struct {
	strategies []strategy.Strategy
	log        zerolog.Logger
	step       StepFunc
	depth      int
}

// New returns an engine with the default strategy battery and no logging.
func New() *Engine {
	return &Engine{
		strategies: strategy.DefaultBattery(),
		log:        zerolog.Nop(),
	}
}

// WithStrategies replaces the battery. Order is priority order.
func (e *Engine) WithStrategies(strategies ...strategy.Strategy) *Engine {
	e.strategies = strategies
	return e
}

// WithLogger routes the engine's debug output to log.
func (e *Engine) WithLogger(log zerolog.Logger) *Engine {
	e.log = log
	return e
}

// WithStepFunc registers a hook invoked for every applied effect.
func (e *Engine) WithStepFunc(fn StepFunc) *Engine {
	e.step = fn
	return e
}

// at returns a copy of the engine tagged with a search depth, so steps
// emitted from different branches remain distinguishable.
func (e *Engine) at(depth int) *Engine {
	tagged := *e
	tagged.depth = depth
	return &tagged
}

// Run applies strategies until the store is solved, contradicts itself, or
// stalls. A contradiction is a result, not an error; the error return is
// reserved for context cancellation.
func (e *Engine) Run(ctx context.Context, s *candidate.Store) (Report, error) {
	rep := Report{Status: StatusRunning, ByStrategy: make(map[string]int)}
	p := s.Puzzle()

	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if s.Solved() {
			rep.Status = StatusSolved
			return rep, nil
		}

		progressed := false
		for _, st := range e.strategies {
			effects := st.Find(p, s)
			if len(effects) == 0 {
				continue
			}
			applied, err := e.apply(s, st.Name(), effects, &rep)
			if err != nil {
				rep.Status = StatusContradiction
				return rep, nil
			}
			if applied == 0 {
				// The instance was already spent; keep scanning.
				continue
			}
			progressed = true
			break
		}
		if !progressed {
			rep.Status = StatusStalled
			return rep, nil
		}
	}
}

// apply writes a strategy's effect batch into the store, counting only the
// effects that actually changed something.
func (e *Engine) apply(s *candidate.Store, name string, effects []strategy.Effect, rep *Report) (int, error) {
	applied := 0
	for _, eff := range effects {
		changed, err := applyEffect(s, eff)
		if err != nil {
			e.log.Debug().Str("strategy", name).Stringer("effect", eff).Err(err).Msg("contradiction")
			return applied, err
		}
		if !changed {
			continue
		}
		applied++
		rep.Effects++
		rep.ByStrategy[name]++
		if e.step != nil {
			e.step(Step{Depth: e.depth, Strategy: name, Effect: eff})
		}
	}
	if applied > 0 {
		e.log.Debug().Str("strategy", name).Int("applied", applied).Int("unassigned", s.UnassignedCount()).Msg("strategy applied")
	}
	return applied, nil
}

func applyEffect(s *candidate.Store, eff strategy.Effect) (bool, error) {
	if eff.Kind == strategy.EffectAssign {
		if err := s.Assign(eff.Cell, eff.Value); err != nil {
			return false, err
		}
		return true, nil
	}
	return s.Eliminate(eff.Cell, eff.Values)
}
