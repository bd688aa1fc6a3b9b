package strategy

import (
	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// ForcingChain bifurcates on a two-candidate cell: it follows each of the
// two hypotheses through singles propagation on a cloned store and keeps
// only what both worlds agree on. A hypothesis that collapses into a
// contradiction forces the other value outright. This is the most
// expensive strategy in the battery and runs last.
type ForcingChain struct{}

// Name identifies the strategy in logs and traces.
func (ForcingChain) Name() string { return "forcing-chain" }

// Find scans two-candidate cells in index order and returns the first
// bifurcation whose branches share a conclusion.
func (ForcingChain) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	for c := 0; c < p.Cells(); c++ {
		if s.Assigned(c) || s.Candidates(c).Count() != 2 {
			continue
		}
		vals := s.Candidates(c).Values()
		a, b := vals[0], vals[1]

		worldA, okA := followHypothesis(p, s, c, a)
		worldB, okB := followHypothesis(p, s, c, b)

		switch {
		case !okA && !okB:
			// Neither value survives; emptying the cell surfaces the
			// contradiction when the engine applies the effect.
			return []Effect{EliminateEffect(c, puzzle.NewValueSet(a, b))}
		case !okA:
			return []Effect{AssignEffect(c, b)}
		case !okB:
			return []Effect{AssignEffect(c, a)}
		}

		if effects := sharedConclusions(p, s, worldA, worldB); len(effects) > 0 {
			return effects
		}
	}
	return nil
}

// followHypothesis clones the store, assigns v to c, and propagates naked
// and hidden singles to a fixpoint. It reports ok=false when the
// hypothesis contradicts itself.
func followHypothesis(p *puzzle.Puzzle, s *candidate.Store, c, v int) (*candidate.Store, bool) {
	clone := s.Clone()
	if err := clone.Assign(c, v); err != nil {
		return nil, false
	}

	naked, hidden := NakedSingle{}, HiddenSingle{}
	for {
		effects := naked.Find(p, clone)
		if len(effects) == 0 {
			effects = hidden.Find(p, clone)
		}
		if len(effects) == 0 {
			return clone, true
		}
		for _, e := range effects {
			if err := clone.Assign(e.Cell, e.Value); err != nil {
				return nil, false
			}
		}
	}
}

// sharedConclusions collects the candidates that died in both worlds.
// For a cell assigned w in a world, its surviving set is just {w}.
func sharedConclusions(p *puzzle.Puzzle, base *candidate.Store, worldA, worldB *candidate.Store) []Effect {
	var effects []Effect
	for x := 0; x < p.Cells(); x++ {
		if base.Assigned(x) {
			continue
		}
		survives := surviving(worldA, x).Union(surviving(worldB, x))
		if drop := base.Candidates(x).Diff(survives); !drop.Empty() {
			effects = append(effects, EliminateEffect(x, drop))
		}
	}
	return effects
}

// surviving returns the values cell x can still take in a world.
func surviving(s *candidate.Store, x int) puzzle.ValueSet {
	if s.Assigned(x) {
		return puzzle.NewValueSet(s.Value(x))
	}
	return s.Candidates(x)
}
