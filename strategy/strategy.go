// Package strategy implements the deduction strategies of the solving
// engine. Each strategy is a stateless pattern detector over a puzzle and
// its candidate store: it either finds one instance of its pattern and
// returns the resulting effects, or returns nothing. Strategies never
// mutate the store; applying effects is the engine's job.
//
// Strategies reason only in terms of groups and peers, never rows or
// columns, so jigsaw, hyper, and overlapping composite layouts reuse the
// same battery unmodified.
package strategy

import (
	"fmt"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Strategy detects one logical pattern and proposes its effects.
// Find returns the effects of the first effective pattern instance, in a
// deterministic scan order, or an empty slice when the pattern does not
// apply anywhere. Implementations must not mutate the store.
type Strategy interface {
	Name() string
	Find(p *puzzle.Puzzle, s *candidate.Store) []Effect
}

// EffectKind distinguishes the two atomic effects a strategy can propose.
type EffectKind int

const (
	// EffectAssign places a value in a cell.
	EffectAssign EffectKind = iota
	// EffectEliminate removes candidate values from a cell.
	EffectEliminate
)

// Effect is one atomic change to the candidate store: either an assignment
// of Value to Cell, or the elimination of Values from Cell's candidates.
type Effect struct {
	Kind   EffectKind
	Cell   int
	Value  int
	Values puzzle.ValueSet
}

// AssignEffect builds an assignment effect.
func AssignEffect(cell, value int) Effect {
	return Effect{Kind: EffectAssign, Cell: cell, Value: value}
}

// EliminateEffect builds an elimination effect.
func EliminateEffect(cell int, values puzzle.ValueSet) Effect {
	return Effect{Kind: EffectEliminate, Cell: cell, Values: values}
}

// String renders an effect for logs and traces.
func (e Effect) String() string {
	if e.Kind == EffectAssign {
		return fmt.Sprintf("assign %d=%d", e.Cell, e.Value)
	}
	return fmt.Sprintf("eliminate %d-=%s", e.Cell, e.Values)
}

// DefaultBattery returns the standard strategies in priority order, from
// cheapest and most certain to most speculative. The engine re-scans from
// the head of this list after every applied effect, so the expensive tail
// strategies only run once everything before them is exhausted.
func DefaultBattery() []Strategy {
	return []Strategy{
		NakedSingle{},
		HiddenSingle{},
		NakedSubset{Size: 2},
		NakedSubset{Size: 3},
		NakedSubset{Size: 4},
		HiddenSubset{Size: 2},
		HiddenSubset{Size: 3},
		HiddenSubset{Size: 4},
		LockedCandidates{},
		Fish{Size: 2},
		Fish{Size: 3},
		Fish{Size: 4},
		SimpleColoring{},
		ForcingChain{},
	}
}

// subsetNoun names subset and fish sizes the way solvers do.
func subsetNoun(size int) string {
	switch size {
	case 2:
		return "pair"
	case 3:
		return "triple"
	case 4:
		return "quad"
	default:
		return fmt.Sprintf("subset-%d", size)
	}
}

// forEachCombination visits every k-combination of items in lexicographic
// order and stops early when visit returns true. The slice passed to visit
// is reused between calls.
func forEachCombination(items []int, k int, visit func(combo []int) bool) bool {
	if k > len(items) || k <= 0 {
		return false
	}
	combo := make([]int, k)
	var rec func(start, depth int) bool
	rec = func(start, depth int) bool {
		if depth == k {
			return visit(combo)
		}
		for i := start; i <= len(items)-(k-depth); i++ {
			combo[depth] = items[i]
			if rec(i+1, depth+1) {
				return true
			}
		}
		return false
	}
	return rec(0, 0)
}

// groupPositions returns the unassigned cells of group gi whose candidate
// sets contain v, in group order.
func groupPositions(p *puzzle.Puzzle, s *candidate.Store, gi, v int) []int {
	var pos []int
	for _, c := range p.Group(gi) {
		if !s.Assigned(c) && s.Candidates(c).Has(v) {
			pos = append(pos, c)
		}
	}
	return pos
}
