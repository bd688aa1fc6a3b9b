package strategy

import (
	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// NakedSubset finds Size cells of one group whose combined candidates are
// exactly Size values. Those values are locked to the subset, so they can
// be eliminated from every other cell of the group.
type NakedSubset struct {
	Size int
}

// Name identifies the strategy in logs and traces.
func (n NakedSubset) Name() string { return "naked-" + subsetNoun(n.Size) }

// Find scans groups in index order and cell combinations in lexicographic
// order for the first subset that eliminates something.
func (n NakedSubset) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	for gi := 0; gi < p.GroupCount(); gi++ {
		group := p.Group(gi)

		// Only unassigned cells small enough to fit the subset qualify.
		var pool []int
		for _, c := range group {
			if cnt := s.Candidates(c).Count(); cnt >= 2 && cnt <= n.Size {
				pool = append(pool, c)
			}
		}
		if len(pool) < n.Size {
			continue
		}

		var effects []Effect
		forEachCombination(pool, n.Size, func(combo []int) bool {
			var union puzzle.ValueSet
			for _, c := range combo {
				union = union.Union(s.Candidates(c))
			}
			if union.Count() != n.Size {
				return false
			}
			effects = subsetEliminations(s, group, combo, union)
			return len(effects) > 0
		})
		if len(effects) > 0 {
			return effects
		}
	}
	return nil
}

// subsetEliminations removes the locked values from every group cell
// outside the subset.
func subsetEliminations(s *candidate.Store, group, subset []int, values puzzle.ValueSet) []Effect {
	inSubset := func(c int) bool {
		for _, m := range subset {
			if m == c {
				return true
			}
		}
		return false
	}

	var effects []Effect
	for _, c := range group {
		if s.Assigned(c) || inSubset(c) {
			continue
		}
		if hit := s.Candidates(c).Intersect(values); !hit.Empty() {
			effects = append(effects, EliminateEffect(c, hit))
		}
	}
	return effects
}

// HiddenSubset is the dual of NakedSubset: Size values confined to exactly
// Size cells of a group. Those cells must hold exactly those values, so all
// their other candidates can be eliminated.
type HiddenSubset struct {
	Size int
}

// Name identifies the strategy in logs and traces.
func (h HiddenSubset) Name() string { return "hidden-" + subsetNoun(h.Size) }

// Find scans groups in index order and value combinations in ascending
// order for the first confinement that eliminates something.
func (h HiddenSubset) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	positions := make([]puzzle.ValueSet, p.Domain()+1)

	for gi := 0; gi < p.GroupCount(); gi++ {
		group := p.Group(gi)

		// Positions of each value within the group, encoded as a bitmask
		// over the group's cell slots.
		var pool []int
		for v := 1; v <= p.Domain(); v++ {
			var at puzzle.ValueSet
			for slot, c := range group {
				if !s.Assigned(c) && s.Candidates(c).Has(v) {
					at = at.Add(slot + 1)
				}
			}
			positions[v] = at
			if cnt := at.Count(); cnt >= 1 && cnt <= h.Size {
				pool = append(pool, v)
			}
		}
		if len(pool) < h.Size {
			continue
		}

		var effects []Effect
		forEachCombination(pool, h.Size, func(values []int) bool {
			var slots puzzle.ValueSet
			for _, v := range values {
				slots = slots.Union(positions[v])
			}
			if slots.Count() != h.Size {
				return false
			}
			keep := puzzle.NewValueSet(values...)
			for _, slot := range slots.Values() {
				c := group[slot-1]
				if drop := s.Candidates(c).Diff(keep); !drop.Empty() {
					effects = append(effects, EliminateEffect(c, drop))
				}
			}
			return len(effects) > 0
		})
		if len(effects) > 0 {
			return effects
		}
	}
	return nil
}
