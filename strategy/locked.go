package strategy

import (
	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// LockedCandidates covers both the pointing and claiming forms: when every
// possible position for a value in group A falls inside the overlap with
// another group B, the value must be placed in the overlap, so it can be
// eliminated from the rest of B. With groups as the only geometry, the
// box/line distinction disappears; any overlapping pair qualifies.
type LockedCandidates struct{}

// Name identifies the strategy in logs and traces.
func (LockedCandidates) Name() string { return "locked-candidates" }

// Find scans groups in index order and values in ascending order for the
// first confinement that eliminates something.
func (LockedCandidates) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	for gi := 0; gi < p.GroupCount(); gi++ {
		for v := 1; v <= p.Domain(); v++ {
			pos := groupPositions(p, s, gi, v)
			if len(pos) < 2 {
				// Zero means the value is already placed; one is a hidden
				// single, handled earlier at higher priority.
				continue
			}

			// Groups containing every position, in ascending index order.
			shared := intersectGroups(p, pos)
			for _, other := range shared {
				if other == gi {
					continue
				}
				var effects []Effect
				for _, c := range p.Group(other) {
					if s.Assigned(c) || !s.Candidates(c).Has(v) {
						continue
					}
					if containsCell(pos, c) {
						continue
					}
					effects = append(effects, EliminateEffect(c, puzzle.NewValueSet(v)))
				}
				if len(effects) > 0 {
					return effects
				}
			}
		}
	}
	return nil
}

// intersectGroups returns the groups containing every one of the cells,
// preserving ascending group order.
func intersectGroups(p *puzzle.Puzzle, cells []int) []int {
	if len(cells) == 0 {
		return nil
	}
	shared := append([]int(nil), p.GroupsOf(cells[0])...)
	for _, c := range cells[1:] {
		groups := p.GroupsOf(c)
		keep := shared[:0]
		for _, gi := range shared {
			if containsCell(groups, gi) {
				keep = append(keep, gi)
			}
		}
		shared = keep
		if len(shared) == 0 {
			break
		}
	}
	return shared
}

// containsCell reports whether the sorted-or-small slice holds x.
func containsCell(cells []int, x int) bool {
	for _, c := range cells {
		if c == x {
			return true
		}
	}
	return false
}
