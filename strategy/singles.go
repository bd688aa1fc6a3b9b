package strategy

import (
	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// NakedSingle assigns a cell whose candidate set has shrunk to one value.
type NakedSingle struct{}

// Name identifies the strategy in logs and traces.
func (NakedSingle) Name() string { return "naked-single" }

// Find scans cells in index order for a single-candidate cell.
func (NakedSingle) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	for c := 0; c < p.Cells(); c++ {
		if s.Assigned(c) {
			continue
		}
		if v, ok := s.Candidates(c).Single(); ok {
			return []Effect{AssignEffect(c, v)}
		}
	}
	return nil
}

// HiddenSingle assigns the only cell of a group that can still hold a value,
// even when that cell has other candidates of its own.
type HiddenSingle struct{}

// Name identifies the strategy in logs and traces.
func (HiddenSingle) Name() string { return "hidden-single" }

// Find scans groups in index order and values in ascending order for a
// value with exactly one possible position.
func (HiddenSingle) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	for gi := 0; gi < p.GroupCount(); gi++ {
		for v := 1; v <= p.Domain(); v++ {
			var only, count = -1, 0
			for _, c := range p.Group(gi) {
				if s.Assigned(c) || !s.Candidates(c).Has(v) {
					continue
				}
				only = c
				if count++; count > 1 {
					break
				}
			}
			if count != 1 {
				continue
			}
			// A bare naked single is also a hidden single; either way the
			// assignment is forced.
			return []Effect{AssignEffect(only, v)}
		}
	}
	return nil
}
