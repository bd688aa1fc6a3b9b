package strategy

import (
	"fmt"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Fish finds the X-Wing family of patterns in their group-general form:
// Size base groups whose candidate positions for a value are pairwise
// disjoint and covered by Size cover groups. Each cover group then holds
// exactly one placement of the value, all inside the covered positions, so
// the value is eliminated from the rest of every cover group. On a classic
// grid with rows as bases and columns as covers this is the textbook
// X-Wing (Size 2), Swordfish (3), or Jellyfish (4).
type Fish struct {
	Size int
}

// Name identifies the strategy in logs and traces.
func (f Fish) Name() string {
	switch f.Size {
	case 2:
		return "x-wing"
	case 3:
		return "swordfish"
	case 4:
		return "jellyfish"
	}
	return fmt.Sprintf("fish-%d", f.Size)
}

// fishBase is one candidate base group: the group index and the positions
// still open for the value under consideration.
type fishBase struct {
	gi  int
	pos []int
}

// Find scans values in ascending order, base combinations in lexicographic
// group order, and returns the first fish that eliminates something.
func (f Fish) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	if f.Size < 2 {
		return nil
	}
	for v := 1; v <= p.Domain(); v++ {
		var bases []fishBase
		for gi := 0; gi < p.GroupCount(); gi++ {
			pos := groupPositions(p, s, gi, v)
			if len(pos) >= 2 && len(pos) <= f.Size {
				bases = append(bases, fishBase{gi: gi, pos: pos})
			}
		}
		if len(bases) < f.Size {
			continue
		}
		if effects := f.searchBases(p, s, v, bases); len(effects) > 0 {
			return effects
		}
	}
	return nil
}

// searchBases tries every combination of Size pairwise-disjoint base groups.
func (f Fish) searchBases(p *puzzle.Puzzle, s *candidate.Store, v int, bases []fishBase) []Effect {
	inBase := make(map[int]bool)
	baseGroups := make(map[int]bool)
	var baseCells []int
	var effects []Effect

	var rec func(start, depth int) bool
	rec = func(start, depth int) bool {
		if depth == f.Size {
			effects = f.eliminate(p, s, v, baseCells, baseGroups)
			return len(effects) > 0
		}
		for i := start; i < len(bases); i++ {
			b := bases[i]
			disjoint := true
			for _, c := range b.pos {
				if inBase[c] {
					disjoint = false
					break
				}
			}
			if !disjoint {
				continue
			}
			for _, c := range b.pos {
				inBase[c] = true
			}
			baseGroups[b.gi] = true
			baseCells = append(baseCells, b.pos...)
			if rec(i+1, depth+1) {
				return true
			}
			baseCells = baseCells[:len(baseCells)-len(b.pos)]
			delete(baseGroups, b.gi)
			for _, c := range b.pos {
				delete(inBase, c)
			}
		}
		return false
	}
	rec(0, 0)
	return effects
}

// eliminate looks for a cover of the base cells and collects the resulting
// eliminations: the value leaves every cover-group position outside the
// base cells.
func (f Fish) eliminate(p *puzzle.Puzzle, s *candidate.Store, v int, baseCells []int, baseGroups map[int]bool) []Effect {
	covers, ok := findCovers(p, s, v, baseCells, baseGroups, f.Size)
	if !ok {
		return nil
	}

	inBase := make(map[int]bool, len(baseCells))
	for _, c := range baseCells {
		inBase[c] = true
	}

	var effects []Effect
	for _, g := range covers {
		for _, c := range groupPositions(p, s, g, v) {
			if !inBase[c] {
				effects = append(effects, EliminateEffect(c, puzzle.NewValueSet(v)))
			}
		}
	}
	return effects
}

// findCovers searches for at most max groups, disjoint in their candidate
// positions for v and distinct from the base groups, that jointly contain
// every base cell. It always branches on the lowest-index uncovered cell,
// keeping the scan deterministic.
func findCovers(p *puzzle.Puzzle, s *candidate.Store, v int, cells []int, exclude map[int]bool, max int) ([]int, bool) {
	covered := make(map[int]bool)
	coveredPos := make(map[int]bool)
	var chosen []int

	var rec func() bool
	rec = func() bool {
		next := -1
		for _, c := range cells {
			if !covered[c] {
				next = c
				break
			}
		}
		if next == -1 {
			return true
		}
		if len(chosen) == max {
			return false
		}

		for _, g := range p.GroupsOf(next) {
			if exclude[g] {
				continue
			}
			pos := groupPositions(p, s, g, v)
			clash := false
			for _, c := range pos {
				if coveredPos[c] {
					clash = true
					break
				}
			}
			if clash {
				continue
			}

			var newCovered []int
			for _, c := range pos {
				coveredPos[c] = true
				if !covered[c] && containsCell(cells, c) {
					covered[c] = true
					newCovered = append(newCovered, c)
				}
			}
			chosen = append(chosen, g)

			if rec() {
				return true
			}

			chosen = chosen[:len(chosen)-1]
			for _, c := range newCovered {
				covered[c] = false
			}
			for _, c := range pos {
				coveredPos[c] = false
			}
		}
		return false
	}

	if !rec() {
		return nil, false
	}
	return chosen, true
}
