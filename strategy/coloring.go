package strategy

import (
	"sort"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// SimpleColoring builds, per value, the graph of conjugate links: groups
// where the value has exactly two possible positions, so exactly one end
// of each link holds it. Two-coloring a connected component splits its
// cells into "all true" and "all false" halves, whichever way around.
// Two cells of one color sharing a group falsify that whole color, and any
// outside cell peering at both colors can never hold the value.
type SimpleColoring struct{}

// Name identifies the strategy in logs and traces.
func (SimpleColoring) Name() string { return "simple-coloring" }

// Find scans values in ascending order and components by lowest member
// cell, returning the first rule firing that eliminates something.
func (SimpleColoring) Find(p *puzzle.Puzzle, s *candidate.Store) []Effect {
	for v := 1; v <= p.Domain(); v++ {
		adj := conjugateLinks(p, s, v)
		if len(adj) == 0 {
			continue
		}

		nodes := make([]int, 0, len(adj))
		for c := range adj {
			nodes = append(nodes, c)
		}
		sort.Ints(nodes)

		color := make(map[int]int, len(adj))
		for _, start := range nodes {
			if color[start] != 0 {
				continue
			}
			halves, ok := twoColor(adj, color, start)
			if !ok {
				// Odd cycle of conjugate links; leave it for the search.
				continue
			}
			if effects := colorEffects(p, s, v, halves); len(effects) > 0 {
				return effects
			}
		}
	}
	return nil
}

// conjugateLinks returns the strong-link adjacency for value v: edges
// between the two sole positions of v inside any group. Neighbor lists are
// appended in ascending group order, keeping traversal deterministic.
func conjugateLinks(p *puzzle.Puzzle, s *candidate.Store, v int) map[int][]int {
	adj := make(map[int][]int)
	for gi := 0; gi < p.GroupCount(); gi++ {
		pos := groupPositions(p, s, gi, v)
		if len(pos) == 2 {
			adj[pos[0]] = append(adj[pos[0]], pos[1])
			adj[pos[1]] = append(adj[pos[1]], pos[0])
		}
	}
	return adj
}

// twoColor colors the component of start with colors 1 and 2 and returns
// the two halves sorted. It fails on an odd cycle.
func twoColor(adj map[int][]int, color map[int]int, start int) ([2][]int, bool) {
	var halves [2][]int
	color[start] = 1
	queue := []int{start}
	halves[0] = append(halves[0], start)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		next := 3 - color[cur]
		for _, nb := range adj[cur] {
			switch color[nb] {
			case 0:
				color[nb] = next
				halves[next-1] = append(halves[next-1], nb)
				queue = append(queue, nb)
			case color[cur]:
				return halves, false
			}
		}
	}
	sort.Ints(halves[0])
	sort.Ints(halves[1])
	return halves, true
}

// colorEffects applies the two coloring rules to one component.
func colorEffects(p *puzzle.Puzzle, s *candidate.Store, v int, halves [2][]int) []Effect {
	// Rule 1: two same-colored cells in one group falsify the color.
	for _, half := range halves {
		if !sameGroupPair(p, half) {
			continue
		}
		effects := make([]Effect, 0, len(half))
		for _, c := range half {
			effects = append(effects, EliminateEffect(c, puzzle.NewValueSet(v)))
		}
		return effects
	}

	// Rule 2: an outside cell peering at both colors can never hold v.
	inComponent := make(map[int]bool)
	for _, half := range halves {
		for _, c := range half {
			inComponent[c] = true
		}
	}
	var effects []Effect
	for c := 0; c < p.Cells(); c++ {
		if inComponent[c] || s.Assigned(c) || !s.Candidates(c).Has(v) {
			continue
		}
		if seesAny(p, c, halves[0]) && seesAny(p, c, halves[1]) {
			effects = append(effects, EliminateEffect(c, puzzle.NewValueSet(v)))
		}
	}
	return effects
}

// sameGroupPair reports whether any two cells of the sorted slice share a
// group.
func sameGroupPair(p *puzzle.Puzzle, cells []int) bool {
	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			if p.SharesGroup(cells[i], cells[j]) {
				return true
			}
		}
	}
	return false
}

// seesAny reports whether c shares a group with any of the cells.
func seesAny(p *puzzle.Puzzle, c int, cells []int) bool {
	for _, other := range cells {
		if p.SharesGroup(c, other) {
			return true
		}
	}
	return false
}
