// Package puzzle implements the abstract model for number-placement puzzles.
// A puzzle is a collection of cells bound by uniqueness groups: sets of cells
// that must collectively take every value of a fixed domain exactly once.
// Rows, columns, boxes, jigsaw regions, and the shared cells of overlapping
// composite grids are all just groups, so every variant shares one model.
package puzzle

import (
	"fmt"
	"sort"
)

// Puzzle holds the immutable structure of a puzzle: the value domain, the
// uniqueness groups, and the derived cell-to-group and peer indexes.
// Cell values never live here; they belong to the candidate store layered
// on top, which keeps the model reusable across search branches.
type Puzzle struct {
	name       string
	domain     int
	cells      int
	groups     [][]int
	cellGroups [][]int
	peers      [][]int
}

// New constructs a puzzle from a value domain and its uniqueness groups.
// Cell identity is a dense index: every cell from 0 to the highest index
// mentioned by any group must appear in at least one group.
//
// New fails with ErrInvalidLayout when the domain is out of range, a group's
// size differs from the domain, a group names the same cell twice, or a cell
// belongs to no group.
func New(domain int, groups [][]int) (*Puzzle, error) {
	return NewNamed("", domain, groups)
}

// NewNamed is New with a display name attached to the puzzle.
func NewNamed(name string, domain int, groups [][]int) (*Puzzle, error) {
	if domain < 1 || domain > MaxDomain {
		return nil, fmt.Errorf("%w: domain %d not in 1..%d", ErrInvalidLayout, domain, MaxDomain)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no groups", ErrInvalidLayout)
	}

	cells := 0
	for gi, g := range groups {
		if len(g) != domain {
			return nil, fmt.Errorf("%w: group %d has %d cells, domain is %d", ErrInvalidLayout, gi, len(g), domain)
		}
		for _, c := range g {
			if c < 0 {
				return nil, fmt.Errorf("%w: group %d contains negative cell index %d", ErrInvalidLayout, gi, c)
			}
			if c+1 > cells {
				cells = c + 1
			}
		}
	}

	p := &Puzzle{
		name:       name,
		domain:     domain,
		cells:      cells,
		groups:     make([][]int, len(groups)),
		cellGroups: make([][]int, cells),
	}

	for gi, g := range groups {
		member := make(map[int]bool, len(g))
		p.groups[gi] = make([]int, len(g))
		copy(p.groups[gi], g)
		for _, c := range g {
			if member[c] {
				return nil, fmt.Errorf("%w: cell %d appears twice in group %d", ErrInvalidLayout, c, gi)
			}
			member[c] = true
			p.cellGroups[c] = append(p.cellGroups[c], gi)
		}
	}

	for c := 0; c < cells; c++ {
		if len(p.cellGroups[c]) == 0 {
			return nil, fmt.Errorf("%w: cell %d belongs to no group", ErrInvalidLayout, c)
		}
	}

	p.buildPeers()
	return p, nil
}

// buildPeers computes, per cell, the deduplicated sorted set of cells that
// share at least one group with it.
func (p *Puzzle) buildPeers() {
	p.peers = make([][]int, p.cells)
	seen := make([]int, p.cells)
	for i := range seen {
		seen[i] = -1
	}
	for c := 0; c < p.cells; c++ {
		var peers []int
		for _, gi := range p.cellGroups[c] {
			for _, other := range p.groups[gi] {
				if other == c || seen[other] == c {
					continue
				}
				seen[other] = c
				peers = append(peers, other)
			}
		}
		sort.Ints(peers)
		p.peers[c] = peers
	}
}

// Name returns the puzzle's display name, possibly empty.
func (p *Puzzle) Name() string {
	return p.name
}

// Domain returns the value domain size; legal values are 1..Domain().
func (p *Puzzle) Domain() int {
	return p.domain
}

// Cells returns the number of cells.
func (p *Puzzle) Cells() int {
	return p.cells
}

// GroupCount returns the number of uniqueness groups.
func (p *Puzzle) GroupCount() int {
	return len(p.groups)
}

// Group returns the member cells of group gi.
// The returned slice is shared; callers must not modify it.
func (p *Puzzle) Group(gi int) []int {
	return p.groups[gi]
}

// GroupsOf returns the indexes of every group containing cell c.
// The returned slice is shared; callers must not modify it.
func (p *Puzzle) GroupsOf(c int) []int {
	return p.cellGroups[c]
}

// Peers returns the cells sharing at least one group with c, excluding c,
// deduplicated and in ascending order.
// The returned slice is shared; callers must not modify it.
func (p *Puzzle) Peers(c int) []int {
	return p.peers[c]
}

// SharesGroup reports whether cells a and b appear together in some group.
func (p *Puzzle) SharesGroup(a, b int) bool {
	peers := p.peers[a]
	i := sort.SearchInts(peers, b)
	return i < len(peers) && peers[i] == b
}

// CheckValue validates that v lies inside the puzzle's domain.
func (p *Puzzle) CheckValue(v int) error {
	if v < 1 || v > p.domain {
		return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidValue, v, p.domain)
	}
	return nil
}

// CheckCell validates that c names a cell of the puzzle.
func (p *Puzzle) CheckCell(c int) error {
	if c < 0 || c >= p.cells {
		return fmt.Errorf("%w: %d not in 0..%d", ErrInvalidCell, c, p.cells-1)
	}
	return nil
}
