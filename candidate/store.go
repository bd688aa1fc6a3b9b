// Package candidate maintains the mutable solving state layered on a puzzle:
// the assigned value of each cell and, for unassigned cells, the set of
// values still logically possible. All solving mutates this store and never
// the puzzle itself, so branches of a search can work on snapshots or clones
// without copying the model.
package candidate

import (
	"fmt"
	"sort"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Store holds per-cell assignments and candidate sets for one puzzle.
// A cell is either assigned (value set, empty candidate set) or unassigned
// (value zero, non-empty candidate set). The store is not safe for
// concurrent use; parallel search branches each take their own Clone.
type Store struct {
	p          *puzzle.Puzzle
	values     []int
	cands      []puzzle.ValueSet
	givens     map[int]int
	unassigned int
}

// NewStore initializes a store from the puzzle's givens and propagates them.
// It fails with ErrInvalidGiven when a given names an unknown cell or value,
// or when two givens sharing a group hold the same value. It fails with
// ErrContradiction when propagating the givens empties some cell's
// candidate set, which means the puzzle has no completion.
func NewStore(p *puzzle.Puzzle, givens map[int]int) (*Store, error) {
	s := &Store{
		p:          p,
		values:     make([]int, p.Cells()),
		cands:      make([]puzzle.ValueSet, p.Cells()),
		givens:     make(map[int]int, len(givens)),
		unassigned: p.Cells(),
	}
	full := puzzle.FullSet(p.Domain())
	for c := range s.cands {
		s.cands[c] = full
	}

	cells := make([]int, 0, len(givens))
	for c := range givens {
		cells = append(cells, c)
	}
	sort.Ints(cells)

	for _, c := range cells {
		v := givens[c]
		if err := p.CheckCell(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidGiven, err)
		}
		if err := p.CheckValue(v); err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrInvalidGiven, c, err)
		}
		s.givens[c] = v
	}
	for _, c := range cells {
		v := givens[c]
		for _, peer := range p.Peers(c) {
			if peer > c && givens[peer] == v {
				return nil, fmt.Errorf("%w: cells %d and %d share a group and both hold %d", ErrInvalidGiven, c, peer, v)
			}
		}
	}

	for _, c := range cells {
		if err := s.Assign(c, givens[c]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Puzzle returns the model this store solves.
func (s *Store) Puzzle() *puzzle.Puzzle {
	return s.p
}

// Value returns the assigned value of cell c, or 0 if unassigned.
func (s *Store) Value(c int) int {
	return s.values[c]
}

// Assigned reports whether cell c holds a value.
func (s *Store) Assigned(c int) bool {
	return s.values[c] != 0
}

// Candidates returns the candidate set of cell c; it is empty for
// assigned cells.
func (s *Store) Candidates(c int) puzzle.ValueSet {
	return s.cands[c]
}

// UnassignedCount returns the number of cells still without a value.
func (s *Store) UnassignedCount() int {
	return s.unassigned
}

// Solved reports whether every cell holds a value.
func (s *Store) Solved() bool {
	return s.unassigned == 0
}

// Values returns a copy of all cell values in index order, 0 for unassigned.
func (s *Store) Values() []int {
	out := make([]int, len(s.values))
	copy(out, s.values)
	return out
}

// Givens returns a copy of the initial given values.
func (s *Store) Givens() map[int]int {
	out := make(map[int]int, len(s.givens))
	for c, v := range s.givens {
		out[c] = v
	}
	return out
}

// Fingerprint returns the content fingerprint of the puzzle plus its givens.
func (s *Store) Fingerprint() string {
	return s.p.Fingerprint(s.givens)
}

// Assign records value v for cell c and removes v from the candidate set of
// every unassigned peer. It fails with ErrContradiction when v is not a
// current candidate of c or when the propagation empties a peer's candidate
// set. On contradiction the store may be partially propagated; callers
// recover through Snapshot and Restore, never by continuing in place.
func (s *Store) Assign(c, v int) error {
	if err := s.p.CheckCell(c); err != nil {
		return err
	}
	if err := s.p.CheckValue(v); err != nil {
		return err
	}
	if s.values[c] != 0 {
		return fmt.Errorf("%w: cell %d already holds %d", ErrContradiction, c, s.values[c])
	}
	if !s.cands[c].Has(v) {
		return fmt.Errorf("%w: %d is not a candidate for cell %d %s", ErrContradiction, v, c, s.cands[c])
	}

	s.values[c] = v
	s.cands[c] = 0
	s.unassigned--

	for _, peer := range s.p.Peers(c) {
		if s.values[peer] != 0 {
			continue
		}
		next := s.cands[peer].Remove(v)
		if next.Empty() {
			return fmt.Errorf("%w: assigning %d to cell %d leaves cell %d without candidates", ErrContradiction, v, c, peer)
		}
		s.cands[peer] = next
	}
	return nil
}

// Eliminate removes the given values from cell c's candidate set and reports
// whether the set changed. A singleton left behind is NOT auto-assigned;
// promoting it is an explicit assignment effect so strategies can tell
// "narrowed to one" from "placed". Eliminating from an assigned cell is a
// no-op. It fails with ErrContradiction when the removal would empty the
// set; the set is left untouched in that case.
func (s *Store) Eliminate(c int, values puzzle.ValueSet) (bool, error) {
	if err := s.p.CheckCell(c); err != nil {
		return false, err
	}
	if s.values[c] != 0 {
		return false, nil
	}

	next := s.cands[c].Diff(values)
	if next == s.cands[c] {
		return false, nil
	}
	if next.Empty() {
		return false, fmt.Errorf("%w: eliminating %s leaves cell %d without candidates", ErrContradiction, values, c)
	}
	s.cands[c] = next
	return true, nil
}

// Validate checks a solved store: every cell assigned and every group
// holding each domain value exactly once. It reports the first violation.
func (s *Store) Validate() error {
	for c := 0; c < s.p.Cells(); c++ {
		if s.values[c] == 0 {
			return fmt.Errorf("cell %d is unassigned", c)
		}
	}
	for gi := 0; gi < s.p.GroupCount(); gi++ {
		var seen puzzle.ValueSet
		for _, c := range s.p.Group(gi) {
			v := s.values[c]
			if seen.Has(v) {
				return fmt.Errorf("group %d holds %d twice", gi, v)
			}
			seen = seen.Add(v)
		}
		if seen != puzzle.FullSet(s.p.Domain()) {
			return fmt.Errorf("group %d does not cover the domain: %s", gi, seen)
		}
	}
	return nil
}
