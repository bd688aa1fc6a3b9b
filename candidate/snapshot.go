package candidate

import "github.com/cnpp-xyz/go-cnpp/puzzle"

// Snapshot captures the full solving state of a store at one instant.
// It is opaque to callers: search code takes one before a guess and hands
// it back to Restore when the branch fails. Snapshots are the unit of
// rollback; a contradiction never leaks partial effects past one.
type Snapshot struct {
	values     []int
	cands      []puzzle.ValueSet
	unassigned int
}

// Snapshot returns a copy of the store's current solving state.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{
		values:     make([]int, len(s.values)),
		cands:      make([]puzzle.ValueSet, len(s.cands)),
		unassigned: s.unassigned,
	}
	copy(snap.values, s.values)
	copy(snap.cands, s.cands)
	return snap
}

// Restore rewinds the store to a previously taken snapshot.
func (s *Store) Restore(snap *Snapshot) {
	copy(s.values, snap.values)
	copy(s.cands, snap.cands)
	s.unassigned = snap.unassigned
}

// Clone creates an independent store with the same state, sharing only the
// immutable puzzle. Parallel search branches each solve on their own clone.
func (s *Store) Clone() *Store {
	c := &Store{
		p:          s.p,
		values:     make([]int, len(s.values)),
		cands:      make([]puzzle.ValueSet, len(s.cands)),
		givens:     s.givens,
		unassigned: s.unassigned,
	}
	copy(c.values, s.values)
	copy(c.cands, s.cands)
	return c
}
