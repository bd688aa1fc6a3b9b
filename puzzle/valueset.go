package puzzle

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxDomain is the largest supported value domain. Candidate sets are held
// in 32-bit masks, which covers every published variant up to 25x25 grids.
const MaxDomain = 25

// ValueSet is a set of candidate values held as a bitmask.
// Value v is present when bit v is set; bit 0 is never used.
type ValueSet uint32

// NewValueSet builds a set from the given values.
func NewValueSet(values ...int) ValueSet {
	var s ValueSet
	for _, v := range values {
		s = s.Add(v)
	}
	return s
}

// FullSet returns the set containing every value 1..domain.
func FullSet(domain int) ValueSet {
	return ValueSet((uint32(1)<<(domain+1) - 1) &^ 1)
}

// Add returns the set with v included.
func (s ValueSet) Add(v int) ValueSet {
	return s | 1<<uint(v)
}

// Remove returns the set with v excluded.
func (s ValueSet) Remove(v int) ValueSet {
	return s &^ (1 << uint(v))
}

// Has reports whether v is in the set.
func (s ValueSet) Has(v int) bool {
	return s&(1<<uint(v)) != 0
}

// Count returns the number of values in the set.
func (s ValueSet) Count() int {
	return bits.OnesCount32(uint32(s))
}

// Empty reports whether the set has no values.
func (s ValueSet) Empty() bool {
	return s == 0
}

// Union returns the set of values in either set.
func (s ValueSet) Union(t ValueSet) ValueSet {
	return s | t
}

// Intersect returns the set of values in both sets.
func (s ValueSet) Intersect(t ValueSet) ValueSet {
	return s & t
}

// Diff returns the set of values in s but not in t.
func (s ValueSet) Diff(t ValueSet) ValueSet {
	return s &^ t
}

// Single returns the sole value of a one-element set.
// The second result is false when the set does not hold exactly one value.
func (s ValueSet) Single() (int, bool) {
	if s.Count() != 1 {
		return 0, false
	}
	return bits.TrailingZeros32(uint32(s)), true
}

// Min returns the smallest value in the set, or 0 for the empty set.
func (s ValueSet) Min() int {
	if s == 0 {
		return 0
	}
	return bits.TrailingZeros32(uint32(s))
}

// Values returns the members in ascending order.
func (s ValueSet) Values() []int {
	out := make([]int, 0, s.Count())
	for m := uint32(s); m != 0; m &= m - 1 {
		out = append(out, bits.TrailingZeros32(m))
	}
	return out
}

// String renders the set as {1 4 9} for debugging and logs.
func (s ValueSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range s.Values() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte('}')
	return b.String()
}
