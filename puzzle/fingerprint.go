package puzzle

import (
	"crypto/sha256"
	"encoding/json"
	"sort"

	"github.com/holiman/uint256"
)

// Fingerprint computes a content-addressed identifier for a puzzle instance:
// the group structure plus the given values. Any change to the layout or the
// givens changes the fingerprint. Group order and in-group cell order do not.
func (p *Puzzle) Fingerprint(givens map[int]int) string {
	type pair struct {
		Cell  int `json:"c"`
		Value int `json:"v"`
	}
	pairs := make([]pair, 0, len(givens))
	for c, v := range givens {
		pairs = append(pairs, pair{Cell: c, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Cell < pairs[j].Cell })

	normalized := struct {
		Domain int     `json:"domain"`
		Groups [][]int `json:"groups"`
		Givens []pair  `json:"givens"`
	}{
		Domain: p.domain,
		Groups: p.normalizeGroups(),
		Givens: pairs,
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return ""
	}

	hash := sha256.Sum256(data)
	return "puz:" + new(uint256.Int).SetBytes(hash[:]).Hex()
}

// LayoutID computes a short structural fingerprint for matching layouts.
// Two puzzles with the same groups share a LayoutID regardless of givens
// or display name.
func (p *Puzzle) LayoutID() string {
	structural := struct {
		Domain int     `json:"domain"`
		Groups [][]int `json:"groups"`
	}{
		Domain: p.domain,
		Groups: p.normalizeGroups(),
	}

	data, err := json.Marshal(structural)
	if err != nil {
		return ""
	}

	hash := sha256.Sum256(data)
	return "lay:" + new(uint256.Int).SetBytes(hash[:16]).Hex()
}

// normalizeGroups creates a deterministically ordered copy for hashing.
func (p *Puzzle) normalizeGroups() [][]int {
	groups := make([][]int, len(p.groups))
	for i, g := range p.groups {
		sorted := make([]int, len(g))
		copy(sorted, g)
		sort.Ints(sorted)
		groups[i] = sorted
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return groups
}
