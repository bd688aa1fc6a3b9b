// Package zkproof builds Groth16 proofs that a prover knows a valid
// completion of a puzzle without revealing the completed grid. A circuit
// depends only on the layout (cells, groups, domain), so one compiled
// circuit serves every instance of that layout; the givens enter as
// public inputs.
package zkproof

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// SolutionCircuit proves knowledge of a grid completion. Givens are
// public and the solution stays secret. A given of 0 marks a blank cell
// and constrains nothing.
type SolutionCircuit struct {
	Givens   []frontend.Variable `gnark:",public"`
	Solution []frontend.Variable

	groups [][]int
	domain int
}

// NewSolutionCircuit returns the compile-time skeleton for p's layout.
func NewSolutionCircuit(p *puzzle.Puzzle) *SolutionCircuit {
	groups := make([][]int, p.GroupCount())
	for gi := range groups {
		groups[gi] = p.Group(gi)
	}
	return &SolutionCircuit{
		Givens:   make([]frontend.Variable, p.Cells()),
		Solution: make([]frontend.Variable, p.Cells()),
		groups:   groups,
		domain:   p.Domain(),
	}
}

// Define encodes the puzzle rules: every solution value lies in
// 1..domain, every nonzero given equals its solution cell, and every
// group holds pairwise distinct values.
func (c *SolutionCircuit) Define(api frontend.API) error {
	for i := range c.Solution {
		api.AssertIsLessOrEqual(1, c.Solution[i])
		api.AssertIsLessOrEqual(c.Solution[i], c.domain)
	}

	for i := range c.Givens {
		// given * (solution - given) == 0: a zero given holds for
		// any solution value.
		diff := api.Sub(c.Solution[i], c.Givens[i])
		api.AssertIsEqual(api.Mul(c.Givens[i], diff), 0)
	}

	// Groups overlap (a classic row and box share cell pairs), so
	// dedup the pairs before emitting constraints.
	n := len(c.Solution)
	seen := make(map[int]bool)
	for _, group := range c.groups {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a > b {
					a, b = b, a
				}
				key := a*n + b
				if seen[key] {
					continue
				}
				seen[key] = true
				api.AssertIsDifferent(c.Solution[a], c.Solution[b])
			}
		}
	}
	return nil
}

// assignment builds a witness assignment for one puzzle instance. A nil
// solution leaves the secret half unset, which is enough for building
// the public witness on the verifier side.
func assignment(p *puzzle.Puzzle, givens map[int]int, solution []int) (*SolutionCircuit, error) {
	n := p.Cells()
	a := &SolutionCircuit{
		Givens:   make([]frontend.Variable, n),
		Solution: make([]frontend.Variable, n),
	}
	for i := 0; i < n; i++ {
		a.Givens[i] = 0
	}
	for cell, v := range givens {
		if err := p.CheckCell(cell); err != nil {
			return nil, err
		}
		if err := p.CheckValue(v); err != nil {
			return nil, err
		}
		a.Givens[cell] = v
	}
	if solution == nil {
		return a, nil
	}
	if len(solution) != n {
		return nil, fmt.Errorf("solution has %d cells, layout has %d", len(solution), n)
	}
	for i, v := range solution {
		a.Solution[i] = v
	}
	return a, nil
}
