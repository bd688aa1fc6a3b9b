package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/engine"
	"github.com/cnpp-xyz/go-cnpp/parser"
	"github.com/cnpp-xyz/go-cnpp/zkproof"
)

func prove(args []string) error {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	layoutName := fs.String("layout", "", "Treat the input as grid text on this catalog layout")
	solutionPath := fs.String("solution", "", "Grid text file with the completed grid (default: solve the puzzle first)")
	outPath := fs.String("out", "", "Write the proof bytes to this file")
	solidityPath := fs.String("solidity", "", "Export the Solidity verifier contract to this file")
	verbose := fs.Bool("v", false, "Verbose diagnostics")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cnpp prove [options] <puzzle>

Produce a Groth16 proof of knowing a completion of the puzzle, without
revealing it. The givens are the public inputs; anyone holding them can
verify the proof. The circuit is compiled per layout, so proofs for
different grids of the same shape reuse one trusted setup.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Solve, then prove the solution
  cnpp prove --layout classic --out proof.bin grid.txt

  # Prove a completion you already hold
  cnpp prove --layout classic --solution full.txt grid.txt

  # Export the on-chain verifier
  cnpp prove --layout classic --solidity verifier.sol grid.txt
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("puzzle file required")
	}

	log := newLogger(*verbose)
	l, puz, givens, err := loadPuzzle(fs.Arg(0), *layoutName)
	if err != nil {
		return err
	}

	var solution []int
	if *solutionPath != "" {
		if l == nil {
			return fmt.Errorf("--solution needs a catalog layout")
		}
		text, err := os.ReadFile(*solutionPath)
		if err != nil {
			return fmt.Errorf("read solution: %w", err)
		}
		m, err := parser.Parse(l, string(text))
		if err != nil {
			return err
		}
		if len(m) != l.Cells() {
			return fmt.Errorf("solution covers %d of %d cells", len(m), l.Cells())
		}
		solution = givensValues(l.Cells(), m)
	} else {
		st, err := candidate.NewStore(puz, givens)
		if err != nil {
			return err
		}
		res, err := engine.NewSolver(engine.New().WithLogger(log)).Solve(context.Background(), st)
		if err != nil {
			return err
		}
		if res.Status != engine.StatusSolved {
			return res.Err()
		}
		solution = res.Solution
		log.Info().Int("steps", res.Steps).Int("guesses", res.Guesses).Msg("puzzle solved")
	}

	pr := zkproof.NewProver()
	log.Info().Str("layout", puz.LayoutID()).Msg("compiling circuit")
	cc, err := pr.Compile(puz)
	if err != nil {
		return err
	}

	pf, err := pr.Prove(puz, givens, solution)
	if err != nil {
		return err
	}
	if err := pr.Verify(puz, givens, pf); err != nil {
		return fmt.Errorf("self-verification failed: %w", err)
	}

	data, err := pf.MarshalBinary()
	if err != nil {
		return err
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			return fmt.Errorf("write proof: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Proof written to %s\n", *outPath)
	}
	if *solidityPath != "" {
		code, err := cc.ExportSolidity()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*solidityPath, []byte(code), 0644); err != nil {
			return fmt.Errorf("write verifier: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Verifier written to %s\n", *solidityPath)
	}

	fmt.Println("=== Proof ===")
	fmt.Printf("Layout:      %s\n", pf.LayoutID)
	fmt.Printf("Puzzle:      %s\n", pf.Fingerprint)
	fmt.Printf("Constraints: %d\n", cc.Constraints)
	fmt.Printf("Proof size:  %d bytes\n", len(data))
	fmt.Println("✓ Verified locally")
	return nil
}
