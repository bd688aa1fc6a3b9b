package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "solve":
		if err := solve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "batch":
		if err := runBatch(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "prove":
		if err := prove(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "layouts":
		if err := layouts(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("cnpp version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cnpp - constraint-propagation puzzle solver

Usage:
  cnpp <command> [options]

Commands:
  solve      Solve a puzzle by deduction with search fallback
  batch      Solve a CSV dataset on a worker pool
  prove      Produce a zero-knowledge proof of a solution
  validate   Check a puzzle document and its givens
  layouts    List the built-in layout catalog
  help       Show this help message
  version    Show version information

Examples:
  # Solve a classic grid from text
  cnpp solve --layout classic grid.txt

  # Solve a JSON puzzle document and keep the step trace
  cnpp solve --trace steps.csv puzzle.json

  # Run the million-puzzle corpus
  cnpp batch --workers 8 --verify sudoku.csv

  # Prove you solved it without revealing the grid
  cnpp prove --layout classic --out proof.bin grid.txt

For command-specific help, run:
  cnpp <command> --help`)
}

// newLogger builds the console logger used by every subcommand.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
