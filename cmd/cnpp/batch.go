package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/cnpp-xyz/go-cnpp/batch"
	"github.com/cnpp-xyz/go-cnpp/engine"
	"github.com/cnpp-xyz/go-cnpp/layout"
	"github.com/cnpp-xyz/go-cnpp/store"
)

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	layoutName := fs.String("layout", "classic", "Catalog layout of the dataset rows")
	workers := fs.Int("workers", runtime.NumCPU(), "Worker pool size")
	limit := fs.Int("limit", 0, "Solve only the first N rows (0 = all)")
	verify := fs.Bool("verify", false, "Compare solutions against the dataset's solution column")
	cacheSize := fs.Int("cache", 0, "Memoize up to N solved grids (0 disables)")
	storePath := fs.String("store", "", "Record runs in this SQLite database")
	outputJSON := fs.Bool("json", false, "Output the summary as JSON")
	verbose := fs.Bool("v", false, "Verbose diagnostics")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cnpp batch [options] <dataset.csv>

Solve a CSV dataset on a bounded worker pool. The header names the
columns: the quiz column is one of "quizzes", "quiz", "puzzle" or
"givens"; an optional "solutions" column enables --verify.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # The public million-puzzle corpus
  cnpp batch --workers 8 --verify sudoku.csv

  # A quick sample with caching and persistence
  cnpp batch --limit 1000 --cache 512 --store runs.db sudoku.csv
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("dataset file required")
	}

	log := newLogger(*verbose)
	l, err := layout.ByName(*layoutName)
	if err != nil {
		return err
	}

	jobs, err := batch.LoadCSV(l, fs.Arg(0))
	if err != nil {
		return err
	}
	if *limit > 0 && *limit < len(jobs) {
		jobs = jobs[:*limit]
	}
	log.Info().Int("jobs", len(jobs)).Str("layout", l.Name).Msg("dataset loaded")

	runner := batch.NewRunner(l).
		WithWorkers(*workers).
		WithVerify(*verify).
		WithLogger(log)
	if *cacheSize > 0 {
		runner = runner.WithCache(batch.NewGridCache(*cacheSize))
	}
	if *storePath != "" {
		db, err := store.Open(*storePath)
		if err != nil {
			return err
		}
		defer db.Close()
		runner = runner.WithStore(db)
	}

	results, sum, err := runner.Run(context.Background(), jobs)
	if err != nil {
		return err
	}

	if *outputJSON {
		data, err := json.MarshalIndent(sum, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		printBatchSummary(results, sum)
	}

	if sum.Mismatches > 0 || sum.Failed > 0 {
		return fmt.Errorf("%d mismatches, %d failures", sum.Mismatches, sum.Failed)
	}
	return nil
}

func printBatchSummary(results []batch.Result, sum *batch.Summary) {
	fmt.Println("=== Batch ===")
	fmt.Printf("Jobs:       %d\n", sum.Jobs)
	fmt.Printf("Solved:     %d (cache hits %d)\n", sum.Solved, sum.CacheHits)
	fmt.Printf("Unsolvable: %d\n", sum.Unsolvable)
	fmt.Printf("Failed:     %d\n", sum.Failed)
	fmt.Printf("Mismatches: %d\n", sum.Mismatches)
	fmt.Printf("Guesses:    %d (backtracks %d)\n", sum.TotalGuesses, sum.TotalBacktracks)
	fmt.Printf("Duration:   %s (%.1f puzzles/sec)\n", sum.Duration, sum.PerSecond)

	// Point at the first few problem rows.
	shown := 0
	for i := range results {
		res := &results[i]
		if !res.Mismatch && res.Status != engine.StatusUnsolvable && res.Err == nil {
			continue
		}
		if shown == 10 {
			fmt.Println("  ...")
			break
		}
		switch {
		case res.Mismatch:
			fmt.Printf("  line %d: solution differs from the dataset\n", res.Job.Line)
		case res.Err != nil:
			fmt.Printf("  line %d: %v\n", res.Job.Line, res.Err)
		}
		shown++
	}
}
