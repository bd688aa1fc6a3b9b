package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/engine"
	"github.com/cnpp-xyz/go-cnpp/layout"
	"github.com/cnpp-xyz/go-cnpp/parser"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
	"github.com/cnpp-xyz/go-cnpp/steplog"
	"github.com/cnpp-xyz/go-cnpp/store"
)

func solve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	layoutName := fs.String("layout", "", "Treat the input as grid text on this catalog layout")
	parallel := fs.Int("parallel", 1, "Workers for parallel root branching in the search fallback")
	tracePath := fs.String("trace", "", "Write the step trace to this .csv or .jsonl file")
	storePath := fs.String("store", "", "Record the run in this SQLite database")
	outputJSON := fs.Bool("json", false, "Output the result as JSON")
	verbose := fs.Bool("v", false, "Verbose diagnostics")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cnpp solve [options] <puzzle>

Solve a JSON puzzle document or, with --layout, a grid text file.
Deduction runs the strategy battery in priority order; when it stalls,
the search fallback branches on the most constrained cell.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # JSON document
  cnpp solve puzzle.json

  # Grid text on a catalog layout
  cnpp solve --layout classic grid.txt

  # Keep the step trace and record the run
  cnpp solve --trace steps.jsonl --store runs.db puzzle.json
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

	st, err := candidate.NewStore(puz, givens)
	if err != nil {
		return err
	}

	collector := steplog.NewCollector()
	eng := engine.New().WithLogger(log).WithStepFunc(collector.Collect)
	res, err := engine.NewSolver(eng).
		WithParallel(*parallel).
		WithLogger(log).
		Solve(context.Background(), st)
	if err != nil {
		return err
	}

	if *tracePath != "" {
		if err := writeTrace(*tracePath, collector.Records()); err != nil {
			return fmt.Errorf("write trace: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Trace written to %s\n", *tracePath)
	}
	if *storePath != "" {
		id, err := recordRun(*storePath, l, puz, givens, res)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Run %s recorded\n", id)
	}

	if *outputJSON {
		if err := printSolveJSON(res); err != nil {
			return err
		}
	} else {
		printSolveResult(l, res)
	}

	if res.Status != engine.StatusSolved {
		return res.Err()
	}
	return nil
}

// loadPuzzle reads either a JSON puzzle document or, when layoutName is
// set, plain grid text. The layout is nil for raw group documents.
func loadPuzzle(path, layoutName string) (*layout.Layout, *puzzle.Puzzle, map[int]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read puzzle: %w", err)
	}
	var doc *parser.Document
	if layoutName != "" {
		doc = &parser.Document{Layout: layoutName, Grid: string(data)}
	} else {
		doc, err = parser.FromJSON(data)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return doc.Build()
}

func writeTrace(path string, recs []steplog.Record) error {
	if strings.HasSuffix(path, ".jsonl") {
		return steplog.SaveJSONL(path, recs)
	}
	return steplog.SaveCSV(path, recs)
}

func recordRun(path string, l *layout.Layout, puz *puzzle.Puzzle, givens map[int]int, res *engine.Result) (string, error) {
	db, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	run := &store.Run{
		Fingerprint: puz.Fingerprint(givens),
		Layout:      puz.Name(),
		Status:      res.Status.String(),
		Givens:      gridText(l, givensValues(puz.Cells(), givens)),
		Guesses:     res.Guesses,
		Backtracks:  res.Backtracks,
		Steps:       res.Steps,
		Duration:    res.Duration,
	}
	if res.Status == engine.StatusSolved {
		run.Solution = gridText(l, res.Solution)
	}
	if err := db.Insert(run); err != nil {
		return "", err
	}
	return run.ID, nil
}

// givensValues spreads a givens map over a zeroed grid.
func givensValues(n int, givens map[int]int) []int {
	values := make([]int, n)
	for c, v := range givens {
		values[c] = v
	}
	return values
}

// gridText renders values as a single compact row when the domain
// allows it, as token lines otherwise, and as JSON without a layout.
func gridText(l *layout.Layout, values []int) string {
	if l == nil {
		data, _ := json.Marshal(values)
		return string(data)
	}
	if s, err := parser.FormatCompact(l, values); err == nil {
		return s
	}
	return strings.TrimRight(parser.Format(l, values), "\n")
}

func printSolveResult(l *layout.Layout, res *engine.Result) {
	fmt.Println("=== Solve ===")
	fmt.Printf("Status:   %s\n", res.Status)
	fmt.Printf("Steps:    %d\n", res.Steps)
	fmt.Printf("Guesses:  %d (backtracks %d, max depth %d)\n",
		res.Guesses, res.Backtracks, res.MaxDepth)
	fmt.Printf("Duration: %s\n", res.Duration)

	if len(res.ByStrategy) > 0 {
		names := make([]string, 0, len(res.ByStrategy))
		for name := range res.ByStrategy {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Strategies:")
		for _, name := range names {
			fmt.Printf("  %-20s %d\n", name, res.ByStrategy[name])
		}
	}

	if res.Status != engine.StatusSolved {
		return
	}
	fmt.Println()
	if l != nil {
		fmt.Print(parser.Format(l, res.Solution))
	} else {
		fmt.Printf("Solution: %v\n", res.Solution)
	}
}

func printSolveJSON(res *engine.Result) error {
	payload := struct {
		Status     string         `json:"status"`
		Steps      int            `json:"steps"`
		Guesses    int            `json:"guesses"`
		Backtracks int            `json:"backtracks"`
		MaxDepth   int            `json:"max_depth"`
		DurationMs int64          `json:"duration_ms"`
		ByStrategy map[string]int `json:"by_strategy,omitempty"`
		Solution   []int          `json:"solution,omitempty"`
	}{
		Status:     res.Status.String(),
		Steps:      res.Steps,
		Guesses:    res.Guesses,
		Backtracks: res.Backtracks,
		MaxDepth:   res.MaxDepth,
		DurationMs: res.Duration.Milliseconds(),
		ByStrategy: res.ByStrategy,
		Solution:   res.Solution,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
