// Package steplog records the effects a solve applies, in order, for
// replay and analysis. A Collector plugs into the engine's step hook;
// traces write out as CSV or JSONL and read back for inspection.
package steplog

import (
	"sync"

	"github.com/cnpp-xyz/go-cnpp/engine"
	"github.com/cnpp-xyz/go-cnpp/strategy"
)

// Record is one applied effect of a solve.
type Record struct {
	Seq        int    `json:"seq"`
	Depth      int    `json:"depth"`
	Strategy   string `json:"strategy"`
	Kind       string `json:"kind"`
	Cell       int    `json:"cell"`
	Value      int    `json:"value,omitempty"`
	Eliminated []int  `json:"eliminated,omitempty"`
}

// Effect kinds a record can carry. Guess and backtrack events reuse
// the assign and eliminate shapes.
const (
	KindAssign    = "assign"
	KindEliminate = "eliminate"
)

// Collector gathers records from an engine run. It is safe for
// concurrent use, so one collector can also observe a parallel search.
type Collector struct {
	mu   sync.Mutex
	recs []Record
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Collect is the engine.StepFunc to install via WithStepFunc.
func (c *Collector) Collect(step engine.Step) {
	rec := Record{
		Depth:    step.Depth,
		Strategy: step.Strategy,
		Cell:     step.Effect.Cell,
	}
	switch step.Effect.Kind {
	case strategy.EffectAssign:
		rec.Kind = KindAssign
		rec.Value = step.Effect.Value
	case strategy.EffectEliminate:
		rec.Kind = KindEliminate
		rec.Eliminated = step.Effect.Values.Values()
	}

	c.mu.Lock()
	rec.Seq = len(c.recs) + 1
	c.recs = append(c.recs, rec)
	c.mu.Unlock()
}

// Records returns a copy of everything collected so far.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.recs))
	copy(out, c.recs)
	return out
}

// Len returns the number of collected records.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.recs)
}

// Reset drops all collected records.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.recs = nil
	c.mu.Unlock()
}

// Summary aggregates a trace.
type Summary struct {
	Total        int
	Assigns      int
	Eliminations int
	Guesses      int
	Backtracks   int
	MaxDepth     int
	ByStrategy   map[string]int
}

// Summarize tallies a trace per strategy and per effect kind. Guess and
// backtrack events count separately from deduction effects.
func Summarize(recs []Record) Summary {
	sum := Summary{Total: len(recs), ByStrategy: make(map[string]int)}
	for _, rec := range recs {
		if rec.Depth > sum.MaxDepth {
			sum.MaxDepth = rec.Depth
		}
		switch rec.Strategy {
		case engine.StepGuess:
			sum.Guesses++
			continue
		case engine.StepBacktrack:
			sum.Backtracks++
			continue
		}
		sum.ByStrategy[rec.Strategy]++
		switch rec.Kind {
		case KindAssign:
			sum.Assigns++
		case KindEliminate:
			sum.Eliminations++
		}
	}
	return sum
}
