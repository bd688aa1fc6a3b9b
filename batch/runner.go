package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cnpp-xyz/go-cnpp/candidate"
	"github.com/cnpp-xyz/go-cnpp/engine"
	"github.com/cnpp-xyz/go-cnpp/layout"
	"github.com/cnpp-xyz/go-cnpp/parser"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
	"github.com/cnpp-xyz/go-cnpp/store"
)

// Result is the outcome of one job.
type Result struct {
	Job         Job
	Fingerprint string
	Status      engine.Status
	Solution    []int
	Guesses     int
	Backtracks  int
	Steps       int
	Duration    time.Duration
	Cached      bool
	Mismatch    bool
	Err         error
}

// Summary aggregates one dataset run. Failed counts rows that neither
// solved nor exhausted the search: contradictions, stalls, and rejected
// givens.
type Summary struct {
	Jobs            int
	Solved          int
	Unsolvable      int
	Failed          int
	Mismatches      int
	CacheHits       int
	TotalGuesses    int
	TotalBacktracks int
	TotalSteps      int
	Duration        time.Duration
	PerSecond       float64
}

// Runner solves dataset jobs on a bounded worker pool.
type Runner struct {
	layout  *layout.Layout
	eng     *engine.Engine
	workers int
	cache   *GridCache
	runs    *store.Store
	verify  bool
	log     zerolog.Logger
}

// NewRunner creates a runner for l with the stock strategy battery and
// four workers.
func NewRunner(l *layout.Layout) *Runner {
	return &Runner{
		layout:  l,
		eng:     engine.New(),
		workers: 4,
		log:     zerolog.Nop(),
	}
}

// WithWorkers bounds the pool. Values below 1 keep the current bound.
func (r *Runner) WithWorkers(n int) *Runner {
	if n > 0 {
		r.workers = n
	}
	return r
}

// WithEngine swaps the strategy battery used for every job.
func (r *Runner) WithEngine(eng *engine.Engine) *Runner {
	r.eng = eng
	return r
}

// WithCache memoizes solved grids across jobs.
func (r *Runner) WithCache(c *GridCache) *Runner {
	r.cache = c
	return r
}

// WithStore persists each finished run.
func (r *Runner) WithStore(s *store.Store) *Runner {
	r.runs = s
	return r
}

// WithVerify compares solutions against the dataset's expected grids.
func (r *Runner) WithVerify(on bool) *Runner {
	r.verify = on
	return r
}

// WithLogger attaches a logger for progress and mismatch reporting.
func (r *Runner) WithLogger(log zerolog.Logger) *Runner {
	r.log = log
	return r
}

// Run solves every job and returns per-job results in input order plus
// an aggregate summary. Bad rows land in their Result; Run itself fails
// only on cancellation, a broken layout, or a persistence error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, *Summary, error) {
	puz, err := r.layout.Puzzle()
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	results := make([]Result, len(jobs))

	var storeMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := r.runJob(gctx, puz, job)
			if err != nil {
				return err
			}
			results[i] = res

			if r.runs != nil && res.Status != engine.StatusRunning {
				storeMu.Lock()
				err = r.runs.Insert(runRecord(r.layout, res))
				storeMu.Unlock()
				if err != nil {
					return fmt.Errorf("persist line %d: %w", job.Line, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sum := summarize(results, time.Since(start))
	r.log.Info().
		Int("jobs", sum.Jobs).
		Int("solved", sum.Solved).
		Int("unsolvable", sum.Unsolvable).
		Int("cache_hits", sum.CacheHits).
		Int("mismatches", sum.Mismatches).
		Float64("per_second", sum.PerSecond).
		Msg("batch finished")
	return results, sum, nil
}

func (r *Runner) runJob(ctx context.Context, puz *puzzle.Puzzle, job Job) (Result, error) {
	out := Result{Job: job, Fingerprint: puz.Fingerprint(job.Givens)}

	if r.cache != nil {
		if grid, ok := r.cache.Get(out.Fingerprint); ok {
			out.Status = engine.StatusSolved
			out.Solution = grid
			out.Cached = true
			out.Mismatch = r.mismatch(job, grid)
			return out, nil
		}
	}

	st, err := candidate.NewStore(puz, job.Givens)
	if err != nil {
		out.Err = err
		if errors.Is(err, candidate.ErrContradiction) {
			out.Status = engine.StatusContradiction
		}
		r.log.Debug().Int("line", job.Line).Err(err).Msg("rejected givens")
		return out, nil
	}

	res, err := engine.NewSolver(r.eng).Solve(ctx, st)
	if err != nil {
		return out, err
	}

	out.Status = res.Status
	out.Solution = res.Solution
	out.Guesses = res.Guesses
	out.Backtracks = res.Backtracks
	out.Steps = res.Steps
	out.Duration = res.Duration
	if res.Status != engine.StatusSolved {
		out.Err = res.Err()
		return out, nil
	}

	if r.cache != nil {
		r.cache.Put(out.Fingerprint, res.Solution)
	}
	out.Mismatch = r.mismatch(job, res.Solution)
	if out.Mismatch {
		r.log.Warn().Int("line", job.Line).Msg("solution differs from the dataset")
	}
	return out, nil
}

func (r *Runner) mismatch(job Job, solution []int) bool {
	if !r.verify || job.Expected == nil || len(solution) != len(job.Expected) {
		return false
	}
	for i := range solution {
		if solution[i] != job.Expected[i] {
			return true
		}
	}
	return false
}

func runRecord(l *layout.Layout, res Result) *store.Run {
	run := &store.Run{
		ID:          res.Job.ID,
		Fingerprint: res.Fingerprint,
		Layout:      l.Name,
		Status:      res.Status.String(),
		Givens:      res.Job.Raw,
		Guesses:     res.Guesses,
		Backtracks:  res.Backtracks,
		Steps:       res.Steps,
		Duration:    res.Duration,
	}
	if res.Status == engine.StatusSolved {
		run.Solution = gridText(l, res.Solution)
	}
	return run
}

// gridText prefers the compact row form and falls back to tokens for
// domains past 9.
func gridText(l *layout.Layout, values []int) string {
	if s, err := parser.FormatCompact(l, values); err == nil {
		return s
	}
	return parser.Format(l, values)
}

func summarize(results []Result, elapsed time.Duration) *Summary {
	sum := &Summary{Jobs: len(results), Duration: elapsed}
	for i := range results {
		res := &results[i]
		switch res.Status {
		case engine.StatusSolved:
			sum.Solved++
		case engine.StatusUnsolvable:
			sum.Unsolvable++
		default:
			sum.Failed++
		}
		if res.Mismatch {
			sum.Mismatches++
		}
		if res.Cached {
			sum.CacheHits++
		}
		sum.TotalGuesses += res.Guesses
		sum.TotalBacktracks += res.Backtracks
		sum.TotalSteps += res.Steps
	}
	if secs := elapsed.Seconds(); secs > 0 {
		sum.PerSecond = float64(sum.Jobs) / secs
	}
	return sum
}
