// Package dispatch runs a solver over an ordered set of cases, either
// sequentially or across a fixed-size worker pool.
//
// The ordering invariant lives here: results land in a pre-sized slot
// array indexed by case number, never in completion order, so downstream
// output is positional no matter how workers are scheduled.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/casegrid/pkg/domain"
	"github.com/aretw0/casegrid/pkg/ports"
)

// Dispatcher executes the parse+solve pair per case.
// The zero value runs sequentially with no observers.
type Dispatcher struct {
	// Workers is the pool size. Values <= 1 mean sequential execution on
	// the calling goroutine. DefaultWorkers gives a sensible pool size.
	Workers int

	// FailFast stops submitting new cases after the first observed
	// failure. In-flight cases always run to completion; there is no
	// forced cancellation.
	FailFast bool

	// Observe, when set, receives one Timing per successfully solved
	// case. It may be called from multiple goroutines.
	Observe func(domain.Timing)

	// OnResult, when set, is called in strict index order as results
	// finalize, so a sink can stream valid output even if a later case
	// fails. A non-nil return stops further delivery and fails the run.
	OnResult func(index int, value any) error

	// Cache, when set, short-circuits parse+solve for cases whose
	// rendered result is already known. Keys come from CacheKey.
	Cache    ports.ResultCache
	CacheKey func(c domain.Case) string

	// Logger is used for debug logging only. Nil means silent.
	Logger *slog.Logger
}

// DefaultWorkers is the pool size used when concurrency is requested
// without an explicit size.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Run dispatches every case and returns results aligned with the input:
// result[i] belongs to cases[i]. On failure the returned error is the
// lowest-indexed one, always a *domain.CaseError for user failures;
// results for cases that completed are still populated.
func (d *Dispatcher) Run(ctx context.Context, solver ports.Solver, cases []domain.Case) ([]any, error) {
	if d.Workers <= 1 || len(cases) < 2 {
		return d.runSequential(ctx, solver, cases)
	}
	return d.runPool(ctx, solver, cases)
}

func (d *Dispatcher) runSequential(ctx context.Context, solver ports.Solver, cases []domain.Case) ([]any, error) {
	results := make([]any, len(cases))
	for i, c := range cases {
		value, err := d.execute(ctx, solver, c)
		if err != nil {
			return results, err
		}
		results[i] = value
		if d.OnResult != nil {
			if err := d.OnResult(c.Index, value); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

func (d *Dispatcher) runPool(ctx context.Context, solver ports.Solver, cases []domain.Case) ([]any, error) {
	workers := d.Workers
	if workers > len(cases) {
		workers = len(cases)
	}
	d.logf("starting worker pool", "workers", workers, "cases", len(cases))

	results := make([]any, len(cases))
	errs := make([]error, len(cases))

	// Ordered flush state: next is the first slot not yet delivered to
	// OnResult; done marks filled slots. Guarded by flushMu.
	var flushMu sync.Mutex
	done := make([]bool, len(cases))
	next := 0
	var sinkErr error

	flush := func() {
		if d.OnResult == nil {
			return
		}
		for next < len(cases) && done[next] && errs[next] == nil && sinkErr == nil {
			if err := d.OnResult(next+1, results[next]); err != nil {
				sinkErr = err
				return
			}
			next++
		}
	}

	var failed atomic.Bool
	jobs := make(chan domain.Case)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				value, err := d.execute(ctx, solver, c)

				flushMu.Lock()
				if err != nil {
					errs[c.Index-1] = err
					failed.Store(true)
				} else {
					results[c.Index-1] = value
				}
				done[c.Index-1] = true
				flush()
				flushMu.Unlock()
			}
		}()
	}

	for _, c := range cases {
		if d.FailFast && failed.Load() {
			d.logf("fail-fast: halting submissions", "at_case", c.Index)
			break
		}
		jobs <- c
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	if sinkErr != nil {
		return results, sinkErr
	}
	return results, nil
}

// execute runs parse then solve for one case, consulting the cache and
// recording timings. User panics are captured as case errors so one bad
// case cannot take down a worker.
func (d *Dispatcher) execute(ctx context.Context, solver ports.Solver, c domain.Case) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.CaseError{Index: c.Index, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	var key string
	if d.Cache != nil && d.CacheKey != nil {
		key = d.CacheKey(c)
		cached, found, cacheErr := d.Cache.Get(ctx, key)
		if cacheErr != nil {
			d.logf("cache get failed", "case", c.Index, "err", cacheErr)
		} else if found {
			d.logf("cache hit", "case", c.Index)
			return cached, nil
		}
	}

	start := time.Now()
	parsed, err := solver.Parse(ctx, c.Index, c.Text)
	parseDur := time.Since(start)
	if err != nil {
		return nil, &domain.CaseError{Index: c.Index, Err: err}
	}

	start = time.Now()
	value, err = solver.Solve(ctx, c.Index, parsed)
	solveDur := time.Since(start)
	if err != nil {
		return nil, &domain.CaseError{Index: c.Index, Err: err}
	}

	if d.Observe != nil {
		d.Observe(domain.Timing{Index: c.Index, Parse: parseDur, Solve: solveDur})
	}
	if key != "" {
		if cacheErr := d.Cache.Set(ctx, key, fmt.Sprint(value)); cacheErr != nil {
			d.logf("cache set failed", "case", c.Index, "err", cacheErr)
		}
	}
	return value, nil
}

func (d *Dispatcher) logf(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Debug(msg, args...)
	}
}
