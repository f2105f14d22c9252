package ports

import "context"

// Solver is the capability pair a program supplies to the driver:
// turn one case's raw text into structured data, then solve it.
// The driver treats both values as opaque; results only need to render
// as text. Implementations must not share mutable state between cases
// when the driver runs concurrently.
type Solver interface {
	Parse(ctx context.Context, index int, raw string) (any, error)
	Solve(ctx context.Context, index int, parsed any) (any, error)
}

// SolverFuncs adapts plain functions to the Solver interface.
// A nil ParseFunc passes the raw case text through unchanged.
type SolverFuncs struct {
	ParseFunc func(ctx context.Context, index int, raw string) (any, error)
	SolveFunc func(ctx context.Context, index int, parsed any) (any, error)
}

// Parse implements Solver.
func (s SolverFuncs) Parse(ctx context.Context, index int, raw string) (any, error) {
	if s.ParseFunc == nil {
		return raw, nil
	}
	return s.ParseFunc(ctx, index, raw)
}

// Solve implements Solver.
func (s SolverFuncs) Solve(ctx context.Context, index int, parsed any) (any, error) {
	return s.SolveFunc(ctx, index, parsed)
}

// ResultCache memoizes rendered case results between runs, keyed by the
// driver name and a digest of the case text. Get reports a miss with
// found == false rather than an error.
type ResultCache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
