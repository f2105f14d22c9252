// Package profile collects per-case timings as a pure side channel:
// enabling it never changes results, ordering, or error behavior.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/casegrid/pkg/domain"
)

// Profiler accumulates timings. Safe for concurrent use by pool workers.
type Profiler struct {
	mu      sync.Mutex
	timings []domain.Timing
}

// New creates an empty profiler.
func New() *Profiler {
	return &Profiler{}
}

// Observe records one case timing. It matches the dispatcher's Observe
// hook signature.
func (p *Profiler) Observe(t domain.Timing) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timings = append(p.timings, t)
}

// Timings returns the recorded entries sorted by case index.
func (p *Profiler) Timings() []domain.Timing {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.Timing, len(p.timings))
	copy(out, p.timings)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Summary aggregates a run's timings.
type Summary struct {
	Cases   int
	Total   time.Duration
	Max     time.Duration
	Mean    time.Duration
	Slowest int // case index of the slowest case, 0 when empty
}

// Summarize computes the aggregate view of everything observed so far.
func (p *Profiler) Summarize() Summary {
	timings := p.Timings()

	s := Summary{Cases: len(timings)}
	for _, t := range timings {
		total := t.Total()
		s.Total += total
		if total > s.Max {
			s.Max = total
			s.Slowest = t.Index
		}
	}
	if s.Cases > 0 {
		s.Mean = s.Total / time.Duration(s.Cases)
	}
	return s
}

// MarkdownTable renders the per-case table plus the aggregate line as
// markdown, ready for a terminal renderer or a plain sink.
func (p *Profiler) MarkdownTable() string {
	timings := p.Timings()
	s := p.Summarize()

	var b strings.Builder
	b.WriteString("| Case | Parse | Solve | Total |\n")
	b.WriteString("|-----:|------:|------:|------:|\n")
	for _, t := range timings {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", t.Index, t.Parse, t.Solve, t.Total())
	}
	fmt.Fprintf(&b, "\n%d cases in %s (max %s on case %d, mean %s)\n",
		s.Cases, s.Total, s.Max, s.Slowest, s.Mean)
	return b.String()
}
