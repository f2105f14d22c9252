// Package observability exposes run metrics for long or repeated driver
// runs. Collectors are fed by the dispatcher's timing hook, so they share
// the profiler's transparency guarantee.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/casegrid/pkg/domain"
)

// Metrics holds the prometheus collectors for one driver.
type Metrics struct {
	casesTotal    prometheus.Counter
	parseDuration prometheus.Histogram
	solveDuration prometheus.Histogram
}

// NewMetrics registers the casegrid collectors with reg, labeled by
// driver name.
func NewMetrics(reg prometheus.Registerer, driver string) *Metrics {
	labels := prometheus.Labels{"driver": driver}

	m := &Metrics{
		casesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "casegrid_cases_solved_total",
			Help:        "Total number of cases solved.",
			ConstLabels: labels,
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "casegrid_parse_duration_seconds",
			Help:        "Time spent in the user's parse callback.",
			ConstLabels: labels,
		}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "casegrid_solve_duration_seconds",
			Help:        "Time spent in the user's solve callback.",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(m.casesTotal, m.parseDuration, m.solveDuration)
	return m
}

// Observe records one solved case. It matches the dispatcher's timing
// hook signature.
func (m *Metrics) Observe(t domain.Timing) {
	m.casesTotal.Inc()
	m.parseDuration.Observe(t.Parse.Seconds())
	m.solveDuration.Observe(t.Solve.Seconds())
}
