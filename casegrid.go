package casegrid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/casegrid/pkg/dispatch"
	"github.com/aretw0/casegrid/pkg/domain"
	"github.com/aretw0/casegrid/pkg/fixture"
	"github.com/aretw0/casegrid/pkg/observability"
	"github.com/aretw0/casegrid/pkg/ports"
	"github.com/aretw0/casegrid/pkg/reader"
)

// Driver is the high-level entry point for the casegrid library. It holds
// the run-wide configuration built once at startup and threads it through
// every mode.
type Driver struct {
	name        string
	solver      ports.Solver
	segmenter   reader.Segmenter
	workers     int
	failFast    bool
	profile     bool
	logger      *slog.Logger
	cache       ports.ResultCache
	fixtures    []fixture.Fixture
	fixtureGlob string
	statusAddr  string
	observers   []func(domain.Timing)

	registry *prometheus.Registry
	metrics  *observability.Metrics

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu        sync.Mutex
	status    domain.RunStatus
	total     int
	completed int
}

// Option defines a functional option for configuring the Driver.
type Option func(*Driver)

// WithSegmenter sets the segmentation rule for multi-line case formats.
// The default consumes one line per case.
func WithSegmenter(seg reader.Segmenter) Option {
	return func(d *Driver) {
		d.segmenter = seg
	}
}

// WithWorkers enables concurrent dispatch. n <= 0 means one worker per
// CPU; 1 keeps dispatch sequential. The --workers flag overrides this
// per invocation.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n <= 0 {
			n = dispatch.DefaultWorkers()
		}
		d.workers = n
	}
}

// WithFailFast stops submitting new cases after the first observed
// failure in concurrent mode. In-flight cases still finish.
func WithFailFast() Option {
	return func(d *Driver) {
		d.failFast = true
	}
}

// WithProfiling always collects per-case timings, as if --profile were
// passed on every run.
func WithProfiling() Option {
	return func(d *Driver) {
		d.profile = true
	}
}

// WithLogger sets a custom structured logger. The default logs to stderr
// at the level chosen by --log-level.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithResultCache memoizes rendered results keyed by the driver name and
// a digest of the case text, so unchanged cases skip the solve on
// repeated runs.
func WithResultCache(cache ports.ResultCache) Option {
	return func(d *Driver) {
		d.cache = cache
	}
}

// WithFixtures registers fixtures for --test mode and for Compile-based
// test files.
func WithFixtures(fixtures ...fixture.Fixture) Option {
	return func(d *Driver) {
		d.fixtures = append(d.fixtures, fixtures...)
	}
}

// WithFixtureGlob additionally loads YAML fixture files matching the
// pattern (typically "testdata/*.yaml") in --test mode.
func WithFixtureGlob(pattern string) Option {
	return func(d *Driver) {
		d.fixtureGlob = pattern
	}
}

// WithStatusAddr starts an introspection HTTP server on addr for the
// duration of a run, serving /status, /metrics and /healthz.
func WithStatusAddr(addr string) Option {
	return func(d *Driver) {
		d.statusAddr = addr
	}
}

// WithObserver registers an extra per-case timing sink, e.g.
// observability.Metrics. Observers never affect results.
func WithObserver(fn func(domain.Timing)) Option {
	return func(d *Driver) {
		d.observers = append(d.observers, fn)
	}
}

// WithIO overrides the standard streams, mainly for tests and embedding.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(d *Driver) {
		d.stdin = stdin
		d.stdout = stdout
		d.stderr = stderr
	}
}

// New initializes a Driver for the named program around the given solver
// pair.
func New(name string, solver ports.Solver, opts ...Option) (*Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("driver name is required")
	}
	if solver == nil {
		return nil, fmt.Errorf("a solver is required")
	}

	d := &Driver{
		name:    name,
		solver:  solver,
		workers: 1,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		status:  domain.StatusIdle,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.statusAddr != "" {
		d.registry = prometheus.NewRegistry()
		d.metrics = observability.NewMetrics(d.registry, name)
	}
	return d, nil
}

// Name returns the program name the driver was built with.
func (d *Driver) Name() string {
	return d.name
}

// Fixtures returns the registered fixtures.
func (d *Driver) Fixtures() []fixture.Fixture {
	return d.fixtures
}

// Segmenter returns the active segmentation rule, nil meaning one line
// per case.
func (d *Driver) Segmenter() reader.Segmenter {
	return d.segmenter
}

// cacheKey derives the memoization key for one case.
func (d *Driver) cacheKey(c domain.Case) string {
	sum := sha256.Sum256([]byte(d.name + "\x00" + c.Text))
	return d.name + ":" + hex.EncodeToString(sum[:])
}

func (d *Driver) beginRun(total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = domain.StatusRunning
	d.total = total
	d.completed = 0
}

func (d *Driver) noteCompleted() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.completed++
}

func (d *Driver) endRun(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.status = domain.StatusFailed
	} else {
		d.status = domain.StatusDone
	}
}

func combineObservers(fns []func(domain.Timing)) func(domain.Timing) {
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func(t domain.Timing) {
		for _, fn := range fns {
			fn(t)
		}
	}
}
