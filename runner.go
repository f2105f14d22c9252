package casegrid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	introspection "github.com/aretw0/casegrid/internal/adapters/http"
	"github.com/aretw0/casegrid/internal/cli"
	"github.com/aretw0/casegrid/internal/logging"
	"github.com/aretw0/casegrid/internal/presentation/tui"
	"github.com/aretw0/casegrid/pkg/dispatch"
	"github.com/aretw0/casegrid/pkg/domain"
	"github.com/aretw0/casegrid/pkg/fixture"
	"github.com/aretw0/casegrid/pkg/output"
	"github.com/aretw0/casegrid/pkg/ports"
	"github.com/aretw0/casegrid/pkg/profile"
	"github.com/aretw0/casegrid/pkg/reader"
)

// Main builds a Driver and runs it against os.Args, exiting the process
// on failure. It is the whole main function of a typical program.
func Main(name string, solver ports.Solver, opts ...Option) {
	d, err := New(name, solver, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := d.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Run parses args and executes the selected mode: interactive when no
// arguments are given, stream for "-", file mode for one or two paths,
// and the fixture suite for --test.
func (d *Driver) Run(ctx context.Context, args []string) error {
	cmd := cli.NewCommand(d.name, "batch case driver for "+d.name, d.runMode)
	cmd.SetArgs(args)
	cmd.SetOut(d.stderr)
	cmd.SetErr(d.stderr)
	return cmd.ExecuteContext(ctx)
}

func (d *Driver) runMode(ctx context.Context, opts cli.Options) error {
	if d.logger == nil {
		d.logger = logging.New(logging.ParseLevel(opts.LogLevel)).With("driver", d.name)
	}

	if d.statusAddr != "" {
		serveCtx, stop := context.WithCancel(ctx)
		defer stop()
		handler := introspection.NewHandler(d.statusSnapshot, d.registry)
		go func() {
			if err := introspection.Serve(serveCtx, d.statusAddr, handler, d.logger); err != nil {
				d.logger.Error("introspection server failed", "err", err)
			}
		}()
	}

	workers := d.workers
	if opts.Workers != 1 {
		// The flag is capped at the CPU count; more workers than cores
		// cannot make CPU-bound solves faster.
		workers = opts.Workers
		if workers <= 0 || workers > dispatch.DefaultWorkers() {
			workers = dispatch.DefaultWorkers()
		}
	}
	profiled := d.profile || opts.Profile

	switch opts.Mode {
	case cli.ModeTest:
		return d.runTests(ctx)
	case cli.ModeInteractive:
		return d.runInteractive(ctx)
	case cli.ModeStream:
		return d.execute(ctx, d.stdin, d.stdout, workers, profiled)
	default:
		return d.runFile(ctx, opts.Infile, opts.Outfile, workers, profiled)
	}
}

func (d *Driver) runFile(ctx context.Context, infile, outfile string, workers int, profiled bool) error {
	in := d.stdin
	if infile != "-" {
		f, err := os.Open(infile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := d.stdout
	if outfile != "" {
		f, err := os.Create(outfile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return d.execute(ctx, in, out, workers, profiled)
}

// execute runs one full pipeline pass: read cases, dispatch, render.
// Output lines are streamed in index order as results finalize, so the
// sink holds valid output up to the last completed case even when a
// later case fails.
func (d *Driver) execute(ctx context.Context, in io.Reader, out io.Writer, workers int, profiled bool) error {
	if d.logger == nil {
		// Pipeline can be exercised outside Run (fixture compilation).
		d.logger = logging.NewNop()
	}

	cases, err := reader.Read(in, d.segmenter)
	if err != nil {
		d.endRun(err)
		return err
	}
	d.beginRun(len(cases))
	d.logger.Debug("cases read", "count", len(cases), "workers", workers)

	observers := append([]func(domain.Timing){}, d.observers...)
	if d.metrics != nil {
		observers = append(observers, d.metrics.Observe)
	}
	var prof *profile.Profiler
	if profiled {
		prof = profile.New()
		observers = append(observers, prof.Observe)
	}

	disp := &dispatch.Dispatcher{
		Workers:  workers,
		FailFast: d.failFast,
		Logger:   d.logger,
		Observe:  combineObservers(observers),
		OnResult: func(index int, value any) error {
			if err := output.WriteCase(out, index, value); err != nil {
				return err
			}
			d.noteCompleted()
			return nil
		},
	}
	if d.cache != nil {
		disp.Cache = d.cache
		disp.CacheKey = d.cacheKey
	}

	_, err = disp.Run(ctx, d.solver, cases)
	d.endRun(err)

	if prof != nil {
		d.printProfile(prof)
	}
	return err
}

// Pipeline returns this driver's pipeline as a fixture.Pipeline, so test
// files can compile fixtures against the exact production path.
func (d *Driver) Pipeline() fixture.Pipeline {
	return func(ctx context.Context, input string) (string, error) {
		var buf bytes.Buffer
		err := d.execute(ctx, strings.NewReader(input), &buf, d.workers, false)
		return buf.String(), err
	}
}

func (d *Driver) runTests(ctx context.Context) error {
	fixtures := append([]fixture.Fixture{}, d.fixtures...)
	if d.fixtureGlob != "" {
		loaded, err := fixture.LoadGlob(d.fixtureGlob)
		if err != nil {
			return err
		}
		fixtures = append(fixtures, loaded...)
	}
	if len(fixtures) == 0 {
		return errors.New("no fixtures registered: use WithFixtures or WithFixtureGlob")
	}

	reports := fixture.CheckAll(ctx, fixtures, d.Pipeline(), d.segmenter)

	failures := 0
	for _, r := range reports {
		fmt.Fprintf(d.stderr, "%s\t%s (%s)\n", tui.Marker(d.stderr, r.Passed()), r.Name, r.Elapsed.Round(time.Microsecond))
		if !r.Passed() {
			failures++
			fmt.Fprintf(d.stderr, "\t%v\n", r.Err)
		}
	}
	fmt.Fprintf(d.stderr, "%d fixtures, %d failures\n", len(reports), failures)

	if failures > 0 {
		return fmt.Errorf("%d of %d fixtures failed", failures, len(reports))
	}
	return nil
}

// runInteractive accepts one ad hoc case per loop iteration. A malformed
// entry reports an error and loops back; EOF or "exit"/"quit" ends the
// session.
func (d *Driver) runInteractive(ctx context.Context) error {
	lines := reader.NewLines(d.stdin)
	seg := d.segmenter
	if seg == nil {
		seg = reader.SingleLine{}
	}

	disp := &dispatch.Dispatcher{
		Logger:  d.logger,
		Observe: combineObservers(d.observers),
	}
	if d.cache != nil {
		disp.Cache = d.cache
		disp.CacheKey = d.cacheKey
	}

	fmt.Fprintf(d.stderr, "%s: interactive mode, one case per entry ('exit' or EOF to quit)\n", d.name)

	index := 1
	for {
		fmt.Fprint(d.stderr, "> ")

		first, ok := lines.Next()
		if !ok {
			break
		}
		switch strings.TrimSpace(first) {
		case "exit", "quit":
			return nil
		case "":
			continue
		}
		lines.Unread(first)

		text, err := seg.Segment(lines)
		if err != nil {
			fmt.Fprintf(d.stderr, "%s %v\n", tui.ErrorLabel(d.stderr), err)
			if errors.Is(err, reader.ErrExhausted) {
				return nil // input ended mid-case
			}
			continue
		}

		results, err := disp.Run(ctx, d.solver, []domain.Case{{Index: index, Text: text}})
		if err != nil {
			fmt.Fprintf(d.stderr, "%s %v\n", tui.ErrorLabel(d.stderr), err)
			continue
		}
		if err := output.WriteCase(d.stdout, index, results[0]); err != nil {
			return err
		}
		index++
	}
	return nil
}

func (d *Driver) printProfile(prof *profile.Profiler) {
	table := prof.MarkdownTable()
	if f, ok := d.stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if rendered, err := tui.NewMarkdownRenderer()(table); err == nil {
			table = rendered
		}
	}
	fmt.Fprint(d.stderr, table)
}

func (d *Driver) statusSnapshot() introspection.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return introspection.Status{
		Driver:    d.name,
		Status:    string(d.status),
		Total:     d.total,
		Completed: d.completed,
	}
}
