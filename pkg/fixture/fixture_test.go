package fixture_test

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casegrid/pkg/dispatch"
	"github.com/aretw0/casegrid/pkg/domain"
	"github.com/aretw0/casegrid/pkg/fixture"
	"github.com/aretw0/casegrid/pkg/output"
	"github.com/aretw0/casegrid/pkg/ports"
	"github.com/aretw0/casegrid/pkg/reader"
)

// evenSumSolver answers with total-min when the total is even and NO
// otherwise. Each case is "N" followed by a line of N integers.
var evenSumSolver = ports.SolverFuncs{
	ParseFunc: func(_ context.Context, _ int, raw string) (any, error) {
		lines := strings.SplitN(raw, "\n", 2)
		fields := strings.Fields(lines[1])
		values := make([]int, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	},
	SolveFunc: func(_ context.Context, _ int, parsed any) (any, error) {
		values := parsed.([]int)
		total, min := 0, values[0]
		for _, v := range values {
			total += v
			if v < min {
				min = v
			}
		}
		if total%2 != 0 {
			return "NO", nil
		}
		return total - min, nil
	},
}

func pipeline(solver ports.Solver, seg reader.Segmenter) fixture.Pipeline {
	return func(ctx context.Context, input string) (string, error) {
		cases, err := reader.Read(strings.NewReader(input), seg)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		d := &dispatch.Dispatcher{
			OnResult: func(index int, value any) error {
				return output.WriteCase(&buf, index, value)
			},
		}
		_, err = d.Run(ctx, solver, cases)
		return buf.String(), err
	}
}

func TestCheck_Passes(t *testing.T) {
	f := fixture.Fixture{
		Name:  "sample",
		Cases: 2,
		Input: `
			2
			5
			1 2 3 4 5
			3
			3 5 6
		`,
		Expected: `
			Case #1: NO
			Case #2: 11
		`,
	}

	err := fixture.Check(context.Background(), f, pipeline(evenSumSolver, reader.FixedLines(2)), reader.FixedLines(2))
	assert.NoError(t, err)
}

func TestCheck_MismatchReportsCaseIndex(t *testing.T) {
	f := fixture.Fixture{
		Name:  "wrong-case-2",
		Cases: 2,
		Input: `
			2
			5
			1 2 3 4 5
			3
			3 5 6
		`,
		Expected: `
			Case #1: NO
			Case #2: 12
		`,
	}

	err := fixture.Check(context.Background(), f, pipeline(evenSumSolver, reader.FixedLines(2)), reader.FixedLines(2))

	var mismatch *fixture.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.FirstCase)
	assert.Contains(t, mismatch.Diff, "-Case #2: 12")
	assert.Contains(t, mismatch.Diff, "+Case #2: 11")
}

func TestCheck_SingleCase(t *testing.T) {
	f := fixture.Fixture{
		Name:     "single",
		Cases:    1,
		Input:    "1\n1\n1\n",
		Expected: "Case #1: NO\n",
	}

	err := fixture.Check(context.Background(), f, pipeline(evenSumSolver, reader.FixedLines(2)), reader.FixedLines(2))
	assert.NoError(t, err)
}

func TestCheck_DeclaredCountMismatchRejectedBeforeDispatch(t *testing.T) {
	dispatched := false
	run := func(ctx context.Context, input string) (string, error) {
		dispatched = true
		return "", nil
	}

	f := fixture.Fixture{
		Name:     "liar",
		Cases:    3,
		Input:    "1\n1\n1\n",
		Expected: "Case #1: NO\n",
	}

	err := fixture.Check(context.Background(), f, run, reader.FixedLines(2))

	var fe *domain.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), `"liar"`)
	assert.Contains(t, fe.Error(), "declares 3 cases but its input block holds 1")
	assert.False(t, dispatched, "count mismatch must be caught before the pipeline runs")
}

func TestCheck_WantError(t *testing.T) {
	run := pipeline(evenSumSolver, nil)

	passes := fixture.Fixture{
		Name:      "bad count line",
		Input:     "zero\n",
		WantError: true,
	}
	assert.NoError(t, fixture.Check(context.Background(), passes, run, nil))

	fails := fixture.Fixture{
		Name:      "unexpectedly fine",
		Cases:     1,
		Input:     "1\n1\n1\n",
		WantError: true,
	}
	err := fixture.Check(context.Background(), fails, pipeline(evenSumSolver, reader.FixedLines(2)), reader.FixedLines(2))
	assert.Error(t, err)
}

func TestCheckAll_SiblingIsolation(t *testing.T) {
	run := pipeline(evenSumSolver, reader.FixedLines(2))
	fixtures := []fixture.Fixture{
		{Name: "fails", Cases: 1, Input: "1\n1\n1\n", Expected: "Case #1: YES\n"},
		{Name: "passes", Cases: 1, Input: "1\n1\n1\n", Expected: "Case #1: NO\n"},
	}

	reports := fixture.CheckAll(context.Background(), fixtures, run, reader.FixedLines(2))
	require.Len(t, reports, 2)

	assert.False(t, reports[0].Passed())
	assert.True(t, reports[1].Passed(), "a failing fixture must not prevent its sibling from running")
}

func TestCompile_GeneratesSubtests(t *testing.T) {
	fixture.Compile(t, []fixture.Fixture{
		{Name: "compiled single", Cases: 1, Input: "1\n1\n1\n", Expected: "Case #1: NO\n"},
	}, pipeline(evenSumSolver, reader.FixedLines(2)), reader.FixedLines(2))
}
