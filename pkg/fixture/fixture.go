// Package fixture compiles declarative input/output text blocks into
// executable checks by re-running the full driver pipeline and diffing
// the rendered output against the expected block.
package fixture

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/aretw0/casegrid/pkg/domain"
	"github.com/aretw0/casegrid/pkg/reader"
)

// Fixture is a named bundle of input text and the output it must produce.
// Input and Expected are de-indented independently before use, so fixtures
// can be declared inline in indented source.
type Fixture struct {
	Name     string `mapstructure:"name"`
	Cases    int    `mapstructure:"cases"`
	Input    string `mapstructure:"input"`
	Expected string `mapstructure:"expected"`

	// WantError inverts the check: the fixture passes iff the pipeline
	// fails. Used for inputs that must be rejected.
	WantError bool `mapstructure:"error"`
}

// Pipeline runs input text through the full driver pipeline and returns
// the rendered output text. The driver facade supplies it so fixtures
// exercise the exact production path.
type Pipeline func(ctx context.Context, input string) (string, error)

// MismatchError reports rendered output that differs from a fixture's
// expected block.
type MismatchError struct {
	Fixture   string
	Expected  string
	Actual    string
	FirstCase int // first differing case index, 0 when not determinable
	Diff      string
}

func (e *MismatchError) Error() string {
	at := ""
	if e.FirstCase > 0 {
		at = fmt.Sprintf(" (first difference at case %d)", e.FirstCase)
	}
	return fmt.Sprintf("fixture %q: output mismatch%s\n%s", e.Fixture, at, e.Diff)
}

// Check compiles and runs one fixture: de-indent both blocks, verify the
// declared case count against the input block's own count before any
// dispatch happens, run the pipeline, and byte-compare the output.
func Check(ctx context.Context, f Fixture, run Pipeline, seg reader.Segmenter) error {
	input := normalize(f.Input)
	expected := normalize(f.Expected)

	cases, err := reader.Read(strings.NewReader(input), seg)
	if err != nil {
		if f.WantError {
			return nil
		}
		return domain.Formatf("fixture %q: %v", f.Name, err)
	}
	if f.Cases != len(cases) {
		return domain.Formatf("fixture %q declares %d cases but its input block holds %d",
			f.Name, f.Cases, len(cases))
	}

	actual, err := run(ctx, input)
	if f.WantError {
		if err == nil {
			return fmt.Errorf("fixture %q: expected the pipeline to fail, but it produced output", f.Name)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("fixture %q: %w", f.Name, err)
	}

	if actual != expected {
		return &MismatchError{
			Fixture:   f.Name,
			Expected:  expected,
			Actual:    actual,
			FirstCase: firstDiffCase(expected, actual),
			Diff:      unifiedDiff(expected, actual),
		}
	}
	return nil
}

// Report is the outcome of one fixture check.
type Report struct {
	Name    string
	Err     error
	Elapsed time.Duration
}

// Passed reports whether the fixture check succeeded.
func (r Report) Passed() bool {
	return r.Err == nil
}

// CheckAll runs every fixture. One fixture's failure never prevents its
// siblings from running.
func CheckAll(ctx context.Context, fixtures []Fixture, run Pipeline, seg reader.Segmenter) []Report {
	reports := make([]Report, 0, len(fixtures))
	for _, f := range fixtures {
		start := time.Now()
		err := Check(ctx, f, run, seg)
		reports = append(reports, Report{
			Name:    f.Name,
			Err:     err,
			Elapsed: time.Since(start),
		})
	}
	return reports
}

// normalize de-indents a block and drops the single leading newline that
// inline raw-string literals carry.
func normalize(block string) string {
	return strings.TrimPrefix(Dedent(block), "\n")
}

var caseLine = regexp.MustCompile(`^Case #(\d+): `)

// firstDiffCase finds the case index of the first differing output line,
// when the line carries the standard prefix.
func firstDiffCase(expected, actual string) int {
	expLines := strings.Split(expected, "\n")
	actLines := strings.Split(actual, "\n")

	n := len(expLines)
	if len(actLines) > n {
		n = len(actLines)
	}
	for i := 0; i < n; i++ {
		var exp, act string
		if i < len(expLines) {
			exp = expLines[i]
		}
		if i < len(actLines) {
			act = actLines[i]
		}
		if exp == act {
			continue
		}
		for _, line := range []string{exp, act} {
			if m := caseLine.FindStringSubmatch(line); m != nil {
				index, _ := strconv.Atoi(m[1])
				return index
			}
		}
		return 0
	}
	return 0
}

func unifiedDiff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("expected:\n%s\nactual:\n%s", expected, actual)
	}
	return diff
}
