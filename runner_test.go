package casegrid_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/casegrid"
	"github.com/aretw0/casegrid/pkg/fixture"
)

func newBufferedDriver(t *testing.T, stdin string, opts ...casegrid.Option) (*casegrid.Driver, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	opts = append(opts, casegrid.WithIO(strings.NewReader(stdin), &stdout, &stderr))
	d, err := casegrid.New("sums", sums, opts...)
	require.NoError(t, err)
	return d, &stdout, &stderr
}

func TestRun_StreamMode(t *testing.T) {
	d, stdout, _ := newBufferedDriver(t, "2\n1 2 3\n40 2\n")

	require.NoError(t, d.Run(context.Background(), []string{"-"}))
	assert.Equal(t, "Case #1: 6\nCase #2: 42\n", stdout.String())
}

func TestRun_StreamModeConcurrentMatchesSequential(t *testing.T) {
	input := "5\n1\n1 2\n1 2 3\n1 2 3 4\n1 2 3 4 5\n"

	seq, seqOut, _ := newBufferedDriver(t, input)
	require.NoError(t, seq.Run(context.Background(), []string{"-"}))

	con, conOut, _ := newBufferedDriver(t, input)
	require.NoError(t, con.Run(context.Background(), []string{"--workers", "4", "-"}))

	assert.Equal(t, seqOut.String(), conOut.String())
}

func TestRun_FileMode(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "in.txt")
	outfile := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(infile, []byte("1\n2 2\n"), 0o644))

	d, _, _ := newBufferedDriver(t, "")
	require.NoError(t, d.Run(context.Background(), []string{infile, outfile}))

	got, err := os.ReadFile(outfile)
	require.NoError(t, err)
	assert.Equal(t, "Case #1: 4\n", string(got))
}

func TestRun_FileModeMissingInput(t *testing.T) {
	d, _, _ := newBufferedDriver(t, "")
	err := d.Run(context.Background(), []string{filepath.Join(t.TempDir(), "absent.txt")})
	assert.Error(t, err)
}

func TestRun_StreamModeFormatErrorIsFatal(t *testing.T) {
	d, stdout, _ := newBufferedDriver(t, "2\nonly one case\n")

	err := d.Run(context.Background(), []string{"-"})
	require.Error(t, err)
	assert.Zero(t, stdout.Len(), "no output lines may be written for malformed input")
}

func TestRun_InteractiveResilience(t *testing.T) {
	// The first entry fails to solve; the loop must report it and keep
	// accepting input.
	d, stdout, stderr := newBufferedDriver(t, "not a number\n1 2 3\nexit\n")

	require.NoError(t, d.Run(context.Background(), nil))

	assert.Contains(t, stderr.String(), "error:")
	assert.Equal(t, "Case #1: 6\n", stdout.String())
}

func TestRun_InteractiveEOFEndsSession(t *testing.T) {
	d, stdout, _ := newBufferedDriver(t, "4 4\n")

	require.NoError(t, d.Run(context.Background(), nil))
	assert.Equal(t, "Case #1: 8\n", stdout.String())
}

func TestRun_InteractiveRejectsWorkers(t *testing.T) {
	d, _, _ := newBufferedDriver(t, "")
	err := d.Run(context.Background(), []string{"--workers", "4"})
	assert.Error(t, err)
}

func TestRun_TestModePasses(t *testing.T) {
	d, _, stderr := newBufferedDriver(t, "",
		casegrid.WithFixtures(fixtureOK()))

	require.NoError(t, d.Run(context.Background(), []string{"--test"}))
	assert.Contains(t, stderr.String(), "1 fixtures, 0 failures")
}

func TestRun_TestModeFailureSetsExitError(t *testing.T) {
	d, _, stderr := newBufferedDriver(t, "",
		casegrid.WithFixtures(fixtureOK(), fixtureWrong()))

	err := d.Run(context.Background(), []string{"--test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 fixtures failed")
	assert.Contains(t, stderr.String(), "first difference at case 1")
}

func TestRun_TestModeLoadsYAMLFixtures(t *testing.T) {
	dir := t.TempDir()
	doc := "- name: from yaml\n  cases: 1\n  input: \"1\\n20 22\\n\"\n  expected: \"Case #1: 42\\n\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sums.yaml"), []byte(doc), 0o644))

	d, _, stderr := newBufferedDriver(t, "",
		casegrid.WithFixtureGlob(filepath.Join(dir, "*.yaml")))

	require.NoError(t, d.Run(context.Background(), []string{"--test"}))
	assert.Contains(t, stderr.String(), "from yaml")
}

func TestRun_TestModeWithoutFixtures(t *testing.T) {
	d, _, _ := newBufferedDriver(t, "")
	err := d.Run(context.Background(), []string{"--test"})
	assert.Error(t, err)
}

func TestRun_ProfileFlagPrintsTable(t *testing.T) {
	d, stdout, stderr := newBufferedDriver(t, "1\n1 1\n")

	require.NoError(t, d.Run(context.Background(), []string{"--profile", "-"}))

	assert.Equal(t, "Case #1: 2\n", stdout.String(), "profiling must not change results")
	assert.Contains(t, stderr.String(), "| Case | Parse | Solve | Total |")
}

func fixtureOK() fixture.Fixture {
	return fixture.Fixture{
		Name:     "adds up",
		Cases:    1,
		Input:    "1\n20 22\n",
		Expected: "Case #1: 42\n",
	}
}

func fixtureWrong() fixture.Fixture {
	return fixture.Fixture{
		Name:     "off by one",
		Cases:    1,
		Input:    "1\n20 22\n",
		Expected: "Case #1: 43\n",
	}
}
